package modhook

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Version is a semantic version triple.
type Version struct {
	Major uint16 `json:"major" yaml:"major" toml:"major"`
	Minor uint16 `json:"minor" yaml:"minor" toml:"minor"`
	Patch uint16 `json:"patch" yaml:"patch" toml:"patch"`
}

// ParseVersion parses "major.minor.patch". Missing trailing parts are zero.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(strings.TrimPrefix(strings.TrimSpace(s), "v"), ".")
	if len(parts) == 0 || len(parts) > 3 || parts[0] == "" {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersionString, s)
	}
	var nums [3]uint16
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 16)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersionString, s)
		}
		nums[i] = uint16(n)
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

func (v Version) IsZero() bool {
	return v == Version{}
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// RuntimeCompatibility declares how the module relates to host builds.
type RuntimeCompatibility string

const (
	// RuntimeIndependent modules run on every host build.
	RuntimeIndependent RuntimeCompatibility = "independent"
	// RuntimeBuildTied modules only run on the builds they list.
	RuntimeBuildTied RuntimeCompatibility = "build"
)

// CapabilityDescriptor is the static self-description handed to the host
// before load. Treat it as immutable; Plugin.Query returns copies.
type CapabilityDescriptor struct {
	Name               string               `json:"name" yaml:"name" toml:"name"`
	Author             string               `json:"author" yaml:"author" toml:"author"`
	Description        string               `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Version            Version              `json:"version" yaml:"version" toml:"version"`
	Compatibility      RuntimeCompatibility `json:"compatibility" yaml:"compatibility" toml:"compatibility"`
	CompatibleBuilds   []Version            `json:"compatibleBuilds,omitempty" yaml:"compatibleBuilds,omitempty" toml:"compatibleBuilds,omitempty"`
	LayoutDependent    bool                 `json:"layoutDependent" yaml:"layoutDependent" toml:"layoutDependent"`
	HasNoStructUse     bool                 `json:"hasNoStructUse" yaml:"hasNoStructUse" toml:"hasNoStructUse"`
	UsesAddressLibrary bool                 `json:"usesAddressLibrary" yaml:"usesAddressLibrary" toml:"usesAddressLibrary"`
	UsesSigScanning    bool                 `json:"usesSigScanning" yaml:"usesSigScanning" toml:"usesSigScanning"`
}

// NewDescriptor builds a descriptor from the plugin configuration.
func NewDescriptor(cfg *Config) (CapabilityDescriptor, error) {
	if cfg == nil {
		return CapabilityDescriptor{}, ErrConfigNil
	}
	version, err := ParseVersion(cfg.Version)
	if err != nil {
		return CapabilityDescriptor{}, err
	}
	builds := make([]Version, 0, len(cfg.Compat.Builds))
	for _, b := range cfg.Compat.Builds {
		v, err := ParseVersion(b)
		if err != nil {
			return CapabilityDescriptor{}, fmt.Errorf("compatible build: %w", err)
		}
		builds = append(builds, v)
	}
	return CapabilityDescriptor{
		Name:               cfg.Name,
		Author:             cfg.Author,
		Description:        cfg.Description,
		Version:            version,
		Compatibility:      RuntimeCompatibility(cfg.Compat.Mode),
		CompatibleBuilds:   builds,
		LayoutDependent:    cfg.Compat.LayoutDependent,
		HasNoStructUse:     cfg.Compat.HasNoStructUse,
		UsesAddressLibrary: cfg.Compat.AddressLibrary,
		UsesSigScanning:    cfg.Compat.SigScanning,
	}, nil
}

// Validate reports the first reason the host would refuse this descriptor.
func (d CapabilityDescriptor) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrDescriptorNameMissing
	}
	if strings.TrimSpace(d.Author) == "" {
		return ErrDescriptorAuthorMissing
	}
	if d.Version.IsZero() {
		return ErrDescriptorVersionZero
	}
	switch d.Compatibility {
	case RuntimeIndependent:
	case RuntimeBuildTied:
		if len(d.CompatibleBuilds) == 0 {
			return ErrDescriptorBuildsMissing
		}
	default:
		return fmt.Errorf("%w: %q", ErrDescriptorCompatibility, d.Compatibility)
	}
	if d.Compatibility == RuntimeIndependent && !d.UsesAddressLibrary && !d.UsesSigScanning {
		return ErrDescriptorAddressing
	}
	if d.LayoutDependent && d.HasNoStructUse {
		return ErrDescriptorLayout
	}
	return nil
}

// Supports reports whether the descriptor admits the given host build.
func (d CapabilityDescriptor) Supports(build Version) bool {
	if d.Compatibility == RuntimeIndependent {
		return true
	}
	return slices.Contains(d.CompatibleBuilds, build)
}

// clone copies the descriptor so callers cannot alias internal slices.
func (d CapabilityDescriptor) clone() CapabilityDescriptor {
	d.CompatibleBuilds = slices.Clone(d.CompatibleBuilds)
	return d
}
