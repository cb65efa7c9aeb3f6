package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/GoCodeAlone/modhook"
	"github.com/GoCodeAlone/modhook/hosttest"
)

var (
	ErrUnknownFormKind = errors.New("unknown form kind")
	ErrUnknownMessage  = errors.New("unknown lifecycle message")
	ErrUnknownHitFlag  = errors.New("unknown hit flag")
	ErrEmptyStep       = errors.New("scenario step has no action")
	ErrBadFormID       = errors.New("invalid form id")
)

// Scenario is a scripted host session: the forms the host knows about and
// the sequence of messages and events it delivers.
type Scenario struct {
	Runtime string         `yaml:"runtime"`
	Forms   []FormSpec     `yaml:"forms"`
	Steps   []ScenarioStep `yaml:"steps"`
}

// FormSpec declares one form. IDs are hexadecimal, as the host prints them.
type FormSpec struct {
	ID       string `yaml:"id"`
	EditorID string `yaml:"editorID"`
	Name     string `yaml:"name"`
	Kind     string `yaml:"kind"`
	Player   bool   `yaml:"player"`
	Dead     bool   `yaml:"dead"`
}

// ScenarioStep holds exactly one action.
type ScenarioStep struct {
	Message    string     `yaml:"message"`
	RawMessage *uint32    `yaml:"rawMessage"`
	Hit        *HitSpec   `yaml:"hit"`
	Equip      *EquipSpec `yaml:"equip"`
	Kill       string     `yaml:"kill"`
	Remove     string     `yaml:"remove"`
}

// HitSpec describes a hit event. Empty IDs are sent as zero handles.
type HitSpec struct {
	Target string   `yaml:"target"`
	Cause  string   `yaml:"cause"`
	Source string   `yaml:"source"`
	Damage float32  `yaml:"damage"`
	Flags  []string `yaml:"flags"`
}

// EquipSpec describes an equip or unequip event.
type EquipSpec struct {
	Actor    string `yaml:"actor"`
	Item     string `yaml:"item"`
	Equipped bool   `yaml:"equipped"`
}

var hitFlags = map[string]modhook.HitFlag{
	"power_attack": modhook.HitFlagPowerAttack,
	"sneak_attack": modhook.HitFlagSneakAttack,
	"bash_attack":  modhook.HitFlagBashAttack,
	"blocked":      modhook.HitFlagHitBlocked,
}

var formKinds = map[string]modhook.FormType{
	"weapon": modhook.FormTypeWeapon,
	"armor":  modhook.FormTypeArmor,
	"misc":   modhook.FormTypeMisc,
}

// LoadScenario reads a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	return &s, nil
}

func parseFormID(s string) (modhook.FormID, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrBadFormID, s, err)
	}
	return modhook.FormID(v), nil
}

// NewHost builds a simulated host populated with the scenario's forms.
func (s *Scenario) NewHost(opts ...hosttest.Option) (*hosttest.Host, error) {
	if s.Runtime != "" {
		v, err := modhook.ParseVersion(s.Runtime)
		if err != nil {
			return nil, fmt.Errorf("scenario runtime: %w", err)
		}
		opts = append([]hosttest.Option{hosttest.WithRuntime(v)}, opts...)
	}
	host := hosttest.New(opts...)

	for _, f := range s.Forms {
		id, err := parseFormID(f.ID)
		if err != nil {
			return nil, err
		}
		switch kind := strings.ToLower(f.Kind); kind {
		case "actor", "":
			actor := host.Table.AddActor(id, f.EditorID, f.Name)
			if f.Dead {
				actor.Kill()
			}
			if f.Player {
				host.Table.SetPlayer(actor)
			}
		case "spell":
			host.Table.Add(&hosttest.Spell{ID: id, Editor: f.EditorID, Label: f.Name}, f.EditorID)
		default:
			typ, ok := formKinds[kind]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownFormKind, f.Kind)
			}
			host.Table.AddItem(id, f.EditorID, f.Name, typ)
		}
	}
	return host, nil
}

// Play runs every step against host and returns how many steps ran.
func (s *Scenario) Play(host *hosttest.Host) (int, error) {
	for i, step := range s.Steps {
		if err := step.apply(host); err != nil {
			return i, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return len(s.Steps), nil
}

func (st ScenarioStep) apply(host *hosttest.Host) error {
	switch {
	case st.Message != "":
		kind, ok := modhook.ParseMessageKind(st.Message)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownMessage, st.Message)
		}
		host.Send(kind)
	case st.RawMessage != nil:
		host.Send(modhook.MessageKind(*st.RawMessage))
	case st.Hit != nil:
		event, err := st.Hit.event()
		if err != nil {
			return err
		}
		host.FireHit(event)
	case st.Equip != nil:
		event, err := st.Equip.event()
		if err != nil {
			return err
		}
		host.FireEquip(event)
	case st.Kill != "":
		id, err := parseFormID(st.Kill)
		if err != nil {
			return err
		}
		if actor, ok := modhook.As[*hosttest.Actor](host.Table.LookupByID(id)); ok {
			actor.Kill()
		}
	case st.Remove != "":
		id, err := parseFormID(st.Remove)
		if err != nil {
			return err
		}
		host.Table.Remove(id)
	default:
		return ErrEmptyStep
	}
	return nil
}

func (h HitSpec) event() (modhook.HitEvent, error) {
	var (
		e   modhook.HitEvent
		err error
	)
	if e.Target, err = parseFormID(h.Target); err != nil {
		return e, err
	}
	if e.Cause, err = parseFormID(h.Cause); err != nil {
		return e, err
	}
	if e.Source, err = parseFormID(h.Source); err != nil {
		return e, err
	}
	e.Damage = h.Damage
	for _, name := range h.Flags {
		flag, ok := hitFlags[strings.ToLower(name)]
		if !ok {
			return e, fmt.Errorf("%w: %q", ErrUnknownHitFlag, name)
		}
		e.Flags |= flag
	}
	return e, nil
}

func (q EquipSpec) event() (modhook.EquipEvent, error) {
	var (
		e   modhook.EquipEvent
		err error
	)
	if e.Actor, err = parseFormID(q.Actor); err != nil {
		return e, err
	}
	if e.BaseObject, err = parseFormID(q.Item); err != nil {
		return e, err
	}
	e.Equipped = q.Equipped
	return e, nil
}
