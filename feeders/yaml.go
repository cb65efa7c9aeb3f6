package feeders

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// YamlFeeder is a feeder that reads YAML files
type YamlFeeder struct {
	Path string
}

// NewYamlFeeder creates a new YamlFeeder that reads from the specified YAML file
func NewYamlFeeder(filePath string) YamlFeeder {
	return YamlFeeder{Path: filePath}
}

// Feed decodes the file into target.
func (y YamlFeeder) Feed(target any) error {
	data, err := readFile(y.Path, "yaml")
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to decode yaml file %s: %w", y.Path, err)
	}
	return nil
}

// FeedKey reads a YAML file and extracts a specific key
func (y YamlFeeder) FeedKey(key string, target any) error {
	return feedKey(y, key, target, yaml.Marshal, yaml.Unmarshal, "yaml")
}
