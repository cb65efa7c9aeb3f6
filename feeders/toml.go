package feeders

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// TomlFeeder is a feeder that reads TOML files
type TomlFeeder struct {
	Path string
}

func NewTomlFeeder(filePath string) TomlFeeder {
	return TomlFeeder{Path: filePath}
}

// Feed decodes the file into target.
func (t TomlFeeder) Feed(target any) error {
	data, err := readFile(t.Path, "toml")
	if err != nil {
		return err
	}
	if err := toml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to decode toml file %s: %w", t.Path, err)
	}
	return nil
}

// FeedKey reads a TOML file and extracts a specific key
func (t TomlFeeder) FeedKey(key string, target any) error {
	return feedKey(t, key, target, toml.Marshal, toml.Unmarshal, "toml")
}
