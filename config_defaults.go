package modhook

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/golobby/cast"
	"gopkg.in/yaml.v3"
)

const (
	tagDefault  = "default"
	tagRequired = "required"
)

// ProcessConfigDefaults applies `default:"value"` tags to zero-valued fields.
// Values are converted to the field type with golobby/cast; slice defaults
// are comma separated.
//
//	type Config struct {
//	    Level string `default:"info"`
//	    Workers int  `default:"1"`
//	}
func ProcessConfigDefaults(cfg any) error {
	v, err := structValue(cfg)
	if err != nil {
		return err
	}
	return processStructDefaults(v)
}

func processStructDefaults(v reflect.Value) error {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanSet() {
			continue
		}

		if field.Kind() == reflect.Struct {
			if err := processStructDefaults(field); err != nil {
				return err
			}
			continue
		}

		defaultVal, hasDefault := fieldType.Tag.Lookup(tagDefault)
		if !hasDefault || !isZeroValue(field) {
			continue
		}
		if err := setDefaultValue(field, defaultVal); err != nil {
			return fmt.Errorf("failed to set default value for %s: %w", fieldType.Name, err)
		}
	}
	return nil
}

func setDefaultValue(field reflect.Value, defaultVal string) error {
	if field.Kind() == reflect.Slice {
		parts := strings.Split(defaultVal, ",")
		slice := reflect.MakeSlice(field.Type(), 0, len(parts))
		for _, p := range parts {
			elem, err := cast.FromType(strings.TrimSpace(p), field.Type().Elem())
			if err != nil {
				return fmt.Errorf("%w: %q: %w", ErrDefaultValueParseError, p, err)
			}
			slice = reflect.Append(slice, reflect.ValueOf(elem).Convert(field.Type().Elem()))
		}
		field.Set(slice)
		return nil
	}

	converted, err := cast.FromType(defaultVal, field.Type())
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrDefaultValueParseError, defaultVal, err)
	}
	field.Set(reflect.ValueOf(converted).Convert(field.Type()))
	return nil
}

// ValidateConfigRequired checks every `required:"true"` field is non-zero.
func ValidateConfigRequired(cfg any) error {
	v, err := structValue(cfg)
	if err != nil {
		return err
	}
	var missing []string
	validateRequiredFields(v, "", &missing)
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrConfigRequiredFieldMissing, strings.Join(missing, ", "))
	}
	return nil
}

func validateRequiredFields(v reflect.Value, prefix string, missing *[]string) {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)
		fieldName := fieldType.Name
		if prefix != "" {
			fieldName = prefix + "." + fieldName
		}
		if !field.CanSet() {
			continue
		}
		if field.Kind() == reflect.Struct {
			validateRequiredFields(field, fieldName, missing)
			continue
		}
		if required, ok := fieldType.Tag.Lookup(tagRequired); ok && required == "true" && isZeroValue(field) {
			*missing = append(*missing, fieldName)
		}
	}
}

func structValue(cfg any) (reflect.Value, error) {
	if cfg == nil {
		return reflect.Value{}, ErrConfigNil
	}
	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return reflect.Value{}, ErrConfigNotPointer
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, ErrConfigNotStruct
	}
	return v, nil
}

func isZeroValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	case reflect.Invalid:
		return true
	default:
		return v.IsZero()
	}
}

// GenerateSampleConfig renders a defaulted Config in yaml, json or toml.
func GenerateSampleConfig(format string) ([]byte, error) {
	sample := &Config{Name: "MyPlugin", Author: "Unknown"}
	if err := ProcessConfigDefaults(sample); err != nil {
		return nil, err
	}

	switch strings.ToLower(format) {
	case "yaml", "yml":
		data, err := yaml.Marshal(sample)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal to YAML: %w", err)
		}
		return data, nil
	case "json":
		data, err := json.MarshalIndent(sample, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal to JSON: %w", err)
		}
		return data, nil
	case "toml":
		var buf strings.Builder
		if err := toml.NewEncoder(&buf).Encode(sample); err != nil {
			return nil, fmt.Errorf("failed to marshal to TOML: %w", err)
		}
		return []byte(buf.String()), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormatType, format)
	}
}

// SaveSampleConfig writes GenerateSampleConfig output to filePath.
func SaveSampleConfig(format, filePath string) error {
	data, err := GenerateSampleConfig(format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filePath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file to %s: %w", filePath, err)
	}
	return nil
}
