package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	gjsonschema "github.com/google/jsonschema-go/jsonschema"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
)

//go:embed pgrubic.schema.json
var schemaJSON []byte

// SchemaJSON returns the embedded JSON Schema for the config file.
func SchemaJSON() []byte {
	out := make([]byte, len(schemaJSON))
	copy(out, schemaJSON)
	return out
}

type schemaValidator struct {
	resolved *gjsonschema.Resolved
	coercer  *coercer
}

var loadSchemaValidator = sync.OnceValues(func() (*schemaValidator, error) {
	var schema gjsonschema.Schema
	if err := json.Unmarshal(schemaJSON, &schema); err != nil {
		return nil, fmt.Errorf("parse config schema: %w", err)
	}
	resolved, err := schema.Resolve(&gjsonschema.ResolveOptions{})
	if err != nil {
		return nil, fmt.Errorf("resolve config schema: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(schemaJSON, &raw); err != nil {
		return nil, fmt.Errorf("parse raw config schema: %w", err)
	}
	return &schemaValidator{resolved: resolved, coercer: &coercer{root: raw}}, nil
})

var loadStructValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// Naming patterns must compile.
	if err := v.RegisterValidation("regexp", func(fl validator.FieldLevel) bool {
		_, err := regexp.Compile(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(err)
	}
	return v
})

func decodeConfig(raw map[string]any) (*Config, error) {
	sv, err := loadSchemaValidator()
	if err != nil {
		return nil, err
	}

	normalized, err := toJSONValue(raw)
	if err != nil {
		return nil, fmt.Errorf("convert config to JSON value: %w", err)
	}
	obj, ok := sv.coercer.coerceValue(sv.coercer.root, normalized).(map[string]any)
	if !ok {
		return nil, errors.New("config root must be a table")
	}
	if err := sv.resolved.Validate(obj); err != nil {
		return nil, fmt.Errorf("config schema validation failed: %w", err)
	}

	cfg, err := unmarshalStrict(obj)
	if err != nil {
		return nil, err
	}

	if err := loadStructValidator().Struct(cfg); err != nil {
		return nil, describeValidationError(err)
	}
	return cfg, nil
}

func unmarshalStrict(obj map[string]any) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(obj, ""), nil); err != nil {
		return nil, fmt.Errorf("load normalized config: %w", err)
	}

	cfg := &Config{}
	err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
			ErrorUnused:      true,
			WeaklyTypedInput: true,
			Result:           cfg,
			TagName:          "koanf",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func describeValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		key := strings.TrimPrefix(fe.Namespace(), "Config.")
		switch fe.Tag() {
		case "regexp":
			msgs = append(msgs, fmt.Sprintf("%s: invalid regular expression %q", key, fe.Value()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s: %q is not one of [%s]", key, fe.Value(), fe.Param()))
		case "required":
			msgs = append(msgs, key+": required")
		default:
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s", key, fe.Tag(), fe.Param()))
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func toJSONValue(value any) (any, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
