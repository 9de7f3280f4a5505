package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Load reads a configuration file, dispatching on its extension, and
// validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "config file not found"}
		}
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "read config", Err: err}
	}

	var cfg *Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		cfg, err = parseYAML(data)
	case ".cue":
		cfg, err = parseCUE(data, path)
	default:
		return nil, &LoadError{Code: ErrCodeFormat, Path: path, Message: fmt.Sprintf("unsupported config extension %q", filepath.Ext(path))}
	}
	if err != nil {
		return nil, withPath(err, path)
	}

	if err := Validate(cfg); err != nil {
		return nil, withPath(err, path)
	}
	return cfg, nil
}

// Parse decodes YAML bytes on top of Default() and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg, err := parseYAML(data)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: "parse yaml", Err: err}
	}
	return cfg, nil
}

func parseCUE(data []byte, filename string) (*Config, error) {
	ctx := cuecontext.New()
	def, err := schema(ctx)
	if err != nil {
		return nil, err
	}

	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: "compile cue", Err: err}
	}

	u := def.Unify(v)
	if err := u.Validate(cue.Concrete(true)); err != nil {
		return nil, &LoadError{Code: ErrCodeSchema, Message: "schema violation", Err: err}
	}

	var cfg Config
	if err := u.Decode(&cfg); err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: "decode cue", Err: err}
	}
	return &cfg, nil
}

// Validate checks cfg against the embedded schema, then resolves the
// calibration and filter sections to catch arity and enum errors.
func Validate(cfg *Config) error {
	ctx := cuecontext.New()
	def, err := schema(ctx)
	if err != nil {
		return err
	}

	v := ctx.Encode(cfg)
	if err := v.Err(); err != nil {
		return &LoadError{Code: ErrCodeSchema, Message: "encode config", Err: err}
	}
	if err := def.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return &LoadError{Code: ErrCodeSchema, Message: "schema violation", Err: err}
	}

	if _, err := cfg.Settings(); err != nil {
		return &LoadError{Code: ErrCodeInvalid, Message: "calibration", Err: err}
	}
	if _, err := cfg.SmoothOptions(); err != nil {
		return &LoadError{Code: ErrCodeInvalid, Message: "filter", Err: err}
	}
	return nil
}

func schema(ctx *cue.Context) (cue.Value, error) {
	s := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := s.Err(); err != nil {
		return cue.Value{}, &LoadError{Code: ErrCodeSchema, Message: "compile schema", Err: err}
	}
	return s.LookupPath(cue.ParsePath("#Config")), nil
}

func withPath(err error, path string) error {
	var le *LoadError
	if errors.As(err, &le) && le.Path == "" {
		le.Path = path
	}
	return err
}
