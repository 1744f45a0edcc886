// Package config loads grpctypes project files.
//
// A project file is YAML:
//
//	patterns:
//	  - protos/**/*.proto
//	out: web/src/rpc.d.ts
//	serialize:
//	  optional: true
//	  list: false
//	types:
//	  int64: string
//	parse:
//	  alternateCommentMode: false
//	  importPaths: [third_party]
//	format:
//	  indentWidth: 4
//
// Relative patterns, import paths and the output path are resolved against
// the directory holding the file. Environment variables are expanded.
package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/broady/grpctypes"
	"github.com/broady/grpctypes/loader"
	"github.com/broady/grpctypes/pretty"
)

// DefaultFile is the project file name looked up when none is given.
const DefaultFile = "grpctypes.yaml"

var validate = validator.New()

// Config is the root of a project file.
type Config struct {
	// Patterns select the schema files.
	Patterns []string `yaml:"patterns" validate:"required,min=1,dive,required"`

	// Out is the declaration file to write. Empty means standard output.
	Out string `yaml:"out"`

	Serialize Serialize `yaml:"serialize"`

	// Types overrides the scalar type map.
	Types map[string]string `yaml:"types" validate:"dive,keys,required,endkeys,required"`

	// Parse replaces the default loader options when present.
	Parse *loader.Options `yaml:"parse"`

	Format pretty.Options `yaml:"format"`
}

// Serialize mirrors grpctypes.SerializeOptions.
type Serialize struct {
	Optional bool  `yaml:"optional"`
	List     *bool `yaml:"list"`
}

// Load reads and validates the project file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, "resolve config path")
	}
	cfg, err := Parse(data, filepath.Dir(abs))
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return cfg, nil
}

// Parse decodes a project file and resolves its relative paths against
// baseDir.
func Parse(data []byte, baseDir string) (*Config, error) {
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.resolve(baseDir)
	return &cfg, nil
}

// Validate checks the configuration's constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "validate config")
	}
	return nil
}

func (c *Config) resolve(baseDir string) {
	for i, p := range c.Patterns {
		c.Patterns[i] = join(baseDir, p)
	}
	if c.Out != "" {
		c.Out = join(baseDir, c.Out)
	}
	if c.Parse != nil {
		for i, p := range c.Parse.ImportPaths {
			c.Parse.ImportPaths[i] = join(baseDir, p)
		}
	}
}

func join(baseDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, filepath.FromSlash(path))
}

// Options converts the configuration into generation options.
func (c *Config) Options() *grpctypes.Options {
	opts := &grpctypes.Options{
		Serialize: grpctypes.SerializeOptions{
			Optional: c.Serialize.Optional,
			List:     c.Serialize.List,
		},
		Format: c.Format,
	}
	if len(c.Types) > 0 {
		opts.Types = make(map[string]string, len(c.Types))
		for k, v := range c.Types {
			opts.Types[k] = v
		}
	}
	if c.Parse != nil {
		parse := *c.Parse
		parse.ImportPaths = append([]string(nil), c.Parse.ImportPaths...)
		opts.Parse = &parse
	}
	return opts
}
