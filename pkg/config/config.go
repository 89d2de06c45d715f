// Package config loads layered configuration: embedded defaults, then
// a project-level ruleweave.toml, then RULEWEAVE_* environment
// variables, each layer overriding the last.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ruleweave/ruleweave/pkg/errors"
)

// EnvPrefix namespaces the environment variables that override
// configuration, e.g. RULEWEAVE_RULES_DIR
const EnvPrefix = "RULEWEAVE_"

// Config is the resolved application configuration
type Config struct {
	Rules    RulesConfig    `koanf:"rules"`
	Validate ValidateConfig `koanf:"validate"`
	Output   OutputConfig   `koanf:"output"`
}

// RulesConfig controls where and how rules are loaded
type RulesConfig struct {
	// Dir is the rule directory relative to the project root
	Dir string `koanf:"dir"`

	// Strict aborts loading on the first malformed rule
	Strict bool `koanf:"strict"`
}

// ValidateConfig controls validation runs
type ValidateConfig struct {
	// Concurrency bounds parallel file validations
	Concurrency int `koanf:"concurrency"`

	// FailOn is the lowest severity that fails the run
	FailOn string `koanf:"fail_on"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	// Format is "text" or "json"
	Format string `koanf:"format"`

	// Color is "auto", "always" or "never"
	Color string `koanf:"color"`
}

// Load resolves the configuration for a project root
func Load(projectRoot string) (*Config, error) {
	k, err := loadKoanf(projectRoot)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "cannot unmarshal configuration")
	}
	return &cfg, nil
}

func loadKoanf(projectRoot string) (*koanf.Koanf, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "cannot parse embedded defaults")
	}

	// Both the dotted and the plain file name work; the first found wins
	for _, name := range []string{".ruleweave.toml", "ruleweave.toml"} {
		path := filepath.Join(projectRoot, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "cannot parse %s", path)
		}
		break
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "cannot load environment overrides")
	}

	return k, nil
}

// envKey maps RULEWEAVE_VALIDATE_FAIL_ON to validate.fail_on: the first
// underscore separates the section, the rest stays a key
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(s, "_", ".", 1)
}
