// Package config layers defaults for CLI flags: an optional YAML file,
// then environment variables, then the flags themselves.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/spf13/pflag"
)

// Config mirrors the persistent flags. Unset fields leave the flag default.
type Config struct {
	HashType string `yaml:"hash_type"`
	LogLevel string `yaml:"log_level"`
	Output   string `yaml:"output"`
	Workers  *int   `yaml:"workers"`
	Progress *bool  `yaml:"progress"`
	Stats    *bool  `yaml:"stats"`
	Quiet    *bool  `yaml:"quiet"`
}

func Load(path string) (*Config, error) {
	const errCtx = "loading config"

	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data), yaml.DisallowUnknownField())
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s %s: %w", errCtx, path, err)
	}
	return &c, nil
}

// Values maps flag names to the string form of every field that is set.
func (c *Config) Values() map[string]string {
	v := map[string]string{}
	if c == nil {
		return v
	}
	if c.HashType != "" {
		v["hash-type"] = c.HashType
	}
	if c.LogLevel != "" {
		v["log-level"] = c.LogLevel
	}
	if c.Output != "" {
		v["output"] = c.Output
	}
	if c.Workers != nil {
		v["workers"] = strconv.Itoa(*c.Workers)
	}
	if c.Progress != nil {
		v["progress"] = strconv.FormatBool(*c.Progress)
	}
	if c.Stats != nil {
		v["stats"] = strconv.FormatBool(*c.Stats)
	}
	if c.Quiet != nil {
		v["quiet"] = strconv.FormatBool(*c.Quiet)
	}
	return v
}

// Apply sets every flag in values that was not already set on the command
// line or from the environment. Names the flag set does not define are
// ignored, so one config file can serve every subcommand.
func Apply(fs *pflag.FlagSet, values map[string]string) error {
	for _, name := range sortedKeys(values) {
		f := fs.Lookup(name)
		if f == nil || f.Changed {
			continue
		}
		if err := f.Value.Set(values[name]); err != nil {
			return fmt.Errorf("config value for %s: %w", name, err)
		}
	}
	return nil
}

// MapEnvVarToFlag takes a mapping of env var names to flag names and sets
// each flag whose env var is non-empty. Flags set this way count as changed,
// so a config file does not override them.
func MapEnvVarToFlag(vars map[string]string, fs *pflag.FlagSet) error {
	for _, env := range sortedKeys(vars) {
		flag := vars[env]
		if fs.Lookup(flag) == nil {
			return fmt.Errorf("the %s flag doesn't exist", flag)
		}
		if fs.Changed(flag) {
			continue
		}
		if val := os.Getenv(env); val != "" {
			if err := fs.Set(flag, val); err != nil {
				return fmt.Errorf("failed to set the %s flag from %s: %w", flag, env, err)
			}
		}
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
