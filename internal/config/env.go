package config

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// EnvPrefix starts every environment override.
const EnvPrefix = "PAGESTORM_"

// envSetter applies one environment variable to a config.
type envSetter func(cfg *Config, value string) error

// envMapping maps environment variables to the settings they override.
var envMapping = map[string]envSetter{
	EnvPrefix + "MAX_UNDO_ENTRIES": func(cfg *Config, v string) error {
		return setInt(&cfg.Editor.MaxUndoEntries, v)
	},
	EnvPrefix + "MAX_DEPTH": func(cfg *Config, v string) error {
		return setInt(&cfg.Editor.MaxDepth, v)
	},
	EnvPrefix + "TRIGGER_PREFIXES": func(cfg *Config, v string) error {
		cfg.Editor.TriggerPrefixes = splitList(v)
		return nil
	},
	EnvPrefix + "MENTION_TRAILER": func(cfg *Config, v string) error {
		cfg.Editor.MentionTrailer = v
		return nil
	},
	EnvPrefix + "LOG_LEVEL": func(cfg *Config, v string) error {
		cfg.Log.Level = v
		return nil
	},
	EnvPrefix + "LOG_FORMAT": func(cfg *Config, v string) error {
		cfg.Log.Format = v
		return nil
	},
	EnvPrefix + "LOG_FILE": func(cfg *Config, v string) error {
		cfg.Log.File = v
		return nil
	},
	EnvPrefix + "DATA_DIR": func(cfg *Config, v string) error {
		cfg.Storage.Dir = v
		return nil
	},
}

// EnvVars returns the recognised variable names, sorted.
func EnvVars() []string {
	return slices.Sorted(maps.Keys(envMapping))
}

// ApplyEnv overrides cfg with the variables lookup reports as set. Empty
// values count as set.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	for name, set := range envMapping {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		if err := set(cfg, v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func setInt(dst *int, v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return &FieldError{Field: "env", Message: fmt.Sprintf("%q is not an integer", v)}
	}
	*dst = n
	return nil
}

// splitList splits a comma-separated value, dropping empty items.
func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
