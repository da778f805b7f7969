package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if SCOREVAULT_CONFIG is set
//  3. env (prefix SCOREVAULT_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("SCOREVAULT_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: SCOREVAULT_ADDR, SCOREVAULT_DATA_DIR, ...
	// Keys map to the flat koanf tags on the struct; underscores are
	// preserved to match them.
	envProvider := env.Provider("SCOREVAULT_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "scorevault_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	switch {
	case cfg.Addr == "":
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.DataDir == "":
		return nil, fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
	case cfg.Timezone == "":
		return nil, fmt.Errorf("%w: timezone must not be empty", ErrInvalidConfig)
	}
	return &cfg, nil
}
