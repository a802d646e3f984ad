package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables that override file values.
const EnvPrefix = "HAPPYTOOLS_"

// Load reads the configuration file at path, applies environment overrides
// and validates the result. The decoder is chosen by extension: .yaml/.yml
// for YAML, .json for JSON. An empty path loads from the environment only.
func Load(path string) (*Config, error) {
	cfg := new(Config)
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := Decode(filepath.Ext(path), raw, cfg); err != nil {
			return nil, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	ApplyEnv(cfg, os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	zap.L().Debug("config loaded", zap.String("path", path), zap.String("base_url", cfg.BaseURL))
	return cfg, nil
}

// Decode unmarshals raw into cfg using the codec matching ext.
func Decode(ext string, raw []byte, cfg *Config) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(raw, cfg)
	case ".json":
		return json.Unmarshal(raw, cfg)
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
}

// ApplyEnv overrides cfg fields from HAPPYTOOLS_* variables returned by lookup.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	str("BASE_URL", &cfg.BaseURL)
	str("USER_ID", &cfg.UserID)
	str("TOKEN_URL", &cfg.Token.URL)
	str("CLIENT_ID", &cfg.Token.ClientID)
	str("CLIENT_SECRET", &cfg.Token.ClientSecret)

	if v, ok := lookup(EnvPrefix + "DEBUG"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = b
		} else {
			zap.L().Warn("ignoring malformed env value", zap.String("name", EnvPrefix+"DEBUG"), zap.String("value", v))
		}
	}
}
