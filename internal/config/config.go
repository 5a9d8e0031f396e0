// Package config loads db-objects settings with the precedence
// flags > env > config file > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// AdhocDirEnv names the environment variable holding the ad-hoc script
// directory. It is unprefixed so the orchestrator's environment files keep
// working unchanged.
const AdhocDirEnv = "DBADHOCDIRECTORY"

// FileNames are looked up in the working directory when no explicit config
// path is given.
var FileNames = []string{"db-objects.yaml", "db-objects.yml"}

// Config holds every setting the extractor reads.
type Config struct {
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	Dir      string `mapstructure:"dir"`
	AdhocDir string `mapstructure:"adhoc_dir"`
	Verbose  bool   `mapstructure:"verbose"`
	Quiet    bool   `mapstructure:"quiet"`
}

// flagKeys maps config keys to the CLI flag names bound to them.
var flagKeys = map[string]string{
	"format":    "format",
	"output":    "output",
	"dir":       "dir",
	"adhoc_dir": "adhoc-dir",
	"verbose":   "verbose",
	"quiet":     "quiet",
}

// Load resolves the configuration. flags may be nil. The returned path is
// the config file that was read, or "" if none was found.
func Load(explicitPath string, flags *pflag.FlagSet) (*Config, string, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DBOBJECTS")
	v.AutomaticEnv()
	if err := v.BindEnv("adhoc_dir", AdhocDirEnv, "DBOBJECTS_ADHOC_DIR"); err != nil {
		return nil, "", fmt.Errorf("binding %s: %w", AdhocDirEnv, err)
	}

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, "", fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	searchDir := v.GetString("dir")
	configPath, err := findConfigFile(explicitPath, searchDir)
	if err != nil {
		return nil, "", err
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, configPath, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, configPath, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, configPath, err
	}
	return &cfg, configPath, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("format", "json")
	v.SetDefault("output", "")
	v.SetDefault("dir", ".")
	v.SetDefault("adhoc_dir", "")
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
}

// Validate rejects contradictory settings.
func (c *Config) Validate() error {
	if c.Verbose && c.Quiet {
		return fmt.Errorf("verbose and quiet are mutually exclusive")
	}
	if c.Dir == "" {
		c.Dir = "."
	}
	return nil
}

// findConfigFile validates an explicit path, or looks for a default file
// name in dir.
func findConfigFile(explicitPath, dir string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}
	if dir == "" {
		dir = "."
	}
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}
