package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the project file (`gallus.yaml`). Absent keys keep their
// defaults; command line flags override both.
type Config struct {
	Out         string   `yaml:"out"`
	Width       int      `yaml:"width"`
	Indent      int      `yaml:"indent"`
	CacheDir    string   `yaml:"cache"`
	Packages    []string `yaml:"packages,omitempty"`
	Diagnostics string   `yaml:"diagnostics"`
}

func Default() Config {
	cacheDir := ".gallus"
	if homeDir, err := os.UserHomeDir(); err == nil {
		cacheDir = filepath.Join(homeDir, ".gallus")
	}
	return Config{
		Out:         "build",
		Width:       80,
		Indent:      2,
		CacheDir:    cacheDir,
		Diagnostics: "text",
	}
}

// Load reads the project file over the defaults. A missing file surfaces
// as the untouched os.ReadFile error so the caller can decide whether that
// is fine.
func Load(path string) (Config, error) {
	cfg := Default()
	fileData, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(fileData, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config `%s`: %w", path, err)
	}
	return cfg.normalized(), nil
}

func (c Config) normalized() Config {
	defaults := Default()
	if c.Out == "" {
		c.Out = defaults.Out
	}
	if c.Width <= 0 {
		c.Width = defaults.Width
	}
	if c.Indent <= 0 {
		c.Indent = defaults.Indent
	}
	if c.CacheDir == "" {
		c.CacheDir = defaults.CacheDir
	}
	if c.Diagnostics != "json" {
		c.Diagnostics = defaults.Diagnostics
	}
	return c
}
