package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the cubview configuration file
// (~/.config/cubview/config.yaml). Values act as defaults and never
// override explicitly set CLI flags.
type Config struct {
	RootDir       string `yaml:"root_dir"`
	ServerAddress string `yaml:"server_address"`
	LogLevel      string `yaml:"log_level"`
	LogFormat     string `yaml:"log_format"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "cubview", "config.yaml")
}

// LoadConfig reads the config file. Returns a zero Config if the file
// doesn't exist or can't be parsed.
func LoadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

func applyLogConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

func applyServeConfig(c *cli.Command, cfg Config, addr, root *string) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	if cfg.RootDir != "" && !c.IsSet("root") {
		*root = cfg.RootDir
	}
}
