package config

import (
	"os"
	"path/filepath"
)

const dataDirEnvKey = "XPEN_DATA_DIR"

type AppConfig struct {
	DataDirectory string `yaml:"data-dir"`
}

func defaultAppConfig() AppConfig {
	dir := ".xpen"
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".xpen")
	}
	return AppConfig{DataDirectory: dir}
}

func (s *AppConfig) DataDir() string {
	return s.DataDirectory
}
