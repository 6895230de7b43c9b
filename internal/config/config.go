package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	configFileEnvKey = "XPEN_CONFIG"
	configFileName   = "config.yaml"
)

type config struct {
	App AppConfig `yaml:"app"`
}

type Service struct {
	config config
}

// New reads the yaml config file named by XPEN_CONFIG, falling back to
// config.yaml under the default data directory. A missing file is not an
// error: the defaults let the application start with zero setup.
func New() (*Service, error) {
	s := &Service{config: config{App: defaultAppConfig()}}

	path := os.Getenv(configFileEnvKey)
	if path == "" {
		path = filepath.Join(s.config.App.DataDirectory, configFileName)
	}

	rawYAML, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.applyEnvOverrides()
			return s, nil
		}
		return nil, errors.Wrap(err, "reading config file")
	}

	if err = yaml.Unmarshal(rawYAML, &s.config); err != nil {
		return nil, errors.Wrap(err, "parsing yaml")
	}
	if s.config.App.DataDirectory == "" {
		s.config.App.DataDirectory = defaultAppConfig().DataDirectory
	}

	s.applyEnvOverrides()
	return s, nil
}

func (s *Service) applyEnvOverrides() {
	if dir := os.Getenv(dataDirEnvKey); dir != "" {
		s.config.App.DataDirectory = dir
	}
}

func (s *Service) App() *AppConfig {
	return &s.config.App
}
