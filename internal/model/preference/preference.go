package preference

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Simmypeet/Xpen/internal/logger"
)

// FileName is the preference file inside the application data root.
const FileName = "preference.yaml"

// ErrCorrupted reports a preference or history file that exists but does
// not hold valid content.
var ErrCorrupted = errors.New("corrupted data file")

// Preference holds the user's cosmetic settings. The core treats it as an
// opaque config object; only the UI interprets the values.
type Preference struct {
	Currency             string `yaml:"currency"`
	Font                 string `yaml:"font"`
	FontColor            string `yaml:"font-color"`
	PageTextBackground   string `yaml:"page-text-background"`
	AccountLineSeparator string `yaml:"account-line-separator"`
	GenericBackground    string `yaml:"generic-background"`
	SidebarBackground    string `yaml:"sidebar-background"`
	ButtonColorPrimary   string `yaml:"button-color-primary"`
	ButtonColorDanger    string `yaml:"button-color-danger"`
}

// Default returns the built-in theme.
func Default() Preference {
	return Preference{
		Currency:             "THB",
		Font:                 "San Francisco",
		FontColor:            "#2d3436",
		PageTextBackground:   "#fab1a0",
		AccountLineSeparator: "#b2bec3",
		GenericBackground:    "#dfe6e9",
		SidebarBackground:    "#55efc4",
		ButtonColorPrimary:   "#55efc4",
		ButtonColorDanger:    "#ff7675",
	}
}

// Load reads the preference file at path. Unparseable content or an
// unknown currency is reported as ErrCorrupted; a missing file keeps its
// os error so callers can tell the two apart.
func Load(path string) (Preference, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Preference{}, errors.Wrap(err, "read preference file")
	}

	var p Preference
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return Preference{}, errors.Wrapf(ErrCorrupted, "parse preference file: %v", err)
	}
	if p.Currency != "THB" && p.Currency != "USD" {
		return Preference{}, errors.Wrapf(ErrCorrupted, "unknown currency %q", p.Currency)
	}
	return p, nil
}

// Save writes the preference to path.
func (p Preference) Save(path string) error {
	raw, err := yaml.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "encode preference")
	}
	return errors.Wrap(os.WriteFile(path, raw, 0o644), "write preference file")
}

// LoadOrInit loads the preference at path, recreating and persisting the
// default when the file is missing or corrupted.
func LoadOrInit(path string) (Preference, error) {
	p, err := Load(path)
	if err == nil {
		return p, nil
	}
	if !os.IsNotExist(errors.Cause(err)) && !errors.Is(err, ErrCorrupted) {
		return Preference{}, err
	}
	if errors.Is(err, ErrCorrupted) {
		logger.Warn("recreating default preference", zap.Error(err))
	}

	def := Default()
	if err := def.Save(path); err != nil {
		return Preference{}, err
	}
	return def, nil
}
