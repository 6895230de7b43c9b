package preference

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// HistoryFileName is the interaction history file inside the application
// data root.
const HistoryFileName = "history.yaml"

// History records the interaction state carried across runs.
type History struct {
	LastAccessedLedger string `yaml:"last-accessed-ledger"`
}

// LoadHistory reads the history file at path.
func LoadHistory(path string) (History, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return History{}, errors.Wrap(err, "read history file")
	}

	var h History
	if err := yaml.Unmarshal(raw, &h); err != nil {
		return History{}, errors.Wrapf(ErrCorrupted, "parse history file: %v", err)
	}
	return h, nil
}

// Save writes the history to path.
func (h History) Save(path string) error {
	raw, err := yaml.Marshal(h)
	if err != nil {
		return errors.Wrap(err, "encode history")
	}
	return errors.Wrap(os.WriteFile(path, raw, 0o644), "write history file")
}

// LoadHistoryOrInit loads the history at path, falling back to an empty
// one when the file is missing or corrupted.
func LoadHistoryOrInit(path string) (History, error) {
	h, err := LoadHistory(path)
	if err == nil {
		return h, nil
	}
	if !os.IsNotExist(errors.Cause(err)) && !errors.Is(err, ErrCorrupted) {
		return History{}, err
	}
	return History{}, nil
}
