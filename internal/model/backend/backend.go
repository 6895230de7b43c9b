package backend

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Simmypeet/Xpen/internal/logger"
	"github.com/Simmypeet/Xpen/internal/model/ledger"
)

// Backend discovers and manages the ledgers under one application data
// directory, one subdirectory per ledger. It is the single entry point
// the UI layer talks to and owns every ledger it hands out.
type Backend struct {
	dataPath string
	ledgers  map[string]*ledger.Ledger
	current  *ledger.Ledger
}

// Summary is one row of the ledger overview.
type Summary struct {
	Name         string
	Balance      decimal.Decimal
	LastModified time.Time
}

// New opens the backend over dataPath and performs the initial ledger
// scan. The path must be an existing directory.
func New(dataPath string) (*Backend, error) {
	info, err := os.Stat(dataPath)
	if err != nil || !info.IsDir() {
		return nil, errors.Wrapf(ErrInvalidDataPath, "open backend at %q", dataPath)
	}

	b := &Backend{
		dataPath: dataPath,
		ledgers:  make(map[string]*ledger.Ledger),
	}
	if err := b.Reload(); err != nil {
		return nil, err
	}
	return b, nil
}

// DataPath returns the application data directory.
func (b *Backend) DataPath() string {
	return b.dataPath
}

// Reload scans the data directory for ledger subdirectories. Already
// tracked ledgers are kept as-is so their cursors and unflushed
// partitions survive a rescan; entries only leave the map through Delete.
func (b *Backend) Reload() error {
	entries, err := os.ReadDir(b.dataPath)
	if err != nil {
		return errors.Wrap(err, "scan data directory")
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if _, ok := b.ledgers[name]; ok {
			continue
		}
		l, err := ledger.New(filepath.Join(b.dataPath, name))
		if err != nil {
			return errors.Wrap(err, "reload ledgers")
		}
		b.ledgers[name] = l
	}
	return nil
}

// Ledgers returns all tracked ledgers sorted by name, rescanning the data
// directory first.
func (b *Backend) Ledgers() ([]*ledger.Ledger, error) {
	if err := b.Reload(); err != nil {
		return nil, err
	}

	out := make([]*ledger.Ledger, 0, len(b.ledgers))
	for _, l := range b.ledgers {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name() < out[j].Name()
	})
	return out, nil
}

// LedgerByName returns the ledger with the given name, or nil when no
// such ledger exists. The data directory is rescanned first.
func (b *Backend) LedgerByName(name string) (*ledger.Ledger, error) {
	if err := b.Reload(); err != nil {
		return nil, err
	}
	return b.ledgers[name], nil
}

// Current returns the currently selected ledger, nil when none is.
func (b *Backend) Current() *ledger.Ledger {
	return b.current
}

// SetCurrent selects l as the working ledger. l must be tracked.
func (b *Backend) SetCurrent(l *ledger.Ledger) error {
	if !b.tracked(l) {
		return errors.Wrap(ErrInvalidLedger, "set current ledger")
	}
	b.current = l
	return nil
}

// Create validates name, creates its directory and registers the new
// ledger. No partial state is left behind on a rejected name.
func (b *Backend) Create(name string) (*ledger.Ledger, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if !ValidName(name) {
		return nil, ErrInvalidName
	}
	if err := b.Reload(); err != nil {
		return nil, err
	}
	if _, ok := b.ledgers[name]; ok {
		return nil, ErrAlreadyExists
	}

	dir := filepath.Join(b.dataPath, name)
	if _, err := os.Stat(dir); err == nil {
		return nil, ErrAlreadyExists
	}
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create ledger directory")
	}

	l, err := ledger.New(dir)
	if err != nil {
		return nil, err
	}
	b.ledgers[name] = l

	logger.Info("ledger created", zap.String("name", name))
	return l, nil
}

// Rename re-keys l under newName and moves its backing directory. The
// target name must validate and must not be taken.
func (b *Backend) Rename(l *ledger.Ledger, newName string) error {
	if !b.tracked(l) {
		return errors.Wrap(ErrInvalidLedger, "rename ledger")
	}
	if newName == "" {
		return ErrEmptyName
	}
	if !ValidName(newName) {
		return ErrInvalidName
	}
	if _, ok := b.ledgers[newName]; ok {
		return ErrRenameConflict
	}
	if _, err := os.Stat(filepath.Join(b.dataPath, newName)); err == nil {
		return ErrRenameConflict
	}

	oldName := l.Name()
	if err := l.Rename(newName); err != nil {
		return err
	}
	delete(b.ledgers, oldName)
	b.ledgers[newName] = l
	return nil
}

// Delete removes l's directory tree and drops it from the backend. A
// stale handle is rejected.
func (b *Backend) Delete(l *ledger.Ledger) error {
	if err := b.Reload(); err != nil {
		return err
	}
	if !b.tracked(l) {
		return errors.Wrap(ErrInvalidLedger, "delete ledger")
	}

	if err := os.RemoveAll(l.Path()); err != nil {
		return errors.Wrap(err, "delete ledger directory")
	}
	delete(b.ledgers, l.Name())
	if b.current == l {
		b.current = nil
	}

	logger.Info("ledger deleted", zap.String("name", l.Name()))
	return nil
}

// Summaries returns the overview rows for all tracked ledgers, sorted by
// name.
func (b *Backend) Summaries() ([]Summary, error) {
	ledgers, err := b.Ledgers()
	if err != nil {
		return nil, err
	}

	out := make([]Summary, 0, len(ledgers))
	for _, l := range ledgers {
		balance, err := l.CurrentBalance()
		if err != nil {
			return nil, err
		}
		out = append(out, Summary{
			Name:         l.Name(),
			Balance:      balance,
			LastModified: l.LastModified(),
		})
	}
	return out, nil
}

// Close flushes every dirty partition of every ledger. Appends made since
// the last flush only reach disk here, so callers defer it at teardown.
func (b *Backend) Close() error {
	var firstErr error
	for _, l := range b.ledgers {
		if err := l.Flush(); err != nil {
			logger.Error("flush on close", zap.String("ledger", l.Name()), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (b *Backend) tracked(l *ledger.Ledger) bool {
	if l == nil {
		return false
	}
	return b.ledgers[l.Name()] == l
}
