package ledger

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Simmypeet/Xpen/internal/entity/record"
	"github.com/Simmypeet/Xpen/internal/logger"
)

// Ledger owns the month partitions found in one account directory. The
// directory base name doubles as the ledger name. Partitions are
// discovered up front but their files are only read on first access, and
// at most one store ever exists per key.
type Ledger struct {
	dir    string
	stores map[record.FileKey]*RecordStore
	keys   []record.FileKey

	// version increments on every append; cursors snapshot it at
	// construction and refuse to run once it moved on.
	version uint64
}

// New opens the ledger backed by dir and discovers its partitions from
// the directory listing. File names that do not encode a valid partition
// key are skipped.
func New(dir string) (*Ledger, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, errors.Wrapf(ErrInvalidLedgerPath, "open ledger %q", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "scan ledger directory")
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}

	return &Ledger{
		dir:    dir,
		stores: make(map[record.FileKey]*RecordStore),
		keys:   DiscoverKeys(names),
	}, nil
}

// Name is the base name of the backing directory.
func (l *Ledger) Name() string {
	return filepath.Base(l.dir)
}

// Path is the backing directory of the ledger.
func (l *Ledger) Path() string {
	return l.dir
}

// Keys returns the known partition keys sorted ascending by (year, month).
func (l *Ledger) Keys() []record.FileKey {
	out := make([]record.FileKey, len(l.keys))
	copy(out, l.keys)
	return out
}

// Version returns the append counter. Cursors compare against it to
// detect staleness.
func (l *Ledger) Version() uint64 {
	return l.version
}

// LastModified is the modification time of the backing directory, zero
// when it cannot be read.
func (l *Ledger) LastModified() time.Time {
	info, err := os.Stat(l.dir)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// GetOrCreate returns the store for key, materializing it on first
// access. Creating a fresh partition cannot fail; the only error is the
// lazy load of a discovered partition whose file is corrupted.
func (l *Ledger) GetOrCreate(key record.FileKey) (*RecordStore, error) {
	if store, ok := l.stores[key]; ok {
		return store, nil
	}

	store, err := newRecordStore(key, l.dir)
	if err != nil {
		return nil, err
	}
	l.stores[key] = store

	if !l.hasKey(key) {
		l.keys = append(l.keys, key)
		sortKeys(l.keys)
	}
	return store, nil
}

// Append records a balance change against the current balance into the
// partition for the current time and returns the stored record. Callers
// pass the delta; the ledger computes and persists the absolute balance.
// Every append invalidates the ledger's outstanding cursors.
func (l *Ledger) Append(tag string, delta decimal.Decimal, note string) (record.Record, error) {
	balance, err := l.CurrentBalance()
	if err != nil {
		return record.Record{}, err
	}

	store, err := l.GetOrCreate(record.FileKeyFor(time.Now()))
	if err != nil {
		return record.Record{}, err
	}

	rec := store.append(tag, balance.Add(delta), note)
	l.version++

	logger.Info("record appended",
		zap.String("ledger", l.Name()),
		zap.String("tag", tag),
		zap.String("balance", rec.Balance.String()))
	return rec, nil
}

// CurrentBalance is the balance of the chronologically last record across
// all partitions, or zero for a ledger with no records.
func (l *Ledger) CurrentBalance() (decimal.Decimal, error) {
	for i := len(l.keys) - 1; i >= 0; i-- {
		store, err := l.GetOrCreate(l.keys[i])
		if err != nil {
			return decimal.Zero, err
		}
		if n := store.Len(); n > 0 {
			return store.records[n-1].Balance, nil
		}
	}
	return decimal.Zero, nil
}

// Rename moves the backing directory to a sibling path with the new base
// name and marks every materialized store dirty so the next flush writes
// to the new location.
func (l *Ledger) Rename(newName string) error {
	newDir := filepath.Join(filepath.Dir(l.dir), newName)
	if err := os.Rename(l.dir, newDir); err != nil {
		return errors.Wrap(err, "rename ledger directory")
	}

	oldName := l.Name()
	l.dir = newDir
	for _, store := range l.stores {
		store.dir = newDir
		store.MarkDirty()
	}

	logger.Info("ledger renamed",
		zap.String("from", oldName),
		zap.String("to", newName))
	return nil
}

// Flush writes out every dirty partition.
func (l *Ledger) Flush() error {
	for _, store := range l.stores {
		if err := store.Flush(); err != nil {
			return errors.Wrapf(err, "flush ledger %q", l.Name())
		}
	}
	return nil
}

func (l *Ledger) hasKey(key record.FileKey) bool {
	for _, k := range l.keys {
		if k == key {
			return true
		}
	}
	return false
}
