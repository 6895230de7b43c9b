package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/Simmypeet/Xpen/internal/entity/record"
)

// Cursor walks a ledger's records chronologically in either direction and
// computes each record's balance delta on the fly. Deltas are never
// stored; only the traversal order and the two balances being subtracted
// matter.
//
// A cursor is a point-in-time snapshot: it captures the ledger's sorted
// partition keys and version at construction, and every operation fails
// with ErrInvalidatedCursor once a newer record was appended.
//
// Position is either a valid (partition, record) index pair or one of two
// sentinels: before the oldest record (fileIdx == -1) and after the
// latest record (fileIdx == len(keys)). The balance at either sentinel is
// defined as zero.
type Cursor struct {
	ledger  *Ledger
	keys    []record.FileKey
	version uint64

	fileIdx int
	recIdx  int
}

func newCursor(l *Ledger) *Cursor {
	return &Cursor{
		ledger:  l,
		keys:    l.Keys(),
		version: l.version,
	}
}

// FromOldest positions a new cursor on the first record of the first
// non-empty partition, or on the after-latest sentinel when the ledger
// has no records.
func FromOldest(l *Ledger) (*Cursor, error) {
	c := newCursor(l)
	for i := 0; i < len(c.keys); i++ {
		store, err := l.GetOrCreate(c.keys[i])
		if err != nil {
			return nil, err
		}
		if store.Len() > 0 {
			c.fileIdx, c.recIdx = i, 0
			return c, nil
		}
	}
	c.fileIdx = len(c.keys)
	return c, nil
}

// FromLatest positions a new cursor on the last record of the last
// non-empty partition, or on the before-oldest sentinel when the ledger
// has no records.
func FromLatest(l *Ledger) (*Cursor, error) {
	c := newCursor(l)
	for i := len(c.keys) - 1; i >= 0; i-- {
		store, err := l.GetOrCreate(c.keys[i])
		if err != nil {
			return nil, err
		}
		if n := store.Len(); n > 0 {
			c.fileIdx, c.recIdx = i, n-1
			return c, nil
		}
	}
	c.fileIdx = -1
	return c, nil
}

// At positions a new cursor on an existing record of the ledger, located
// through the partition key derived from its timestamp. The record must
// belong to the ledger.
func At(l *Ledger, rec record.Record) (*Cursor, error) {
	c := newCursor(l)
	key := record.FileKeyFor(rec.Date)
	for i, k := range c.keys {
		if k != key {
			continue
		}
		store, err := l.GetOrCreate(k)
		if err != nil {
			return nil, err
		}
		for j, candidate := range store.records {
			if sameRecord(candidate, rec) {
				c.fileIdx, c.recIdx = i, j
				return c, nil
			}
		}
	}
	return nil, ErrRecordNotFound
}

func sameRecord(a, b record.Record) bool {
	return a.Date.Equal(b.Date) &&
		a.Balance.Equal(b.Balance) &&
		a.Tag == b.Tag &&
		a.Note == b.Note
}

// Peek returns the record at the current position paired with its balance
// delta, or nil on a sentinel. The cursor does not move.
func (c *Cursor) Peek() (*record.Delta, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	if !c.onRecord() {
		return nil, nil
	}

	store, err := c.ledger.GetOrCreate(c.keys[c.fileIdx])
	if err != nil {
		return nil, err
	}
	rec := store.records[c.recIdx]

	prevBalance := decimal.Zero
	fileIdx, recIdx, ok, err := c.prevPosition()
	if err != nil {
		return nil, err
	}
	if ok {
		prevStore, err := c.ledger.GetOrCreate(c.keys[fileIdx])
		if err != nil {
			return nil, err
		}
		prevBalance = prevStore.records[recIdx].Balance
	}

	return &record.Delta{Record: rec, Diff: rec.Balance.Sub(prevBalance)}, nil
}

// StepBackward moves the position one record toward older, skipping empty
// partitions and falling through to the before-oldest sentinel.
func (c *Cursor) StepBackward() error {
	if err := c.check(); err != nil {
		return err
	}
	fileIdx, recIdx, ok, err := c.prevPosition()
	if err != nil {
		return err
	}
	if !ok {
		c.fileIdx, c.recIdx = -1, 0
		return nil
	}
	c.fileIdx, c.recIdx = fileIdx, recIdx
	return nil
}

// StepForward moves the position one record toward newer, skipping empty
// partitions and falling through to the after-latest sentinel.
func (c *Cursor) StepForward() error {
	if err := c.check(); err != nil {
		return err
	}
	fileIdx, recIdx, ok, err := c.nextPosition()
	if err != nil {
		return err
	}
	if !ok {
		c.fileIdx, c.recIdx = len(c.keys), 0
		return nil
	}
	c.fileIdx, c.recIdx = fileIdx, recIdx
	return nil
}

// Previous reads the current record and moves one step toward older.
func (c *Cursor) Previous() (*record.Delta, error) {
	delta, err := c.Peek()
	if err != nil {
		return nil, err
	}
	if err := c.StepBackward(); err != nil {
		return nil, err
	}
	return delta, nil
}

// Next reads the current record and moves one step toward newer.
func (c *Cursor) Next() (*record.Delta, error) {
	delta, err := c.Peek()
	if err != nil {
		return nil, err
	}
	if err := c.StepForward(); err != nil {
		return nil, err
	}
	return delta, nil
}

func (c *Cursor) check() error {
	if c.version != c.ledger.version {
		return ErrInvalidatedCursor
	}
	return nil
}

func (c *Cursor) onRecord() bool {
	return c.fileIdx >= 0 && c.fileIdx < len(c.keys)
}

// prevPosition computes the position one record toward older without
// moving the cursor. ok reports whether a record exists there; false
// means the before-oldest sentinel.
func (c *Cursor) prevPosition() (fileIdx, recIdx int, ok bool, err error) {
	if c.fileIdx < 0 {
		return 0, 0, false, nil
	}
	if c.onRecord() && c.recIdx > 0 {
		return c.fileIdx, c.recIdx - 1, true, nil
	}
	for i := c.fileIdx - 1; i >= 0; i-- {
		store, err := c.ledger.GetOrCreate(c.keys[i])
		if err != nil {
			return 0, 0, false, err
		}
		if n := store.Len(); n > 0 {
			return i, n - 1, true, nil
		}
	}
	return 0, 0, false, nil
}

// nextPosition is the mirror image of prevPosition; false means the
// after-latest sentinel.
func (c *Cursor) nextPosition() (fileIdx, recIdx int, ok bool, err error) {
	if c.fileIdx >= len(c.keys) {
		return 0, 0, false, nil
	}
	if c.onRecord() {
		store, err := c.ledger.GetOrCreate(c.keys[c.fileIdx])
		if err != nil {
			return 0, 0, false, err
		}
		if c.recIdx < store.Len()-1 {
			return c.fileIdx, c.recIdx + 1, true, nil
		}
	}
	for i := c.fileIdx + 1; i < len(c.keys); i++ {
		store, err := c.ledger.GetOrCreate(c.keys[i])
		if err != nil {
			return 0, 0, false, err
		}
		if store.Len() > 0 {
			return i, 0, true, nil
		}
	}
	return 0, 0, false, nil
}
