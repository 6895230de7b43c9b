package ledger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/Simmypeet/Xpen/internal/entity/record"
)

// recordJSON is the persisted shape of a record inside a partition file.
// Partitions are stored as a JSON array of these, oldest first.
type recordJSON struct {
	Tag     string          `json:"tag,omitempty"`
	Balance decimal.Decimal `json:"balance"`
	Date    time.Time       `json:"date"`
	Note    string          `json:"note,omitempty"`
}

// RecordStore holds the ordered record sequence of one month partition.
// It is loaded from its backing file on first access and written back only
// when dirty. A store is exclusively owned by its parent Ledger.
type RecordStore struct {
	key     record.FileKey
	dir     string
	records []record.Record
	dirty   bool
}

// newRecordStore loads the partition file for key under dir if one exists,
// otherwise starts empty. Loading is all-or-nothing: a file that fails to
// parse or holds records out of chronological order yields a
// CorruptedStoreError and no store.
func newRecordStore(key record.FileKey, dir string) (*RecordStore, error) {
	s := &RecordStore{key: key, dir: dir}

	raw, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, errors.Wrap(err, "read record file")
	}

	var rows []recordJSON
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, &CorruptedStoreError{Path: s.path(), Err: err}
	}

	records := make([]record.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, record.Record{
			Tag:     row.Tag,
			Balance: row.Balance,
			Date:    row.Date,
			Note:    row.Note,
		})
	}
	for i := 1; i < len(records); i++ {
		if records[i].Date.Before(records[i-1].Date) {
			return nil, &CorruptedStoreError{Path: s.path()}
		}
	}

	s.records = records
	return s, nil
}

// Key returns the partition key this store belongs to.
func (s *RecordStore) Key() record.FileKey {
	return s.key
}

// Len returns the number of records in the partition.
func (s *RecordStore) Len() int {
	return len(s.records)
}

// Records returns a copy of the record sequence, oldest first.
func (s *RecordStore) Records() []record.Record {
	out := make([]record.Record, len(s.records))
	copy(out, s.records)
	return out
}

// append stamps a new record with the current time and adds it to the end
// of the sequence. Appends always use "now", which keeps the sequence
// sorted short of clock skew.
func (s *RecordStore) append(tag string, balance decimal.Decimal, note string) record.Record {
	rec := record.Record{
		Tag:     tag,
		Balance: balance,
		Date:    time.Now(),
		Note:    note,
	}
	s.records = append(s.records, rec)
	s.dirty = true
	return rec
}

// MarkDirty forces the next Flush to rewrite the partition file even
// without a new append. Renaming the owning ledger uses this so the
// records land at the new location.
func (s *RecordStore) MarkDirty() {
	s.dirty = true
}

// Flush writes the full record sequence to the backing file, replacing
// any prior content, and clears dirtiness. A clean store is a no-op.
func (s *RecordStore) Flush() error {
	if !s.dirty {
		return nil
	}

	rows := make([]recordJSON, 0, len(s.records))
	for _, rec := range s.records {
		rows = append(rows, recordJSON{
			Tag:     rec.Tag,
			Balance: rec.Balance,
			Date:    rec.Date,
			Note:    rec.Note,
		})
	}

	raw, err := json.Marshal(rows)
	if err != nil {
		return errors.Wrap(err, "encode record file")
	}
	if err := os.WriteFile(s.path(), raw, 0o644); err != nil {
		return errors.Wrap(err, "write record file")
	}

	s.dirty = false
	return nil
}

func (s *RecordStore) path() string {
	return filepath.Join(s.dir, FileName(s.key))
}
