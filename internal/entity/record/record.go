package record

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is a single immutable ledger entry. Balance is the absolute
// account balance after this entry, not the amount of the entry itself.
// Empty Tag and Note mean the field was not provided.
type Record struct {
	Tag     string
	Balance decimal.Decimal
	Date    time.Time
	Note    string
}

// Delta pairs a record with the balance difference against the
// chronologically previous record of its ledger.
type Delta struct {
	Record Record
	Diff   decimal.Decimal
}

// FileKey identifies one month partition of a ledger. Keys compare by
// value.
type FileKey struct {
	Month time.Month
	Year  int
}

// FileKeyFor derives the partition key a timestamp belongs to.
func FileKeyFor(t time.Time) FileKey {
	return FileKey{Month: t.Month(), Year: t.Year()}
}

// Less orders keys chronologically, year first.
func (k FileKey) Less(other FileKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}
