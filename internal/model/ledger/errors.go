package ledger

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidLedgerPath reports a ledger path that does not exist or
	// is not a directory.
	ErrInvalidLedgerPath = errors.New("ledger path does not exist or is not a directory")

	// ErrInvalidatedCursor reports a cursor used after a record was
	// appended to its ledger. The caller must open a fresh cursor.
	ErrInvalidatedCursor = errors.New("cursor invalidated by a newer append")

	// ErrRecordNotFound reports a record that does not belong to the
	// ledger a cursor was asked to position on.
	ErrRecordNotFound = errors.New("record does not belong to the ledger")
)

// CorruptedStoreError reports a partition file that exists but cannot be
// used: it failed to parse or its records are out of chronological order.
type CorruptedStoreError struct {
	Path string
	Err  error
}

func (e *CorruptedStoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("corrupted record file %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("corrupted record file %s: records out of order", e.Path)
}

func (e *CorruptedStoreError) Unwrap() error { return e.Err }
