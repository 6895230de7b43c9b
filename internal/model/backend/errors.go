package backend

import "github.com/pkg/errors"

var (
	// ErrInvalidDataPath reports an application data path that does not
	// exist or is not a directory. This is a startup precondition.
	ErrInvalidDataPath = errors.New("application data path does not exist or is not a directory")

	// ErrInvalidLedger reports an operation on a ledger this backend does
	// not track, typically a stale handle kept across a delete.
	ErrInvalidLedger = errors.New("ledger is not tracked by this backend")

	// ErrRenameConflict reports a rename target that is already taken.
	ErrRenameConflict = errors.New("a ledger with that name already exists")

	// ErrEmptyName rejects the empty ledger name.
	ErrEmptyName = errors.New("ledger name cannot be empty")

	// ErrInvalidName rejects ledger names containing punctuation.
	ErrInvalidName = errors.New("ledger name contains punctuation")

	// ErrAlreadyExists rejects creating a ledger whose name is taken.
	ErrAlreadyExists = errors.New("ledger already exists")
)
