package department

import gerrors "github.com/go-faster/errors"

var (
	ErrNotFound = gerrors.New("department not found")

	// ErrCycleDetected means parent links revisit a node. Corrupt data; the
	// operation aborts and an administrator must repair the tree.
	ErrCycleDetected = gerrors.New("department hierarchy cycle detected")

	// ErrMissingParent means a parent_id references a department that does
	// not exist.
	ErrMissingParent = gerrors.New("department parent does not exist")
)
