package pagetree

import (
	"errors"
	"fmt"

	crdberrors "github.com/cockroachdb/errors"

	"github.com/hupe1980/pagesearch/pool"
)

var (
	// ErrNilCompare is returned when a tree is created without a comparison
	// function.
	ErrNilCompare = errors.New("pagetree: compare function must not be nil")

	// ErrCorrupted is matched by every IntegrityError.
	ErrCorrupted = errors.New("pagetree: corrupted")
)

// ErrInvalidFanOut indicates a page capacity below MinFanOut.
type ErrInvalidFanOut struct {
	FanOut int
}

func (e *ErrInvalidFanOut) Error() string {
	return fmt.Sprintf("pagetree: invalid fan-out %d (minimum %d)", e.FanOut, MinFanOut)
}

// IntegrityError reports a violated structural invariant. It signals a logic
// defect in the tree and is not recoverable.
type IntegrityError struct {
	Page  pool.Handle
	Depth int
	cause error
}

func newIntegrityError(h pool.Handle, depth int, format string, args ...any) *IntegrityError {
	return &IntegrityError{
		Page:  h,
		Depth: depth,
		cause: crdberrors.AssertionFailedf(format, args...),
	}
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("pagetree: integrity violation at page %d (depth %d): %v", e.Page, e.Depth, e.cause)
}

// Unwrap returns the underlying assertion failure.
func (e *IntegrityError) Unwrap() error { return e.cause }

// Is reports whether target is ErrCorrupted.
func (e *IntegrityError) Is(target error) bool { return target == ErrCorrupted }
