package license

import "errors"

// Every failed operation returns one of these, possibly wrapped with context.
// The HTTP layer owns the translation to response codes; nothing here is a
// crash, and a failed transition leaves license and history untouched.
var (
	// ErrNotFound: the license id does not resolve to a live record.
	ErrNotFound = errors.New("license not found")

	// ErrReferenceNotFound: an athlete/sport/type/category reference does
	// not resolve to an existing, non-deleted record.
	ErrReferenceNotFound = errors.New("referenced record not found")

	// ErrInvalidTransition: the requested transition is not permitted from
	// the license's current derived status.
	ErrInvalidTransition = errors.New("transition not permitted from current status")
)
