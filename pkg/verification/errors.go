package verification

import "errors"

var (
	// ErrConflict: lost the race for a response, recovered internally by
	// moving to the next claim candidate.
	ErrConflict = errors.New("response already locked by another reviewer")

	// ErrEmptyQueue: no claimable response matched the filter.
	ErrEmptyQueue = errors.New("no assignment available")

	// ErrNotFound: response id does not exist (or was deleted by a
	// correction script in the meantime).
	ErrNotFound = errors.New("response not found")

	// ErrInvalidState: the requested transition is not valid from the
	// response's current status, e.g. a verdict on an already resolved
	// response.
	ErrInvalidState = errors.New("response is not in a state that allows this operation")

	// ErrUnauthorized: the caller does not hold the lock they are trying to
	// release.
	ErrUnauthorized = errors.New("review assignment is held by a different reviewer")

	// ErrDuplicateSubmission: a response with the same public id was
	// already submitted.
	ErrDuplicateSubmission = errors.New("response with this id already exists")
)
