package apperr

import "errors"

// ErrInvalid is returned when the input fails domain validation.
var ErrInvalid = errors.New("invalid input")

// ErrConflict indicates a state conflict reported by the backend (HTTP 409).
var ErrConflict = errors.New("conflict")

// ErrNotFound indicates that the requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnauthorized indicates missing or rejected credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInvalidCoordinate is returned for non-finite or out of range coordinates.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// ErrInvalidTransition is returned when a status change is not in the transition table.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrOrderAlreadyFinalized is returned for any transition out of a terminal status.
var ErrOrderAlreadyFinalized = errors.New("order already finalized")

// ErrTrackingPollFailed wraps a failed counterpart position poll.
var ErrTrackingPollFailed = errors.New("tracking poll failed")
