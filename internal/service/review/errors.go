package review

import "errors"

// Sentinel errors returned by the review service. Callers check them with
// errors.Is; the API layer maps them to HTTP status codes.
var (
	// ErrCardNotFound indicates the card id does not exist.
	ErrCardNotFound = errors.New("card not found")

	// ErrUnknownItem indicates the item type/id pair does not resolve to a
	// curriculum entry.
	ErrUnknownItem = errors.New("unknown item")
)
