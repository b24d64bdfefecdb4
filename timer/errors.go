package timer

import "errors"

// ErrInvalidDuration is reported when a negative duration is requested.
// The engine keeps its previous duration.
var ErrInvalidDuration = errors.New(
	"invalid duration: value must not be negative",
)

var errUnknownSound = errors.New("unknown sound kind")
