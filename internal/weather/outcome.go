package weather

import "fmt"

// ErrorKind classifies a fetch failure. The scheduler uses the kind to
// decide between backoff, halting, and plain retry-next-tick.
type ErrorKind int

const (
	KindUnauthorized ErrorKind = iota
	KindNotFound
	KindRateLimited
	KindTransient
	KindMalformed

	// KindConfigInvalid marks unusable startup configuration. It never
	// comes out of a fetch; the app launches into the settings screen
	// carrying it instead.
	KindConfigInvalid
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	case KindTransient:
		return "transient"
	case KindMalformed:
		return "malformed"
	case KindConfigInvalid:
		return "config_invalid"
	default:
		return "unknown"
	}
}

// FetchError is a classified fetch failure.
type FetchError struct {
	Kind    ErrorKind
	Message string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Errf builds a FetchError with a formatted message.
func Errf(kind ErrorKind, format string, args ...interface{}) *FetchError {
	return &FetchError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Outcome is the result of one logical fetch: either a complete Snapshot
// or a classified error, never both.
type Outcome struct {
	Snapshot *Snapshot
	Err      *FetchError
}

// Success wraps a snapshot in an Outcome.
func Success(s *Snapshot) Outcome {
	return Outcome{Snapshot: s}
}

// Failure wraps a FetchError in an Outcome.
func Failure(err *FetchError) Outcome {
	return Outcome{Err: err}
}

// OK reports whether the fetch produced a snapshot.
func (o Outcome) OK() bool {
	return o.Err == nil && o.Snapshot != nil
}
