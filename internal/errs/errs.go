// Package errs defines the error classes shared by the cache layer.
//
// Callers wrap these sentinels with fmt.Errorf("... > %w", err) and classify
// them with errors.Is. Only ErrInvalidArgument is ever surfaced to API clients;
// the other classes are absorbed into zero-valued results.
package errs

import "errors"

var (
	// ErrUpstreamUnavailable reports a network or API failure of the upstream data source.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrNotFound reports that the upstream does not know the requested entity.
	ErrNotFound = errors.New("not found")
	// ErrStoreCorrupt reports a persisted document that cannot be decoded.
	ErrStoreCorrupt = errors.New("store document corrupt")
	// ErrInvalidArgument reports a caller supplied value outside its domain.
	ErrInvalidArgument = errors.New("invalid argument")
)

// IsUpstream reports whether err is an upstream failure of any kind.
func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstreamUnavailable) || errors.Is(err, ErrNotFound)
}
