// Package pipelineerr defines the error taxonomy shared by the detector and
// georeferencer: a closed set of kinds, never a panic, never a bare string
// match.
package pipelineerr

import "fmt"

// Kind discriminates the reason a pipeline operation refused its input.
type Kind int

const (
	// InsufficientPoints means fewer than 3 tie points were supplied to fit
	// or to scale estimation, or that scale estimation found no pair of tie
	// points at distinct pixel positions.
	InsufficientPoints Kind = iota
	// CollinearPoints means the tie points are (nearly) collinear in pixel
	// space, or the least-squares normal matrix is numerically singular.
	CollinearPoints
	// InvalidGeoRange means a supplied GeoPoint is outside lat [-90,90] or
	// lon [-180,180]. The HTTP boundary is expected to reject this first;
	// the core re-asserts it.
	InvalidGeoRange
	// InvalidPolygon means a simplified polygon has fewer than 3 vertices.
	// This is filtered silently inside the detector and never surfaced to
	// callers; no function in this repository returns an error of this kind.
	InvalidPolygon
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case InsufficientPoints:
		return "InsufficientPoints"
	case CollinearPoints:
		return "CollinearPoints"
	case InvalidGeoRange:
		return "InvalidGeoRange"
	case InvalidPolygon:
		return "InvalidPolygon"
	default:
		return "Unknown"
	}
}

// Error wraps an underlying cause with a discriminated Kind. Callers should
// use errors.As to recover it and Kind() to switch on the reason, never
// string-match the message.
type Error struct {
	kind Kind
	msg  string
	err  error
}

// New creates an Error of the given kind with a message.
func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// Wrap creates an Error of the given kind that wraps an underlying cause.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{kind: kind, msg: msg, err: err}
}

// Kind returns the error's discriminated kind.
func (e *Error) Kind() Kind {
	return e.kind
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap supports errors.Is / errors.As over the wrapped cause.
func (e *Error) Unwrap() error {
	return e.err
}

// Is reports whether target is a *Error with the same Kind, so callers can
// write errors.Is(err, pipelineerr.New(pipelineerr.CollinearPoints, "")).
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return other.kind == e.kind
}
