// pkg/bplus/errors.go
package bplus

import "errors"

// Sentinel errors for the node engine and tree façade. Callers that need
// a numeric status code instead of an error value can map through
// StatusOf.
var (
	// ErrAlreadyExists is returned by Insert when the key is already
	// present under logical equality (a client error).
	ErrAlreadyExists = errors.New("bplus: key already exists")

	// ErrTooBig is returned by Insert when the node is at fanout; the
	// node is left unmodified and an upper layer must split it.
	ErrTooBig = errors.New("bplus: node is full")

	// ErrIOError wraps an object-store failure (unreachable, or refused
	// a name).
	ErrIOError = errors.New("bplus: object store error")

	// ErrUnsupportedVersion is returned by NodeFromBytes when the wire
	// header's ondisk_version is not one this build understands.
	ErrUnsupportedVersion = errors.New("bplus: unsupported on-disk version")

	// ErrUnknownNodeType is returned by NodeFromBytes for a header node_type
	// tag outside {Leaf, Branch}.
	ErrUnknownNodeType = errors.New("bplus: unknown node type")

	// ErrCorrupt is returned by NodeFromBytes when the decoded structure
	// fails basic shape checks (odd kv-data length, malformed header).
	ErrCorrupt = errors.New("bplus: corrupt node bytes")
)

// Status is a small numeric status code for callers that prefer a code
// over an error value.
type Status int

const (
	StatusOK Status = iota
	StatusAlreadyExists
	StatusTooBig
	StatusIOError
	StatusUnsupportedVersion
	StatusUnknownNodeType
	StatusCorrupt
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusAlreadyExists:
		return "AlreadyExists"
	case StatusTooBig:
		return "TooBig"
	case StatusIOError:
		return "IOError"
	case StatusUnsupportedVersion:
		return "UnsupportedVersion"
	case StatusUnknownNodeType:
		return "UnknownNodeType"
	case StatusCorrupt:
		return "Corrupt"
	default:
		return "Unknown"
	}
}

// StatusOf maps an error returned by this package onto a Status. A nil
// error maps to StatusOK; an unrecognized error maps to StatusIOError,
// since every other failure mode is modeled as a sentinel.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrAlreadyExists):
		return StatusAlreadyExists
	case errors.Is(err, ErrTooBig):
		return StatusTooBig
	case errors.Is(err, ErrUnsupportedVersion):
		return StatusUnsupportedVersion
	case errors.Is(err, ErrUnknownNodeType):
		return StatusUnknownNodeType
	case errors.Is(err, ErrCorrupt):
		return StatusCorrupt
	default:
		return StatusIOError
	}
}
