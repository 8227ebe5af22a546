/*
NAME
  errors.go

DESCRIPTION
  errors.go defines the decode error taxonomy from the decoder's
  error-handling design: a typed Kind plus a DecodeError that wraps the
  underlying cause with github.com/pkg/errors.

LICENSE
  Copyright (C) 2026 the EDM700 Project. All Rights Reserved.
*/

package edm700

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Kind classifies why a decode operation failed.
type Kind int

// The error kinds a decode operation can fail with.
const (
	// BadEnvelope: malformed $...*HH ASCII framing.
	BadEnvelope Kind = iota
	// BadChecksum: ASCII XOR mismatch or binary additive-checksum
	// mismatch.
	BadChecksum
	// UnknownRecord: ASCII record type letter not in {U,A,F,T,C,D,L}.
	UnknownRecord
	// BadNumber: numeric ASCII payload field failed decimal parse or
	// range.
	BadNumber
	// BadFrame: decodeflags[0] != decodeflags[1], a single-engine
	// scale-flag or sign-flag violation, or a composed-flags mismatch
	// between the flight header and the config record.
	BadFrame
	// Unsupported: repeat > 1, or a cylinder count incompatible with
	// engine count.
	Unsupported
	// ShortRead: the byte source ended before a frame or header
	// completed.
	ShortRead
)

func (k Kind) String() string {
	switch k {
	case BadEnvelope:
		return "bad envelope"
	case BadChecksum:
		return "bad checksum"
	case UnknownRecord:
		return "unknown record"
	case BadNumber:
		return "bad number"
	case BadFrame:
		return "bad frame"
	case Unsupported:
		return "unsupported"
	case ShortRead:
		return "short read"
	default:
		return fmt.Sprintf("edm700.Kind(%d)", int(k))
	}
}

// DecodeError is returned by every decode operation in this package. It
// carries both the machine-readable Kind and the wrapped cause.
type DecodeError struct {
	Kind Kind
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("edm700: %s: %v", e.Kind, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// newErr builds a DecodeError, wrapping cause with context via
// github.com/pkg/errors.
func newErr(kind Kind, cause error, context string) *DecodeError {
	return &DecodeError{Kind: kind, Err: errors.Wrap(cause, context)}
}

// shortRead builds a ShortRead DecodeError for a read that ended early,
// matching the teacher's use of io.ErrUnexpectedEOF on truncated frames.
func shortRead(context string) *DecodeError {
	return newErr(ShortRead, io.ErrUnexpectedEOF, context)
}
