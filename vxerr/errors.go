// Copyright (C) 2026 Vortex Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package vxerr defines the error taxonomy shared by every layer of
// the array system: the array abstraction, the compute dispatcher,
// and the chunked IPC reader all return errors built from this
// package so that callers can use errors.As against a single Kind.
package vxerr

import "fmt"

// Kind tags the class of failure so callers can errors.As a *Error
// and branch on it without string matching.
type Kind int

const (
	NotImplemented Kind = iota
	DTypeMismatch
	OutOfBounds
	NullsInNonNullable
	ArithmeticOverflow
	InvalidEncoding
	CorruptStream
	MissingOption
	Io
)

func (k Kind) String() string {
	switch k {
	case NotImplemented:
		return "NotImplemented"
	case DTypeMismatch:
		return "DTypeMismatch"
	case OutOfBounds:
		return "OutOfBounds"
	case NullsInNonNullable:
		return "NullsInNonNullable"
	case ArithmeticOverflow:
		return "ArithmeticOverflow"
	case InvalidEncoding:
		return "InvalidEncoding"
	case CorruptStream:
		return "CorruptStream"
	case MissingOption:
		return "MissingOption"
	case Io:
		return "Io"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type returned by every exported
// function in this module that can fail for a reason enumerated in
// Kind. Use errors.As to recover it and inspect Kind.
type Error struct {
	Kind Kind
	Msg  string
	// Cause, if set, is wrapped so that errors.Is/errors.As continue
	// to work against the underlying error (e.g. the error returned by
	// an ipcreader.ReadAt).
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

func newf(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

// NotImplementedf reports that an encoding does not implement a
// compute operation; op and encodingID are recorded verbatim so the
// dispatcher's flatten-then-retry message is self-explanatory.
func NotImplementedf(op, encodingID string) *Error {
	return newf(NotImplemented, "operation %q not implemented by encoding %q", op, encodingID)
}

func DTypeMismatchf(expected, actual fmt.Stringer) *Error {
	return newf(DTypeMismatch, "expected dtype %s, got %s", expected, actual)
}

func OutOfBoundsf(index, bound int) *Error {
	return newf(OutOfBounds, "index %d out of bounds (len %d)", index, bound)
}

func NullsInNonNullablef() *Error {
	return newf(NullsInNonNullable, "cast target is non-nullable but source contains nulls")
}

func ArithmeticOverflowf(format string, args ...any) *Error {
	return newf(ArithmeticOverflow, format, args...)
}

func InvalidEncodingf(format string, args ...any) *Error {
	return newf(InvalidEncoding, format, args...)
}

func CorruptStreamf(format string, args ...any) *Error {
	return newf(CorruptStream, format, args...)
}

func MissingOptionf(name string) *Error {
	return newf(MissingOption, "missing required option %q", name)
}

func IOf(cause error) *Error {
	return &Error{Kind: Io, Msg: "i/o error", Cause: cause}
}

// Is allows errors.Is(err, &vxerr.Error{Kind: vxerr.OutOfBounds})
// style comparisons: two *Error values match on Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
