// Package codecerr defines the error taxonomy shared by the cbor and json
// back-ends: every error that can halt an encode or decode call carries a
// Position naming the byte where it happened.
package codecerr

import "strconv"

// Position is the (source, byte-offset) pair where an item starts or where
// decoding/encoding halted. Source is a short label (a file name, "<bytes>",
// a network peer, ...) supplied by the caller's Input/Output; it is never
// required to be unique.
type Position struct {
	Source string
	Offset int64
}

func (p Position) String() string {
	if p.Source == "" {
		return "byte " + strconv.FormatInt(p.Offset, 10)
	}
	return p.Source + ":" + strconv.FormatInt(p.Offset, 10)
}

// Kind identifies the taxonomy of a codec error, independent of the
// format that raised it.
type Kind uint8

const (
	_ Kind = iota
	InsufficientInput
	InvalidInputData
	UnexpectedEndOfInput
	UnexpectedDataItemKind
	ValidationFailure
	Overflow
	UnsupportedElement
	UnsupportedEncoderMerging
	NumberOutOfBounds
)

func (k Kind) String() string {
	switch k {
	case InsufficientInput:
		return "InsufficientInput"
	case InvalidInputData:
		return "InvalidInputData"
	case UnexpectedEndOfInput:
		return "UnexpectedEndOfInput"
	case UnexpectedDataItemKind:
		return "UnexpectedDataItem"
	case ValidationFailure:
		return "ValidationFailure"
	case Overflow:
		return "Overflow"
	case UnsupportedElement:
		return "UnsupportedElement"
	case UnsupportedEncoderMerging:
		return "UnsupportedEncoderMerging"
	case NumberOutOfBounds:
		return "NumberOutOfBounds"
	default:
		return "Unknown"
	}
}

// Error is the interface satisfied by every error this package produces.
// Resumable reports whether the underlying stream may still contain a
// usable boundary after this error (true for most semantic mismatches,
// false once the byte layout itself is corrupt).
type Error interface {
	error
	Kind() Kind
	Position() Position
	Resumable() bool
}

// baseError is embedded by the concrete error types below to provide the
// common fields without repeating accessor boilerplate.
type baseError struct {
	kind     Kind
	pos      Position
	msg      string
	resumable bool
}

func (e *baseError) Kind() Kind        { return e.kind }
func (e *baseError) Position() Position { return e.pos }
func (e *baseError) Resumable() bool   { return e.resumable }
func (e *baseError) Error() string {
	return e.kind.String() + " at " + e.pos.String() + ": " + e.msg
}

// New constructs a generic Error of the given kind at pos with msg.
func New(kind Kind, pos Position, resumable bool, msg string) Error {
	return &baseError{kind: kind, pos: pos, msg: msg, resumable: resumable}
}

// InsufficientInputAt reports premature end of input while more bytes
// were required to complete the current item.
func InsufficientInputAt(pos Position, need, have int) Error {
	return &baseError{
		kind: InsufficientInput, pos: pos, resumable: false,
		msg: "need " + strconv.Itoa(need) + " more byte(s), have " + strconv.Itoa(have),
	}
}

// InvalidInputDataAt reports that the wire format is malformed or
// semantically wrong at pos.
func InvalidInputDataAt(pos Position, msg string) Error {
	return &baseError{kind: InvalidInputData, pos: pos, resumable: false, msg: msg}
}

// UnexpectedEndOfInputAt reports that input ended where a data item was
// expected to begin.
func UnexpectedEndOfInputAt(pos Position) Error {
	return &baseError{kind: UnexpectedEndOfInput, pos: pos, resumable: false, msg: "unexpected end of input"}
}

// UnexpectedDataItemAt reports a data item of the wrong kind.
func UnexpectedDataItemAt(pos Position, expected, actual string) Error {
	return &baseError{
		kind: UnexpectedDataItemKind, pos: pos, resumable: true,
		msg: "expected " + expected + " but got " + actual,
	}
}

// ValidationFailureAt reports a decoder-level constraint violation, e.g.
// a non-empty-list requirement.
func ValidationFailureAt(pos Position, msg string) Error {
	return &baseError{kind: ValidationFailure, pos: pos, resumable: true, msg: msg}
}

// OverflowAt reports a value or container exceeding configured limits.
func OverflowAt(pos Position, msg string) Error {
	return &baseError{kind: Overflow, pos: pos, resumable: true, msg: msg}
}

// UnsupportedElementAt reports that an item cannot be represented in the
// target format (e.g. writing a CBOR Tag while producing JSON with no
// configured mapping).
func UnsupportedElementAt(pos Position, msg string) Error {
	return &baseError{kind: UnsupportedElement, pos: pos, resumable: true, msg: msg}
}

// UnsupportedEncoderMergingAt reports an illegal Concat of two encoders.
func UnsupportedEncoderMergingAt(pos Position, msg string) Error {
	return &baseError{kind: UnsupportedEncoderMerging, pos: pos, resumable: true, msg: msg}
}

// NumberOutOfBoundsAt reports a JSON number exceeding the configured
// mantissa-digit or exponent limits.
func NumberOutOfBoundsAt(pos Position, msg string) Error {
	return &baseError{kind: NumberOutOfBounds, pos: pos, resumable: true, msg: msg}
}

// contextError lets an error be enhanced with additional positional
// context as it propagates up through nested decoders, accumulating a
// field-path trail.
type contextError interface {
	Error
	withContext(ctx string) Error
}

func (e *baseError) withContext(ctx string) Error {
	cp := *e
	if cp.msg != "" {
		cp.msg = ctx + ": " + cp.msg
	} else {
		cp.msg = ctx
	}
	return &cp
}

// WrapError annotates err with additional context identifying which part
// of a composite value (a struct field, a slice index, a map key) was
// being processed when err occurred. The original error's Cause is always
// recoverable.
func WrapError(err error, ctx string) error {
	if err == nil {
		return nil
	}
	if ce, ok := err.(contextError); ok {
		return ce.withContext(ctx)
	}
	return &wrapped{cause: err, ctx: ctx}
}

// Cause unwraps an error produced by WrapError down to its root cause.
func Cause(err error) error {
	for {
		w, ok := err.(*wrapped)
		if !ok {
			return err
		}
		err = w.cause
	}
}

type wrapped struct {
	cause error
	ctx   string
}

func (w *wrapped) Error() string { return w.ctx + ": " + w.cause.Error() }
func (w *wrapped) Unwrap() error { return w.cause }

// Resumable reports whether err means the underlying stream is still
// usable after this failure. Errors outside this package's taxonomy are
// treated as non-resumable.
func Resumable(err error) bool {
	if e, ok := err.(Error); ok {
		return e.Resumable()
	}
	return false
}
