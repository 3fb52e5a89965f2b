// Package bytesio provides the abstract byte containers the wire
// protocol reads from and writes to: a paddable, random-access Input and
// a growable, poolable Output. Both formats' parsers and encoders are
// written against these interfaces only, never against a concrete
// []byte or io.Reader, so a caller can swap in a file-, pool- or
// network-backed implementation without touching cbor/ or json/.
package bytesio

import "github.com/tapeware/tapecodec/codecerr"

// PaddingProvider supplies bytes beyond the logical end of an Input's
// backing store. The JSON scanner's SWAR fast paths always consume
// 8-byte words; near end-of-input it asks the padding provider to fill
// the remainder of the word instead of special-casing short reads on
// every iteration. ZeroPadding is the default; a caller that knows its
// trailing bytes (e.g. a known sentinel) may supply its own.
type PaddingProvider interface {
	// Pad fills dst (which starts at the logical end of input) with
	// padding bytes. It must fill dst completely.
	Pad(dst []byte)
}

// ZeroPadding pads with NUL bytes, the default used by both back-ends.
var ZeroPadding PaddingProvider = zeroPadding{}

type zeroPadding struct{}

func (zeroPadding) Pad(dst []byte) {
	for i := range dst {
		dst[i] = 0
	}
}

// Input is a cursor over a byte sequence. Implementations need not be
// backed by an in-memory slice; ReaderInput adapts an io.Reader by
// buffering internally.
type Input interface {
	// Source names the input for Position reporting, e.g. a file path
	// or "<bytes>".
	Source() string
	// Offset returns the current logical read position.
	Offset() int64
	// ReadByte consumes and returns one byte.
	ReadByte() (byte, error)
	// ReadUint16BE, ReadUint32BE, ReadUint64BE consume and return a
	// big-endian multi-byte integer, as CBOR's head encoding requires.
	ReadUint16BE() (uint16, error)
	ReadUint32BE() (uint32, error)
	ReadUint64BE() (uint64, error)
	// ReadBytes consumes and returns exactly n bytes. The returned slice
	// may alias the Input's internal buffer and is only valid until the
	// next call that advances the cursor.
	ReadBytes(n int) ([]byte, error)
	// Unread rewinds the cursor by n bytes; n must not exceed the number
	// of bytes read since the Input was created or last fully drained.
	Unread(n int) error
	// PeekWord returns the next 8 bytes without advancing the cursor,
	// padding with pad beyond the logical end of input. Used by the JSON
	// scanner's SWAR fast paths.
	PeekWord(pad PaddingProvider) [8]byte
	// Advance moves the cursor forward by n bytes without returning
	// them; used after a PeekWord determines how many leading bytes of
	// the word were consumed.
	Advance(n int)
	// AtEnd reports whether every byte has been consumed.
	AtEnd() bool
}

func posErr(in Input) codecerr.Position {
	return codecerr.Position{Source: in.Source(), Offset: in.Offset()}
}

// ErrAt wraps codecerr.InsufficientInputAt using in's current position.
func ErrAt(in Input, need, have int) error {
	return codecerr.InsufficientInputAt(posErr(in), need, have)
}
