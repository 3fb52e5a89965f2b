package codec

import (
	"math"

	"github.com/tapeware/tapecodec/codecerr"
	"github.com/tapeware/tapecodec/wire"
)

// Bool is the Codec for bool.
var Bool = NewCodec(
	func(w *wire.Writer, v bool) error { return w.WriteBool(v) },
	func(r *wire.Reader) (bool, error) { return r.ReadBool() },
)

// Int32 is the Codec for int32, with widening promotion: CBOR accepts
// Int, Long (within range) or OverLong; JSON accepts Int, Long or
// NumberString, each widened via wire.Reader and then narrowed with an
// Overflow check.
var Int32 = NewCodec(
	func(w *wire.Writer, v int32) error { return w.WriteInt(int64(v)) },
	func(r *wire.Reader) (int32, error) { return r.ReadInt32() },
)

// Int64 is the Codec for int64.
var Int64 = NewCodec(
	func(w *wire.Writer, v int64) error { return w.WriteLong(v) },
	func(r *wire.Reader) (int64, error) { return r.ReadInt64() },
)

// Uint32 is the Codec for uint32.
var Uint32 = NewCodec(
	func(w *wire.Writer, v uint32) error { return w.WriteLong(int64(v)) },
	func(r *wire.Reader) (uint32, error) {
		v, err := r.ReadUint64()
		if err != nil {
			return 0, err
		}
		if v > math.MaxUint32 {
			return 0, codecerr.OverflowAt(r.Position(), "value does not fit in uint32")
		}
		return uint32(v), nil
	},
)

// Uint64 is the Codec for uint64. Values beyond int64's range round-trip
// through the CBOR OverLong / wire.Long item rather than failing.
var Uint64 = NewCodec(
	func(w *wire.Writer, v uint64) error {
		if v <= math.MaxInt64 {
			return w.WriteLong(int64(v))
		}
		return w.WriteOverLong(false, v)
	},
	func(r *wire.Reader) (uint64, error) { return r.ReadUint64() },
)

// Float32 is the Codec for float32.
var Float32 = NewCodec(
	func(w *wire.Writer, v float32) error { return w.WriteFloat32(v) },
	func(r *wire.Reader) (float32, error) { return r.ReadFloat32() },
)

// Float64 is the Codec for float64.
var Float64 = NewCodec(
	func(w *wire.Writer, v float64) error { return w.WriteFloat64(v) },
	func(r *wire.Reader) (float64, error) { return r.ReadFloat64() },
)

// String is the Codec for string.
var String = NewCodec(
	func(w *wire.Writer, v string) error { return w.WriteString(v) },
	func(r *wire.Reader) (string, error) { return r.ReadString() },
)

// Rune is the Codec for rune, encoded as its code point integer value.
var Rune = NewCodec(
	func(w *wire.Writer, v rune) error { return w.WriteInt(int64(v)) },
	func(r *wire.Reader) (rune, error) {
		v, err := r.ReadInt32()
		return rune(v), err
	},
)

// Bytes is the Codec for []byte.
var Bytes = NewCodec(
	func(w *wire.Writer, v []byte) error { return w.WriteBytes(v) },
	func(r *wire.Reader) ([]byte, error) { return r.ReadBytes() },
)
