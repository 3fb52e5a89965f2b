package wire

import (
	"math"
	"strconv"

	"github.com/tapeware/tapecodec/codecerr"
)

// Reader is the pull-style, format-agnostic half of the data-item
// protocol. It holds exactly one look-ahead item in a Receptacle,
// pulled from a ReadBackend. Items are consumed strictly
// in wire order; Reader does not re-validate container nesting beyond
// what the backend's own wire-level well-formedness check already
// guarantees — unlike Writer, nothing else enforces Writer-side rules,
// but a parser backend cannot produce an ill-formed Break/header pair
// in the first place, so Reader trusts the stream it's given.
//
// A Reader exclusively owns its backend for the duration of a single
// decode call; it is not safe for concurrent use.
type Reader struct {
	backend ReadBackend
	cur     Receptacle
	primed  bool
}

// NewReader constructs a Reader over backend. The first item is pulled
// lazily on first access.
func NewReader(backend ReadBackend) *Reader { return &Reader{backend: backend} }

func (r *Reader) ensure() error {
	if r.primed {
		return nil
	}
	if err := r.backend.Next(&r.cur); err != nil {
		return err
	}
	r.primed = true
	return nil
}

func (r *Reader) consume() { r.primed = false }

func (r *Reader) pos() codecerr.Position { return r.backend.Pos() }

// Position reports the backend's current byte position, for callers
// outside this package that need to annotate their own errors (e.g.
// codec-level Overflow checks performed after a value has already been
// widened and consumed).
func (r *Reader) Position() codecerr.Position { return r.pos() }

func (r *Reader) unexpected(expected string) error {
	return codecerr.UnexpectedDataItemAt(r.pos(), expected, r.cur.Kind().String())
}

// DataItem reports the kind of the next item without consuming it.
func (r *Reader) DataItem() (Kind, error) {
	if err := r.ensure(); err != nil {
		return KindInvalid, err
	}
	return r.cur.Kind(), nil
}

// Peek exposes the held Receptacle for read-only inspection, e.g. for
// zero-allocation field-name dispatch via Receptacle.StringEqual.
func (r *Reader) Peek() (*Receptacle, error) {
	if err := r.ensure(); err != nil {
		return nil, err
	}
	return &r.cur, nil
}

func (r *Reader) is(k Kind) bool {
	if err := r.ensure(); err != nil {
		return false
	}
	return r.cur.Kind() == k
}

// HasNull, HasBool, ... probe the next item's kind without consuming it.
func (r *Reader) HasNull() bool      { return r.is(KindNull) }
func (r *Reader) HasUndefined() bool { return r.is(KindUndefined) }
func (r *Reader) HasBool() bool      { return r.is(KindBool) }
func (r *Reader) HasBreak() bool     { return r.is(KindBreak) }
func (r *Reader) HasTag() bool       { return r.is(KindTag) }
func (r *Reader) HasArrayHeader() bool { return r.is(KindArrayHeader) }
func (r *Reader) HasArrayStart() bool  { return r.is(KindArrayStart) }
func (r *Reader) HasMapHeader() bool   { return r.is(KindMapHeader) }
func (r *Reader) HasMapStart() bool    { return r.is(KindMapStart) }

// ReadNull consumes a Null item.
func (r *Reader) ReadNull() error {
	if err := r.ensure(); err != nil {
		return err
	}
	if r.cur.Kind() != KindNull {
		return r.unexpected("Null")
	}
	r.consume()
	return nil
}

// TryReadNull consumes a Null item if present, reporting whether it did.
func (r *Reader) TryReadNull() (bool, error) {
	if err := r.ensure(); err != nil {
		return false, err
	}
	if r.cur.Kind() != KindNull {
		return false, nil
	}
	r.consume()
	return true, nil
}

// TryReadUndefined consumes an Undefined item if present, reporting
// whether it did.
func (r *Reader) TryReadUndefined() (bool, error) {
	if err := r.ensure(); err != nil {
		return false, err
	}
	if r.cur.Kind() != KindUndefined {
		return false, nil
	}
	r.consume()
	return true, nil
}

// ReadBool consumes a Bool item.
func (r *Reader) ReadBool() (bool, error) {
	if err := r.ensure(); err != nil {
		return false, err
	}
	if r.cur.Kind() != KindBool {
		return false, r.unexpected("Bool")
	}
	v := r.cur.Bool()
	r.consume()
	return v, nil
}

// int64Value widens the current item to an int64 if it holds any kind
// that can represent an integer: Int, Long (CBOR over-long magnitude),
// or NumberString (JSON). Returns ok=false if the current item's kind
// or value cannot be represented.
func (r *Reader) int64Value() (v int64, ok bool) {
	switch r.cur.Kind() {
	case KindInt:
		return r.cur.Int(), true
	case KindLong:
		neg, mag := r.cur.LongMagnitude()
		if !neg {
			if mag > math.MaxInt64 {
				return 0, false
			}
			return int64(mag), true
		}
		if mag > math.MaxInt64 {
			return 0, false
		}
		return -1 - int64(mag), true
	case KindNumberString:
		iv, err := strconv.ParseInt(r.cur.String(), 10, 64)
		if err != nil {
			return 0, false
		}
		return iv, true
	default:
		return 0, false
	}
}

// ReadInt32 consumes the next item as an int32, widening from Int,
// Long, or NumberString.
func (r *Reader) ReadInt32() (int32, error) {
	if err := r.ensure(); err != nil {
		return 0, err
	}
	v, ok := r.int64Value()
	if !ok {
		return 0, r.unexpected("Int")
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, codecerr.OverflowAt(r.pos(), "value does not fit in int32")
	}
	r.consume()
	return int32(v), nil
}

// ReadInt64 consumes the next item as an int64.
func (r *Reader) ReadInt64() (int64, error) {
	if err := r.ensure(); err != nil {
		return 0, err
	}
	v, ok := r.int64Value()
	if !ok {
		return 0, r.unexpected("Int")
	}
	r.consume()
	return v, nil
}

// uint64Value mirrors int64Value for non-negative magnitudes.
func (r *Reader) uint64Value() (v uint64, ok bool) {
	switch r.cur.Kind() {
	case KindInt:
		iv := r.cur.Int()
		if iv < 0 {
			return 0, false
		}
		return uint64(iv), true
	case KindLong:
		neg, mag := r.cur.LongMagnitude()
		if neg {
			return 0, false
		}
		return mag, true
	case KindNumberString:
		uv, err := strconv.ParseUint(r.cur.String(), 10, 64)
		if err != nil {
			return 0, false
		}
		return uv, true
	default:
		return 0, false
	}
}

// ReadUint64 consumes the next item as a uint64.
func (r *Reader) ReadUint64() (uint64, error) {
	if err := r.ensure(); err != nil {
		return 0, err
	}
	v, ok := r.uint64Value()
	if !ok {
		return 0, r.unexpected("Int")
	}
	r.consume()
	return v, nil
}

// ReadLongRaw exposes a Long item's raw sign+magnitude pair without
// narrowing, for callers (e.g. big-integer codecs) that need the full
// over-long value.
func (r *Reader) ReadLongRaw() (neg bool, mag uint64, err error) {
	if err = r.ensure(); err != nil {
		return
	}
	if r.cur.Kind() != KindLong {
		err = r.unexpected("Long")
		return
	}
	neg, mag = r.cur.LongMagnitude()
	r.consume()
	return
}

// ReadFloat32 consumes a Float item.
func (r *Reader) ReadFloat32() (float32, error) {
	if err := r.ensure(); err != nil {
		return 0, err
	}
	if r.cur.Kind() != KindFloat32 {
		return 0, r.unexpected("Float")
	}
	v := r.cur.Float32()
	r.consume()
	return v, nil
}

// ReadFloat64 consumes a Double item.
func (r *Reader) ReadFloat64() (float64, error) {
	if err := r.ensure(); err != nil {
		return 0, err
	}
	if r.cur.Kind() != KindFloat64 {
		return 0, r.unexpected("Double")
	}
	v := r.cur.Float64()
	r.consume()
	return v, nil
}

// ReadFloat16Bits consumes a Float16 item, returning its raw bit pattern.
func (r *Reader) ReadFloat16Bits() (uint16, error) {
	if err := r.ensure(); err != nil {
		return 0, err
	}
	if r.cur.Kind() != KindFloat16 {
		return 0, r.unexpected("Float16")
	}
	v := r.cur.Float16Bits()
	r.consume()
	return v, nil
}

// ReadString consumes a String, Text, or NumberString item as a string.
func (r *Reader) ReadString() (string, error) {
	if err := r.ensure(); err != nil {
		return "", err
	}
	switch r.cur.Kind() {
	case KindString, KindNumberString:
		v := r.cur.String()
		r.consume()
		return v, nil
	case KindText:
		v := string(r.cur.Bytes())
		r.consume()
		return v, nil
	default:
		return "", r.unexpected("String")
	}
}

// ReadBytes consumes a Bytes item.
func (r *Reader) ReadBytes() ([]byte, error) {
	if err := r.ensure(); err != nil {
		return nil, err
	}
	if r.cur.Kind() != KindBytes {
		return nil, r.unexpected("Bytes")
	}
	v := r.cur.Bytes()
	r.consume()
	return v, nil
}

// ReadTag consumes a Tag item, returning its number. The following item
// remains unconsumed and available for the next read.
func (r *Reader) ReadTag() (uint64, error) {
	if err := r.ensure(); err != nil {
		return 0, err
	}
	if r.cur.Kind() != KindTag {
		return 0, r.unexpected("Tag")
	}
	v := r.cur.Tag()
	r.consume()
	return v, nil
}

// TryReadTag consumes a Tag item only if its number equals tag.
func (r *Reader) TryReadTag(tag uint64) (bool, error) {
	if err := r.ensure(); err != nil {
		return false, err
	}
	if r.cur.Kind() != KindTag || r.cur.Tag() != tag {
		return false, nil
	}
	r.consume()
	return true, nil
}

// ReadSimpleValue consumes a SimpleValue item.
func (r *Reader) ReadSimpleValue() (uint8, error) {
	if err := r.ensure(); err != nil {
		return 0, err
	}
	if r.cur.Kind() != KindSimpleValue {
		return 0, r.unexpected("SimpleValue")
	}
	v := r.cur.SimpleValue()
	r.consume()
	return v, nil
}

// ReadBreak consumes a Break item, closing the innermost indefinite
// container the caller previously opened with one of the *Start reads.
func (r *Reader) ReadBreak() error {
	if err := r.ensure(); err != nil {
		return err
	}
	if r.cur.Kind() != KindBreak {
		return r.unexpected("Break")
	}
	r.consume()
	return nil
}

func (r *Reader) checkLength(n uint64, limit int64, what string) error {
	if limit > 0 && n > uint64(limit) {
		return codecerr.OverflowAt(r.pos(), what+" length "+strconv.FormatUint(n, 10)+" exceeds configured limit")
	}
	return nil
}

// ReadArrayHeader consumes a sized ArrayHeader item, returning its
// declared length. maxLen <= 0 disables the limit check.
func (r *Reader) ReadArrayHeader(maxLen int64) (uint64, error) {
	if err := r.ensure(); err != nil {
		return 0, err
	}
	if r.cur.Kind() != KindArrayHeader {
		return 0, r.unexpected("ArrayHeader")
	}
	n := r.cur.Length()
	if err := r.checkLength(n, maxLen, "array"); err != nil {
		return 0, err
	}
	r.consume()
	return n, nil
}

// ReadArrayStart consumes an indefinite ArrayStart item.
func (r *Reader) ReadArrayStart() error {
	if err := r.ensure(); err != nil {
		return err
	}
	if r.cur.Kind() != KindArrayStart {
		return r.unexpected("ArrayStart")
	}
	r.consume()
	return nil
}

// ReadMapHeader consumes a sized MapHeader item, returning its declared
// pair count.
func (r *Reader) ReadMapHeader(maxLen int64) (uint64, error) {
	if err := r.ensure(); err != nil {
		return 0, err
	}
	if r.cur.Kind() != KindMapHeader {
		return 0, r.unexpected("MapHeader")
	}
	n := r.cur.Length()
	if err := r.checkLength(n, maxLen, "map"); err != nil {
		return 0, err
	}
	r.consume()
	return n, nil
}

// ReadArrayOrMapHeader consumes a sized ArrayHeader or MapHeader item,
// whichever is present, returning its declared length (element count for
// an array, pair count for a map). Used by callers like codec.Concat
// that have already branched on DataItem() and just need the length.
func (r *Reader) ReadArrayOrMapHeader() (uint64, error) {
	if err := r.ensure(); err != nil {
		return 0, err
	}
	switch r.cur.Kind() {
	case KindArrayHeader, KindMapHeader:
		n := r.cur.Length()
		r.consume()
		return n, nil
	default:
		return 0, r.unexpected("ArrayHeader or MapHeader")
	}
}

// ReadMapStart consumes an indefinite MapStart item.
func (r *Reader) ReadMapStart() error {
	if err := r.ensure(); err != nil {
		return err
	}
	if r.cur.Kind() != KindMapStart {
		return r.unexpected("MapStart")
	}
	r.consume()
	return nil
}

// ReadUntilBreak folds over the elements of an already-opened
// indefinite-length container (ArrayStart/MapStart/BytesStart/
// TextStart) by repeatedly invoking step until a Break is encountered,
// which this method consumes. It never holds the input "locked" inside
// a generator: each step call is a normal, synchronous Reader use.
func ReadUntilBreak[S any](r *Reader, seed S, step func(S, *Reader) (S, error)) (S, error) {
	acc := seed
	for {
		if r.HasBreak() {
			return acc, r.ReadBreak()
		}
		var err error
		acc, err = step(acc, r)
		if err != nil {
			return acc, err
		}
	}
}

// SkipElement discards exactly one complete data item — a scalar, or a
// container together with all of its descendants — without decoding it
// into any concrete Go value.
func (r *Reader) SkipElement() error {
	if err := r.ensure(); err != nil {
		return err
	}
	k := r.cur.Kind()
	switch k {
	case KindTag:
		r.consume()
		return r.SkipElement()
	case KindArrayHeader:
		n := r.cur.Length()
		r.consume()
		for i := uint64(0); i < n; i++ {
			if err := r.SkipElement(); err != nil {
				return err
			}
		}
		return nil
	case KindMapHeader:
		n := r.cur.Length()
		r.consume()
		for i := uint64(0); i < n*2; i++ {
			if err := r.SkipElement(); err != nil {
				return err
			}
		}
		return nil
	case KindArrayStart, KindMapStart, KindBytesStart, KindTextStart:
		r.consume()
		for {
			if r.HasBreak() {
				return r.ReadBreak()
			}
			if err := r.SkipElement(); err != nil {
				return err
			}
		}
	default:
		r.consume()
		return nil
	}
}
