package cbor

import (
	"math"

	"github.com/tapeware/tapecodec/bytesio"
	"github.com/tapeware/tapecodec/codecerr"
	"github.com/tapeware/tapecodec/tapeconfig"
)

// Encoder is the CBOR wire.WriteBackend: it turns each already-validated
// push-API call into the shortest canonical byte sequence RFC 8949 allows
// for that value, targeting a bytesio.Output instead of a raw []byte.
type Encoder struct {
	out    bytesio.Output
	cfg    tapeconfig.CborEncodingConfig
	pos    int64
	source string
}

// NewEncoder constructs an Encoder writing into out under cfg. source
// names the destination for Position reporting.
func NewEncoder(out bytesio.Output, cfg tapeconfig.CborEncodingConfig, source string) *Encoder {
	return &Encoder{out: out, cfg: cfg, source: source}
}

func (e *Encoder) Pos() codecerr.Position {
	return codecerr.Position{Source: e.source, Offset: e.pos}
}

func (e *Encoder) writeByte(b byte) error {
	if err := e.out.WriteByte(b); err != nil {
		return err
	}
	e.pos++
	return nil
}

func (e *Encoder) writeBytes(b []byte) error {
	n, err := e.out.Write(b)
	e.pos += int64(n)
	return err
}

// writeHead writes the shortest canonical head for major/value: direct
// encoding up to 23, otherwise the narrowest of uint8/16/32/64 that can
// hold value, matching RFC 8949 §4.2.1's preferred-serialization rule.
func (e *Encoder) writeHead(major uint8, value uint64) error {
	switch {
	case value <= addDirectMax:
		return e.writeByte(makeHead(major, uint8(value)))
	case value <= math.MaxUint8:
		if err := e.writeByte(makeHead(major, addUint8)); err != nil {
			return err
		}
		return e.writeByte(byte(value))
	case value <= math.MaxUint16:
		if err := e.writeByte(makeHead(major, addUint16)); err != nil {
			return err
		}
		var buf [2]byte
		buf[0] = byte(value >> 8)
		buf[1] = byte(value)
		return e.writeBytes(buf[:])
	case value <= math.MaxUint32:
		if err := e.writeByte(makeHead(major, addUint32)); err != nil {
			return err
		}
		var buf [4]byte
		for i := 0; i < 4; i++ {
			buf[i] = byte(value >> uint(24-8*i))
		}
		return e.writeBytes(buf[:])
	default:
		if err := e.writeByte(makeHead(major, addUint64)); err != nil {
			return err
		}
		var buf [8]byte
		for i := 0; i < 8; i++ {
			buf[i] = byte(value >> uint(56-8*i))
		}
		return e.writeBytes(buf[:])
	}
}

func (e *Encoder) writeIndefiniteHead(major uint8) error {
	return e.writeByte(makeHead(major, addIndefinite))
}

func (e *Encoder) WriteNull() error      { return e.writeByte(makeHead(majorSimple, simpleNull)) }
func (e *Encoder) WriteUndefined() error { return e.writeByte(makeHead(majorSimple, simpleUndefined)) }

func (e *Encoder) WriteBool(v bool) error {
	if v {
		return e.writeByte(makeHead(majorSimple, simpleTrue))
	}
	return e.writeByte(makeHead(majorSimple, simpleFalse))
}

// WriteInt writes v as the shortest canonical CBOR integer: major 0 for
// non-negative, major 1 (encoding -(n+1)) for negative.
func (e *Encoder) WriteInt(v int64) error { return e.WriteLong(v) }

func (e *Encoder) WriteLong(v int64) error {
	if e.cfg.WriteLongsAsFloatingPoint && (v > math.MaxInt32 || v < math.MinInt32) {
		return e.WriteFloat64(float64(v))
	}
	if v >= 0 {
		return e.writeHead(majorUint, uint64(v))
	}
	return e.writeHead(majorNegInt, uint64(-(v + 1)))
}

// WriteOverLong writes a value beyond int64's range with mag as the head
// argument: major 0 for the value mag, or major 1 for the value -(mag+1)
// (mag==math.MaxUint64 means the logical value -18446744073709551616,
// RFC 8949 §3.1).
func (e *Encoder) WriteOverLong(neg bool, mag uint64) error {
	if !neg {
		return e.writeHead(majorUint, mag)
	}
	return e.writeHead(majorNegInt, mag)
}

func (e *Encoder) WriteFloat16(bits uint16) error {
	if err := e.writeByte(makeHead(majorSimple, simpleFloat16)); err != nil {
		return err
	}
	return e.writeBytes([]byte{byte(bits >> 8), byte(bits)})
}

func (e *Encoder) WriteFloat32(v float32) error {
	if err := e.writeByte(makeHead(majorSimple, simpleFloat32)); err != nil {
		return err
	}
	bits := math.Float32bits(v)
	var buf [4]byte
	for i := 0; i < 4; i++ {
		buf[i] = byte(bits >> uint(24-8*i))
	}
	return e.writeBytes(buf[:])
}

func (e *Encoder) WriteFloat64(v float64) error {
	if err := e.writeByte(makeHead(majorSimple, simpleFloat64)); err != nil {
		return err
	}
	bits := math.Float64bits(v)
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(bits >> uint(56-8*i))
	}
	return e.writeBytes(buf[:])
}

// WriteNumberString has no CBOR representation of its own; it is only
// ever produced by the JSON reader, so a CBOR encoder that sees one is
// being asked to transcode a number too large for any numeric item. We
// fall back to a decimal-fraction-free best effort: emit its digits as
// a plain CBOR text string.
func (e *Encoder) WriteNumberString(s string) error { return e.WriteString(s) }

func (e *Encoder) WriteBytes(b []byte) error {
	if int64(len(b)) > e.cfg.MaxByteStringLength {
		return codecerr.OverflowAt(e.Pos(), "byte string exceeds configured maximum length")
	}
	if err := e.writeHead(majorBytes, uint64(len(b))); err != nil {
		return err
	}
	return e.writeBytes(b)
}

func (e *Encoder) WriteBytesStart() error { return e.writeIndefiniteHead(majorBytes) }

func (e *Encoder) WriteString(s string) error { return e.WriteText([]byte(s)) }

func (e *Encoder) WriteText(b []byte) error {
	if err := e.writeHead(majorText, uint64(len(b))); err != nil {
		return err
	}
	return e.writeBytes(b)
}

func (e *Encoder) WriteTextStart() error { return e.writeIndefiniteHead(majorText) }

func (e *Encoder) WriteArrayHeader(n uint64) error {
	if int64(n) > e.cfg.MaxArrayLength {
		return codecerr.OverflowAt(e.Pos(), "array header exceeds configured maximum length")
	}
	return e.writeHead(majorArray, n)
}

func (e *Encoder) WriteArrayStart() error { return e.writeIndefiniteHead(majorArray) }

func (e *Encoder) WriteMapHeader(n uint64) error {
	if int64(n) > e.cfg.MaxMapLength {
		return codecerr.OverflowAt(e.Pos(), "map header exceeds configured maximum length")
	}
	return e.writeHead(majorMap, n)
}

func (e *Encoder) WriteMapStart() error { return e.writeIndefiniteHead(majorMap) }

func (e *Encoder) WriteTag(tag uint64) error { return e.writeHead(majorTag, tag) }

func (e *Encoder) WriteBreak() error { return e.writeByte(makeHead(majorSimple, simpleBreak)) }

func (e *Encoder) WriteSimpleValue(v uint8) error {
	switch v {
	case simpleFalse, simpleTrue, simpleNull, simpleUndefined:
		return codecerr.InvalidInputDataAt(e.Pos(), "reserved simple value must use its named item")
	}
	if v <= addDirectMax {
		return e.writeByte(makeHead(majorSimple, v))
	}
	if err := e.writeByte(makeHead(majorSimple, addUint8)); err != nil {
		return err
	}
	return e.writeByte(v)
}
