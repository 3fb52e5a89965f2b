package json

import (
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/tapeware/tapecodec/bytesio"
	"github.com/tapeware/tapecodec/codecerr"
	"github.com/tapeware/tapecodec/tapeconfig"
)

type encoderFrame struct {
	isMap     bool
	remaining int64 // -1 indefinite, otherwise items left (pairs count double for maps)
	count     int64 // items already written in this container
}

// Encoder is the JSON wire.WriteBackend. Unlike CBOR, JSON has no
// self-describing container length on the wire, so Encoder keeps its own
// frame stack purely to know when to emit ',' and ':' and when a sized
// container's closing bracket is due — bookkeeping wire.Writer's own
// stack has no reason to duplicate since it only cares about the generic
// push-API contract, not bracket punctuation.
type Encoder struct {
	out    bytesio.Output
	cfg    tapeconfig.JsonEncodingConfig
	pos    int64
	source string
	stack  []encoderFrame
}

// NewEncoder constructs an Encoder writing into out under cfg.
func NewEncoder(out bytesio.Output, cfg tapeconfig.JsonEncodingConfig, source string) *Encoder {
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

func (e *Encoder) writeString(s string) error {
	n, err := e.out.Write([]byte(s))
	e.pos += int64(n)
	return err
}

// beforeItem emits the ',' or ':' separator due before the next item in
// the innermost open container, if any.
func (e *Encoder) beforeItem() error {
	if len(e.stack) == 0 {
		return nil
	}
	top := &e.stack[len(e.stack)-1]
	if top.count == 0 {
		return nil
	}
	if top.isMap && top.count%2 == 1 {
		return e.writeByte(':')
	}
	return e.writeByte(',')
}

// afterItem records that one item was written and, for sized containers,
// closes the bracket once the declared count is reached.
func (e *Encoder) afterItem() error {
	if len(e.stack) == 0 {
		return nil
	}
	top := &e.stack[len(e.stack)-1]
	top.count++
	if top.remaining < 0 {
		return nil
	}
	top.remaining--
	if top.remaining == 0 {
		return e.closeTop()
	}
	return nil
}

func (e *Encoder) closeTop() error {
	top := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	closer := byte(']')
	if top.isMap {
		closer = '}'
	}
	if err := e.writeByte(closer); err != nil {
		return err
	}
	return e.afterItem()
}

func (e *Encoder) writeScalar(write func() error) error {
	if err := e.beforeItem(); err != nil {
		return err
	}
	if err := write(); err != nil {
		return err
	}
	return e.afterItem()
}

func (e *Encoder) WriteNull() error {
	return e.writeScalar(func() error { return e.writeString("null") })
}

// WriteUndefined has no JSON shape; it maps to null, the same choice
// encoding/json makes for an untyped nil.
func (e *Encoder) WriteUndefined() error { return e.WriteNull() }

func (e *Encoder) WriteBool(v bool) error {
	return e.writeScalar(func() error {
		if v {
			return e.writeString("true")
		}
		return e.writeString("false")
	})
}

func (e *Encoder) WriteInt(v int64) error { return e.WriteLong(v) }

func (e *Encoder) WriteLong(v int64) error {
	return e.writeScalar(func() error { return e.writeString(strconv.FormatInt(v, 10)) })
}

func (e *Encoder) WriteOverLong(neg bool, mag uint64) error {
	return e.writeScalar(func() error {
		s := strconv.FormatUint(mag, 10)
		if neg {
			// logical value is -(mag+1); render via big-free string math
			// is unnecessary here since mag+1 cannot overflow uint64
			// except for mag == MaxUint64, handled as a literal.
			if mag == math.MaxUint64 {
				return e.writeString("-18446744073709551616")
			}
			return e.writeString("-" + strconv.FormatUint(mag+1, 10))
		}
		return e.writeString(s)
	})
}

func (e *Encoder) WriteFloat32(v float32) error {
	return e.writeScalar(func() error { return e.writeFloat(float64(v), 32) })
}

func (e *Encoder) WriteFloat64(v float64) error {
	return e.writeScalar(func() error { return e.writeFloat(v, 64) })
}

func (e *Encoder) writeFloat(v float64, bitSize int) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return codecerr.UnsupportedElementAt(e.Pos(), "JSON cannot represent NaN or Infinity")
	}
	return e.writeString(strconv.FormatFloat(v, 'g', -1, bitSize))
}

func (e *Encoder) WriteFloat16(bits uint16) error {
	return e.writeScalar(func() error { return e.writeFloat(float64(float16ToFloat32Json(bits)), 32) })
}

// WriteNumberString writes the literal digits verbatim, since a
// NumberString already holds a syntactically valid JSON number (it
// originates from this package's own parser or from codec.BigInt's
// base-10 digits).
func (e *Encoder) WriteNumberString(s string) error {
	return e.writeScalar(func() error { return e.writeString(s) })
}

func (e *Encoder) WriteBytes(b []byte) error {
	return e.writeScalar(func() error { return e.writeQuotedString(base64StdEncode(b)) })
}

func (e *Encoder) WriteBytesStart() error {
	return codecerr.UnsupportedElementAt(e.Pos(), "JSON has no indefinite-length byte string")
}

func (e *Encoder) WriteString(s string) error {
	return e.writeScalar(func() error { return e.writeQuotedString(s) })
}

func (e *Encoder) WriteText(b []byte) error { return e.WriteString(string(b)) }

func (e *Encoder) WriteTextStart() error {
	return codecerr.UnsupportedElementAt(e.Pos(), "JSON has no indefinite-length text string")
}

func (e *Encoder) writeQuotedString(s string) error {
	if err := e.writeByte('"'); err != nil {
		return err
	}
	start := 0
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r >= 0x20 && r != '"' && r != '\\' && r != utf8.RuneError {
			i += size
			continue
		}
		if i > start {
			if err := e.writeString(s[start:i]); err != nil {
				return err
			}
		}
		if err := e.writeEscaped(r, s[i:i+size]); err != nil {
			return err
		}
		i += size
		start = i
	}
	if start < len(s) {
		if err := e.writeString(s[start:]); err != nil {
			return err
		}
	}
	return e.writeByte('"')
}

func (e *Encoder) writeEscaped(r rune, raw string) error {
	switch r {
	case '"':
		return e.writeString(`\"`)
	case '\\':
		return e.writeString(`\\`)
	case '\n':
		return e.writeString(`\n`)
	case '\r':
		return e.writeString(`\r`)
	case '\t':
		return e.writeString(`\t`)
	case '\b':
		return e.writeString(`\b`)
	case '\f':
		return e.writeString(`\f`)
	default:
		if r == utf8.RuneError && len(raw) == 1 {
			return e.writeString(`�`)
		}
		if r < 0x20 {
			return e.writeString("\\u" + hex4(uint16(r)))
		}
		return e.writeString(raw)
	}
}

func hex4(v uint16) string {
	const digits = "0123456789abcdef"
	buf := [4]byte{
		digits[(v>>12)&0xF],
		digits[(v>>8)&0xF],
		digits[(v>>4)&0xF],
		digits[v&0xF],
	}
	return string(buf[:])
}

func (e *Encoder) openContainer(isMap bool, remaining int64, opener byte) error {
	if err := e.beforeItem(); err != nil {
		return err
	}
	if err := e.writeByte(opener); err != nil {
		return err
	}
	e.stack = append(e.stack, encoderFrame{isMap: isMap, remaining: remaining})
	if remaining == 0 {
		return e.closeTop()
	}
	return nil
}

// WriteArrayHeader and WriteArrayStart both simply open '[': the
// distinction between a sized and indefinite source container is
// meaningful to wire.Writer's own bookkeeping but JSON's wire shape is
// identical either way.
func (e *Encoder) WriteArrayHeader(n uint64) error { return e.openContainer(false, int64(n), '[') }
func (e *Encoder) WriteArrayStart() error          { return e.openContainer(false, -1, '[') }

func (e *Encoder) WriteMapHeader(n uint64) error { return e.openContainer(true, int64(n)*2, '{') }
func (e *Encoder) WriteMapStart() error          { return e.openContainer(true, -1, '{') }

// WriteTag has no JSON representation; callers that need to cross the
// CBOR/JSON boundary go through codec.Transcode's "$wrapper" convention
// instead of calling this directly.
func (e *Encoder) WriteTag(tag uint64) error {
	return codecerr.UnsupportedElementAt(e.Pos(), "JSON cannot represent a CBOR tag directly")
}

func (e *Encoder) WriteBreak() error {
	if len(e.stack) == 0 || e.stack[len(e.stack)-1].remaining != -1 {
		return codecerr.InvalidInputDataAt(e.Pos(), "Break with no open indefinite-length container")
	}
	return e.closeTop()
}

// WriteSimpleValue has no JSON representation besides the literals
// already covered by WriteBool/WriteNull; any other simple value number
// is written as a bare JSON integer (the diag package renders the same
// item as simple(N)).
func (e *Encoder) WriteSimpleValue(v uint8) error {
	return e.writeScalar(func() error { return e.writeString(strconv.Itoa(int(v))) })
}
