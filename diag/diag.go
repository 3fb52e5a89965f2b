// Package diag renders a data item stream in RFC 8949 §8 diagnostic
// notation. It operates on a wire.Reader so the same renderer works
// whether the underlying item came off the CBOR or the JSON back-end.
package diag

import (
	"math"
	"strconv"
	"strings"

	"github.com/tapeware/tapecodec/codecerr"
	"github.com/tapeware/tapecodec/wire"
	"github.com/x448/float16"
)

const maxDepth = 1000

// Dump renders exactly one data item (and, recursively, everything it
// contains) from r as diagnostic notation.
func Dump(r *wire.Reader) (string, error) {
	var sb strings.Builder
	if err := dumpOne(&sb, r, 0); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func dumpOne(sb *strings.Builder, r *wire.Reader, depth int) error {
	if depth > maxDepth {
		return codecerr.OverflowAt(r.Position(), "diagnostic dump exceeded maximum nesting depth")
	}
	k, err := r.DataItem()
	if err != nil {
		return err
	}
	switch k {
	case wire.KindNull:
		_ = r.ReadNull()
		sb.WriteString("null")
	case wire.KindUndefined:
		_, _ = r.TryReadUndefined()
		sb.WriteString("undefined")
	case wire.KindBool:
		v, err := r.ReadBool()
		if err != nil {
			return err
		}
		sb.WriteString(strconv.FormatBool(v))
	case wire.KindInt:
		v, err := r.ReadInt64()
		if err != nil {
			return err
		}
		sb.WriteString(strconv.FormatInt(v, 10))
	case wire.KindLong:
		neg, mag, err := r.ReadLongRaw()
		if err != nil {
			return err
		}
		if neg && mag == math.MaxUint64 {
			sb.WriteString("-18446744073709551616")
		} else if neg {
			sb.WriteString("-" + strconv.FormatUint(mag+1, 10))
		} else {
			sb.WriteString(strconv.FormatUint(mag, 10))
		}
	case wire.KindFloat16, wire.KindFloat32:
		v, err := readFloat32(r, k)
		if err != nil {
			return err
		}
		sb.WriteString(formatFloat(float64(v), 32))
	case wire.KindFloat64:
		v, err := r.ReadFloat64()
		if err != nil {
			return err
		}
		sb.WriteString(formatFloat(v, 64))
	case wire.KindNumberString:
		v, err := r.ReadString()
		if err != nil {
			return err
		}
		sb.WriteString(v)
	case wire.KindBytes:
		v, err := r.ReadBytes()
		if err != nil {
			return err
		}
		sb.WriteString("h'")
		sb.WriteString(hexEncode(v))
		sb.WriteString("'")
	case wire.KindString, wire.KindText:
		v, err := r.ReadString()
		if err != nil {
			return err
		}
		sb.WriteString(strconv.Quote(v))
	case wire.KindSimpleValue:
		v, err := r.ReadSimpleValue()
		if err != nil {
			return err
		}
		sb.WriteString("simple(")
		sb.WriteString(strconv.Itoa(int(v)))
		sb.WriteString(")")
	case wire.KindTag:
		tag, err := r.ReadTag()
		if err != nil {
			return err
		}
		sb.WriteString(strconv.FormatUint(tag, 10))
		sb.WriteString("(")
		if err := dumpOne(sb, r, depth+1); err != nil {
			return err
		}
		sb.WriteString(")")
	case wire.KindArrayHeader:
		n, err := r.ReadArrayHeader(0)
		if err != nil {
			return err
		}
		sb.WriteString("[")
		for i := uint64(0); i < n; i++ {
			if i > 0 {
				sb.WriteString(", ")
			}
			if err := dumpOne(sb, r, depth+1); err != nil {
				return err
			}
		}
		sb.WriteString("]")
	case wire.KindMapHeader:
		n, err := r.ReadMapHeader(0)
		if err != nil {
			return err
		}
		sb.WriteString("{")
		for i := uint64(0); i < n; i++ {
			if i > 0 {
				sb.WriteString(", ")
			}
			if err := dumpOne(sb, r, depth+1); err != nil {
				return err
			}
			sb.WriteString(": ")
			if err := dumpOne(sb, r, depth+1); err != nil {
				return err
			}
		}
		sb.WriteString("}")
	case wire.KindArrayStart:
		if err := r.ReadArrayStart(); err != nil {
			return err
		}
		sb.WriteString("[_ ")
		if err := dumpUntilBreak(sb, r, depth, false); err != nil {
			return err
		}
		sb.WriteString("]")
	case wire.KindMapStart:
		if err := r.ReadMapStart(); err != nil {
			return err
		}
		sb.WriteString("{_ ")
		if err := dumpUntilBreak(sb, r, depth, true); err != nil {
			return err
		}
		sb.WriteString("}")
	default:
		return codecerr.UnsupportedElementAt(r.Position(), "cannot render "+k.String()+" in diagnostic notation")
	}
	return nil
}

func dumpUntilBreak(sb *strings.Builder, r *wire.Reader, depth int, isMap bool) error {
	first := true
	for !r.HasBreak() {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		if err := dumpOne(sb, r, depth+1); err != nil {
			return err
		}
		if isMap {
			sb.WriteString(": ")
			if err := dumpOne(sb, r, depth+1); err != nil {
				return err
			}
		}
	}
	return r.ReadBreak()
}

func readFloat32(r *wire.Reader, k wire.Kind) (float32, error) {
	if k == wire.KindFloat32 {
		return r.ReadFloat32()
	}
	bits, err := r.ReadFloat16Bits()
	if err != nil {
		return 0, err
	}
	return float16.Frombits(bits).Float32(), nil
}

func formatFloat(f float64, bitSize int) string {
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if math.IsNaN(f) {
		return "NaN"
	}
	af := math.Abs(f)
	if af == 0 || af < 1e15 {
		s := strconv.FormatFloat(f, 'f', -1, bitSize)
		return trimTrailingZerosDot(s)
	}
	return strconv.FormatFloat(f, 'g', -1, bitSize)
}

func trimTrailingZerosDot(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	i := len(s)
	for i > 0 && s[i-1] == '0' {
		i--
	}
	if i > 0 && s[i-1] == '.' {
		i--
	}
	return s[:i]
}

func hexEncode(b []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = digits[c>>4]
		out[i*2+1] = digits[c&0xF]
	}
	return string(out)
}
