package codec

import (
	"encoding/base32"
	"encoding/base64"
	"encoding/hex"

	"github.com/tapeware/tapecodec/cbor"
	"github.com/tapeware/tapecodec/codecerr"
	"github.com/tapeware/tapecodec/json"
	"github.com/tapeware/tapecodec/wire"
)

// Transcode copies exactly one data item from src to dst, translating
// between CBOR's tag-annotated item vocabulary and JSON's plain object
// vocabulary using the "$wrapper" convention: a CBOR tag with no native JSON shape
// becomes a single-key {"$tagname": ...} object when dst is JSON. The
// reverse is not done: a wrapper object read from JSON is copied into
// CBOR as an ordinary one-entry map, not turned back into a tag. Items with a shared
// native shape (null, bool, numbers, strings, arrays, maps) pass through
// unchanged in either direction, since both formats' wire.Writer speak
// the identical wire.Kind vocabulary.
func Transcode(dst *wire.Writer, src *wire.Reader) error {
	k, err := src.DataItem()
	if err != nil {
		return err
	}
	switch k {
	case wire.KindNull:
		_ = src.ReadNull()
		return dst.WriteNull()
	case wire.KindUndefined:
		_, _ = src.TryReadUndefined()
		return dst.WriteUndefined()
	case wire.KindBool:
		v, err := src.ReadBool()
		if err != nil {
			return err
		}
		return dst.WriteBool(v)
	case wire.KindInt:
		v, err := src.ReadInt64()
		if err != nil {
			return err
		}
		return dst.WriteLong(v)
	case wire.KindLong:
		neg, mag, err := src.ReadLongRaw()
		if err != nil {
			return err
		}
		return dst.WriteOverLong(neg, mag)
	case wire.KindFloat16:
		bits, err := src.ReadFloat16Bits()
		if err != nil {
			return err
		}
		return dst.WriteFloat16(bits)
	case wire.KindFloat32:
		v, err := src.ReadFloat32()
		if err != nil {
			return err
		}
		return dst.WriteFloat32(v)
	case wire.KindFloat64:
		v, err := src.ReadFloat64()
		if err != nil {
			return err
		}
		return dst.WriteFloat64(v)
	case wire.KindNumberString:
		v, err := src.ReadString()
		if err != nil {
			return err
		}
		return dst.WriteNumberString(v)
	case wire.KindBytes:
		v, err := src.ReadBytes()
		if err != nil {
			return err
		}
		return dst.WriteBytes(v)
	case wire.KindString, wire.KindText:
		v, err := src.ReadString()
		if err != nil {
			return err
		}
		return dst.WriteString(v)
	case wire.KindSimpleValue:
		v, err := src.ReadSimpleValue()
		if err != nil {
			return err
		}
		return dst.WriteSimpleValue(v)
	case wire.KindArrayHeader:
		n, err := src.ReadArrayHeader(0)
		if err != nil {
			return err
		}
		if err := dst.WriteArrayHeader(n); err != nil {
			return err
		}
		for i := uint64(0); i < n; i++ {
			if err := Transcode(dst, src); err != nil {
				return codecerr.WrapError(err, "array element")
			}
		}
		return nil
	case wire.KindMapHeader:
		n, err := src.ReadMapHeader(0)
		if err != nil {
			return err
		}
		if err := dst.WriteMapHeader(n); err != nil {
			return err
		}
		for i := uint64(0); i < n; i++ {
			if err := Transcode(dst, src); err != nil {
				return codecerr.WrapError(err, "map key")
			}
			if err := Transcode(dst, src); err != nil {
				return codecerr.WrapError(err, "map value")
			}
		}
		return nil
	case wire.KindArrayStart, wire.KindMapStart, wire.KindBytesStart, wire.KindTextStart:
		return transcodeIndefinite(dst, src, k)
	case wire.KindTag:
		return transcodeTag(dst, src)
	default:
		return codecerr.UnsupportedElementAt(src.Position(), "cannot transcode "+k.String())
	}
}

func transcodeIndefinite(dst *wire.Writer, src *wire.Reader, k wire.Kind) error {
	switch k {
	case wire.KindArrayStart:
		if err := src.ReadArrayStart(); err != nil {
			return err
		}
		if err := dst.WriteArrayStart(); err != nil {
			return err
		}
	case wire.KindMapStart:
		if err := src.ReadMapStart(); err != nil {
			return err
		}
		if err := dst.WriteMapStart(); err != nil {
			return err
		}
	default:
		return codecerr.UnsupportedElementAt(src.Position(), "indefinite-length byte/text strings cannot be transcoded item-by-item")
	}
	for !src.HasBreak() {
		if err := Transcode(dst, src); err != nil {
			return err
		}
	}
	if err := src.ReadBreak(); err != nil {
		return err
	}
	return dst.WriteBreak()
}

// tagWrapperNames maps well-known semantic tags to the "$name" wrapper
// key used when the destination format has no tag of its own (JSON).
var tagWrapperNames = map[uint64]string{
	cbor.TagDateTimeString: "$rfc3339",
	cbor.TagEpochDateTime:  "$epoch",
	cbor.TagDecimalFrac:    "$decimal",
	cbor.TagBigfloat:       "$bigfloat",
	cbor.TagBase64URL:      "$base64url",
	cbor.TagBase64:         "$base64",
	cbor.TagBase16:         "$base16",
	cbor.TagEmbeddedCBOR:   "$cbor",
	cbor.TagURI:            "$uri",
	cbor.TagSelfDescribe:   "$selfdescribe",
}

func transcodeTag(dst *wire.Writer, src *wire.Reader) error {
	tag, err := src.ReadTag()
	if err != nil {
		return err
	}
	name, known := tagWrapperNames[tag]
	if _, toJSON := dst.Backend().(*json.Encoder); !known || !toJSON {
		// A CBOR destination keeps the tag as-is; a tag with no wrapper
		// convention also goes to WriteTag, which a JSON destination rejects.
		if err := dst.WriteTag(tag); err != nil {
			return err
		}
		return Transcode(dst, src)
	}
	if err := dst.WriteMapHeader(1); err != nil {
		return err
	}
	if err := dst.WriteString(name); err != nil {
		return err
	}
	return Transcode(dst, src)
}

// bytesToWrapperString renders b the way the $base64/$base64url/$base16
// wrappers expect on the JSON side. Transcode does not call it: it
// copies a wrapped tag's content item unchanged.
func bytesToWrapperString(tag uint64, b []byte) string {
	switch tag {
	case cbor.TagBase64URL:
		return base64.RawURLEncoding.EncodeToString(b)
	case cbor.TagBase64:
		return base64.StdEncoding.EncodeToString(b)
	case cbor.TagBase16:
		return hex.EncodeToString(b)
	default:
		return base32.StdEncoding.EncodeToString(b)
	}
}
