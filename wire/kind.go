// Package wire defines the shared data-item protocol that is the
// "universal waist" both the cbor and json back-ends pass through: the
// Kind enumeration, the Receptacle holding one decoded item, and the
// Reader/Writer pull/push API built on top of them.
package wire

// Kind enumerates the data items shared by both wire formats. It is the
// canonical vocabulary the wire.Reader/wire.Writer protocol speaks: every
// byte either format produces or consumes corresponds to exactly one Kind
// value flowing through the Receptacle.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindNull
	KindUndefined // CBOR-only
	KindBool
	KindInt          // fits int64, canonical-width on the wire
	KindLong         // CBOR "over-long" unsigned magnitude beyond int64
	KindFloat16      // half-precision float, raw bits
	KindFloat32      // single-precision float
	KindFloat64      // double-precision float
	KindNumberString // JSON-source-only: literal digits not representable losslessly
	KindBytes
	KindBytesStart // opens an indefinite-length byte string
	KindString
	KindText      // raw UTF-8 bytes without the allocation of a Go string
	KindTextStart // opens an indefinite-length text string
	KindArrayHeader
	KindArrayStart // opens an indefinite-length array
	KindMapHeader
	KindMapStart // opens an indefinite-length map
	KindTag
	KindBreak
	KindSimpleValue
	KindEndOfInput
)

// String implements fmt.Stringer for use in error messages and the diag
// package's dump output.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindUndefined:
		return "Undefined"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindLong:
		return "Long"
	case KindFloat16:
		return "Float16"
	case KindFloat32:
		return "Float"
	case KindFloat64:
		return "Double"
	case KindNumberString:
		return "NumberString"
	case KindBytes:
		return "Bytes"
	case KindBytesStart:
		return "BytesStart"
	case KindString:
		return "String"
	case KindText:
		return "Text"
	case KindTextStart:
		return "TextStart"
	case KindArrayHeader:
		return "ArrayHeader"
	case KindArrayStart:
		return "ArrayStart"
	case KindMapHeader:
		return "MapHeader"
	case KindMapStart:
		return "MapStart"
	case KindTag:
		return "Tag"
	case KindBreak:
		return "Break"
	case KindSimpleValue:
		return "SimpleValue"
	case KindEndOfInput:
		return "EndOfInput"
	default:
		return "Invalid"
	}
}

// IsContainerStart reports whether k opens an indefinite-length container
// that must eventually be matched by a Break at the same nesting depth.
func (k Kind) IsContainerStart() bool {
	switch k {
	case KindBytesStart, KindTextStart, KindArrayStart, KindMapStart:
		return true
	default:
		return false
	}
}
