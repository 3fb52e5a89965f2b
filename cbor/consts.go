// Package cbor is the CBOR (RFC 8949) back-end: a pull parser and a
// streaming encoder that produce and consume the wire.Kind data-item
// vocabulary over an arbitrary bytesio.Input/bytesio.Output.
package cbor

// Major types (high 3 bits of the initial byte).
const (
	majorUint   = 0
	majorNegInt = 1
	majorBytes  = 2
	majorText   = 3
	majorArray  = 4
	majorMap    = 5
	majorTag    = 6
	majorSimple = 7
)

// Additional-info values (low 5 bits of the initial byte).
const (
	addDirectMax  = 23
	addUint8      = 24
	addUint16     = 25
	addUint32     = 26
	addUint64     = 27
	addIndefinite = 31
)

// Major-7 simple values.
const (
	simpleFalse     = 20
	simpleTrue      = 21
	simpleNull      = 22
	simpleUndefined = 23
	simpleFloat16   = 25
	simpleFloat32   = 26
	simpleFloat64   = 27
	simpleBreak     = 31
)

// Common semantic tags (RFC 8949 §3.4 / IANA registry), used by the
// big-number/decimal-fraction assembly in codec/bignum.go and by the
// $wrapper table in codec/transcode.go.
const (
	TagDateTimeString = 0
	TagEpochDateTime  = 1
	TagPosBignum      = 2
	TagNegBignum      = 3
	TagDecimalFrac    = 4
	TagBigfloat       = 5
	TagBase64URL      = 21
	TagBase64         = 22
	TagBase16         = 23
	TagEmbeddedCBOR   = 24
	TagURI            = 32
	TagSelfDescribe   = 55799
)

func makeHead(major, addInfo uint8) byte { return byte(major<<5) | (addInfo & 0x1f) }
func headMajor(b byte) uint8             { return (b >> 5) & 0x07 }
func headAddInfo(b byte) uint8           { return b & 0x1f }
