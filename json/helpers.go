package json

import (
	"encoding/base64"

	"github.com/x448/float16"
)

// base64StdEncode renders b the way WriteBytes surfaces a CBOR byte
// string with no native JSON shape: standard base64, RFC 4648 §4.
func base64StdEncode(b []byte) string { return base64.StdEncoding.EncodeToString(b) }

// float16ToFloat32Json widens a half-precision bit pattern for JSON
// output, which has no binary16 literal of its own.
func float16ToFloat32Json(bits uint16) float32 { return float16.Frombits(bits).Float32() }
