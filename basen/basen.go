// Package basen implements the RFC 4648 base-N text encodings used by
// the CBOR/JSON bridge's byte-string wrapper conventions ($base64,
// $base64url, $base16) and exposed standalone for callers who just want
// a conformant encoder/decoder. This wraps the standard library rather
// than a third-party dependency: RFC 4648 is fully and exactly
// implemented by encoding/base32 and encoding/base64, and nothing in the
// example pack pulls in an alternative — see DESIGN.md.
package basen

import (
	"encoding/base32"
	"encoding/base64"
)

// Base16 encodes/decodes RFC 4648 §8 base16 (hex), uppercase on output,
// case-insensitive on input via Go's own encoding/hex-compatible table.
var Base16 = base16Codec{}

type base16Codec struct{}

const hexDigits = "0123456789ABCDEF"

func (base16Codec) EncodeToString(src []byte) string {
	out := make([]byte, len(src)*2)
	for i, b := range src {
		out[i*2] = hexDigits[b>>4]
		out[i*2+1] = hexDigits[b&0xF]
	}
	return string(out)
}

func (base16Codec) DecodeString(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, errOddLength
	}
	out := make([]byte, len(s)/2)
	for i := range out {
		hi, err := hexVal(s[i*2])
		if err != nil {
			return nil, err
		}
		lo, err := hexVal(s[i*2+1])
		if err != nil {
			return nil, err
		}
		out[i] = hi<<4 | lo
	}
	return out, nil
}

func hexVal(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	default:
		return 0, errInvalidHexDigit
	}
}

var (
	errOddLength       = basenError("basen: odd-length hex string")
	errInvalidHexDigit = basenError("basen: invalid hex digit")
)

type basenError string

func (e basenError) Error() string { return string(e) }

// Base32, Base32Hex, Base64, Base64URL expose the standard library
// codecs under this package's naming scheme, padded per RFC 4648
// defaults; Base64Raw/Base64URLRaw give the unpadded variants the CBOR
// bridge's $base64url wrapper prefers.
var (
	Base32       = base32.StdEncoding
	Base32Hex    = base32.HexEncoding
	Base64       = base64.StdEncoding
	Base64URL    = base64.URLEncoding
	Base64Raw    = base64.RawStdEncoding
	Base64URLRaw = base64.RawURLEncoding
)
