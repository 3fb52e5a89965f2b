package cbor

import "unicode/utf8"

// validUTF8 validates UTF-8 text string payloads. It is a var rather than
// a plain function so an architecture-specific, SIMD-accelerated
// implementation can be swapped in via a build-tagged file without
// touching parser.go.
var validUTF8 = func(b []byte) bool { return utf8.Valid(b) }
