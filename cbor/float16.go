package cbor

import "github.com/x448/float16"

// float16ToFloat32 converts a raw IEEE-754 binary16 bit pattern to a
// float32. The parser and encoder pass Float16 items through as raw
// bits and do not call the helpers in this file.
func float16ToFloat32(bits uint16) float32 {
	return float16.Frombits(bits).Float32()
}

// float32ToFloat16Bits converts f to its nearest binary16 bit pattern.
// CBOR encoding never chooses float16 on its own: Encoder.WriteFloat16
// takes the bits from its caller.
func float32ToFloat16Bits(f float32) uint16 {
	return float16.Fromfloat32(f).Bits()
}

// fitsFloat16Exactly reports whether f round-trips exactly through
// binary16. Encoder.WriteFloat64 always writes the 8-byte form.
func fitsFloat16Exactly(f float64) bool {
	bits := float32ToFloat16Bits(float32(f))
	return float64(float16ToFloat32(bits)) == f
}
