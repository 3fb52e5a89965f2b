// Package codec provides the generic Encoder[T]/Decoder[T] type-class
// layer on top of wire.Reader/wire.Writer: one pair of interfaces per Go
// type, implemented once and usable against either wire format. Struct
// implementations are generated by cmd/tapegen against these interfaces
// instead of directly against the wire backend.
package codec

import "github.com/tapeware/tapecodec/wire"

// Encoder writes a value of type T through w.
type Encoder[T any] interface {
	Encode(w *wire.Writer, v T) error
}

// Decoder reads a value of type T from r.
type Decoder[T any] interface {
	Decode(r *wire.Reader) (T, error)
}

// Codec bundles an Encoder and Decoder for the same type, the shape most
// callers reach for when registering a type once for both directions.
type Codec[T any] interface {
	Encoder[T]
	Decoder[T]
}

// EncoderFunc adapts a plain function to an Encoder.
type EncoderFunc[T any] func(w *wire.Writer, v T) error

func (f EncoderFunc[T]) Encode(w *wire.Writer, v T) error { return f(w, v) }

// DecoderFunc adapts a plain function to a Decoder.
type DecoderFunc[T any] func(r *wire.Reader) (T, error)

func (f DecoderFunc[T]) Decode(r *wire.Reader) (T, error) { return f(r) }

// funcCodec composes an EncoderFunc and DecoderFunc into a Codec.
type funcCodec[T any] struct {
	EncoderFunc[T]
	DecoderFunc[T]
}

// NewCodec composes an encode and decode function into a Codec.
func NewCodec[T any](enc func(*wire.Writer, T) error, dec func(*wire.Reader) (T, error)) Codec[T] {
	return funcCodec[T]{EncoderFunc[T](enc), DecoderFunc[T](dec)}
}
