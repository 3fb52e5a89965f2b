package codec

import "github.com/tapeware/tapecodec/wire"

// Option represents a possibly-absent value, the same role Rust/Scala's
// Option plays. OptionCodec writes an absent value as null over JSON and
// CBOR alike; nothing in this module omits an absent field instead, and
// cmd/tapegen's struct codecs have no option-specific handling.
type Option[T any] struct {
	Value T
	Some  bool
}

// Some wraps v as a present Option.
func Some[T any](v T) Option[T] { return Option[T]{Value: v, Some: true} }

// None returns an absent Option.
func None[T any]() Option[T] { return Option[T]{} }

// OptionCodec builds a Codec for Option[T] from an element Codec. Absent
// values always encode as Null and decode from Null; present values
// delegate to elem.
func OptionCodec[T any](elem Codec[T]) Codec[Option[T]] {
	return NewCodec(
		func(w *wire.Writer, v Option[T]) error {
			if !v.Some {
				return w.WriteNull()
			}
			return elem.Encode(w, v.Value)
		},
		func(r *wire.Reader) (Option[T], error) {
			if ok, err := r.TryReadNull(); err != nil {
				return Option[T]{}, err
			} else if ok {
				return None[T](), nil
			}
			if ok, err := r.TryReadUndefined(); err != nil {
				return Option[T]{}, err
			} else if ok {
				return None[T](), nil
			}
			v, err := elem.Decode(r)
			if err != nil {
				return Option[T]{}, err
			}
			return Some(v), nil
		},
	)
}
