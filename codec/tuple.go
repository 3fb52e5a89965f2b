package codec

import "github.com/tapeware/tapecodec/wire"

// Tuple2 through Tuple4 cover small fixed-arity product types, each
// written as an array of heterogeneous fields. No larger arities are
// provided, and cmd/tapegen does not generate tuple codecs (its struct
// codecs are map-based). Decoding accepts a sized array header or an
// indefinite-length array, the shape JSON arrays arrive in.

type Tuple2[A, B any] struct {
	A A
	B B
}

// Tuple2Codec builds a Codec for Tuple2, written as a 2-element array.
func Tuple2Codec[A, B any](ca Codec[A], cb Codec[B]) Codec[Tuple2[A, B]] {
	return NewCodec(
		func(w *wire.Writer, v Tuple2[A, B]) error {
			if err := w.WriteArrayHeader(2); err != nil {
				return err
			}
			if err := ca.Encode(w, v.A); err != nil {
				return err
			}
			return cb.Encode(w, v.B)
		},
		func(r *wire.Reader) (Tuple2[A, B], error) {
			var out Tuple2[A, B]
			indefinite := r.HasArrayStart()
			if indefinite {
				_ = r.ReadArrayStart()
			} else if _, err := r.ReadArrayHeader(2); err != nil {
				return out, err
			}
			a, err := ca.Decode(r)
			if err != nil {
				return out, err
			}
			b, err := cb.Decode(r)
			if err != nil {
				return out, err
			}
			out.A, out.B = a, b
			if indefinite {
				return out, r.ReadBreak()
			}
			return out, nil
		},
	)
}

type Tuple3[A, B, C any] struct {
	A A
	B B
	C C
}

// Tuple3Codec builds a Codec for Tuple3, written as a 3-element array.
func Tuple3Codec[A, B, C any](ca Codec[A], cb Codec[B], cc Codec[C]) Codec[Tuple3[A, B, C]] {
	return NewCodec(
		func(w *wire.Writer, v Tuple3[A, B, C]) error {
			if err := w.WriteArrayHeader(3); err != nil {
				return err
			}
			if err := ca.Encode(w, v.A); err != nil {
				return err
			}
			if err := cb.Encode(w, v.B); err != nil {
				return err
			}
			return cc.Encode(w, v.C)
		},
		func(r *wire.Reader) (Tuple3[A, B, C], error) {
			var out Tuple3[A, B, C]
			indefinite := r.HasArrayStart()
			if indefinite {
				_ = r.ReadArrayStart()
			} else if _, err := r.ReadArrayHeader(3); err != nil {
				return out, err
			}
			a, err := ca.Decode(r)
			if err != nil {
				return out, err
			}
			b, err := cb.Decode(r)
			if err != nil {
				return out, err
			}
			c, err := cc.Decode(r)
			if err != nil {
				return out, err
			}
			out.A, out.B, out.C = a, b, c
			if indefinite {
				return out, r.ReadBreak()
			}
			return out, nil
		},
	)
}

type Tuple4[A, B, C, D any] struct {
	A A
	B B
	C C
	D D
}

// Tuple4Codec builds a Codec for Tuple4, written as a 4-element array.
func Tuple4Codec[A, B, C, D any](ca Codec[A], cb Codec[B], cc Codec[C], cd Codec[D]) Codec[Tuple4[A, B, C, D]] {
	return NewCodec(
		func(w *wire.Writer, v Tuple4[A, B, C, D]) error {
			if err := w.WriteArrayHeader(4); err != nil {
				return err
			}
			if err := ca.Encode(w, v.A); err != nil {
				return err
			}
			if err := cb.Encode(w, v.B); err != nil {
				return err
			}
			if err := cc.Encode(w, v.C); err != nil {
				return err
			}
			return cd.Encode(w, v.D)
		},
		func(r *wire.Reader) (Tuple4[A, B, C, D], error) {
			var out Tuple4[A, B, C, D]
			indefinite := r.HasArrayStart()
			if indefinite {
				_ = r.ReadArrayStart()
			} else if _, err := r.ReadArrayHeader(4); err != nil {
				return out, err
			}
			a, err := ca.Decode(r)
			if err != nil {
				return out, err
			}
			b, err := cb.Decode(r)
			if err != nil {
				return out, err
			}
			c, err := cc.Decode(r)
			if err != nil {
				return out, err
			}
			d, err := cd.Decode(r)
			if err != nil {
				return out, err
			}
			out.A, out.B, out.C, out.D = a, b, c, d
			if indefinite {
				return out, r.ReadBreak()
			}
			return out, nil
		},
	)
}
