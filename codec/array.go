package codec

import "github.com/tapeware/tapecodec/wire"

// ArrayCodec builds a Codec for []T from an element Codec, written as a
// sized array header (the default container shape for slices; an
// indefinite-length variant is not exposed here since nothing
// in this codebase needs to stream an array of unknown length ahead of
// time — encoders always know len(slice) before writing). Decoding also
// accepts an indefinite-length array, the shape JSON arrays arrive in.
func ArrayCodec[T any](elem Codec[T]) Codec[[]T] {
	return NewCodec(
		func(w *wire.Writer, v []T) error {
			if err := w.WriteArrayHeader(uint64(len(v))); err != nil {
				return err
			}
			for _, item := range v {
				if err := elem.Encode(w, item); err != nil {
					return err
				}
			}
			return nil
		},
		func(r *wire.Reader) ([]T, error) {
			if r.HasArrayStart() {
				_ = r.ReadArrayStart()
				out := []T{}
				for !r.HasBreak() {
					v, err := elem.Decode(r)
					if err != nil {
						return nil, err
					}
					out = append(out, v)
				}
				return out, r.ReadBreak()
			}
			n, err := r.ReadArrayHeader(0)
			if err != nil {
				return nil, err
			}
			out := make([]T, 0, clampCap(n))
			for i := uint64(0); i < n; i++ {
				v, err := elem.Decode(r)
				if err != nil {
					return nil, err
				}
				out = append(out, v)
			}
			return out, nil
		},
	)
}

// clampCap avoids trusting an attacker-controlled length header for the
// initial slice allocation; the loop above still fails fast on truncated
// input, this just bounds the up-front allocation.
func clampCap(n uint64) int {
	const max = 1 << 16
	if n > max {
		return max
	}
	return int(n)
}

// MapCodec builds a Codec for map[K]V from key and value Codecs, written
// as a sized map header. Decoding also accepts an indefinite-length map,
// the shape JSON objects arrive in.
func MapCodec[K comparable, V any](key Codec[K], val Codec[V]) Codec[map[K]V] {
	return NewCodec(
		func(w *wire.Writer, v map[K]V) error {
			if err := w.WriteMapHeader(uint64(len(v))); err != nil {
				return err
			}
			for k, item := range v {
				if err := key.Encode(w, k); err != nil {
					return err
				}
				if err := val.Encode(w, item); err != nil {
					return err
				}
			}
			return nil
		},
		func(r *wire.Reader) (map[K]V, error) {
			if r.HasMapStart() {
				_ = r.ReadMapStart()
				out := map[K]V{}
				for !r.HasBreak() {
					k, err := key.Decode(r)
					if err != nil {
						return nil, err
					}
					v, err := val.Decode(r)
					if err != nil {
						return nil, err
					}
					out[k] = v
				}
				return out, r.ReadBreak()
			}
			n, err := r.ReadMapHeader(0)
			if err != nil {
				return nil, err
			}
			out := make(map[K]V, clampCap(n))
			for i := uint64(0); i < n; i++ {
				k, err := key.Decode(r)
				if err != nil {
					return nil, err
				}
				v, err := val.Decode(r)
				if err != nil {
					return nil, err
				}
				out[k] = v
			}
			return out, nil
		},
	)
}
