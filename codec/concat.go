package codec

import (
	"github.com/tapeware/tapecodec/bytesio"
	"github.com/tapeware/tapecodec/cbor"
	"github.com/tapeware/tapecodec/codecerr"
	"github.com/tapeware/tapecodec/tapeconfig"
	"github.com/tapeware/tapecodec/wire"
)

// Concat merges two encoders of the same container shape into one:
// array+array concatenates elements, map+map concatenates entries.
// Mixing an array encoder with a map encoder
// raises UnsupportedEncoderMerging, since there is no sensible item
// ordering that preserves both shapes. Only sized array/map headers are
// merged, into a sized container with the summed length; a side that
// writes an indefinite-length array or map also raises
// UnsupportedEncoderMerging.
//
// Each side is first rendered into a throwaway CBOR buffer so its
// top-level shape can be inspected before any byte commits to the real
// destination writer; the body is then replayed with Transcode, which
// already knows how to carry wire.Kind items across formats.
func Concat[T any](a, b Encoder[T]) Encoder[T] {
	return EncoderFunc[T](func(w *wire.Writer, v T) error {
		ra, err := renderToReader(a, v)
		if err != nil {
			return err
		}
		rb, err := renderToReader(b, v)
		if err != nil {
			return err
		}
		ka, err := ra.DataItem()
		if err != nil {
			return err
		}
		kb, err := rb.DataItem()
		if err != nil {
			return err
		}
		if ka != kb || (ka != wire.KindArrayHeader && ka != wire.KindMapHeader) {
			return codecerr.UnsupportedEncoderMergingAt(w.Backend().Pos(),
				"Concat requires both encoders to write an array or a map of the same shape, got "+ka.String()+" and "+kb.String())
		}
		na, err := ra.ReadArrayOrMapHeader()
		if err != nil {
			return err
		}
		nb, err := rb.ReadArrayOrMapHeader()
		if err != nil {
			return err
		}
		if ka == wire.KindArrayHeader {
			if err := w.WriteArrayHeader(na + nb); err != nil {
				return err
			}
		} else {
			if err := w.WriteMapHeader(na + nb); err != nil {
				return err
			}
		}
		count := na
		if ka == wire.KindMapHeader {
			count *= 2
		}
		for i := uint64(0); i < count; i++ {
			if err := Transcode(w, ra); err != nil {
				return codecerr.WrapError(err, "concat left side")
			}
		}
		count = nb
		if kb == wire.KindMapHeader {
			count *= 2
		}
		for i := uint64(0); i < count; i++ {
			if err := Transcode(w, rb); err != nil {
				return codecerr.WrapError(err, "concat right side")
			}
		}
		return nil
	})
}

func renderToReader[T any](enc Encoder[T], v T) (*wire.Reader, error) {
	out := bytesio.NewGrowableOutput(0)
	cw := wire.NewWriter(cbor.NewEncoder(out, tapeconfig.NewCborEncodingConfig(), "<concat>"))
	if err := enc.Encode(cw, v); err != nil {
		return nil, err
	}
	if err := cw.Finish(); err != nil {
		return nil, err
	}
	b, _ := out.Result()
	in := bytesio.NewSliceInput(b, "<concat>")
	return wire.NewReader(cbor.NewParser(in, tapeconfig.NewCborDecodingConfig())), nil
}
