package wire_test

import (
	"testing"

	"github.com/tapeware/tapecodec/bytesio"
	"github.com/tapeware/tapecodec/cbor"
	"github.com/tapeware/tapecodec/tapeconfig"
	"github.com/tapeware/tapecodec/wire"
)

func TestReaderPositionAdvances(t *testing.T) {
	b := []byte{0x01, 0x02, 0x03}
	in := bytesio.NewSliceInput(b, "<test>")
	r := wire.NewReader(cbor.NewParser(in, tapeconfig.NewCborDecodingConfig()))

	p0 := r.Position()
	if _, err := r.ReadInt64(); err != nil {
		t.Fatal(err)
	}
	p1 := r.Position()
	if p1.Offset <= p0.Offset {
		t.Fatalf("expected position to advance, got %d -> %d", p0.Offset, p1.Offset)
	}
}

func TestTryReadUndefined(t *testing.T) {
	out := bytesio.NewGrowableOutput(0)
	w := wire.NewWriter(cbor.NewEncoder(out, tapeconfig.NewCborEncodingConfig(), "<test>"))
	if err := w.WriteUndefined(); err != nil {
		t.Fatal(err)
	}
	if err := w.Finish(); err != nil {
		t.Fatal(err)
	}
	b, err := out.Result()
	if err != nil {
		t.Fatal(err)
	}

	in := bytesio.NewSliceInput(b, "<test>")
	r := wire.NewReader(cbor.NewParser(in, tapeconfig.NewCborDecodingConfig()))
	ok, err := r.TryReadUndefined()
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected TryReadUndefined to consume the item")
	}
}

func TestReadArrayOrMapHeaderAcceptsBoth(t *testing.T) {
	for _, tc := range []struct {
		name string
		enc  func(w *wire.Writer) error
		want uint64
	}{
		{"array", func(w *wire.Writer) error { return w.WriteArrayHeader(3) }, 3},
		{"map", func(w *wire.Writer) error { return w.WriteMapHeader(2) }, 2},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			out := bytesio.NewGrowableOutput(0)
			w := wire.NewWriter(cbor.NewEncoder(out, tapeconfig.NewCborEncodingConfig(), "<test>"))
			if err := tc.enc(w); err != nil {
				t.Fatal(err)
			}
			// Finish intentionally omitted: the header alone is a
			// complete, well-formed prefix for ReadArrayOrMapHeader to
			// consume even though the declared elements were never
			// written.

			b, err := out.Result()
			if err != nil {
				t.Fatal(err)
			}
			in := bytesio.NewSliceInput(b, "<test>")
			r := wire.NewReader(cbor.NewParser(in, tapeconfig.NewCborDecodingConfig()))
			n, err := r.ReadArrayOrMapHeader()
			if err != nil {
				t.Fatal(err)
			}
			if n != tc.want {
				t.Fatalf("got %d want %d", n, tc.want)
			}
		})
	}
}
