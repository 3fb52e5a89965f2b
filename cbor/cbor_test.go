package cbor_test

import (
	"encoding/hex"
	"testing"

	"github.com/tapeware/tapecodec/bytesio"
	"github.com/tapeware/tapecodec/cbor"
	"github.com/tapeware/tapecodec/tapeconfig"
	"github.com/tapeware/tapecodec/wire"
)

// RFC 8949 Appendix A: canonical byte encodings for simple values.
var headEncodings = []struct {
	name string
	hex  string
	enc  func(w *wire.Writer) error
}{
	{"uint-0", "00", func(w *wire.Writer) error { return w.WriteLong(0) }},
	{"uint-23", "17", func(w *wire.Writer) error { return w.WriteLong(23) }},
	{"uint-24", "1818", func(w *wire.Writer) error { return w.WriteLong(24) }},
	{"uint-256", "190100", func(w *wire.Writer) error { return w.WriteLong(256) }},
	{"negint-minus1", "20", func(w *wire.Writer) error { return w.WriteLong(-1) }},
	{"bytes-3", "43010203", func(w *wire.Writer) error { return w.WriteBytes([]byte{1, 2, 3}) }},
	{"text-a", "6161", func(w *wire.Writer) error { return w.WriteString("a") }},
	{"array-1-2-3", "83010203", func(w *wire.Writer) error {
		if err := w.WriteArrayHeader(3); err != nil {
			return err
		}
		for i := int64(1); i <= 3; i++ {
			if err := w.WriteLong(i); err != nil {
				return err
			}
		}
		return nil
	}},
}

func TestEncoderCanonicalHeads(t *testing.T) {
	for _, tc := range headEncodings {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			out := bytesio.NewGrowableOutput(0)
			w := wire.NewWriter(cbor.NewEncoder(out, tapeconfig.NewCborEncodingConfig(), "<test>"))
			if err := tc.enc(w); err != nil {
				t.Fatalf("encode: %v", err)
			}
			if err := w.Finish(); err != nil {
				t.Fatalf("finish: %v", err)
			}
			b, err := out.Result()
			if err != nil {
				t.Fatalf("result: %v", err)
			}
			got := hex.EncodeToString(b)
			if got != tc.hex {
				t.Fatalf("got %s want %s", got, tc.hex)
			}
		})
	}
}

func TestRoundTripArray(t *testing.T) {
	out := bytesio.NewGrowableOutput(0)
	w := wire.NewWriter(cbor.NewEncoder(out, tapeconfig.NewCborEncodingConfig(), "<test>"))
	if err := w.WriteArrayHeader(2); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteString("hello"); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteLong(42); err != nil {
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
	n, err := r.ReadArrayHeader(0)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("got len %d want 2", n)
	}
	s, err := r.ReadString()
	if err != nil {
		t.Fatal(err)
	}
	if s != "hello" {
		t.Fatalf("got %q want hello", s)
	}
	v, err := r.ReadInt64()
	if err != nil {
		t.Fatal(err)
	}
	if v != 42 {
		t.Fatalf("got %d want 42", v)
	}
}

func TestIndefiniteArrayEncoding(t *testing.T) {
	out := bytesio.NewGrowableOutput(0)
	w := wire.NewWriter(cbor.NewEncoder(out, tapeconfig.NewCborEncodingConfig(), "<test>"))
	if err := w.WriteArrayStart(); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteLong(1); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteLong(2); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBreak(); err != nil {
		t.Fatal(err)
	}
	if err := w.Finish(); err != nil {
		t.Fatal(err)
	}
	b, err := out.Result()
	if err != nil {
		t.Fatal(err)
	}
	if hex.EncodeToString(b) != "9f0102ff" {
		t.Fatalf("got %s want 9f0102ff", hex.EncodeToString(b))
	}
}

func TestMaxNestingLevelsRejected(t *testing.T) {
	// 10 nested one-element arrays, each encoded as 81 <element>, with a
	// single 0x00 at the core.
	b, err := hex.DecodeString("81818181818181818181" + "00")
	if err != nil {
		t.Fatal(err)
	}
	in := bytesio.NewSliceInput(b, "<test>")
	cfg := tapeconfig.NewCborDecodingConfig(tapeconfig.WithCborMaxNestingLevels(3))
	r := wire.NewReader(cbor.NewParser(in, cfg))

	var walk func() error
	walk = func() error {
		k, err := r.DataItem()
		if err != nil {
			return err
		}
		if k != wire.KindArrayHeader {
			return r.SkipElement()
		}
		n, err := r.ReadArrayHeader(0)
		if err != nil {
			return err
		}
		for i := uint64(0); i < n; i++ {
			if err := walk(); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(); err == nil {
		t.Fatal("expected nesting-depth rejection")
	}
}

func TestMaxNestingLevelsAtLimitSucceeds(t *testing.T) {
	b, err := hex.DecodeString("8181" + "00")
	if err != nil {
		t.Fatal(err)
	}
	in := bytesio.NewSliceInput(b, "<test>")
	cfg := tapeconfig.NewCborDecodingConfig(tapeconfig.WithCborMaxNestingLevels(2))
	r := wire.NewReader(cbor.NewParser(in, cfg))

	var walk func() error
	walk = func() error {
		k, err := r.DataItem()
		if err != nil {
			return err
		}
		if k != wire.KindArrayHeader {
			return r.SkipElement()
		}
		n, err := r.ReadArrayHeader(0)
		if err != nil {
			return err
		}
		for i := uint64(0); i < n; i++ {
			if err := walk(); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(); err != nil {
		t.Fatalf("expected success at the configured limit, got %v", err)
	}
}

func TestRejectNonCanonicalLengthInStrictMode(t *testing.T) {
	// 0x18 0x00 encodes 0 using a non-shortest one-byte-argument form.
	b, err := hex.DecodeString("1800")
	if err != nil {
		t.Fatal(err)
	}
	in := bytesio.NewSliceInput(b, "<test>")
	cfg := tapeconfig.NewCborDecodingConfig(tapeconfig.WithCborStrict(true))
	r := wire.NewReader(cbor.NewParser(in, cfg))
	if _, err := r.ReadInt64(); err == nil {
		t.Fatalf("expected strict-mode rejection of non-canonical length")
	}
}
