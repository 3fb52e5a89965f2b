package json_test

import (
	"testing"

	"github.com/tapeware/tapecodec/bytesio"
	"github.com/tapeware/tapecodec/codecerr"
	"github.com/tapeware/tapecodec/json"
	"github.com/tapeware/tapecodec/tapeconfig"
	"github.com/tapeware/tapecodec/wire"
)

func TestMaxNestingLevelsRejected(t *testing.T) {
	deep := ""
	for i := 0; i < 10; i++ {
		deep += "["
	}
	deep += "1"
	for i := 0; i < 10; i++ {
		deep += "]"
	}
	in := bytesio.NewSliceInput([]byte(deep), "<test>")
	cfg := tapeconfig.NewJsonDecodingConfig(tapeconfig.WithJsonMaxNestingLevels(3))
	r := wire.NewReader(json.NewParser(in, cfg))

	var walk func() error
	walk = func() error {
		k, err := r.DataItem()
		if err != nil {
			return err
		}
		if k != wire.KindArrayStart {
			return r.SkipElement()
		}
		if err := r.ReadArrayStart(); err != nil {
			return err
		}
		for !r.HasBreak() {
			if err := walk(); err != nil {
				return err
			}
		}
		return r.ReadBreak()
	}
	if err := walk(); err == nil {
		t.Fatal("expected nesting-depth rejection")
	}
}

func TestObjectSurfacesAsIndefiniteMap(t *testing.T) {
	in := bytesio.NewSliceInput([]byte(`{"a":1,"b":[2,3]}`), "<test>")
	r := wire.NewReader(json.NewParser(in, tapeconfig.NewJsonDecodingConfig()))

	k, err := r.DataItem()
	if err != nil {
		t.Fatal(err)
	}
	if k != wire.KindMapStart {
		t.Fatalf("got %s want KindMapStart", k)
	}
	if err := r.ReadMapStart(); err != nil {
		t.Fatal(err)
	}

	key, err := r.ReadString()
	if err != nil {
		t.Fatal(err)
	}
	if key != "a" {
		t.Fatalf("got key %q want a", key)
	}
	v, err := r.ReadInt64()
	if err != nil {
		t.Fatal(err)
	}
	if v != 1 {
		t.Fatalf("got %d want 1", v)
	}

	key, err = r.ReadString()
	if err != nil {
		t.Fatal(err)
	}
	if key != "b" {
		t.Fatalf("got key %q want b", key)
	}
	ak, err := r.DataItem()
	if err != nil {
		t.Fatal(err)
	}
	if ak != wire.KindArrayStart {
		t.Fatalf("got %s want KindArrayStart", ak)
	}
	if err := r.SkipElement(); err != nil {
		t.Fatal(err)
	}

	if !r.HasBreak() {
		t.Fatal("expected Break closing the object")
	}
	if err := r.ReadBreak(); err != nil {
		t.Fatal(err)
	}
}

func TestNumberClassification(t *testing.T) {
	cases := []struct {
		lit  string
		kind wire.Kind
	}{
		{"0", wire.KindInt},
		{"-42", wire.KindInt},
		{"3.14", wire.KindFloat64},
		{"1e10", wire.KindFloat64},
	}
	for _, tc := range cases {
		in := bytesio.NewSliceInput([]byte(tc.lit), "<test>")
		r := wire.NewReader(json.NewParser(in, tapeconfig.NewJsonDecodingConfig()))
		k, err := r.DataItem()
		if err != nil {
			t.Fatalf("%s: %v", tc.lit, err)
		}
		if k != tc.kind {
			t.Fatalf("%s: got %s want %s", tc.lit, k, tc.kind)
		}
	}
}

func TestOversizedDecimalRaisesNumberOutOfBounds(t *testing.T) {
	lit := "1." + repeatDigits(80) // exceeds default MaxNumberMantissaDigits
	in := bytesio.NewSliceInput([]byte(lit), "<test>")
	r := wire.NewReader(json.NewParser(in, tapeconfig.NewJsonDecodingConfig()))
	_, err := r.DataItem()
	if err == nil {
		t.Fatal("expected NumberOutOfBounds, got nil")
	}
	ce, ok := err.(codecerr.Error)
	if !ok {
		t.Fatalf("got error of type %T, want codecerr.Error", err)
	}
	if ce.Kind() != codecerr.NumberOutOfBounds {
		t.Fatalf("got kind %v want NumberOutOfBounds", ce.Kind())
	}
}

func TestOversizedExponentRaisesNumberOutOfBounds(t *testing.T) {
	lit := "1e500" // exceeds default MaxNumberAbsExponent (64)
	in := bytesio.NewSliceInput([]byte(lit), "<test>")
	r := wire.NewReader(json.NewParser(in, tapeconfig.NewJsonDecodingConfig()))
	_, err := r.DataItem()
	if err == nil {
		t.Fatal("expected NumberOutOfBounds, got nil")
	}
	ce, ok := err.(codecerr.Error)
	if !ok {
		t.Fatalf("got error of type %T, want codecerr.Error", err)
	}
	if ce.Kind() != codecerr.NumberOutOfBounds {
		t.Fatalf("got kind %v want NumberOutOfBounds", ce.Kind())
	}
}

func TestDecimalWithinBoundsBecomesFloat64(t *testing.T) {
	lit := "1." + repeatDigits(30) // within MaxNumberMantissaDigits (34)
	in := bytesio.NewSliceInput([]byte(lit), "<test>")
	r := wire.NewReader(json.NewParser(in, tapeconfig.NewJsonDecodingConfig()))
	k, err := r.DataItem()
	if err != nil {
		t.Fatal(err)
	}
	if k != wire.KindFloat64 {
		t.Fatalf("got %s want KindFloat64", k)
	}
}

func TestLeadingZeroRejected(t *testing.T) {
	for _, lit := range []string{"012", "-012", "00"} {
		in := bytesio.NewSliceInput([]byte(lit), "<test>")
		r := wire.NewReader(json.NewParser(in, tapeconfig.NewJsonDecodingConfig()))
		if _, err := r.DataItem(); err == nil {
			t.Fatalf("%s: expected leading-zero rejection", lit)
		}
	}
}

func TestBareZeroAndZeroFractionAccepted(t *testing.T) {
	for _, lit := range []string{"0", "0.5", "-0"} {
		in := bytesio.NewSliceInput([]byte(lit), "<test>")
		r := wire.NewReader(json.NewParser(in, tapeconfig.NewJsonDecodingConfig()))
		if _, err := r.DataItem(); err != nil {
			t.Fatalf("%s: unexpected error: %v", lit, err)
		}
	}
}

func repeatDigits(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '1'
	}
	return string(b)
}

func TestEncoderWritesCompactObject(t *testing.T) {
	out := bytesio.NewGrowableOutput(0)
	w := wire.NewWriter(json.NewEncoder(out, tapeconfig.NewJsonEncodingConfig(), "<test>"))
	if err := w.WriteMapHeader(2); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteString("a"); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteLong(1); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteString("b"); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteString("hi\nthere"); err != nil {
		t.Fatal(err)
	}
	if err := w.Finish(); err != nil {
		t.Fatal(err)
	}
	b, err := out.Result()
	if err != nil {
		t.Fatal(err)
	}
	want := `{"a":1,"b":"hi\nthere"}`
	if string(b) != want {
		t.Fatalf("got %s want %s", b, want)
	}
}
