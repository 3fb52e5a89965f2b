package tapecodec_test

import (
	"testing"

	tapecodec "github.com/tapeware/tapecodec"
	"github.com/tapeware/tapecodec/codec"
)

func TestEncodeDecodeCborRoundTrip(t *testing.T) {
	c := codec.ArrayCodec(codec.String)
	in := []string{"a", "b", "c"}

	b, err := tapecodec.EncodeCbor[[]string](c, in)
	if err != nil {
		t.Fatal(err)
	}
	out, err := tapecodec.DecodeCbor[[]string](c, b)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != len(in) {
		t.Fatalf("got %v want %v", out, in)
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("got %v want %v", out, in)
		}
	}
}

func TestEncodeDecodeJsonRoundTrip(t *testing.T) {
	c := codec.MapCodec(codec.String, codec.Int64)
	in := map[string]int64{"x": 1, "y": 2}

	b, err := tapecodec.EncodeJson[map[string]int64](c, in)
	if err != nil {
		t.Fatal(err)
	}
	out, err := tapecodec.DecodeJson[map[string]int64](c, b)
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range in {
		if out[k] != v {
			t.Fatalf("key %s: got %v want %v", k, out[k], v)
		}
	}
}

func TestCborDiagnostic(t *testing.T) {
	b, err := tapecodec.EncodeCbor[int64](codec.Int64, 7)
	if err != nil {
		t.Fatal(err)
	}
	got, err := tapecodec.Cbor.Diagnostic(b)
	if err != nil {
		t.Fatal(err)
	}
	if got != "7" {
		t.Fatalf("got %q want 7", got)
	}
}
