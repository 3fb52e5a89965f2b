package codec_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tapeware/tapecodec/bytesio"
	"github.com/tapeware/tapecodec/cbor"
	"github.com/tapeware/tapecodec/codec"
	"github.com/tapeware/tapecodec/json"
	"github.com/tapeware/tapecodec/tapeconfig"
	"github.com/tapeware/tapecodec/wire"
)

func encodeCbor[T any](t *testing.T, enc codec.Encoder[T], v T) []byte {
	t.Helper()
	out := bytesio.NewGrowableOutput(0)
	w := wire.NewWriter(cbor.NewEncoder(out, tapeconfig.NewCborEncodingConfig(), "<test>"))
	if err := enc.Encode(w, v); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := w.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}
	b, err := out.Result()
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	return b
}

func decodeCbor[T any](t *testing.T, dec codec.Decoder[T], b []byte) T {
	t.Helper()
	in := bytesio.NewSliceInput(b, "<test>")
	r := wire.NewReader(cbor.NewParser(in, tapeconfig.NewCborDecodingConfig()))
	v, err := dec.Decode(r)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestArrayCodecRoundTrip(t *testing.T) {
	c := codec.ArrayCodec(codec.Int64)
	in := []int64{1, 2, 3, -4}
	b := encodeCbor[[]int64](t, c, in)
	out := decodeCbor[[]int64](t, c, b)
	if len(out) != len(in) {
		t.Fatalf("got %v want %v", out, in)
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("got %v want %v", out, in)
		}
	}
}

func TestMapCodecRoundTrip(t *testing.T) {
	c := codec.MapCodec(codec.String, codec.Int64)
	in := map[string]int64{"a": 1, "b": 2}
	b := encodeCbor[map[string]int64](t, c, in)
	out := decodeCbor[map[string]int64](t, c, b)
	if len(out) != len(in) {
		t.Fatalf("got %v want %v", out, in)
	}
	for k, v := range in {
		if out[k] != v {
			t.Fatalf("key %s: got %v want %v", k, out[k], v)
		}
	}
}

func TestOptionCodecNullRoundTrip(t *testing.T) {
	c := codec.OptionCodec(codec.String)

	none := codec.None[string]()
	b := encodeCbor[codec.Option[string]](t, c, none)
	got := decodeCbor[codec.Option[string]](t, c, b)
	require.False(t, got.Some)

	some := codec.Some("hi")
	b = encodeCbor[codec.Option[string]](t, c, some)
	got = decodeCbor[codec.Option[string]](t, c, b)
	require.True(t, got.Some)
	require.Equal(t, "hi", got.Value)
}

func TestBigIntRoundTripSmallAndLarge(t *testing.T) {
	small := big.NewInt(42)
	b := encodeCbor[*big.Int](t, codec.BigInt, small)
	got := decodeCbor[*big.Int](t, codec.BigInt, b)
	require.Zero(t, got.Cmp(small))

	large, ok := new(big.Int).SetString("123456789012345678901234567890", 10)
	require.True(t, ok)
	b = encodeCbor[*big.Int](t, codec.BigInt, large)
	got = decodeCbor[*big.Int](t, codec.BigInt, b)
	require.Zero(t, got.Cmp(large))

	neg, ok := new(big.Int).SetString("-123456789012345678901234567890", 10)
	require.True(t, ok)
	b = encodeCbor[*big.Int](t, codec.BigInt, neg)
	got = decodeCbor[*big.Int](t, codec.BigInt, b)
	require.Zero(t, got.Cmp(neg))
}

func TestTupleCodecRoundTrip(t *testing.T) {
	c := codec.Tuple2Codec(codec.String, codec.Int64)
	in := codec.Tuple2[string, int64]{A: "x", B: 7}
	b := encodeCbor[codec.Tuple2[string, int64]](t, c, in)
	out := decodeCbor[codec.Tuple2[string, int64]](t, c, b)
	if out != in {
		t.Fatalf("got %+v want %+v", out, in)
	}
}

func TestTranscodeCborToJson(t *testing.T) {
	out := bytesio.NewGrowableOutput(0)
	cw := wire.NewWriter(cbor.NewEncoder(out, tapeconfig.NewCborEncodingConfig(), "<test>"))
	if err := cw.WriteArrayHeader(2); err != nil {
		t.Fatal(err)
	}
	if err := cw.WriteLong(1); err != nil {
		t.Fatal(err)
	}
	if err := cw.WriteString("two"); err != nil {
		t.Fatal(err)
	}
	if err := cw.Finish(); err != nil {
		t.Fatal(err)
	}
	cborBytes, err := out.Result()
	if err != nil {
		t.Fatal(err)
	}

	jsonOut := bytesio.NewGrowableOutput(0)
	jw := wire.NewWriter(json.NewEncoder(jsonOut, tapeconfig.NewJsonEncodingConfig(), "<test>"))
	in := bytesio.NewSliceInput(cborBytes, "<test>")
	cr := wire.NewReader(cbor.NewParser(in, tapeconfig.NewCborDecodingConfig()))
	if err := codec.Transcode(jw, cr); err != nil {
		t.Fatal(err)
	}
	if err := jw.Finish(); err != nil {
		t.Fatal(err)
	}
	jsonBytes, err := jsonOut.Result()
	if err != nil {
		t.Fatal(err)
	}
	want := `[1,"two"]`
	if string(jsonBytes) != want {
		t.Fatalf("got %s want %s", jsonBytes, want)
	}
}

func TestConcatMergesArrays(t *testing.T) {
	a := codec.EncoderFunc[[]int64](func(w *wire.Writer, v []int64) error {
		return codec.ArrayCodec(codec.Int64).Encode(w, v)
	})
	b := codec.EncoderFunc[[]int64](func(w *wire.Writer, v []int64) error {
		return codec.ArrayCodec(codec.Int64).Encode(w, v)
	})
	merged := codec.Concat[[]int64](a, b)

	out := bytesio.NewGrowableOutput(0)
	w := wire.NewWriter(cbor.NewEncoder(out, tapeconfig.NewCborEncodingConfig(), "<test>"))
	if err := merged.Encode(w, []int64{1, 2}); err != nil {
		t.Fatal(err)
	}
	if err := w.Finish(); err != nil {
		t.Fatal(err)
	}
	mergedBytes, err := out.Result()
	if err != nil {
		t.Fatal(err)
	}

	got := decodeCbor[[]int64](t, codec.ArrayCodec(codec.Int64), mergedBytes)
	want := []int64{1, 2, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}
