package tapecodec_test

import (
	"reflect"
	"testing"

	fxcbor "github.com/fxamacker/cbor/v2"

	tapecodec "github.com/tapeware/tapecodec"
	"github.com/tapeware/tapecodec/codec"
	"github.com/tapeware/tapecodec/wire"
)

// These tests cross-validate tapecodec's CBOR wire output against an
// independent implementation (fxamacker/cbor) rather than comparing
// tapecodec against itself: a bug shared between our encoder and
// decoder would slip past a round-trip test but not past this.

type animal struct {
	Age    int64    `cbor:"age"`
	Name   string   `cbor:"name"`
	Owners []string `cbor:"owners"`
}

var animalCodec = codec.NewCodec(
	func(w *wire.Writer, v animal) error {
		if err := w.WriteMapHeader(3); err != nil {
			return err
		}
		if err := codec.String.Encode(w, "age"); err != nil {
			return err
		}
		if err := codec.Int64.Encode(w, v.Age); err != nil {
			return err
		}
		if err := codec.String.Encode(w, "name"); err != nil {
			return err
		}
		if err := codec.String.Encode(w, v.Name); err != nil {
			return err
		}
		if err := codec.String.Encode(w, "owners"); err != nil {
			return err
		}
		return codec.ArrayCodec(codec.String).Encode(w, v.Owners)
	},
	func(r *wire.Reader) (animal, error) {
		var a animal
		err := codec.IterateMap(r, func(key string) error {
			switch key {
			case "age":
				v, err := codec.Int64.Decode(r)
				if err != nil {
					return err
				}
				a.Age = v
			case "name":
				v, err := codec.String.Decode(r)
				if err != nil {
					return err
				}
				a.Name = v
			case "owners":
				v, err := codec.ArrayCodec(codec.String).Decode(r)
				if err != nil {
					return err
				}
				a.Owners = v
			default:
				return r.SkipElement()
			}
			return nil
		})
		return a, err
	},
)

// TestFxamackerDecodesTapecodecCborOutput encodes with tapecodec and
// decodes the same bytes with fxamacker/cbor, asserting both libraries
// agree on what the map-keyed struct means on the wire.
func TestFxamackerDecodesTapecodecCborOutput(t *testing.T) {
	in := animal{Age: 4, Name: "Candy", Owners: []string{"Mary", "Joe"}}
	b, err := tapecodec.EncodeCbor[animal](animalCodec, in)
	if err != nil {
		t.Fatalf("EncodeCbor: %v", err)
	}

	var out struct {
		Age    int64    `cbor:"age"`
		Name   string   `cbor:"name"`
		Owners []string `cbor:"owners"`
	}
	if err := fxcbor.Unmarshal(b, &out); err != nil {
		t.Fatalf("fxcbor.Unmarshal: %v", err)
	}
	want := animal{Age: 4, Name: "Candy", Owners: []string{"Mary", "Joe"}}
	got := animal(out)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

// TestTapecodecDecodesFxamackerCborOutput runs the cross-check in the
// other direction: fxamacker/cbor encodes, tapecodec decodes.
func TestTapecodecDecodesFxamackerCborOutput(t *testing.T) {
	type fxAnimal struct {
		Age    int64    `cbor:"age"`
		Name   string   `cbor:"name"`
		Owners []string `cbor:"owners"`
	}
	in := fxAnimal{Age: 4, Name: "Candy", Owners: []string{"Mary", "Joe"}}
	b, err := fxcbor.Marshal(in)
	if err != nil {
		t.Fatalf("fxcbor.Marshal: %v", err)
	}

	got, err := tapecodec.DecodeCbor[animal](animalCodec, b)
	if err != nil {
		t.Fatalf("DecodeCbor: %v", err)
	}
	want := animal{Age: 4, Name: "Candy", Owners: []string{"Mary", "Joe"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v want %+v", got, want)
	}
}
