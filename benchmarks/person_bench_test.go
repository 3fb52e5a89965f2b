package benchmarks

import (
	"testing"

	json "encoding/json"

	fxcbor "github.com/fxamacker/cbor/v2"
	msgp "github.com/tinylib/msgp/msgp"

	tapecodec "github.com/tapeware/tapecodec"
	"github.com/tapeware/tapecodec/codec"
	"github.com/tapeware/tapecodec/wire"
)

// person is the fixture struct exercised by both the tapecodec path
// (via personCodec, the kind of codec.Codec[T] cmd/tapegen would emit
// for a `tape:"..."`-tagged struct) and the comparison libraries
// (encoding/json, fxamacker/cbor, tinylib/msgp).
type person struct {
	Name string `json:"name" cbor:"name" msg:"name"`
	Age  int64  `json:"age" cbor:"age" msg:"age"`
	Data []byte `json:"data" cbor:"data" msg:"data"`
}

// personCodec is hand-written here in exactly the shape cmd/tapegen
// would emit for a `tape:"name" tape:"age" tape:"data"`-tagged person.
var personCodec = codec.NewCodec(encodePerson, decodePerson)

func encodePerson(w *wire.Writer, v person) error {
	if err := w.WriteMapHeader(3); err != nil {
		return err
	}
	if err := codec.String.Encode(w, "name"); err != nil {
		return err
	}
	if err := codec.String.Encode(w, v.Name); err != nil {
		return err
	}
	if err := codec.String.Encode(w, "age"); err != nil {
		return err
	}
	if err := codec.Int64.Encode(w, v.Age); err != nil {
		return err
	}
	if err := codec.String.Encode(w, "data"); err != nil {
		return err
	}
	return codec.Bytes.Encode(w, v.Data)
}

func decodePerson(r *wire.Reader) (person, error) {
	var p person
	err := codec.IterateMap(r, func(key string) error {
		switch key {
		case "name":
			v, err := codec.String.Decode(r)
			if err != nil {
				return err
			}
			p.Name = v
			return nil
		case "age":
			v, err := codec.Int64.Decode(r)
			if err != nil {
				return err
			}
			p.Age = v
			return nil
		case "data":
			v, err := codec.Bytes.Decode(r)
			if err != nil {
				return err
			}
			p.Data = v
			return nil
		default:
			return r.SkipElement()
		}
	})
	return p, err
}

func newPerson() person {
	return person{Name: "Alice", Age: 42, Data: []byte("hello world")}
}

func BenchmarkTapecodecCbor_Encode(b *testing.B) {
	p := newPerson()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := tapecodec.EncodeCbor[person](personCodec, p); err != nil {
			b.Fatalf("EncodeCbor: %v", err)
		}
	}
}

func BenchmarkTapecodecCbor_Decode(b *testing.B) {
	p := newPerson()
	enc, err := tapecodec.EncodeCbor[person](personCodec, p)
	if err != nil {
		b.Fatalf("EncodeCbor: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := tapecodec.DecodeCbor[person](personCodec, enc); err != nil {
			b.Fatalf("DecodeCbor: %v", err)
		}
	}
}

func BenchmarkTapecodecJson_Encode(b *testing.B) {
	p := newPerson()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := tapecodec.EncodeJson[person](personCodec, p); err != nil {
			b.Fatalf("EncodeJson: %v", err)
		}
	}
}

func BenchmarkEncodingJson_Encode(b *testing.B) {
	p := newPerson()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := json.Marshal(p); err != nil {
			b.Fatalf("json.Marshal: %v", err)
		}
	}
}

func BenchmarkFxamackerCbor_Encode(b *testing.B) {
	p := newPerson()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := fxcbor.Marshal(p); err != nil {
			b.Fatalf("fxcbor.Marshal: %v", err)
		}
	}
}

func BenchmarkMsgp_Encode(b *testing.B) {
	p := benchPersonMsgp{Name: "Alice", Age: 42, Data: []byte("hello world")}
	b.ReportAllocs()
	b.ResetTimer()
	var out []byte
	for i := 0; i < b.N; i++ {
		var err error
		out, err = p.MarshalMsg(out[:0])
		if err != nil {
			b.Fatalf("MarshalMsg: %v", err)
		}
	}
}

// benchPersonMsgp is hand-implemented against msgp.Writer/Reader
// directly (tinylib/msgp's own code generator is an offline step this
// module doesn't run), mirroring person's field set for a fair
// size/speed comparison point.
type benchPersonMsgp struct {
	Name string
	Age  int64
	Data []byte
}

func (p *benchPersonMsgp) MarshalMsg(b []byte) ([]byte, error) {
	b = msgp.AppendMapHeader(b, 3)
	b = msgp.AppendString(b, "name")
	b = msgp.AppendString(b, p.Name)
	b = msgp.AppendString(b, "age")
	b = msgp.AppendInt64(b, p.Age)
	b = msgp.AppendString(b, "data")
	b = msgp.AppendBytes(b, p.Data)
	return b, nil
}
