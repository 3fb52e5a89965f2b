package diag_test

import (
	"encoding/hex"
	"testing"

	"github.com/tapeware/tapecodec/bytesio"
	"github.com/tapeware/tapecodec/cbor"
	"github.com/tapeware/tapecodec/diag"
	"github.com/tapeware/tapecodec/tapeconfig"
	"github.com/tapeware/tapecodec/wire"
)

// rfcExamples mirrors a subset of RFC 8949 Appendix A: bytes in, the
// diagnostic-notation string they must render as.
var rfcExamples = []struct {
	name string
	diag string
	hex  string
}{
	{name: "text-a", diag: `"a"`, hex: "6161"},
	{name: "zero", diag: "0", hex: "00"},
	{name: "minus-one", diag: "-1", hex: "20"},
	{name: "bytes-010203", diag: "h'010203'", hex: "43010203"},
	{name: "array-1-2-3", diag: "[1, 2, 3]", hex: "83010203"},
	{name: "map-a1-b2", diag: `{"a": 1, "b": 2}`, hex: "a2616101616202"},
	{name: "indef-array-1-2", diag: "[_ 1, 2]", hex: "9f0102ff"},
	{name: "tag-epoch-datetime", diag: "1(1363896240)", hex: "c11a514b67b0"},
	{name: "bool-true", diag: "true", hex: "f5"},
	{name: "null", diag: "null", hex: "f6"},
	{name: "float-half-one", diag: "1", hex: "f93c00"},
}

func TestRFCExamplesDiag(t *testing.T) {
	for _, ex := range rfcExamples {
		ex := ex
		t.Run(ex.name, func(t *testing.T) {
			msg, err := hex.DecodeString(ex.hex)
			if err != nil {
				t.Fatalf("bad hex %q: %v", ex.hex, err)
			}
			in := bytesio.NewSliceInput(msg, "<test>")
			r := wire.NewReader(cbor.NewParser(in, tapeconfig.NewCborDecodingConfig()))
			got, err := diag.Dump(r)
			if err != nil {
				t.Fatalf("Dump: %v", err)
			}
			if got != ex.diag {
				t.Fatalf("diag mismatch: got %q want %q (hex %s)", got, ex.diag, ex.hex)
			}
		})
	}
}
