package basen_test

import (
	"testing"

	"github.com/tapeware/tapecodec/basen"
)

// RFC 4648 §10 test vectors.
var rfc4648Vectors = []struct {
	decoded string
	b16     string
	b32     string
	b64     string
}{
	{"", "", "", ""},
	{"f", "66", "MY======", "Zg=="},
	{"fo", "666F", "MZXQ====", "Zm8="},
	{"foo", "666F6F", "MZXW6===", "Zm9v"},
	{"foob", "666F6F62", "MZXW6YQ=", "Zm9vYg=="},
	{"fooba", "666F6F6261", "MZXW6YTB", "Zm9vYmE="},
	{"foobar", "666F6F626172", "MZXW6YTBOI======", "Zm9vYmFy"},
}

func TestBase16Vectors(t *testing.T) {
	for _, v := range rfc4648Vectors {
		got := basen.Base16.EncodeToString([]byte(v.decoded))
		if got != v.b16 {
			t.Fatalf("EncodeToString(%q) = %q want %q", v.decoded, got, v.b16)
		}
		back, err := basen.Base16.DecodeString(got)
		if err != nil {
			t.Fatalf("DecodeString(%q): %v", got, err)
		}
		if string(back) != v.decoded {
			t.Fatalf("DecodeString(%q) = %q want %q", got, back, v.decoded)
		}
	}
}

func TestBase16LowercaseAccepted(t *testing.T) {
	got, err := basen.Base16.DecodeString("666f6f")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "foo" {
		t.Fatalf("got %q want foo", got)
	}
}

func TestBase16RejectsOddLength(t *testing.T) {
	if _, err := basen.Base16.DecodeString("abc"); err == nil {
		t.Fatal("expected error for odd-length input")
	}
}

func TestBase32Vectors(t *testing.T) {
	for _, v := range rfc4648Vectors {
		got := basen.Base32.EncodeToString([]byte(v.decoded))
		if got != v.b32 {
			t.Fatalf("EncodeToString(%q) = %q want %q", v.decoded, got, v.b32)
		}
	}
}

func TestBase64Vectors(t *testing.T) {
	for _, v := range rfc4648Vectors {
		got := basen.Base64.EncodeToString([]byte(v.decoded))
		if got != v.b64 {
			t.Fatalf("EncodeToString(%q) = %q want %q", v.decoded, got, v.b64)
		}
	}
}
