// Package tapecodec is the dual-format (CBOR + JSON) data-item
// serialization library. This file holds the top-level Cbor/Json entry
// points; the protocol itself lives in the wire, cbor, json and codec
// subpackages, which a caller needing lower-level control can import
// directly.
package tapecodec

import (
	"io"

	"github.com/tapeware/tapecodec/bytesio"
	"github.com/tapeware/tapecodec/cbor"
	"github.com/tapeware/tapecodec/codec"
	"github.com/tapeware/tapecodec/codecerr"
	"github.com/tapeware/tapecodec/diag"
	"github.com/tapeware/tapecodec/json"
	"github.com/tapeware/tapecodec/tapeconfig"
	"github.com/tapeware/tapecodec/wire"
)

// Kind re-exports wire.Kind so callers working only against this
// package's facade never need to import wire directly just to inspect a
// Receptacle returned from a lower-level Reader.
type Kind = wire.Kind

// cborFacade is the entry point returned by Cbor.
type cborFacade struct{}

// Cbor is the CBOR format facade, offering Diagnostic; encoding and
// decoding go through EncodeCbor/DecodeCbor below.
var Cbor cborFacade

// jsonFacade is the entry point returned by Json.
type jsonFacade struct{}

// Json is the JSON format facade, offering Diagnostic; encoding and
// decoding go through EncodeJson/DecodeJson below.
var Json jsonFacade

// Diagnostic renders the first CBOR data item in b as RFC 8949 §8
// diagnostic notation.
func (cborFacade) Diagnostic(b []byte) (string, error) {
	in := bytesio.NewSliceInput(b, "<bytes>")
	r := wire.NewReader(cbor.NewParser(in, tapeconfig.NewCborDecodingConfig()))
	return diag.Dump(r)
}

// Diagnostic renders the first JSON value in b as RFC 8949 §8 diagnostic
// notation (JSON's own textual form already doubles as one, but routing
// it through the same renderer as Cbor.Diagnostic keeps both formats'
// NumberString/Long edge cases consistent).
func (jsonFacade) Diagnostic(b []byte) (string, error) {
	in := bytesio.NewSliceInput(b, "<bytes>")
	r := wire.NewReader(json.NewParser(in, tapeconfig.NewJsonDecodingConfig()))
	return diag.Dump(r)
}

// EncodeCbor renders v as CBOR bytes using enc. This is the generic
// counterpart of the fluent Cbor/Json facade values above: Go forbids a
// generic method on a non-generic receiver type, so the type parameter
// has to live on a free function rather than Cbor.Encode(...).
func EncodeCbor[T any](enc codec.Encoder[T], v T, opts ...tapeconfig.CborEncodingOption) ([]byte, error) {
	cfg := tapeconfig.NewCborEncodingConfig(opts...)
	out := bytesio.NewGrowableOutput(cfg.BufferSize)
	w := wire.NewWriter(cbor.NewEncoder(out, cfg, "<bytes>"))
	if err := enc.Encode(w, v); err != nil {
		return nil, err
	}
	if err := w.Finish(); err != nil {
		return nil, err
	}
	return out.Result()
}

// EncodeCborTo renders v as CBOR into out using enc.
func EncodeCborTo[T any](out bytesio.Output, enc codec.Encoder[T], v T, opts ...tapeconfig.CborEncodingOption) error {
	cfg := tapeconfig.NewCborEncodingConfig(opts...)
	w := wire.NewWriter(cbor.NewEncoder(out, cfg, "<output>"))
	if err := enc.Encode(w, v); err != nil {
		return err
	}
	return w.Finish()
}

// DecodeCbor parses b as CBOR using dec.
func DecodeCbor[T any](dec codec.Decoder[T], b []byte, opts ...tapeconfig.CborDecodingOption) (T, error) {
	cfg := tapeconfig.NewCborDecodingConfig(opts...)
	in := bytesio.NewSliceInput(b, "<bytes>")
	r := wire.NewReader(cbor.NewParser(in, cfg))
	return dec.Decode(r)
}

// DecodeCborFrom parses CBOR from in using dec. The underlying reader is
// released (via io.Closer, if implemented) once the stream is drained or
// errors — ReaderInput does this itself, so there is nothing further for
// the caller to close.
func DecodeCborFrom[T any](in io.Reader, dec codec.Decoder[T], opts ...tapeconfig.CborDecodingOption) (T, error) {
	cfg := tapeconfig.NewCborDecodingConfig(opts...)
	ri := bytesio.NewReaderInput(in, "<reader>", cfg.BufferSize)
	r := wire.NewReader(cbor.NewParser(ri, cfg))
	return dec.Decode(r)
}

// EncodeJson renders v as JSON bytes using enc.
func EncodeJson[T any](enc codec.Encoder[T], v T, opts ...tapeconfig.JsonEncodingOption) ([]byte, error) {
	cfg := tapeconfig.NewJsonEncodingConfig(opts...)
	out := bytesio.NewGrowableOutput(cfg.BufferSize)
	w := wire.NewWriter(json.NewEncoder(out, cfg, "<bytes>"))
	if err := enc.Encode(w, v); err != nil {
		return nil, err
	}
	if err := w.Finish(); err != nil {
		return nil, err
	}
	return out.Result()
}

// DecodeJson parses b as JSON using dec.
func DecodeJson[T any](dec codec.Decoder[T], b []byte, opts ...tapeconfig.JsonDecodingOption) (T, error) {
	cfg := tapeconfig.NewJsonDecodingConfig(opts...)
	in := bytesio.NewSliceInput(b, "<bytes>")
	r := wire.NewReader(json.NewParser(in, cfg))
	return dec.Decode(r)
}

// DecodeJsonFrom parses JSON from in using dec, applying the same
// resource discipline as DecodeCborFrom.
func DecodeJsonFrom[T any](in io.Reader, dec codec.Decoder[T], opts ...tapeconfig.JsonDecodingOption) (T, error) {
	cfg := tapeconfig.NewJsonDecodingConfig(opts...)
	ri := bytesio.NewReaderInput(in, "<reader>", cfg.BufferSize)
	r := wire.NewReader(json.NewParser(ri, cfg))
	return dec.Decode(r)
}

// Err adapts any error returned by this module into codecerr.Error,
// for callers that want to branch on Kind()/Resumable() without caring
// which back-end produced it.
func Err(err error) (codecerr.Error, bool) {
	e, ok := err.(codecerr.Error)
	return e, ok
}
