package codec

import (
	"github.com/tapeware/tapecodec/wire"
)

// IterateMap reads the next map item — whether a CBOR sized MapHeader
// or a JSON indefinite MapStart/Break pair — calling fn once per key
// with that key already consumed. fn is responsible for consuming
// exactly the value that follows; it can defer to r.SkipElement() for
// keys it doesn't recognize. This is what cmd/tapegen-generated decode
// functions call so they don't each re-derive the sized-vs-indefinite
// map dispatch diag.Dump and codec.Transcode already do inline.
func IterateMap(r *wire.Reader, fn func(key string) error) error {
	k, err := r.DataItem()
	if err != nil {
		return err
	}
	switch k {
	case wire.KindMapHeader:
		n, err := r.ReadMapHeader(0)
		if err != nil {
			return err
		}
		for i := uint64(0); i < n; i++ {
			key, err := r.ReadString()
			if err != nil {
				return err
			}
			if err := fn(key); err != nil {
				return err
			}
		}
		return nil
	case wire.KindMapStart:
		if err := r.ReadMapStart(); err != nil {
			return err
		}
		for !r.HasBreak() {
			key, err := r.ReadString()
			if err != nil {
				return err
			}
			if err := fn(key); err != nil {
				return err
			}
		}
		return r.ReadBreak()
	default:
		_, err := r.ReadMapHeader(0)
		return err
	}
}
