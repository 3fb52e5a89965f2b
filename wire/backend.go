package wire

import "github.com/tapeware/tapecodec/codecerr"

// WriteBackend is implemented by each wire format's encoder. Writer
// forwards every push-API call to the active backend after enforcing
// the container-nesting rules; the backend only has to worry about
// serializing one already-validated item onto the wire.
type WriteBackend interface {
	WriteNull() error
	WriteUndefined() error
	WriteBool(v bool) error
	WriteInt(v int64) error
	WriteLong(v int64) error
	WriteOverLong(neg bool, mag uint64) error
	WriteFloat32(v float32) error
	WriteFloat64(v float64) error
	WriteFloat16(bits uint16) error
	WriteNumberString(s string) error
	WriteBytes(b []byte) error
	WriteBytesStart() error
	WriteString(s string) error
	WriteText(b []byte) error
	WriteTextStart() error
	WriteArrayHeader(n uint64) error
	WriteArrayStart() error
	WriteMapHeader(n uint64) error
	WriteMapStart() error
	WriteTag(tag uint64) error
	WriteBreak() error
	WriteSimpleValue(v uint8) error
	Pos() codecerr.Position
}

// ReadBackend is implemented by each wire format's parser. Next parses
// exactly one data item into recept; Reader layers look-ahead, typed
// accessors and generic container-skipping on top.
type ReadBackend interface {
	Next(recept *Receptacle) error
	Pos() codecerr.Position
}
