package bytesio

import "encoding/binary"

// SliceInput is the random-access, zero-copy Input implementation used
// by the "direct parsing" fast path: it wraps a contiguous []byte and
// never allocates on read.
type SliceInput struct {
	buf    []byte
	pos    int
	source string
}

// NewSliceInput wraps b. source is used only for Position reporting.
func NewSliceInput(b []byte, source string) *SliceInput {
	if source == "" {
		source = "<bytes>"
	}
	return &SliceInput{buf: b, source: source}
}

func (s *SliceInput) Source() string { return s.source }
func (s *SliceInput) Offset() int64  { return int64(s.pos) }
func (s *SliceInput) AtEnd() bool    { return s.pos >= len(s.buf) }

func (s *SliceInput) ReadByte() (byte, error) {
	if s.pos >= len(s.buf) {
		return 0, ErrAt(s, 1, 0)
	}
	b := s.buf[s.pos]
	s.pos++
	return b, nil
}

func (s *SliceInput) ReadUint16BE() (uint16, error) {
	if s.pos+2 > len(s.buf) {
		return 0, ErrAt(s, 2, len(s.buf)-s.pos)
	}
	v := binary.BigEndian.Uint16(s.buf[s.pos:])
	s.pos += 2
	return v, nil
}

func (s *SliceInput) ReadUint32BE() (uint32, error) {
	if s.pos+4 > len(s.buf) {
		return 0, ErrAt(s, 4, len(s.buf)-s.pos)
	}
	v := binary.BigEndian.Uint32(s.buf[s.pos:])
	s.pos += 4
	return v, nil
}

func (s *SliceInput) ReadUint64BE() (uint64, error) {
	if s.pos+8 > len(s.buf) {
		return 0, ErrAt(s, 8, len(s.buf)-s.pos)
	}
	v := binary.BigEndian.Uint64(s.buf[s.pos:])
	s.pos += 8
	return v, nil
}

func (s *SliceInput) ReadBytes(n int) ([]byte, error) {
	if n < 0 || s.pos+n > len(s.buf) {
		return nil, ErrAt(s, n, len(s.buf)-s.pos)
	}
	out := s.buf[s.pos : s.pos+n]
	s.pos += n
	return out, nil
}

func (s *SliceInput) Unread(n int) error {
	if n < 0 || s.pos-n < 0 {
		return ErrAt(s, 0, 0)
	}
	s.pos -= n
	return nil
}

func (s *SliceInput) PeekWord(pad PaddingProvider) [8]byte {
	var w [8]byte
	avail := len(s.buf) - s.pos
	if avail >= 8 {
		copy(w[:], s.buf[s.pos:s.pos+8])
		return w
	}
	if avail > 0 {
		copy(w[:avail], s.buf[s.pos:])
	}
	if pad == nil {
		pad = ZeroPadding
	}
	if avail < 8 {
		pad.Pad(w[avail:])
	}
	return w
}

func (s *SliceInput) Advance(n int) {
	s.pos += n
	if s.pos > len(s.buf) {
		s.pos = len(s.buf)
	}
}

// Remaining returns the unread tail of the backing slice without copying.
func (s *SliceInput) Remaining() []byte { return s.buf[s.pos:] }

// Len returns the total length of the backing slice.
func (s *SliceInput) Len() int { return len(s.buf) }
