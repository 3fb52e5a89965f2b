package bytesio

import (
	"encoding/binary"
	"io"
)

// ReaderInput adapts an io.Reader into an Input by buffering internally.
// It is used whenever the source is not already a contiguous []byte (a
// network connection, an *os.File read in streaming mode, ...); the
// "direct parsing" fast path bypasses this type entirely in favor of
// SliceInput. The underlying reader is released (via io.Closer, if
// implemented) once AtEnd reports true or an error propagates.
type ReaderInput struct {
	r      io.Reader
	source string
	buf    []byte
	pos    int // read cursor within buf
	end    int // valid data end within buf
	total  int64
	eof    bool
	closed bool
}

// NewReaderInput wraps r, buffering bufSize bytes at a time (bufSize <=
// 0 selects a 4096-byte default, matching tapeconfig's default
// BufferSize).
func NewReaderInput(r io.Reader, source string, bufSize int) *ReaderInput {
	if bufSize <= 0 {
		bufSize = 4096
	}
	if source == "" {
		source = "<stream>"
	}
	return &ReaderInput{r: r, source: source, buf: make([]byte, bufSize)}
}

func (r *ReaderInput) Source() string { return r.source }
func (r *ReaderInput) Offset() int64  { return r.total }

func (r *ReaderInput) fill() error {
	if r.pos < r.end {
		return nil
	}
	if r.eof {
		return io.EOF
	}
	r.pos, r.end = 0, 0
	n, err := r.r.Read(r.buf)
	r.end = n
	if err != nil {
		r.eof = true
		r.release()
		if n > 0 {
			return nil
		}
		return err
	}
	if n == 0 {
		return r.fill()
	}
	return nil
}

func (r *ReaderInput) release() {
	if r.closed {
		return
	}
	r.closed = true
	if c, ok := r.r.(io.Closer); ok {
		_ = c.Close()
	}
}

func (r *ReaderInput) AtEnd() bool {
	if r.pos < r.end {
		return false
	}
	return r.fill() != nil
}

func (r *ReaderInput) ReadByte() (byte, error) {
	if err := r.fill(); err != nil {
		return 0, ErrAt(r, 1, 0)
	}
	b := r.buf[r.pos]
	r.pos++
	r.total++
	return b, nil
}

func (r *ReaderInput) readN(n int) ([]byte, error) {
	out := make([]byte, 0, n)
	for len(out) < n {
		if err := r.fill(); err != nil {
			return nil, ErrAt(r, n, len(out))
		}
		take := n - len(out)
		if avail := r.end - r.pos; take > avail {
			take = avail
		}
		out = append(out, r.buf[r.pos:r.pos+take]...)
		r.pos += take
	}
	r.total += int64(n)
	return out, nil
}

func (r *ReaderInput) ReadUint16BE() (uint16, error) {
	b, err := r.readN(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *ReaderInput) ReadUint32BE() (uint32, error) {
	b, err := r.readN(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *ReaderInput) ReadUint64BE() (uint64, error) {
	b, err := r.readN(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (r *ReaderInput) ReadBytes(n int) ([]byte, error) { return r.readN(n) }

// Unread is unsupported for streaming input beyond what remains buffered;
// ReaderInput is used by formats that don't require look-behind beyond a
// single byte of backtracking, which fits within the active buffer.
func (r *ReaderInput) Unread(n int) error {
	if n < 0 || n > r.pos {
		return ErrAt(r, 0, 0)
	}
	r.pos -= n
	r.total -= int64(n)
	return nil
}

func (r *ReaderInput) PeekWord(pad PaddingProvider) [8]byte {
	var w [8]byte
	if r.end-r.pos < 8 && !r.eof {
		r.end, r.pos = copy(r.buf, r.buf[r.pos:r.end]), 0
		n, err := io.ReadAtLeast(r.r, r.buf[r.end:], min(8, len(r.buf))-r.end)
		r.end += n
		if err != nil {
			r.eof = true
			r.release()
		}
	}
	// Partial window at EOF: drain what's left and pad the rest.
	avail := r.end - r.pos
	if avail > 8 {
		avail = 8
	}
	copy(w[:avail], r.buf[r.pos:r.pos+avail])
	if pad == nil {
		pad = ZeroPadding
	}
	pad.Pad(w[avail:])
	return w
}

func (r *ReaderInput) Advance(n int) {
	for n > 0 {
		if err := r.fill(); err != nil {
			return
		}
		take := n
		if avail := r.end - r.pos; take > avail {
			take = avail
		}
		r.pos += take
		r.total += int64(take)
		n -= take
	}
}
