package wire

import "github.com/tapeware/tapecodec/codecerr"

type frame struct {
	remaining int64 // -1 means indefinite (no limit, closed by Break)
}

// Writer is the push-style, format-agnostic half of the data-item
// protocol. It owns the container-nesting
// bookkeeping — sized containers must receive exactly n child items,
// indefinite containers must be closed by a matching Break at the same
// depth — and forwards every already-validated item to a WriteBackend.
//
// A Writer exclusively owns its backend for the duration of a single
// encode call; it is not safe for concurrent use.
type Writer struct {
	backend    WriteBackend
	stack      []frame
	pendingTag bool
}

// NewWriter constructs a Writer over backend.
func NewWriter(backend WriteBackend) *Writer { return &Writer{backend: backend} }

// Depth reports the current container nesting depth.
func (w *Writer) Depth() int { return len(w.stack) }

// Backend exposes the underlying WriteBackend for callers (e.g.
// codec.Concat) that need to report a Position without access to a data
// item of their own.
func (w *Writer) Backend() WriteBackend { return w.backend }

func (w *Writer) chargeParent() error {
	if len(w.stack) == 0 {
		return nil
	}
	top := &w.stack[len(w.stack)-1]
	switch {
	case top.remaining > 0:
		top.remaining--
	case top.remaining == 0:
		return codecerr.InvalidInputDataAt(w.backend.Pos(), "too many items written to sized container")
	}
	return nil
}

func (w *Writer) popIfDone() {
	for len(w.stack) > 0 && w.stack[len(w.stack)-1].remaining == 0 {
		w.stack = w.stack[:len(w.stack)-1]
	}
}

// beginItem accounts for one logical item being written: a tag chain
// followed by its target item counts once, charged at the first tag.
func (w *Writer) beginItem() error {
	if w.pendingTag {
		w.pendingTag = false
		return nil
	}
	return w.chargeParent()
}

func (w *Writer) writeItem(do func() error) error {
	if err := w.beginItem(); err != nil {
		return err
	}
	if err := do(); err != nil {
		return err
	}
	w.popIfDone()
	return nil
}

func (w *Writer) openContainer(remaining int64, do func() error) error {
	if err := w.beginItem(); err != nil {
		return err
	}
	if err := do(); err != nil {
		return err
	}
	w.stack = append(w.stack, frame{remaining: remaining})
	w.popIfDone()
	return nil
}

func (w *Writer) WriteNull() error      { return w.writeItem(w.backend.WriteNull) }
func (w *Writer) WriteUndefined() error { return w.writeItem(w.backend.WriteUndefined) }
func (w *Writer) WriteBool(v bool) error {
	return w.writeItem(func() error { return w.backend.WriteBool(v) })
}
func (w *Writer) WriteInt(v int64) error {
	return w.writeItem(func() error { return w.backend.WriteInt(v) })
}
func (w *Writer) WriteLong(v int64) error {
	return w.writeItem(func() error { return w.backend.WriteLong(v) })
}
func (w *Writer) WriteOverLong(neg bool, mag uint64) error {
	return w.writeItem(func() error { return w.backend.WriteOverLong(neg, mag) })
}
func (w *Writer) WriteFloat32(v float32) error {
	return w.writeItem(func() error { return w.backend.WriteFloat32(v) })
}
func (w *Writer) WriteFloat64(v float64) error {
	return w.writeItem(func() error { return w.backend.WriteFloat64(v) })
}
func (w *Writer) WriteFloat16(bits uint16) error {
	return w.writeItem(func() error { return w.backend.WriteFloat16(bits) })
}
func (w *Writer) WriteNumberString(s string) error {
	return w.writeItem(func() error { return w.backend.WriteNumberString(s) })
}
func (w *Writer) WriteBytes(b []byte) error {
	return w.writeItem(func() error { return w.backend.WriteBytes(b) })
}
func (w *Writer) WriteString(s string) error {
	return w.writeItem(func() error { return w.backend.WriteString(s) })
}
func (w *Writer) WriteText(b []byte) error {
	return w.writeItem(func() error { return w.backend.WriteText(b) })
}
func (w *Writer) WriteSimpleValue(v uint8) error {
	return w.writeItem(func() error { return w.backend.WriteSimpleValue(v) })
}

func (w *Writer) WriteBytesStart() error {
	return w.openContainer(-1, w.backend.WriteBytesStart)
}
func (w *Writer) WriteTextStart() error {
	return w.openContainer(-1, w.backend.WriteTextStart)
}
func (w *Writer) WriteArrayStart() error {
	return w.openContainer(-1, w.backend.WriteArrayStart)
}
func (w *Writer) WriteMapStart() error {
	return w.openContainer(-1, w.backend.WriteMapStart)
}
func (w *Writer) WriteArrayHeader(n uint64) error {
	return w.openContainer(int64(n), func() error { return w.backend.WriteArrayHeader(n) })
}
func (w *Writer) WriteMapHeader(n uint64) error {
	return w.openContainer(int64(n)*2, func() error { return w.backend.WriteMapHeader(n) })
}

// WriteTag writes a semantic tag annotating the next item. Multiple
// tags may chain; the whole chain plus its target item counts as a
// single logical item in the enclosing container.
func (w *Writer) WriteTag(tag uint64) error {
	if !w.pendingTag {
		if err := w.chargeParent(); err != nil {
			return err
		}
		w.pendingTag = true
	}
	return w.backend.WriteTag(tag)
}

// WriteBreak closes the innermost indefinite-length container. It is an
// error to call it while a Tag is pending, with no open indefinite
// container, or to close a sized container this way.
func (w *Writer) WriteBreak() error {
	if w.pendingTag {
		return codecerr.InvalidInputDataAt(w.backend.Pos(), "cannot write Break while a Tag is pending")
	}
	if len(w.stack) == 0 {
		return codecerr.InvalidInputDataAt(w.backend.Pos(), "Break with no open indefinite-length container")
	}
	top := w.stack[len(w.stack)-1]
	if top.remaining != -1 {
		return codecerr.InvalidInputDataAt(w.backend.Pos(), "Break on a sized container")
	}
	w.stack = w.stack[:len(w.stack)-1]
	if err := w.backend.WriteBreak(); err != nil {
		return err
	}
	w.popIfDone()
	return nil
}

// Finish reports an error if the writer has any unclosed container,
// i.e. a caller forgot a WriteBreak or under-wrote a sized container.
// Call it once after the top-level value has been fully written.
func (w *Writer) Finish() error {
	if w.pendingTag {
		return codecerr.InvalidInputDataAt(w.backend.Pos(), "dangling Tag with no following item")
	}
	if len(w.stack) != 0 {
		return codecerr.InvalidInputDataAt(w.backend.Pos(), "unclosed container at end of value")
	}
	return nil
}
