package cbor

import (
	"math"

	"github.com/tapeware/tapecodec/bytesio"
	"github.com/tapeware/tapecodec/codecerr"
	"github.com/tapeware/tapecodec/tapeconfig"
	"github.com/tapeware/tapecodec/wire"
)

// Parser is the CBOR wire.ReadBackend: it pulls exactly one head byte
// plus whatever trailer that head demands and fills recept, dispatching
// on major type and additional-info exactly as RFC 8949 §3 describes.
type Parser struct {
	in     bytesio.Input
	cfg    tapeconfig.CborDecodingConfig
	source string
	stack  []cborFrame
}

// cborFrame tracks one open container's outstanding child count, the
// CBOR equivalent of json.jsonFrame. remaining < 0 means an
// indefinite-length container, closed by a Break rather than a count.
type cborFrame struct {
	remaining int64
}

// NewParser constructs a Parser reading from in under cfg.
func NewParser(in bytesio.Input, cfg tapeconfig.CborDecodingConfig) *Parser {
	return &Parser{in: in, cfg: cfg, source: in.Source()}
}

func (p *Parser) Pos() codecerr.Position {
	return codecerr.Position{Source: p.source, Offset: p.in.Offset()}
}

func (p *Parser) errAt(msg string) error {
	return codecerr.InvalidInputDataAt(p.Pos(), msg)
}

// readLength reads the trailer bytes for addInfo and returns the
// resulting length/value, enforcing RFC 8949's minimal-encoding rule
// when cfg.Strict is set.
func (p *Parser) readLength(addInfo uint8) (uint64, error) {
	switch {
	case addInfo <= addDirectMax:
		return uint64(addInfo), nil
	case addInfo == addUint8:
		b, err := p.in.ReadByte()
		if err != nil {
			return 0, bytesio.ErrAt(p.in, 1, 0)
		}
		if p.cfg.Strict && b <= addDirectMax {
			return 0, p.errAt("non-canonical 1-byte length encoding")
		}
		return uint64(b), nil
	case addInfo == addUint16:
		v, err := p.in.ReadUint16BE()
		if err != nil {
			return 0, err
		}
		if p.cfg.Strict && v <= math.MaxUint8 {
			return 0, p.errAt("non-canonical 2-byte length encoding")
		}
		return uint64(v), nil
	case addInfo == addUint32:
		v, err := p.in.ReadUint32BE()
		if err != nil {
			return 0, err
		}
		if p.cfg.Strict && v <= math.MaxUint16 {
			return 0, p.errAt("non-canonical 4-byte length encoding")
		}
		return uint64(v), nil
	case addInfo == addUint64:
		v, err := p.in.ReadUint64BE()
		if err != nil {
			return 0, err
		}
		if p.cfg.Strict && v <= math.MaxUint32 {
			return 0, p.errAt("non-canonical 8-byte length encoding")
		}
		return v, nil
	default:
		return 0, p.errAt("reserved additional-info value")
	}
}

// Next parses exactly one data item into recept.
func (p *Parser) Next(recept *wire.Receptacle) error {
	if p.in.AtEnd() {
		if len(p.stack) != 0 {
			return codecerr.UnexpectedEndOfInputAt(p.Pos())
		}
		recept.SetEndOfInput()
		return nil
	}
	head, err := p.in.ReadByte()
	if err != nil {
		return bytesio.ErrAt(p.in, 1, 0)
	}
	major := headMajor(head)
	addInfo := headAddInfo(head)

	var dispatchErr error
	switch major {
	case majorUint:
		dispatchErr = p.readUint(recept, addInfo)
	case majorNegInt:
		dispatchErr = p.readNegInt(recept, addInfo)
	case majorBytes:
		dispatchErr = p.readByteString(recept, addInfo)
	case majorText:
		dispatchErr = p.readTextString(recept, addInfo)
	case majorArray:
		dispatchErr = p.readArray(recept, addInfo)
	case majorMap:
		dispatchErr = p.readMap(recept, addInfo)
	case majorTag:
		dispatchErr = p.readTag(recept, addInfo)
	case majorSimple:
		dispatchErr = p.readSimple(recept, addInfo)
	default:
		dispatchErr = p.errAt("unreachable major type")
	}
	if dispatchErr != nil {
		return dispatchErr
	}
	return p.trackDepth(recept)
}

// trackDepth maintains p.stack as items flow past. A container-open
// item pushes a new frame; it does not itself complete a child of its
// parent, since the parent's slot is only used up once the whole
// nested value — including everything inside it — is done. A Break, or
// a sized frame's remaining count reaching zero, closes the innermost
// frame and, because that completes one child of whichever frame is
// now on top, cascades a completion charge upward. A leaf item (or an
// empty sized container, which never earns a frame of its own) charges
// the innermost frame directly. A Tag charges nothing — the tagged
// value that follows is the real child.
func (p *Parser) trackDepth(recept *wire.Receptacle) error {
	switch recept.Kind() {
	case wire.KindBreak:
		return p.popBreakFrame()
	case wire.KindArrayHeader:
		return p.pushFrame(int64(recept.Length()))
	case wire.KindMapHeader:
		return p.pushFrame(int64(recept.Length()) * 2)
	case wire.KindArrayStart, wire.KindMapStart, wire.KindBytesStart, wire.KindTextStart:
		return p.pushFrame(-1)
	case wire.KindTag:
		return nil
	default:
		p.childCompleted()
		return nil
	}
}

// childCompleted records that the innermost frame has received one more
// of its expected children, popping and cascading the completion
// upward through any sized frame that just ran out of children as a
// result. Indefinite frames never self-complete this way; they close
// only on an explicit Break.
func (p *Parser) childCompleted() {
	for len(p.stack) > 0 {
		top := &p.stack[len(p.stack)-1]
		if top.remaining < 0 {
			return
		}
		top.remaining--
		if top.remaining > 0 {
			return
		}
		p.stack = p.stack[:len(p.stack)-1]
	}
}

// pushFrame enters a new container level, rejecting it up front if
// doing so would exceed cfg.MaxNestingLevels. An empty sized container
// (remaining == 0) never gets a frame of its own — it has no children
// to track — and instead immediately completes as a child of whatever
// frame is already open.
func (p *Parser) pushFrame(remaining int64) error {
	if len(p.stack) >= p.cfg.MaxNestingLevels {
		return codecerr.OverflowAt(p.Pos(), "maximum nesting depth exceeded")
	}
	if remaining == 0 {
		p.childCompleted()
		return nil
	}
	p.stack = append(p.stack, cborFrame{remaining: remaining})
	return nil
}

// popBreakFrame closes the innermost indefinite-length container on a
// Break item, then charges whatever frame is now innermost, since the
// now-closed container is itself one child of that parent.
func (p *Parser) popBreakFrame() error {
	if len(p.stack) == 0 || p.stack[len(p.stack)-1].remaining >= 0 {
		return p.errAt("unexpected break outside an indefinite-length container")
	}
	p.stack = p.stack[:len(p.stack)-1]
	p.childCompleted()
	return nil
}

func (p *Parser) readUint(recept *wire.Receptacle, addInfo uint8) error {
	if addInfo == addIndefinite {
		return p.errAt("indefinite length not allowed on major type 0")
	}
	n, err := p.readLength(addInfo)
	if err != nil {
		return err
	}
	if n > math.MaxInt64 {
		recept.SetLong(false, n)
		return nil
	}
	recept.SetInt(int64(n))
	return nil
}

func (p *Parser) readNegInt(recept *wire.Receptacle, addInfo uint8) error {
	if addInfo == addIndefinite {
		return p.errAt("indefinite length not allowed on major type 1")
	}
	n, err := p.readLength(addInfo)
	if err != nil {
		return err
	}
	// logical value is -(n+1), which needs int64 headroom only while n
	// is below MaxInt64; larger arguments go through the Long over-long
	// path, which carries n itself (see wire.Receptacle.SetLong).
	if n >= math.MaxInt64 {
		recept.SetLong(true, n)
		return nil
	}
	recept.SetInt(-int64(n) - 1)
	return nil
}

func (p *Parser) checkIndefiniteAllowed() error {
	if p.cfg.Deterministic {
		return p.errAt("indefinite-length items are not allowed in deterministic mode")
	}
	return nil
}

func (p *Parser) readByteString(recept *wire.Receptacle, addInfo uint8) error {
	if addInfo == addIndefinite {
		if err := p.checkIndefiniteAllowed(); err != nil {
			return err
		}
		recept.SetBytesStart()
		return nil
	}
	n, err := p.readLength(addInfo)
	if err != nil {
		return err
	}
	if int64(n) > p.cfg.MaxByteStringLength {
		return codecerr.OverflowAt(p.Pos(), "byte string exceeds configured maximum length")
	}
	b, err := p.in.ReadBytes(int(n))
	if err != nil {
		return bytesio.ErrAt(p.in, int(n), 0)
	}
	recept.SetBytes(b)
	return nil
}

func (p *Parser) readTextString(recept *wire.Receptacle, addInfo uint8) error {
	if addInfo == addIndefinite {
		if err := p.checkIndefiniteAllowed(); err != nil {
			return err
		}
		recept.SetTextStart()
		return nil
	}
	n, err := p.readLength(addInfo)
	if err != nil {
		return err
	}
	if int64(n) > p.cfg.MaxByteStringLength {
		return codecerr.OverflowAt(p.Pos(), "text string exceeds configured maximum length")
	}
	b, err := p.in.ReadBytes(int(n))
	if err != nil {
		return bytesio.ErrAt(p.in, int(n), 0)
	}
	if !validUTF8(b) {
		return p.errAt("text string is not valid UTF-8")
	}
	recept.SetString(string(b))
	return nil
}

func (p *Parser) readArray(recept *wire.Receptacle, addInfo uint8) error {
	if addInfo == addIndefinite {
		if err := p.checkIndefiniteAllowed(); err != nil {
			return err
		}
		recept.SetArrayStart()
		return nil
	}
	n, err := p.readLength(addInfo)
	if err != nil {
		return err
	}
	if int64(n) > p.cfg.MaxArrayLength {
		return codecerr.OverflowAt(p.Pos(), "array header exceeds configured maximum length")
	}
	recept.SetArrayHeader(n)
	return nil
}

func (p *Parser) readMap(recept *wire.Receptacle, addInfo uint8) error {
	if addInfo == addIndefinite {
		if err := p.checkIndefiniteAllowed(); err != nil {
			return err
		}
		recept.SetMapStart()
		return nil
	}
	n, err := p.readLength(addInfo)
	if err != nil {
		return err
	}
	if int64(n) > p.cfg.MaxMapLength {
		return codecerr.OverflowAt(p.Pos(), "map header exceeds configured maximum length")
	}
	recept.SetMapHeader(n)
	return nil
}

func (p *Parser) readTag(recept *wire.Receptacle, addInfo uint8) error {
	if addInfo == addIndefinite {
		return p.errAt("indefinite length not allowed on major type 6")
	}
	n, err := p.readLength(addInfo)
	if err != nil {
		return err
	}
	recept.SetTag(n)
	return nil
}

func (p *Parser) readSimple(recept *wire.Receptacle, addInfo uint8) error {
	switch addInfo {
	case simpleFalse:
		recept.SetBool(false)
		return nil
	case simpleTrue:
		recept.SetBool(true)
		return nil
	case simpleNull:
		recept.SetNull()
		return nil
	case simpleUndefined:
		recept.SetUndefined()
		return nil
	case simpleFloat16:
		bits, err := p.in.ReadUint16BE()
		if err != nil {
			return err
		}
		recept.SetFloat16(bits)
		return nil
	case simpleFloat32:
		bits, err := p.in.ReadUint32BE()
		if err != nil {
			return err
		}
		recept.SetFloat32(math.Float32frombits(bits))
		return nil
	case simpleFloat64:
		bits, err := p.in.ReadUint64BE()
		if err != nil {
			return err
		}
		recept.SetFloat64(math.Float64frombits(bits))
		return nil
	case simpleBreak:
		recept.SetBreak()
		return nil
	case addUint8:
		b, err := p.in.ReadByte()
		if err != nil {
			return bytesio.ErrAt(p.in, 1, 0)
		}
		if b <= addDirectMax {
			return p.errAt("non-canonical 1-byte simple value encoding")
		}
		recept.SetSimpleValue(b)
		return nil
	default:
		if addInfo >= 28 && addInfo <= 30 {
			return p.errAt("reserved additional-info value on major type 7")
		}
		recept.SetSimpleValue(addInfo)
		return nil
	}
}
