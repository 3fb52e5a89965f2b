package json

import (
	"github.com/tapeware/tapecodec/bytesio"
	"github.com/tapeware/tapecodec/codecerr"
	"github.com/tapeware/tapecodec/tapeconfig"
	"github.com/tapeware/tapecodec/wire"
)

// jsonFrame tracks one open container's comma/colon bookkeeping. JSON
// carries no upfront item count, so this replaces the length a CBOR
// header would supply.
type jsonFrame struct {
	isMap         bool
	sawItem       bool // at least one element/pair has already been read
	awaitingValue bool // isMap only: the most recent item read was a key
}

// Parser is the JSON wire.ReadBackend. Every array/object surfaces as
// the indefinite ArrayStart/MapStart form, closed by a synthetic Break
// once the parser consumes the matching ']'/'}'.
type Parser struct {
	s     *scanner
	cfg   tapeconfig.JsonDecodingConfig
	stack []jsonFrame
}

// NewParser constructs a Parser reading from in under cfg.
func NewParser(in bytesio.Input, cfg tapeconfig.JsonDecodingConfig) *Parser {
	return &Parser{s: newScanner(in), cfg: cfg}
}

func (p *Parser) Pos() codecerr.Position { return p.s.pos() }

// Next parses exactly one data item into recept.
func (p *Parser) Next(recept *wire.Receptacle) error {
	if len(p.stack) > 0 {
		closed, err := p.beforeItem()
		if err != nil {
			return err
		}
		if closed {
			recept.SetBreak()
			return nil
		}
	}
	p.s.skipWhitespace()
	if p.s.in.AtEnd() {
		if len(p.stack) != 0 {
			return codecerr.UnexpectedEndOfInputAt(p.Pos())
		}
		recept.SetEndOfInput()
		return nil
	}
	return p.scanValue(recept)
}

// beforeItem consumes whatever structural token must precede the next
// item inside the innermost open container: nothing (first item), a
// closing bracket (container ends, reports closed=true), a comma
// (another element/pair follows), or a colon (a key was just read and
// its value follows).
func (p *Parser) beforeItem() (closed bool, err error) {
	top := &p.stack[len(p.stack)-1]
	p.s.skipWhitespace()

	if top.awaitingValue {
		if err := p.s.expect(':'); err != nil {
			return false, err
		}
		p.s.skipWhitespace()
		return false, nil
	}

	closeByte := byte(']')
	if top.isMap {
		closeByte = '}'
	}
	b, ok := p.s.peekByte()
	if !ok {
		return false, codecerr.UnexpectedEndOfInputAt(p.Pos())
	}
	if b == closeByte {
		_, _ = p.s.readByte()
		p.stack = p.stack[:len(p.stack)-1]
		return true, nil
	}
	if top.sawItem {
		if err := p.s.expect(','); err != nil {
			return false, err
		}
		p.s.skipWhitespace()
	}
	return false, nil
}

// afterItem updates the innermost frame's bookkeeping once an item has
// just been read; mapKey is true when that item was a map key (as
// opposed to a map value or an array element).
func (p *Parser) afterItem(mapKey bool) {
	if len(p.stack) == 0 {
		return
	}
	top := &p.stack[len(p.stack)-1]
	if top.isMap {
		if mapKey {
			top.awaitingValue = true
			return
		}
		top.awaitingValue = false
	}
	top.sawItem = true
}

func (p *Parser) scanValue(recept *wire.Receptacle) error {
	atMapKey := len(p.stack) > 0 && p.stack[len(p.stack)-1].isMap && !p.stack[len(p.stack)-1].awaitingValue

	b, _ := p.s.peekByte()
	switch {
	case b == '{':
		if len(p.stack) >= p.cfg.MaxNestingLevels {
			return codecerr.OverflowAt(p.Pos(), "maximum nesting depth exceeded")
		}
		_, _ = p.s.readByte()
		p.afterItem(atMapKey)
		p.stack = append(p.stack, jsonFrame{isMap: true})
		recept.SetMapStart()
		return nil
	case b == '[':
		if len(p.stack) >= p.cfg.MaxNestingLevels {
			return codecerr.OverflowAt(p.Pos(), "maximum nesting depth exceeded")
		}
		_, _ = p.s.readByte()
		p.afterItem(atMapKey)
		p.stack = append(p.stack, jsonFrame{isMap: false})
		recept.SetArrayStart()
		return nil
	case b == '"':
		_, _ = p.s.readByte()
		str, err := p.s.scanString()
		if err != nil {
			return err
		}
		recept.SetString(str)
		p.afterItem(atMapKey)
		return nil
	case b == 't':
		if atMapKey {
			return codecerr.InvalidInputDataAt(p.Pos(), "object key must be a string")
		}
		if err := p.s.scanLiteral("true"); err != nil {
			return err
		}
		recept.SetBool(true)
		p.afterItem(false)
		return nil
	case b == 'f':
		if atMapKey {
			return codecerr.InvalidInputDataAt(p.Pos(), "object key must be a string")
		}
		if err := p.s.scanLiteral("false"); err != nil {
			return err
		}
		recept.SetBool(false)
		p.afterItem(false)
		return nil
	case b == 'n':
		if atMapKey {
			return codecerr.InvalidInputDataAt(p.Pos(), "object key must be a string")
		}
		if err := p.s.scanLiteral("null"); err != nil {
			return err
		}
		recept.SetNull()
		p.afterItem(false)
		return nil
	case b == '-' || (b >= '0' && b <= '9'):
		if atMapKey {
			return codecerr.InvalidInputDataAt(p.Pos(), "object key must be a string")
		}
		lit, err := p.s.scanNumber()
		if err != nil {
			return err
		}
		if err := classify(lit, p.cfg, p.Pos(), recept); err != nil {
			return err
		}
		p.afterItem(false)
		return nil
	default:
		return codecerr.InvalidInputDataAt(p.Pos(), "unexpected character in JSON input")
	}
}
