package json

import (
	"unicode/utf8"

	"github.com/tapeware/tapecodec/bytesio"
	"github.com/tapeware/tapecodec/codecerr"
)

// scanner wraps an Input with byte-parallel fast paths: whitespace
// skipping and string-body copying both consume a full 8-byte word at
// a time when the word is entirely
// "boring" (all whitespace, or no quote/backslash/control byte), falling
// back to the single-byte path only at a word's tail or around an escape.
type scanner struct {
	in bytesio.Input
}

func newScanner(in bytesio.Input) *scanner { return &scanner{in: in} }

func (s *scanner) pos() codecerr.Position {
	return codecerr.Position{Source: s.in.Source(), Offset: s.in.Offset()}
}

// skipWhitespace advances past any run of space/tab/newline/CR.
func (s *scanner) skipWhitespace() {
	for !s.in.AtEnd() {
		word := wordFromBytes(s.in.PeekWord(bytesio.ZeroPadding))
		mask := isWhitespaceMask(word)
		if mask == hiBits {
			s.in.Advance(8)
			continue
		}
		n := firstSetLane(^mask & hiBits)
		s.in.Advance(n)
		return
	}
}

// peekByte returns the next byte without consuming it, or ok=false at
// end of input.
func (s *scanner) peekByte() (byte, bool) {
	if s.in.AtEnd() {
		return 0, false
	}
	w := s.in.PeekWord(bytesio.ZeroPadding)
	return w[0], true
}

func (s *scanner) readByte() (byte, error) {
	b, err := s.in.ReadByte()
	if err != nil {
		return 0, bytesio.ErrAt(s.in, 1, 0)
	}
	return b, nil
}

func (s *scanner) expect(c byte) error {
	b, err := s.readByte()
	if err != nil {
		return err
	}
	if b != c {
		return codecerr.InvalidInputDataAt(s.pos(), "expected '"+string(c)+"'")
	}
	return nil
}

// scanLiteral consumes exactly the bytes of lit (used for true/false/null
// after their first byte has already been dispatched on).
func (s *scanner) scanLiteral(lit string) error {
	for i := 0; i < len(lit); i++ {
		b, err := s.readByte()
		if err != nil {
			return err
		}
		if b != lit[i] {
			return codecerr.InvalidInputDataAt(s.pos(), "invalid literal, expected \""+lit+"\"")
		}
	}
	return nil
}

// scanString consumes a JSON string, having already consumed the opening
// quote, and returns its decoded UTF-8 content (escapes resolved).
func (s *scanner) scanString() (string, error) {
	var out []byte
	for {
		if s.in.AtEnd() {
			return "", codecerr.UnexpectedEndOfInputAt(s.pos())
		}
		word := wordFromBytes(s.in.PeekWord(bytesio.ZeroPadding))
		mask := stringStopMask(word)
		if mask == 0 {
			b, err := s.in.ReadBytes(8)
			if err != nil {
				return "", err
			}
			out = append(out, b...)
			continue
		}
		n := firstSetLane(mask)
		if n > 0 {
			b, err := s.in.ReadBytes(n)
			if err != nil {
				return "", err
			}
			out = append(out, b...)
		}
		stop, err := s.readByte()
		if err != nil {
			return "", err
		}
		switch {
		case stop == '"':
			return string(out), nil
		case stop == '\\':
			r, err := s.scanEscape()
			if err != nil {
				return "", err
			}
			out = appendRune(out, r)
		default:
			return "", codecerr.InvalidInputDataAt(s.pos(), "unescaped control character in string")
		}
	}
}

func appendRune(dst []byte, r rune) []byte {
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	return append(dst, buf[:n]...)
}

func (s *scanner) scanEscape() (rune, error) {
	b, err := s.readByte()
	if err != nil {
		return 0, err
	}
	switch b {
	case '"':
		return '"', nil
	case '\\':
		return '\\', nil
	case '/':
		return '/', nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'u':
		hi, err := s.scanHex4()
		if err != nil {
			return 0, err
		}
		if hi >= 0xD800 && hi <= 0xDBFF {
			if err := s.expect('\\'); err != nil {
				return 0, codecerr.InvalidInputDataAt(s.pos(), "unpaired UTF-16 surrogate")
			}
			if err := s.expect('u'); err != nil {
				return 0, err
			}
			lo, err := s.scanHex4()
			if err != nil {
				return 0, err
			}
			if lo < 0xDC00 || lo > 0xDFFF {
				return 0, codecerr.InvalidInputDataAt(s.pos(), "invalid low surrogate")
			}
			return (rune(hi-0xD800)<<10 | rune(lo-0xDC00)) + 0x10000, nil
		}
		return rune(hi), nil
	default:
		return 0, codecerr.InvalidInputDataAt(s.pos(), "invalid escape character")
	}
}

func (s *scanner) scanHex4() (uint32, error) {
	var v uint32
	for i := 0; i < 4; i++ {
		b, err := s.readByte()
		if err != nil {
			return 0, err
		}
		v <<= 4
		switch {
		case b >= '0' && b <= '9':
			v |= uint32(b - '0')
		case b >= 'a' && b <= 'f':
			v |= uint32(b-'a') + 10
		case b >= 'A' && b <= 'F':
			v |= uint32(b-'A') + 10
		default:
			return 0, codecerr.InvalidInputDataAt(s.pos(), "invalid \\u hex digit")
		}
	}
	return v, nil
}

// numberLiteral describes the raw digits of a JSON number plus the flags
// classify.go needs to pick its wire.Kind.
type numberLiteral struct {
	raw            string
	negative       bool
	hasFraction    bool
	hasExponent    bool
	mantissaDigits int
}

// scanNumber consumes a JSON number (RFC 8259 §6), the first byte of
// which (a '-' or digit) has not yet been consumed.
func (s *scanner) scanNumber() (numberLiteral, error) {
	var buf []byte
	var lit numberLiteral

	b, _ := s.peekByte()
	if b == '-' {
		lit.negative = true
		c, _ := s.readByte()
		buf = append(buf, c)
	}
	n, err := s.scanDigits(&buf)
	if err != nil {
		return lit, err
	}
	if n == 0 {
		return lit, codecerr.InvalidInputDataAt(s.pos(), "expected digit")
	}
	intStart := 0
	if lit.negative {
		intStart = 1
	}
	if n > 1 && buf[intStart] == '0' {
		return lit, codecerr.InvalidInputDataAt(s.pos(), "leading zero not allowed in number")
	}
	lit.mantissaDigits += n

	if b, ok := s.peekByte(); ok && b == '.' {
		c, _ := s.readByte()
		buf = append(buf, c)
		lit.hasFraction = true
		n, err := s.scanDigits(&buf)
		if err != nil {
			return lit, err
		}
		if n == 0 {
			return lit, codecerr.InvalidInputDataAt(s.pos(), "expected digit after decimal point")
		}
		lit.mantissaDigits += n
	}

	if b, ok := s.peekByte(); ok && (b == 'e' || b == 'E') {
		c, _ := s.readByte()
		buf = append(buf, c)
		lit.hasExponent = true
		if b, ok := s.peekByte(); ok && (b == '+' || b == '-') {
			c, _ := s.readByte()
			buf = append(buf, c)
		}
		n, err := s.scanDigits(&buf)
		if err != nil {
			return lit, err
		}
		if n == 0 {
			return lit, codecerr.InvalidInputDataAt(s.pos(), "expected digit in exponent")
		}
	}

	lit.raw = string(buf)
	return lit, nil
}

func (s *scanner) scanDigits(buf *[]byte) (int, error) {
	count := 0
	for {
		b, ok := s.peekByte()
		if !ok || b < '0' || b > '9' {
			return count, nil
		}
		c, err := s.readByte()
		if err != nil {
			return count, err
		}
		*buf = append(*buf, c)
		count++
	}
}
