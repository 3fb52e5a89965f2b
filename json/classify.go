package json

import (
	"math"
	"strconv"

	"github.com/tapeware/tapecodec/codecerr"
	"github.com/tapeware/tapecodec/tapeconfig"
	"github.com/tapeware/tapecodec/wire"
)

// classify picks the wire.Kind a scanned JSON number literal should
// surface as: plain integers become Int when they fit an int64, Long
// when their magnitude fits a uint64 and NumberString beyond that, and
// anything with a fraction or exponent becomes Double unless the caller
// demands ReadDecimalNumbersOnlyAsNumberStrings (NumberString) or the
// literal exceeds the configured mantissa-digit/exponent bounds
// (codecerr.NumberOutOfBounds). A within-bounds literal that still
// fails an exact float64 parse falls back to NumberString so no
// precision is silently lost.
func classify(lit numberLiteral, cfg tapeconfig.JsonDecodingConfig, pos codecerr.Position, recept *wire.Receptacle) error {
	if !lit.hasFraction && !lit.hasExponent {
		if iv, err := strconv.ParseInt(lit.raw, 10, 64); err == nil {
			recept.SetInt(iv)
			return nil
		}
		neg := lit.negative
		mag := lit.raw
		if neg {
			mag = mag[1:]
		}
		if uv, err := strconv.ParseUint(mag, 10, 64); err == nil {
			if neg {
				uv-- // a negative Long carries n for the value -(n+1)
			}
			recept.SetLong(neg, uv)
			return nil
		}
		recept.SetNumberString(lit.raw)
		return nil
	}

	if cfg.ReadDecimalNumbersOnlyAsNumberStrings {
		recept.SetNumberString(lit.raw)
		return nil
	}
	if lit.mantissaDigits > cfg.MaxNumberMantissaDigits {
		return codecerr.NumberOutOfBoundsAt(pos, "number mantissa exceeds configured digit limit")
	}
	if exp := exponentValue(lit.raw); exp > cfg.MaxNumberAbsExponent || exp < -cfg.MaxNumberAbsExponent {
		return codecerr.NumberOutOfBoundsAt(pos, "number exponent exceeds configured limit")
	}
	f, err := strconv.ParseFloat(lit.raw, 64)
	if err != nil || math.IsInf(f, 0) {
		recept.SetNumberString(lit.raw)
		return nil
	}
	recept.SetFloat64(f)
	return nil
}

// exponentValue extracts the signed exponent magnitude of a JSON number
// literal for the MaxNumberAbsExponent check, counting the decimal
// point's implicit shift into the exponent the way a bounded-precision
// decimal parser would.
func exponentValue(raw string) int {
	exp := 0
	fracDigits := 0
	inFrac := false
	i := 0
	for ; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c == '.':
			inFrac = true
		case c == 'e' || c == 'E':
			goto parseExp
		case c >= '0' && c <= '9' && inFrac:
			fracDigits++
		}
	}
parseExp:
	if i < len(raw) {
		e, err := strconv.Atoi(raw[i+1:])
		if err == nil {
			exp = e
		}
	}
	return exp - fracDigits
}
