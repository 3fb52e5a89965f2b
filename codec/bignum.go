package codec

import (
	"math/big"

	"github.com/tapeware/tapecodec/cbor"
	"github.com/tapeware/tapecodec/codecerr"
	"github.com/tapeware/tapecodec/json"
	"github.com/tapeware/tapecodec/wire"
)

// BigInt is the Codec for *big.Int, encoded as CBOR tag 2 (positive
// bignum) or tag 3 (negative bignum) wrapping the magnitude's big-endian
// byte string, per RFC 8949 §3.4.3.
//
// Over JSON there is no tag item, so the same magnitude is written as a
// base-10 digit NumberString and parsed back the same way, a fallback
// for values with no native JSON numeric shape.
var BigInt = NewCodec(encodeBigInt, decodeBigInt)

func encodeBigInt(w *wire.Writer, v *big.Int) error {
	if v == nil {
		return w.WriteNull()
	}
	if fitsInt64(v) {
		return w.WriteLong(v.Int64())
	}
	if _, toJSON := w.Backend().(*json.Encoder); toJSON {
		return w.WriteNumberString(v.String())
	}
	return encodeBigIntTagged(w, v)
}

func fitsInt64(v *big.Int) bool {
	return v.IsInt64()
}

func encodeBigIntTagged(w *wire.Writer, v *big.Int) error {
	mag := new(big.Int).Abs(v)
	tag := uint64(cbor.TagPosBignum)
	if v.Sign() < 0 {
		tag = cbor.TagNegBignum
		mag.Sub(mag, big.NewInt(1))
	}
	if err := w.WriteTag(tag); err != nil {
		return err
	}
	return w.WriteBytes(mag.Bytes())
}

func decodeBigInt(r *wire.Reader) (*big.Int, error) {
	if ok, err := r.TryReadNull(); err != nil {
		return nil, err
	} else if ok {
		return nil, nil
	}
	if r.HasTag() {
		tag, err := r.ReadTag()
		if err != nil {
			return nil, err
		}
		if tag != cbor.TagPosBignum && tag != cbor.TagNegBignum {
			return nil, codecerr.UnexpectedDataItemAt(r.Position(), "Bignum tag (2 or 3)", "Tag")
		}
		b, err := r.ReadBytes()
		if err != nil {
			return nil, err
		}
		mag := new(big.Int).SetBytes(b)
		if tag == cbor.TagNegBignum {
			mag.Add(mag, big.NewInt(1))
			mag.Neg(mag)
		}
		return mag, nil
	}
	s, err := r.ReadString()
	if err == nil {
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, codecerr.InvalidInputDataAt(r.Position(), "NumberString is not a valid base-10 integer")
		}
		return v, nil
	}
	if neg, mag, lerr := r.ReadLongRaw(); lerr == nil {
		v := new(big.Int).SetUint64(mag)
		if neg {
			v.Add(v, big.NewInt(1))
			v.Neg(v)
		}
		return v, nil
	}
	n, err2 := r.ReadInt64()
	if err2 != nil {
		return nil, err
	}
	return big.NewInt(n), nil
}

// DecimalFraction is the value pair backing CBOR tag 4 (RFC 8949
// §3.4.4): an integer exponent and an arbitrary-precision integer
// mantissa, together denoting mantissa * 10^exponent. Full decimal
// arithmetic is out of scope; this type only carries the pair
// losslessly.
type DecimalFraction struct {
	Exponent int64
	Mantissa *big.Int
}

// Decimal is the Codec for DecimalFraction, written as tag(4) wrapping a
// 2-element array [exponent, mantissa].
var Decimal = NewCodec(
	func(w *wire.Writer, v DecimalFraction) error {
		return encodeTaggedPair(w, cbor.TagDecimalFrac, v.Exponent, v.Mantissa)
	},
	func(r *wire.Reader) (DecimalFraction, error) {
		exp, mant, err := decodeTaggedPair(r, cbor.TagDecimalFrac)
		return DecimalFraction{Exponent: exp, Mantissa: mant}, err
	},
)

// Bigfloat is the value pair backing CBOR tag 5 (RFC 8949 §3.4.4): an
// integer exponent and mantissa denoting mantissa * 2^exponent.
type Bigfloat struct {
	Exponent int64
	Mantissa *big.Int
}

// BigfloatCodec is the Codec for Bigfloat, written as tag(5) wrapping a
// 2-element array [exponent, mantissa].
var BigfloatCodec = NewCodec(
	func(w *wire.Writer, v Bigfloat) error {
		return encodeTaggedPair(w, cbor.TagBigfloat, v.Exponent, v.Mantissa)
	},
	func(r *wire.Reader) (Bigfloat, error) {
		exp, mant, err := decodeTaggedPair(r, cbor.TagBigfloat)
		return Bigfloat{Exponent: exp, Mantissa: mant}, err
	},
)

func encodeTaggedPair(w *wire.Writer, tag uint64, exp int64, mant *big.Int) error {
	if err := w.WriteTag(tag); err != nil {
		return err
	}
	if err := w.WriteArrayHeader(2); err != nil {
		return err
	}
	if err := w.WriteLong(exp); err != nil {
		return err
	}
	return encodeBigInt(w, mant)
}

func decodeTaggedPair(r *wire.Reader, wantTag uint64) (int64, *big.Int, error) {
	tag, err := r.ReadTag()
	if err != nil {
		return 0, nil, err
	}
	if tag != wantTag {
		return 0, nil, codecerr.UnexpectedDataItemAt(r.Position(), "matching tag", "Tag")
	}
	if _, err := r.ReadArrayHeader(2); err != nil {
		return 0, nil, err
	}
	exp, err := r.ReadInt64()
	if err != nil {
		return 0, nil, err
	}
	mant, err := decodeBigInt(r)
	if err != nil {
		return 0, nil, err
	}
	return exp, mant, nil
}
