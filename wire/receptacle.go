package wire

// Receptacle is the single mutable cell holding the most recently
// parsed data item. Three inline scalar slots plus a small kind tag
// cover every primitive payload (bool, int, long, double, half-float
// bits, simple value, tag number, container length); a single
// reference slot covers the out-of-line cases (string/bytes runs). This
// keeps decoding free of a per-item heap allocation for anything that
// fits in a machine word, avoiding boxing values behind an interface{}.
type Receptacle struct {
	kind Kind
	i    int64  // Int, Long magnitude, ArrayHeader/MapHeader length, Tag number, SimpleValue, Float16 bits
	f    float64 // Float32 (widened), Float64
	neg  bool   // sign for Long (over-long unsigned magnitude stored in i)
	ref  string // String/Text/NumberString payload, or the backing for Bytes via refBytes
	bs   []byte // Bytes/BytesStart payload
}

// Kind returns the current item's kind.
func (r *Receptacle) Kind() Kind { return r.kind }

// SetNull sets the cell to hold a Null item.
func (r *Receptacle) SetNull() { r.kind = KindNull }

// SetUndefined sets the cell to hold an Undefined item.
func (r *Receptacle) SetUndefined() { r.kind = KindUndefined }

// SetBool sets the cell to hold a Bool item.
func (r *Receptacle) SetBool(v bool) {
	r.kind = KindBool
	if v {
		r.i = 1
	} else {
		r.i = 0
	}
}

// Bool returns the held Bool value.
func (r *Receptacle) Bool() bool { return r.i != 0 }

// SetInt sets the cell to hold an Int item.
func (r *Receptacle) SetInt(v int64) { r.kind = KindInt; r.i = v }

// Int returns the held Int value.
func (r *Receptacle) Int() int64 { return r.i }

// SetLong sets the cell to hold a Long (over-long) item in CBOR's own
// major-type 0/1 form: the value is mag when neg is false and -(mag+1)
// when neg is true, so every value down to -2^64 fits. mag is stored as
// its bit pattern reinterpreted as int64 (callers compare/format it as
// uint64).
func (r *Receptacle) SetLong(neg bool, mag uint64) {
	r.kind = KindLong
	r.i = int64(mag)
	r.neg = neg
}

// LongMagnitude returns the unsigned magnitude and sign of a Long item.
func (r *Receptacle) LongMagnitude() (neg bool, mag uint64) { return r.neg, uint64(r.i) }

// SetFloat16 sets the cell to hold a Float16 item (raw bit pattern).
func (r *Receptacle) SetFloat16(bits uint16) { r.kind = KindFloat16; r.i = int64(bits) }

// Float16Bits returns the raw bit pattern of a Float16 item.
func (r *Receptacle) Float16Bits() uint16 { return uint16(r.i) }

// SetFloat32 sets the cell to hold a Float32 item.
func (r *Receptacle) SetFloat32(v float32) { r.kind = KindFloat32; r.f = float64(v) }

// Float32 returns the held Float32 value.
func (r *Receptacle) Float32() float32 { return float32(r.f) }

// SetFloat64 sets the cell to hold a Float64 item.
func (r *Receptacle) SetFloat64(v float64) { r.kind = KindFloat64; r.f = v }

// Float64 returns the held Float64 value.
func (r *Receptacle) Float64() float64 { return r.f }

// SetNumberString sets the cell to hold a NumberString item (JSON-only).
func (r *Receptacle) SetNumberString(s string) { r.kind = KindNumberString; r.ref = s }

// SetBytes sets the cell to hold a Bytes item.
func (r *Receptacle) SetBytes(b []byte) { r.kind = KindBytes; r.bs = b }

// Bytes returns the held Bytes payload.
func (r *Receptacle) Bytes() []byte { return r.bs }

// SetBytesStart sets the cell to hold a BytesStart item.
func (r *Receptacle) SetBytesStart() { r.kind = KindBytesStart }

// SetString sets the cell to hold a String item.
func (r *Receptacle) SetString(s string) { r.kind = KindString; r.ref = s }

// String returns the held String/Text/NumberString payload.
func (r *Receptacle) String() string { return r.ref }

// SetText sets the cell to hold a Text item (raw UTF-8 bytes).
func (r *Receptacle) SetText(b []byte) { r.kind = KindText; r.bs = b }

// SetTextStart sets the cell to hold a TextStart item.
func (r *Receptacle) SetTextStart() { r.kind = KindTextStart }

// SetArrayHeader sets the cell to hold a sized ArrayHeader item.
func (r *Receptacle) SetArrayHeader(n uint64) { r.kind = KindArrayHeader; r.i = int64(n) }

// SetArrayStart sets the cell to hold an indefinite ArrayStart item.
func (r *Receptacle) SetArrayStart() { r.kind = KindArrayStart }

// SetMapHeader sets the cell to hold a sized MapHeader item.
func (r *Receptacle) SetMapHeader(n uint64) { r.kind = KindMapHeader; r.i = int64(n) }

// SetMapStart sets the cell to hold an indefinite MapStart item.
func (r *Receptacle) SetMapStart() { r.kind = KindMapStart }

// Length returns the declared length of an ArrayHeader/MapHeader item.
func (r *Receptacle) Length() uint64 { return uint64(r.i) }

// SetTag sets the cell to hold a Tag item.
func (r *Receptacle) SetTag(tag uint64) { r.kind = KindTag; r.i = int64(tag) }

// Tag returns the held Tag number.
func (r *Receptacle) Tag() uint64 { return uint64(r.i) }

// SetBreak sets the cell to hold a Break item.
func (r *Receptacle) SetBreak() { r.kind = KindBreak }

// SetSimpleValue sets the cell to hold a SimpleValue item.
func (r *Receptacle) SetSimpleValue(v uint8) { r.kind = KindSimpleValue; r.i = int64(v) }

// SimpleValue returns the held SimpleValue payload.
func (r *Receptacle) SimpleValue() uint8 { return uint8(r.i) }

// SetEndOfInput sets the cell to hold the EndOfInput sentinel.
func (r *Receptacle) SetEndOfInput() { r.kind = KindEndOfInput }

// StringEqual compares the held String/Text item against candidate
// without allocating, used by struct-field dispatch during decoding.
func (r *Receptacle) StringEqual(candidate string) bool {
	switch r.kind {
	case KindString, KindNumberString:
		return r.ref == candidate
	case KindText:
		return string(r.bs) == candidate
	default:
		return false
	}
}
