// Package tapeconfig holds the per-format, shared-immutable configuration
// objects consumed by the cbor and json back-ends. Values are built once
// with functional options and then passed by value; a config never
// changes after construction, so a single instance may be reused across
// concurrent Encode/Decode calls.
package tapeconfig

// Common holds the limits and knobs shared by both formats' decoders.
// It is embedded into CborDecodingConfig and JsonDecodingConfig rather
// than duplicated.
type Common struct {
	BufferSize          int
	AllowBufferCaching  bool
	MaxNestingLevels    int
	MaxByteStringLength int64
	MaxArrayLength      int64
	MaxMapLength        int64
}

func defaultCommon() Common {
	return Common{
		BufferSize:          4096,
		AllowBufferCaching:  false,
		MaxNestingLevels:    1000,
		MaxByteStringLength: 1 << 31, // 2 GiB
		MaxArrayLength:      1 << 31,
		MaxMapLength:        1 << 31,
	}
}

// CborDecodingConfig configures a CBOR Reader.
type CborDecodingConfig struct {
	Common
	// Strict rejects non-minimal ("non-canonical") integer and length
	// encodings.
	Strict bool
	// Deterministic additionally rejects indefinite-length containers.
	Deterministic bool
	// AllowDirectParsing is recorded (default true) but not consulted:
	// cbor.Parser and json.Parser run the same code path for every Input,
	// contiguous in-memory buffer or not.
	AllowDirectParsing bool
}

// CborDecodingOption configures a CborDecodingConfig.
type CborDecodingOption func(*CborDecodingConfig)

// NewCborDecodingConfig builds a CborDecodingConfig from defaults plus
// the given options.
func NewCborDecodingConfig(opts ...CborDecodingOption) CborDecodingConfig {
	c := CborDecodingConfig{Common: defaultCommon(), AllowDirectParsing: true}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func WithCborStrict(strict bool) CborDecodingOption {
	return func(c *CborDecodingConfig) { c.Strict = strict }
}

func WithCborDeterministic(det bool) CborDecodingOption {
	return func(c *CborDecodingConfig) { c.Deterministic = det }
}

func WithCborMaxNestingLevels(n int) CborDecodingOption {
	return func(c *CborDecodingConfig) { c.MaxNestingLevels = n }
}

func WithCborMaxContainerLengths(bytes, array, m int64) CborDecodingOption {
	return func(c *CborDecodingConfig) {
		c.MaxByteStringLength = bytes
		c.MaxArrayLength = array
		c.MaxMapLength = m
	}
}

func WithCborAllowDirectParsing(v bool) CborDecodingOption {
	return func(c *CborDecodingConfig) { c.AllowDirectParsing = v }
}

func WithCborBufferCaching(v bool) CborDecodingOption {
	return func(c *CborDecodingConfig) { c.AllowBufferCaching = v }
}

// CborEncodingConfig configures a CBOR Writer.
type CborEncodingConfig struct {
	Common
	// WriteLongsAsFloatingPoint forces 64-bit integers that don't fit an
	// int32 to be written as Double instead of the shortest integer head.
	WriteLongsAsFloatingPoint bool
}

type CborEncodingOption func(*CborEncodingConfig)

func NewCborEncodingConfig(opts ...CborEncodingOption) CborEncodingConfig {
	c := CborEncodingConfig{Common: defaultCommon()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func WithCborWriteLongsAsFloatingPoint(v bool) CborEncodingOption {
	return func(c *CborEncodingConfig) { c.WriteLongsAsFloatingPoint = v }
}

func WithCborEncodingBufferCaching(v bool) CborEncodingOption {
	return func(c *CborEncodingConfig) { c.AllowBufferCaching = v }
}

// JsonDecodingConfig configures a JSON Reader.
type JsonDecodingConfig struct {
	Common
	// MaxNumberMantissaDigits bounds the mantissa digit count of a JSON
	// number with a fraction or exponent; a longer one fails with
	// NumberOutOfBounds.
	MaxNumberMantissaDigits int
	// MaxNumberAbsExponent bounds the absolute value of such a number's
	// effective exponent, failing the same way.
	MaxNumberAbsExponent int
	// ReadDecimalNumbersOnlyAsNumberStrings forces every number carrying
	// a '.' or exponent to surface as NumberString, never Double.
	ReadDecimalNumbersOnlyAsNumberStrings bool
}

type JsonDecodingOption func(*JsonDecodingConfig)

func NewJsonDecodingConfig(opts ...JsonDecodingOption) JsonDecodingConfig {
	c := JsonDecodingConfig{
		Common:                  defaultCommon(),
		MaxNumberMantissaDigits: 34,
		MaxNumberAbsExponent:    64,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func WithJsonMaxNestingLevels(n int) JsonDecodingOption {
	return func(c *JsonDecodingConfig) { c.MaxNestingLevels = n }
}

func WithJsonNumberLimits(maxMantissaDigits, maxAbsExponent int) JsonDecodingOption {
	return func(c *JsonDecodingConfig) {
		c.MaxNumberMantissaDigits = maxMantissaDigits
		c.MaxNumberAbsExponent = maxAbsExponent
	}
}

func WithJsonDecimalsAsNumberStrings(v bool) JsonDecodingOption {
	return func(c *JsonDecodingConfig) { c.ReadDecimalNumbersOnlyAsNumberStrings = v }
}

func WithJsonBufferCaching(v bool) JsonDecodingOption {
	return func(c *JsonDecodingConfig) { c.AllowBufferCaching = v }
}

// JsonEncodingConfig configures a JSON Writer.
type JsonEncodingConfig struct {
	Common
}

type JsonEncodingOption func(*JsonEncodingConfig)

func NewJsonEncodingConfig(opts ...JsonEncodingOption) JsonEncodingConfig {
	c := JsonEncodingConfig{Common: defaultCommon()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func WithJsonEncodingBufferCaching(v bool) JsonEncodingOption {
	return func(c *JsonEncodingConfig) { c.AllowBufferCaching = v }
}
