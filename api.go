// Package toon implements the Token-Oriented Object Notation (TOON)
// encoder and decoder described in SPEC_FULL.md. TOON is a compact,
// human-readable, indentation-structured serialization format that
// renders homogeneous object arrays as a header plus delimited rows
// instead of repeating every key, while remaining diff-friendly and
// unambiguously parseable. The package exposes a small public surface
// while keeping the grammar, classifier, and parser inside internal
// packages.
package toon

import (
	"time"

	"github.com/ideafoundry/toon/internal/codec"
)

// Delimiter identifies the character used to separate values inside an
// array scope.
type Delimiter = codec.Delimiter

const (
	// DelimiterComma is the default delimiter; it is omitted from array
	// header brackets since its absence implies comma.
	DelimiterComma = codec.DelimiterComma
	// DelimiterTab uses HTAB to separate values.
	DelimiterTab = codec.DelimiterTab
	// DelimiterPipe uses '|' to separate values.
	DelimiterPipe = codec.DelimiterPipe
)

// EncoderOption mutates encoding behaviour.
type EncoderOption = codec.EncoderOption

// DecoderOption mutates decoding behaviour.
type DecoderOption = codec.DecoderOption

// Field is a single key/value pair of an ordered Object.
type Field = codec.Field

// Object is an ordered, string-keyed mapping that preserves field
// insertion order, so the encoder's output order is deterministic even
// when callers are not using Go structs.
type Object = codec.Object

// NewObject builds an ordered Object from the given fields.
func NewObject(fields ...Field) Object {
	return codec.NewObject(fields...)
}

// Encoder renders Go values as TOON documents with a fixed option set.
type Encoder = codec.Encoder

// NewEncoder builds an Encoder; absent options fall back to the defaults
// documented on each With* function.
func NewEncoder(opts ...EncoderOption) *Encoder {
	return codec.NewEncoder(opts...)
}

// Marshal renders v as a TOON document using a temporary Encoder.
func Marshal(v any, opts ...EncoderOption) ([]byte, error) {
	return codec.Marshal(v, opts...)
}

// MarshalString renders v as a TOON document string.
func MarshalString(v any, opts ...EncoderOption) (string, error) {
	return codec.MarshalString(v, opts...)
}

// WithIndent sets the number of spaces emitted per indentation level.
func WithIndent(spaces int) EncoderOption {
	return codec.WithIndent(spaces)
}

// WithDocumentDelimiter sets the delimiter that influences quoting
// decisions for scalars written outside any array scope.
func WithDocumentDelimiter(delimiter Delimiter) EncoderOption {
	return codec.WithDocumentDelimiter(delimiter)
}

// WithArrayDelimiter sets the delimiter used by arrays that do not
// explicitly override it.
func WithArrayDelimiter(delimiter Delimiter) EncoderOption {
	return codec.WithArrayDelimiter(delimiter)
}

// WithLengthMarkers toggles emitting the optional '#' marker in array
// headers.
func WithLengthMarkers(enabled bool) EncoderOption {
	return codec.WithLengthMarkers(enabled)
}

// WithTimeFormatter overrides how time.Time values normalize to strings;
// the default is time.RFC3339Nano in UTC.
func WithTimeFormatter(formatter func(time.Time) string) EncoderOption {
	return codec.WithTimeFormatter(formatter)
}

// Decoder parses TOON documents into Go values: float64 for numbers,
// map[string]any for objects, []any for arrays, and bool/string/nil for
// the remaining scalars.
type Decoder = codec.Decoder

// NewDecoder builds a Decoder with the given options.
func NewDecoder(opts ...DecoderOption) *Decoder {
	return codec.NewDecoder(opts...)
}

// Decode parses data as a TOON document using a temporary Decoder.
func Decode(data []byte, opts ...DecoderOption) (any, error) {
	return codec.Decode(data, opts...)
}

// DecodeString parses s as a TOON document string.
func DecodeString(s string, opts ...DecoderOption) (any, error) {
	return codec.DecodeString(s, opts...)
}

// WithStrictMode toggles strict-mode validation.
func WithStrictMode(strict bool) DecoderOption {
	return codec.WithStrictMode(strict)
}

// WithDecoderIndent sets the expected number of spaces per indentation
// level.
func WithDecoderIndent(spaces int) DecoderOption {
	return codec.WithDecoderIndent(spaces)
}

// WithDecoderDocumentDelimiter sets the delimiter mirrored from the
// encode side for a symmetric option profile.
func WithDecoderDocumentDelimiter(delimiter Delimiter) DecoderOption {
	return codec.WithDecoderDocumentDelimiter(delimiter)
}

// Unmarshal decodes the TOON document in data into v, a non-nil pointer.
// Struct fields use `toon:"name,omitempty"` tags, mirroring Marshal.
func Unmarshal(data []byte, v any, opts ...DecoderOption) error {
	return codec.Unmarshal(data, v, opts...)
}

// UnmarshalString decodes the TOON document in s into v.
func UnmarshalString(s string, v any, opts ...DecoderOption) error {
	return codec.UnmarshalString(s, v, opts...)
}

// ErrorKind classifies a CodecError.
type ErrorKind = codec.ErrorKind

const (
	// ErrInput covers malformed top-level input, such as an empty document.
	ErrInput = codec.ErrInput
	// ErrGrammar covers structural grammar violations.
	ErrGrammar = codec.ErrGrammar
	// ErrCount covers strict-mode length mismatches.
	ErrCount = codec.ErrCount
	// ErrLayout covers strict-mode indentation and blank-line violations.
	ErrLayout = codec.ErrLayout
)

// CodecError is the concrete error type Decode/Unmarshal return for a
// malformed document. Use errors.As to recover it and branch on Kind.
type CodecError = codec.CodecError
