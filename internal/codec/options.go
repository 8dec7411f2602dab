package codec

import (
	"fmt"
	"time"
)

// Delimiter identifies the character that separates values inside an
// array scope (inline tails, tabular rows, header field lists).
type Delimiter rune

const (
	// DelimiterComma is the default delimiter; it is never written inside
	// a header's brackets because it is implied by its absence.
	DelimiterComma Delimiter = ','
	// DelimiterTab uses HTAB as the separator.
	DelimiterTab Delimiter = '\t'
	// DelimiterPipe uses '|' as the separator.
	DelimiterPipe Delimiter = '|'
)

func (d Delimiter) String() string {
	switch d {
	case DelimiterComma:
		return "comma"
	case DelimiterTab:
		return "tab"
	case DelimiterPipe:
		return "pipe"
	default:
		return fmt.Sprintf("delimiter(%q)", rune(d))
	}
}

func (d Delimiter) valid() bool {
	return d == DelimiterComma || d == DelimiterTab || d == DelimiterPipe
}

func (d Delimiter) rune() rune {
	if d.valid() {
		return rune(d)
	}
	return ','
}

// EncoderOption configures an Encoder.
type EncoderOption func(*encodeConfig)

type encodeConfig struct {
	indentSize     int
	docDelimiter   Delimiter
	arrayDelimiter Delimiter
	lengthMarkers  bool
	timeFormatter  func(time.Time) string
}

func defaultEncodeConfig() encodeConfig {
	return encodeConfig{
		indentSize:     2,
		docDelimiter:   DelimiterComma,
		arrayDelimiter: DelimiterComma,
		timeFormatter: func(t time.Time) string {
			return t.UTC().Format(time.RFC3339Nano)
		},
	}
}

// WithIndent sets the number of spaces emitted per indentation level.
func WithIndent(spaces int) EncoderOption {
	return func(c *encodeConfig) {
		if spaces > 0 {
			c.indentSize = spaces
		}
	}
}

// WithDocumentDelimiter sets the delimiter that influences quoting
// decisions for scalars written outside any array scope.
func WithDocumentDelimiter(d Delimiter) EncoderOption {
	return func(c *encodeConfig) {
		if d.valid() {
			c.docDelimiter = d
		}
	}
}

// WithArrayDelimiter sets the delimiter used by arrays that do not
// override it explicitly.
func WithArrayDelimiter(d Delimiter) EncoderOption {
	return func(c *encodeConfig) {
		if d.valid() {
			c.arrayDelimiter = d
		}
	}
}

// WithLengthMarkers toggles the optional '#' length-marker prefix in
// array headers.
func WithLengthMarkers(enabled bool) EncoderOption {
	return func(c *encodeConfig) { c.lengthMarkers = enabled }
}

// WithTimeFormatter overrides how time.Time values normalize to strings.
func WithTimeFormatter(f func(time.Time) string) EncoderOption {
	return func(c *encodeConfig) {
		if f != nil {
			c.timeFormatter = f
		}
	}
}

// DecoderOption configures a Decoder.
type DecoderOption func(*decodeConfig)

type decodeConfig struct {
	indentSize   int
	strict       bool
	docDelimiter Delimiter
}

func defaultDecodeConfig() decodeConfig {
	return decodeConfig{
		indentSize:   2,
		strict:       true,
		docDelimiter: DelimiterComma,
	}
}

// WithStrictMode toggles strict-mode validation (count, layout, and
// indentation checks).
func WithStrictMode(strict bool) DecoderOption {
	return func(c *decodeConfig) { c.strict = strict }
}

// WithDecoderIndent sets the expected number of spaces per indentation
// level.
func WithDecoderIndent(spaces int) DecoderOption {
	return func(c *decodeConfig) {
		if spaces > 0 {
			c.indentSize = spaces
		}
	}
}

// WithDecoderDocumentDelimiter sets the delimiter mirrored from the
// encode side for symmetry; it has no effect on parsing outside an array
// header (no grammar construct splits on it there), but keeps decoder
// construction symmetric with the encoder for callers that configure both
// from one shared profile.
func WithDecoderDocumentDelimiter(d Delimiter) DecoderOption {
	return func(c *decodeConfig) {
		if d.valid() {
			c.docDelimiter = d
		}
	}
}
