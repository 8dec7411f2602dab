package toon

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Document holds raw TOON text, letting a TOON payload travel inside a
// JSON envelope, a SQL column, or any other string-typed container
// without forcing an eager decode. Call Decode or Unmarshal when the
// payload is actually needed.
//
// This recovers a pattern visible across TOON-consuming programs: a tool
// call or database row carries a TOON sub-document as an opaque string
// field that is only parsed lazily, the same role json.RawMessage plays
// for nested JSON.
type Document string

// String returns the raw TOON text.
func (d Document) String() string {
	return string(d)
}

// Decode parses the document with a temporary Decoder.
func (d Document) Decode(opts ...DecoderOption) (any, error) {
	return DecodeString(string(d), opts...)
}

// Unmarshal decodes the document into v, a non-nil pointer.
func (d Document) Unmarshal(v any, opts ...DecoderOption) error {
	return UnmarshalString(string(d), v, opts...)
}

// MarshalText implements encoding.TextMarshaler.
func (d Document) MarshalText() ([]byte, error) {
	return []byte(d), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Document) UnmarshalText(text []byte) error {
	*d = Document(text)
	return nil
}

// MarshalJSON implements json.Marshaler: a Document is carried as a JSON
// string, not re-encoded as TOON-shaped JSON.
func (d Document) MarshalJSON() ([]byte, error) {
	if d == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(d))
}

// UnmarshalJSON implements json.Unmarshaler, accepting a JSON string or
// null.
func (d *Document) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("toon: Document must be a JSON string: %w", err)
	}
	*d = Document(s)
	return nil
}

// Value implements database/sql/driver.Valuer.
func (d Document) Value() (driver.Value, error) {
	if d == "" {
		return nil, nil
	}
	return string(d), nil
}

// Scan implements database/sql.Scanner.
func (d *Document) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = ""
		return nil
	case string:
		*d = Document(v)
		return nil
	case []byte:
		*d = Document(v)
		return nil
	default:
		return fmt.Errorf("toon: cannot scan %T into Document", src)
	}
}
