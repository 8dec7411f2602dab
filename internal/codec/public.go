package codec

import "github.com/ideafoundry/toon/internal/value"

// Object and Field re-export the ordered value model so callers building
// a document programmatically (rather than from a Go struct) don't need
// to import the internal value package directly.
type (
	Object = value.Object
	Field  = value.Field
)

// NewObject builds an ordered Object from the given fields.
func NewObject(fields ...Field) Object {
	return value.New(fields...)
}
