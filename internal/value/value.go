// Package value defines the normalized TOON data model: the small, closed
// set of Go types that the encoder accepts and the decoder produces. A
// normalized tree contains only nil, bool, string, Number, Object, and
// []Value — every other Go type is reduced to one of these by the
// normalizer before the encoder ever sees it.
package value

// Value is any member of the normalized TOON data model: nil, bool,
// string, Number, Object, or []Value. It carries no methods of its own;
// callers type-switch on the concrete value.
type Value interface{}

// Number holds a numeric literal exactly as it should appear in the
// rendered document. Literals are pre-formatted at normalization time
// (exact digits for safe-range integers, shortest round-tripping decimal
// form for floats) so the encoder never re-derives formatting from a
// float64. Integers outside the safe range normalize to strings, not
// Numbers.
type Number struct {
	Literal string
}

// MaxSafeInteger mirrors the largest integer magnitude representable
// exactly in an IEEE-754 double. Normalizer integer handling uses this
// bound to decide between a Number literal and a decimal string.
const MaxSafeInteger = 9007199254740991

// Field is one key/value pair of an Object, in encounter order.
type Field struct {
	Key   string
	Value any
}

// Object is an ordered string-keyed mapping: a slice of Fields rather than
// a Go map, so that field emission order always matches insertion order
// (Go maps have no stable iteration order).
type Object struct {
	Fields []Field
}

// New builds an Object from the given fields, copying the slice so later
// mutation of the caller's slice cannot affect the Object.
func New(fields ...Field) Object {
	return Object{Fields: append([]Field(nil), fields...)}
}

// Len reports the number of fields.
func (o Object) Len() int { return len(o.Fields) }

// Empty reports whether the object carries no fields.
func (o Object) Empty() bool { return len(o.Fields) == 0 }

// Get returns the value bound to key and whether it was present.
func (o Object) Get(key string) (any, bool) {
	for _, f := range o.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// IsPrimitive reports whether v is a leaf of the data model (anything
// that is not an Object or a []Value).
func IsPrimitive(v Value) bool {
	switch v.(type) {
	case nil, bool, string, Number:
		return true
	default:
		return false
	}
}

// IsPrimitiveSlice reports whether every element of vs is a primitive.
func IsPrimitiveSlice(vs []Value) bool {
	for _, v := range vs {
		if !IsPrimitive(v) {
			return false
		}
	}
	return true
}
