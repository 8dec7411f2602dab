package codec

import (
	"reflect"
	"strings"
	"sync"
)

// fieldMeta describes one exported struct field's TOON binding: its
// object key, whether it is dropped when empty, and the reflect index
// path used to reach it (more than one element deep for a field promoted
// from an embedded struct).
type fieldMeta struct {
	name      string
	omitEmpty bool
	index     []int
}

// typeMeta is the cached, ordered field list for one struct type.
type typeMeta struct {
	fields []fieldMeta
	byName map[string]fieldMeta
}

var metaCache sync.Map // map[reflect.Type]typeMeta

// structMetaFor returns (building and caching, if necessary) the field
// metadata for t. Caching means repeated Marshal/Unmarshal calls against
// the same struct shape do not re-walk struct tags each time; the cache
// is a pure function of t, so concurrent calls across goroutines are safe.
func structMetaFor(t reflect.Type) typeMeta {
	if cached, ok := metaCache.Load(t); ok {
		return cached.(typeMeta)
	}
	built := buildTypeMeta(t)
	metaCache.Store(t, built)
	return built
}

// buildTypeMeta walks t's fields in declaration order, recursing inline
// the moment it finds an untagged anonymous struct field so its fields
// are promoted to the position the embed itself occupies — the same
// order a reader scanning the struct definition top to bottom would
// expect. A name claimed earlier (whether declared directly or reached
// through an earlier embed) shadows the same name found later. Giving an
// anonymous field its own explicit toon tag opts it out of promotion
// entirely, the same override `encoding/json` offers for an embedded
// field's JSON tag.
func buildTypeMeta(t reflect.Type) typeMeta {
	var fields []fieldMeta
	claimed := make(map[string]bool, t.NumField())
	collectFields(t, nil, claimed, &fields)

	byName := make(map[string]fieldMeta, len(fields))
	for _, f := range fields {
		byName[f.name] = f
	}
	return typeMeta{fields: fields, byName: byName}
}

func collectFields(t reflect.Type, prefix []int, claimed map[string]bool, fields *[]fieldMeta) {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() && !sf.Anonymous {
			continue
		}
		index := make([]int, len(prefix)+1)
		copy(index, prefix)
		index[len(prefix)] = i

		tag := sf.Tag.Get("toon")
		if tag == "-" {
			continue
		}
		name, opts := splitTag(tag)

		if embedded, ok := promotable(sf, name); ok {
			collectFields(embedded, index, claimed, fields)
			continue
		}
		if !sf.IsExported() {
			continue
		}

		if name == "" {
			name = sf.Name
		}
		if claimed[name] {
			continue
		}
		claimed[name] = true
		*fields = append(*fields, fieldMeta{name: name, omitEmpty: opts["omitempty"], index: index})
	}
}

// promotable reports whether sf is an untagged anonymous struct (or
// pointer-to-struct) field whose own fields should be flattened into the
// parent rather than treated as a nested object.
func promotable(sf reflect.StructField, explicitName string) (reflect.Type, bool) {
	if !sf.Anonymous || explicitName != "" {
		return nil, false
	}
	t := sf.Type
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, false
	}
	return t, true
}

func splitTag(tag string) (string, map[string]bool) {
	opts := map[string]bool{}
	if tag == "" {
		return "", opts
	}
	parts := strings.Split(tag, ",")
	for _, p := range parts[1:] {
		if p != "" {
			opts[p] = true
		}
	}
	return parts[0], opts
}

// fieldByIndex resolves a (possibly multi-level, embedding-promoted)
// index path against v, allocating through nil pointers it finds along
// the way only for reading a zero value, never mutating v.
func fieldByIndex(v reflect.Value, index []int) reflect.Value {
	for _, i := range index {
		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Zero(v.Type().Elem())
			}
			v = v.Elem()
		}
		v = v.Field(i)
	}
	return v
}

// isEmptyValue reports whether v is the `omitempty` zero value for its
// kind: the encoding/json rule (length zero for containers/strings, nil
// for interfaces and pointers) rather than reflect.Value.IsZero's notion,
// which would treat a non-nil empty slice as non-zero.
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	default:
		return v.IsZero()
	}
}
