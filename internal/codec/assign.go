package codec

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strconv"
)

// Unmarshal decodes data as TOON and assigns it into v, which must be a
// non-nil pointer. Struct fields bind via `toon` tags (see structtag.go),
// mirroring the naming/omitempty semantics Marshal uses.
func Unmarshal(data []byte, v any, opts ...DecoderOption) error {
	if v == nil {
		return errors.New("toon: Unmarshal target must not be nil")
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.New("toon: Unmarshal target must be a non-nil pointer")
	}
	decoded, err := Decode(data, opts...)
	if err != nil {
		return err
	}
	return assign(rv.Elem(), decoded)
}

// UnmarshalString is Unmarshal over a string.
func UnmarshalString(s string, v any, opts ...DecoderOption) error {
	return Unmarshal([]byte(s), v, opts...)
}

// assign binds a decoded value (nil / bool / string / float64 /
// map[string]any / []any) into dst. A destination addressable as
// encoding.TextUnmarshaler takes a decoded string directly — the decode
// counterpart of normalize.go's encoding.TextMarshaler preference — so
// domain identifier types (uuid.UUID), timestamps, and Document fields
// bind without a bespoke case for each.
func assign(dst reflect.Value, src any) error {
	if !dst.CanSet() {
		return errors.New("toon: destination value is not settable")
	}

	if s, ok := src.(string); ok {
		if tu, ok := textUnmarshalerFor(dst); ok {
			if err := tu.UnmarshalText([]byte(s)); err != nil {
				return fmt.Errorf("toon: UnmarshalText into %s: %w", dst.Type(), err)
			}
			return nil
		}
	}

	switch dst.Kind() {
	case reflect.Interface:
		if src == nil {
			dst.SetZero()
			return nil
		}
		dst.Set(reflect.ValueOf(src))
		return nil
	case reflect.Pointer:
		if src == nil {
			dst.SetZero()
			return nil
		}
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return assign(dst.Elem(), src)
	case reflect.Struct:
		obj, ok := src.(map[string]any)
		if !ok {
			return fmt.Errorf("toon: expected an object for struct %s, got %T", dst.Type(), src)
		}
		return assignStruct(dst, obj)
	case reflect.Map:
		return assignMap(dst, src)
	case reflect.Slice:
		if dst.Type().Elem().Kind() == reflect.Uint8 {
			if src == nil {
				dst.SetZero()
				return nil
			}
			if s, ok := src.(string); ok {
				dst.SetBytes([]byte(s))
				return nil
			}
		}
		return assignSlice(dst, src)
	case reflect.Array:
		return assignArray(dst, src)
	case reflect.String:
		s, ok := src.(string)
		if !ok {
			return fmt.Errorf("toon: cannot assign %T to string", src)
		}
		dst.SetString(s)
		return nil
	case reflect.Bool:
		b, ok := src.(bool)
		if !ok {
			return fmt.Errorf("toon: cannot assign %T to bool", src)
		}
		dst.SetBool(b)
		return nil
	case reflect.Float32, reflect.Float64:
		n, ok := asFloat64(src)
		if !ok {
			return fmt.Errorf("toon: cannot assign %T to float", src)
		}
		dst.SetFloat(n)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		iv, err := asInt64(src)
		if err != nil {
			return fmt.Errorf("toon: cannot assign %T to %s: %w", src, dst.Type(), err)
		}
		if dst.OverflowInt(iv) {
			return fmt.Errorf("toon: value %d overflows %s", iv, dst.Type())
		}
		dst.SetInt(iv)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		uv, err := asUint64(src)
		if err != nil {
			return fmt.Errorf("toon: cannot assign %T to %s: %w", src, dst.Type(), err)
		}
		if dst.OverflowUint(uv) {
			return fmt.Errorf("toon: value %d overflows %s", uv, dst.Type())
		}
		dst.SetUint(uv)
		return nil
	default:
		return fmt.Errorf("toon: unsupported destination kind %s", dst.Kind())
	}
}

var textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

// textUnmarshalerFor reports whether dst's address implements
// encoding.TextUnmarshaler, checking the static type first so a pointer
// field is only allocated once that check confirms it is worth doing.
func textUnmarshalerFor(dst reflect.Value) (encoding.TextUnmarshaler, bool) {
	if dst.Kind() == reflect.Pointer {
		if !reflect.PointerTo(dst.Type().Elem()).Implements(textUnmarshalerType) {
			return nil, false
		}
		if dst.IsNil() {
			if !dst.CanSet() {
				return nil, false
			}
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return dst.Interface().(encoding.TextUnmarshaler), true
	}
	if !dst.CanAddr() || !reflect.PointerTo(dst.Type()).Implements(textUnmarshalerType) {
		return nil, false
	}
	return dst.Addr().Interface().(encoding.TextUnmarshaler), true
}

func assignStruct(dst reflect.Value, obj map[string]any) error {
	meta := structMetaFor(dst.Type())
	for _, fm := range meta.fields {
		v, present := obj[fm.name]
		if !present {
			continue
		}
		if err := assign(fieldByIndex(dst, fm.index), v); err != nil {
			return fmt.Errorf("toon: field %s: %w", fm.name, err)
		}
	}
	return nil
}

func assignMap(dst reflect.Value, src any) error {
	if dst.Type().Key().Kind() != reflect.String {
		return fmt.Errorf("toon: map key type must be string, got %s", dst.Type().Key())
	}
	obj, ok := src.(map[string]any)
	if !ok {
		return fmt.Errorf("toon: expected an object for map, got %T", src)
	}
	if dst.IsNil() {
		dst.Set(reflect.MakeMapWithSize(dst.Type(), len(obj)))
	}
	for k, v := range obj {
		elem := reflect.New(dst.Type().Elem()).Elem()
		if err := assign(elem, v); err != nil {
			return fmt.Errorf("toon: map key %q: %w", k, err)
		}
		dst.SetMapIndex(reflect.ValueOf(k), elem)
	}
	return nil
}

func assignSlice(dst reflect.Value, src any) error {
	arr, ok := src.([]any)
	if !ok {
		return fmt.Errorf("toon: expected an array for slice, got %T", src)
	}
	out := reflect.MakeSlice(dst.Type(), len(arr), len(arr))
	for i, item := range arr {
		if err := assign(out.Index(i), item); err != nil {
			return fmt.Errorf("toon: index %d: %w", i, err)
		}
	}
	dst.Set(out)
	return nil
}

func assignArray(dst reflect.Value, src any) error {
	arr, ok := src.([]any)
	if !ok {
		return fmt.Errorf("toon: expected an array for %s, got %T", dst.Type(), src)
	}
	if len(arr) != dst.Len() {
		return fmt.Errorf("toon: array length mismatch for %s: expected %d, got %d", dst.Type(), dst.Len(), len(arr))
	}
	for i := 0; i < dst.Len(); i++ {
		if err := assign(dst.Index(i), arr[i]); err != nil {
			return fmt.Errorf("toon: index %d: %w", i, err)
		}
	}
	return nil
}

func asFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// asInt64 favors an exact decimal parse of a string source over routing
// through float64, since a value outside the safe-integer range (the
// large-integer overflow rule in normalize.go) decodes as a quoted
// string precisely so it survives this trip without losing precision to
// a 53-bit float mantissa.
func asInt64(src any) (int64, error) {
	if s, ok := src.(string); ok {
		iv, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("not an integer: %w", err)
		}
		return iv, nil
	}
	n, ok := asFloat64(src)
	if !ok {
		return 0, fmt.Errorf("unsupported source type %T", src)
	}
	if n != float64(int64(n)) {
		return 0, fmt.Errorf("non-integer value %v", n)
	}
	return int64(n), nil
}

func asUint64(src any) (uint64, error) {
	if s, ok := src.(string); ok {
		uv, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("not an unsigned integer: %w", err)
		}
		return uv, nil
	}
	n, ok := asFloat64(src)
	if !ok {
		return 0, fmt.Errorf("unsupported source type %T", src)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative value %v", n)
	}
	if n != float64(uint64(n)) {
		return 0, fmt.Errorf("non-integer value %v", n)
	}
	return uint64(n), nil
}
