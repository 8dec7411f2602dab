package codec

import (
	"encoding"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"slices"
	"strconv"
	"time"

	"github.com/ideafoundry/toon/internal/value"
)

// normalize reduces a Go value to the TOON data model (nil, bool, string,
// value.Number, value.Object, or []value.Value) per the normalization
// rules: non-finite numbers and negative zero collapse, big integers
// outside the safe range become decimal strings, dates become strings via
// cfg.timeFormatter, and anything implementing encoding.TextMarshaler or
// fmt.Stringer (including domain identifier types such as uuid.UUID)
// normalizes through that method rather than being descended into as a
// struct or byte array.
func normalize(v any, cfg encodeConfig) (value.Value, error) {
	if v == nil {
		return nil, nil
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, nil
	}

	// time.Time and *big.Int implement encoding.TextMarshaler themselves,
	// so they are dispatched before normalizeText would claim them.
	switch v := v.(type) {
	case time.Time:
		return cfg.timeFormatter(v), nil
	case *time.Time:
		return cfg.timeFormatter(*v), nil
	case *big.Int:
		return normalizeBigInt(v, cfg)
	}

	if text, handled, err := normalizeText(v); handled {
		return text, err
	}

	switch v := v.(type) {
	case string:
		return v, nil
	case bool:
		return v, nil
	case json.Number:
		return normalizeNumberString(string(v))
	case float32:
		return normalizeFloat(float64(v))
	case float64:
		return normalizeFloat(v)
	case int, int8, int16, int32, int64:
		return normalizeSignedInt(reflect.ValueOf(v).Int()), nil
	case uint, uint8, uint16, uint32, uint64:
		return normalizeUnsignedInt(reflect.ValueOf(v).Uint()), nil
	case big.Int:
		return normalizeBigInt(&v, cfg)
	case value.Object:
		return normalizeFields(v.Fields, cfg)
	case value.Field:
		return normalizeFields([]value.Field{v}, cfg)
	}

	return normalizeReflect(reflect.ValueOf(v), cfg)
}

// normalizeText checks the two "this type knows how to render itself as
// text" interfaces, preferring encoding.TextMarshaler: it promises a
// lossless round trip through the matching encoding.TextUnmarshaler hook
// assign.go checks on decode, a guarantee a bare String() method does not
// make. fmt.Stringer remains the fallback for display-only types.
func normalizeText(v any) (value.Value, bool, error) {
	if tm, ok := v.(encoding.TextMarshaler); ok {
		text, err := tm.MarshalText()
		if err != nil {
			return nil, true, fmt.Errorf("toon: MarshalText: %w", err)
		}
		return string(text), true, nil
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String(), true, nil
	}
	return nil, false, nil
}

func normalizeSignedInt(i int64) value.Value {
	if i > value.MaxSafeInteger || i < -value.MaxSafeInteger {
		return strconv.FormatInt(i, 10)
	}
	return value.Number{Literal: strconv.FormatInt(i, 10)}
}

func normalizeUnsignedInt(u uint64) value.Value {
	if u > value.MaxSafeInteger {
		return strconv.FormatUint(u, 10)
	}
	return value.Number{Literal: strconv.FormatUint(u, 10)}
}

// normalizeBigInt applies the same safe-integer-range rule as the native
// int/uint cases by routing a value that fits in an int64 through
// normalize's signed-integer case, so a safe-range value renders as a
// plain number rather than a quoted string.
func normalizeBigInt(v *big.Int, cfg encodeConfig) (value.Value, error) {
	if v == nil {
		return nil, nil
	}
	if v.IsInt64() {
		return normalize(v.Int64(), cfg)
	}
	return v.String(), nil
}

// normalizeReflect handles the Go kinds that have no concrete-type case
// above: pointers, sequences, string-keyed maps, and structs.
func normalizeReflect(rv reflect.Value, cfg encodeConfig) (value.Value, error) {
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, nil
		}
		return normalize(rv.Elem().Interface(), cfg)
	case reflect.Slice, reflect.Array:
		return normalizeSequence(rv, cfg)
	case reflect.Map:
		return normalizeMap(rv, cfg)
	case reflect.Struct:
		return normalizeStruct(rv, cfg)
	default:
		return nil, fmt.Errorf("toon: unsupported value of type %s", rv.Type())
	}
}

func normalizeSequence(rv reflect.Value, cfg encodeConfig) (value.Value, error) {
	n := rv.Len()
	out := make([]value.Value, 0, n)
	for i := 0; i < n; i++ {
		item, err := normalize(rv.Index(i).Interface(), cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// normalizeMap sorts by key before returning, since Go map iteration
// order is unspecified and the output must be deterministic.
func normalizeMap(rv reflect.Value, cfg encodeConfig) (value.Value, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("toon: map key type %s is not supported (only string-keyed maps)", rv.Type().Key())
	}
	fields := make([]value.Field, 0, rv.Len())
	for iter := rv.MapRange(); iter.Next(); {
		fv, err := normalize(iter.Value().Interface(), cfg)
		if err != nil {
			return nil, err
		}
		fields = append(fields, value.Field{Key: iter.Key().String(), Value: fv})
	}
	slices.SortFunc(fields, func(a, b value.Field) int {
		switch {
		case a.Key < b.Key:
			return -1
		case a.Key > b.Key:
			return 1
		default:
			return 0
		}
	})
	return value.Object{Fields: fields}, nil
}

func normalizeStruct(rv reflect.Value, cfg encodeConfig) (value.Value, error) {
	meta := structMetaFor(rv.Type())
	fields := make([]value.Field, 0, len(meta.fields))
	for _, fm := range meta.fields {
		fv := fieldByIndex(rv, fm.index)
		if fm.omitEmpty && isEmptyValue(fv) {
			continue
		}
		child, err := normalize(fv.Interface(), cfg)
		if err != nil {
			return nil, fmt.Errorf("toon: field %s: %w", fm.name, err)
		}
		fields = append(fields, value.Field{Key: fm.name, Value: child})
	}
	return value.Object{Fields: fields}, nil
}

func normalizeFields(fields []value.Field, cfg encodeConfig) (value.Value, error) {
	out := make([]value.Field, 0, len(fields))
	for _, f := range fields {
		child, err := normalize(f.Value, cfg)
		if err != nil {
			return nil, fmt.Errorf("toon: field %s: %w", f.Key, err)
		}
		out = append(out, value.Field{Key: f.Key, Value: child})
	}
	return value.Object{Fields: out}, nil
}

func normalizeFloat(f float64) (value.Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, nil
	}
	if f == math.Copysign(0, -1) {
		f = 0
	}
	return value.Number{Literal: strconv.FormatFloat(f, 'f', -1, 64)}, nil
}

func normalizeNumberString(s string) (value.Value, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Not a valid float: preserve verbatim; the encoder quotes it if
		// it is not safely emittable bare.
		return s, nil
	}
	return normalizeFloat(f)
}
