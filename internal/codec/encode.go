package codec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ideafoundry/toon/internal/syntax"
	"github.com/ideafoundry/toon/internal/value"
)

// Encoder renders Go values as TOON documents using a fixed option set.
// An Encoder is stateless between calls and safe for reuse and concurrent
// use across goroutines.
type Encoder struct {
	cfg encodeConfig
}

// NewEncoder builds an Encoder; unset options default to a two-space
// indent, comma delimiters, and no length markers.
func NewEncoder(opts ...EncoderOption) *Encoder {
	cfg := defaultEncodeConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Encoder{cfg: cfg}
}

// Marshal normalizes v (see normalize.go) and renders the result as a
// TOON document.
func (e *Encoder) Marshal(v any) ([]byte, error) {
	normalized, err := normalize(v, e.cfg)
	if err != nil {
		return nil, err
	}
	w := &writer{cfg: e.cfg}
	if err := w.writeRoot(normalized); err != nil {
		return nil, err
	}
	return []byte(strings.Join(w.lines, "\n")), nil
}

// MarshalString is Marshal returning a string.
func (e *Encoder) MarshalString(v any) (string, error) {
	b, err := e.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Marshal renders v using a fresh, default-configured Encoder.
func Marshal(v any, opts ...EncoderOption) ([]byte, error) {
	return NewEncoder(opts...).Marshal(v)
}

// MarshalString renders v as a string using a fresh Encoder.
func MarshalString(v any, opts ...EncoderOption) (string, error) {
	return NewEncoder(opts...).MarshalString(v)
}

// writer accumulates output lines for one encode call.
type writer struct {
	cfg   encodeConfig
	lines []string
}

func (w *writer) emit(line string) { w.lines = append(w.lines, line) }

func (w *writer) pad(depth int) string {
	if depth <= 0 {
		return ""
	}
	return strings.Repeat(" ", depth*w.cfg.indentSize)
}

func (w *writer) scalarContext(inArray bool) syntax.QuoteContext {
	return syntax.QuoteContext{
		ArrayDelimiter:    w.cfg.arrayDelimiter.rune(),
		DocumentDelimiter: w.cfg.docDelimiter.rune(),
		InArray:           inArray,
	}
}

func (w *writer) writeRoot(v value.Value) error {
	switch val := v.(type) {
	case nil, bool, string, value.Number:
		token, err := formatScalar(val, w.scalarContext(false))
		if err != nil {
			return err
		}
		w.emit(token)
	case value.Object:
		return w.writeObject(val, 0)
	case []value.Value:
		return w.writeArray("", val, 0, true)
	default:
		return fmt.Errorf("toon: unsupported root value %T", v)
	}
	return nil
}

func (w *writer) writeObject(obj value.Object, depth int) error {
	if depth == 0 && obj.Empty() {
		return nil
	}
	indent := w.pad(depth)
	for _, field := range obj.Fields {
		switch val := field.Value.(type) {
		case nil, bool, string, value.Number:
			key, err := syntax.EncodeKey(field.Key)
			if err != nil {
				return err
			}
			token, err := formatScalar(val, w.scalarContext(false))
			if err != nil {
				return err
			}
			w.emit(indent + key + ": " + token)
		case value.Object:
			key, err := syntax.EncodeKey(field.Key)
			if err != nil {
				return err
			}
			w.emit(indent + key + ":")
			if err := w.writeObject(val, depth+1); err != nil {
				return err
			}
		case []value.Value:
			if err := w.writeArray(field.Key, val, depth, false); err != nil {
				return err
			}
		default:
			return fmt.Errorf("toon: unsupported field %q of type %T", field.Key, val)
		}
	}
	return nil
}

// writeArray classifies values per the array-classifier rules (inline,
// tabular, or mixed list) and emits the corresponding TOON form.
func (w *writer) writeArray(key string, values []value.Value, depth int, root bool) error {
	indent := w.pad(depth)
	delim := w.cfg.arrayDelimiter
	ctx := w.scalarContext(true)

	keyTok := ""
	if key != "" {
		var err error
		keyTok, err = syntax.EncodeKey(key)
		if err != nil {
			return err
		}
	}

	if value.IsPrimitiveSlice(values) {
		line := indent + header(keyTok, len(values), delim, w.cfg.lengthMarkers, nil)
		if len(values) > 0 {
			tokens, err := formatScalars(values, ctx)
			if err != nil {
				return err
			}
			line += " " + strings.Join(tokens, string(delim.rune()))
		}
		w.emit(line)
		return nil
	}

	if fields, ok := tabularFields(values); ok {
		w.emit(indent + header(keyTok, len(values), delim, w.cfg.lengthMarkers, fields))
		return w.writeTabularRows(values, fields, depth+1, ctx)
	}

	w.emit(indent + header(keyTok, len(values), delim, w.cfg.lengthMarkers, nil))
	for _, item := range values {
		if err := w.writeListItem(item, depth+1, ctx, root); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) writeTabularRows(rows []value.Value, fields []string, depth int, ctx syntax.QuoteContext) error {
	indent := w.pad(depth)
	for _, row := range rows {
		obj := row.(value.Object)
		cells := make([]string, len(fields))
		for i, f := range fields {
			v, _ := obj.Get(f)
			token, err := formatScalar(v, ctx)
			if err != nil {
				return err
			}
			cells[i] = token
		}
		w.emit(indent + strings.Join(cells, string(ctx.ArrayDelimiter)))
	}
	return nil
}

// writeListItem emits one "- " element of a non-tabular array. root
// distinguishes a top-level array (no further nesting wrapper needed)
// from an array nested under an object field — both currently render
// identically, but are kept distinct to mirror the recursive structure
// a caller reasoning from the grammar would expect.
func (w *writer) writeListItem(item value.Value, depth int, ctx syntax.QuoteContext, root bool) error {
	switch v := item.(type) {
	case nil, bool, string, value.Number:
		token, err := formatScalar(v, ctx)
		if err != nil {
			return err
		}
		w.emit(w.pad(depth) + "- " + token)
		return nil
	case value.Object:
		return w.writeObjectListItem(v, depth, ctx)
	case []value.Value:
		return w.writeNestedArrayListItem("", v, depth, ctx)
	default:
		return fmt.Errorf("toon: unsupported list item of type %T", v)
	}
}

func (w *writer) writeObjectListItem(obj value.Object, depth int, ctx syntax.QuoteContext) error {
	if obj.Empty() {
		w.emit(w.pad(depth) + "-")
		return nil
	}
	first := obj.Fields[0]
	rest := value.Object{Fields: obj.Fields[1:]}

	if value.IsPrimitive(first.Value) {
		key, err := syntax.EncodeKey(first.Key)
		if err != nil {
			return err
		}
		token, err := formatScalar(first.Value, ctx)
		if err != nil {
			return err
		}
		w.emit(w.pad(depth) + "- " + key + ": " + token)
		if len(rest.Fields) > 0 {
			return w.writeObject(rest, depth+1)
		}
		return nil
	}

	if arr, ok := first.Value.([]value.Value); ok {
		key, err := syntax.EncodeKey(first.Key)
		if err != nil {
			return err
		}
		if err := w.writeNestedArrayListItem(key, arr, depth, ctx); err != nil {
			return err
		}
		if len(rest.Fields) > 0 {
			return w.writeObject(rest, depth+1)
		}
		return nil
	}

	key, err := syntax.EncodeKey(first.Key)
	if err != nil {
		return err
	}
	w.emit(w.pad(depth) + "- " + key + ":")
	if err := w.writeObject(first.Value.(value.Object), depth+2); err != nil {
		return err
	}
	if len(rest.Fields) > 0 {
		return w.writeObject(rest, depth+1)
	}
	return nil
}

func (w *writer) writeNestedArrayListItem(keyTok string, values []value.Value, depth int, ctx syntax.QuoteContext) error {
	indent := w.pad(depth)
	delim := Delimiter(ctx.ArrayDelimiter)

	if fields, ok := tabularFields(values); ok {
		w.emit(indent + "- " + header(keyTok, len(values), delim, w.cfg.lengthMarkers, fields))
		return w.writeTabularRows(values, fields, depth+1, ctx)
	}

	if value.IsPrimitiveSlice(values) {
		line := indent + "- " + header(keyTok, len(values), delim, w.cfg.lengthMarkers, nil)
		if len(values) > 0 {
			tokens, err := formatScalars(values, ctx)
			if err != nil {
				return err
			}
			line += " " + strings.Join(tokens, string(delim.rune()))
		}
		w.emit(line)
		return nil
	}

	w.emit(indent + "- " + header(keyTok, len(values), delim, w.cfg.lengthMarkers, nil))
	for _, item := range values {
		if err := w.writeListItem(item, depth+1, ctx, false); err != nil {
			return err
		}
	}
	return nil
}

// tabularFields reports the ordered field list shared by every element of
// values, if all elements are non-empty objects with exactly that field
// set (in the first element's order) and every value is a primitive.
// Differing shapes fall through to mixed-list rendering.
func tabularFields(values []value.Value) ([]string, bool) {
	if len(values) == 0 {
		return nil, false
	}
	first, ok := values[0].(value.Object)
	if !ok || first.Empty() {
		return nil, false
	}
	fields := make([]string, len(first.Fields))
	present := make(map[string]struct{}, len(first.Fields))
	for i, f := range first.Fields {
		if !value.IsPrimitive(f.Value) {
			return nil, false
		}
		fields[i] = f.Key
		present[f.Key] = struct{}{}
	}
	for _, v := range values[1:] {
		obj, ok := v.(value.Object)
		if !ok || len(obj.Fields) != len(fields) {
			return nil, false
		}
		seen := make(map[string]struct{}, len(fields))
		for _, f := range obj.Fields {
			if _, ok := present[f.Key]; !ok || !value.IsPrimitive(f.Value) {
				return nil, false
			}
			seen[f.Key] = struct{}{}
		}
		if len(seen) != len(fields) {
			return nil, false
		}
	}
	return fields, true
}

func formatScalars(values []value.Value, ctx syntax.QuoteContext) ([]string, error) {
	tokens := make([]string, len(values))
	for i, v := range values {
		token, err := formatScalar(v, ctx)
		if err != nil {
			return nil, err
		}
		tokens[i] = token
	}
	return tokens, nil
}

func formatScalar(v value.Value, ctx syntax.QuoteContext) (string, error) {
	switch val := v.(type) {
	case nil:
		return "null", nil
	case bool:
		if val {
			return "true", nil
		}
		return "false", nil
	case value.Number:
		return val.Literal, nil
	case string:
		return syntax.FormatString(val, ctx)
	default:
		return "", fmt.Errorf("toon: unsupported primitive %T", v)
	}
}

// header renders an array header: "[key]['#']N[delim]{fields}:".
func header(keyTok string, length int, delim Delimiter, lengthMarker bool, fields []string) string {
	var b strings.Builder
	b.WriteString(keyTok)
	b.WriteByte('[')
	if lengthMarker {
		b.WriteByte('#')
	}
	b.WriteString(strconv.Itoa(length))
	if delim != DelimiterComma {
		b.WriteRune(delim.rune())
	}
	b.WriteByte(']')
	if len(fields) > 0 {
		b.WriteByte('{')
		for i, f := range fields {
			if i > 0 {
				b.WriteRune(delim.rune())
			}
			tok, _ := syntax.EncodeKey(f)
			b.WriteString(tok)
		}
		b.WriteByte('}')
	}
	b.WriteByte(':')
	return b.String()
}
