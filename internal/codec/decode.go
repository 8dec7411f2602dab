package codec

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/ideafoundry/toon/internal/syntax"
)

// Decoder parses TOON documents into Go values: float64 for numbers,
// map[string]any for objects, []any for arrays, and string/bool/nil for
// the remaining scalars.
type Decoder struct {
	cfg decodeConfig
}

// NewDecoder builds a Decoder; unset options default to a two-space
// indent and strict mode enabled.
func NewDecoder(opts ...DecoderOption) *Decoder {
	cfg := defaultDecodeConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Decoder{cfg: cfg}
}

// Decode parses data as a TOON document.
func (d *Decoder) Decode(data []byte) (any, error) {
	p, err := newParser(string(data), d.cfg)
	if err != nil {
		return nil, err
	}
	return p.parseDocument()
}

// DecodeString is Decode over a string.
func (d *Decoder) DecodeString(s string) (any, error) {
	return d.Decode([]byte(s))
}

// Decode parses data using a fresh, default-configured Decoder.
func Decode(data []byte, opts ...DecoderOption) (any, error) {
	return NewDecoder(opts...).Decode(data)
}

// DecodeString parses s using a fresh Decoder.
func DecodeString(s string, opts ...DecoderOption) (any, error) {
	return NewDecoder(opts...).DecodeString(s)
}

// sourceLine is one scanned line: its 1-based number, computed depth, and
// indentation-stripped content. Blank (whitespace-only) lines carry empty
// content and are flagged so the parser can apply strict-mode blank-line
// policy without treating them as structural.
type sourceLine struct {
	number  int
	depth   int
	content string
	blank   bool
}

// parser is a forward-only cursor over the scanned line sequence plus the
// recursive-descent dispatch rules from the component design.
type parser struct {
	lines []sourceLine
	pos   int
	cfg   decodeConfig
}

// newParser scans input into lines (the "Scanner" of the component
// design), computing each line's depth and rejecting tab/non-multiple
// indentation up front in strict mode.
func newParser(input string, cfg decodeConfig) (*parser, error) {
	raw := splitDocumentLines(input)
	lines := make([]sourceLine, 0, len(raw))
	for i, text := range raw {
		number := i + 1
		if text == "" {
			lines = append(lines, sourceLine{number: number, blank: true})
			continue
		}
		depth, content, err := scanIndent(text, cfg)
		if err != nil {
			return nil, wrapAt(ErrLayout, number, err)
		}
		lines = append(lines, sourceLine{
			number:  number,
			depth:   depth,
			content: content,
			blank:   strings.TrimSpace(content) == "",
		})
	}
	return &parser{lines: lines, cfg: cfg}, nil
}

func splitDocumentLines(input string) []string {
	input = strings.ReplaceAll(input, "\r\n", "\n")
	lines := strings.Split(input, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// scanIndent measures leading whitespace and returns (depth, rest).
func scanIndent(line string, cfg decodeConfig) (int, string, error) {
	spaces := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			spaces++
		case '\t':
			if cfg.strict {
				return 0, "", errAt(ErrLayout, 0, "indentation must not contain tab characters (strict mode)")
			}
			spaces++
		default:
			if cfg.strict && spaces%cfg.indentSize != 0 {
				return 0, "", errAtf(ErrLayout, 0, "indentation of %d spaces is not a multiple of %d (strict mode)", spaces, cfg.indentSize)
			}
			return spaces / cfg.indentSize, line[i:], nil
		}
	}
	return 0, "", nil
}

func (p *parser) current() sourceLine { return p.lines[p.pos] }

func (p *parser) skipLeadingBlanks() {
	for p.pos < len(p.lines) && p.lines[p.pos].blank {
		p.pos++
	}
}

func (p *parser) remainingNonBlank() int {
	n := 0
	for _, l := range p.lines[p.pos:] {
		if !l.blank {
			n++
		}
	}
	return n
}

func (p *parser) nextNonBlankDepth(from int) (int, bool) {
	for i := from + 1; i < len(p.lines); i++ {
		if !p.lines[i].blank {
			return p.lines[i].depth, true
		}
	}
	return 0, false
}

// parseDocument implements the top-level dispatch: a single bare token
// decodes as a primitive, a keyless header decodes as an array, otherwise
// the document is an object at depth 0.
func (p *parser) parseDocument() (any, error) {
	p.skipLeadingBlanks()
	if p.pos >= len(p.lines) {
		return nil, errAt(ErrInput, 0, "document is empty")
	}

	first := p.current()
	hdr, isHeader, err := parseHeaderLine(first.content)
	if err != nil {
		return nil, wrapAt(ErrGrammar, first.number, err)
	}

	if p.remainingNonBlank() == 1 && !isHeader && !looksLikeKeyValue(first.content) {
		v, err := decodeScalarToken(strings.TrimSpace(first.content))
		if err != nil {
			return nil, wrapAt(ErrGrammar, first.number, err)
		}
		p.pos++
		return v, nil
	}

	if isHeader && first.depth == 0 && hdr.key == "" {
		p.pos++
		return p.parseArray(hdr, 0)
	}

	return p.parseObject(0)
}

// parseObject consumes key-value and array-header lines at exactly depth,
// stopping when a shallower line or end of input is reached.
func (p *parser) parseObject(depth int) (map[string]any, error) {
	out := make(map[string]any)
	for p.pos < len(p.lines) {
		line := p.current()
		if line.blank {
			p.pos++
			continue
		}
		if line.depth < depth {
			break
		}
		if line.depth > depth {
			return nil, errAt(ErrLayout, line.number, "line is indented more than its parent expects")
		}

		hdr, isHeader, err := parseHeaderLine(line.content)
		if err != nil {
			return nil, wrapAt(ErrGrammar, line.number, err)
		}
		if isHeader {
			if hdr.key == "" {
				return nil, errAt(ErrGrammar, line.number, "an array inside an object must be declared with a key")
			}
			p.pos++
			v, err := p.parseArray(hdr, depth)
			if err != nil {
				return nil, err
			}
			out[hdr.key] = v
			continue
		}

		key, rest, err := splitKeyValue(line.content)
		if err != nil {
			return nil, wrapAt(ErrGrammar, line.number, err)
		}
		p.pos++
		if rest == "" {
			nested, err := p.parseObject(depth + 1)
			if err != nil {
				return nil, err
			}
			out[key] = nested
			continue
		}
		v, err := decodeScalarToken(rest)
		if err != nil {
			return nil, wrapAt(ErrGrammar, line.number, err)
		}
		out[key] = v
	}
	return out, nil
}

// parseArray decodes the body of an array header at depth: inline (tail
// already captured on the header line), tabular (header carries fields),
// or a list of "- " items.
func (p *parser) parseArray(hdr arrayHeader, depth int) (any, error) {
	delim := hdr.delimiter.rune()

	switch {
	case len(hdr.fields) > 0:
		return p.parseTabularArray(hdr, depth, delim)
	case hdr.inlineTail != "":
		return p.parseInlineArray(hdr, delim)
	default:
		// No fields and no inline tail: either a genuine list array or an
		// empty array (header-only, or header followed by a space and an
		// empty tail) — both forms fall through to the list parser, which
		// simply finds zero "- " items in the empty case.
		return p.parseListArray(hdr, depth)
	}
}

func (p *parser) parseInlineArray(hdr arrayHeader, delim rune) (any, error) {
	line := p.lines[p.pos-1]
	tokens, err := syntax.SplitOutsideQuotes(hdr.inlineTail, delim)
	if err != nil {
		return nil, wrapAt(ErrGrammar, line.number, err)
	}
	values := make([]any, 0, len(tokens))
	for _, tok := range tokens {
		v, err := decodeScalarToken(tok)
		if err != nil {
			return nil, wrapAt(ErrGrammar, line.number, err)
		}
		values = append(values, v)
	}
	if p.cfg.strict && len(values) != hdr.length {
		return nil, errAtf(ErrCount, line.number, "inline array declared length %d but found %d values", hdr.length, len(values))
	}
	return values, nil
}

func (p *parser) parseTabularArray(hdr arrayHeader, depth int, delim rune) (any, error) {
	rows := make([]any, 0, hdr.length)
	var lastLine sourceLine
	for p.pos < len(p.lines) {
		line := p.current()
		if line.blank {
			if p.cfg.strict {
				if nextDepth, ok := p.nextNonBlankDepth(p.pos); !ok || nextDepth <= depth {
					break
				}
				return nil, errAt(ErrLayout, line.number, "blank line inside tabular array body (strict mode)")
			}
			p.pos++
			continue
		}
		if line.depth <= depth {
			break
		}
		if line.depth != depth+1 {
			return nil, errAt(ErrLayout, line.number, "tabular row is not indented exactly one level below its header")
		}
		trimmed := strings.TrimSpace(line.content)
		if syntax.IndexOutsideQuotes(trimmed, ':') != -1 {
			break
		}
		p.pos++
		lastLine = line
		cells, err := syntax.SplitOutsideQuotes(trimmed, delim)
		if err != nil {
			return nil, wrapAt(ErrGrammar, line.number, err)
		}
		if p.cfg.strict && len(cells) != len(hdr.fields) {
			return nil, errAtf(ErrCount, line.number, "tabular row has %d values but header declares %d fields", len(cells), len(hdr.fields))
		}
		row := make(map[string]any, len(hdr.fields))
		for i, field := range hdr.fields {
			if i >= len(cells) {
				break
			}
			v, err := decodeScalarToken(cells[i])
			if err != nil {
				return nil, wrapAt(ErrGrammar, line.number, err)
			}
			row[field] = v
		}
		rows = append(rows, row)
		if p.cfg.strict && len(rows) > hdr.length {
			return nil, errAtf(ErrCount, line.number, "tabular array declared length %d but has more rows", hdr.length)
		}
	}
	if p.cfg.strict && len(rows) != hdr.length {
		return nil, errAtf(ErrCount, lastLine.number, "tabular array declared length %d but found %d rows", hdr.length, len(rows))
	}
	return rows, nil
}

func (p *parser) parseListArray(hdr arrayHeader, depth int) (any, error) {
	values := make([]any, 0, hdr.length)
	var lastLine sourceLine
	for p.pos < len(p.lines) {
		line := p.current()
		if line.blank {
			if p.cfg.strict {
				if nextDepth, ok := p.nextNonBlankDepth(p.pos); !ok || nextDepth <= depth {
					break
				}
				return nil, errAt(ErrLayout, line.number, "blank line inside list array body (strict mode)")
			}
			p.pos++
			continue
		}
		if line.depth <= depth {
			break
		}
		if line.depth != depth+1 {
			return nil, errAt(ErrLayout, line.number, "list item is not indented exactly one level below its header")
		}
		if !strings.HasPrefix(line.content, "-") {
			break
		}
		item := strings.TrimSpace(line.content[1:])
		p.pos++
		lastLine = line

		v, err := p.parseListItemBody(item, line, depth)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if p.cfg.strict && len(values) != hdr.length {
		return nil, errAtf(ErrCount, lastLine.number, "array declared length %d but found %d items", hdr.length, len(values))
	}
	return values, nil
}

// parseListItemBody dispatches the content following "- " on a list item
// line: an empty item is {}, a header starts a nested array, a key/value
// pair starts an (possibly multi-field) object, else it is a scalar.
func (p *parser) parseListItemBody(item string, line sourceLine, depth int) (any, error) {
	if item == "" {
		return map[string]any{}, nil
	}

	if hdr, isHeader, err := parseHeaderLine(item); err != nil {
		return nil, wrapAt(ErrGrammar, line.number, err)
	} else if isHeader {
		if hdr.key == "" {
			v, err := p.parseArray(hdr, depth+1)
			if err != nil {
				return nil, err
			}
			return v, nil
		}
		arr, err := p.parseArray(hdr, depth+1)
		if err != nil {
			return nil, err
		}
		obj := map[string]any{hdr.key: arr}
		if err := p.collectSiblingFields(obj, depth); err != nil {
			return nil, err
		}
		return obj, nil
	}

	if looksLikeKeyValue(item) {
		key, rest, err := splitKeyValue(item)
		if err != nil {
			return nil, wrapAt(ErrGrammar, line.number, err)
		}
		if rest == "" {
			nested, err := p.parseObject(depth + 3)
			if err != nil {
				return nil, err
			}
			obj := map[string]any{key: nested}
			if err := p.collectSiblingFields(obj, depth); err != nil {
				return nil, err
			}
			return obj, nil
		}
		v, err := decodeScalarToken(rest)
		if err != nil {
			return nil, wrapAt(ErrGrammar, line.number, err)
		}
		obj := map[string]any{key: v}
		if err := p.collectSiblingFields(obj, depth); err != nil {
			return nil, err
		}
		return obj, nil
	}

	return decodeScalarToken(item)
}

// collectSiblingFields gathers the indented fields that follow the first
// inline field of an object list item ("- key: value" at depth+1, further
// fields at depth+2).
func (p *parser) collectSiblingFields(obj map[string]any, depth int) error {
	for p.pos < len(p.lines) {
		next := p.current()
		if next.blank {
			if p.cfg.strict {
				if nextDepth, ok := p.nextNonBlankDepth(p.pos); !ok || nextDepth <= depth+1 {
					break
				}
				return errAt(ErrLayout, next.number, "blank line inside an object list item (strict mode)")
			}
			p.pos++
			continue
		}
		if next.depth <= depth+1 {
			break
		}
		if next.depth != depth+2 {
			return errAt(ErrLayout, next.number, "object list item field is not indented exactly one level below the item")
		}
		if hdr, isHeader, err := parseHeaderLine(next.content); err != nil {
			return wrapAt(ErrGrammar, next.number, err)
		} else if isHeader {
			if hdr.key == "" {
				return errAt(ErrGrammar, next.number, "an array inside an object must be declared with a key")
			}
			p.pos++
			v, err := p.parseArray(hdr, depth+1)
			if err != nil {
				return err
			}
			obj[hdr.key] = v
			continue
		}
		key, rest, err := splitKeyValue(next.content)
		if err != nil {
			return wrapAt(ErrGrammar, next.number, err)
		}
		p.pos++
		if rest == "" {
			nested, err := p.parseObject(depth + 3)
			if err != nil {
				return err
			}
			obj[key] = nested
			continue
		}
		v, err := decodeScalarToken(rest)
		if err != nil {
			return wrapAt(ErrGrammar, next.number, err)
		}
		obj[key] = v
	}
	return nil
}

// arrayHeader is the parsed form of an array header line: "[key]['#'N[delim]]{fields}:".
type arrayHeader struct {
	key        string
	length     int
	delimiter  Delimiter
	fields     []string
	inlineTail string
}

// parseHeaderLine recognizes an array header by locating an unquoted '['
// before the line's first unquoted ':'. Anything after the ':' is the
// inline tail, consumed verbatim by the caller if the array turns out to
// be an inline primitive array.
func parseHeaderLine(content string) (arrayHeader, bool, error) {
	colon := syntax.IndexOutsideQuotes(content, ':')
	if colon == -1 {
		return arrayHeader{}, false, nil
	}
	left := strings.TrimSpace(content[:colon])
	right := strings.TrimSpace(content[colon+1:])
	if left == "" {
		return arrayHeader{}, false, nil
	}

	open := syntax.IndexOutsideQuotes(left, '[')
	if open == -1 {
		return arrayHeader{}, false, nil
	}
	rest := left[open+1:]
	closeOff := syntax.IndexOutsideQuotes(rest, ']')
	if closeOff == -1 {
		return arrayHeader{}, false, errAt(ErrGrammar, 0, "array header is missing its closing ']'")
	}

	keyPart := strings.TrimSpace(left[:open])
	bracket := rest[:closeOff]
	fieldPart := strings.TrimSpace(rest[closeOff+1:])

	hdr := arrayHeader{delimiter: DelimiterComma}
	if keyPart != "" {
		key, err := decodeKeyToken(keyPart)
		if err != nil {
			return arrayHeader{}, false, err
		}
		hdr.key = key
	}

	length, delim, err := parseLengthBracket(bracket)
	if err != nil {
		return arrayHeader{}, false, err
	}
	hdr.length = length
	hdr.delimiter = delim

	if fieldPart != "" {
		if !strings.HasPrefix(fieldPart, "{") || !strings.HasSuffix(fieldPart, "}") {
			return arrayHeader{}, false, errAt(ErrGrammar, 0, "expected '{field,...}' after array length")
		}
		inner := fieldPart[1 : len(fieldPart)-1]
		if inner != "" {
			raw, err := syntax.SplitOutsideQuotes(inner, delim.rune())
			if err != nil {
				return arrayHeader{}, false, err
			}
			fields := make([]string, 0, len(raw))
			for _, tok := range raw {
				f, err := decodeKeyToken(tok)
				if err != nil {
					return arrayHeader{}, false, err
				}
				fields = append(fields, f)
			}
			hdr.fields = fields
		}
	}

	hdr.inlineTail = right
	return hdr, true, nil
}

// parseLengthBracket parses the "['#']N[delim]" body between the header's
// brackets. '#' is accepted but carries no semantic meaning. A trailing
// tab or pipe switches the delimiter; its absence means comma.
func parseLengthBracket(segment string) (int, Delimiter, error) {
	if strings.HasPrefix(segment, "#") {
		segment = segment[1:]
	}
	if segment == "" {
		return 0, DelimiterComma, errAt(ErrGrammar, 0, "array header is missing its length")
	}
	var digits strings.Builder
	delim := DelimiterComma
	for _, r := range segment {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
			continue
		}
		switch r {
		case '\t':
			delim = DelimiterTab
		case '|':
			delim = DelimiterPipe
		default:
			return 0, DelimiterComma, errAtf(ErrGrammar, 0, "invalid character %q in array header length", r)
		}
	}
	if digits.Len() == 0 {
		return 0, DelimiterComma, errAt(ErrGrammar, 0, "array header length has no digits")
	}
	length, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, DelimiterComma, wrapAt(ErrGrammar, 0, err)
	}
	return length, delim, nil
}

func splitKeyValue(content string) (string, string, error) {
	colon := syntax.IndexOutsideQuotes(content, ':')
	if colon == -1 {
		return "", "", errAt(ErrGrammar, 0, "expected ':' after key")
	}
	key, err := decodeKeyToken(strings.TrimSpace(content[:colon]))
	if err != nil {
		return "", "", err
	}
	return key, strings.TrimSpace(content[colon+1:]), nil
}

func decodeKeyToken(token string) (string, error) {
	if token == "" {
		return "", errAt(ErrGrammar, 0, "key must not be empty")
	}
	if token[0] == '"' {
		return syntax.Unquote(token)
	}
	if !syntax.IsValidUnquotedKey(token) {
		return "", errAtf(ErrGrammar, 0, "%q is not a valid unquoted key", token)
	}
	return token, nil
}

// decodeScalarToken parses one primitive token per the tokenization rules:
// quoted string, true/false/null, a numeric literal, or a bare string
// (including digit runs with forbidden leading zeros, which stay strings).
func decodeScalarToken(token string) (any, error) {
	if token == "" {
		return "", nil
	}
	if token[0] == '"' {
		return syntax.Unquote(token)
	}
	switch token {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null":
		return nil, nil
	}
	if hasForbiddenLeadingZero(token) {
		return token, nil
	}
	if syntax.LooksNumeric(token) {
		n, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return nil, wrapAt(ErrGrammar, 0, err)
		}
		return n, nil
	}
	return token, nil
}

func hasForbiddenLeadingZero(token string) bool {
	start := 0
	if strings.HasPrefix(token, "-") {
		start = 1
	}
	if len(token)-start < 2 {
		return false
	}
	if strings.ContainsAny(token, ".eE") {
		return false
	}
	return token[start] == '0' && unicode.IsDigit(rune(token[start+1]))
}

func looksLikeKeyValue(content string) bool {
	return syntax.IndexOutsideQuotes(content, ':') > 0
}
