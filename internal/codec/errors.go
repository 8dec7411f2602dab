package codec

import "fmt"

// ErrorKind classifies a decode error per the error-handling design: an
// input problem, a grammar violation, a strict-mode count mismatch, or a
// strict-mode layout irregularity. Encode does not produce CodecError;
// unsupported Go values during normalization surface as plain errors from
// fmt.Errorf, since they are programmer errors rather than document
// defects.
type ErrorKind int

const (
	// ErrInput covers malformed top-level input, such as an empty document.
	ErrInput ErrorKind = iota
	// ErrGrammar covers structural violations: missing colons, unbalanced
	// brackets, invalid escapes, unterminated strings.
	ErrGrammar
	// ErrCount covers strict-mode header/body length mismatches.
	ErrCount
	// ErrLayout covers strict-mode indentation and blank-line violations.
	ErrLayout
)

func (k ErrorKind) String() string {
	switch k {
	case ErrInput:
		return "input"
	case ErrGrammar:
		return "grammar"
	case ErrCount:
		return "count"
	case ErrLayout:
		return "layout"
	default:
		return "unknown"
	}
}

// CodecError is the concrete error type returned by Decode on a malformed
// document. Line is 1-based and zero when no specific line applies (e.g.
// an empty-input error).
type CodecError struct {
	Kind ErrorKind
	Line int
	Msg  string
}

func (e *CodecError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("toon: line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("toon: %s", e.Msg)
}

func errAt(kind ErrorKind, line int, msg string) error {
	return &CodecError{Kind: kind, Line: line, Msg: msg}
}

func errAtf(kind ErrorKind, line int, format string, args ...any) error {
	return &CodecError{Kind: kind, Line: line, Msg: fmt.Sprintf(format, args...)}
}

// wrapAt attaches a line number to err. If err is already a *CodecError
// carrying its own line number (set by a caller closer to the actual
// line), that line is kept; a *CodecError built with no line number yet
// (the common case for header/key parsing helpers, which don't see line
// numbers) is stamped with line. Any other error is wrapped fresh using
// kind and line.
func wrapAt(kind ErrorKind, line int, err error) error {
	if err == nil {
		return nil
	}
	if ce, ok := err.(*CodecError); ok {
		if ce.Line == 0 {
			ce.Line = line
		}
		return ce
	}
	return &CodecError{Kind: kind, Line: line, Msg: err.Error()}
}
