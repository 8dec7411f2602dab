package toon_test

import (
	"strings"
	"testing"

	"github.com/ideafoundry/toon"
)

// decodeMap decodes doc and requires the root to be an object.
func decodeMap(t *testing.T, doc string, opts ...toon.DecoderOption) map[string]any {
	t.Helper()
	value, err := toon.DecodeString(doc, opts...)
	if err != nil {
		t.Fatalf("DecodeString(%q): %v", doc, err)
	}
	root, ok := value.(map[string]any)
	if !ok {
		t.Fatalf("expected a map root, got %T (%#v)", value, value)
	}
	return root
}

// decodeInto unmarshals doc into a fresh *T and returns it, failing the
// test on any decode or binding error.
func decodeInto[T any](t *testing.T, doc string, opts ...toon.DecoderOption) *T {
	t.Helper()
	var v T
	if err := toon.UnmarshalString(doc, &v, opts...); err != nil {
		t.Fatalf("UnmarshalString(%q): %v", doc, err)
	}
	return &v
}

// containsLine reports whether target appears verbatim among lines.
func containsLine(lines []string, target string) bool {
	for _, line := range lines {
		if line == target {
			return true
		}
	}
	return false
}

// expectLines asserts doc splits into exactly want, line for line.
func expectLines(t *testing.T, doc string, want ...string) {
	t.Helper()
	got := strings.Split(doc, "\n")
	if len(got) != len(want) {
		t.Fatalf("line count: got %d, want %d\n--- got ---\n%s\n--- want ---\n%s",
			len(got), len(want), doc, strings.Join(want, "\n"))
	}
	for i, line := range want {
		if got[i] != line {
			t.Fatalf("line %d: got %q, want %q\nfull document:\n%s", i+1, got[i], line, doc)
		}
	}
}
