package toon_test

import (
	"strings"
	"testing"

	"github.com/ideafoundry/toon"
)

func TestDecodeScalarAndRootArray(t *testing.T) {
	votes, err := toon.DecodeString("17")
	if err != nil {
		t.Fatalf("DecodeString: %v", err)
	}
	if votes.(float64) != 17 {
		t.Fatalf("expected 17, got %v", votes)
	}

	scores, err := toon.DecodeString("[3]: 4,5,6")
	if err != nil {
		t.Fatalf("DecodeString: %v", err)
	}
	slice := scores.([]any)
	if len(slice) != 3 || slice[0].(float64) != 4 || slice[2].(float64) != 6 {
		t.Fatalf("unexpected root array: %#v", slice)
	}
}

func TestDecodeStrictModeRejections(t *testing.T) {
	cases := map[string]string{
		"declared length exceeds actual values": "votes[3]: 1,2",
		"child indented past grandchild":        "board:\n  name:\n   kitchen remodel",
		"blank line inside a list array":        "ideas[2]:\n  - ready\n\n  - shipped",
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := toon.DecodeString(doc); err == nil {
				t.Fatalf("expected a strict-mode error decoding %q", doc)
			}
		})
	}
}

func TestDecodePermissiveToleratesLengthMismatch(t *testing.T) {
	doc := "votes[2]: 1,2,3"
	if _, err := toon.DecodeString(doc, toon.WithStrictMode(false)); err != nil {
		t.Fatalf("permissive decode failed: %v", err)
	}
}

func TestDecodeDocumentDelimiterOptionIsANoOp(t *testing.T) {
	// WithDecoderDocumentDelimiter exists purely for option-profile
	// symmetry with the encoder (see options.go) — TOON's grammar never
	// splits a delimiter outside an array scope, so nothing about a
	// decode actually changes based on this setting. Assert that
	// directly: the same document decodes identically with and without it.
	doc := strings.Join([]string{
		"ideas[2]:",
		"  - title: fix|leak",
		"  - title: repaint|fence",
	}, "\n")

	withoutOption := decodeMap(t, doc)
	withOption := decodeMap(t, doc, toon.WithDecoderDocumentDelimiter(toon.DelimiterPipe))

	first := withoutOption["ideas"].([]any)[0].(map[string]any)
	second := withOption["ideas"].([]any)[0].(map[string]any)
	if first["title"] != second["title"] || first["title"] != "fix|leak" {
		t.Fatalf("document delimiter option changed decode output: %#v vs %#v", first, second)
	}
}

func TestDecoderTabIndentOption(t *testing.T) {
	doc := strings.Join([]string{
		"ideas[1]:",
		"\t- repaint fence",
	}, "\n")

	if _, err := toon.DecodeString(doc); err == nil {
		t.Fatalf("expected strict mode to reject tab indentation")
	}

	if _, err := toon.DecodeString(doc, toon.WithStrictMode(false), toon.WithDecoderIndent(1)); err != nil {
		t.Fatalf("permissive decode with 1-space indent unit failed: %v", err)
	}
}

func TestDecodeIntoStructSkipsUnknownKeys(t *testing.T) {
	type idea struct {
		Title string `toon:"title"`
	}
	doc := "title: repaint fence\nsponsor: facilities"
	decoded := decodeInto[idea](t, doc)
	if decoded.Title != "repaint fence" {
		t.Fatalf("Title = %q, want %q", decoded.Title, "repaint fence")
	}
}
