package toon_test

import (
	"errors"
	"testing"

	"github.com/ideafoundry/toon"
)

func TestUnmarshalNilTarget(t *testing.T) {
	err := toon.Unmarshal(nil, nil)
	if err == nil {
		t.Fatalf("expected error for nil target")
	}
}

func TestUnmarshalNonPointer(t *testing.T) {
	var value map[string]any
	err := toon.Unmarshal([]byte("foo: bar"), value)
	if err == nil {
		t.Fatalf("expected error for non-pointer target")
	}
}

func TestDecodeInvalidKey(t *testing.T) {
	doc := "1invalid: value"
	if _, err := toon.DecodeString(doc); err == nil {
		t.Fatalf("expected invalid key error")
	}
}

func TestDecodeInvalidQuotedString(t *testing.T) {
	doc := "name: \"unterminated"
	if _, err := toon.DecodeString(doc); err == nil {
		t.Fatalf("expected quoted string error")
	}
}

func TestDecodeEmptyDocumentIsAnInputError(t *testing.T) {
	_, err := toon.DecodeString("")
	if err == nil {
		t.Fatalf("expected error for empty document")
	}
	var ce *toon.CodecError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *toon.CodecError, got %T", err)
	}
	if ce.Kind != toon.ErrInput {
		t.Fatalf("expected ErrInput, got %v", ce.Kind)
	}
}

func TestDecodeErrorKindCount(t *testing.T) {
	_, err := toon.DecodeString("items[2]: 1")
	var ce *toon.CodecError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *toon.CodecError, got %T", err)
	}
	if ce.Kind != toon.ErrCount {
		t.Fatalf("expected ErrCount, got %v", ce.Kind)
	}
}

func TestDecodeErrorKindLayout(t *testing.T) {
	doc := "key:\n  child:\n   grand: value"
	_, err := toon.DecodeString(doc)
	var ce *toon.CodecError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *toon.CodecError, got %T", err)
	}
	if ce.Kind != toon.ErrLayout {
		t.Fatalf("expected ErrLayout, got %v", ce.Kind)
	}
	if ce.Line == 0 {
		t.Fatalf("expected a non-zero line number, got 0")
	}
}
