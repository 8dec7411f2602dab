package toon_test

import (
	"math"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ideafoundry/toon"
)

func TestMarshalScalarRoot(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{in: "folding bike rack", want: "folding bike rack"},
		{in: 42, want: "42"},
		{in: true, want: "true"},
		{in: nil, want: "null"},
	}
	for _, tc := range cases {
		doc, err := toon.MarshalString(tc.in)
		if err != nil {
			t.Fatalf("MarshalString(%#v): %v", tc.in, err)
		}
		if doc != tc.want {
			t.Fatalf("MarshalString(%#v) = %q, want %q", tc.in, doc, tc.want)
		}
	}
}

func TestMarshalNormalizedFields(t *testing.T) {
	type submission struct {
		SubmittedAt time.Time `toon:"submitted_at"`
		Score       float64   `toon:"score"`
		Upvotes     *big.Int  `toon:"upvotes"`
	}

	payload := submission{
		SubmittedAt: time.Date(2025, 10, 31, 12, 0, 0, 0, time.UTC),
		Score:       math.NaN(),
		Upvotes:     big.NewInt(0).Exp(big.NewInt(10), big.NewInt(6), nil),
	}

	doc, err := toon.MarshalString(payload)
	if err != nil {
		t.Fatalf("MarshalString: %v", err)
	}

	lines := strings.Split(doc, "\n")
	for _, want := range []string{
		`submitted_at: "2025-10-31T12:00:00Z"`,
		"score: null",
		"upvotes: 1000000",
	} {
		if !containsLine(lines, want) {
			t.Fatalf("missing line %q in:\n%s", want, doc)
		}
	}
}

func TestMarshalIntegerPrecisionBoundary(t *testing.T) {
	payload := map[string]any{
		"within_safe_range": int64(9007199254740991),
		"past_safe_range":   int64(9007199254740993),
		"far_past_range":    big.NewInt(0).Exp(big.NewInt(10), big.NewInt(18), nil),
	}

	doc, err := toon.MarshalString(payload)
	if err != nil {
		t.Fatalf("MarshalString: %v", err)
	}

	lines := strings.Split(doc, "\n")
	if !containsLine(lines, "within_safe_range: 9007199254740991") {
		t.Fatalf("safe integer should remain bare: %v", lines)
	}
	if !containsLine(lines, `past_safe_range: "9007199254740993"`) {
		t.Fatalf("past-range integer should be quoted: %v", lines)
	}
	if !containsLine(lines, `far_past_range: "1000000000000000000"`) {
		t.Fatalf("far-past-range integer should be quoted: %v", lines)
	}

	root := decodeMap(t, doc)
	if root["past_safe_range"] != "9007199254740993" {
		t.Fatalf("past_safe_range decode mismatch: %#v", root["past_safe_range"])
	}
}

func TestMarshalIntegerPrecisionIntoTypedField(t *testing.T) {
	// Exercises the exact-decimal parse path in assign.go: a quoted,
	// past-safe-range integer must bind into an int64 field without
	// losing precision to a float64 round trip.
	type counter struct {
		PastSafeRange int64 `toon:"past_safe_range"`
	}

	doc := `past_safe_range: "9007199254740993"`
	decoded := decodeInto[counter](t, doc)
	if decoded.PastSafeRange != 9007199254740993 {
		t.Fatalf("PastSafeRange = %d, want 9007199254740993", decoded.PastSafeRange)
	}
}

func TestMarshalWithObjectHelper(t *testing.T) {
	doc, err := toon.MarshalString(toon.NewObject(
		toon.Field{Key: "board", Value: "kitchen-remodel"},
		toon.Field{Key: "open", Value: true},
	))
	if err != nil {
		t.Fatalf("MarshalString: %v", err)
	}
	expectLines(t, doc,
		"board: kitchen-remodel",
		"open: true",
	)
}

func TestMarshalCustomTimeFormatter(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC)
	doc, err := toon.MarshalString(
		map[string]any{"submitted_at": ts},
		toon.WithTimeFormatter(func(t time.Time) string { return t.Format(time.RFC822) }),
	)
	if err != nil {
		t.Fatalf("MarshalString: %v", err)
	}
	if !containsLine(strings.Split(doc, "\n"), `submitted_at: "02 Jan 24 03:04 UTC"`) {
		t.Fatalf("custom time formatter not applied: %s", doc)
	}
}

func TestUnmarshalTimeRoundTrip(t *testing.T) {
	// Exercises the encoding.TextUnmarshaler hook in assign.go: time.Time
	// binds directly from the quoted scalar normalize.go already produces
	// for it, with no struct-destination special case needed.
	type event struct {
		SubmittedAt time.Time `toon:"submitted_at"`
	}
	original := event{SubmittedAt: time.Date(2025, 10, 31, 12, 0, 0, 0, time.UTC)}

	doc, err := toon.MarshalString(original)
	if err != nil {
		t.Fatalf("MarshalString: %v", err)
	}
	decoded := decodeInto[event](t, doc)
	if !decoded.SubmittedAt.Equal(original.SubmittedAt) {
		t.Fatalf("SubmittedAt = %v, want %v", decoded.SubmittedAt, original.SubmittedAt)
	}
}

func TestMarshalWithIndentOption(t *testing.T) {
	payload := map[string]any{
		"board": map[string]any{
			"votes": []int{3, 5},
		},
	}
	doc, err := toon.MarshalString(payload, toon.WithIndent(4))
	if err != nil {
		t.Fatalf("MarshalString: %v", err)
	}
	expectLines(t, doc,
		"board:",
		"    votes[2]: 3,5",
	)
}

type categoryID string

func (c categoryID) String() string { return string(c) }

func TestStringerNormalization(t *testing.T) {
	val := struct {
		Category categoryID `toon:"category"`
	}{Category: categoryID("infrastructure")}

	doc, err := toon.MarshalString(val)
	if err != nil {
		t.Fatalf("MarshalString: %v", err)
	}
	expectLines(t, doc, "category: infrastructure")
}
