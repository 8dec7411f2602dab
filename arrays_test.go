package toon_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/ideafoundry/toon"
)

func TestMarshalTabularArrayRoundTrip(t *testing.T) {
	payload := ideaBoard{
		Users: []ideaRecord{
			{ID: 1, Name: "Ada", Active: true},
			{ID: 2, Name: "Bob", Active: false},
		},
		Count: 2,
	}

	doc, err := toon.MarshalString(payload)
	if err != nil {
		t.Fatalf("MarshalString: %v", err)
	}
	expectLines(t, doc,
		"users[2]{id,name,active}:",
		"  1,Ada,true",
		"  2,Bob,false",
		"count: 2",
	)

	decoded := decodeInto[ideaBoard](t, doc)
	if !reflect.DeepEqual(*decoded, payload) {
		t.Fatalf("round trip mismatch: got %#v, want %#v", *decoded, payload)
	}
}

func TestMarshalMixedArrayFallsBackToListForm(t *testing.T) {
	payload := mixedEnvelope{
		Events: []any{
			"ready",
			metricEvent{Type: "metric", Values: []int{1, 2, 3}},
			[]string{"nested", "list"},
		},
	}

	doc, err := toon.MarshalString(payload)
	if err != nil {
		t.Fatalf("MarshalString: %v", err)
	}
	expectLines(t, doc,
		"events[3]:",
		"  - ready",
		"  - type: metric",
		"    values[3]: 1,2,3",
		"  - [2]: nested,list",
	)
}

// TestMarshalHeterogeneousObjectsFallBackToListForm is not a teacher test:
// it pins down tabularFields' shape-equality rule directly, rather than
// only through the bare-scalar-plus-nested-array mix the teacher covers.
func TestMarshalHeterogeneousObjectsFallBackToListForm(t *testing.T) {
	payload := mixedEnvelope{
		Events: []any{
			heterogeneousRecord{Label: "alpha", Weight: 4},
			sparseRecord{Label: "beta", Note: "pending review"},
		},
	}

	doc, err := toon.MarshalString(payload)
	if err != nil {
		t.Fatalf("MarshalString: %v", err)
	}
	expectLines(t, doc,
		"events[2]:",
		"  - label: alpha",
		"    weight: 4",
		"  - label: beta",
		"    note: pending review",
	)
}

func TestMarshalDelimitersAndLengthMarkers(t *testing.T) {
	payload := ideaBoard{
		Users: []ideaRecord{{ID: 1, Name: "Ada", Active: true}},
		Count: 1,
	}

	doc, err := toon.MarshalString(payload,
		toon.WithDocumentDelimiter(toon.DelimiterPipe),
		toon.WithArrayDelimiter(toon.DelimiterPipe),
		toon.WithLengthMarkers(true),
	)
	if err != nil {
		t.Fatalf("MarshalString: %v", err)
	}
	expectLines(t, doc,
		"users[#1|]{id|name|active}:",
		"  1|Ada|true",
		"count: 1",
	)
}

func TestNestedDelimiterScopesApplyToEveryLevel(t *testing.T) {
	payload := bucketSet{
		Buckets: []bucket{
			{Values: []int{1, 2}, Label: "alpha"},
			{Values: []int{3, 4}, Label: "beta"},
		},
	}

	doc, err := toon.MarshalString(payload, toon.WithArrayDelimiter(toon.DelimiterPipe))
	if err != nil {
		t.Fatalf("MarshalString: %v", err)
	}
	expectLines(t, doc,
		"buckets[2|]:",
		"  - values[2|]: 1|2",
		"    label: alpha",
		"  - values[2|]: 3|4",
		"    label: beta",
	)

	var decoded bucketSet
	if err := toon.UnmarshalString(doc, &decoded); err != nil {
		t.Fatalf("UnmarshalString: %v", err)
	}
	if !reflect.DeepEqual(decoded, payload) {
		t.Fatalf("round trip mismatch: got %#v, want %#v", decoded, payload)
	}
}

func TestDecodeTabularArrayIntoMap(t *testing.T) {
	doc := strings.Join([]string{
		"users[2]{id,name,active}:",
		"  1,Ada,true",
		"  2,Bob,false",
		"count: 2",
	}, "\n")

	root := decodeMap(t, doc)
	if root["count"] != float64(2) {
		t.Fatalf("count mismatch: %v", root["count"])
	}
	users := root["users"].([]any)
	first := users[0].(map[string]any)
	if first["id"] != float64(1) || first["name"] != "Ada" || first["active"] != true {
		t.Fatalf("unexpected first user: %#v", first)
	}
}

func TestDecodeMixedArrayIntoTypedEnvelope(t *testing.T) {
	doc := strings.Join([]string{
		"events[2]:",
		"  - type: metric",
		"    values[3]: 1,2,3",
		"  - type: metric",
		"    values[2]: 4,5",
	}, "\n")

	envelope := decodeInto[typedEnvelope](t, doc)
	if len(envelope.Events) != 2 {
		t.Fatalf("events length = %d", len(envelope.Events))
	}
	if !reflect.DeepEqual(envelope.Events[0].Values, []int{1, 2, 3}) {
		t.Fatalf("unexpected first event values: %#v", envelope.Events[0].Values)
	}
	if envelope.Events[1].Values[1] != 5 {
		t.Fatalf("unexpected second event values: %#v", envelope.Events[1].Values)
	}
}

func TestRoundTripObjectListArrayFirstField(t *testing.T) {
	payload := bucketSet{
		Buckets: []bucket{
			{Values: []int{1, 2}, Label: "alpha"},
			{Values: []int{3, 4}, Label: "beta"},
		},
	}

	doc, err := toon.MarshalString(payload)
	if err != nil {
		t.Fatalf("MarshalString: %v", err)
	}
	expectLines(t, doc,
		"buckets[2]:",
		"  - values[2]: 1,2",
		"    label: alpha",
		"  - values[2]: 3,4",
		"    label: beta",
	)

	root := decodeMap(t, doc)
	buckets := root["buckets"].([]any)
	first := buckets[0].(map[string]any)
	vals := first["values"].([]any)
	if !reflect.DeepEqual(vals, []any{float64(1), float64(2)}) {
		t.Fatalf("unexpected values: %#v", vals)
	}
}
