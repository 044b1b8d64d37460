package notion

import (
	"reflect"
	"testing"
)

func floatPtr(value float64) *float64 {
	return &value
}

func stringPtr(value string) *string {
	return &value
}

func TestTitleJoinsSegments(t *testing.T) {
	prop := PropertyValue{
		Type: PropertyTypeTitle,
		Title: []RichTextSegment{
			{Text: &TextContent{Content: "Acme "}},
			{PlainText: "Deal"},
		},
	}
	if got := Title(&prop); got != "Acme Deal" {
		t.Fatalf("expected joined title, got %q", got)
	}
}

func TestTitleDegradesOnWrongVariant(t *testing.T) {
	prop := NewNumber(floatPtr(3))
	if got := Title(&prop); got != "" {
		t.Fatalf("expected empty title for number property, got %q", got)
	}
	if got := Title(nil); got != "" {
		t.Fatalf("expected empty title for missing property, got %q", got)
	}
}

func TestTextPrefersContentOverPlainText(t *testing.T) {
	prop := PropertyValue{
		Type: PropertyTypeRichText,
		RichText: []RichTextSegment{
			{Text: &TextContent{Content: "written"}, PlainText: "rendered"},
		},
	}
	if got := Text(&prop); got != "written" {
		t.Fatalf("expected text content to win, got %q", got)
	}
}

func TestNumberDegradesToNil(t *testing.T) {
	prop := NewText("not a number")
	if got := Number(&prop); got != nil {
		t.Fatalf("expected nil for text property, got %v", *got)
	}
	numeric := NewNumber(floatPtr(12.5))
	got := Number(&numeric)
	if got == nil || *got != 12.5 {
		t.Fatalf("expected 12.5, got %v", got)
	}
}

func TestSelectNilOnEmptyName(t *testing.T) {
	prop := PropertyValue{Type: PropertyTypeSelect, Select: &SelectOption{Name: ""}}
	if got := Select(&prop); got != nil {
		t.Fatalf("expected nil for empty option name, got %q", *got)
	}
	chosen := NewSelect(stringPtr("ACTIVE"))
	got := Select(&chosen)
	if got == nil || *got != "ACTIVE" {
		t.Fatalf("expected ACTIVE, got %v", got)
	}
}

func TestMultiSelectDropsEmptyNames(t *testing.T) {
	prop := PropertyValue{
		Type: PropertyTypeMultiSelect,
		MultiSelect: []SelectOption{
			{Name: "US"},
			{Name: ""},
			{Name: "CA"},
		},
	}
	got := MultiSelect(&prop)
	if !reflect.DeepEqual(got, []string{"US", "CA"}) {
		t.Fatalf("unexpected multi_select values: %v", got)
	}
	if empty := MultiSelect(nil); len(empty) != 0 {
		t.Fatalf("expected empty slice for missing property, got %v", empty)
	}
}

func TestDateReturnsStart(t *testing.T) {
	prop := NewDate(stringPtr("2026-01-15"))
	got := Date(&prop)
	if got == nil || *got != "2026-01-15" {
		t.Fatalf("expected start date, got %v", got)
	}
	unset := NewDate(nil)
	if got := Date(&unset); got != nil {
		t.Fatalf("expected nil for unset date, got %q", *got)
	}
}

func TestCheckboxDefaultsFalse(t *testing.T) {
	prop := NewCheckbox(true)
	if !Checkbox(&prop) {
		t.Fatalf("expected true")
	}
	text := NewText("yes")
	if Checkbox(&text) {
		t.Fatalf("expected false for wrong variant")
	}
}

func TestRelationDropsEmptyIDs(t *testing.T) {
	prop := PropertyValue{
		Type:     PropertyTypeRelation,
		Relation: []RelationRef{{ID: "page-1"}, {ID: ""}, {ID: "page-2"}},
	}
	got := Relation(&prop)
	if !reflect.DeepEqual(got, []string{"page-1", "page-2"}) {
		t.Fatalf("unexpected relation ids: %v", got)
	}
}

func TestFormulaDispatch(t *testing.T) {
	cases := []struct {
		name    string
		formula FormulaValue
		want    any
	}{
		{"string", FormulaValue{Type: "string", String: stringPtr("computed")}, "computed"},
		{"number", FormulaValue{Type: "number", Number: floatPtr(42)}, float64(42)},
		{"boolean", FormulaValue{Type: "boolean", Boolean: func() *bool { b := true; return &b }()}, true},
		{"date", FormulaValue{Type: "date", Date: &DateValue{Start: "2026-02-01"}}, "2026-02-01"},
		{"unknown", FormulaValue{Type: "relation"}, nil},
		{"empty string payload", FormulaValue{Type: "string"}, nil},
	}
	for _, testCase := range cases {
		prop := PropertyValue{Type: PropertyTypeFormula, Formula: &testCase.formula}
		got := Formula(&prop)
		if !reflect.DeepEqual(got, testCase.want) {
			t.Fatalf("%s: expected %v, got %v", testCase.name, testCase.want, got)
		}
	}
}

func TestRollupArrayYieldsRelationIDs(t *testing.T) {
	prop := PropertyValue{
		Type: PropertyTypeRollup,
		Rollup: &RollupValue{
			Type: "array",
			Array: []PropertyValue{
				{Type: PropertyTypeRelation, Relation: []RelationRef{{ID: "rel-1"}}},
				{Type: PropertyTypeNumber, Number: floatPtr(9)},
				{Type: PropertyTypeRelation, Relation: []RelationRef{{ID: "rel-2"}}},
			},
		},
	}
	got := Rollup(&prop)
	if !reflect.DeepEqual(got, []string{"rel-1", "rel-2"}) {
		t.Fatalf("expected relation ids, got %v", got)
	}
}

func TestRollupNumberAndDate(t *testing.T) {
	number := PropertyValue{Type: PropertyTypeRollup, Rollup: &RollupValue{Type: "number", Number: floatPtr(7)}}
	if got := Rollup(&number); got != float64(7) {
		t.Fatalf("expected 7, got %v", got)
	}
	date := PropertyValue{Type: PropertyTypeRollup, Rollup: &RollupValue{Type: "date", Date: &DateValue{Start: "2026-03-01"}}}
	if got := Rollup(&date); got != "2026-03-01" {
		t.Fatalf("expected date string, got %v", got)
	}
	if got := Rollup(nil); got != nil {
		t.Fatalf("expected nil for missing property, got %v", got)
	}
}

func TestNumericArrayFromRollup(t *testing.T) {
	prop := PropertyValue{
		Type: PropertyTypeRollup,
		Rollup: &RollupValue{
			Type: "array",
			Array: []PropertyValue{
				{Type: PropertyTypeNumber, Number: floatPtr(100)},
				{Type: PropertyTypeRichText, RichText: []RichTextSegment{{Text: &TextContent{Content: "min 250 max 500"}}}},
			},
		},
	}
	got := NumericArray(&prop)
	if !reflect.DeepEqual(got, []float64{100, 250, 500}) {
		t.Fatalf("unexpected numeric array: %v", got)
	}
}

func TestNumericArrayFromText(t *testing.T) {
	jsonArray := NewText(`[10, "20.5", 30]`)
	if got := NumericArray(&jsonArray); !reflect.DeepEqual(got, []float64{10, 20.5, 30}) {
		t.Fatalf("unexpected values from json array: %v", got)
	}
	embedded := NewText("payout $150.25 up to $300")
	if got := NumericArray(&embedded); !reflect.DeepEqual(got, []float64{150.25, 300}) {
		t.Fatalf("unexpected values from embedded text: %v", got)
	}
	plain := NewText("no numbers here")
	if got := NumericArray(&plain); got != nil {
		t.Fatalf("expected nil for non-numeric text, got %v", got)
	}
}

func TestNumericStringFormatsFirstValue(t *testing.T) {
	prop := NewNumber(floatPtr(12.5))
	got := NumericString(&prop)
	if got == nil || *got != "12.5" {
		t.Fatalf("expected \"12.5\", got %v", got)
	}
	whole := NewNumber(floatPtr(40))
	got = NumericString(&whole)
	if got == nil || *got != "40" {
		t.Fatalf("expected \"40\" without trailing zeros, got %v", got)
	}
	if got := NumericString(nil); got != nil {
		t.Fatalf("expected nil for missing property, got %q", *got)
	}
}

func TestNumericStringKeepsTextVerbatim(t *testing.T) {
	prop := NewText("fee is 10.50 per lead")
	got := NumericString(&prop)
	if got == nil || *got != "10.50" {
		t.Fatalf("text match must keep its stored form, got %v", got)
	}
	empty := NewText("no figures")
	if got := NumericString(&empty); got != nil {
		t.Fatalf("expected nil for non-numeric text, got %q", *got)
	}
}
