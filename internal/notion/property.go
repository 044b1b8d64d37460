package notion

import "time"

// PropertyType enumerates the workspace property variants this service reads.
type PropertyType string

const (
	PropertyTypeTitle       PropertyType = "title"
	PropertyTypeRichText    PropertyType = "rich_text"
	PropertyTypeNumber      PropertyType = "number"
	PropertyTypeSelect      PropertyType = "select"
	PropertyTypeMultiSelect PropertyType = "multi_select"
	PropertyTypeDate        PropertyType = "date"
	PropertyTypeCheckbox    PropertyType = "checkbox"
	PropertyTypeRelation    PropertyType = "relation"
	PropertyTypeFormula     PropertyType = "formula"
	PropertyTypeRollup      PropertyType = "rollup"
)

// RichTextSegment is one fragment of a title or rich_text property.
type RichTextSegment struct {
	Type      string       `json:"type,omitempty"`
	Text      *TextContent `json:"text,omitempty"`
	PlainText string       `json:"plain_text,omitempty"`
}

// TextContent carries the writable content of a rich text segment.
type TextContent struct {
	Content string `json:"content"`
}

// SelectOption is a select or multi_select choice.
type SelectOption struct {
	Name string `json:"name"`
}

// DateValue carries the start of a date property; end and time zone are
// not used by any mapped field.
type DateValue struct {
	Start string `json:"start"`
}

// RelationRef points at another page in the workspace store.
type RelationRef struct {
	ID string `json:"id"`
}

// FormulaValue is a computed value whose shape depends on the nested type.
type FormulaValue struct {
	Type    string     `json:"type"`
	String  *string    `json:"string,omitempty"`
	Number  *float64   `json:"number,omitempty"`
	Boolean *bool      `json:"boolean,omitempty"`
	Date    *DateValue `json:"date,omitempty"`
}

// RollupValue aggregates values from a related collection; for the array
// shape each element is itself a property value.
type RollupValue struct {
	Type   string          `json:"type"`
	Number *float64        `json:"number,omitempty"`
	Date   *DateValue      `json:"date,omitempty"`
	Array  []PropertyValue `json:"array,omitempty"`
}

// PropertyValue is the tagged union over every property variant the
// workspace store returns. Exactly one variant field is populated,
// selected by Type. The JSON shape mirrors the external API so the same
// type serves reads and reverse-mapped writes.
type PropertyValue struct {
	Type        PropertyType      `json:"type"`
	Title       []RichTextSegment `json:"title,omitempty"`
	RichText    []RichTextSegment `json:"rich_text,omitempty"`
	Number      *float64          `json:"number,omitempty"`
	Select      *SelectOption     `json:"select,omitempty"`
	MultiSelect []SelectOption    `json:"multi_select,omitempty"`
	Date        *DateValue        `json:"date,omitempty"`
	Checkbox    *bool             `json:"checkbox,omitempty"`
	Relation    []RelationRef     `json:"relation,omitempty"`
	Formula     *FormulaValue     `json:"formula,omitempty"`
	Rollup      *RollupValue      `json:"rollup,omitempty"`
}

// Page is one record in a workspace collection. It is pull-only: the
// service never mutates a page beyond explicit property writes.
type Page struct {
	ID             string                   `json:"id"`
	CreatedTime    time.Time                `json:"created_time"`
	LastEditedTime time.Time                `json:"last_edited_time"`
	Properties     map[string]PropertyValue `json:"properties"`
}

// NewTitle wraps text into a title property for a write payload.
func NewTitle(text string) PropertyValue {
	return PropertyValue{
		Type:  PropertyTypeTitle,
		Title: []RichTextSegment{{Type: "text", Text: &TextContent{Content: text}}},
	}
}

// NewText wraps text into a rich_text property; empty text produces an
// empty segment list, which clears the remote value.
func NewText(text string) PropertyValue {
	value := PropertyValue{Type: PropertyTypeRichText, RichText: []RichTextSegment{}}
	if text != "" {
		value.RichText = []RichTextSegment{{Type: "text", Text: &TextContent{Content: text}}}
	}
	return value
}

// NewNumber wraps an optional number; nil clears the remote value.
func NewNumber(number *float64) PropertyValue {
	return PropertyValue{Type: PropertyTypeNumber, Number: number}
}

// NewSelect wraps an optional select choice; nil clears the remote value.
func NewSelect(name *string) PropertyValue {
	value := PropertyValue{Type: PropertyTypeSelect}
	if name != nil && *name != "" {
		value.Select = &SelectOption{Name: *name}
	}
	return value
}

// NewMultiSelect wraps a list of select choices.
func NewMultiSelect(names []string) PropertyValue {
	options := make([]SelectOption, 0, len(names))
	for _, name := range names {
		options = append(options, SelectOption{Name: name})
	}
	return PropertyValue{Type: PropertyTypeMultiSelect, MultiSelect: options}
}

// NewDate wraps an optional start date string; nil clears the remote value.
func NewDate(start *string) PropertyValue {
	value := PropertyValue{Type: PropertyTypeDate}
	if start != nil && *start != "" {
		value.Date = &DateValue{Start: *start}
	}
	return value
}

// NewCheckbox wraps a boolean flag.
func NewCheckbox(checked bool) PropertyValue {
	return PropertyValue{Type: PropertyTypeCheckbox, Checkbox: &checked}
}

// NewRelation wraps a list of related page identifiers.
func NewRelation(ids []string) PropertyValue {
	refs := make([]RelationRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, RelationRef{ID: id})
	}
	return PropertyValue{Type: PropertyTypeRelation, Relation: refs}
}
