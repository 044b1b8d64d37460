package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/leadkitchen/dealdesk/internal/notion"
)

// FieldKind selects which extractor reads a workspace property and
// which constructor rebuilds it on the reverse path.
type FieldKind int

const (
	KindTitle FieldKind = iota
	KindText
	KindNumber
	KindSelect
	KindMultiSelect
	KindDate
	KindCheckbox
	// KindRelationFirst keeps only the first related identifier, for
	// singular foreign-key columns such as brand_id.
	KindRelationFirst
	KindRelationList
	// KindNumericString and KindNumericArray read computed rollup or
	// free-text properties. They have no reverse shape: the upstream
	// values are computed and not writable.
	KindNumericString
	KindNumericArray
)

// FieldMapping binds one destination column to one named workspace
// property. Adding a mapped field is a one-line table entry.
type FieldMapping struct {
	Column   string
	Property string
	Kind     FieldKind
}

// MissingRequiredFieldError reports a reverse mapping that found a null
// required identifying column. It fires before any write is attempted.
type MissingRequiredFieldError struct {
	Collection string
	Column     string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("catalog: %s record missing required field %q", e.Collection, e.Column)
}

// MapProperties translates a workspace property bag into a flat column
// map using the supplied table. Missing or wrong-variant properties
// degrade to each kind's empty default; the translation never fails.
func MapProperties(properties map[string]notion.PropertyValue, table []FieldMapping) map[string]any {
	row := make(map[string]any, len(table))
	for _, mapping := range table {
		var prop *notion.PropertyValue
		if value, ok := properties[mapping.Property]; ok {
			prop = &value
		}
		row[mapping.Column] = extractField(prop, mapping.Kind)
	}
	return row
}

// MismatchedFields reports the columns whose workspace property is
// present but carries a different variant than the mapping expects.
// Extraction still degrades those to the kind's empty default; callers
// surface the list at debug level.
func MismatchedFields(properties map[string]notion.PropertyValue, table []FieldMapping) []string {
	var columns []string
	for _, mapping := range table {
		prop, ok := properties[mapping.Property]
		if !ok {
			continue
		}
		if !kindAccepts(mapping.Kind, prop.Type) {
			columns = append(columns, mapping.Column)
		}
	}
	return columns
}

func kindAccepts(kind FieldKind, propType notion.PropertyType) bool {
	switch kind {
	case KindTitle:
		return propType == notion.PropertyTypeTitle
	case KindText:
		return propType == notion.PropertyTypeRichText
	case KindNumber:
		return propType == notion.PropertyTypeNumber
	case KindSelect:
		return propType == notion.PropertyTypeSelect
	case KindMultiSelect:
		return propType == notion.PropertyTypeMultiSelect
	case KindDate:
		return propType == notion.PropertyTypeDate
	case KindCheckbox:
		return propType == notion.PropertyTypeCheckbox
	case KindRelationFirst, KindRelationList:
		return propType == notion.PropertyTypeRelation
	case KindNumericString, KindNumericArray:
		switch propType {
		case notion.PropertyTypeNumber, notion.PropertyTypeRollup,
			notion.PropertyTypeRichText, notion.PropertyTypeTitle:
			return true
		}
		return false
	default:
		return false
	}
}

func extractField(prop *notion.PropertyValue, kind FieldKind) any {
	switch kind {
	case KindTitle:
		return notion.Title(prop)
	case KindText:
		return notion.Text(prop)
	case KindNumber:
		return notion.Number(prop)
	case KindSelect:
		return notion.Select(prop)
	case KindMultiSelect:
		return StringList(notion.MultiSelect(prop))
	case KindDate:
		return notion.Date(prop)
	case KindCheckbox:
		return notion.Checkbox(prop)
	case KindRelationFirst:
		ids := notion.Relation(prop)
		if len(ids) == 0 {
			return (*string)(nil)
		}
		return &ids[0]
	case KindRelationList:
		return StringList(notion.Relation(prop))
	case KindNumericString:
		return notion.NumericString(prop)
	case KindNumericArray:
		return FloatList(notion.NumericArray(prop))
	default:
		return nil
	}
}

// BuildProperties performs the reverse translation: it wraps a stored
// row's columns back into the tagged property shapes the workspace
// store's write API expects. Required identifying columns are validated
// first; computed kinds are skipped because they cannot be written.
func (c Collection) BuildProperties(row map[string]any) (map[string]notion.PropertyValue, error) {
	for _, column := range c.Required {
		if !hasValue(row[column]) {
			return nil, &MissingRequiredFieldError{Collection: c.Name, Column: column}
		}
	}

	properties := make(map[string]notion.PropertyValue, len(c.Fields))
	for _, mapping := range c.Fields {
		value, ok := row[mapping.Column]
		if !ok {
			continue
		}
		switch mapping.Kind {
		case KindTitle:
			properties[mapping.Property] = notion.NewTitle(asString(value))
		case KindText:
			properties[mapping.Property] = notion.NewText(asString(value))
		case KindNumber:
			properties[mapping.Property] = notion.NewNumber(asNumber(value))
		case KindSelect:
			properties[mapping.Property] = notion.NewSelect(asStringPtr(value))
		case KindMultiSelect:
			properties[mapping.Property] = notion.NewMultiSelect(asStringList(value))
		case KindDate:
			properties[mapping.Property] = notion.NewDate(asStringPtr(value))
		case KindCheckbox:
			properties[mapping.Property] = notion.NewCheckbox(asBool(value))
		case KindRelationFirst:
			if id := asStringPtr(value); id != nil {
				properties[mapping.Property] = notion.NewRelation([]string{*id})
			} else {
				properties[mapping.Property] = notion.NewRelation(nil)
			}
		case KindRelationList:
			properties[mapping.Property] = notion.NewRelation(asStringList(value))
		case KindNumericString, KindNumericArray:
			// computed upstream, read-only
		}
	}
	return properties, nil
}

func hasValue(value any) bool {
	ptr := asStringPtr(value)
	return ptr != nil && *ptr != ""
}

// The coercions below accept both in-memory mapper output (typed
// pointers, StringList) and rows read back through database/sql
// (strings, []byte, float64, int64), so reverse mapping works on
// either representation.

func asString(value any) string {
	if ptr := asStringPtr(value); ptr != nil {
		return *ptr
	}
	return ""
}

func asStringPtr(value any) *string {
	switch typed := value.(type) {
	case nil:
		return nil
	case string:
		if typed == "" {
			return nil
		}
		return &typed
	case *string:
		if typed == nil || *typed == "" {
			return nil
		}
		return typed
	case []byte:
		text := string(typed)
		if text == "" {
			return nil
		}
		return &text
	case float64:
		text := strconv.FormatFloat(typed, 'f', -1, 64)
		return &text
	case int64:
		text := strconv.FormatInt(typed, 10)
		return &text
	default:
		return nil
	}
}

func asNumber(value any) *float64 {
	switch typed := value.(type) {
	case nil:
		return nil
	case float64:
		return &typed
	case *float64:
		return typed
	case int64:
		number := float64(typed)
		return &number
	case int:
		number := float64(typed)
		return &number
	case string:
		if parsed, err := strconv.ParseFloat(typed, 64); err == nil {
			return &parsed
		}
		return nil
	default:
		return nil
	}
}

func asBool(value any) bool {
	switch typed := value.(type) {
	case bool:
		return typed
	case *bool:
		return typed != nil && *typed
	case int64:
		return typed != 0
	case float64:
		return typed != 0
	default:
		return false
	}
}

func asStringList(value any) []string {
	switch typed := value.(type) {
	case nil:
		return nil
	case StringList:
		return typed
	case []string:
		return typed
	case string:
		return decodeStringList([]byte(typed))
	case []byte:
		return decodeStringList(typed)
	default:
		return nil
	}
}

func decodeStringList(encoded []byte) []string {
	var list []string
	if err := json.Unmarshal(encoded, &list); err != nil {
		return nil
	}
	return list
}
