package notion

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Extraction is total: a missing property or one carrying a different
// variant tag never fails, it degrades to the variant's empty default
// ("" for text, nil for scalars, empty slice for arrays, false for
// checkbox). Callers therefore never need to pre-validate the bag.

var numericPattern = regexp.MustCompile(`-?\d+(\.\d+)?`)

// Title concatenates the plain content of all title segments.
func Title(prop *PropertyValue) string {
	if prop == nil || prop.Type != PropertyTypeTitle {
		return ""
	}
	return joinSegments(prop.Title)
}

// Text concatenates the plain content of all rich_text segments.
func Text(prop *PropertyValue) string {
	if prop == nil || prop.Type != PropertyTypeRichText {
		return ""
	}
	return joinSegments(prop.RichText)
}

// Number passes through the numeric value, nil when absent.
func Number(prop *PropertyValue) *float64 {
	if prop == nil || prop.Type != PropertyTypeNumber {
		return nil
	}
	return prop.Number
}

// Select returns the selected option's name, nil when nothing is selected.
func Select(prop *PropertyValue) *string {
	if prop == nil || prop.Type != PropertyTypeSelect || prop.Select == nil {
		return nil
	}
	if prop.Select.Name == "" {
		return nil
	}
	name := prop.Select.Name
	return &name
}

// MultiSelect returns the selected option names, dropping empty entries.
func MultiSelect(prop *PropertyValue) []string {
	if prop == nil || prop.Type != PropertyTypeMultiSelect {
		return []string{}
	}
	names := make([]string, 0, len(prop.MultiSelect))
	for _, option := range prop.MultiSelect {
		if option.Name != "" {
			names = append(names, option.Name)
		}
	}
	return names
}

// Date returns the start-date string, nil when the date is unset.
func Date(prop *PropertyValue) *string {
	if prop == nil || prop.Type != PropertyTypeDate || prop.Date == nil || prop.Date.Start == "" {
		return nil
	}
	start := prop.Date.Start
	return &start
}

// Checkbox returns the boolean value, false when absent.
func Checkbox(prop *PropertyValue) bool {
	if prop == nil || prop.Type != PropertyTypeCheckbox || prop.Checkbox == nil {
		return false
	}
	return *prop.Checkbox
}

// Relation returns the related page identifiers, dropping empty ids.
func Relation(prop *PropertyValue) []string {
	if prop == nil || prop.Type != PropertyTypeRelation {
		return []string{}
	}
	ids := make([]string, 0, len(prop.Relation))
	for _, ref := range prop.Relation {
		if ref.ID != "" {
			ids = append(ids, ref.ID)
		}
	}
	return ids
}

// Formula dispatches on the computed value's nested type discriminator.
// Unknown discriminators yield nil.
func Formula(prop *PropertyValue) any {
	if prop == nil || prop.Type != PropertyTypeFormula || prop.Formula == nil {
		return nil
	}
	switch prop.Formula.Type {
	case "string":
		if prop.Formula.String == nil {
			return nil
		}
		return *prop.Formula.String
	case "number":
		if prop.Formula.Number == nil {
			return nil
		}
		return *prop.Formula.Number
	case "boolean":
		if prop.Formula.Boolean == nil {
			return nil
		}
		return *prop.Formula.Boolean
	case "date":
		if prop.Formula.Date == nil || prop.Formula.Date.Start == "" {
			return nil
		}
		return prop.Formula.Date.Start
	default:
		return nil
	}
}

// Rollup dispatches on the aggregate's nested type discriminator. The
// array shape yields the related page ids, filtering out entries that
// are not relations. Unknown discriminators yield nil.
func Rollup(prop *PropertyValue) any {
	if prop == nil || prop.Type != PropertyTypeRollup || prop.Rollup == nil {
		return nil
	}
	switch prop.Rollup.Type {
	case "number":
		if prop.Rollup.Number == nil {
			return nil
		}
		return *prop.Rollup.Number
	case "date":
		if prop.Rollup.Date == nil || prop.Rollup.Date.Start == "" {
			return nil
		}
		return prop.Rollup.Date.Start
	case "array":
		ids := []string{}
		for _, entry := range prop.Rollup.Array {
			if entry.Type != PropertyTypeRelation {
				continue
			}
			ids = append(ids, Relation(&entry)...)
		}
		return ids
	default:
		return nil
	}
}

// NumericArray pulls every finite number it can find out of a property:
// rollup arrays element by element, a plain number as a single element,
// and text either as a JSON-encoded array or as embedded numeric
// substrings. Nil when nothing numeric survives.
func NumericArray(prop *PropertyValue) []float64 {
	if prop == nil {
		return nil
	}
	var numbers []float64
	switch prop.Type {
	case PropertyTypeNumber:
		if prop.Number != nil {
			numbers = appendFinite(numbers, *prop.Number)
		}
	case PropertyTypeRollup:
		if prop.Rollup == nil || prop.Rollup.Type != "array" {
			return nil
		}
		for _, entry := range prop.Rollup.Array {
			switch entry.Type {
			case PropertyTypeNumber:
				if entry.Number != nil {
					numbers = appendFinite(numbers, *entry.Number)
				}
			case PropertyTypeRichText:
				numbers = append(numbers, parseNumbers(joinSegments(entry.RichText))...)
			case PropertyTypeTitle:
				numbers = append(numbers, parseNumbers(joinSegments(entry.Title))...)
			}
		}
	case PropertyTypeRichText:
		numbers = parseNumbers(joinSegments(prop.RichText))
	case PropertyTypeTitle:
		numbers = parseNumbers(joinSegments(prop.Title))
	default:
		return nil
	}
	if len(numbers) == 0 {
		return nil
	}
	return numbers
}

// NumericString renders the first numeric value found in a property as a
// string: text yields its first embedded numeric substring verbatim
// ("10.50" stays "10.50"), a number is formatted, a rollup array yields
// its first numeric element. Nil when nothing numeric is present.
func NumericString(prop *PropertyValue) *string {
	if prop == nil {
		return nil
	}
	switch prop.Type {
	case PropertyTypeRichText:
		return firstNumericToken(joinSegments(prop.RichText))
	case PropertyTypeTitle:
		return firstNumericToken(joinSegments(prop.Title))
	}
	numbers := NumericArray(prop)
	if len(numbers) == 0 {
		return nil
	}
	rendered := formatNumber(numbers[0])
	return &rendered
}

func firstNumericToken(text string) *string {
	match := numericPattern.FindString(text)
	if match == "" {
		return nil
	}
	return &match
}

func joinSegments(segments []RichTextSegment) string {
	var builder strings.Builder
	for _, segment := range segments {
		if segment.Text != nil {
			builder.WriteString(segment.Text.Content)
			continue
		}
		builder.WriteString(segment.PlainText)
	}
	return builder.String()
}

// parseNumbers accepts a JSON-encoded array first, then falls back to
// scanning the text for numeric substrings.
func parseNumbers(text string) []float64 {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	var decoded []any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
		var numbers []float64
		for _, entry := range decoded {
			switch value := entry.(type) {
			case float64:
				numbers = appendFinite(numbers, value)
			case string:
				if parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
					numbers = appendFinite(numbers, parsed)
				}
			}
		}
		return numbers
	}
	var numbers []float64
	for _, match := range numericPattern.FindAllString(trimmed, -1) {
		if parsed, err := strconv.ParseFloat(match, 64); err == nil {
			numbers = appendFinite(numbers, parsed)
		}
	}
	return numbers
}

func appendFinite(numbers []float64, value float64) []float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return numbers
	}
	return append(numbers, value)
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
