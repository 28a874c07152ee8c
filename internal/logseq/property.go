package logseq

import (
	"fmt"
	"strings"
)

// trueValues are the tokens a property value may use to mean "yes".
var trueValues = map[string]bool{
	"true":    true,
	"1":       true,
	"yes":     true,
	"on":      true,
	"enabled": true,
}

// Property is a single "field:: value" pair attached to a block or page.
type Property struct {
	Raw   string
	Field string
	Value string
}

// LoadProperty parses property text, splitting on the first separator
// occurrence. The field is trimmed of leading whitespace; the value is
// kept verbatim, further separators included.
func LoadProperty(text string) (Property, error) {
	idx := strings.Index(text, markProperty)
	if idx < 0 {
		return Property{}, fmt.Errorf("%w: %q", ErrPropertyFormat, text)
	}
	field := strings.TrimLeft(text[:idx], " \t")
	value := text[idx+len(markProperty):]
	return Property{Raw: text, Field: field, Value: value}, nil
}

// IsTrue reports whether the value is a truthy token, case-insensitively.
func (p Property) IsTrue() bool {
	return trueValues[strings.ToLower(p.Value)]
}

// AsList returns the value split on commas with each entry trimmed.
// Order and duplicates are preserved: "a,b,b" is three entries, not two.
func (p Property) AsList() []string {
	parts := strings.Split(p.Value, ",")
	out := make([]string, len(parts))
	for i, part := range parts {
		out[i] = strings.TrimSpace(part)
	}
	return out
}
