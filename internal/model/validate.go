package model

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError reports a task field rejected at the input boundary.
// The store never produces it.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// ValidateRequired rejects empty or whitespace-only values.
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	return nil
}

// ValidateHex rejects anything that is not a "#rgb" or "#rrggbb" colour.
func ValidateHex(field, value string) error {
	v := strings.TrimSpace(value)
	if len(v) != 4 && len(v) != 7 {
		return &ValidationError{Field: field, Message: "must be a hex colour like #1144bb"}
	}
	if _, err := ParseHex(v); err != nil {
		return &ValidationError{Field: field, Message: "must be a hex colour like #1144bb"}
	}
	return nil
}

// ValidateTask checks the fields a task form must supply before anything
// reaches the store: name and description are required and both colours
// must be well-formed.
func ValidateTask(name, description, textColour, backColour string) error {
	if err := ValidateRequired("name", name); err != nil {
		return err
	}
	if err := ValidateRequired("description", description); err != nil {
		return err
	}
	if err := ValidateHex("text colour", textColour); err != nil {
		return err
	}
	return ValidateHex("background colour", backColour)
}

// dueLayouts are the accepted due-time spellings, most specific first.
var dueLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDue parses an optional due time. RFC 3339 timestamps keep their own
// offset; the short forms are read in loc. An empty string means no due time.
func ParseDue(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	for _, layout := range dueLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return &t, nil
		}
	}
	return nil, &ValidationError{
		Field:   "due",
		Message: "must look like YYYY-MM-DD, YYYY-MM-DD HH:MM or RFC 3339",
	}
}
