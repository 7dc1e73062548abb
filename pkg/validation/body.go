// Package validation implements the request checks every mutating endpoint
// runs before it reaches a domain service.
package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/artem13815/expenses/pkg/apperr"
)

// Body is a decoded JSON object with numbers kept as json.Number.
type Body map[string]any

// Type is the expected JSON type of a field.
type Type int

const (
	Text Type = iota
	Number
)

// Field describes one expected body field.
type Field struct {
	Name     string
	Type     Type
	Required bool
	// FreeText fields may contain whitespace.
	FreeText bool
	// Raw fields are only checked for presence and type.
	Raw bool
}

const (
	MsgBodyRequired = "Request body is required"
	MsgUnsafeInput  = "Input must not contain unsafe characters or spaces. Please correct and try again."
)

// Decode parses raw into a Body. Empty input and non-object payloads are
// validation errors.
func Decode(raw []byte) (Body, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, apperr.Validation(MsgBodyRequired)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var body Body
	if err := dec.Decode(&body); err != nil {
		return nil, apperr.Validation("Invalid JSON payload")
	}
	if len(body) == 0 {
		return nil, apperr.Validation(MsgBodyRequired)
	}
	return body, nil
}

// Check applies, in order: required fields, field types, unsafe characters
// and whitespace. The first violation is returned.
func Check(body Body, fields ...Field) error {
	if len(body) == 0 {
		return apperr.Validation(MsgBodyRequired)
	}

	var missing []string
	for _, f := range fields {
		if f.Required && !body.present(f.Name) {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return apperr.Validation(fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", ")))
	}

	for _, f := range fields {
		v, ok := body[f.Name]
		if !ok || v == nil {
			continue
		}
		switch f.Type {
		case Number:
			if !isNumber(v) {
				return apperr.Validation(fmt.Sprintf("%s must be a number", f.Name))
			}
		default:
			if _, isText := v.(string); !isText {
				return apperr.Validation(fmt.Sprintf("%s must be a string", f.Name))
			}
		}
	}

	for _, f := range fields {
		s, ok := body[f.Name].(string)
		if !ok || f.Raw {
			continue
		}
		if IsUnsafe(s) || (!f.FreeText && HasWhitespace(s)) {
			return apperr.Validation(MsgUnsafeInput)
		}
	}
	return nil
}

// String returns the text value of name, or "" when absent.
func (b Body) String(name string) string {
	s, _ := b[name].(string)
	return s
}

// Has reports whether name carries a non-null value.
func (b Body) Has(name string) bool {
	v, ok := b[name]
	return ok && v != nil
}

// Number returns the numeric value of name in its JSON text form.
func (b Body) Number(name string) (string, bool) {
	switch v := b[name].(type) {
	case json.Number:
		return v.String(), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}

func (b Body) present(name string) bool {
	v, ok := b[name]
	if !ok || v == nil {
		return false
	}
	if s, isText := v.(string); isText && s == "" {
		return false
	}
	return true
}

func isNumber(v any) bool {
	switch v.(type) {
	case json.Number, float64:
		return true
	default:
		return false
	}
}
