package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

type fieldKind int

const (
	textField fieldKind = iota
	dateField
	countField
	moneyField
)

const maxTextField = 255

// editableFields are the wedding profile columns members may change directly
// or through a pending update.
var editableFields = map[string]fieldKind{
	"wedding_name":         textField,
	"partner1_name":        textField,
	"partner2_name":        textField,
	"wedding_date":         dateField,
	"wedding_time":         textField,
	"ceremony_location":    textField,
	"reception_location":   textField,
	"expected_guest_count": countField,
	"total_budget":         moneyField,
	"wedding_style":        textField,
	"color_scheme_primary": textField,
}

// IsEditableField reports whether name is a whitelisted profile column.
func IsEditableField(name string) bool {
	_, ok := editableFields[name]
	return ok
}

// normalizeField converts a JSON-decoded or string value into the column value.
// nil clears the column.
func normalizeField(name string, v interface{}) (interface{}, error) {
	kind, ok := editableFields[name]
	if !ok {
		return nil, fmt.Errorf("%w: field %q cannot be edited", ErrInvalidInput, name)
	}
	if v == nil {
		if kind == textField {
			return "", nil
		}
		return nil, nil
	}

	switch kind {
	case textField:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be text", ErrInvalidInput, name)
		}
		s = strings.TrimSpace(s)
		if len(s) > maxTextField {
			return nil, fmt.Errorf("%w: %s is too long", ErrInvalidInput, name)
		}
		return s, nil

	case dateField:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a YYYY-MM-DD date", ErrInvalidInput, name)
		}
		if strings.TrimSpace(s) == "" {
			return nil, nil
		}
		d, err := time.Parse("2006-01-02", strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a YYYY-MM-DD date", ErrInvalidInput, name)
		}
		return d, nil

	case countField:
		f, err := toNumber(v)
		if err != nil || f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
			return nil, fmt.Errorf("%w: %s must be a non-negative whole number", ErrInvalidInput, name)
		}
		return int(f), nil

	case moneyField:
		f, err := toNumber(v)
		if err != nil || f < 0 || math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fmt.Errorf("%w: %s must be a non-negative amount", ErrInvalidInput, name)
		}
		return f, nil
	}
	return nil, fmt.Errorf("%w: field %q cannot be edited", ErrInvalidInput, name)
}

func toNumber(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	}
	return 0, fmt.Errorf("not a number: %T", v)
}

// normalizeFields validates a whole patch.
func normalizeFields(patch map[string]interface{}) (map[string]interface{}, error) {
	if len(patch) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}
	out := make(map[string]interface{}, len(patch))
	for name, v := range patch {
		nv, err := normalizeField(name, v)
		if err != nil {
			return nil, err
		}
		out[name] = nv
	}
	return out, nil
}
