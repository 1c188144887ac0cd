package dbx

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Row is a single dynamically typed result row: column name to value.
// Drivers deliver values from the closed set {nil, int64, float64, string,
// []any}; everything richer is normalized by the driver before decoding.
// Rows are ephemeral: produced per result row and consumed immediately by a
// decode function.
type Row map[string]Value

// Value is one of nil, int64, float64, string or []any.
type Value = any

// Has reports whether the column is present with a non-null value.
func (r Row) Has(field string) bool {
	v, ok := r[field]
	return ok && v != nil
}

// Text returns a required text column.
func (r Row) Text(field string) (string, error) {
	v, ok := r[field]
	if !ok || v == nil {
		return "", &MissingFieldError{Field: field}
	}
	s, ok := v.(string)
	if !ok {
		return "", &InvalidTypeError{Field: field, Expected: "text"}
	}
	return s, nil
}

// OptionalText returns nil for an absent or null column and errors on any
// non-text value. A wrong-shaped value is never coerced to nil.
func (r Row) OptionalText(field string) (*string, error) {
	v, ok := r[field]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, &InvalidTypeError{Field: field, Expected: "text"}
	}
	return &s, nil
}

// Int returns a required integer column. A real value carrying an exact
// integer is accepted because aggregate projections differ in numeric
// affinity between the backends.
func (r Row) Int(field string) (int64, error) {
	v, ok := r[field]
	if !ok || v == nil {
		return 0, &MissingFieldError{Field: field}
	}
	return asInt(field, v)
}

// OptionalInt returns nil for an absent or null column.
func (r Row) OptionalInt(field string) (*int64, error) {
	v, ok := r[field]
	if !ok || v == nil {
		return nil, nil
	}
	n, err := asInt(field, v)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Real returns a required floating point column; integers widen.
func (r Row) Real(field string) (float64, error) {
	v, ok := r[field]
	if !ok || v == nil {
		return 0, &MissingFieldError{Field: field}
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	default:
		return 0, &InvalidTypeError{Field: field, Expected: "real"}
	}
}

// Bool returns a required boolean flag stored as an integer. Exactly 0 and 1
// are accepted; any other integer is an invalid value, never truthy-coerced.
func (r Row) Bool(field string) (bool, error) {
	v, ok := r[field]
	if !ok || v == nil {
		return false, &MissingFieldError{Field: field}
	}
	n, ok := v.(int64)
	if !ok {
		return false, &InvalidTypeError{Field: field, Expected: "integer flag"}
	}
	switch n {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, &InvalidValueError{Field: field, Message: fmt.Sprintf("flag must be 0 or 1, got %d", n)}
	}
}

// Time returns a required timestamp column: RFC 3339 text or epoch seconds.
func (r Row) Time(field string) (time.Time, error) {
	v, ok := r[field]
	if !ok || v == nil {
		return time.Time{}, &MissingFieldError{Field: field}
	}
	return asTime(field, v)
}

// OptionalTime returns nil for an absent or null column.
func (r Row) OptionalTime(field string) (*time.Time, error) {
	v, ok := r[field]
	if !ok || v == nil {
		return nil, nil
	}
	t, err := asTime(field, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Date returns a required calendar-day column normalized to YYYY-MM-DD.
func (r Row) Date(field string) (string, error) {
	v, ok := r[field]
	if !ok || v == nil {
		return "", &MissingFieldError{Field: field}
	}
	if s, ok := v.(string); ok && len(s) == 10 {
		if _, err := time.Parse("2006-01-02", s); err == nil {
			return s, nil
		}
	}
	t, err := asTime(field, v)
	if err != nil {
		return "", err
	}
	return t.Format("2006-01-02"), nil
}

// TextList normalizes a list-typed column. The backends deliver lists in
// three physically distinct encodings: a native array, a JSON-encoded string
// and a flattened comma-separated string. All three decode to the same
// ordered sequence. An empty string is an empty list, not null; an absent or
// null column is nil.
func (r Row) TextList(field string) ([]string, error) {
	v, ok := r[field]
	if !ok || v == nil {
		return nil, nil
	}
	switch val := v.(type) {
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, err := scalarText(field, item)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		if val == "" {
			return []string{}, nil
		}
		if strings.HasPrefix(strings.TrimSpace(val), "[") {
			var out []string
			if err := json.Unmarshal([]byte(val), &out); err != nil {
				return nil, &InvalidValueError{Field: field, Message: "malformed JSON array"}
			}
			return out, nil
		}
		parts := strings.Split(val, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			out = append(out, p)
		}
		return out, nil
	default:
		return nil, &InvalidTypeError{Field: field, Expected: "text list"}
	}
}

// IntList is TextList for integer-valued columns; every element must parse
// as an integer.
func (r Row) IntList(field string) ([]int64, error) {
	v, ok := r[field]
	if !ok || v == nil {
		return nil, nil
	}
	if items, ok := v.([]any); ok {
		out := make([]int64, 0, len(items))
		for _, item := range items {
			n, err := asInt(field, item)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
		return out, nil
	}
	texts, err := r.TextList(field)
	if err != nil {
		return nil, err
	}
	out := make([]int64, 0, len(texts))
	for _, s := range texts {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, &InvalidValueError{Field: field, Message: "list element is not an integer"}
		}
		out = append(out, n)
	}
	return out, nil
}

func asInt(field string, v Value) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case float64:
		if n == float64(int64(n)) {
			return int64(n), nil
		}
		return 0, &InvalidValueError{Field: field, Message: "real value is not an integer"}
	default:
		return 0, &InvalidTypeError{Field: field, Expected: "integer"}
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func asTime(field string, v Value) (time.Time, error) {
	switch val := v.(type) {
	case string:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, val); err == nil {
				return t.UTC(), nil
			}
		}
		return time.Time{}, &InvalidValueError{Field: field, Message: "unparseable timestamp"}
	case int64:
		return time.Unix(val, 0).UTC(), nil
	default:
		return time.Time{}, &InvalidTypeError{Field: field, Expected: "timestamp"}
	}
}

func scalarText(field string, v Value) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case int64:
		return fmt.Sprintf("%d", s), nil
	case float64:
		return fmt.Sprintf("%g", s), nil
	default:
		return "", &InvalidTypeError{Field: field, Expected: "scalar list element"}
	}
}
