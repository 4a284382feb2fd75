package schema

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"time"
)

// Validate checks attrs against the schema and returns a fresh attribute
// map containing the coerced values plus defaults for absent optional
// fields. The input map is never modified.
//
// Validation is all-or-nothing: on any violation the returned map is nil
// and the error is a [*ValidationError] listing every offending field.
func (s Schema) Validate(attrs map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(attrs))
	var issues []Issue

	for _, name := range s.Names() {
		f := s.fields[name]

		value, present := attrs[name]
		if !present {
			if f.Default != nil {
				out[name] = evalDefault(f.Default)
			} else if f.Required {
				issues = append(issues, Issue{Field: name, Message: "is required"})
			}
			continue
		}

		if value == nil {
			if !f.Nullable {
				issues = append(issues, Issue{Field: name, Message: "must not be null"})
				continue
			}
			out[name] = nil
			continue
		}

		coerced, err := coerce(f.Type, value)
		if err != nil {
			issues = append(issues, Issue{Field: name, Message: err.Error()})
			continue
		}

		if msg := checkConstraints(f, coerced); msg != "" {
			issues = append(issues, Issue{Field: name, Message: msg})
			continue
		}
		out[name] = coerced
	}

	// Unknown attributes are violations too: a typo silently dropped at
	// the storage layer is worse than a failed save.
	var unknown []string
	for name := range attrs {
		if !s.Has(name) {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		issues = append(issues, Issue{Field: name, Message: "is not declared in the schema"})
	}

	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}
	return out, nil
}

func evalDefault(d any) any {
	if fn, ok := d.(func() any); ok {
		return fn()
	}
	return d
}

// coerce converts value to the canonical Go representation of t.
func coerce(t Type, value any) (any, error) {
	switch t {
	case Any:
		return value, nil

	case String:
		if s, ok := value.(string); ok {
			return s, nil
		}
		return nil, fmt.Errorf("expected string, got %T", value)

	case Bool:
		if b, ok := value.(bool); ok {
			return b, nil
		}
		return nil, fmt.Errorf("expected bool, got %T", value)

	case Int:
		switch v := value.(type) {
		case int:
			return int64(v), nil
		case int8:
			return int64(v), nil
		case int16:
			return int64(v), nil
		case int32:
			return int64(v), nil
		case int64:
			return v, nil
		case uint:
			return int64(v), nil
		case uint8:
			return int64(v), nil
		case uint16:
			return int64(v), nil
		case uint32:
			return int64(v), nil
		case uint64:
			return int64(v), nil
		case float32:
			return intFromFloat(float64(v))
		case float64:
			return intFromFloat(v)
		}
		return nil, fmt.Errorf("expected int, got %T", value)

	case Float:
		switch v := value.(type) {
		case float32:
			return float64(v), nil
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case int8:
			return float64(v), nil
		case int16:
			return float64(v), nil
		case int32:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case uint:
			return float64(v), nil
		case uint8:
			return float64(v), nil
		case uint16:
			return float64(v), nil
		case uint32:
			return float64(v), nil
		case uint64:
			return float64(v), nil
		}
		return nil, fmt.Errorf("expected float, got %T", value)

	case Time:
		switch v := value.(type) {
		case time.Time:
			return v, nil
		case string:
			ts, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return nil, fmt.Errorf("expected RFC 3339 time: %v", err)
			}
			return ts, nil
		}
		return nil, fmt.Errorf("expected time, got %T", value)
	}
	return nil, fmt.Errorf("unsupported type %v", t)
}

func intFromFloat(v float64) (any, error) {
	if v != math.Trunc(v) {
		return nil, fmt.Errorf("expected int, got fractional number %v", v)
	}
	return int64(v), nil
}

// checkConstraints applies the value constraints of f to an already-coerced
// value and returns an empty string when all of them hold.
func checkConstraints(f field, value any) string {
	if len(f.Enum) > 0 && !enumContains(f.Enum, value) {
		return fmt.Sprintf("must be one of %v", f.Enum)
	}

	if f.Min != nil || f.Max != nil {
		if n, ok := asFloat(value); ok {
			if f.Min != nil && n < *f.Min {
				return fmt.Sprintf("must be at least %v", *f.Min)
			}
			if f.Max != nil && n > *f.Max {
				return fmt.Sprintf("must be at most %v", *f.Max)
			}
		}
	}

	if s, ok := value.(string); ok {
		if f.MinLength != nil && len(s) < *f.MinLength {
			return fmt.Sprintf("must be at least %d characters", *f.MinLength)
		}
		if f.MaxLength != nil && len(s) > *f.MaxLength {
			return fmt.Sprintf("must be at most %d characters", *f.MaxLength)
		}
		if f.re != nil && !f.re.MatchString(s) {
			return fmt.Sprintf("must match pattern %q", f.Pattern)
		}
	}
	return ""
}

func enumContains(enum []any, value any) bool {
	for _, allowed := range enum {
		if reflect.DeepEqual(allowed, value) {
			return true
		}
		// A coerced value may no longer be the exact type the enum was
		// declared with (e.g. int64 vs int). Compare numerically as well.
		av, aok := asFloat(allowed)
		vv, vok := asFloat(value)
		if aok && vok && av == vv {
			return true
		}
	}
	return false
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}
