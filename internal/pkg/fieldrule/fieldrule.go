package fieldrule

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrUnsupportedValue is returned when a record value is neither text, a number nor empty.
var ErrUnsupportedValue = errors.New("fieldrule: unsupported value type")

// Kind names the check a Rule runs.
type Kind string

const (
	KindRequired Kind = "required"
	KindEmail    Kind = "email"
	KindPhone    Kind = "phone"
	KindNumber   Kind = "number"
)

// Record is one entity being validated, keyed by field name.
type Record map[string]any

// FieldError pairs a field name with a human readable violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Range bounds a numeric field. Min and Max are inclusive and optional.
type Range struct {
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Integer bool     `json:"integer"`
}

// Rule applies one check to one field.
type Rule struct {
	Field string `json:"field"`
	Kind  Kind   `json:"kind"`
	Range *Range `json:"range,omitempty"`
}

// RuleSet is an ordered list of rules. Errors come back in rule order.
type RuleSet []Rule

// RequiredField builds a required rule.
func RequiredField(field string) Rule {
	return Rule{Field: field, Kind: KindRequired}
}

// EmailField builds an email format rule.
func EmailField(field string) Rule {
	return Rule{Field: field, Kind: KindEmail}
}

// PhoneField builds a phone format rule.
func PhoneField(field string) Rule {
	return Rule{Field: field, Kind: KindPhone}
}

// NumberField builds a numeric range rule. Integer defaults to true; pass
// WithFraction to accept decimals.
func NumberField(field string, opts ...RangeOption) Rule {
	r := Range{Integer: true}
	for _, opt := range opts {
		opt(&r)
	}
	return Rule{Field: field, Kind: KindNumber, Range: &r}
}

// RangeOption customizes a numeric rule.
type RangeOption func(*Range)

// WithMin sets the inclusive lower bound.
func WithMin(v float64) RangeOption {
	return func(r *Range) { r.Min = &v }
}

// WithMax sets the inclusive upper bound.
func WithMax(v float64) RangeOption {
	return func(r *Range) { r.Max = &v }
}

// WithFraction allows non-integer values.
func WithFraction() RangeOption {
	return func(r *Range) { r.Integer = false }
}

// Fields returns the distinct field names the set inspects, in rule order.
func (rs RuleSet) Fields() []string {
	seen := make(map[string]struct{}, len(rs))
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		if _, ok := seen[r.Field]; ok {
			continue
		}
		seen[r.Field] = struct{}{}
		out = append(out, r.Field)
	}
	return out
}

// Validate runs every rule against rec and returns the violations in rule order.
//
// A non-nil error means the record could not be inspected at all (for example a
// field holds an object); it is never used for ordinary violations.
func (rs RuleSet) Validate(rec Record) (errs []FieldError, err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			errs = nil
			err = fmt.Errorf("fieldrule: %v", rvr)
		}
	}()

	errs = make([]FieldError, 0)
	for _, rule := range rs {
		msg, err := rule.check(rec[rule.Field])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", rule.Field, err)
		}
		if msg != "" {
			errs = append(errs, FieldError{Field: rule.Field, Message: msg})
		}
	}

	return errs, nil
}

func (r Rule) check(v any) (string, error) {
	if r.Kind == KindRequired {
		return Required(v), nil
	}

	if IsEmpty(v) {
		return "", nil
	}

	text, err := Text(v)
	if err != nil {
		return "", err
	}

	switch r.Kind {
	case KindEmail:
		return Email(text), nil
	case KindPhone:
		return Phone(text), nil
	case KindNumber:
		rng := Range{Integer: true}
		if r.Range != nil {
			rng = *r.Range
		}
		return Number(text, rng), nil
	default:
		return "", fmt.Errorf("fieldrule: unknown rule kind %q", r.Kind)
	}
}

// Text renders a record value as the string the checks operate on.
func Text(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case *string:
		if val == nil {
			return "", nil
		}
		return *val, nil
	case json.Number:
		return val.String(), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), nil
	case int:
		return strconv.Itoa(val), nil
	case int32:
		return strconv.FormatInt(int64(val), 10), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case *int64:
		if val == nil {
			return "", nil
		}
		return strconv.FormatInt(*val, 10), nil
	case uint:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint64:
		return strconv.FormatUint(val, 10), nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}
