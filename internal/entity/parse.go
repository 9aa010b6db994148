package entity

import (
	"fmt"
	"math"
	"strings"
)

// FieldError names one cell that could not feed its record field.
type FieldError struct {
	Entity string
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Entity, e.Field, e.Reason)
}

// ValidationError collects every field error of one parse run.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Error()
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Fields returns the offending cell keys in the order they were found.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		out[i] = fe.Field
	}
	return out
}

// collect splits cells into the raw values of the named fields and the cells
// that belong to some other record. A later cell for the same key wins.
func collect(cells []Cell, fieldNames []string) (map[string]rawValue, []Cell) {
	wanted := make(map[string]bool, len(fieldNames))
	for _, n := range fieldNames {
		wanted[n] = true
	}
	vals := make(map[string]rawValue)
	var rest []Cell
	for _, c := range cells {
		if !wanted[c.Key] {
			rest = append(rest, c)
			continue
		}
		text, ok := c.Text()
		if !ok {
			continue
		}
		if rv, ok := parseRaw(text); ok {
			vals[c.Key] = rv
		}
	}
	return vals, rest
}

// reader pulls typed fields out of collected raw values and records every
// mismatch instead of stopping at the first.
type reader struct {
	entity string
	vals   map[string]rawValue
	errs   []FieldError
}

func (r *reader) fail(key, format string, args ...any) {
	r.errs = append(r.errs, FieldError{Entity: r.entity, Field: key, Reason: fmt.Sprintf(format, args...)})
}

func (r *reader) number(key string) (float64, bool) {
	rv, ok := r.vals[key]
	if !ok {
		return 0, false
	}
	if !rv.isNum {
		r.fail(key, "expected a number, got %q", rv.text)
		return 0, false
	}
	return rv.num, true
}

func (r *reader) numberOr(key string, def float64) float64 {
	if n, ok := r.number(key); ok {
		return n
	}
	return def
}

func (r *reader) optional(key string) *float64 {
	if n, ok := r.number(key); ok {
		return &n
	}
	return nil
}

func (r *reader) integer(key string) (int, bool) {
	n, ok := r.number(key)
	if !ok {
		return 0, false
	}
	if n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
		r.fail(key, "expected an integer, got %v", n)
		return 0, false
	}
	return int(n), true
}

func (r *reader) integerOr(key string, def int) int {
	if n, ok := r.integer(key); ok {
		return n
	}
	return def
}

// text returns the raw text of key, numeric or not.
func (r *reader) text(key string) (string, bool) {
	rv, ok := r.vals[key]
	if !ok {
		return "", false
	}
	return rv.text, true
}

// parseWith runs build over the cells of fieldNames. The record is nil when
// any field failed.
func parseWith[T any](cells []Cell, entity string, fieldNames []string, build func(*reader) T) (*T, []FieldError, []Cell) {
	vals, rest := collect(cells, fieldNames)
	r := &reader{entity: entity, vals: vals}
	rec := build(r)
	if len(r.errs) > 0 {
		return nil, r.errs, rest
	}
	return &rec, nil, rest
}

func clampNonNegative(p *float64) *float64 {
	if p != nil && *p < 0 {
		zero := 0.0
		return &zero
	}
	return p
}

func dropNegative(p *float64) *float64 {
	if p != nil && *p < 0 {
		return nil
	}
	return p
}

func ptr[T any](v T) *T { return &v }
