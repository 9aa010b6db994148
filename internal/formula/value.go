package formula

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Kind identifies what a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindText
)

// Value is a resolved variable: a finite number, a text, or null.
type Value struct {
	kind Kind
	num  float64
	text string
}

// Null is the absent value.
var Null = Value{}

// Number wraps f. Non-finite numbers become Null so a Value never carries NaN or Inf.
func Number(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null
	}
	return Value{kind: KindNumber, num: f}
}

// Text wraps s.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// OptionalNumber converts a nullable float into a Value.
func OptionalNumber(f *float64) Value {
	if f == nil {
		return Null
	}
	return Number(*f)
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Float returns the numeric payload and whether v is a number.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Str returns the text payload and whether v is a text.
func (v Value) Str() (string, bool) {
	return v.text, v.kind == KindText
}

// String renders v the way it is written back into a cell. Numbers use the
// shortest representation that parses back to the same float64.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return v.text
	default:
		return ""
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindText:
		return json.Marshal(v.text)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case nil:
		*v = Null
	case float64:
		*v = Number(t)
	case string:
		*v = Text(t)
	default:
		return fmt.Errorf("formula: unsupported value %s", string(data))
	}
	return nil
}

// Values is the flattened bag of every variable known or resolved so far.
type Values map[string]Value

// Clone returns a shallow copy of vs.
func (vs Values) Clone() Values {
	out := make(Values, len(vs))
	for k, v := range vs {
		out[k] = v
	}
	return out
}

// Overlay returns a copy of vs with every entry of top written over it.
func (vs Values) Overlay(top Values) Values {
	out := vs.Clone()
	for k, v := range top {
		out[k] = v
	}
	return out
}

// Number returns the numeric value of key, if it is a number.
func (vs Values) Number(key string) (float64, bool) {
	v, ok := vs[key]
	if !ok {
		return 0, false
	}
	return v.Float()
}
