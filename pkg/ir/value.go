package ir

import (
	"encoding/json"
	"strconv"
)

// Value holds an attribute value from the interchange format. Adapters in
// the wild emit both strings ("true") and bare numbers (5) for the same
// fields, so the codec accepts either and normalizes to a string.
type Value struct {
	raw string
	set bool
}

// StringValue wraps a string as a Value.
func StringValue(s string) Value {
	return Value{raw: s, set: true}
}

// IntValue wraps an integer as a Value.
func IntValue(i int) Value {
	return Value{raw: strconv.Itoa(i), set: true}
}

// IsSet reports whether the value was present in the source document.
func (v Value) IsSet() bool { return v.set }

// String returns the normalized string form.
func (v Value) String() string { return v.raw }

// Int parses the value as an integer.
func (v Value) Int() (int, bool) {
	if !v.set {
		return 0, false
	}
	i, err := strconv.Atoi(v.raw)
	if err != nil {
		return 0, false
	}
	return i, true
}

// Bool parses the value as a boolean ("true"/"false").
func (v Value) Bool() (bool, bool) {
	if !v.set {
		return false, false
	}
	b, err := strconv.ParseBool(v.raw)
	if err != nil {
		return false, false
	}
	return b, true
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.set {
		return []byte("null"), nil
	}
	if i, err := strconv.Atoi(v.raw); err == nil {
		return json.Marshal(i)
	}
	return json.Marshal(v.raw)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Value{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = Value{raw: s, set: true}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = Value{raw: n.String(), set: true}
	return nil
}
