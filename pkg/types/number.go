package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FlexNumber decodes a JSON number, a numeric string, or null. Value is nil
// when the field was null, empty, or missing.
type FlexNumber struct {
	Value *float64
}

// Num wraps a float for encoding.
func Num(v float64) FlexNumber {
	return FlexNumber{Value: &v}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		n.Value = nil
		return nil
	}

	if trimmed[0] == '"' {
		var raw string
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
		if raw == "" {
			n.Value = nil
			return nil
		}
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("flex number: %w", err)
		}
		trimmed = []byte(strconv.FormatFloat(parsed, 'f', -1, 64))
	}

	var v float64
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		n.Value = nil
		return nil
	}
	n.Value = &v
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n FlexNumber) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}

// Float returns the value or zero.
func (n FlexNumber) Float() float64 {
	if n.Value == nil {
		return 0
	}
	return *n.Value
}

// Clone returns a copy of the FlexNumber.
func (n FlexNumber) Clone() FlexNumber {
	if n.Value == nil {
		return FlexNumber{}
	}
	copy := *n.Value
	return FlexNumber{Value: &copy}
}
