package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// FormNumber is a numeric form field. Browsers submit these as strings, older
// clients as JSON numbers; anything unparseable is kept as "not set" instead of
// failing the whole request.
type FormNumber struct {
	Value float64
	Set   bool
}

// Number builds a populated FormNumber.
func Number(v float64) FormNumber {
	return FormNumber{Value: v, Set: true}
}

// ParseFormNumber parses loose numeric text. Leading numeric prefixes are
// honoured ("12.5kg" reads as 12.5), matching how the dashboard forms have
// always behaved. NaN, infinities and out-of-range values are not set.
func ParseFormNumber(raw string) FormNumber {
	str := strings.TrimSpace(raw)
	if str == "" {
		return FormNumber{}
	}
	v, err := strconv.ParseFloat(str, 64)
	switch {
	case err == nil:
		return finite(v)
	case errors.Is(err, strconv.ErrRange):
		return FormNumber{}
	}
	end := numericPrefix(str)
	if end == 0 {
		return FormNumber{}
	}
	v, err = strconv.ParseFloat(str[:end], 64)
	if err != nil {
		return FormNumber{}
	}
	return finite(v)
}

func finite(v float64) FormNumber {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return FormNumber{}
	}
	return Number(v)
}

// Negative reports whether a value was given and is below zero.
func (n FormNumber) Negative() bool {
	return n.Set && n.Value < 0
}

// OrZero returns the parsed value or 0.
func (n FormNumber) OrZero() float64 {
	if !n.Set {
		return 0
	}
	return n.Value
}

// Optional returns nil for unset or zero values, the parsed value otherwise.
func (n FormNumber) Optional() *float64 {
	if !n.Set || n.Value == 0 {
		return nil
	}
	v := n.Value
	return &v
}

// UnmarshalJSON implements json.Unmarshaler and never fails on bad numbers.
func (n *FormNumber) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*n = FormNumber{}
		return nil
	}
	if trimmed[0] == '"' {
		var str string
		if err := json.Unmarshal(trimmed, &str); err != nil {
			*n = FormNumber{}
			return nil
		}
		*n = ParseFormNumber(str)
		return nil
	}
	*n = ParseFormNumber(string(trimmed))
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n FormNumber) MarshalJSON() ([]byte, error) {
	if !n.Set {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func numericPrefix(s string) int {
	end := 0
	seenDigit, seenDot := false, false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
			end = i + 1
		case r == '.' && !seenDot:
			seenDot = true
		case (r == '-' || r == '+') && i == 0:
		default:
			if !seenDigit {
				return 0
			}
			return end
		}
	}
	if !seenDigit {
		return 0
	}
	return end
}
