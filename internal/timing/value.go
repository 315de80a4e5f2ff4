package timing

import (
	"encoding/json"
	"fmt"
	"math"
)

// Kind discriminates the timing value union.
type Kind int

const (
	// KindAbsolute is a concrete number of seconds.
	KindAbsolute Kind = iota
	// KindAuto is the symbol "auto": derived from sibling clip positions.
	KindAuto
	// KindEnd is the symbol "end": stretch to the current timeline end.
	// Only valid as a length, never as a start.
	KindEnd
)

// Value is a tagged union over a clip's symbolic start or length.
//
// The zero Value is an absolute 0 seconds. Values round-trip losslessly
// through JSON: the symbols "auto" and "end" are preserved verbatim and
// never silently resolved by this package.
type Value struct {
	kind    Kind
	seconds float64
}

// Seconds constructs an absolute timing value.
func Seconds(s float64) Value {
	return Value{kind: KindAbsolute, seconds: s}
}

// Auto constructs the "auto" symbol.
func Auto() Value {
	return Value{kind: KindAuto}
}

// End constructs the "end" symbol.
func End() Value {
	return Value{kind: KindEnd}
}

// Kind returns the union tag.
func (v Value) Kind() Kind { return v.kind }

// IsAuto reports whether the value is the "auto" symbol.
func (v Value) IsAuto() bool { return v.kind == KindAuto }

// IsEnd reports whether the value is the "end" symbol.
func (v Value) IsEnd() bool { return v.kind == KindEnd }

// IsAbsolute reports whether the value is a concrete number of seconds.
func (v Value) IsAbsolute() bool { return v.kind == KindAbsolute }

// Abs returns the concrete seconds and true when the value is absolute.
func (v Value) Abs() (float64, bool) {
	if v.kind != KindAbsolute {
		return 0, false
	}
	return v.seconds, true
}

// String returns the wire form of the value.
func (v Value) String() string {
	switch v.kind {
	case KindAuto:
		return "auto"
	case KindEnd:
		return "end"
	default:
		return fmt.Sprintf("%g", v.seconds)
	}
}

// MarshalJSON emits the wire form: a JSON number, "auto", or "end".
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindAuto:
		return []byte(`"auto"`), nil
	case KindEnd:
		return []byte(`"end"`), nil
	default:
		if math.IsNaN(v.seconds) || math.IsInf(v.seconds, 0) {
			return nil, fmt.Errorf("timing: non-finite seconds value %v", v.seconds)
		}
		return json.Marshal(v.seconds)
	}
}

// UnmarshalJSON accepts a JSON number, "auto", or "end".
// Any other value is an error; negative numbers are rejected because a
// resolved timing must always be non-negative.
func (v *Value) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("timing: empty value")
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		switch s {
		case "auto":
			*v = Auto()
			return nil
		case "end":
			*v = End()
			return nil
		default:
			return fmt.Errorf("timing: unknown symbol %q (want \"auto\" or \"end\")", s)
		}
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("timing: %w", err)
	}
	if n < 0 {
		return fmt.Errorf("timing: negative value %g", n)
	}
	*v = Seconds(n)
	return nil
}

// MarshalYAML mirrors the JSON wire form for YAML-authored documents.
func (v Value) MarshalYAML() (any, error) {
	switch v.kind {
	case KindAuto:
		return "auto", nil
	case KindEnd:
		return "end", nil
	default:
		return v.seconds, nil
	}
}

// UnmarshalYAML accepts the same forms as UnmarshalJSON.
func (v *Value) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err == nil {
		switch s {
		case "auto":
			*v = Auto()
			return nil
		case "end":
			*v = End()
			return nil
		default:
			return fmt.Errorf("timing: unknown symbol %q (want \"auto\" or \"end\")", s)
		}
	}

	var n float64
	if err := unmarshal(&n); err != nil {
		return fmt.Errorf("timing: %w", err)
	}
	if n < 0 {
		return fmt.Errorf("timing: negative value %g", n)
	}
	*v = Seconds(n)
	return nil
}
