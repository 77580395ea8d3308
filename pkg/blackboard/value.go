package blackboard

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/aretw0/arbor/pkg/domain"
)

// Scalar lists the Go types a blackboard entry can hold.
type Scalar interface {
	bool | int | float64 | string
}

// Value is a tagged union holding exactly one scalar.
type Value struct {
	typ domain.ValueType
	b   bool
	i   int
	f   float64
	s   string
}

// BoolValue returns a Value tagged TypeBool.
func BoolValue(v bool) Value { return Value{typ: domain.TypeBool, b: v} }

// IntValue returns a Value tagged TypeInt.
func IntValue(v int) Value { return Value{typ: domain.TypeInt, i: v} }

// DoubleValue returns a Value tagged TypeDouble.
func DoubleValue(v float64) Value { return Value{typ: domain.TypeDouble, f: v} }

// StringValue returns a Value tagged TypeString.
func StringValue(v string) Value { return Value{typ: domain.TypeString, s: v} }

// ValueOf wraps a scalar in a Value with the matching tag.
func ValueOf[T Scalar](v T) Value {
	switch x := any(v).(type) {
	case bool:
		return BoolValue(x)
	case int:
		return IntValue(x)
	case float64:
		return DoubleValue(x)
	default:
		return StringValue(any(v).(string))
	}
}

// ValueFromAny converts a loosely typed value (as decoded from YAML or JSON) into a Value.
// Integral floats stay doubles; only Go integer types map to TypeInt.
func ValueFromAny(v any) (Value, error) {
	switch x := v.(type) {
	case bool:
		return BoolValue(x), nil
	case int:
		return IntValue(x), nil
	case int8:
		return IntValue(int(x)), nil
	case int16:
		return IntValue(int(x)), nil
	case int32:
		return IntValue(int(x)), nil
	case int64:
		return IntValue(int(x)), nil
	case uint8:
		return IntValue(int(x)), nil
	case uint16:
		return IntValue(int(x)), nil
	case uint32:
		return IntValue(int(x)), nil
	case float32:
		return DoubleValue(float64(x)), nil
	case float64:
		return DoubleValue(x), nil
	case string:
		return StringValue(x), nil
	case Value:
		return x, nil
	}
	return Value{}, fmt.Errorf("unsupported blackboard value %T", v)
}

// TypeOf returns the tag used for T.
func TypeOf[T Scalar]() domain.ValueType {
	var zero T
	switch any(zero).(type) {
	case bool:
		return domain.TypeBool
	case int:
		return domain.TypeInt
	case float64:
		return domain.TypeDouble
	default:
		return domain.TypeString
	}
}

// Type returns the tag of the value.
func (v Value) Type() domain.ValueType { return v.typ }

// Any returns the held scalar as an interface value.
func (v Value) Any() any {
	switch v.typ {
	case domain.TypeBool:
		return v.b
	case domain.TypeInt:
		return v.i
	case domain.TypeDouble:
		return v.f
	default:
		return v.s
	}
}

// String formats the held scalar.
func (v Value) String() string {
	return fmt.Sprintf("%v", v.Any())
}

// as extracts the scalar. Callers must have checked the tag against T.
func as[T Scalar](v Value) T {
	return v.Any().(T)
}

type valueJSON struct {
	Type  domain.ValueType `json:"type"`
	Value json.RawMessage  `json:"value"`
}

// Non-finite doubles have no JSON number form and are written as strings.
const (
	posInf = "+Inf"
	negInf = "-Inf"
	nan    = "NaN"
)

// rawJSON encodes the held scalar without its tag.
func (v Value) rawJSON() ([]byte, error) {
	if v.typ == domain.TypeDouble {
		switch {
		case math.IsInf(v.f, 1):
			return json.Marshal(posInf)
		case math.IsInf(v.f, -1):
			return json.Marshal(negInf)
		case math.IsNaN(v.f):
			return json.Marshal(nan)
		}
	}
	return json.Marshal(v.Any())
}

// MarshalJSON encodes the value together with its tag, e.g. {"type":"int","value":3}.
// Infinite and NaN doubles are written as "+Inf", "-Inf" and "NaN".
func (v Value) MarshalJSON() ([]byte, error) {
	raw, err := v.rawJSON()
	if err != nil {
		return nil, err
	}
	return json.Marshal(valueJSON{Type: v.typ, Value: raw})
}

// UnmarshalJSON decodes the tagged form written by MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	var aux valueJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	decoded, err := decodeTagged(aux.Type, aux.Value)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

func decodeTagged(typ domain.ValueType, raw json.RawMessage) (Value, error) {
	var err error
	switch typ {
	case domain.TypeBool:
		var b bool
		if err = json.Unmarshal(raw, &b); err == nil {
			return BoolValue(b), nil
		}
	case domain.TypeInt:
		var i int
		if err = json.Unmarshal(raw, &i); err == nil {
			return IntValue(i), nil
		}
	case domain.TypeDouble:
		var special string
		if json.Unmarshal(raw, &special) == nil {
			switch special {
			case posInf:
				return DoubleValue(math.Inf(1)), nil
			case negInf:
				return DoubleValue(math.Inf(-1)), nil
			case nan:
				return DoubleValue(math.NaN()), nil
			}
			return Value{}, fmt.Errorf("decode %s value: unexpected string %q", typ, special)
		}
		var f float64
		if err = json.Unmarshal(raw, &f); err == nil {
			return DoubleValue(f), nil
		}
	case domain.TypeString:
		var s string
		if err = json.Unmarshal(raw, &s); err == nil {
			return StringValue(s), nil
		}
	default:
		return Value{}, fmt.Errorf("unknown value type %d", int(typ))
	}
	return Value{}, fmt.Errorf("decode %s value: %w", typ, err)
}
