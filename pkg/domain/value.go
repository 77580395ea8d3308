package domain

import "fmt"

// ValueType is the type tag of a blackboard entry.
// It is fixed when the entry is created and never changes.
type ValueType int

const (
	TypeBool ValueType = iota
	TypeInt
	TypeDouble
	TypeString
)

// String returns the lower-case name of the type.
func (t ValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeDouble:
		return "double"
	case TypeString:
		return "string"
	default:
		return fmt.Sprintf("ValueType(%d)", int(t))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t ValueType) MarshalText() ([]byte, error) {
	if t < TypeBool || t > TypeString {
		return nil, fmt.Errorf("invalid value type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ValueType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "bool":
		*t = TypeBool
	case "int":
		*t = TypeInt
	case "double":
		*t = TypeDouble
	case "string":
		*t = TypeString
	default:
		return fmt.Errorf("unknown value type %q", text)
	}
	return nil
}
