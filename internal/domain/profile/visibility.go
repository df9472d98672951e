package profile

import (
	"database/sql/driver"
	"fmt"
)

// Visibility controls who may read a project
type Visibility byte

const (
	VisibilityPublic Visibility = iota
	VisibilityPrivate
	VisibilityConnections
)

func (v Visibility) String() string {
	switch v {
	case VisibilityPublic:
		return "PUBLIC"
	case VisibilityPrivate:
		return "PRIVATE"
	case VisibilityConnections:
		return "CONNECTIONS"
	default:
		return "UNKNOWN"
	}
}

// VisibilityFromString converts a string to a Visibility
func VisibilityFromString(s string) (Visibility, bool) {
	switch s {
	case "PUBLIC":
		return VisibilityPublic, true
	case "PRIVATE":
		return VisibilityPrivate, true
	case "CONNECTIONS":
		return VisibilityConnections, true
	default:
		return VisibilityPublic, false
	}
}

// MarshalJSON implements the json.Marshaler interface
func (v Visibility) MarshalJSON() ([]byte, error) {
	return []byte(`"` + v.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (v *Visibility) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	visibility, valid := VisibilityFromString(str)
	if !valid {
		return fmt.Errorf("invalid visibility: %s", str)
	}
	*v = visibility
	return nil
}

// Scan implements the sql.Scanner interface for database deserialization
func (v *Visibility) Scan(value any) error {
	if value == nil {
		*v = VisibilityPublic
		return nil
	}

	var str string
	switch raw := value.(type) {
	case string:
		str = raw
	case []byte:
		str = string(raw)
	default:
		return fmt.Errorf("cannot scan %T into Visibility", value)
	}

	visibility, valid := VisibilityFromString(str)
	if !valid {
		return fmt.Errorf("invalid visibility value: %s", str)
	}
	*v = visibility
	return nil
}

// Value implements the driver.Valuer interface for database serialization
func (v Visibility) Value() (driver.Value, error) {
	return v.String(), nil
}
