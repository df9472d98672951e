package opportunity

import (
	"database/sql/driver"
	"fmt"
)

// Status represents where an application is in the review process
type Status byte

const (
	StatusPending Status = iota
	StatusReviewing
	StatusShortlisted
	StatusRejected
	StatusAccepted
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusReviewing:
		return "REVIEWING"
	case StatusShortlisted:
		return "SHORTLISTED"
	case StatusRejected:
		return "REJECTED"
	case StatusAccepted:
		return "ACCEPTED"
	default:
		return "UNKNOWN"
	}
}

// StatusFromString converts a string to a Status
func StatusFromString(s string) (Status, bool) {
	switch s {
	case "PENDING":
		return StatusPending, true
	case "REVIEWING":
		return StatusReviewing, true
	case "SHORTLISTED":
		return StatusShortlisted, true
	case "REJECTED":
		return StatusRejected, true
	case "ACCEPTED":
		return StatusAccepted, true
	default:
		return StatusPending, false
	}
}

// MarshalJSON implements the json.Marshaler interface
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (s *Status) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	status, valid := StatusFromString(str)
	if !valid {
		return fmt.Errorf("invalid status: %s", str)
	}
	*s = status
	return nil
}

// Scan implements the sql.Scanner interface for database deserialization
func (s *Status) Scan(value any) error {
	if value == nil {
		*s = StatusPending
		return nil
	}

	var str string
	switch v := value.(type) {
	case string:
		str = v
	case []byte:
		str = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Status", value)
	}

	status, valid := StatusFromString(str)
	if !valid {
		return fmt.Errorf("invalid status value: %s", str)
	}
	*s = status
	return nil
}

// Value implements the driver.Valuer interface for database serialization
func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}
