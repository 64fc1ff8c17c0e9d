package edm

import (
	"fmt"
	"time"
)

func init() {
	RegisterType("Edm.DateTimeOffset", NewDateTimeOffset)
}

// DateTimeOffset represents an Edm.DateTimeOffset value
type DateTimeOffset struct {
	value  time.Time
	isNull bool
}

// NewDateTimeOffset creates a new Edm.DateTimeOffset from a time.Time or an RFC 3339 string
func NewDateTimeOffset(value interface{}) (Type, error) {
	if value == nil {
		return &DateTimeOffset{isNull: true}, nil
	}

	var ts time.Time
	switch v := value.(type) {
	case time.Time:
		ts = v
	case *time.Time:
		if v == nil {
			return &DateTimeOffset{isNull: true}, nil
		}
		ts = *v
	case string:
		var err error
		ts, err = time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, fmt.Errorf("cannot parse '%s' as Edm.DateTimeOffset: %w", v, err)
		}
	default:
		return nil, fmt.Errorf("cannot convert %T to Edm.DateTimeOffset", value)
	}

	return &DateTimeOffset{value: ts}, nil
}

func (d *DateTimeOffset) TypeName() string { return "Edm.DateTimeOffset" }
func (d *DateTimeOffset) IsNull() bool     { return d.isNull }
func (d *DateTimeOffset) Value() interface{} {
	if d.isNull {
		return nil
	}
	return d.value
}

// String returns the unquoted RFC 3339 form used by OData URL literals
func (d *DateTimeOffset) String() string {
	if d.isNull {
		return "null"
	}
	return d.value.Format(time.RFC3339Nano)
}
