package edm

import (
	"fmt"

	"github.com/shopspring/decimal"
)

func init() {
	RegisterType("Edm.Decimal", NewDecimal)
}

// Decimal represents an Edm.Decimal value with arbitrary precision
type Decimal struct {
	value  decimal.Decimal
	isNull bool
}

// NewDecimal creates a new Edm.Decimal from a value
func NewDecimal(value interface{}) (Type, error) {
	if value == nil {
		return &Decimal{isNull: true}, nil
	}

	var decValue decimal.Decimal
	switch v := value.(type) {
	case decimal.Decimal:
		decValue = v
	case *decimal.Decimal:
		if v == nil {
			return &Decimal{isNull: true}, nil
		}
		decValue = *v
	case string:
		var err error
		decValue, err = decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("cannot parse '%s' as Edm.Decimal: %w", v, err)
		}
	case float64:
		decValue = decimal.NewFromFloat(v)
	case float32:
		decValue = decimal.NewFromFloat32(v)
	case int:
		decValue = decimal.NewFromInt(int64(v))
	case int32:
		decValue = decimal.NewFromInt32(v)
	case int64:
		decValue = decimal.NewFromInt(v)
	default:
		return nil, fmt.Errorf("cannot convert %T to Edm.Decimal", value)
	}

	return &Decimal{value: decValue}, nil
}

// TypeName returns "Edm.Decimal"
func (d *Decimal) TypeName() string {
	return "Edm.Decimal"
}

// IsNull returns true if the value is null
func (d *Decimal) IsNull() bool {
	return d.isNull
}

// Value returns the underlying decimal.Decimal value
func (d *Decimal) Value() interface{} {
	if d.isNull {
		return nil
	}
	return d.value
}

// String returns the OData literal format. OData 4 does not need the legacy
// M suffix, so the canonical decimal text is used as is.
func (d *Decimal) String() string {
	if d.isNull {
		return "null"
	}
	return d.value.String()
}
