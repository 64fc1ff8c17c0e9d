package edm

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

func init() {
	for _, name := range []string{"Edm.Int32", "Edm.Int64", "Edm.Int16", "Edm.Byte", "Edm.SByte"} {
		RegisterType(name, newIntegerParser(name))
	}
	RegisterType("Edm.Double", NewDouble)
	RegisterType("Edm.Single", NewSingle)
}

// Integer represents any of the EDM integer types. Values keep their Go
// width so that unsigned 64-bit inputs render without overflow.
type Integer struct {
	typeName string
	value    interface{}
	literal  string
	isNull   bool
}

func newIntegerParser(typeName string) Parser {
	return func(value interface{}) (Type, error) {
		return NewInteger(typeName, value)
	}
}

// NewInteger creates an integer EDM value of the given type name
func NewInteger(typeName string, value interface{}) (Type, error) {
	if value == nil {
		return &Integer{typeName: typeName, isNull: true}, nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return &Integer{typeName: typeName, isNull: true}, nil
		}
		rv = rv.Elem()
	}

	var literal string
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		literal = strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		literal = strconv.FormatUint(rv.Uint(), 10)
	default:
		return nil, fmt.Errorf("cannot convert %T to %s", value, typeName)
	}

	return &Integer{typeName: typeName, value: rv.Interface(), literal: literal}, nil
}

func (i *Integer) TypeName() string { return i.typeName }
func (i *Integer) IsNull() bool     { return i.isNull }
func (i *Integer) Value() interface{} {
	if i.isNull {
		return nil
	}
	return i.value
}
func (i *Integer) String() string {
	if i.isNull {
		return "null"
	}
	return i.literal
}

// Double represents an Edm.Double value
type Double struct {
	value  float64
	isNull bool
}

// NewDouble creates a new Edm.Double from a value
func NewDouble(value interface{}) (Type, error) {
	if value == nil {
		return &Double{isNull: true}, nil
	}

	var float64Value float64
	switch v := value.(type) {
	case float64:
		float64Value = v
	case *float64:
		if v == nil {
			return &Double{isNull: true}, nil
		}
		float64Value = *v
	case float32:
		float64Value = float64(v)
	case int:
		float64Value = float64(v)
	case int32:
		float64Value = float64(v)
	case int64:
		float64Value = float64(v)
	default:
		return nil, fmt.Errorf("cannot convert %T to Edm.Double", value)
	}

	return &Double{value: float64Value}, nil
}

func (d *Double) TypeName() string { return "Edm.Double" }
func (d *Double) IsNull() bool     { return d.isNull }
func (d *Double) Value() interface{} {
	if d.isNull {
		return nil
	}
	return d.value
}
func (d *Double) String() string {
	if d.isNull {
		return "null"
	}
	return formatFloat(d.value, 64)
}

// Single represents an Edm.Single value
type Single struct {
	value  float32
	isNull bool
}

// NewSingle creates a new Edm.Single from a value
func NewSingle(value interface{}) (Type, error) {
	if value == nil {
		return &Single{isNull: true}, nil
	}

	var float32Value float32
	switch v := value.(type) {
	case float32:
		float32Value = v
	case *float32:
		if v == nil {
			return &Single{isNull: true}, nil
		}
		float32Value = *v
	case float64:
		float32Value = float32(v)
	default:
		return nil, fmt.Errorf("cannot convert %T to Edm.Single", value)
	}

	return &Single{value: float32Value}, nil
}

func (s *Single) TypeName() string { return "Edm.Single" }
func (s *Single) IsNull() bool     { return s.isNull }
func (s *Single) Value() interface{} {
	if s.isNull {
		return nil
	}
	return s.value
}
func (s *Single) String() string {
	if s.isNull {
		return "null"
	}
	return formatFloat(float64(s.value), 32)
}

// formatFloat renders the shortest decimal that round-trips at the given bit
// size. Plain notation is used inside [1e-6, 1e21); outside that range the
// exponent form keeps literals short.
func formatFloat(v float64, bitSize int) string {
	switch {
	case math.IsInf(v, 1):
		return "INF"
	case math.IsInf(v, -1):
		return "-INF"
	case math.IsNaN(v):
		return "NaN"
	}
	abs := math.Abs(v)
	if abs == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(v, 'f', -1, bitSize)
	}
	return trimExponent(strconv.FormatFloat(v, 'g', -1, bitSize))
}

// trimExponent drops the zero padding strconv adds to one-digit exponents,
// so 1e-07 becomes 1e-7.
func trimExponent(s string) string {
	i := strings.IndexByte(s, 'e')
	if i < 0 || i+2 >= len(s) {
		return s
	}
	mantissa, sign, digits := s[:i+1], s[i+1:i+2], strings.TrimLeft(s[i+2:], "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + sign + digits
}
