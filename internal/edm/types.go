package edm

import (
	"fmt"
	"reflect"
	"sync"
)

// Type represents an EDM primitive value rendered as an OData URL literal
type Type interface {
	// TypeName returns the EDM type name (e.g., "Edm.String")
	TypeName() string

	// IsNull indicates if the value is null
	IsNull() bool

	// Value returns the underlying Go value
	Value() interface{}

	// String converts to OData literal format
	String() string
}

// Parser is a function that parses a value into an EDM type
type Parser func(value interface{}) (Type, error)

// typeRegistry maintains registered EDM types
// Uses sync.Map for concurrent-safe access during package initialization
var typeRegistry sync.Map

// RegisterType registers a parser for an EDM type name
func RegisterType(typeName string, parser Parser) {
	typeRegistry.Store(typeName, parser)
}

// IsValidType checks if a type name is registered
func IsValidType(typeName string) bool {
	_, ok := typeRegistry.Load(typeName)
	return ok
}

// ParseType parses a value into the specified EDM type
func ParseType(typeName string, value interface{}) (Type, error) {
	val, ok := typeRegistry.Load(typeName)
	if !ok {
		return nil, fmt.Errorf("unknown EDM type: %s", typeName)
	}
	parser, ok := val.(Parser)
	if !ok {
		return nil, fmt.Errorf("invalid parser type for EDM type: %s", typeName)
	}
	return parser(value)
}

// FromGoType infers the EDM type from a Go type
func FromGoType(goType reflect.Type) (string, error) {
	if goType == nil {
		return "", fmt.Errorf("nil type")
	}

	// Handle pointer types
	if goType.Kind() == reflect.Ptr {
		goType = goType.Elem()
	}

	// Check for specific known types
	if goType.PkgPath() == "time" && goType.Name() == "Time" {
		return "Edm.DateTimeOffset", nil
	}

	if goType.PkgPath() == "github.com/shopspring/decimal" && goType.Name() == "Decimal" {
		return "Edm.Decimal", nil
	}

	if goType.PkgPath() == "github.com/google/uuid" && goType.Name() == "UUID" {
		return "Edm.Guid", nil
	}

	// Handle byte slices
	if goType.Kind() == reflect.Slice && goType.Elem().Kind() == reflect.Uint8 {
		return "Edm.Binary", nil
	}

	if goType.Kind() == reflect.Array && goType.Elem().Kind() == reflect.Uint8 {
		return "Edm.Binary", nil
	}

	// Map basic Go types to EDM types
	switch goType.Kind() {
	case reflect.String:
		return "Edm.String", nil
	case reflect.Int, reflect.Int32:
		return "Edm.Int32", nil
	case reflect.Int64:
		return "Edm.Int64", nil
	case reflect.Int16:
		return "Edm.Int16", nil
	case reflect.Int8:
		return "Edm.SByte", nil
	case reflect.Uint, reflect.Uint32:
		return "Edm.Int64", nil
	case reflect.Uint64:
		return "Edm.Int64", nil
	case reflect.Uint16:
		return "Edm.Int32", nil
	case reflect.Uint8:
		return "Edm.Byte", nil
	case reflect.Float32:
		return "Edm.Single", nil
	case reflect.Float64:
		return "Edm.Double", nil
	case reflect.Bool:
		return "Edm.Boolean", nil
	default:
		return "", fmt.Errorf("unsupported Go type: %s", goType.String())
	}
}

// FromGoValue infers the EDM type from a Go value and parses it.
// Pointers are dereferenced; a nil pointer yields a null value of the element type.
// Named types are converted to their underlying kind first.
func FromGoValue(value interface{}) (Type, error) {
	if value == nil {
		return nil, fmt.Errorf("cannot infer type from nil value")
	}
	if t, ok := value.(Type); ok {
		return t, nil
	}

	goType := reflect.TypeOf(value)
	typeName, err := FromGoType(goType)
	if err != nil {
		return nil, err
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return ParseType(typeName, nil)
		}
		rv = rv.Elem()
	}

	return ParseType(typeName, underlying(rv))
}

// underlying strips named types down to the predeclared type of the same kind
// so the per-type parsers only have to handle the basic Go types.
func underlying(rv reflect.Value) interface{} {
	if rv.Type().PkgPath() == "" {
		return rv.Interface()
	}
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Float32:
		return float32(rv.Float())
	case reflect.Float64:
		return rv.Float()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint()
	default:
		return rv.Interface()
	}
}

// Literal renders value as an OData URL literal. Strings are single quoted
// verbatim, numbers use their canonical decimal form and nil renders as null.
// Values with no EDM mapping fall back to their quoted fmt representation.
func Literal(value interface{}) string {
	if value == nil {
		return "null"
	}
	t, err := FromGoValue(value)
	if err != nil {
		if rv := reflect.ValueOf(value); rv.Kind() == reflect.Ptr && rv.IsNil() {
			return "null"
		}
		return quote(fmt.Sprint(value))
	}
	return t.String()
}

func quote(s string) string {
	return "'" + s + "'"
}
