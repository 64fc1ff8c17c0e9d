package edm

import (
	"encoding/base64"
	"fmt"
	"reflect"
)

func init() {
	RegisterType("Edm.Binary", NewBinary)
}

// Binary represents an Edm.Binary value
type Binary struct {
	value  []byte
	isNull bool
}

// NewBinary creates a new Edm.Binary from a byte slice or byte array
func NewBinary(value interface{}) (Type, error) {
	if value == nil {
		return &Binary{isNull: true}, nil
	}

	switch v := value.(type) {
	case []byte:
		if v == nil {
			return &Binary{isNull: true}, nil
		}
		return &Binary{value: v}, nil
	case *[]byte:
		if v == nil || *v == nil {
			return &Binary{isNull: true}, nil
		}
		return &Binary{value: *v}, nil
	}

	rv := reflect.ValueOf(value)
	if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type().Elem().Kind() == reflect.Uint8 {
		buf := make([]byte, rv.Len())
		reflect.Copy(reflect.ValueOf(buf), rv)
		return &Binary{value: buf}, nil
	}
	return nil, fmt.Errorf("cannot convert %T to Edm.Binary", value)
}

func (b *Binary) TypeName() string { return "Edm.Binary" }
func (b *Binary) IsNull() bool     { return b.isNull }
func (b *Binary) Value() interface{} {
	if b.isNull {
		return nil
	}
	return b.value
}

// String returns binary'<base64url>'
func (b *Binary) String() string {
	if b.isNull {
		return "null"
	}
	return "binary" + quote(base64.URLEncoding.EncodeToString(b.value))
}
