package edm

import (
	"fmt"

	"github.com/google/uuid"
)

func init() {
	RegisterType("Edm.Guid", NewGuid)
}

// Guid represents an Edm.Guid value. Guid literals are not quoted in URLs.
type Guid struct {
	value  uuid.UUID
	isNull bool
}

// NewGuid creates a new Edm.Guid from a uuid.UUID or its string form
func NewGuid(value interface{}) (Type, error) {
	if value == nil {
		return &Guid{isNull: true}, nil
	}

	var id uuid.UUID
	switch v := value.(type) {
	case uuid.UUID:
		id = v
	case *uuid.UUID:
		if v == nil {
			return &Guid{isNull: true}, nil
		}
		id = *v
	case string:
		var err error
		id, err = uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("cannot parse '%s' as Edm.Guid: %w", v, err)
		}
	default:
		return nil, fmt.Errorf("cannot convert %T to Edm.Guid", value)
	}

	return &Guid{value: id}, nil
}

func (g *Guid) TypeName() string { return "Edm.Guid" }
func (g *Guid) IsNull() bool     { return g.isNull }
func (g *Guid) Value() interface{} {
	if g.isNull {
		return nil
	}
	return g.value
}
func (g *Guid) String() string {
	if g.isNull {
		return "null"
	}
	return g.value.String()
}
