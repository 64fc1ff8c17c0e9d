package definition

import (
	"fmt"

	"github.com/nlstn/odataquery"
	"gopkg.in/yaml.v3"
)

// Node kinds.
const (
	KindEq       = "eq"
	KindNe       = "ne"
	KindGt       = "gt"
	KindGe       = "ge"
	KindLt       = "lt"
	KindLe       = "le"
	KindContains = "contains"
	KindEndsWith = "endswith"
	KindHas      = "has"
	KindIn       = "in"
	KindAnd      = "and"
	KindOr       = "or"
	KindNot      = "not"
	KindGroup    = "group"
	KindInline   = "inline"
)

// Node is one filter token in a document. It is written either as a bare
// connective ("and", "or", "not") or as a single-key mapping from the kind
// to its arguments.
type Node struct {
	Kind     string
	Field    string
	Value    interface{}
	Values   []interface{}
	Children []Node
}

type predicateArgs struct {
	Field  string        `yaml:"field"`
	Value  interface{}   `yaml:"value"`
	Values []interface{} `yaml:"values"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		n.Kind = value.Value
		if !isConnective(n.Kind) {
			return fmt.Errorf("%w: line %d: bare node %q must be and, or or not", ErrInvalidNode, value.Line, value.Value)
		}
		return nil
	case yaml.MappingNode:
	default:
		return fmt.Errorf("%w: line %d: expected a mapping or a connective", ErrInvalidNode, value.Line)
	}

	if len(value.Content) != 2 {
		return fmt.Errorf("%w: line %d: node must have exactly one kind, got %d", ErrInvalidNode, value.Line, len(value.Content)/2)
	}
	key, body := value.Content[0], value.Content[1]
	n.Kind = key.Value

	switch n.Kind {
	case KindAnd, KindOr, KindNot:
		return nil
	case KindGroup, KindInline:
		if body.Kind != yaml.SequenceNode {
			return fmt.Errorf("%w: line %d: %s expects a list of nodes", ErrInvalidNode, body.Line, n.Kind)
		}
		return body.Decode(&n.Children)
	case KindEq, KindNe, KindGt, KindGe, KindLt, KindLe, KindContains, KindEndsWith, KindHas, KindIn:
		if err := checkPredicateKeys(n.Kind, body); err != nil {
			return err
		}
		var args predicateArgs
		if err := body.Decode(&args); err != nil {
			return fmt.Errorf("%s: %w", n.Kind, err)
		}
		n.Field = args.Field
		n.Value = args.Value
		n.Values = args.Values
		return nil
	default:
		return fmt.Errorf("%w: line %d: unknown kind %q", ErrInvalidNode, key.Line, n.Kind)
	}
}

// checkPredicateKeys rejects argument keys the kind does not take. in reads
// values; every other predicate reads value.
func checkPredicateKeys(kind string, body *yaml.Node) error {
	if body.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: line %d: %s expects a mapping of arguments", ErrInvalidNode, body.Line, kind)
	}
	valueKey := "value"
	if kind == KindIn {
		valueKey = "values"
	}
	for i := 0; i+1 < len(body.Content); i += 2 {
		key := body.Content[i]
		if key.Value != "field" && key.Value != valueKey {
			return fmt.Errorf("%w: line %d: %s does not take %q", ErrInvalidNode, key.Line, kind, key.Value)
		}
	}
	return nil
}

func isConnective(kind string) bool {
	return kind == KindAnd || kind == KindOr || kind == KindNot
}

func validateNodes(nodes []Node) error {
	for i, n := range nodes {
		switch n.Kind {
		case KindAnd, KindOr, KindNot:
		case KindGroup, KindInline:
			if err := validateNodes(n.Children); err != nil {
				return fmt.Errorf("%s[%d]: %w", n.Kind, i, err)
			}
		case KindEq, KindNe, KindGt, KindGe, KindLt, KindLe, KindContains, KindEndsWith, KindHas, KindIn:
			if n.Field == "" {
				return fmt.Errorf("%w: %s[%d] has no field", ErrInvalidNode, n.Kind, i)
			}
		default:
			return fmt.Errorf("%w: unknown kind %q at %d", ErrInvalidNode, n.Kind, i)
		}
	}
	return nil
}

func applyNodes(f *odataquery.FilterBuilder, nodes []Node) {
	for _, n := range nodes {
		switch n.Kind {
		case KindEq:
			f.Eq(n.Field, n.Value)
		case KindNe:
			f.Ne(n.Field, n.Value)
		case KindGt:
			f.Gt(n.Field, n.Value)
		case KindGe:
			f.Ge(n.Field, n.Value)
		case KindLt:
			f.Lt(n.Field, n.Value)
		case KindLe:
			f.Le(n.Field, n.Value)
		case KindContains:
			f.Contains(n.Field, text(n.Value))
		case KindEndsWith:
			f.EndsWith(n.Field, text(n.Value))
		case KindHas:
			f.Has(n.Field, text(n.Value))
		case KindIn:
			f.In(n.Field, n.Values...)
		case KindAnd:
			f.And()
		case KindOr:
			f.Or()
		case KindNot:
			f.Not()
		case KindGroup:
			children := n.Children
			f.Group(func(g *odataquery.FilterBuilder) { applyNodes(g, children) })
		case KindInline:
			children := n.Children
			f.Inline(func(g *odataquery.FilterBuilder) { applyNodes(g, children) })
		}
	}
}

func text(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
