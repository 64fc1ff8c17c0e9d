package odataquery

import (
	"strings"

	"github.com/nlstn/odataquery/internal/edm"
)

// clauseReceiver accepts the finished text of a FilterBuilder. It is
// implemented by FilterBuilder itself (for nested builders) and by the
// top-level adapter a QueryBuilder hands to each Filter call.
type clauseReceiver interface {
	receiveClause(text string)
}

// FilterBuilder accumulates the tokens of one $filter expression.
//
// Every predicate appends exactly one token and returns the same builder so
// calls can be chained:
//
//	f.Eq("Name", "Bob").And().Group(func(g *odataquery.FilterBuilder) {
//	    g.Eq("Age", 1).Or().Eq("Age", 2)
//	})
//	// Name eq 'Bob' and (Age eq 1 or Age eq 2)
//
// Tokens are never removed or reordered. The builder does not check that the
// token sequence forms a valid expression; two predicates without a
// connective, empty groups and empty in lists are rendered as given.
// A FilterBuilder is not safe for concurrent use.
type FilterBuilder struct {
	owner  clauseReceiver
	tokens []string
}

func newFilterBuilder(owner clauseReceiver) *FilterBuilder {
	return &FilterBuilder{owner: owner}
}

// Eq appends "<field> eq <value>".
func (f *FilterBuilder) Eq(field string, value interface{}) *FilterBuilder {
	return f.compare(field, "eq", value)
}

// Ne appends "<field> ne <value>".
func (f *FilterBuilder) Ne(field string, value interface{}) *FilterBuilder {
	return f.compare(field, "ne", value)
}

// Gt appends "<field> gt <value>".
func (f *FilterBuilder) Gt(field string, value interface{}) *FilterBuilder {
	return f.compare(field, "gt", value)
}

// Ge appends "<field> ge <value>".
func (f *FilterBuilder) Ge(field string, value interface{}) *FilterBuilder {
	return f.compare(field, "ge", value)
}

// Lt appends "<field> lt <value>".
func (f *FilterBuilder) Lt(field string, value interface{}) *FilterBuilder {
	return f.compare(field, "lt", value)
}

// Le appends "<field> le <value>".
func (f *FilterBuilder) Le(field string, value interface{}) *FilterBuilder {
	return f.compare(field, "le", value)
}

// Contains appends "contains(<field>, '<value>')". The value is always quoted
// and embedded quotes are not escaped.
func (f *FilterBuilder) Contains(field, value string) *FilterBuilder {
	return f.push("contains(" + field + ", '" + value + "')")
}

// EndsWith appends "endswith(<field>, '<value>')". The value is always quoted
// and embedded quotes are not escaped.
func (f *FilterBuilder) EndsWith(field, value string) *FilterBuilder {
	return f.push("endswith(" + field + ", '" + value + "')")
}

// Has appends "<field> has <value>". The value is a raw enum member literal
// such as Namespace.Color'Red' and is written without quoting.
func (f *FilterBuilder) Has(field, value string) *FilterBuilder {
	return f.push(field + " has " + value)
}

// In appends "<field> in (<v1>,<v2>,...)". Each value is formatted like the
// comparison operands. An empty list yields "<field> in ()".
func (f *FilterBuilder) In(field string, values ...interface{}) *FilterBuilder {
	formatted := make([]string, len(values))
	for i, v := range values {
		formatted[i] = edm.Literal(v)
	}
	return f.push(field + " in (" + strings.Join(formatted, ",") + ")")
}

// And appends the and keyword.
func (f *FilterBuilder) And() *FilterBuilder {
	return f.push("and")
}

// Or appends the or keyword.
func (f *FilterBuilder) Or() *FilterBuilder {
	return f.push("or")
}

// Not appends the not keyword.
func (f *FilterBuilder) Not() *FilterBuilder {
	return f.push("not")
}

// Group runs fn with a child builder and appends the child's expression
// wrapped in parentheses as a single token. Groups nest without limit.
func (f *FilterBuilder) Group(fn func(*FilterBuilder)) *FilterBuilder {
	child := newFilterBuilder(f)
	if fn != nil {
		fn(child)
	}
	return f.push("(" + child.String() + ")")
}

// Inline runs fn with a child builder and finalizes it into f, so the child's
// expression becomes a single token without surrounding parentheses.
func (f *FilterBuilder) Inline(fn func(*FilterBuilder)) *FilterBuilder {
	child := newFilterBuilder(f)
	if fn != nil {
		fn(child)
	}
	child.finalize()
	return f
}

// Len returns the number of tokens accumulated so far.
func (f *FilterBuilder) Len() int {
	return len(f.tokens)
}

// String renders the expression: the tokens joined by single spaces in the
// order they were appended. It has no side effects and may be called any
// number of times.
func (f *FilterBuilder) String() string {
	return strings.Join(f.tokens, " ")
}

// finalize delivers the rendered expression to the owner.
func (f *FilterBuilder) finalize() {
	if f.owner != nil {
		f.owner.receiveClause(f.String())
	}
}

func (f *FilterBuilder) receiveClause(text string) {
	f.push(text)
}

func (f *FilterBuilder) compare(field, op string, value interface{}) *FilterBuilder {
	return f.push(field + " " + op + " " + edm.Literal(value))
}

func (f *FilterBuilder) push(token string) *FilterBuilder {
	f.tokens = append(f.tokens, token)
	return f
}
