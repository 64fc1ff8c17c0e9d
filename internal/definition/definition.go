// Package definition loads query definitions from YAML documents and applies
// them to a query builder.
//
// A document mirrors the fluent API:
//
//	base: http://host/Users
//	select: [Name, Age]
//	orderby: {field: Name, direction: desc}
//	top: 10
//	filters:
//	  - expr:
//	      - eq: {field: Name, value: Bob}
//	      - and
//	      - group:
//	          - gt: {field: Age, value: 30}
//	          - or
//	          - in: {field: Id, values: [1, 2]}
//	  - connective: or
//	    expr:
//	      - contains: {field: Name, value: ob}
package definition

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nlstn/odataquery"
	"gopkg.in/yaml.v3"
)

// ErrInvalidNode is returned for filter nodes that are not exactly one known kind.
var ErrInvalidNode = errors.New("definition: invalid filter node")

// Document is one query definition.
type Document struct {
	Base    string   `yaml:"base"`
	Select  []string `yaml:"select,omitempty"`
	Expand  []string `yaml:"expand,omitempty"`
	OrderBy *OrderBy `yaml:"orderby,omitempty"`
	Top     *int     `yaml:"top,omitempty"`
	Skip    *int     `yaml:"skip,omitempty"`
	Count   bool     `yaml:"count,omitempty"`
	Encode  bool     `yaml:"encode,omitempty"`
	Filters []Clause `yaml:"filters,omitempty"`
}

// OrderBy is the $orderby item of a document.
type OrderBy struct {
	Field     string `yaml:"field"`
	Direction string `yaml:"direction,omitempty"`
}

// Clause is one $filter clause; Connective joins it to the previous clause.
type Clause struct {
	Connective string `yaml:"connective,omitempty"`
	Expr       []Node `yaml:"expr"`
}

// Load reads and validates the document at path.
func Load(path string) (*Document, error) {
	//nolint:gosec // G304: path is supplied by the user on the command line.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read query definition: %w", err)
	}
	doc, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Decode reads and validates one document from r.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &doc, nil
		}
		return nil, fmt.Errorf("failed to parse query definition: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks the parts of the document that have a closed vocabulary:
// sort direction, clause connectives and filter node kinds. Field names and
// values are not checked.
func (d *Document) Validate() error {
	if d.OrderBy != nil {
		if _, err := odataquery.ParseSortDirection(d.OrderBy.Direction); err != nil {
			return fmt.Errorf("orderby: %w", err)
		}
	}
	for i, clause := range d.Filters {
		if _, err := odataquery.ParseConnective(clause.Connective); err != nil {
			return fmt.Errorf("filters[%d]: %w", i, err)
		}
		if err := validateNodes(clause.Expr); err != nil {
			return fmt.Errorf("filters[%d]: %w", i, err)
		}
	}
	return nil
}

// Options returns builder options implied by the document.
func (d *Document) Options() []odataquery.Option {
	if d.Encode {
		return []odataquery.Option{odataquery.WithEncoding(odataquery.EncodingPercent)}
	}
	return nil
}

// NewBuilder validates the document and returns a builder for its base
// address with the document applied. opts are applied after the document's
// own options.
func (d *Document) NewBuilder(opts ...odataquery.Option) (*odataquery.QueryBuilder, error) {
	q := odataquery.New(d.Base, append(d.Options(), opts...)...)
	if err := d.Apply(q); err != nil {
		return nil, err
	}
	return q, nil
}

// Apply validates the document and sets its options on q in the order
// select, expand, orderby, top, skip, count, filters.
func (d *Document) Apply(q *odataquery.QueryBuilder) error {
	if err := d.Validate(); err != nil {
		return err
	}

	if d.Select != nil {
		q.Select(d.Select...)
	}
	if d.Expand != nil {
		q.Expand(d.Expand...)
	}
	if d.OrderBy != nil {
		dir, _ := odataquery.ParseSortDirection(d.OrderBy.Direction)
		q.OrderByDirection(d.OrderBy.Field, dir)
	}
	if d.Top != nil {
		q.Top(*d.Top)
	}
	if d.Skip != nil {
		q.Skip(*d.Skip)
	}
	if d.Count {
		q.Count()
	}
	for _, clause := range d.Filters {
		connective, _ := odataquery.ParseConnective(clause.Connective)
		expr := clause.Expr
		q.FilterWith(connective, func(f *odataquery.FilterBuilder) {
			applyNodes(f, expr)
		})
	}
	return nil
}
