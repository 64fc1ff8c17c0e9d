package definition

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nlstn/odataquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullDocument = `
base: http://www.example.com/Users
select: [Name, Age]
expand: [Orders]
orderby: {field: Name, direction: desc}
top: 10
skip: 5
count: true
filters:
  - expr:
      - eq: {field: Name, value: Bob}
      - and
      - group:
          - gt: {field: Age, value: 30}
          - or: {}
          - in: {field: Id, values: [1, 'two', 3.5]}
  - connective: or
    expr:
      - not
      - contains: {field: Name, value: ob}
`

func TestDecode_FullDocumentMatchesFluentBuilder(t *testing.T) {
	doc, err := Decode(strings.NewReader(fullDocument))
	require.NoError(t, err)

	q, err := doc.NewBuilder()
	require.NoError(t, err)

	expected := odataquery.New("http://www.example.com/Users").
		Select("Name", "Age").
		Expand("Orders").
		OrderByDesc("Name").
		Top(10).
		Skip(5).
		Count().
		Filter(func(f *odataquery.FilterBuilder) {
			f.Eq("Name", "Bob").And().Group(func(g *odataquery.FilterBuilder) {
				g.Gt("Age", 30).Or().In("Id", 1, "two", 3.5)
			})
		}).
		FilterWith(odataquery.Or, func(f *odataquery.FilterBuilder) {
			f.Not().Contains("Name", "ob")
		})

	assert.Equal(t, expected.Build(), q.Build())
	assert.Equal(t,
		"http://www.example.com/Users?$select=Name,Age&$expand=Orders&$orderby=Name desc&$top=10&$skip=5&$count=true"+
			"&$filter=Name eq 'Bob' and (Age gt 30 or Id in (1,'two',3.5)) or not contains(Name, 'ob')",
		q.Build())
}

func TestDecode_ValueTypesFollowYAML(t *testing.T) {
	doc, err := Decode(strings.NewReader(`
base: http://x/Items
filters:
  - expr:
      - eq: {field: Code, value: '30'}
      - and
      - eq: {field: Qty, value: 30}
      - and
      - eq: {field: Active, value: true}
      - and
      - ne: {field: Manager, value: null}
      - and
      - has: {field: Style, value: "Sales.Pattern'Yellow'"}
      - and
      - endswith: {field: Sku, value: 42}
`))
	require.NoError(t, err)

	q, err := doc.NewBuilder()
	require.NoError(t, err)

	filter, _ := q.Get(odataquery.OptionFilter)
	assert.Equal(t,
		"Code eq '30' and Qty eq 30 and Active eq true and Manager ne null and Style has Sales.Pattern'Yellow' and endswith(Sku, '42')",
		filter)
}

func TestDecode_Inline(t *testing.T) {
	doc, err := Decode(strings.NewReader(`
base: http://x/Items
filters:
  - expr:
      - eq: {field: A, value: 1}
      - and
      - inline:
          - eq: {field: B, value: 2}
          - or
          - eq: {field: C, value: 3}
`))
	require.NoError(t, err)

	q, err := doc.NewBuilder()
	require.NoError(t, err)
	filter, _ := q.Get(odataquery.OptionFilter)
	assert.Equal(t, "A eq 1 and B eq 2 or C eq 3", filter)
}

func TestDecode_Encode(t *testing.T) {
	doc, err := Decode(strings.NewReader("base: http://x/Items\nencode: true\nselect: [A, B]\n"))
	require.NoError(t, err)

	q, err := doc.NewBuilder()
	require.NoError(t, err)
	assert.Equal(t, "http://x/Items?$select=A%2CB", q.Build())
}

func TestDecode_EmptyInput(t *testing.T) {
	doc, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, &Document{}, doc)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		message string
	}{
		{
			name:    "unknown kind",
			input:   "filters:\n  - expr:\n      - like: {field: A, value: 1}\n",
			wantErr: ErrInvalidNode,
			message: `unknown kind "like"`,
		},
		{
			name:    "two kinds in one node",
			input:   "filters:\n  - expr:\n      - eq: {field: A, value: 1}\n        ne: {field: B, value: 2}\n",
			wantErr: ErrInvalidNode,
			message: "exactly one kind",
		},
		{
			name:    "bare predicate",
			input:   "filters:\n  - expr:\n      - eq\n",
			wantErr: ErrInvalidNode,
			message: "must be and, or or not",
		},
		{
			name:    "group without list",
			input:   "filters:\n  - expr:\n      - group: {field: A}\n",
			wantErr: ErrInvalidNode,
			message: "expects a list",
		},
		{
			name:    "predicate without field",
			input:   "filters:\n  - expr:\n      - eq: {value: 1}\n",
			wantErr: ErrInvalidNode,
			message: "has no field",
		},
		{
			name:    "nested predicate without field",
			input:   "filters:\n  - expr:\n      - group:\n          - gt: {value: 1}\n",
			wantErr: ErrInvalidNode,
			message: "group[0]",
		},
		{
			name:    "misspelled predicate argument",
			input:   "filters:\n  - expr:\n      - eq: {field: Name, vlaue: Bob}\n",
			wantErr: ErrInvalidNode,
			message: `eq does not take "vlaue"`,
		},
		{
			name:    "value given to in",
			input:   "filters:\n  - expr:\n      - in: {field: Id, value: [1, 2]}\n",
			wantErr: ErrInvalidNode,
			message: `in does not take "value"`,
		},
		{
			name:    "values given to a comparison",
			input:   "filters:\n  - expr:\n      - gt: {field: Age, values: [1]}\n",
			wantErr: ErrInvalidNode,
			message: `gt does not take "values"`,
		},
		{
			name:    "predicate arguments not a mapping",
			input:   "filters:\n  - expr:\n      - eq: Name\n",
			wantErr: ErrInvalidNode,
			message: "expects a mapping of arguments",
		},
		{
			name:    "bad connective",
			input:   "filters:\n  - connective: xor\n    expr: []\n",
			wantErr: odataquery.ErrInvalidConnective,
		},
		{
			name:    "bad direction",
			input:   "orderby: {field: A, direction: up}\n",
			wantErr: odataquery.ErrInvalidSortDirection,
		},
		{
			name:    "unknown top-level key",
			input:   "base: x\nlimit: 3\n",
			message: "field limit not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.message != "" {
				assert.Contains(t, err.Error(), tt.message)
			}
		})
	}
}

func TestApply_ValidatesProgrammaticDocuments(t *testing.T) {
	doc := &Document{
		Base:    "http://x/Items",
		Filters: []Clause{{Expr: []Node{{Kind: "between", Field: "A"}}}},
	}

	q := odataquery.New(doc.Base)
	err := doc.Apply(q)
	require.ErrorIs(t, err, ErrInvalidNode)
	assert.Empty(t, q.Options(), "nothing is applied when validation fails")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "query.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fullDocument), 0o600))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://www.example.com/Users", doc.Base)
	assert.Len(t, doc.Filters, 2)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read query definition")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("filters:\n  - expr:\n      - xor\n"), 0o600))
	_, err = Load(bad)
	require.ErrorIs(t, err, ErrInvalidNode)
	assert.Contains(t, err.Error(), bad)
}
