// Package odataquery builds OData v4 query strings from a fluent API.
//
// A QueryBuilder collects the system query options $select, $expand,
// $orderby, $top, $skip, $count and $filter for one resource address and
// serializes them on Build:
//
//	q := odataquery.New("https://example.com/odata/Users").
//	    Select("Name", "Age").
//	    OrderBy("Name").
//	    Top(10).
//	    Filter(func(f *odataquery.FilterBuilder) {
//	        f.Gt("Age", 30).And().Contains("Name", "Bo")
//	    })
//
//	q.Build()
//	// https://example.com/odata/Users?$select=Name,Age&$orderby=Name asc&$top=10&$filter=Age gt 30 and contains(Name, 'Bo')
//
// The builders assemble strings; they do not validate field names, token
// order or numeric ranges, and never return errors.
package odataquery

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/nlstn/odataquery/internal/observability"
)

// QueryBuilder accumulates query options for one resource address.
//
// Options are serialized in the order they were first set; setting an option
// again replaces its value but keeps its position. $filter is the exception to
// replacement: every Filter call adds a clause. A QueryBuilder is not safe for
// concurrent use.
type QueryBuilder struct {
	base          string
	values        map[QueryOption]string
	order         []QueryOption
	filterClauses []filterClause
	logger        *slog.Logger
	encoding      EncodingPolicy
	observability *observability.Config
}

// filterClause is one finished $filter expression together with the
// connective that joins it to the clause before it.
type filterClause struct {
	text       string
	connective Connective
}

// topLevelClause delivers a finished FilterBuilder to its QueryBuilder.
type topLevelClause struct {
	query      *QueryBuilder
	connective Connective
}

func (t topLevelClause) receiveClause(text string) {
	t.query.addFilterClause(text, t.connective)
}

// New creates a QueryBuilder for baseAddress. The address is used verbatim.
func New(baseAddress string, opts ...Option) *QueryBuilder {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	return &QueryBuilder{
		base:          baseAddress,
		values:        make(map[QueryOption]string),
		logger:        cfg.logger,
		encoding:      cfg.encoding,
		observability: cfg.observability,
	}
}

// BaseAddress returns the resource address the query is built against.
func (q *QueryBuilder) BaseAddress() string {
	return q.base
}

// Select sets $select to the comma-joined fields in the given order.
// Duplicates are kept.
func (q *QueryBuilder) Select(fields ...string) *QueryBuilder {
	return q.set(OptionSelect, strings.Join(fields, ","))
}

// Expand sets $expand to the comma-joined fields in the given order.
// Duplicates are kept.
func (q *QueryBuilder) Expand(fields ...string) *QueryBuilder {
	return q.set(OptionExpand, strings.Join(fields, ","))
}

// OrderBy sets $orderby to "<field> asc".
func (q *QueryBuilder) OrderBy(field string) *QueryBuilder {
	return q.OrderByDirection(field, Asc)
}

// OrderByDesc sets $orderby to "<field> desc".
func (q *QueryBuilder) OrderByDesc(field string) *QueryBuilder {
	return q.OrderByDirection(field, Desc)
}

// OrderByDirection sets $orderby to "<field> <direction>". The zero
// SortDirection is treated as Asc.
func (q *QueryBuilder) OrderByDirection(field string, direction SortDirection) *QueryBuilder {
	return q.set(OptionOrderBy, field+" "+string(direction.orDefault()))
}

// Top sets $top. The value is not range checked.
func (q *QueryBuilder) Top(n int) *QueryBuilder {
	return q.set(OptionTop, strconv.Itoa(n))
}

// Skip sets $skip. The value is not range checked.
func (q *QueryBuilder) Skip(n int) *QueryBuilder {
	return q.set(OptionSkip, strconv.Itoa(n))
}

// Count sets $count=true.
func (q *QueryBuilder) Count() *QueryBuilder {
	return q.set(OptionCount, "true")
}

// Filter adds a $filter clause built by fn, joined to any earlier clause with and.
func (q *QueryBuilder) Filter(fn func(*FilterBuilder)) *QueryBuilder {
	return q.FilterWith(And, fn)
}

// FilterWith adds a $filter clause built by fn. The connective joins this
// clause to the previous one; it has no effect on the first clause. The zero
// Connective is treated as And.
//
// Clauses are joined without added parentheses, so mixing and and or across
// calls follows normal OData precedence. Use Group inside fn when a clause
// must bind as a unit.
func (q *QueryBuilder) FilterWith(connective Connective, fn func(*FilterBuilder)) *QueryBuilder {
	fb := newFilterBuilder(topLevelClause{query: q, connective: connective.orDefault()})
	if fn != nil {
		fn(fb)
	}
	fb.finalize()
	return q
}

func (q *QueryBuilder) addFilterClause(text string, connective Connective) {
	q.filterClauses = append(q.filterClauses, filterClause{text: text, connective: connective})

	var sb strings.Builder
	for i, clause := range q.filterClauses {
		if i > 0 {
			sb.WriteString(" ")
			sb.WriteString(string(clause.connective))
			sb.WriteString(" ")
		}
		sb.WriteString(clause.text)
	}
	q.set(OptionFilter, sb.String())

	q.observability.Metrics().RecordFilterClause(context.Background(), string(connective))
	q.logger.Debug("odata filter clause added",
		"clause", text,
		"connective", string(connective),
		"clauses", len(q.filterClauses))
}

// Get returns the current serialized value of option.
func (q *QueryBuilder) Get(option QueryOption) (string, bool) {
	v, ok := q.values[option]
	return v, ok
}

// Options returns the options that are set, in serialization order.
func (q *QueryBuilder) Options() []QueryOption {
	return append([]QueryOption(nil), q.order...)
}

// Build returns "<base>?$<option>=<value>&..." with options in the order
// they were first set. Build does not modify the builder and may be called
// at any point, any number of times.
func (q *QueryBuilder) Build() string {
	return q.BuildContext(context.Background())
}

// BuildContext is Build with tracing and metrics recorded against ctx.
func (q *QueryBuilder) BuildContext(ctx context.Context) string {
	start := time.Now()
	tracer := q.observability.Tracer()
	ctx, span := tracer.StartBuild(ctx, q.base, len(q.order), q.encoding.String())
	defer span.End()

	traceOptions := q.observability.QueryOptionTracingEnabled()
	params := make([]string, 0, len(q.order))
	for _, opt := range q.order {
		value := q.values[opt]
		if traceOptions {
			tracer.AddQueryOption(span, string(opt), value)
		}
		params = append(params, opt.Key()+"="+q.encode(value))
	}
	query := q.base + "?" + strings.Join(params, "&")

	tracer.SetQueryLength(span, len(query))
	q.observability.Metrics().RecordBuild(ctx, q.base, len(q.order), time.Since(start))
	observability.LoggerWithTrace(ctx, q.logger).Debug("odata query built",
		"base", q.base,
		"options", len(q.order),
		"encoding", q.encoding.String())

	return query
}

// String implements fmt.Stringer by returning Build().
func (q *QueryBuilder) String() string {
	return q.Build()
}

// Fingerprint returns a 64-bit xxhash of Build(). Builders producing the same
// query string have the same fingerprint, which makes it usable as a cache key.
func (q *QueryBuilder) Fingerprint() uint64 {
	return xxhash.Sum64String(q.Build())
}

func (q *QueryBuilder) set(option QueryOption, value string) *QueryBuilder {
	if _, exists := q.values[option]; !exists {
		q.order = append(q.order, option)
	}
	q.values[option] = value
	return q
}

func (q *QueryBuilder) encode(value string) string {
	if q.encoding != EncodingPercent {
		return value
	}
	return strings.ReplaceAll(url.QueryEscape(value), "+", "%20")
}
