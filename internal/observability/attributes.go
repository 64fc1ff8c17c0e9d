// Package observability provides OpenTelemetry-based instrumentation for the query builder.
//
// It supports tracing of query builds and metrics on built queries and filter clauses.
//
// All observability features are opt-in. When not configured, no-op implementations
// are used with zero performance overhead.
package observability

import "go.opentelemetry.io/otel/attribute"

// Instrumentation identity constants
const (
	// TracerName is the instrumentation name for tracing.
	TracerName = "github.com/nlstn/odataquery"
	// MeterName is the instrumentation name for metrics.
	MeterName = "github.com/nlstn/odataquery"
)

// Semantic attribute keys following OpenTelemetry conventions.
const (
	AttrResource    = "odata.resource"
	AttrOptionCount = "odata.query.option_count"
	AttrEncoding    = "odata.query.encoding"
	AttrConnective  = "odata.filter.connective"
	AttrQueryLength = "odata.query.length"
	AttrService     = "service.name"

	// Query option attributes
	AttrQueryFilter  = "odata.query.filter"
	AttrQueryExpand  = "odata.query.expand"
	AttrQuerySelect  = "odata.query.select"
	AttrQueryOrderBy = "odata.query.orderby"
	AttrQueryTop     = "odata.query.top"
	AttrQuerySkip    = "odata.query.skip"
	AttrQueryCount   = "odata.query.count"
)

// Log field keys for structured logging with trace context.
const (
	LogFieldTraceID = "trace_id"
	LogFieldSpanID  = "span_id"
)

// ResourceAttr creates an attribute for the base resource address.
func ResourceAttr(base string) attribute.KeyValue {
	return attribute.String(AttrResource, base)
}

// ServiceAttr creates an attribute naming the calling service.
func ServiceAttr(name string) attribute.KeyValue {
	return attribute.String(AttrService, name)
}

// ConnectiveAttr creates an attribute for a clause connective.
func ConnectiveAttr(connective string) attribute.KeyValue {
	return attribute.String(AttrConnective, connective)
}

// EncodingAttr creates an attribute for the value encoding policy.
func EncodingAttr(policy string) attribute.KeyValue {
	return attribute.String(AttrEncoding, policy)
}

// queryOptionKeys maps query option names to their span attribute keys.
var queryOptionKeys = map[string]string{
	"filter":  AttrQueryFilter,
	"expand":  AttrQueryExpand,
	"select":  AttrQuerySelect,
	"orderby": AttrQueryOrderBy,
	"top":     AttrQueryTop,
	"skip":    AttrQuerySkip,
	"count":   AttrQueryCount,
}

// QueryOptionAttr creates an attribute for one serialized query option.
// Unknown option names are recorded under odata.query.<name>.
func QueryOptionAttr(name, value string) attribute.KeyValue {
	key, ok := queryOptionKeys[name]
	if !ok {
		key = "odata.query." + name
	}
	return attribute.String(key, value)
}
