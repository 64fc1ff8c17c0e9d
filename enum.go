package odataquery

import (
	"fmt"
	"strings"
)

// QueryOption names one of the system query options the builder can emit.
// The serialized key is the option name prefixed with '$'.
type QueryOption string

// Supported query options.
const (
	OptionSelect  QueryOption = "select"
	OptionExpand  QueryOption = "expand"
	OptionOrderBy QueryOption = "orderby"
	OptionTop     QueryOption = "top"
	OptionSkip    QueryOption = "skip"
	OptionCount   QueryOption = "count"
	OptionFilter  QueryOption = "filter"
)

// Key returns the option as it appears in a query string, e.g. "$filter".
func (o QueryOption) Key() string {
	return "$" + string(o)
}

// SortDirection is the direction of an $orderby item.
// The zero value means ascending.
type SortDirection string

// Sort directions.
const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

func (d SortDirection) orDefault() SortDirection {
	if d == "" {
		return Asc
	}
	return d
}

// ParseSortDirection parses "asc" or "desc" case-insensitively.
// An empty string yields Asc.
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc":
		return Asc, nil
	case "desc":
		return Desc, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSortDirection, s)
	}
}

// Connective is the boolean operator joining two filter clauses.
// The zero value means And.
type Connective string

// Clause connectives.
const (
	And Connective = "and"
	Or  Connective = "or"
)

func (c Connective) orDefault() Connective {
	if c == "" {
		return And
	}
	return c
}

// ParseConnective parses "and" or "or" case-insensitively.
// An empty string yields And.
func ParseConnective(s string) (Connective, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "and":
		return And, nil
	case "or":
		return Or, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidConnective, s)
	}
}

// EncodingPolicy controls how option values are written by Build.
type EncodingPolicy int

const (
	// EncodingNone writes option values verbatim.
	EncodingNone EncodingPolicy = iota
	// EncodingPercent percent-encodes option values, spaces as %20.
	EncodingPercent
)

// String returns the policy name used in logs and span attributes.
func (p EncodingPolicy) String() string {
	switch p {
	case EncodingNone:
		return "none"
	case EncodingPercent:
		return "percent"
	default:
		return fmt.Sprintf("EncodingPolicy(%d)", int(p))
	}
}
