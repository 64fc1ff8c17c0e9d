package odataquery

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

// FieldOption adjusts the names returned by EntityFields.
type FieldOption func(*fieldConfig)

type fieldConfig struct {
	capitalize bool
}

// CapitalizeKeys upper-cases the first letter of every field name, for
// services whose property names are PascalCase while the Go struct is tagged
// with camelCase JSON names.
func CapitalizeKeys() FieldOption {
	return func(c *fieldConfig) {
		c.capitalize = true
	}
}

// EntityFields lists the property names of the struct type T in declaration
// order, for use with Select, Expand and the filter predicates. A field's
// name is taken from its json tag when present, otherwise the Go field name.
// Unexported fields and fields tagged json:"-" are skipped; embedded structs
// are flattened.
//
// The result is a naming aid only; nothing checks that the service knows the
// names.
func EntityFields[T any](opts ...FieldOption) []string {
	cfg := &fieldConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	names := collectFieldNames(t, nil)
	if cfg.capitalize {
		for i, name := range names {
			names[i] = capitalize(name)
		}
	}
	return names
}

func collectFieldNames(t reflect.Type, names []string) []string {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tagName, hasTag := jsonName(field)
		if tagName == "-" {
			continue
		}

		if field.Anonymous && !hasTag {
			ft := field.Type
			if ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				names = collectFieldNames(ft, names)
				continue
			}
		}
		if !field.IsExported() {
			continue
		}

		if hasTag {
			names = append(names, tagName)
		} else {
			names = append(names, field.Name)
		}
	}
	return names
}

// jsonName returns the name part of the json tag and whether it is non-empty.
func jsonName(field reflect.StructField) (string, bool) {
	tag, ok := field.Tag.Lookup("json")
	if !ok {
		return "", false
	}
	name, _, _ := strings.Cut(tag, ",")
	return name, name != ""
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
