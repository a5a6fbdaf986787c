package ir

import (
	"sort"
	"strings"
)

// Source identifies where an operation parameter is bound in the request.
type Source int

const (
	SourceNone  Source = iota // Not bound to the request (server-side only)
	SourcePath                // Bound to a {name} placeholder in the URL
	SourceQuery               // Bound to a query string key
	SourceBody                // Bound to the request body
	SourcePaged               // Page/size/sort query parameters
)

// String returns the name of the source.
func (s Source) String() string {
	switch s {
	case SourceNone:
		return "none"
	case SourcePath:
		return "path"
	case SourceQuery:
		return "query"
	case SourceBody:
		return "body"
	case SourcePaged:
		return "paged"
	default:
		return "unknown"
	}
}

// ParseSource converts a source name into a Source.
func ParseSource(s string) (Source, bool) {
	switch strings.ToLower(s) {
	case "", "none":
		return SourceNone, true
	case "path":
		return SourcePath, true
	case "query":
		return SourceQuery, true
	case "body":
		return SourceBody, true
	case "paged":
		return SourcePaged, true
	default:
		return SourceNone, false
	}
}

// ParameterDescriptor describes one parameter of a server operation.
type ParameterDescriptor struct {
	// Name is the declared parameter name.
	Name string

	// Type is the declared parameter type.
	Type TypeDescriptor

	// Source is where the parameter is bound.
	Source Source

	// Value is the explicit binding value: the path alias for SourcePath,
	// the query key for SourceQuery.
	Value string

	// BindingName is the explicit path binding name, used for SourcePath only.
	BindingName string
}

// OperationDescriptor describes one server operation.
type OperationDescriptor struct {
	// Key identifies the operation in the catalog.
	Key string

	// Method is the HTTP verb. Empty means GET.
	Method string

	// URL is the URL template, with {name} placeholders for path variables.
	URL string

	// FunctionName names the generated client function.
	FunctionName string

	// Parameters lists the declared parameters, in order.
	Parameters []ParameterDescriptor

	// Return is the declared return type. Nil is treated as void.
	Return TypeDescriptor
}

// HTTPMethod returns the upper-case HTTP verb, defaulting to GET.
func (op OperationDescriptor) HTTPMethod() string {
	if op.Method == "" {
		return "GET"
	}
	return strings.ToUpper(op.Method)
}

// Catalog is the set of operations exposed by a server.
type Catalog []OperationDescriptor

// Sorted returns a copy of the catalog ordered by operation key.
func (c Catalog) Sorted() Catalog {
	out := make(Catalog, len(c))
	copy(out, c)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Key < out[j].Key
	})
	return out
}

// Find returns the operation with the given key.
func (c Catalog) Find(key string) (OperationDescriptor, bool) {
	for _, op := range c {
		if op.Key == key {
			return op, true
		}
	}
	return OperationDescriptor{}, false
}
