package provider

import (
	"errors"
	"fmt"

	"github.com/broady/axiosgen/ir"
)

// RouteBuilder describes one server operation with Go types.
// Create with Reflector.Route and finish with Catalog.
//
// Types are given as sample values or reflect.Type values:
//
//	r.Route("GET", "/users/{id}", "getUser").
//	    Path("id", int64(0)).
//	    Query("active", false).
//	    Returns(User{})
type RouteBuilder struct {
	r   *Reflector
	op  ir.OperationDescriptor
	err error
}

// Route starts an operation. The key defaults to functionName.
func (r *Reflector) Route(method, url, functionName string) *RouteBuilder {
	return &RouteBuilder{
		r: r,
		op: ir.OperationDescriptor{
			Key:          functionName,
			Method:       method,
			URL:          url,
			FunctionName: functionName,
			Return:       ir.Void(),
		},
	}
}

// Key sets the catalog key.
func (b *RouteBuilder) Key(key string) *RouteBuilder {
	b.op.Key = key
	return b
}

func (b *RouteBuilder) param(p ir.ParameterDescriptor, sample any) *RouteBuilder {
	td, err := b.r.TypeOf(sample)
	if err != nil {
		b.err = errors.Join(b.err, fmt.Errorf("parameter %s: %w", p.Name, err))
		return b
	}
	p.Type = td
	b.op.Parameters = append(b.op.Parameters, p)
	return b
}

// Path adds a parameter bound to the {name} placeholder.
func (b *RouteBuilder) Path(name string, sample any) *RouteBuilder {
	return b.param(ir.ParameterDescriptor{Name: name, Source: ir.SourcePath}, sample)
}

// PathAlias adds a path parameter bound to the {alias} placeholder.
func (b *RouteBuilder) PathAlias(name, alias string, sample any) *RouteBuilder {
	return b.param(ir.ParameterDescriptor{Name: name, Source: ir.SourcePath, Value: alias}, sample)
}

// Query adds a query parameter whose key is its name.
func (b *RouteBuilder) Query(name string, sample any) *RouteBuilder {
	return b.param(ir.ParameterDescriptor{Name: name, Source: ir.SourceQuery}, sample)
}

// QueryKey adds a query parameter sent under key.
func (b *RouteBuilder) QueryKey(name, key string, sample any) *RouteBuilder {
	return b.param(ir.ParameterDescriptor{Name: name, Source: ir.SourceQuery, Value: key}, sample)
}

// Body adds the request body parameter.
func (b *RouteBuilder) Body(name string, sample any) *RouteBuilder {
	return b.param(ir.ParameterDescriptor{Name: name, Source: ir.SourceBody}, sample)
}

// Paged adds page, size and sort query parameters.
func (b *RouteBuilder) Paged() *RouteBuilder {
	b.op.Parameters = append(b.op.Parameters, ir.ParameterDescriptor{Name: "pageable", Source: ir.SourcePaged})
	return b
}

// Returns sets the response type. nil means no response body.
func (b *RouteBuilder) Returns(sample any) *RouteBuilder {
	td, err := b.r.TypeOf(sample)
	if err != nil {
		b.err = errors.Join(b.err, fmt.Errorf("return type: %w", err))
		return b
	}
	b.op.Return = td
	return b
}

// Build returns the operation descriptor.
func (b *RouteBuilder) Build() (ir.OperationDescriptor, error) {
	if b.err != nil {
		return ir.OperationDescriptor{}, fmt.Errorf("route %s: %w", b.op.Key, b.err)
	}
	return b.op, nil
}

// Catalog builds every route, in order.
func Catalog(routes ...*RouteBuilder) (ir.Catalog, error) {
	cat := make(ir.Catalog, 0, len(routes))
	var errs []error
	for _, rb := range routes {
		op, err := rb.Build()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		cat = append(cat, op)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cat, nil
}
