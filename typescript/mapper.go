package typescript

import (
	"context"
	"fmt"
	"strings"

	"github.com/broady/axiosgen/ir"
)

const (
	// UntypedExpr is the expression used for types that cannot be expressed.
	UntypedExpr = "any"

	// VoidExpr is the expression for operations without a response body.
	VoidExpr = "void"
)

// ScanFilter is a list of namespace prefixes. Composite types whose namespace
// does not start with one of the prefixes are rendered as UntypedExpr and are
// never emitted.
type ScanFilter []string

// Allows reports whether namespace starts with one of the filter's prefixes.
func (f ScanFilter) Allows(namespace string) bool {
	for _, p := range f {
		if strings.HasPrefix(namespace, p) {
			return true
		}
	}
	return false
}

// TargetType is the result of mapping a descriptor: the rendered TypeScript
// expression and the descriptors that contributed to it, in order.
type TargetType struct {
	Types []ir.TypeDescriptor
	Expr  string
}

func (t TargetType) String() string { return t.Expr }

// Imports returns the names a unit using t must import, in first-reference
// order. Only in-filter composites and enums are kept; self is excluded.
func (t TargetType) Imports(filter ScanFilter, self string) []string {
	return importNames(t.Types, filter, self)
}

func importNames(types []ir.TypeDescriptor, filter ScanFilter, self string) []string {
	var out []string
	seen := map[string]bool{self: true}
	for _, td := range types {
		var name string
		switch d := td.(type) {
		case *ir.EnumDescriptor:
			name = d.Name.Name
		case *ir.CompositeDescriptor:
			if !filter.Allows(d.Name.Namespace) {
				continue
			}
			name = d.Name.Name
		default:
			continue
		}
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// Emitter writes declarations for named types discovered by a Mapper.
// Implementations must be idempotent per name.
type Emitter interface {
	EmitInterface(ctx context.Context, c *ir.CompositeDescriptor) error
	EmitEnum(ctx context.Context, e *ir.EnumDescriptor) error
}

// Mapper converts type descriptors to TypeScript type expressions.
type Mapper struct {
	filter  ScanFilter
	emitter Emitter
}

// NewMapper returns a mapper for filter. Named types discovered by Map are
// handed to emitter; a nil emitter makes Map equivalent to Resolve.
func NewMapper(filter ScanFilter, emitter Emitter) *Mapper {
	return &Mapper{filter: filter, emitter: emitter}
}

// Filter returns the mapper's scan filter.
func (m *Mapper) Filter() ScanFilter { return m.filter }

type resolution struct {
	found []ir.Named
	err   error
}

func (r *resolution) discover(n ir.Named) {
	r.found = append(r.found, n)
}

// Resolve renders td without emitting anything. It returns the target type and
// the enums and in-filter composites encountered, in discovery order.
// Malformed descriptors render as UntypedExpr.
func (m *Mapper) Resolve(td ir.TypeDescriptor) (TargetType, []ir.Named) {
	var r resolution
	t := m.resolve(td, &r)
	return t, r.found
}

// Map resolves td and makes sure every named type it references has been
// emitted.
func (m *Mapper) Map(ctx context.Context, td ir.TypeDescriptor) (TargetType, error) {
	var r resolution
	t := m.resolve(td, &r)
	if r.err != nil {
		return t, r.err
	}
	if m.emitter == nil {
		return t, nil
	}
	for _, n := range r.found {
		var err error
		switch d := n.(type) {
		case *ir.CompositeDescriptor:
			err = m.emitter.EmitInterface(ctx, d)
		case *ir.EnumDescriptor:
			err = m.emitter.EmitEnum(ctx, d)
		}
		if err != nil {
			return t, err
		}
	}
	return t, nil
}

func untyped() TargetType {
	return TargetType{Expr: UntypedExpr}
}

func (m *Mapper) resolve(td ir.TypeDescriptor, r *resolution) TargetType {
	switch d := td.(type) {
	case *ir.ScalarDescriptor:
		return TargetType{Types: []ir.TypeDescriptor{d}, Expr: scalarExpr(d.Kind())}

	case *ir.ArrayDescriptor:
		elem := m.resolve(d.Element, r)
		return TargetType{Types: elem.Types, Expr: "Array<" + elem.Expr + ">"}

	case *ir.EnumDescriptor:
		r.discover(d)
		return TargetType{Types: []ir.TypeDescriptor{d}, Expr: d.Name.Name}

	case *ir.CompositeDescriptor:
		if !m.filter.Allows(d.Name.Namespace) {
			return untyped()
		}
		r.discover(d)
		expr := d.Name.Name
		if len(d.TypeParameters) > 0 {
			expr += "<" + strings.Join(d.TypeParameters, ", ") + ">"
		}
		return TargetType{Types: []ir.TypeDescriptor{d}, Expr: expr}

	case *ir.ParameterizedDescriptor:
		return m.resolveParameterized(d, r)

	case *ir.TypeVariableDescriptor:
		return TargetType{Expr: d.Name}
	}
	return untyped()
}

func (m *Mapper) resolveParameterized(d *ir.ParameterizedDescriptor, r *resolution) TargetType {
	if len(d.Arguments) == 0 {
		if r.err == nil {
			name := d.RawName().String()
			if name == "" {
				name = strings.ToLower(d.Raw.String())
			}
			r.err = fmt.Errorf("%s: %w", name, ErrEmptyArguments)
		}
		return untyped()
	}

	var prefix string
	var types []ir.TypeDescriptor
	switch d.Raw {
	case ir.RawMap:
		prefix = "Map"
	case ir.RawCollection:
		prefix = "Array"
	default:
		base, ok := d.Base.(*ir.CompositeDescriptor)
		if !ok || !m.filter.Allows(base.Name.Namespace) {
			return untyped()
		}
		r.discover(base)
		prefix = base.Name.Name
		types = append(types, base)
	}

	args := make([]string, len(d.Arguments))
	for i, a := range d.Arguments {
		t := m.resolve(a, r)
		args[i] = t.Expr
		types = append(types, t.Types...)
	}
	return TargetType{Types: types, Expr: prefix + "<" + strings.Join(args, ", ") + ">"}
}

func scalarExpr(k ir.Kind) string {
	switch k {
	case ir.KindVoid:
		return VoidExpr
	case ir.KindString:
		return "string"
	case ir.KindBoolean:
		return "boolean"
	case ir.KindNumber:
		return "number"
	}
	return UntypedExpr
}
