package typescript

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/broady/axiosgen/ir"
	"github.com/broady/axiosgen/sink"
)

// FileName returns the name of the file holding the declaration of name.
func FileName(name string) string {
	return name + ".ts"
}

// ImportLine returns the type-only import statement for name.
func ImportLine(name string) string {
	return "import type { " + name + " } from './" + name + "';"
}

// InterfaceEmitter writes one declaration file per composite or enum type.
// It owns the Mapper used for field types so that nested types are emitted
// through the same registry.
type InterfaceEmitter struct {
	out sink.OutputSink

	// registry is shared with the client file, which imports every name
	// claimed here.
	registry *Registry
	mapper   *Mapper
	logger   *slog.Logger

	// files lists the paths written, in write order.
	files []string
}

// NewInterfaceEmitter returns an emitter writing to out and recording emitted
// names in registry.
func NewInterfaceEmitter(out sink.OutputSink, registry *Registry, filter ScanFilter) *InterfaceEmitter {
	e := &InterfaceEmitter{
		out:      out,
		registry: registry,
		logger:   slog.Default(),
	}
	e.mapper = NewMapper(filter, e)
	return e
}

// WithLogger sets the logger used for debug output.
func (e *InterfaceEmitter) WithLogger(logger *slog.Logger) *InterfaceEmitter {
	if logger != nil {
		e.logger = logger
	}
	return e
}

// Mapper returns the mapper bound to this emitter.
func (e *InterfaceEmitter) Mapper() *Mapper { return e.mapper }

// Registry returns the emitter's registry.
func (e *InterfaceEmitter) Registry() *Registry { return e.registry }

// Files returns the paths written so far, in write order.
func (e *InterfaceEmitter) Files() []string {
	return append([]string(nil), e.files...)
}

// EmitInterface writes the interface declaration for c unless a declaration
// with the same name was already emitted. The name is claimed before any
// field is mapped, so self-referential types terminate.
func (e *InterfaceEmitter) EmitInterface(ctx context.Context, c *ir.CompositeDescriptor) error {
	// Declarations are keyed by simple name: a second type with the same
	// name in another namespace is not written again.
	name := c.Name.Name
	if !e.registry.Claim(name) {
		return nil
	}

	// The body is rendered before the imports because the imports depend
	// on the field types.
	var body bytes.Buffer
	var refs []ir.TypeDescriptor

	body.WriteString("export interface ")
	body.WriteString(name)
	if len(c.TypeParameters) > 0 {
		body.WriteString("<")
		for i, p := range c.TypeParameters {
			if i > 0 {
				body.WriteString(", ")
			}
			body.WriteString(p)
		}
		body.WriteString(">")
	}
	body.WriteString(" {\n")

	// Emit fields
	for _, f := range c.Fields {
		if f.Ignore {
			continue
		}
		// Map emits any in-filter type the field references, which may
		// recurse back into this emitter.
		t, err := e.mapper.Map(ctx, f.Type)
		if err != nil {
			return err
		}
		refs = append(refs, t.Types...)

		// Field name (quoted if not a valid identifier)
		body.WriteString("\t")
		body.WriteString(propertyName(f.Name))
		body.WriteString(": ")
		body.WriteString(t.Expr)
		body.WriteString(";\n")
	}
	body.WriteString("}\n")

	// Imports in first-reference order, without the type itself.
	var buf bytes.Buffer
	for _, imp := range importNames(refs, e.mapper.filter, name) {
		buf.WriteString(ImportLine(imp))
		buf.WriteString("\n")
	}
	buf.Write(body.Bytes())

	return e.write(ctx, name, buf.Bytes())
}

// EmitEnum writes the enum declaration for en unless a declaration with the
// same name was already emitted.
func (e *InterfaceEmitter) EmitEnum(ctx context.Context, en *ir.EnumDescriptor) error {
	name := en.Name.Name
	if !e.registry.Claim(name) {
		return nil
	}

	var buf bytes.Buffer
	buf.WriteString("export enum ")
	buf.WriteString(name)
	buf.WriteString(" {\n")
	// Each member's value is its own name, matching how the server
	// serializes the constant.
	for _, c := range en.Constants {
		buf.WriteString("\t")
		buf.WriteString(propertyName(c))
		buf.WriteString(" = ")
		buf.WriteString(quote(c))
		buf.WriteString(",\n")
	}
	buf.WriteString("}\n")

	return e.write(ctx, name, buf.Bytes())
}

// write stores the declaration of name. A sink failure is returned as a
// *PersistenceError, which aborts the run.
func (e *InterfaceEmitter) write(ctx context.Context, name string, content []byte) error {
	path := FileName(name)
	if err := e.out.WriteFile(ctx, path, content); err != nil {
		return &PersistenceError{Path: path, Err: err}
	}
	e.files = append(e.files, path)
	e.logger.Debug("emitted declaration", "type", name, "file", path)
	return nil
}
