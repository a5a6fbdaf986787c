package provider

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/broady/axiosgen/ir"
)

// Built-in names accepted in type expressions.
var scalarNames = map[string]func() *ir.ScalarDescriptor{
	"void": ir.Void, "Void": ir.Void,
	"string": ir.String, "String": ir.String,
	"boolean": ir.Boolean, "Boolean": ir.Boolean, "bool": ir.Boolean,
	"number": ir.Number, "int": ir.Number, "Integer": ir.Number, "long": ir.Number, "Long": ir.Number,
	"short": ir.Number, "Short": ir.Number, "byte": ir.Number, "Byte": ir.Number,
	"float": ir.Number, "Float": ir.Number, "double": ir.Number, "Double": ir.Number,
	"char": ir.Number, "Character": ir.Number, "BigDecimal": ir.Number, "BigInteger": ir.Number,
}

var collectionNames = map[string]bool{
	"Array": true, "List": true, "Set": true, "Collection": true, "Iterable": true,
	"ArrayList": true, "LinkedList": true, "HashSet": true, "TreeSet": true,
}

var mapNames = map[string]bool{
	"Map": true, "HashMap": true, "LinkedHashMap": true, "TreeMap": true, "Record": true,
}

// untypedNames render as any; type arguments are accepted and dropped.
var untypedNames = map[string]bool{
	"any": true, "Object": true, "unknown": true, "Optional": true,
}

// typeScope resolves the names used in type expressions.
type typeScope struct {
	// named holds declared types by simple and qualified name.
	named map[string]ir.TypeDescriptor

	// vars holds the type variables in scope.
	vars map[string]bool
}

func (s *typeScope) withVars(vars []string) *typeScope {
	out := &typeScope{named: s.named, vars: make(map[string]bool, len(vars))}
	for _, v := range vars {
		out.vars[v] = true
	}
	return out
}

// ParseTypeExpr parses a type expression that only uses built-in names,
// for example "List<string>" or "Map<string, number[]>".
func ParseTypeExpr(expr string) (ir.TypeDescriptor, error) {
	return (&typeScope{}).parse(expr)
}

// parse parses a type expression:
//
//	type    = primary { "[" "]" }
//	primary = "?" [ "extends" type { "&" type } ]
//	        | name [ "<" type { "," type } ">" ]
func (s *typeScope) parse(expr string) (ir.TypeDescriptor, error) {
	p := &exprParser{src: expr, scope: s}
	td, err := p.parseType()
	if err != nil {
		return nil, fmt.Errorf("type %q: %w", expr, err)
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return nil, fmt.Errorf("type %q: unexpected %q at offset %d", expr, p.src[p.pos:], p.pos)
	}
	return td, nil
}

type exprParser struct {
	src   string
	pos   int
	scope *typeScope
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *exprParser) accept(c byte) bool {
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *exprParser) expect(c byte) error {
	if !p.accept(c) {
		if p.pos >= len(p.src) {
			return fmt.Errorf("expected %q at end of input", c)
		}
		return fmt.Errorf("expected %q at offset %d", c, p.pos)
	}
	return nil
}

func isNameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$' || r == '.'
}

func (p *exprParser) name() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && isNameRune(rune(p.src[p.pos])) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *exprParser) parseType() (ir.TypeDescriptor, error) {
	td, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.accept('[') {
		if err := p.expect(']'); err != nil {
			return nil, err
		}
		td = ir.Array(td)
	}
	return td, nil
}

func (p *exprParser) parsePrimary() (ir.TypeDescriptor, error) {
	if p.accept('?') {
		save := p.pos
		if p.name() != "extends" {
			p.pos = save
			return ir.Wildcard(), nil
		}
		var bounds []ir.TypeDescriptor
		for {
			b, err := p.parseType()
			if err != nil {
				return nil, err
			}
			bounds = append(bounds, b)
			if !p.accept('&') {
				break
			}
		}
		return ir.Wildcard(bounds...), nil
	}

	name := p.name()
	if name == "" {
		if p.pos >= len(p.src) {
			return nil, fmt.Errorf("expected type name at end of input")
		}
		return nil, fmt.Errorf("expected type name at offset %d", p.pos)
	}

	var args []ir.TypeDescriptor
	if p.accept('<') {
		for {
			a, err := p.parseType()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if !p.accept(',') {
				break
			}
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
	}
	return p.scope.resolve(name, args)
}

func (s *typeScope) resolve(name string, args []ir.TypeDescriptor) (ir.TypeDescriptor, error) {
	noArgs := func(td ir.TypeDescriptor) (ir.TypeDescriptor, error) {
		if len(args) > 0 {
			return nil, fmt.Errorf("%s does not take type arguments", name)
		}
		return td, nil
	}

	if s.vars[name] {
		return noArgs(ir.TypeVar(name))
	}
	if f, ok := scalarNames[name]; ok {
		return noArgs(f())
	}
	if untypedNames[name] {
		return ir.Wildcard(), nil
	}
	if collectionNames[name] {
		if len(args) != 1 {
			return nil, fmt.Errorf("%s takes 1 type argument, got %d", name, len(args))
		}
		return ir.Collection(args[0]), nil
	}
	if mapNames[name] {
		if len(args) != 2 {
			return nil, fmt.Errorf("%s takes 2 type arguments, got %d", name, len(args))
		}
		return ir.Map(args[0], args[1]), nil
	}

	td, ok := s.named[name]
	if !ok {
		return nil, fmt.Errorf("unknown type %q", name)
	}
	if len(args) == 0 {
		return td, nil
	}
	c, ok := td.(*ir.CompositeDescriptor)
	if !ok {
		return nil, fmt.Errorf("%s does not take type arguments", name)
	}
	if len(c.TypeParameters) > 0 && len(c.TypeParameters) != len(args) {
		return nil, fmt.Errorf("%s takes %d type arguments, got %d", name, len(c.TypeParameters), len(args))
	}
	return ir.Generic(c, args...), nil
}

// qualifiedName joins namespace and name the way types are looked up.
func qualifiedName(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return strings.TrimSuffix(namespace, ".") + "." + name
}
