package typescript

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/broady/axiosgen/ir"
)

// placeholderPattern matches {name} placeholders in URL templates.
var placeholderPattern = regexp.MustCompile(`\{(.*?)\}`)

// PageableType is the argument type added for paged operations.
const PageableType = "{ page: number, size: number, sort: string }"

// PageableArgument is the name of the pagination argument.
const PageableArgument = "pageable"

// Placeholders returns the placeholder names in template, in order of
// appearance.
func Placeholders(template string) []string {
	var out []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		out = append(out, m[1])
	}
	return out
}

// Interpolate rewrites every {x} placeholder in template to ${x}.
func Interpolate(template string) string {
	return placeholderPattern.ReplaceAllString(template, "$${${1}}")
}

// Argument is a parameter of a generated client function.
type Argument struct {
	Name   string
	Type   string
	Source ir.Source
}

func (a Argument) String() string {
	return a.Name + ": " + a.Type
}

// QueryComponent is a single key={value} pair appended to a URL template.
type QueryComponent struct {
	Key   string
	Value string
}

// URLTemplate is a URL path template plus the query components appended to
// it. Path may already carry a query string.
type URLTemplate struct {
	Path  string
	Query []QueryComponent
}

// Template returns the URL with {x} placeholders left in place.
func (u URLTemplate) Template() string {
	var b strings.Builder
	b.WriteString(u.Path)
	sep := "?"
	if strings.Contains(u.Path, "?") {
		sep = "&"
	}
	for _, q := range u.Query {
		b.WriteString(sep)
		b.WriteString(q.Key)
		b.WriteString("={")
		b.WriteString(q.Value)
		b.WriteString("}")
		sep = "&"
	}
	return b.String()
}

// Interpolated returns the URL as the body of a template literal.
func (u URLTemplate) Interpolated() string {
	return Interpolate(u.Template())
}

// ClientFunction is the structured form of a generated client function.
type ClientFunction struct {
	Name   string
	Method string // lower-case axios method
	Args   []Argument
	URL    URLTemplate
	Body   *Argument
	Return TargetType
}

// Render returns the TypeScript source of the function, without a trailing
// newline.
func (f *ClientFunction) Render() string {
	var b strings.Builder
	b.WriteString("export const ")
	b.WriteString(f.Name)
	b.WriteString(" = (")
	for i, a := range f.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	b.WriteString("): Promise<")
	b.WriteString(f.Return.Expr)
	b.WriteString("> => axios.")
	b.WriteString(f.Method)
	b.WriteString("(`")
	b.WriteString(f.URL.Interpolated())
	b.WriteString("`")
	if f.Body != nil {
		b.WriteString(", ")
		b.WriteString(f.Body.Name)
	}
	b.WriteString(").then(response => response.data).catch(error => { throw error });")
	return b.String()
}

// ClientOptions configures a ClientGenerator.
type ClientOptions struct {
	// TypedQueryParams renders query arguments with their mapped type
	// instead of string.
	TypedQueryParams bool
}

// ClientGenerator builds axios client functions from operation descriptors.
type ClientGenerator struct {
	mapper *Mapper
	opts   ClientOptions
}

// NewClientGenerator returns a generator that maps types with m.
func NewClientGenerator(m *Mapper, opts ClientOptions) *ClientGenerator {
	return &ClientGenerator{mapper: m, opts: opts}
}

// Generate returns the rendered client function for op.
func (g *ClientGenerator) Generate(ctx context.Context, op ir.OperationDescriptor) (string, error) {
	fn, err := g.Build(ctx, op)
	if err != nil {
		return "", err
	}
	return fn.Render(), nil
}

// Build returns the structured client function for op. Every placeholder in
// the URL must be bound to a path parameter; otherwise a *ResolutionError is
// returned and nothing is produced.
func (g *ClientGenerator) Build(ctx context.Context, op ir.OperationDescriptor) (*ClientFunction, error) {
	fn := &ClientFunction{
		Name:   op.FunctionName,
		Method: strings.ToLower(op.HTTPMethod()),
	}

	// Resolve every placeholder before mapping any type so that an
	// unbound placeholder emits nothing.
	used := argNames{}
	bound := make(map[string]string)
	var pathParams []ir.ParameterDescriptor
	var pathNames []string
	for _, ph := range Placeholders(op.URL) {
		if _, ok := bound[ph]; ok {
			continue
		}
		p, ok := findPathParameter(op.Parameters, ph)
		if !ok {
			return nil, &ResolutionError{Operation: op.Key, URL: op.URL, Placeholder: ph}
		}
		name := used.claim(parameterName(ph))
		bound[ph] = name
		pathParams = append(pathParams, p)
		pathNames = append(pathNames, name)
	}
	fn.URL.Path = placeholderPattern.ReplaceAllStringFunc(op.URL, func(m string) string {
		return "{" + bound[m[1:len(m)-1]] + "}"
	})

	for i, p := range pathParams {
		t, err := g.mapper.Map(ctx, p.Type)
		if err != nil {
			return nil, err
		}
		fn.Args = append(fn.Args, Argument{Name: pathNames[i], Type: t.Expr, Source: ir.SourcePath})
	}

	if _, ok := firstParameter(op.Parameters, ir.SourcePaged); ok {
		name := used.claim(PageableArgument)
		fn.Args = append(fn.Args, Argument{Name: name, Type: PageableType, Source: ir.SourcePaged})
		for _, k := range []string{"page", "size", "sort"} {
			fn.URL.Query = append(fn.URL.Query, QueryComponent{Key: k, Value: name + "." + k})
		}
	}

	for _, p := range op.Parameters {
		if p.Source != ir.SourceQuery {
			continue
		}
		key := p.Value
		if key == "" {
			key = p.Name
		}
		typ := "string"
		if g.opts.TypedQueryParams {
			t, err := g.mapper.Map(ctx, p.Type)
			if err != nil {
				return nil, err
			}
			typ = t.Expr
		}
		// The query key stays as declared; only the local binding is renamed.
		name := used.claim(parameterName(key))
		fn.Args = append(fn.Args, Argument{Name: name, Type: typ, Source: ir.SourceQuery})
		fn.URL.Query = append(fn.URL.Query, QueryComponent{Key: key, Value: name})
	}

	if p, ok := firstParameter(op.Parameters, ir.SourceBody); ok {
		t, err := g.mapper.Map(ctx, p.Type)
		if err != nil {
			return nil, err
		}
		body := Argument{Name: used.claim(parameterName(p.Name)), Type: t.Expr, Source: ir.SourceBody}
		fn.Args = append(fn.Args, body)
		fn.Body = &body
	}

	ret := op.Return
	if ret == nil {
		ret = ir.Void()
	}
	t, err := g.mapper.Map(ctx, ret)
	if err != nil {
		return nil, err
	}
	fn.Return = t

	return fn, nil
}

// CheckBindings reports a *ResolutionError for the first placeholder in op's
// URL that no path parameter is bound to.
func CheckBindings(op ir.OperationDescriptor) error {
	for _, ph := range Placeholders(op.URL) {
		if _, ok := findPathParameter(op.Parameters, ph); !ok {
			return &ResolutionError{Operation: op.Key, URL: op.URL, Placeholder: ph}
		}
	}
	return nil
}

// findPathParameter returns the first path-bound parameter whose declared
// name, alias or binding name equals placeholder. An empty placeholder ({})
// never binds.
func findPathParameter(params []ir.ParameterDescriptor, placeholder string) (ir.ParameterDescriptor, bool) {
	if placeholder == "" {
		return ir.ParameterDescriptor{}, false
	}
	for _, p := range params {
		if p.Source != ir.SourcePath {
			continue
		}
		if p.Name == placeholder || p.Value == placeholder || p.BindingName == placeholder {
			return p, true
		}
	}
	return ir.ParameterDescriptor{}, false
}

// argNames hands out distinct argument names within one function. A name
// already taken gets a numeric suffix: id, id_2, id_3.
type argNames map[string]bool

func (n argNames) claim(name string) string {
	unique := name
	for i := 2; n[unique]; i++ {
		unique = name + "_" + strconv.Itoa(i)
	}
	n[unique] = true
	return unique
}

func firstParameter(params []ir.ParameterDescriptor, src ir.Source) (ir.ParameterDescriptor, bool) {
	for _, p := range params {
		if p.Source == src {
			return p, true
		}
	}
	return ir.ParameterDescriptor{}, false
}
