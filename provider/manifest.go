package provider

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/broady/axiosgen/ir"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Manifest is a catalog of types and operations declared in YAML.
//
//	types:
//	  - name: Page
//	    namespace: com.example.app
//	    typeParameters: [T]
//	    fields:
//	      - {name: content, type: "List<T>"}
//	  - name: Role
//	    namespace: com.example.app
//	    enum: [ADMIN, USER]
//	  - name: Status
//	    namespace: com.example.app
//	    goEnum: example.com/app/model.Status
//	operations:
//	  - key: UserController.list
//	    method: GET
//	    url: /users
//	    function: listUsers
//	    returns: Page<User>
//	    params:
//	      - {name: pageable, in: paged}
type Manifest struct {
	// Types are the declared types, in declaration order.
	Types []ir.Named

	// Operations are the declared operations, in declaration order.
	Operations ir.Catalog
}

// Type returns the declared type with the given simple or qualified name.
func (m *Manifest) Type(name string) (ir.Named, bool) {
	for _, t := range m.Types {
		id := t.TypeName()
		if id.Name == name || id.String() == name {
			return t, true
		}
	}
	return nil, false
}

type manifestFile struct {
	Types      []typeDecl      `yaml:"types" validate:"dive"`
	Operations []operationDecl `yaml:"operations" validate:"dive"`
}

type typeDecl struct {
	Name           string      `yaml:"name" validate:"required"`
	Namespace      string      `yaml:"namespace"`
	TypeParameters []string    `yaml:"typeParameters" validate:"dive,required"`
	Fields         []fieldDecl `yaml:"fields" validate:"dive"`
	Enum           []string    `yaml:"enum" validate:"excluded_with=GoEnum,dive,required"`
	GoEnum         string      `yaml:"goEnum"`
}

type fieldDecl struct {
	Name   string `yaml:"name" validate:"required"`
	Type   string `yaml:"type" validate:"required"`
	Ignore bool   `yaml:"ignore"`
}

type operationDecl struct {
	Key      string      `yaml:"key"`
	Method   string      `yaml:"method" validate:"omitempty,oneof=GET POST PUT PATCH DELETE HEAD OPTIONS get post put patch delete head options"`
	URL      string      `yaml:"url" validate:"required"`
	Function string      `yaml:"function" validate:"required"`
	Returns  string      `yaml:"returns"`
	Params   []paramDecl `yaml:"params" validate:"dive"`
}

type paramDecl struct {
	Name    string `yaml:"name" validate:"required"`
	Type    string `yaml:"type" validate:"required_unless=In paged"`
	In      string `yaml:"in" validate:"omitempty,oneof=none path query body paged"`
	Alias   string `yaml:"alias"`
	Binding string `yaml:"binding"`
	Key     string `yaml:"key"`
}

// ManifestOption configures manifest parsing.
type ManifestOption func(*manifestOptions)

type manifestOptions struct {
	enums EnumTable
}

// WithEnums supplies the constants of types declared with goEnum, as
// returned by LoadEnums.
func WithEnums(table EnumTable) ManifestOption {
	return func(o *manifestOptions) {
		if o.enums == nil {
			o.enums = EnumTable{}
		}
		o.enums.Merge(table)
	}
}

// LoadManifest reads and parses the manifest at path.
func LoadManifest(path string, opts ...ManifestOption) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := ParseManifest(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ParseManifest parses a YAML manifest. Unknown keys, failed validation and
// unknown type names are errors.
func ParseManifest(data []byte, opts ...ManifestOption) (*Manifest, error) {
	var o manifestOptions
	for _, opt := range opts {
		opt(&o)
	}

	var f manifestFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if err := validate.Struct(&f); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	return f.build(o.enums)
}

func (f *manifestFile) build(enums EnumTable) (*Manifest, error) {
	m := &Manifest{}
	scope := &typeScope{named: make(map[string]ir.TypeDescriptor)}
	composites := make(map[*ir.CompositeDescriptor]typeDecl)

	// Declare every type first so fields may refer to any of them.
	for _, td := range f.Types {
		qn := qualifiedName(td.Namespace, td.Name)
		if _, dup := scope.named[qn]; dup {
			return nil, fmt.Errorf("type %s declared twice", qn)
		}

		if td.GoEnum != "" {
			constants, ok := enums[td.GoEnum]
			if !ok {
				return nil, fmt.Errorf("type %s: go enum %s not loaded", qn, td.GoEnum)
			}
			td.Enum = constants
		}

		var n ir.Named
		if len(td.Enum) > 0 || td.GoEnum != "" {
			if len(td.Fields) > 0 || len(td.TypeParameters) > 0 {
				return nil, fmt.Errorf("type %s: enums cannot declare fields or type parameters", qn)
			}
			n = ir.Enum(td.Name, td.Namespace, td.Enum...)
		} else {
			c := &ir.CompositeDescriptor{
				Name:           ir.Identifier{Name: td.Name, Namespace: td.Namespace},
				TypeParameters: td.TypeParameters,
			}
			composites[c] = td
			n = c
		}
		scope.named[qn] = n
		if _, taken := scope.named[td.Name]; !taken {
			scope.named[td.Name] = n
		}
		m.Types = append(m.Types, n)
	}

	for _, n := range m.Types {
		c, ok := n.(*ir.CompositeDescriptor)
		if !ok {
			continue
		}
		td := composites[c]
		fs := scope.withVars(td.TypeParameters)
		for _, fd := range td.Fields {
			typ, err := fs.parse(fd.Type)
			if err != nil {
				return nil, fmt.Errorf("type %s field %s: %w", c.Name, fd.Name, err)
			}
			c.Fields = append(c.Fields, ir.FieldDescriptor{Name: fd.Name, Type: typ, Ignore: fd.Ignore})
		}
	}

	for i, od := range f.Operations {
		op, err := od.build(scope)
		if err != nil {
			key := od.Key
			if key == "" {
				key = od.Function
			}
			return nil, fmt.Errorf("operation %d (%s): %w", i, key, err)
		}
		m.Operations = append(m.Operations, op)
	}
	return m, nil
}

func (od operationDecl) build(scope *typeScope) (ir.OperationDescriptor, error) {
	op := ir.OperationDescriptor{
		Key:          od.Key,
		Method:       strings.ToUpper(od.Method),
		URL:          od.URL,
		FunctionName: od.Function,
		Return:       ir.Void(),
	}
	if op.Key == "" {
		op.Key = od.Function
	}
	if od.Returns != "" {
		ret, err := scope.parse(od.Returns)
		if err != nil {
			return op, fmt.Errorf("returns: %w", err)
		}
		op.Return = ret
	}

	for _, pd := range od.Params {
		src, ok := ir.ParseSource(pd.In)
		if !ok {
			return op, fmt.Errorf("param %s: unknown binding %q", pd.Name, pd.In)
		}
		p := ir.ParameterDescriptor{Name: pd.Name, Source: src, BindingName: pd.Binding}
		switch src {
		case ir.SourcePath:
			p.Value = pd.Alias
		case ir.SourceQuery:
			p.Value = pd.Key
		}
		if pd.Type != "" {
			typ, err := scope.parse(pd.Type)
			if err != nil {
				return op, fmt.Errorf("param %s: %w", pd.Name, err)
			}
			p.Type = typ
		}
		op.Parameters = append(op.Parameters, p)
	}
	return op, nil
}
