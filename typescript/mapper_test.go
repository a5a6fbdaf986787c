package typescript

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/broady/axiosgen/ir"
)

const appNS = "com.example.app"

var appFilter = ScanFilter{"com.example"}

func pageOf() *ir.CompositeDescriptor {
	return &ir.CompositeDescriptor{
		Name:           ir.Identifier{Name: "Page", Namespace: appNS + ".paging"},
		TypeParameters: []string{"T"},
		Fields: []ir.FieldDescriptor{
			ir.Field("content", ir.Collection(ir.TypeVar("T"))),
			ir.Field("total", ir.Number()),
		},
	}
}

func namesOf(found []ir.Named) []string {
	var out []string
	for _, n := range found {
		out = append(out, n.TypeName().Name)
	}
	return out
}

func TestScanFilterAllows(t *testing.T) {
	f := ScanFilter{"com.example.app", "org.shared"}
	tests := []struct {
		namespace string
		want      bool
	}{
		{"com.example.app", true},
		{"com.example.app.model", true},
		{"org.shared.dto", true},
		{"com.example", false},
		{"java.util", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.namespace, func(t *testing.T) {
			if got := f.Allows(tt.namespace); got != tt.want {
				t.Errorf("Allows(%q) = %v, want %v", tt.namespace, got, tt.want)
			}
		})
	}

	if (ScanFilter{}).Allows(appNS) {
		t.Error("empty filter should allow nothing")
	}
}

func TestMapperResolve(t *testing.T) {
	user := ir.Composite("User", appNS)
	external := ir.Composite("Instant", "java.time")
	role := ir.Enum("Role", "com.other", "ADMIN", "USER")
	page := pageOf()

	tests := []struct {
		name      string
		td        ir.TypeDescriptor
		wantExpr  string
		wantFound []string
	}{
		{"void", ir.Void(), "void", nil},
		{"string", ir.String(), "string", nil},
		{"boolean", ir.Boolean(), "boolean", nil},
		{"number", ir.Number(), "number", nil},
		{"array", ir.Array(ir.String()), "Array<string>", nil},
		{"array of map", ir.Array(ir.Map(ir.String(), ir.Number())), "Array<Map<string, number>>", nil},
		{"enum outside filter", role, "Role", []string{"Role"}},
		{"composite", user, "User", []string{"User"}},
		{"composite outside filter", external, "any", nil},
		{"generic declaration", page, "Page<T>", []string{"Page"}},
		{"collection", ir.Collection(user), "Array<User>", []string{"User"}},
		{"map", ir.Map(ir.String(), ir.Array(role)), "Map<string, Array<Role>>", []string{"Role"}},
		{"parameterized", ir.Generic(page, user), "Page<User>", []string{"Page", "User"}},
		{"parameterized outside filter", ir.Generic(ir.Composite("Optional", "java.util"), user), "any", nil},
		{"parameterized without base", ir.Generic(nil, user), "any", nil},
		{"nested parameterized", ir.Generic(page, ir.Map(ir.String(), ir.Collection(user))), "Page<Map<string, Array<User>>>", []string{"Page", "User"}},
		{"type variable", ir.TypeVar("K"), "K", nil},
		{"wildcard", ir.Wildcard(user), "any", nil},
		{"nil", nil, "any", nil},
	}

	m := NewMapper(appFilter, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := m.Resolve(tt.td)
			if got.Expr != tt.wantExpr {
				t.Errorf("Expr = %q, want %q", got.Expr, tt.wantExpr)
			}
			if diff := cmp.Diff(tt.wantFound, namesOf(found)); diff != "" {
				t.Errorf("discovered mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMapperContributingTypes(t *testing.T) {
	user := ir.Composite("User", appNS)
	external := ir.Composite("Instant", "java.time")
	role := ir.Enum("Role", "com.other", "ADMIN")
	page := pageOf()
	m := NewMapper(appFilter, nil)

	tests := []struct {
		name        string
		td          ir.TypeDescriptor
		wantKinds   []ir.Kind
		wantImports []string
	}{
		{"scalar", ir.Number(), []ir.Kind{ir.KindNumber}, nil},
		{"array of map", ir.Array(ir.Map(ir.String(), ir.Number())), []ir.Kind{ir.KindString, ir.KindNumber}, nil},
		{"map of composites", ir.Map(role, user), []ir.Kind{ir.KindEnum, ir.KindComposite}, []string{"Role", "User"}},
		{"external composite", external, nil, nil},
		{"parameterized", ir.Generic(page, user, user), []ir.Kind{ir.KindComposite, ir.KindComposite, ir.KindComposite}, []string{"Page", "User"}},
		{"type variable", ir.TypeVar("T"), nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := m.Resolve(tt.td)
			var kinds []ir.Kind
			for _, td := range got.Types {
				kinds = append(kinds, td.Kind())
			}
			if diff := cmp.Diff(tt.wantKinds, kinds); diff != "" {
				t.Errorf("contributing kinds mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantImports, got.Imports(appFilter, "")); diff != "" {
				t.Errorf("imports mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTargetTypeImportsExcludesSelf(t *testing.T) {
	node := ir.Composite("Node", appNS)
	tt := TargetType{Types: []ir.TypeDescriptor{node, ir.Number(), node}}
	if got := tt.Imports(appFilter, "Node"); len(got) != 0 {
		t.Errorf("Imports = %v, want none", got)
	}
}

func TestMapperEmptyArguments(t *testing.T) {
	m := NewMapper(appFilter, nil)
	td := &ir.ParameterizedDescriptor{Raw: ir.RawCollection}

	got, _ := m.Resolve(td)
	if got.Expr != UntypedExpr {
		t.Errorf("Resolve Expr = %q, want %q", got.Expr, UntypedExpr)
	}

	_, err := m.Map(context.Background(), ir.Array(td))
	if !errors.Is(err, ErrEmptyArguments) {
		t.Fatalf("Map error = %v, want ErrEmptyArguments", err)
	}
}

type recordingEmitter struct {
	calls []string
	err   error
}

func (r *recordingEmitter) EmitInterface(ctx context.Context, c *ir.CompositeDescriptor) error {
	r.calls = append(r.calls, "interface "+c.Name.Name)
	return r.err
}

func (r *recordingEmitter) EmitEnum(ctx context.Context, e *ir.EnumDescriptor) error {
	r.calls = append(r.calls, "enum "+e.Name.Name)
	return r.err
}

func TestMapperMapEmits(t *testing.T) {
	rec := &recordingEmitter{}
	m := NewMapper(appFilter, rec)

	td := ir.Map(ir.Enum("Status", "x", "ON"), ir.Generic(pageOf(), ir.Composite("User", appNS)))
	got, err := m.Map(context.Background(), td)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if got.Expr != "Map<Status, Page<User>>" {
		t.Errorf("Expr = %q", got.Expr)
	}
	want := []string{"enum Status", "interface Page", "interface User"}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Errorf("emit calls mismatch (-want +got):\n%s", diff)
	}
}

func TestMapperMapOutsideFilterEmitsNothing(t *testing.T) {
	rec := &recordingEmitter{}
	m := NewMapper(appFilter, rec)

	got, err := m.Map(context.Background(), ir.Composite("LocalDate", "java.time"))
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if got.Expr != "any" {
		t.Errorf("Expr = %q, want any", got.Expr)
	}
	if len(rec.calls) != 0 {
		t.Errorf("unexpected emit calls: %v", rec.calls)
	}
}

func TestMapperMapPropagatesEmitError(t *testing.T) {
	boom := errors.New("boom")
	m := NewMapper(appFilter, &recordingEmitter{err: boom})

	_, err := m.Map(context.Background(), ir.Composite("User", appNS))
	if !errors.Is(err, boom) {
		t.Errorf("Map error = %v, want %v", err, boom)
	}
}
