// Package provider builds ir descriptors and operation catalogs from Go
// types, YAML manifests and Go source.
package provider

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/broady/axiosgen/ir"
)

// Enumerator is implemented by named string types that list their values.
// The reflector turns such types into enum descriptors.
type Enumerator interface {
	EnumValues() []string
}

// EnumTable maps a qualified type name ("pkgpath.Name") to its constant
// values, in declaration order.
type EnumTable map[string][]string

// Merge copies the entries of other into t.
func (t EnumTable) Merge(other EnumTable) {
	for k, v := range other {
		t[k] = v
	}
}

var enumeratorType = reflect.TypeFor[Enumerator]()

// Reflector converts Go types into type descriptors using runtime
// reflection. Descriptors are cached per type, so a self-referential struct
// yields a cyclic composite and repeated lookups return the same pointer.
//
// A Reflector is not safe for concurrent use.
type Reflector struct {
	enums EnumTable
	cache map[reflect.Type]ir.TypeDescriptor
}

// NewReflector returns a reflector that consults enums for named types that
// do not implement Enumerator. enums may be nil.
func NewReflector(enums EnumTable) *Reflector {
	if enums == nil {
		enums = EnumTable{}
	}
	return &Reflector{
		enums: enums,
		cache: make(map[reflect.Type]ir.TypeDescriptor),
	}
}

// TypeOf returns the descriptor for the dynamic type of v. A reflect.Type
// argument is used as is; nil yields void.
func (r *Reflector) TypeOf(v any) (ir.TypeDescriptor, error) {
	if v == nil {
		return ir.Void(), nil
	}
	if t, ok := v.(reflect.Type); ok {
		return r.Descriptor(t)
	}
	return r.Descriptor(reflect.TypeOf(v))
}

// Descriptor returns the descriptor for t.
func (r *Reflector) Descriptor(t reflect.Type) (ir.TypeDescriptor, error) {
	return r.descriptor(t, "")
}

// descriptor converts t. parentName names anonymous structs.
func (r *Reflector) descriptor(t reflect.Type, parentName string) (ir.TypeDescriptor, error) {
	if t == nil {
		return ir.Void(), nil
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if d, ok := r.cache[t]; ok {
		return d, nil
	}
	if d := specialType(t); d != nil {
		return d, nil
	}
	if d := r.enumType(t); d != nil {
		r.cache[t] = d
		return d, nil
	}
	if err := checkUnsupportedType(t); err != nil {
		return nil, err
	}

	switch t.Kind() {
	case reflect.Bool:
		return ir.Boolean(), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return ir.Number(), nil

	case reflect.String:
		return ir.String(), nil

	case reflect.Slice, reflect.Array:
		// []byte is encoded as a base64 string
		if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
			return ir.String(), nil
		}
		elem, err := r.descriptor(t.Elem(), parentName)
		if err != nil {
			return nil, err
		}
		return ir.Array(elem), nil

	case reflect.Map:
		key, err := r.descriptor(t.Key(), parentName)
		if err != nil {
			return nil, err
		}
		val, err := r.descriptor(t.Elem(), parentName)
		if err != nil {
			return nil, err
		}
		return ir.Map(key, val), nil

	case reflect.Interface:
		return ir.Wildcard(), nil

	case reflect.Struct:
		return r.structType(t, parentName)
	}
	return nil, fmt.Errorf("unsupported type: %s (kind: %s)", t, t.Kind())
}

func (r *Reflector) structType(t reflect.Type, parentName string) (ir.TypeDescriptor, error) {
	name := typeName(t)
	if name == "" {
		if t.NumField() == 0 {
			return ir.Wildcard(), nil
		}
		if parentName == "" {
			return nil, fmt.Errorf("unsupported anonymous struct: %s", t)
		}
		name = parentName
	}

	c := &ir.CompositeDescriptor{Name: ir.Identifier{Name: name, Namespace: t.PkgPath()}}
	// Cache before visiting fields so cycles resolve to c.
	r.cache[t] = c

	fields, err := r.fields(t, name)
	if err != nil {
		delete(r.cache, t)
		return nil, err
	}
	c.Fields = fields
	return c, nil
}

func (r *Reflector) fields(t reflect.Type, structName string) ([]ir.FieldDescriptor, error) {
	var fields []ir.FieldDescriptor
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		jsonName, skip := parseJSONTag(f.Tag.Get("json"), f.Name)

		// Embedded structs without a json name are flattened
		if f.Anonymous && f.Tag.Get("json") == "" {
			et := f.Type
			for et.Kind() == reflect.Pointer {
				et = et.Elem()
			}
			if et.Kind() == reflect.Struct {
				embedded, err := r.fields(et, structName)
				if err != nil {
					return nil, err
				}
				fields = append(fields, embedded...)
				continue
			}
		}

		if !f.IsExported() {
			continue
		}

		fd := ir.FieldDescriptor{Name: jsonName, Ignore: skip || f.Tag.Get("ts") == "-"}
		if !fd.Ignore {
			td, err := r.descriptor(f.Type, structName+"_"+f.Name)
			if err != nil {
				return nil, fmt.Errorf("field %s.%s: %w", structName, f.Name, err)
			}
			fd.Type = td
		}
		fields = append(fields, fd)
	}
	return fields, nil
}

func (r *Reflector) enumType(t reflect.Type) ir.TypeDescriptor {
	if t.Name() == "" || t.Kind() != reflect.String {
		return nil
	}
	name := typeName(t)
	if t.Implements(enumeratorType) {
		values := reflect.Zero(t).Interface().(Enumerator).EnumValues()
		return ir.Enum(name, t.PkgPath(), values...)
	}
	if values, ok := r.enums[t.PkgPath()+"."+t.Name()]; ok {
		return ir.Enum(name, t.PkgPath(), values...)
	}
	return nil
}

// specialType returns descriptors for types with a fixed JSON encoding.
func specialType(t reflect.Type) ir.TypeDescriptor {
	switch {
	case t == reflect.TypeFor[time.Time]():
		return ir.String()
	case t == reflect.TypeFor[time.Duration]():
		return ir.Number()
	case t == reflect.TypeFor[json.Number]():
		return ir.String()
	case t == reflect.TypeFor[json.RawMessage]():
		return ir.Wildcard()
	}
	return nil
}

func checkUnsupportedType(t reflect.Type) error {
	switch t.Kind() {
	case reflect.Chan:
		return fmt.Errorf("unsupported type: chan %s", t.Elem())
	case reflect.Complex64, reflect.Complex128:
		return fmt.Errorf("unsupported type: %s", t.Kind())
	case reflect.Func:
		return fmt.Errorf("unsupported type: func")
	case reflect.UnsafePointer:
		return fmt.Errorf("unsupported type: unsafe.Pointer")
	}
	return nil
}

// typeName returns the declaration name for t.
func typeName(t reflect.Type) string {
	return syntheticName(t.Name())
}

// syntheticName names generic instantiations: Page[example.com/app.User]
// becomes Page_User. Other names are returned unchanged.
func syntheticName(name string) string {
	open := strings.Index(name, "[")
	if open < 0 || !strings.HasSuffix(name, "]") {
		return name
	}

	var b strings.Builder
	b.WriteString(name[:open])
	for _, arg := range splitTypeArgs(name[open+1 : len(name)-1]) {
		b.WriteString("_")
		b.WriteString(syntheticArgName(arg))
	}
	return b.String()
}

// splitTypeArgs splits a type argument list at top-level commas.
func splitTypeArgs(s string) []string {
	var out []string
	depth, start := 0, 0
	for i, c := range s {
		switch c {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	return append(out, s[start:])
}

func syntheticArgName(arg string) string {
	arg = strings.TrimSpace(arg)
	var prefix string
	for {
		switch {
		case strings.HasPrefix(arg, "*"):
			prefix += "Ptr"
			arg = arg[1:]
			continue
		case strings.HasPrefix(arg, "[]"):
			prefix += "Slice"
			arg = arg[2:]
			continue
		}
		break
	}
	if open := strings.Index(arg, "["); open >= 0 {
		base := arg[:open]
		if dot := strings.LastIndex(base, "."); dot >= 0 {
			base = base[dot+1:]
		}
		var b strings.Builder
		b.WriteString(prefix + base)
		for _, a := range splitTypeArgs(strings.TrimSuffix(arg[open+1:], "]")) {
			b.WriteString("_")
			b.WriteString(syntheticArgName(a))
		}
		return b.String()
	}
	if dot := strings.LastIndex(arg, "."); dot >= 0 {
		arg = arg[dot+1:]
	}
	return prefix + strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return '_'
	}, arg)
}

// parseJSONTag returns the property name for a field and whether the field
// is excluded from serialization.
func parseJSONTag(tag, fieldName string) (name string, skip bool) {
	if tag == "" {
		return fieldName, false
	}
	parts := strings.Split(tag, ",")
	if parts[0] == "-" && len(parts) == 1 {
		return fieldName, true
	}
	if parts[0] == "" {
		return fieldName, false
	}
	return parts[0], false
}
