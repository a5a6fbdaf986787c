package typescript

import "sort"

// Registry records the simple names of declarations already emitted during a
// generation run. A name is claimed exactly once, before its declaration is
// rendered, which stops self-referential types from recursing forever and
// keeps two types from writing the same file.
//
// A Registry belongs to a single run and is not safe for concurrent use.
type Registry struct {
	names map[string]bool
	order []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]bool)}
}

// Claim registers name and reports whether it was not registered before.
func (r *Registry) Claim(name string) bool {
	if r.names[name] {
		return false
	}
	r.names[name] = true
	r.order = append(r.order, name)
	return true
}

// Has reports whether name has been claimed.
func (r *Registry) Has(name string) bool {
	return r.names[name]
}

// Len returns the number of claimed names.
func (r *Registry) Len() int {
	return len(r.order)
}

// Names returns the claimed names in lexical order.
func (r *Registry) Names() []string {
	out := append([]string(nil), r.order...)
	sort.Strings(out)
	return out
}

// Order returns the claimed names in claim order.
func (r *Registry) Order() []string {
	return append([]string(nil), r.order...)
}
