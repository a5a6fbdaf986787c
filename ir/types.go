// Package ir defines the intermediate representation of server-side types and
// operations. Catalog adapters build these descriptors once at the system
// boundary; the TypeScript generator consumes them without further reflection.
package ir

import "strings"

// Identifier names a server-side type together with its namespace.
type Identifier struct {
	// Name is the simple type name. It keys the emitted-type registry and
	// names the generated declaration file.
	Name string

	// Namespace is the package (or namespace) path the type is declared in.
	// Scan filters match against this value.
	Namespace string
}

// IsZero reports whether the identifier is empty.
func (id Identifier) IsZero() bool {
	return id.Name == "" && id.Namespace == ""
}

// String returns the qualified name, "namespace.Name".
func (id Identifier) String() string {
	if id.Namespace == "" {
		return id.Name
	}
	return id.Namespace + "." + id.Name
}

// HasPrefix reports whether the namespace starts with any of the given prefixes.
func (id Identifier) HasPrefix(prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(id.Namespace, p) {
			return true
		}
	}
	return false
}
