package ir

// Kind identifies the variant of a type descriptor.
type Kind int

const (
	KindVoid Kind = iota
	KindString
	KindBoolean
	KindNumber // numeric and remaining primitives (char, byte)

	KindArray         // Native array of a component type
	KindEnum          // Enumeration of named constants
	KindComposite     // Class-like type with declared fields
	KindParameterized // Generic type applied to arguments (map, collection, other)
	KindTypeVariable  // Generic type variable (T, K, V)
	KindWildcard      // Wildcard type argument (?, ? extends T)
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "Void"
	case KindString:
		return "String"
	case KindBoolean:
		return "Boolean"
	case KindNumber:
		return "Number"
	case KindArray:
		return "Array"
	case KindEnum:
		return "Enum"
	case KindComposite:
		return "Composite"
	case KindParameterized:
		return "Parameterized"
	case KindTypeVariable:
		return "TypeVariable"
	case KindWildcard:
		return "Wildcard"
	default:
		return "Unknown"
	}
}

// TypeDescriptor is a handle to a server-side type.
// The set of implementations is closed; switch on Kind or on the concrete type.
type TypeDescriptor interface {
	// Kind returns the descriptor variant.
	Kind() Kind

	sealed()
}

// Named is implemented by descriptors that produce a declaration unit of
// their own: composites and enums.
type Named interface {
	TypeDescriptor

	// TypeName returns the declared identifier.
	TypeName() Identifier
}

// ScalarDescriptor represents void, string, boolean and numeric types.
type ScalarDescriptor struct {
	kind Kind
}

// Kind returns the scalar kind.
func (d *ScalarDescriptor) Kind() Kind { return d.kind }

func (*ScalarDescriptor) sealed() {}

// Void returns the descriptor for an operation without a result.
func Void() *ScalarDescriptor { return &ScalarDescriptor{kind: KindVoid} }

// String returns the descriptor for a string.
func String() *ScalarDescriptor { return &ScalarDescriptor{kind: KindString} }

// Boolean returns the descriptor for a boolean.
func Boolean() *ScalarDescriptor { return &ScalarDescriptor{kind: KindBoolean} }

// Number returns the descriptor for any numeric or other primitive type.
func Number() *ScalarDescriptor { return &ScalarDescriptor{kind: KindNumber} }
