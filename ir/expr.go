package ir

// ArrayDescriptor represents a native array of a component type.
type ArrayDescriptor struct {
	// Element is the component type.
	Element TypeDescriptor
}

// Kind returns KindArray.
func (d *ArrayDescriptor) Kind() Kind { return KindArray }

func (*ArrayDescriptor) sealed() {}

// Array returns an ArrayDescriptor.
func Array(element TypeDescriptor) *ArrayDescriptor {
	return &ArrayDescriptor{Element: element}
}

// RawKind classifies the raw type of a parameterized descriptor.
type RawKind int

const (
	RawOther      RawKind = iota // Any other generic type (Page<T>, Optional<T>)
	RawMap                       // Key-value mapping; exactly two arguments
	RawCollection                // List, set or generic collection; one argument
)

// String returns the name of the raw kind.
func (k RawKind) String() string {
	switch k {
	case RawOther:
		return "Other"
	case RawMap:
		return "Map"
	case RawCollection:
		return "Collection"
	default:
		return "Unknown"
	}
}

// ParameterizedDescriptor represents a generic type applied to arguments.
type ParameterizedDescriptor struct {
	// Raw classifies the raw type.
	Raw RawKind

	// Base is the raw type's declaration. It is required for RawOther and
	// optional for maps and collections, whose wrappers are never emitted.
	Base TypeDescriptor

	// Arguments are the actual type arguments, in order.
	Arguments []TypeDescriptor
}

// Kind returns KindParameterized.
func (d *ParameterizedDescriptor) Kind() Kind { return KindParameterized }

func (*ParameterizedDescriptor) sealed() {}

// RawName returns the identifier of the raw type, or the zero Identifier
// when the base is unknown or unnamed.
func (d *ParameterizedDescriptor) RawName() Identifier {
	if n, ok := d.Base.(Named); ok {
		return n.TypeName()
	}
	return Identifier{}
}

// Map returns a parameterized map descriptor.
func Map(key, value TypeDescriptor) *ParameterizedDescriptor {
	return &ParameterizedDescriptor{Raw: RawMap, Arguments: []TypeDescriptor{key, value}}
}

// Collection returns a parameterized collection descriptor (list, set).
func Collection(element TypeDescriptor) *ParameterizedDescriptor {
	return &ParameterizedDescriptor{Raw: RawCollection, Arguments: []TypeDescriptor{element}}
}

// Generic returns a parameterized descriptor applying base to args.
func Generic(base TypeDescriptor, args ...TypeDescriptor) *ParameterizedDescriptor {
	return &ParameterizedDescriptor{Raw: RawOther, Base: base, Arguments: args}
}

// TypeVariableDescriptor represents a reference to a generic type variable.
type TypeVariableDescriptor struct {
	// Name is the variable name (T, K, V).
	Name string
}

// Kind returns KindTypeVariable.
func (d *TypeVariableDescriptor) Kind() Kind { return KindTypeVariable }

func (*TypeVariableDescriptor) sealed() {}

// TypeVar returns a TypeVariableDescriptor.
func TypeVar(name string) *TypeVariableDescriptor {
	return &TypeVariableDescriptor{Name: name}
}

// WildcardDescriptor represents a wildcard type argument.
// UpperBounds is empty for an unbounded wildcard.
type WildcardDescriptor struct {
	UpperBounds []TypeDescriptor
}

// Kind returns KindWildcard.
func (d *WildcardDescriptor) Kind() Kind { return KindWildcard }

func (*WildcardDescriptor) sealed() {}

// Wildcard returns a WildcardDescriptor with the given upper bounds.
func Wildcard(upper ...TypeDescriptor) *WildcardDescriptor {
	return &WildcardDescriptor{UpperBounds: upper}
}
