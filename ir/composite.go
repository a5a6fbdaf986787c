package ir

// CompositeDescriptor represents a class-like type with declared fields.
// Fields may refer back to the descriptor itself, directly or through other
// composites, so walkers must not assume the graph is acyclic.
type CompositeDescriptor struct {
	// Name is the type identifier.
	Name Identifier

	// TypeParameters lists the declared generic parameter names, in order.
	TypeParameters []string

	// Fields contains the declared fields, in declaration order.
	Fields []FieldDescriptor
}

// Kind returns KindComposite.
func (d *CompositeDescriptor) Kind() Kind { return KindComposite }

// TypeName returns the composite's identifier.
func (d *CompositeDescriptor) TypeName() Identifier { return d.Name }

func (*CompositeDescriptor) sealed() {}

// FieldDescriptor is a single declared field of a composite.
type FieldDescriptor struct {
	// Name is the serialized property name.
	Name string

	// Type is the field's declared type.
	Type TypeDescriptor

	// Ignore is set for fields excluded from serialization
	// (ignore or transient markers).
	Ignore bool
}

// EnumDescriptor represents an enumeration.
type EnumDescriptor struct {
	// Name is the type identifier.
	Name Identifier

	// Constants lists the enumeration constants in declaration order.
	Constants []string
}

// Kind returns KindEnum.
func (d *EnumDescriptor) Kind() Kind { return KindEnum }

// TypeName returns the enum's identifier.
func (d *EnumDescriptor) TypeName() Identifier { return d.Name }

func (*EnumDescriptor) sealed() {}

// Composite returns a CompositeDescriptor with the given fields.
func Composite(name, namespace string, fields ...FieldDescriptor) *CompositeDescriptor {
	return &CompositeDescriptor{
		Name:   Identifier{Name: name, Namespace: namespace},
		Fields: fields,
	}
}

// Field returns a FieldDescriptor.
func Field(name string, typ TypeDescriptor) FieldDescriptor {
	return FieldDescriptor{Name: name, Type: typ}
}

// Enum returns an EnumDescriptor with the given constants.
func Enum(name, namespace string, constants ...string) *EnumDescriptor {
	return &EnumDescriptor{
		Name:      Identifier{Name: name, Namespace: namespace},
		Constants: constants,
	}
}
