package ir

// Walk traverses td depth-first, calling visit for every descriptor reached.
// If visit returns false, the children of that descriptor are skipped.
// Children are array elements, parameterized bases and arguments, wildcard
// bounds and composite field types. Each composite is visited at most once,
// so cyclic graphs terminate.
func Walk(td TypeDescriptor, visit func(TypeDescriptor) bool) {
	w := walker{visit: visit, seen: make(map[*CompositeDescriptor]bool)}
	w.walk(td)
}

type walker struct {
	visit func(TypeDescriptor) bool
	seen  map[*CompositeDescriptor]bool
}

func (w *walker) walk(td TypeDescriptor) {
	if td == nil {
		return
	}
	if c, ok := td.(*CompositeDescriptor); ok {
		if w.seen[c] {
			return
		}
		w.seen[c] = true
	}
	if !w.visit(td) {
		return
	}

	switch d := td.(type) {
	case *ArrayDescriptor:
		w.walk(d.Element)
	case *ParameterizedDescriptor:
		w.walk(d.Base)
		for _, a := range d.Arguments {
			w.walk(a)
		}
	case *WildcardDescriptor:
		for _, b := range d.UpperBounds {
			w.walk(b)
		}
	case *CompositeDescriptor:
		for _, f := range d.Fields {
			w.walk(f.Type)
		}
	}
}
