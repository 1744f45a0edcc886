package ir

// Root is the top of a schema tree. It is created once per load and is
// read-only once the loader returns it.
type Root struct {
	// Nested holds the top-level entries: one namespace per distinct first
	// package segment, plus definitions from files without a package.
	Nested []Entry
}

// Namespace is a named package scope.
type Namespace struct {
	Name string

	// Doc is the attached documentation, empty when absent.
	Doc string

	Nested []Entry
}

// EnsureNamespace returns the namespace reached by following segments from the
// root, creating missing namespaces at the end of their parent's entries.
// With no segments it returns nil.
func (r *Root) EnsureNamespace(segments ...string) *Namespace {
	if len(segments) == 0 {
		return nil
	}
	ns := ensureChild(&r.Nested, segments[0])
	for _, seg := range segments[1:] {
		ns = ensureChild(&ns.Nested, seg)
	}
	return ns
}

// Lookup finds the namespace at the given path, or nil.
func (r *Root) Lookup(segments ...string) *Namespace {
	entries := r.Nested
	var found *Namespace
	for _, seg := range segments {
		found = nil
		for _, e := range entries {
			if e.Kind == KindNamespace && e.Namespace != nil && e.Namespace.Name == seg {
				found = e.Namespace
				break
			}
		}
		if found == nil {
			return nil
		}
		entries = found.Nested
	}
	return found
}

// Add appends an entry to the root scope.
func (r *Root) Add(e Entry) {
	r.Nested = append(r.Nested, e)
}

// Add appends an entry to the namespace.
func (ns *Namespace) Add(e Entry) {
	ns.Nested = append(ns.Nested, e)
}

func ensureChild(entries *[]Entry, name string) *Namespace {
	for _, e := range *entries {
		if e.Kind == KindNamespace && e.Namespace != nil && e.Namespace.Name == name {
			return e.Namespace
		}
	}
	ns := &Namespace{Name: name}
	*entries = append(*entries, NamespaceEntry(ns))
	return ns
}
