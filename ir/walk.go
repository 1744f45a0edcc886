package ir

// WalkFunc is called for every entry reached by Walk. Scope holds the names
// of the enclosing namespaces and messages, outermost first.
type WalkFunc func(scope []string, e Entry) error

// Walk visits the root's entries depth-first in source order, descending into
// namespaces and message-nested declarations. It stops at the first error.
func (r *Root) Walk(fn WalkFunc) error {
	return walkEntries(nil, r.Nested, fn)
}

func walkEntries(scope []string, entries []Entry, fn WalkFunc) error {
	for _, e := range entries {
		if err := fn(scope, e); err != nil {
			return err
		}
		var children []Entry
		switch {
		case e.Kind == KindNamespace && e.Namespace != nil:
			children = e.Namespace.Nested
		case e.Kind == KindMessage && e.Message != nil:
			children = e.Message.Nested
		}
		if len(children) == 0 {
			continue
		}
		inner := make([]string, len(scope), len(scope)+1)
		copy(inner, scope)
		if err := walkEntries(append(inner, e.Name()), children, fn); err != nil {
			return err
		}
	}
	return nil
}

// Stats counts the declarations in a tree.
type Stats struct {
	Namespaces int
	Services   int
	Methods    int
	Messages   int
	Enums      int
}

// Stats returns declaration counts for the whole tree.
func (r *Root) Stats() Stats {
	var s Stats
	_ = r.Walk(func(_ []string, e Entry) error {
		switch e.Kind {
		case KindNamespace:
			s.Namespaces++
		case KindService:
			s.Services++
			if e.Service != nil {
				s.Methods += len(e.Service.Methods)
			}
		case KindMessage:
			s.Messages++
		case KindEnum:
			s.Enums++
		}
		return nil
	})
	return s
}
