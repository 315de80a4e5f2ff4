package merge

// BindingSet is the session's record of every detected placeholder binding,
// keyed by document path. Paths are unique: a later binding at the same
// path replaces the earlier one.
type BindingSet struct {
	list []Binding
}

// NewBindingSet creates an empty set.
func NewBindingSet(bindings ...Binding) *BindingSet {
	s := &BindingSet{}
	for _, b := range bindings {
		s.Put(b)
	}
	return s
}

// Put inserts or replaces the binding at its path.
func (s *BindingSet) Put(b Binding) {
	for i, existing := range s.list {
		if existing.Path == b.Path {
			s.list[i] = b
			return
		}
	}
	s.list = append(s.list, b)
}

// ByPath returns the binding at a document path.
func (s *BindingSet) ByPath(path string) (Binding, bool) {
	for _, b := range s.list {
		if b.Path == path {
			return b, true
		}
	}
	return Binding{}, false
}

// Remove deletes the binding at a path. Reports whether it existed.
func (s *BindingSet) Remove(path string) bool {
	for i, b := range s.list {
		if b.Path == path {
			s.list = append(s.list[:i], s.list[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveField deletes every binding whose placeholder names field, returning
// the removed bindings in set order.
func (s *BindingSet) RemoveField(name string) []Binding {
	var removed []Binding
	kept := s.list[:0]
	for _, b := range s.list {
		if ExtractFieldName(b.Placeholder) == name {
			removed = append(removed, b)
			continue
		}
		kept = append(kept, b)
	}
	s.list = kept
	return removed
}

// FieldBindings returns every binding whose placeholder names field.
func (s *BindingSet) FieldBindings(name string) []Binding {
	var out []Binding
	for _, b := range s.list {
		if ExtractFieldName(b.Placeholder) == name {
			out = append(out, b)
		}
	}
	return out
}

// All returns the bindings in set order.
func (s *BindingSet) All() []Binding {
	out := make([]Binding, len(s.list))
	copy(out, s.list)
	return out
}

// Len returns the number of bindings.
func (s *BindingSet) Len() int { return len(s.list) }
