package permissions

import "sort"

// Set is an immutable collection of strings. Mutating helpers return a new
// Set and never modify the receiver, so two snapshots can be compared safely
// after any number of edits.
type Set struct {
	items map[string]struct{}
}

// NewSet builds a set from the provided values, ignoring duplicates.
func NewSet(values ...string) Set {
	items := make(map[string]struct{}, len(values))
	for _, value := range values {
		items[value] = struct{}{}
	}
	return Set{items: items}
}

// Len reports the number of elements.
func (s Set) Len() int {
	return len(s.items)
}

// Has reports whether value is a member.
func (s Set) Has(value string) bool {
	_, ok := s.items[value]
	return ok
}

// With returns a copy of the set that includes every value.
func (s Set) With(values ...string) Set {
	out := s.clone(len(values))
	for _, value := range values {
		out.items[value] = struct{}{}
	}
	return out
}

// Without returns a copy of the set with every value removed.
func (s Set) Without(values ...string) Set {
	out := s.clone(0)
	for _, value := range values {
		delete(out.items, value)
	}
	return out
}

// Values returns the elements in sorted order.
func (s Set) Values() []string {
	values := make([]string, 0, len(s.items))
	for value := range s.items {
		values = append(values, value)
	}
	sort.Strings(values)
	return values
}

func (s Set) clone(extra int) Set {
	items := make(map[string]struct{}, len(s.items)+extra)
	for value := range s.items {
		items[value] = struct{}{}
	}
	return Set{items: items}
}

// SetsEqual reports whether both sets contain exactly the same elements.
func SetsEqual(a, b Set) bool {
	if a.Len() != b.Len() {
		return false
	}
	for value := range a.items {
		if !b.Has(value) {
			return false
		}
	}
	return true
}

// PartitionByPrefix returns the elements of s that start with "<prefix>-",
// sorted.
func PartitionByPrefix(s Set, prefix string) []string {
	var matched []string
	for value := range s.items {
		if hasKeyPrefix(value, prefix) {
			matched = append(matched, value)
		}
	}
	sort.Strings(matched)
	return matched
}

// IsFullySelected reports whether current covers every entry of all. An empty
// permission list is never fully selected.
func IsFullySelected(current, all []string) bool {
	return len(all) > 0 && len(current) == len(all)
}
