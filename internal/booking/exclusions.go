package booking

import "strings"

// ExclusionSet holds the representatives rejected during a session, in the
// order they were rejected. A name appears at most once.
type ExclusionSet struct {
	names []string
}

// Add appends name unless it is empty or already present.
// It reports whether the set grew.
func (e *ExclusionSet) Add(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || e.Contains(name) {
		return false
	}
	e.names = append(e.names, name)
	return true
}

func (e ExclusionSet) Contains(name string) bool {
	for _, n := range e.names {
		if n == name {
			return true
		}
	}
	return false
}

func (e ExclusionSet) Len() int {
	return len(e.names)
}

// Names returns a copy of the excluded names.
func (e ExclusionSet) Names() []string {
	out := make([]string, len(e.names))
	copy(out, e.names)
	return out
}

// String is the wire form: names joined by commas, "" when empty.
func (e ExclusionSet) String() string {
	return strings.Join(e.names, ",")
}
