// Package qa holds the question/answer collection model shared by the
// loader, validator and renderers.
package qa

import "fmt"

// Location points at the place in a source document an item came from.
type Location struct {
	Source string
	Line   int // 1-based; 0 when the format has no lines
}

func (l Location) String() string {
	if l.Line > 0 {
		return fmt.Sprintf("%s:%d", l.Source, l.Line)
	}
	return l.Source
}

// Entry is one question/answer unit.
type Entry struct {
	ID       string `validate:"nonblank"`
	Section  string
	Question string `validate:"nonblank"`
	Answer   string `validate:"nonblank"` // markdown; may embed fenced code
	Tags     []string
	Source   Location
}

// Section is a named, ordered group of entries.
type Section struct {
	Name    string
	Entries []*Entry
	Source  Location // where the section first appears
}

// Collection is the full ordered set of sections for one run. It is built
// once by the loader and not modified afterwards.
type Collection struct {
	Title    string
	Sections []*Section
}

// Entries returns every entry in document order.
func (c *Collection) Entries() []*Entry {
	var out []*Entry
	for _, s := range c.Sections {
		out = append(out, s.Entries...)
	}
	return out
}

// Len returns the number of entries across all sections.
func (c *Collection) Len() int {
	n := 0
	for _, s := range c.Sections {
		n += len(s.Entries)
	}
	return n
}

// Lookup returns the first entry with the given id.
func (c *Collection) Lookup(id string) (*Entry, bool) {
	for _, s := range c.Sections {
		for _, e := range s.Entries {
			if e.ID == id {
				return e, true
			}
		}
	}
	return nil, false
}
