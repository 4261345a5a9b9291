package loader

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgallion1/qasheet/internal/doctree"
	"github.com/dgallion1/qasheet/internal/qa"
)

// Builder folds parsed document trees into one Collection. Sections that
// share a name across documents are merged in first-appearance order.
type Builder struct {
	log      *slog.Logger
	title    string
	sections []*qa.Section
	byName   map[string]*qa.Section
	entries  int
}

func NewBuilder(log *slog.Logger) *Builder {
	return &Builder{log: log, byName: make(map[string]*qa.Section)}
}

// Add maps one tree onto sections and entries. Top-level headings are
// sections and their sub-headings are questions. Unless the document
// declared its title in metadata, a lone top-level heading with at least
// one grandchild heading is read as the title and its children become the
// sections.
func (b *Builder) Add(tree *doctree.DocTree) error {
	src := tree.Source
	title := tree.Title
	nodes := tree.Children

	if !tree.TitleDeclared && len(nodes) == 1 && nodes[0].Level > 0 && hasGrandchildren(nodes[0]) {
		head := nodes[0]
		if head.Title != "" {
			title = head.Title
		}
		if strings.TrimSpace(head.Text) != "" {
			b.log.Warn("ignoring text under document title", "source", src, "line", head.Line)
		}
		nodes = head.Children
	}
	if b.title == "" {
		b.title = title
	}

	if len(nodes) == 0 {
		return qa.Malformed(src, 0, "document has no sections")
	}

	for _, n := range nodes {
		if n.Level == 0 {
			return qa.Malformed(src, n.Line, "text before the first section heading")
		}
		name := collapseSpace(n.Title)
		if name == "" {
			return qa.Malformed(src, n.Line, "section heading is empty")
		}
		if strings.TrimSpace(n.Text) != "" {
			return qa.Malformed(src, n.Line, "section %q has text outside any question", name)
		}
		if len(n.Children) == 0 {
			return qa.Malformed(src, n.Line, "section %q has no questions", name)
		}

		section := b.section(name, qa.Location{Source: src, Line: n.Line})
		for _, q := range n.Children {
			b.entries++
			id, err := entryID(q, tree.IDPrefix, b.entries)
			if err != nil {
				return qa.Malformed(src, q.Line, "%v", err)
			}
			section.Entries = append(section.Entries, &qa.Entry{
				ID:       id,
				Section:  name,
				Question: collapseSpace(q.Title),
				Answer:   normalizeAnswer(foldAnswer(q)),
				Tags:     qa.NormalizeTags(q.Tags, tree.Tags),
				Source:   qa.Location{Source: src, Line: q.Line},
			})
		}
	}
	return nil
}

// Collection returns everything added so far.
func (b *Builder) Collection() *qa.Collection {
	return &qa.Collection{Title: b.title, Sections: b.sections}
}

func (b *Builder) section(name string, loc qa.Location) *qa.Section {
	if s, ok := b.byName[name]; ok {
		return s
	}
	s := &qa.Section{Name: name, Source: loc}
	b.byName[name] = s
	b.sections = append(b.sections, s)
	return s
}

// entryID prefers an explicit id, then a slug of the question. Questions
// that slug to nothing get a positional fallback.
func entryID(q *doctree.DocNode, prefix string, ordinal int) (string, error) {
	if id := strings.TrimSpace(q.ID); id != "" {
		if strings.ContainsAny(id, "\r\n") {
			return "", fmt.Errorf("id %q spans more than one line", id)
		}
		return id, nil
	}
	slug := qa.Slugify(q.Title)
	if slug == "" {
		slug = fmt.Sprintf("entry-%d", ordinal)
	}
	if prefix != "" {
		return prefix + "-" + slug, nil
	}
	return slug, nil
}

// foldAnswer flattens headings nested under a question back into its
// markdown answer.
func foldAnswer(n *doctree.DocNode) string {
	var b strings.Builder
	b.WriteString(n.Text)
	for _, c := range n.Children {
		level := c.Level
		if level > 6 {
			level = 6
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(strings.Repeat("#", level) + " " + c.Title)
		if sub := foldAnswer(c); sub != "" {
			b.WriteString("\n\n" + sub)
		}
	}
	return b.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// normalizeAnswer drops trailing whitespace from every line and blank lines
// at either end. Leading indentation is kept.
func normalizeAnswer(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\r")
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}

func hasGrandchildren(n *doctree.DocNode) bool {
	for _, c := range n.Children {
		if len(c.Children) > 0 {
			return true
		}
	}
	return false
}
