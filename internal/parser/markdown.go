package parser

import (
	"bytes"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/dgallion1/qasheet/internal/doctree"
	"github.com/dgallion1/qasheet/internal/qa"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// MarkdownParser handles Markdown files using goldmark.
//
// goldmark only decides which lines are headings; the text between headings
// is kept as raw markdown so fenced code survives untouched.
type MarkdownParser struct{}

// frontMatter is the optional YAML block at the top of a markdown document.
type frontMatter struct {
	Title    string   `yaml:"title"`
	Tags     []string `yaml:"tags"`
	IDPrefix string   `yaml:"id_prefix"`
}

var emptyATX = regexp.MustCompile(`^ {0,3}(#{1,6})[ \t]*#*[ \t]*$`)

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	raw = bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))

	tree := &doctree.DocTree{
		Title:  titleFromFilename(filename),
		Source: filename,
	}

	src, offset, fm, err := splitFrontMatter(raw, filename)
	if err != nil {
		return nil, err
	}
	if fm != nil {
		if fm.Title != "" {
			tree.Title = fm.Title
			tree.TitleDeclared = true
		}
		tree.Tags = fm.Tags
		tree.IDPrefix = fm.IDPrefix
	}

	md := goldmark.New(goldmark.WithParserOptions(gmparser.WithAttribute()))
	doc := md.Parser().Parse(text.NewReader(src))

	lines := splitLines(src)
	starts := lineStarts(src)
	lineOf := func(pos int) int {
		return sort.Search(len(starts), func(i int) bool { return starts[i] > pos }) - 1
	}

	// Heading spans in 0-based line indexes of src.
	type span struct {
		node        *doctree.DocNode
		first, last int
	}
	var spans []span
	cursor := 0

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok {
			continue
		}
		node := &doctree.DocNode{Level: h.Level}
		var first, last int

		segs := h.Lines()
		if segs.Len() == 0 {
			// Empty ATX heading; goldmark records no segment for it.
			first = cursor
			for first < len(lines) {
				if m := emptyATX.FindStringSubmatch(lines[first]); m != nil && len(m[1]) == h.Level {
					break
				}
				first++
			}
			if first == len(lines) {
				continue
			}
			last = first
		} else {
			var parts []string
			for i := 0; i < segs.Len(); i++ {
				seg := segs.At(i)
				parts = append(parts, strings.TrimSpace(string(seg.Value(src))))
			}
			node.Title = strings.TrimSpace(strings.Join(parts, " "))
			first = lineOf(segs.At(0).Start)
			last = lineOf(segs.At(segs.Len() - 1).Start)
			if !strings.HasPrefix(strings.TrimLeft(lines[first], " "), "#") {
				// Setext heading: the underline follows the text.
				last++
			}
		}

		if v, ok := h.AttributeString("id"); ok {
			if b, ok := v.([]byte); ok {
				node.ID = string(b)
			}
		}
		for _, name := range []string{"class", "tags"} {
			if v, ok := h.AttributeString(name); ok {
				if b, ok := v.([]byte); ok {
					node.Tags = append(node.Tags, strings.Fields(string(b))...)
				}
			}
		}
		node.Line = first + 1 + offset
		spans = append(spans, span{node: node, first: first, last: last})
		cursor = last + 1
	}

	stack := doctree.NewHeadingStack()

	// Text before the first heading.
	end := len(lines)
	if len(spans) > 0 {
		end = spans[0].first
	}
	if t, at := joinBlock(lines, 0, end); t != "" {
		stack.AddText(t, at+1+offset)
	}

	for i, sp := range spans {
		stack.Push(sp.node)
		end := len(lines)
		if i+1 < len(spans) {
			end = spans[i+1].first
		}
		if t, at := joinBlock(lines, sp.last+1, end); t != "" {
			stack.AddText(t, at+1+offset)
		}
	}

	tree.Children = stack.Children()
	return tree, nil
}

// splitFrontMatter strips a leading "---" YAML block and returns the rest of
// the source along with the number of lines removed.
func splitFrontMatter(src []byte, filename string) ([]byte, int, *frontMatter, error) {
	if !bytes.HasPrefix(src, []byte("---\n")) {
		return src, 0, nil, nil
	}
	lines := splitLines(src)
	for i := 1; i < len(lines); i++ {
		if lines[i] != "---" && lines[i] != "..." {
			continue
		}
		var fm frontMatter
		block := strings.Join(lines[1:i], "\n")
		if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
			m := qa.Malformed(filename, 1, "invalid front matter")
			m.Err = err
			return nil, 0, nil, m
		}
		rest := strings.Join(lines[i+1:], "\n")
		return []byte(rest), i + 1, &fm, nil
	}
	return nil, 0, nil, qa.Malformed(filename, 1, "front matter is not closed")
}

// joinBlock returns lines[from:to] with leading and trailing blank lines
// removed, and the index of the first kept line. Indentation is preserved.
func joinBlock(lines []string, from, to int) (string, int) {
	if to > len(lines) {
		to = len(lines)
	}
	for from < to && strings.TrimSpace(lines[from]) == "" {
		from++
	}
	for to > from && strings.TrimSpace(lines[to-1]) == "" {
		to--
	}
	if from >= to {
		return "", from
	}
	block := make([]string, 0, to-from)
	for _, l := range lines[from:to] {
		block = append(block, strings.TrimRight(l, " \t"))
	}
	return strings.Join(block, "\n"), from
}

func splitLines(src []byte) []string {
	s := string(src)
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func lineStarts(src []byte) []int {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}
