package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/dgallion1/qasheet/internal/qa"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// HTMLRenderer writes a standalone HTML page. Answers are converted from
// markdown with goldmark. Raw HTML in questions and answers is shown as
// escaped text, so `Optional<Bean>` reads the same as in the source.
type HTMLRenderer struct {
	md goldmark.Markdown
}

func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(
				renderer.WithNodeRenderers(util.Prioritized(escapedHTML{}, 100)),
			),
		),
	}
}

// escapedHTML replaces goldmark's raw HTML handling, which drops the markup
// unless unsafe mode is on, with an escaped copy of the source text.
type escapedHTML struct{}

func (escapedHTML) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindRawHTML, renderRawHTML)
	reg.Register(ast.KindHTMLBlock, renderHTMLBlock)
}

func renderRawHTML(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}
	n := node.(*ast.RawHTML)
	for i := 0; i < n.Segments.Len(); i++ {
		seg := n.Segments.At(i)
		_, _ = w.Write(util.EscapeHTML(seg.Value(source)))
	}
	return ast.WalkSkipChildren, nil
}

func renderHTMLBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.HTMLBlock)
	if entering {
		_, _ = w.WriteString("<p>")
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			_, _ = w.Write(util.EscapeHTML(line.Value(source)))
		}
		return ast.WalkContinue, nil
	}
	if n.HasClosure() {
		_, _ = w.Write(util.EscapeHTML(n.ClosureLine.Value(source)))
	}
	_, _ = w.WriteString("</p>\n")
	return ast.WalkContinue, nil
}

type htmlPage struct {
	Title    string
	Sections []htmlSection
}

type htmlSection struct {
	Anchor  string
	Name    string
	Entries []htmlEntry
}

type htmlEntry struct {
	ID       string
	Question template.HTML
	Tags     []string
	Answer   template.HTML
}

func (e htmlEntry) DataTags() string { return strings.Join(e.Tags, " ") }

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta name="generator" content="qasheet">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 52rem; margin: 2rem auto; padding: 0 1rem; line-height: 1.5; }
nav.toc ol { columns: 2; }
article.entry { break-inside: avoid; border-top: 1px solid #ddd; padding-top: .5rem; }
ul.tags { list-style: none; padding: 0; margin: 0; }
ul.tags li { display: inline-block; font-size: .8rem; background: #eef; border-radius: 3px; padding: 0 .4rem; margin-right: .3rem; }
pre { background: #f6f8fa; padding: .75rem; overflow-x: auto; }
@media print { nav.toc { display: none; } }
</style>
</head>
<body>
{{with .Title}}<h1>{{.}}</h1>
{{end}}<nav class="toc">
<ol>
{{range .Sections}}<li><a href="#{{.Anchor}}">{{.Name}}</a> ({{len .Entries}})</li>
{{end}}</ol>
</nav>
{{range .Sections}}<section id="{{.Anchor}}">
<h2>{{.Name}}</h2>
{{range .Entries}}<article class="entry">
<h3 id="{{.ID}}"{{if .Tags}} data-tags="{{.DataTags}}"{{end}}>{{.Question}}</h3>
{{if .Tags}}<ul class="tags">{{range .Tags}}<li>{{.}}</li>{{end}}</ul>
{{end}}<div class="answer">
{{.Answer}}</div>
</article>
{{end}}</section>
{{end}}</body>
</html>
`))

func (h *HTMLRenderer) Render(w io.Writer, c *qa.Collection) error {
	page := htmlPage{Title: c.Title}
	for i, s := range c.Sections {
		hs := htmlSection{Anchor: fmt.Sprintf("section-%d", i+1), Name: s.Name}
		for _, e := range s.Entries {
			answer, err := h.convert(e.Answer)
			if err != nil {
				return fmt.Errorf("render answer %q: %w", e.ID, err)
			}
			question, err := h.inline(e.Question)
			if err != nil {
				return fmt.Errorf("render question %q: %w", e.ID, err)
			}
			hs.Entries = append(hs.Entries, htmlEntry{
				ID:       e.ID,
				Question: question,
				Tags:     e.Tags,
				Answer:   answer,
			})
		}
		page.Sections = append(page.Sections, hs)
	}
	return pageTemplate.Execute(w, page)
}

func (h *HTMLRenderer) convert(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := h.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// inline renders a one-line markdown question without its paragraph
// wrapper. Anything that does not come out as a single paragraph is escaped
// as plain text instead.
func (h *HTMLRenderer) inline(src string) (template.HTML, error) {
	out, err := h.convert(src)
	if err != nil {
		return "", err
	}
	s := strings.TrimSpace(string(out))
	if strings.HasPrefix(s, "<p>") && strings.HasSuffix(s, "</p>") && strings.Count(s, "<p>") == 1 {
		return template.HTML(strings.TrimSuffix(strings.TrimPrefix(s, "<p>"), "</p>")), nil
	}
	return template.HTML(template.HTMLEscapeString(src)), nil
}
