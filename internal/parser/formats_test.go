package parser

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dgallion1/qasheet/internal/qa"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"a.md", "*parser.MarkdownParser"},
		{"A.MARKDOWN", "*parser.MarkdownParser"},
		{"sheet.txt", "*parser.TextParser"},
		{"page.htm", "*parser.HTMLParser"},
		{"q.yml", "*parser.YAMLParser"},
		{"q.csv", "*parser.CSVParser"},
		{"q.docx", "*parser.DOCXParser"},
	}
	for _, tt := range tests {
		p, err := ForFile(tt.filename)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.filename, err)
		}
		if got := fmt.Sprintf("%T", p); got != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.filename, tt.want, got)
		}
	}

	_, err := ForFile("notes.pdf")
	if !errors.Is(err, qa.ErrMalformedDocument) {
		t.Errorf("expected malformed document error for .pdf, got %v", err)
	}
	if IsSupportedExtension("notes.pdf") || !IsSupportedExtension("NOTES.MD") {
		t.Error("unexpected IsSupportedExtension result")
	}
}

func TestHTMLParser_SectionsAndAnswers(t *testing.T) {
	input := `<!DOCTYPE html>
<html><head><title>Spring Interview</title><style>h1 {}</style></head>
<body>
<nav class="toc"><ol><li><a href="#ioc">IoC</a></li></ol></nav>
<h1>IoC</h1>
<h2 id="what-is-ioc" data-tags="core container">What is IoC?</h2>
<ul class="tags"><li>core</li><li>container</li></ul>
<div class="answer">
<p>Uses <strong>proxies</strong>.</p>
<pre><code class="language-java">context.getBean(Foo.class);
</code></pre>
</div>
<h2>Second?</h2>
<p>Yes.</p>
</body></html>`

	p := &HTMLParser{}
	tree, err := p.Parse(strings.NewReader(input), "page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Title != "Spring Interview" {
		t.Errorf("expected title from <title>, got %q", tree.Title)
	}
	if len(tree.Children) != 1 {
		t.Fatalf("expected 1 section, got %d", len(tree.Children))
	}
	sec := tree.Children[0]
	if sec.Title != "IoC" || len(sec.Children) != 2 {
		t.Fatalf("unexpected section: %+v", sec)
	}

	q := sec.Children[0]
	if q.ID != "what-is-ioc" || strings.Join(q.Tags, ",") != "core,container" {
		t.Errorf("unexpected question attributes: %+v", q)
	}
	if !strings.Contains(q.Text, "Uses **proxies**.") {
		t.Errorf("expected markdown paragraph, got %q", q.Text)
	}
	if !strings.Contains(q.Text, "```") || !strings.Contains(q.Text, "context.getBean(Foo.class);") {
		t.Errorf("expected fenced code block, got %q", q.Text)
	}
	if strings.Contains(q.Text, "- core") {
		t.Errorf("tag list leaked into answer: %q", q.Text)
	}
	if sec.Children[1].Text != "Yes." {
		t.Errorf("unexpected second answer %q", sec.Children[1].Text)
	}
}

func TestYAMLParser_Records(t *testing.T) {
	input := `title: Spring Interview
tags: [spring]
sections:
  - name: IoC
    entries:
      - id: what-is-ioc
        question: What is IoC?
        answer: |
          Inversion of control.
        tags: [core]
      - question: Second?
        answer: Yes.
  - name: DI
    entries: []
`
	p := &YAMLParser{}
	tree, err := p.Parse(strings.NewReader(input), "q.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Title != "Spring Interview" || len(tree.Tags) != 1 {
		t.Errorf("unexpected document fields: %+v", tree)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(tree.Children))
	}
	ioc := tree.Children[0]
	if ioc.Line != 4 || len(ioc.Children) != 2 {
		t.Fatalf("unexpected section: %+v", ioc)
	}
	first := ioc.Children[0]
	if first.ID != "what-is-ioc" || first.Line != 6 || first.Text != "Inversion of control.\n" {
		t.Errorf("unexpected entry: %+v", first)
	}
	if ioc.Children[1].Line != 11 {
		t.Errorf("expected second entry on line 11, got %d", ioc.Children[1].Line)
	}
}

func TestYAMLParser_UnknownFieldIsMalformed(t *testing.T) {
	input := "sections:\n  - name: IoC\n    entries:\n      - question: Q?\n        answr: typo\n"

	p := &YAMLParser{}
	_, err := p.Parse(strings.NewReader(input), "typo.yaml")
	var m *qa.MalformedDocumentError
	if !errors.As(err, &m) {
		t.Fatalf("expected MalformedDocumentError, got %v", err)
	}
	if m.Location.Line != 5 {
		t.Errorf("expected line 5, got %d", m.Location.Line)
	}
}

func TestCSVParser_RowsGroupedBySection(t *testing.T) {
	input := "section,id,question,answer,tags\n" +
		"IoC,what-is-ioc,What is IoC?,Inversion of control.,core;container\n" +
		"DI,,Why constructors?,Immutability.,\n" +
		"IoC,,Second?,\"Multi\nline\",\n"

	p := &CSVParser{}
	tree, err := p.Parse(strings.NewReader(input), "q.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(tree.Children))
	}
	ioc := tree.Children[0]
	if ioc.Title != "IoC" || len(ioc.Children) != 2 {
		t.Fatalf("unexpected IoC section: %+v", ioc)
	}
	if got := strings.Join(ioc.Children[0].Tags, ","); got != "core,container" {
		t.Errorf("unexpected tags %q", got)
	}
	if ioc.Children[0].Line != 2 || ioc.Children[1].Line != 4 {
		t.Errorf("unexpected lines %d, %d", ioc.Children[0].Line, ioc.Children[1].Line)
	}
	if ioc.Children[1].Text != "Multi\nline" {
		t.Errorf("unexpected multi-line answer %q", ioc.Children[1].Text)
	}
	if tree.Children[1].Title != "DI" {
		t.Errorf("expected DI second, got %q", tree.Children[1].Title)
	}
}

func TestCSVParser_MissingColumn(t *testing.T) {
	p := &CSVParser{}
	_, err := p.Parse(strings.NewReader("section,question\nIoC,Q?\n"), "bad.csv")
	if !errors.Is(err, qa.ErrMalformedDocument) {
		t.Fatalf("expected malformed document error, got %v", err)
	}
}
