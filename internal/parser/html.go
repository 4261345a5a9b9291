package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/dgallion1/qasheet/internal/doctree"
	"github.com/dgallion1/qasheet/internal/qa"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. Headings give the structure; the content
// between headings is converted back to markdown so answers keep one format
// whatever they were loaded from. HTML carries no line information.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	doc, err := html.Parse(r)
	if err != nil {
		m := qa.Malformed(filename, 0, "cannot parse html")
		m.Err = err
		return nil, m
	}

	tree := &doctree.DocTree{
		Title:  titleFromFilename(filename),
		Source: filename,
	}

	// Extract title from <title> tag if present.
	if title := findTitle(doc); title != "" {
		tree.Title = title
	}

	stack := doctree.NewHeadingStack()
	conv := md.NewConverter("", true, nil)
	var pending bytes.Buffer

	flush := func() error {
		if pending.Len() == 0 {
			return nil
		}
		text, err := conv.ConvertString(pending.String())
		pending.Reset()
		if err != nil {
			return fmt.Errorf("convert html to markdown: %w", err)
		}
		stack.AddText(strings.TrimSpace(text), 0)
		return nil
	}

	var walk func(*html.Node) error
	walk = func(n *html.Node) error {
		switch n.Type {
		case html.TextNode:
			if strings.TrimSpace(n.Data) != "" {
				return html.Render(&pending, n)
			}
			return nil
		case html.CommentNode:
			return nil
		case html.ElementNode:
			if level := headingLevel(n.Data); level > 0 {
				if err := flush(); err != nil {
					return err
				}
				stack.Push(&doctree.DocNode{
					Title: textContent(n),
					ID:    attr(n, "id"),
					Tags:  strings.Fields(attr(n, "data-tags")),
					Level: level,
				})
				return nil // Don't recurse into heading children (already extracted text).
			}

			// Skip non-content elements.
			switch n.Data {
			case "head", "script", "style", "nav", "footer", "header":
				return nil
			}
			if hasClass(n, "tags") || hasClass(n, "toc") {
				return nil
			}
			if !isContainer(n) {
				return html.Render(&pending, n)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(doc); err != nil {
		m := qa.Malformed(filename, 0, "cannot read html content")
		m.Err = err
		return nil, m
	}
	if err := flush(); err != nil {
		m := qa.Malformed(filename, 0, "cannot read html content")
		m.Err = err
		return nil, m
	}

	tree.Children = stack.Children()
	return tree, nil
}

// isContainer reports whether the walker should descend into n rather than
// treat it as one block of answer content.
func isContainer(n *html.Node) bool {
	switch n.Data {
	case "html", "body", "main", "section", "article", "div":
		return true
	}
	return containsHeading(n)
}

func containsHeading(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (headingLevel(c.Data) > 0 || containsHeading(c)) {
			return true
		}
	}
	return false
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}
