package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgallion1/qasheet/internal/doctree"
	"github.com/dgallion1/qasheet/internal/qa"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. Heading styles give the structure and the
// paragraph index stands in for the line number.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "qasheet-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		m := qa.Malformed(filename, 0, "cannot parse docx")
		m.Err = err
		return nil, m
	}

	tree := &doctree.DocTree{
		Title:  titleFromFilename(filename),
		Source: filename,
	}

	stack := doctree.NewHeadingStack()
	var current []string
	currentAt := 0

	flushText := func() {
		if len(current) > 0 {
			stack.AddText(strings.Join(current, "\n\n"), currentAt)
		}
		current = nil
	}

	para := 0
	for _, item := range doc.Document.Body.Items {
		pg, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		para++

		// Check if paragraph has a heading style.
		level := docxHeadingLevel(pg)
		text := docxParagraphText(pg)

		if level > 0 && text != "" {
			flushText()
			stack.Push(&doctree.DocNode{Title: text, Level: level, Line: para})
		} else if text != "" {
			if len(current) == 0 {
				currentAt = para
			}
			current = append(current, text)
		}
	}
	flushText()

	tree.Children = stack.Children()
	return tree, nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if !strings.HasPrefix(style, "heading") {
		return 0
	}
	switch strings.TrimPrefix(style, "heading") {
	case "1":
		return 1
	case "2":
		return 2
	case "3":
		return 3
	case "4":
		return 4
	case "5":
		return 5
	case "6":
		return 6
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
