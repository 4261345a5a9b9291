package parser

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/dgallion1/qasheet/internal/doctree"
	"github.com/dgallion1/qasheet/internal/qa"
)

// CSVParser handles CSV files with one entry per row. The header row names
// the columns; section, question and answer are required, id and tags
// (semicolon separated) are optional.
type CSVParser struct{}

var requiredCSVColumns = []string{"section", "question", "answer"}

func (p *CSVParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	tree := &doctree.DocTree{
		Title:  titleFromFilename(filename),
		Source: filename,
	}

	// First row is headers.
	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return tree, nil
	}
	if err != nil {
		return nil, csvError(filename, err)
	}
	cols := make(map[string]int, len(headers))
	for i, h := range headers {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range requiredCSVColumns {
		if _, ok := cols[name]; !ok {
			return nil, qa.Malformed(filename, 1, "missing %q column in header", name)
		}
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	// Rows for the same section are grouped in order of first appearance.
	sections := make(map[string]*doctree.DocNode)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(filename, err)
		}
		line, _ := reader.FieldPos(0)

		name := strings.TrimSpace(field(row, "section"))
		section, ok := sections[name]
		if !ok {
			section = &doctree.DocNode{Title: name, Level: 1, Line: line}
			sections[name] = section
			tree.Children = append(tree.Children, section)
		}
		section.Children = append(section.Children, &doctree.DocNode{
			Title: strings.TrimSpace(field(row, "question")),
			ID:    strings.TrimSpace(field(row, "id")),
			Tags:  splitList(field(row, "tags"), ";"),
			Text:  strings.TrimSpace(field(row, "answer")),
			Level: 2,
			Line:  line,
		})
	}

	return tree, nil
}

func csvError(filename string, err error) error {
	line := 0
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		line = perr.Line
	}
	m := qa.Malformed(filename, line, "cannot parse csv")
	m.Err = err
	return m
}
