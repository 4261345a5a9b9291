package parser

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"github.com/dgallion1/qasheet/internal/doctree"
	"github.com/dgallion1/qasheet/internal/qa"
)

// TextParser reads the plain study-sheet layout produced by the plain
// renderer:
//
//	Sheet title
//	###########
//
//	Section name
//	============
//
//	[entry-id] Question text?
//	Tags: a, b
//	    Answer lines, indented four spaces.
//
// Inside the brackets a backslash escapes the next character, so ids may
// contain "]".
type TextParser struct{}

var (
	entryHeader = regexp.MustCompile(`^\[((?:[^\]\\]|\\.)*)\] ?(.*)$`)
	underline   = regexp.MustCompile(`^=+$`)
	titleRule   = regexp.MustCompile(`^#+$`)
)

const answerIndent = "    "

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), " \t\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	tree := &doctree.DocTree{
		Title:  titleFromFilename(filename),
		Source: filename,
	}

	var (
		section *doctree.DocNode
		entry   *doctree.DocNode
		answer  []string
	)
	flush := func() {
		if entry == nil {
			return
		}
		for len(answer) > 0 && answer[len(answer)-1] == "" {
			answer = answer[:len(answer)-1]
		}
		entry.Text = strings.Join(answer, "\n")
		answer = nil
		entry = nil
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		lineNo := i + 1

		switch {
		case line == "":
			if entry != nil && len(answer) > 0 {
				answer = append(answer, "")
			}

		case strings.HasPrefix(line, answerIndent) && entry != nil:
			answer = append(answer, strings.TrimPrefix(line, answerIndent))

		case i+1 < len(lines) && titleRule.MatchString(lines[i+1]) && !strings.HasPrefix(line, " "):
			if len(tree.Children) > 0 {
				return nil, qa.Malformed(filename, lineNo, "title after the first section")
			}
			tree.Title = strings.TrimSpace(line)
			tree.TitleDeclared = true
			i++

		case i+1 < len(lines) && underline.MatchString(lines[i+1]) && !strings.HasPrefix(line, " "):
			flush()
			section = &doctree.DocNode{Title: strings.TrimSpace(line), Level: 1, Line: lineNo}
			tree.Children = append(tree.Children, section)
			i++

		case entryHeader.MatchString(line):
			if section == nil {
				return nil, qa.Malformed(filename, lineNo, "entry before the first section heading")
			}
			flush()
			m := entryHeader.FindStringSubmatch(line)
			entry = &doctree.DocNode{
				ID:    strings.TrimSpace(unescapeID(m[1])),
				Title: strings.TrimSpace(m[2]),
				Level: 2,
				Line:  lineNo,
			}
			section.Children = append(section.Children, entry)
			if i+1 < len(lines) && strings.HasPrefix(lines[i+1], "Tags:") {
				entry.Tags = splitList(strings.TrimPrefix(lines[i+1], "Tags:"), ",")
				i++
			}

		default:
			return nil, qa.Malformed(filename, lineNo, "unexpected unindented text %q", line)
		}
	}
	flush()

	return tree, nil
}

func unescapeID(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func splitList(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
