package parser

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/dgallion1/qasheet/internal/doctree"
	"github.com/dgallion1/qasheet/internal/qa"
	"gopkg.in/yaml.v3"
)

// YAMLParser handles explicit question/answer records:
//
//	title: Spring Interview
//	tags: [spring]
//	sections:
//	  - name: IoC
//	    entries:
//	      - id: what-is-ioc
//	        question: What is IoC?
//	        answer: |
//	          Inversion of control.
//	        tags: [core]
type YAMLParser struct{}

type yamlDocument struct {
	Title    string        `yaml:"title"`
	Tags     []string      `yaml:"tags"`
	IDPrefix string        `yaml:"id_prefix"`
	Sections []yamlSection `yaml:"sections"`
}

type yamlSection struct {
	Name    string      `yaml:"name"`
	Entries []yamlEntry `yaml:"entries"`
	line    int
}

type yamlEntry struct {
	ID       string   `yaml:"id"`
	Question string   `yaml:"question"`
	Answer   string   `yaml:"answer"`
	Tags     []string `yaml:"tags"`
	line     int
}

// UnmarshalYAML records the line each section starts on.
func (s *yamlSection) UnmarshalYAML(n *yaml.Node) error {
	if err := checkKeys(n, "name", "entries"); err != nil {
		return err
	}
	type plain yamlSection
	var v plain
	if err := n.Decode(&v); err != nil {
		return err
	}
	*s = yamlSection(v)
	s.line = n.Line
	return nil
}

// UnmarshalYAML records the line each entry starts on.
func (e *yamlEntry) UnmarshalYAML(n *yaml.Node) error {
	if err := checkKeys(n, "id", "question", "answer", "tags"); err != nil {
		return err
	}
	type plain yamlEntry
	var v plain
	if err := n.Decode(&v); err != nil {
		return err
	}
	*e = yamlEntry(v)
	e.line = n.Line
	return nil
}

func (p *YAMLParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc yamlDocument
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		m := qa.Malformed(filename, yamlErrorLine(err), "cannot decode yaml document")
		m.Err = err
		return nil, m
	}

	tree := &doctree.DocTree{
		Title:    titleFromFilename(filename),
		Source:   filename,
		Tags:     doc.Tags,
		IDPrefix: doc.IDPrefix,
	}
	if doc.Title != "" {
		tree.Title = doc.Title
		tree.TitleDeclared = true
	}

	for _, s := range doc.Sections {
		section := &doctree.DocNode{Title: s.Name, Level: 1, Line: s.line}
		for _, e := range s.Entries {
			section.Children = append(section.Children, &doctree.DocNode{
				Title: e.Question,
				ID:    e.ID,
				Tags:  e.Tags,
				Text:  e.Answer,
				Level: 2,
				Line:  e.line,
			})
		}
		tree.Children = append(tree.Children, section)
	}

	return tree, nil
}

// checkKeys rejects unknown mapping keys. Decoding through a node drops the
// decoder's KnownFields setting, so nested records check themselves.
func checkKeys(n *yaml.Node, allowed ...string) error {
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		known := false
		for _, a := range allowed {
			if key.Value == a {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("line %d: field %s not found", key.Line, key.Value)
		}
	}
	return nil
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

// yamlErrorLine pulls the first line number out of a yaml decode error.
func yamlErrorLine(err error) int {
	m := yamlLine.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	line, _ := strconv.Atoi(m[1])
	return line
}
