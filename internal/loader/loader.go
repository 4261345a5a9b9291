// Package loader reads question/answer documents from disk and builds the
// in-memory collection.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/qasheet/internal/doctree"
	"github.com/dgallion1/qasheet/internal/parser"
	"github.com/dgallion1/qasheet/internal/qa"
)

// Loader turns document sources into a Collection.
type Loader struct {
	log   *slog.Logger
	title string
}

// New creates a Loader. A non-empty title overrides the titles found in the
// documents.
func New(log *slog.Logger, title string) *Loader {
	return &Loader{log: log, title: title}
}

// Load reads every input in order. Directories are expanded to the supported
// files they contain, in lexical order.
func (l *Loader) Load(inputs []string) (*qa.Collection, error) {
	files, err := ExpandInputs(inputs)
	if err != nil {
		return nil, err
	}

	b := NewBuilder(l.log)
	for _, file := range files {
		tree, err := parseFile(file)
		if err != nil {
			return nil, err
		}
		if err := b.Add(tree); err != nil {
			return nil, err
		}
		l.log.Debug("loaded document", "source", file, "sections", len(tree.Children))
	}

	c := b.Collection()
	if l.title != "" {
		c.Title = l.title
	}
	return c, nil
}

func parseFile(file string) (*doctree.DocTree, error) {
	p, err := parser.ForFile(file)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", file, err)
	}
	defer f.Close()

	tree, err := p.Parse(f, file)
	if err != nil {
		var m *qa.MalformedDocumentError
		if errors.As(err, &m) {
			return nil, err
		}
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	return tree, nil
}

// ExpandInputs resolves the input list to concrete files.
func ExpandInputs(inputs []string) ([]string, error) {
	if len(inputs) == 0 {
		return nil, errors.New("no input documents given")
	}

	var files []string
	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", in, err)
		}
		if !info.IsDir() {
			files = append(files, in)
			continue
		}

		found := 0
		err = filepath.WalkDir(in, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != in && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if parser.IsSupportedExtension(path) {
				files = append(files, path)
				found++
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", in, err)
		}
		if found == 0 {
			return nil, fmt.Errorf("input %s: no supported documents (want %s)", in, strings.Join(parser.Extensions(), ", "))
		}
	}
	return files, nil
}
