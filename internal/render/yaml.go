package render

import (
	"io"

	"github.com/dgallion1/qasheet/internal/qa"
	"gopkg.in/yaml.v3"
)

// YAMLRenderer writes the record layout read by the yaml parser.
type YAMLRenderer struct{}

type yamlDocument struct {
	Title    string        `yaml:"title,omitempty"`
	Sections []yamlSection `yaml:"sections"`
}

type yamlSection struct {
	Name    string      `yaml:"name"`
	Entries []yamlEntry `yaml:"entries"`
}

type yamlEntry struct {
	ID       string   `yaml:"id"`
	Question string   `yaml:"question"`
	Answer   string   `yaml:"answer"`
	Tags     []string `yaml:"tags,omitempty"`
}

func (y *YAMLRenderer) Render(w io.Writer, c *qa.Collection) error {
	doc := yamlDocument{Title: c.Title, Sections: []yamlSection{}}
	for _, s := range c.Sections {
		ys := yamlSection{Name: s.Name, Entries: []yamlEntry{}}
		for _, e := range s.Entries {
			ys.Entries = append(ys.Entries, yamlEntry{
				ID:       e.ID,
				Question: e.Question,
				Answer:   e.Answer,
				Tags:     e.Tags,
			})
		}
		doc.Sections = append(doc.Sections, ys)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
