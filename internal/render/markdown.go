package render

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/dgallion1/qasheet/internal/qa"
	"gopkg.in/yaml.v3"
)

// MarkdownRenderer writes canonical markdown: one "#" heading per section
// and one "##" heading per entry, with the id and tags kept as heading
// attributes so the markdown parser can read them back.
type MarkdownRenderer struct{}

func (m *MarkdownRenderer) Render(w io.Writer, c *qa.Collection) error {
	bw := bufio.NewWriter(w)

	if c.Title != "" {
		fm, err := yaml.Marshal(map[string]string{"title": c.Title})
		if err != nil {
			return err
		}
		bw.WriteString("---\n")
		bw.Write(fm)
		bw.WriteString("---\n\n")
	}

	for _, s := range c.Sections {
		bw.WriteString("# " + s.Name + "\n\n")
		for _, e := range s.Entries {
			bw.WriteString("## " + e.Question + " " + headingAttributes(e) + "\n\n")
			bw.WriteString(e.Answer + "\n\n")
		}
	}
	return bw.Flush()
}

func headingAttributes(e *qa.Entry) string {
	attrs := "{id=" + strconv.Quote(e.ID)
	if len(e.Tags) > 0 {
		attrs += " tags=" + strconv.Quote(strings.Join(e.Tags, " "))
	}
	return attrs + "}"
}
