package render

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/qasheet/internal/qa"
)

var idEscaper = strings.NewReplacer(`\`, `\\`, `]`, `\]`)

// PlainRenderer writes a study sheet that the text parser can read back.
type PlainRenderer struct{}

func (p *PlainRenderer) Render(w io.Writer, c *qa.Collection) error {
	bw := bufio.NewWriter(w)

	if c.Title != "" {
		writeUnderlined(bw, c.Title, '#')
	}

	for _, s := range c.Sections {
		writeUnderlined(bw, s.Name, '=')
		for _, e := range s.Entries {
			bw.WriteString("[" + idEscaper.Replace(e.ID) + "] " + e.Question + "\n")
			if len(e.Tags) > 0 {
				bw.WriteString("Tags: " + strings.Join(e.Tags, ", ") + "\n")
			}
			for _, line := range strings.Split(e.Answer, "\n") {
				if strings.TrimSpace(line) == "" {
					bw.WriteString("\n")
					continue
				}
				bw.WriteString("    " + line + "\n")
			}
			bw.WriteString("\n")
		}
	}
	return bw.Flush()
}

func writeUnderlined(w *bufio.Writer, text string, rule byte) {
	w.WriteString(text + "\n")
	w.WriteString(strings.Repeat(string(rule), max(utf8.RuneCountInString(text), 3)) + "\n\n")
}
