package cli

import (
	"strings"

	"github.com/dgallion1/qasheet/internal/pipeline"
	"github.com/dgallion1/qasheet/internal/render"
	"github.com/spf13/cobra"
)

func newRenderCommand(a *app) *cobra.Command {
	var in []string

	cmd := &cobra.Command{
		Use:     "render [input...]",
		Aliases: []string{"r"},
		Short:   "Render documents into one study sheet",
		Long: `Render loads every input, validates the collection and writes it in the
chosen format. Directories are expanded to the supported files they contain,
in lexical order. Nothing is written when any step fails.

Examples:
  qasheet render --input README.md                     # plain text on stdout
  qasheet render -i a.md -i b.yaml -f html -o out.html # merge two files
  qasheet render docs/ --format markdown --title "Spring"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := inputs(in, args)
			if err != nil {
				return err
			}
			_, err = a.pipe.Render(cmd.Context(), pipeline.Options{
				Inputs: paths,
				Format: a.cfg.Format,
				Title:  a.cfg.Title,
				Output: a.cfg.Output,
				Stdout: a.stdout,
			})
			if err != nil {
				return &runError{err}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&in, "input", "i", nil, "input file or directory (repeatable)")
	f.StringP("format", "f", "plain", "output format ("+strings.Join(render.Formats(), ", ")+")")
	f.StringP("output", "o", "-", "output file, - for stdout")
	f.StringP("title", "t", "", "sheet title, overrides document titles")
	return cmd
}
