package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCommand(a *app) *cobra.Command {
	var in []string

	cmd := &cobra.Command{
		Use:     "validate [input...]",
		Aliases: []string{"v"},
		Short:   "Check documents without rendering",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := inputs(in, args)
			if err != nil {
				return err
			}
			res, err := a.pipe.Check(cmd.Context(), paths, "")
			if err != nil {
				return &runError{err}
			}
			fmt.Fprintf(a.stdout, "ok: %d sections, %d entries\n", res.Sections, res.Entries)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&in, "input", "i", nil, "input file or directory (repeatable)")
	return cmd
}
