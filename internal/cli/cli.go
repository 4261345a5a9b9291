// Package cli provides the qasheet command line.
//
// Settings are resolved with this precedence, highest first:
//
//  1. Command-line flags (--format, --output, --log-level, ...)
//  2. QASHEET_* environment variables (QASHEET_FORMAT, QASHEET_LOG_LEVEL, ...)
//  3. The config file: --config, else QASHEET_CONFIG_FILE, else .qasheet.yaml
//  4. Built-in defaults
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dgallion1/qasheet/internal/config"
	"github.com/dgallion1/qasheet/internal/pipeline"
	"github.com/dgallion1/qasheet/internal/qa"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitRun   = 1
	ExitUsage = 2
)

// runError marks a failure inside the pipeline, as opposed to a usage or
// configuration problem.
type runError struct{ err error }

func (e *runError) Error() string { return e.err.Error() }
func (e *runError) Unwrap() error { return e.err }

type app struct {
	stdout io.Writer
	stderr io.Writer

	cfgFile string
	cfg     config.Config
	pipe    *pipeline.Pipeline
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	var re *runError
	if errors.As(err, &re) {
		if kind := qa.KindOf(err); kind != "" {
			fmt.Fprintf(stderr, "%s: %v\n", kind, re.err)
		} else {
			fmt.Fprintf(stderr, "error: %v\n", re.err)
		}
		return ExitRun
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	return ExitUsage
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "qasheet",
		Short: "Build study sheets from question/answer documents",
		Long: `qasheet reads question/answer documents, checks them, and renders a single
study sheet.

Top-level headings are sections and their sub-headings are questions; the
text under a question is its answer. Markdown, plain text, HTML, YAML, CSV
and DOCX inputs are supported.

Examples:
  qasheet render --input README.md --format html --output sheet.html
  qasheet render --input docs/ --format plain
  qasheet validate --input README.md`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w\nRun '%s --help' for usage.", err, cmd.CommandPath())
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is .qasheet.yaml, can also use QASHEET_CONFIG_FILE env var)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "json", "log format (json, text)")

	root.AddCommand(newRenderCommand(a), newValidateCommand(a))
	return root
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"format":     config.KeyFormat,
	"output":     config.KeyOutput,
	"title":      config.KeyTitle,
	"log-level":  config.KeyLogLevel,
	"log-format": config.KeyLogFormat,
}

// setup reads the configuration and builds the logger and pipeline before
// any subcommand runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	v, err := config.NewViper(a.cfgFile)
	if err != nil {
		return err
	}
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok && bindErr == nil {
			bindErr = v.BindPFlag(key, f)
		}
	})
	if bindErr != nil {
		return bindErr
	}

	a.cfg = config.Load(v)
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	log, err := a.cfg.Logger(a.stderr)
	if err != nil {
		return err
	}
	if a.cfg.ConfigFile != "" {
		log.Debug("using config file", "path", a.cfg.ConfigFile)
	}
	a.pipe = pipeline.New(log)
	return nil
}

// inputs merges --input values with positional arguments.
func inputs(flagged, args []string) ([]string, error) {
	all := append(append([]string{}, flagged...), args...)
	if len(all) == 0 {
		return nil, errors.New("no input given (use --input)")
	}
	return all, nil
}
