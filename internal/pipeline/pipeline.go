// Package pipeline wires the loader, validator and renderer into a single
// run: resolve, loading, validating, rendering, writing. Any failure stops
// the run before anything is written.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dgallion1/qasheet/internal/loader"
	"github.com/dgallion1/qasheet/internal/qa"
	"github.com/dgallion1/qasheet/internal/render"
	"github.com/spf13/afero"
)

// Options describes one run.
type Options struct {
	Inputs []string
	Format string
	Title  string

	// Output is a file path. Empty or "-" writes to Stdout.
	Output string

	// Stdout defaults to os.Stdout.
	Stdout io.Writer
	// Fs receives the output file. Defaults to the OS filesystem.
	Fs afero.Fs
}

// Result reports what a run produced.
type Result struct {
	RunID    string
	Format   string
	Output   string
	Sections int
	Entries  int
	Bytes    int
	Digest   string
}

// Pipeline runs collections through load, validate and render.
type Pipeline struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Pipeline {
	return &Pipeline{log: log}
}

// Render runs every phase and writes the rendered document.
func (p *Pipeline) Render(ctx context.Context, opts Options) (*Result, error) {
	run := newRun()
	log := p.log.With("run", run.ID)
	res := &Result{RunID: run.ID, Format: opts.Format, Output: outputName(opts.Output)}

	fail := func(err error) (*Result, error) {
		run.Fail(err)
		log.Error("run failed", "phase", run.Phase, "kind", qa.KindOf(err), "error", err)
		return nil, err
	}

	run.Enter(PhaseResolve)
	r, err := render.ForFormat(opts.Format)
	if err != nil {
		return fail(err)
	}

	c, err := p.load(ctx, run, log, opts.Inputs, opts.Title)
	if err != nil {
		return fail(err)
	}
	res.Sections, res.Entries = len(c.Sections), c.Len()

	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	run.Enter(PhaseRendering)
	log.Debug("rendering", "format", opts.Format)
	var buf bytes.Buffer
	if err := r.Render(&buf, c); err != nil {
		return fail(fmt.Errorf("render %s: %w", opts.Format, err))
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	run.Enter(PhaseWriting)
	if err := writeOutput(opts, buf.Bytes()); err != nil {
		return fail(err)
	}

	run.Complete()
	res.Bytes = buf.Len()
	res.Digest = ContentHashHex(buf.Bytes())
	log.Info("run completed",
		"format", opts.Format,
		"output", res.Output,
		"sections", res.Sections,
		"entries", res.Entries,
		"bytes", res.Bytes,
		"elapsed", run.Elapsed(),
	)
	return res, nil
}

// Check loads and validates without rendering.
func (p *Pipeline) Check(ctx context.Context, inputs []string, title string) (*Result, error) {
	run := newRun()
	log := p.log.With("run", run.ID)

	c, err := p.load(ctx, run, log, inputs, title)
	if err != nil {
		run.Fail(err)
		log.Error("check failed", "phase", run.Phase, "kind", qa.KindOf(err), "error", err)
		return nil, err
	}
	run.Complete()
	log.Info("check completed", "sections", len(c.Sections), "entries", c.Len())
	return &Result{RunID: run.ID, Sections: len(c.Sections), Entries: c.Len()}, nil
}

func (p *Pipeline) load(ctx context.Context, run *Run, log *slog.Logger, inputs []string, title string) (*qa.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	run.Enter(PhaseLoading)
	log.Debug("loading", "inputs", len(inputs))
	c, err := loader.New(log, title).Load(inputs)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	run.Enter(PhaseValidating)
	log.Debug("validating", "sections", len(c.Sections), "entries", c.Len())
	return qa.Validate(c)
}

func outputName(output string) string {
	if output == "" || output == "-" {
		return "-"
	}
	return output
}

// writeOutput writes data to stdout, or to a temp file next to the target
// that is then renamed over it.
func writeOutput(opts Options, data []byte) error {
	if outputName(opts.Output) == "-" {
		w := opts.Stdout
		if w == nil {
			w = os.Stdout
		}
		_, err := w.Write(data)
		return err
	}

	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	dir, base := filepath.Split(opts.Output)
	if dir == "" {
		dir = "."
	}

	tmp, err := afero.TempFile(fs, dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", opts.Output, err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		fs.Remove(name)
		return fmt.Errorf("write %s: %w", opts.Output, err)
	}
	if err := tmp.Close(); err != nil {
		fs.Remove(name)
		return fmt.Errorf("write %s: %w", opts.Output, err)
	}
	if err := fs.Chmod(name, 0o644); err != nil {
		fs.Remove(name)
		return fmt.Errorf("chmod %s: %w", opts.Output, err)
	}
	if err := fs.Rename(name, opts.Output); err != nil {
		fs.Remove(name)
		return fmt.Errorf("rename %s: %w", opts.Output, err)
	}
	return nil
}
