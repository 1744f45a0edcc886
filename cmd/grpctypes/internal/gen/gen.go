// Package gen implements the gen command.
package gen

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/broady/grpctypes"
	"github.com/broady/grpctypes/cmd/grpctypes/internal/flags"
	"github.com/broady/grpctypes/internal/watch"
	"github.com/broady/grpctypes/sink"
)

const stdoutPath = "-"

type Cmd struct {
	flags.Generation `embed:""`

	Out      string        `short:"o" type:"path" help:"Declaration file to write (default: standard output or the project file's out)."`
	Watch    bool          `short:"w" help:"Watch the schema files and regenerate on change."`
	Debounce time.Duration `default:"100ms" help:"Quiet period before regenerating in watch mode."`

	// Stdout is where output goes when no file is given.
	Stdout io.Writer `kong:"-"`
}

func (c *Cmd) Run(ctx context.Context, logger *slog.Logger) error {
	res, err := c.Resolve()
	if err != nil {
		return err
	}
	res.Options.Logger = logger

	out, path, err := c.target(res.Out)
	if err != nil {
		return err
	}

	generate := func(ctx context.Context) error {
		src, err := grpctypes.Generate(ctx, res.Patterns, res.Options)
		if err != nil {
			return err
		}
		if err := out.WriteFile(ctx, path, []byte(src)); err != nil {
			return errors.Wrap(err, "write declarations")
		}
		if path != stdoutPath {
			logger.Info("declarations written", "path", path)
		}
		return nil
	}

	if !c.Watch {
		return generate(ctx)
	}

	if err := generate(ctx); err != nil {
		logger.Error("generate failed", "error", err)
	}
	w, err := watch.New(res.Patterns, c.Debounce, logger)
	if err != nil {
		return err
	}
	defer w.Close()
	fmt.Fprintln(os.Stderr, "watching for changes, press Ctrl+C to stop")
	return w.Run(ctx, generate)
}

// target picks the sink and the path handed to it.
func (c *Cmd) target(configured string) (sink.OutputSink, string, error) {
	out := c.Out
	if out == "" {
		out = configured
	}
	if out == "" || out == "-" {
		w := c.Stdout
		if w == nil {
			w = os.Stdout
		}
		return sink.NewWriterSink(w), stdoutPath, nil
	}
	abs, err := filepath.Abs(out)
	if err != nil {
		return nil, stdoutPath, errors.Wrap(err, "resolve output path")
	}
	return sink.NewFilesystemSink(filepath.Dir(abs)), filepath.Base(abs), nil
}
