// Package check implements the check command, which reports whether a
// committed declaration file matches what the schemas generate.
package check

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"

	"github.com/broady/grpctypes"
	"github.com/broady/grpctypes/cmd/grpctypes/internal/flags"
	"github.com/broady/grpctypes/internal/diff"
)

// ErrStale is returned when the declaration file is out of date.
var ErrStale = errors.New("declarations are stale")

type Cmd struct {
	flags.Generation `embed:""`

	Against string `required:"" type:"existingfile" help:"Declaration file to compare against."`
	Color   string `enum:"auto,always,never" default:"auto" help:"Colorize the diff (${enum})."`
	Context int    `default:"3" help:"Unchanged lines shown around each change."`

	Stdout io.Writer `kong:"-"`
}

func (c *Cmd) Run(ctx context.Context, logger *slog.Logger) error {
	res, err := c.Resolve()
	if err != nil {
		return err
	}
	res.Options.Logger = logger

	generated, err := grpctypes.Generate(ctx, res.Patterns, res.Options)
	if err != nil {
		return err
	}
	existing, err := os.ReadFile(c.Against)
	if err != nil {
		return errors.Wrap(err, "read declarations")
	}

	lines := diff.Lines(string(existing), generated)
	if !diff.Changed(lines) {
		fmt.Fprintf(os.Stderr, "✓ %s is up to date\n", c.Against)
		return nil
	}

	out := c.Stdout
	if out == nil {
		out = os.Stdout
	}
	p := diff.NewPrinter(c.colored(), c.Context)
	if err := p.Print(out, c.Against, "generated", lines); err != nil {
		return err
	}
	return errors.Wrapf(ErrStale, "%s differs from generated output; run grpctypes gen", c.Against)
}

func (c *Cmd) colored() bool {
	switch c.Color {
	case "always":
		return true
	case "never":
		return false
	}
	return c.Stdout == nil && !color.NoColor
}
