// Package dump implements the ir command, which prints the intermediate
// tree as JSON.
package dump

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/broady/grpctypes"
	"github.com/broady/grpctypes/cmd/grpctypes/internal/flags"
)

type Cmd struct {
	flags.Generation `embed:""`

	Compact bool `help:"Print without indentation."`

	Stdout io.Writer `kong:"-"`
}

func (c *Cmd) Run(ctx context.Context, logger *slog.Logger) error {
	res, err := c.Resolve()
	if err != nil {
		return err
	}
	res.Options.Logger = logger

	root, err := grpctypes.Load(ctx, res.Patterns, res.Options)
	if err != nil {
		return err
	}

	out := c.Stdout
	if out == nil {
		out = os.Stdout
	}
	enc := json.NewEncoder(out)
	if !c.Compact {
		enc.SetIndent("", "  ")
	}
	return errors.Wrap(enc.Encode(root), "encode tree")
}
