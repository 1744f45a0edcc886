// Package serve implements the serve command, which runs the HTTP
// development server.
package serve

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/broady/grpctypes"
	"github.com/broady/grpctypes/config"
	"github.com/broady/grpctypes/internal/devserver"
)

type Cmd struct {
	Root   string `default:"." type:"existingdir" help:"Directory that request patterns are resolved against."`
	Port   int    `default:"9000" short:"p" help:"Port to listen on."`
	Host   string `default:"localhost" help:"Interface to listen on."`
	Config string `short:"c" type:"path" help:"Project file supplying default options."`

	AllowOrigin []string `name:"allow-origin" help:"Origin allowed to make cross-origin requests (\"*\" for any). Repeatable."`
}

func (c *Cmd) Run(ctx context.Context, logger *slog.Logger) error {
	root, err := filepath.Abs(c.Root)
	if err != nil {
		return errors.Wrap(err, "resolve root")
	}

	base := &grpctypes.Options{}
	if path := c.configPath(root); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		base = cfg.Options()
	}

	addr := fmt.Sprintf("%s:%d", c.Host, c.Port)
	fmt.Fprintf(os.Stderr, "serving %s on http://%s\n", root, addr)
	srv := devserver.New(root, base, logger)
	if len(c.AllowOrigin) > 0 {
		srv.WithCORS(devserver.CORSConfig{AllowOrigins: c.AllowOrigin})
	}
	return srv.ListenAndServe(ctx, addr)
}

func (c *Cmd) configPath(root string) string {
	if c.Config != "" {
		return c.Config
	}
	path := filepath.Join(root, config.DefaultFile)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
