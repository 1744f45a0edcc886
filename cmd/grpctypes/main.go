package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/broady/grpctypes/cmd/grpctypes/internal/check"
	"github.com/broady/grpctypes/cmd/grpctypes/internal/dump"
	"github.com/broady/grpctypes/cmd/grpctypes/internal/gen"
	"github.com/broady/grpctypes/cmd/grpctypes/internal/serve"
)

type CLI struct {
	Verbose bool `short:"v" help:"Log debug output to stderr."`

	Version VersionCmd `cmd:"" help:"Print version information."`
	Gen     gen.Cmd    `cmd:"" help:"Generate TypeScript declarations from protobuf schemas."`
	Check   check.Cmd  `cmd:"" help:"Fail if a declaration file differs from what the schemas generate."`
	IR      dump.Cmd   `cmd:"" name:"ir" help:"Print the intermediate tree as JSON."`
	Serve   serve.Cmd  `cmd:"" help:"Start the development HTTP server."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func main() {
	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Name("grpctypes"),
		kong.Description("Generate TypeScript declarations for gRPC services."),
		kong.UsageOnError(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kctx.BindTo(ctx, (*context.Context)(nil))
	kctx.Bind(newLogger(cli.Verbose))
	err := kctx.Run()
	stop()
	kctx.FatalIfErrorf(err)
}
