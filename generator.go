// Package grpctypes generates TypeScript declarations for gRPC services from
// Protocol Buffers schema files.
//
// Given file patterns, Generate parses the matched .proto files and their
// imports, and returns one "declare namespace rpc" module with a namespace
// per package, an interface per service and message, and an enum per enum:
//
//	out, err := grpctypes.Generate(ctx, []string{"protos/**/*.proto"}, nil)
//
// The fluent Generator offers the same through method chaining:
//
//	err := grpctypes.FromPatterns("protos/**/*.proto").
//	    Optional(true).
//	    TypeMapping("int64", "string").
//	    WriteTo(ctx, sink.NewFilesystemSink("web/src"), "rpc.d.ts")
package grpctypes

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/broady/grpctypes/ir"
	"github.com/broady/grpctypes/loader"
	"github.com/broady/grpctypes/pretty"
	"github.com/broady/grpctypes/sink"
	"github.com/broady/grpctypes/typescript"
)

// Generate expands patterns, loads the matched schema files and returns the
// formatted declaration text. It has no side effects.
func Generate(ctx context.Context, patterns []string, opts *Options) (string, error) {
	if opts == nil {
		opts = &Options{}
	}
	start := time.Now()

	root, err := Load(ctx, patterns, opts)
	if err != nil {
		return "", err
	}
	out, err := Render(root, opts)
	if err != nil {
		return "", err
	}

	opts.logger().DebugContext(ctx, "declarations generated",
		slog.Int("bytes", len(out)),
		slog.Duration("duration", time.Since(start)))
	return out, nil
}

// GenerateString is Generate for a single pattern.
func GenerateString(ctx context.Context, pattern string, opts *Options) (string, error) {
	return Generate(ctx, []string{pattern}, opts)
}

// Load expands patterns and returns the schema tree of the matched files and
// their imports. Errors carry CodePatternExpansion or CodeSchemaLoad.
func Load(ctx context.Context, patterns []string, opts *Options) (*ir.Root, error) {
	if opts == nil {
		opts = &Options{}
	}
	logger := opts.logger()

	files, err := loader.Expand(patterns)
	if err != nil {
		return nil, wrapError(CodePatternExpansion, err, "expand patterns")
	}
	logger.DebugContext(ctx, "patterns expanded",
		slog.Any("patterns", patterns),
		slog.Int("files", len(files)))

	root, err := loader.Load(ctx, files, opts.parseOptions())
	if err != nil {
		return nil, wrapError(CodeSchemaLoad, err, "load schema")
	}

	stats := root.Stats()
	logger.DebugContext(ctx, "schema loaded",
		slog.Int("entries", len(root.Nested)),
		slog.Int("namespaces", stats.Namespaces),
		slog.Int("services", stats.Services),
		slog.Int("messages", stats.Messages),
		slog.Int("enums", stats.Enums))
	return root, nil
}

// Render emits and formats the declarations for root. Errors carry
// CodeUnexpectedNode or CodeFormat.
func Render(root *ir.Root, opts *Options) (string, error) {
	if opts == nil {
		opts = &Options{}
	}

	src, err := typescript.Emit(root, opts.emitConfig())
	if err != nil {
		return "", wrapError(CodeUnexpectedNode, err, "emit declarations")
	}

	format := opts.Format
	if format.Parser == "" {
		format.Parser = pretty.ParserTypeScript
	}
	out, err := pretty.Format(src, format)
	if err != nil {
		return "", wrapError(CodeFormat, err, "format declarations")
	}
	return out, nil
}

// Generator provides a fluent API for generation.
// Create with FromPatterns and configure with method chaining.
type Generator struct {
	patterns []string
	opts     Options
}

// FromPatterns creates a Generator for the files matched by patterns.
func FromPatterns(patterns ...string) *Generator {
	return &Generator{patterns: patterns}
}

// Optional controls the "?" marker on optional fields.
func (g *Generator) Optional(on bool) *Generator {
	g.opts.Serialize.Optional = on
	return g
}

// List controls the "List" suffix on repeated fields.
func (g *Generator) List(on bool) *Generator {
	g.opts.Serialize.List = Bool(on)
	return g
}

// TypeMapping maps a type token to a TypeScript type.
func (g *Generator) TypeMapping(token, tsType string) *Generator {
	if g.opts.Types == nil {
		g.opts.Types = make(map[string]string)
	}
	g.opts.Types[token] = tsType
	return g
}

// ParseOptions replaces the loader options.
func (g *Generator) ParseOptions(opts loader.Options) *Generator {
	g.opts.Parse = &opts
	return g
}

// ImportPaths adds directories searched for imports.
func (g *Generator) ImportPaths(dirs ...string) *Generator {
	parse := g.opts.parseOptions()
	parse.ImportPaths = append(slices.Clone(parse.ImportPaths), dirs...)
	g.opts.Parse = &parse
	return g
}

// Indent sets the indentation width in spaces.
func (g *Generator) Indent(width int) *Generator {
	g.opts.Format.IndentWidth = width
	g.opts.Format.UseTabs = false
	return g
}

// UseTabs indents with tabs.
func (g *Generator) UseTabs() *Generator {
	g.opts.Format.UseTabs = true
	return g
}

// WithLogger sets the logger for progress messages.
func (g *Generator) WithLogger(logger *slog.Logger) *Generator {
	g.opts.Logger = logger
	return g
}

// Options returns a copy of the accumulated options.
func (g *Generator) Options() Options {
	return g.opts
}

// Generate returns the declarations in memory.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	return Generate(ctx, g.patterns, &g.opts)
}

// WriteTo generates the declarations and writes them to path in s.
func (g *Generator) WriteTo(ctx context.Context, s sink.OutputSink, path string) error {
	out, err := g.Generate(ctx)
	if err != nil {
		return err
	}
	if err := s.WriteFile(ctx, path, []byte(out)); err != nil {
		return wrapError(CodeInternal, err, "write "+path)
	}
	return nil
}
