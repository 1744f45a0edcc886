package grpctypes

import (
	"log/slog"

	"github.com/broady/grpctypes/loader"
	"github.com/broady/grpctypes/pretty"
	"github.com/broady/grpctypes/typescript"
)

// Options configures Generate. The zero value, like a nil *Options, selects
// every default.
type Options struct {
	// Parse is forwarded to the loader. Nil selects loader.DefaultOptions;
	// a non-nil value is used as given.
	Parse *loader.Options

	// Serialize controls field naming in the output.
	Serialize SerializeOptions

	// Types maps type tokens to TypeScript types, overriding the scalar
	// defaults. e.g. {"int64": "string", ".google.protobuf.Timestamp": "Date"}
	Types map[string]string

	// Format controls the pretty-printer.
	Format pretty.Options

	// Logger receives debug-level progress. Nil uses slog.Default().
	Logger *slog.Logger
}

// SerializeOptions controls field naming.
type SerializeOptions struct {
	// Optional marks optional fields with "?". Default false.
	Optional bool

	// List appends "List" to repeated field names. Nil means true.
	List *bool
}

// Bool returns a pointer to v, for SerializeOptions.List.
func Bool(v bool) *bool {
	return &v
}

func (o *Options) parseOptions() loader.Options {
	if o.Parse == nil {
		return loader.DefaultOptions()
	}
	return *o.Parse
}

func (o *Options) emitConfig() typescript.Config {
	cfg := typescript.DefaultConfig()
	cfg.Optional = o.Serialize.Optional
	if o.Serialize.List != nil {
		cfg.List = *o.Serialize.List
	}
	cfg.Types = o.Types
	return cfg
}

func (o *Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
