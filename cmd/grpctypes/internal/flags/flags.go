// Package flags holds the command-line flags shared by the generating
// commands.
package flags

import (
	"os"

	"github.com/cockroachdb/errors"

	"github.com/broady/grpctypes"
	"github.com/broady/grpctypes/config"
	"github.com/broady/grpctypes/loader"
)

// Generation selects schema files and generation options. Flags override the
// project file.
type Generation struct {
	Patterns []string `arg:"" optional:"" name:"pattern" help:"Schema file patterns (supports **). Defaults to the project file's patterns."`

	Config      string            `short:"c" type:"path" help:"Project file (default: ./grpctypes.yaml when present)."`
	ImportPath  []string          `short:"I" name:"import-path" type:"path" help:"Directory searched for imports. Repeatable."`
	Optional    bool              `help:"Mark optional fields with '?'."`
	NoList      bool              `name:"no-list" help:"Do not append 'List' to repeated field names."`
	Type        map[string]string `short:"t" help:"Map a type token to a TypeScript type, e.g. --type int64=string. Repeatable."`
	DocComments bool              `name:"doc-comments" help:"Only attach /** */ and /// comments."`
	Leading     bool              `name:"leading-comments" help:"Prefer leading comments over trailing ones."`
	Indent      int               `help:"Indentation width in spaces."`
	Tabs        bool              `help:"Indent with tabs."`
}

// Resolved is the outcome of combining flags with the project file.
type Resolved struct {
	Patterns []string
	Options  *grpctypes.Options

	// Out is the project file's output path, empty when unset.
	Out string
}

// Resolve loads the project file, if any, and applies the flags over it.
func (g *Generation) Resolve() (*Resolved, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}

	res := &Resolved{Options: &grpctypes.Options{}}
	if cfg != nil {
		res.Patterns = cfg.Patterns
		res.Options = cfg.Options()
		res.Out = cfg.Out
	}
	if len(g.Patterns) > 0 {
		res.Patterns = g.Patterns
	}
	if len(res.Patterns) == 0 {
		return nil, errors.New("no patterns given and no project file found")
	}

	opts := res.Options
	if g.Optional {
		opts.Serialize.Optional = true
	}
	if g.NoList {
		opts.Serialize.List = grpctypes.Bool(false)
	}
	if len(g.Type) > 0 {
		if opts.Types == nil {
			opts.Types = make(map[string]string, len(g.Type))
		}
		for k, v := range g.Type {
			opts.Types[k] = v
		}
	}
	if len(g.ImportPath) > 0 || g.DocComments || g.Leading {
		parse := loader.DefaultOptions()
		if opts.Parse != nil {
			parse = *opts.Parse
		}
		parse.ImportPaths = append(parse.ImportPaths, g.ImportPath...)
		if g.DocComments {
			parse.AlternateCommentMode = false
		}
		if g.Leading {
			parse.PreferTrailingComment = false
		}
		opts.Parse = &parse
	}
	if g.Indent > 0 {
		opts.Format.IndentWidth = g.Indent
	}
	if g.Tabs {
		opts.Format.UseTabs = true
	}
	return res, nil
}

func (g *Generation) loadConfig() (*config.Config, error) {
	if g.Config != "" {
		return config.Load(g.Config)
	}
	if len(g.Patterns) > 0 {
		return nil, nil
	}
	if _, err := os.Stat(config.DefaultFile); err != nil {
		return nil, nil
	}
	return config.Load(config.DefaultFile)
}
