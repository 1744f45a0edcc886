package grpctypes

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/grpctypes/ir"
	"github.com/broady/grpctypes/loader"
	"github.com/broady/grpctypes/pretty"
	"github.com/broady/grpctypes/sink"
	"github.com/broady/grpctypes/testutil"
)

func golden(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func fixture(t *testing.T, name string) string {
	t.Helper()
	return testutil.ExtractArchive(t, filepath.Join("testdata", name))
}

func TestGenerate_Golden(t *testing.T) {
	tests := []struct {
		archive string
		golden  string
	}{
		{"hello_user.txtar", "hello_user.d.ts"},
		{"docs.txtar", "docs.d.ts"},
	}

	for _, tt := range tests {
		t.Run(tt.archive, func(t *testing.T) {
			dir := fixture(t, tt.archive)
			got, err := Generate(context.Background(), []string{filepath.Join(dir, "*.proto")}, nil)
			require.NoError(t, err)
			assert.Equal(t, golden(t, tt.golden), got)
		})
	}
}

func TestGenerate_SingleWrapper(t *testing.T) {
	dir := fixture(t, "hello_user.txtar")
	got, err := GenerateString(context.Background(), filepath.Join(dir, "*.proto"), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(got, "declare namespace rpc {"))
	assert.True(t, strings.HasPrefix(got, "declare namespace rpc {\n"))
	assert.True(t, strings.HasSuffix(got, "\n}\n"))
}

func TestGenerate_Deterministic(t *testing.T) {
	dir := fixture(t, "hello_user.txtar")
	patterns := []string{filepath.Join(dir, "*.proto")}
	opts := &Options{Types: map[string]string{"int32": "Int32"}}

	first, err := Generate(context.Background(), patterns, opts)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := Generate(context.Background(), patterns, opts)
			assert.NoError(t, err)
			results[i] = out
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		assert.Equal(t, first, r, "run %d", i)
	}
}

const flagsArchive = `-- shop.proto --
syntax = "proto3";

package shop;

message Basket {
  repeated Item item = 1;
  int64 total = 2;
  bytes receipt = 3;
  .shop.Item featured = 4;
}

message Item {
  string sku = 1;
}
`

func TestGenerate_Flags(t *testing.T) {
	tests := []struct {
		name string
		opts *Options
		want []string
	}{
		{
			name: "defaults",
			opts: nil,
			want: []string{"itemList: Item[];", "total: BigInt;", "receipt: Buffer;", "featured: shop.Item;"},
		},
		{
			name: "optional marker",
			opts: &Options{Serialize: SerializeOptions{Optional: true}},
			want: []string{"itemList?: Item[];", "total?: BigInt;", "receipt?: Buffer;", "featured?: shop.Item;"},
		},
		{
			name: "no list suffix",
			opts: &Options{Serialize: SerializeOptions{List: Bool(false)}},
			want: []string{"item: Item[];", "total: BigInt;"},
		},
		{
			name: "overrides win",
			opts: &Options{Types: map[string]string{"int64": "string", "bytes": "Uint8Array"}},
			want: []string{"total: string;", "receipt: Uint8Array;"},
		},
	}

	dir := testutil.ExtractString(t, flagsArchive)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Generate(context.Background(), []string{filepath.Join(dir, "shop.proto")}, tt.opts)
			require.NoError(t, err)
			for _, line := range tt.want {
				assert.Contains(t, got, "      "+line+"\n")
			}
		})
	}
}

func TestGenerate_ParseOptions(t *testing.T) {
	dir := fixture(t, "docs.txtar")
	patterns := []string{filepath.Join(dir, "hello.proto")}

	withDefaults, err := Generate(context.Background(), patterns, nil)
	require.NoError(t, err)
	assert.Contains(t, withDefaults, "* The greeting service.")

	docOnly, err := Generate(context.Background(), patterns, &Options{Parse: &loader.Options{}})
	require.NoError(t, err)
	assert.NotContains(t, docOnly, "The greeting service.")
	assert.NotContains(t, docOnly, "Sends a greeting.")
	assert.Contains(t, docOnly, "* The request message.")
	assert.Contains(t, docOnly, "* Very happy.")
}

func TestGenerate_Errors(t *testing.T) {
	dir := testutil.ExtractString(t, `-- bad.proto --
syntax = "proto3";
message Broken {
`)

	tests := []struct {
		name     string
		patterns []string
		opts     *Options
		code     ErrorCode
		cause    error
	}{
		{
			name:     "empty match",
			patterns: []string{filepath.Join(dir, "*.missing")},
			code:     CodePatternExpansion,
			cause:    loader.ErrNoMatches,
		},
		{
			name:     "no patterns",
			patterns: nil,
			code:     CodePatternExpansion,
			cause:    loader.ErrNoMatches,
		},
		{
			name:     "bad pattern",
			patterns: []string{"[oops"},
			code:     CodePatternExpansion,
		},
		{
			name:     "syntax error",
			patterns: []string{filepath.Join(dir, "bad.proto")},
			code:     CodeSchemaLoad,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Generate(context.Background(), tt.patterns, tt.opts)
			require.Error(t, err)
			assert.Empty(t, out)
			assert.True(t, IsCode(err, tt.code), "error %v should carry code %s", err, tt.code)
			if tt.cause != nil {
				assert.ErrorIs(t, err, tt.cause)
			}
		})
	}
}

func TestGenerate_FormatError(t *testing.T) {
	dir := fixture(t, "hello_user.txtar")
	_, err := Generate(context.Background(), []string{filepath.Join(dir, "*.proto")}, &Options{
		Format: pretty.Options{Parser: "flow"},
	})
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeFormat))
	assert.ErrorIs(t, err, pretty.ErrUnsupportedParser)
}

func TestGenerate_CommentTerminatorInDoc(t *testing.T) {
	dir := testutil.ExtractString(t, `-- m.proto --
syntax = "proto3";

// see a */ b
message M {
  string id = 1;
}
`)
	out, err := Generate(context.Background(), []string{filepath.Join(dir, "m.proto")}, nil)
	require.Error(t, err, "output: %s", out)
	assert.True(t, IsCode(err, CodeFormat))
	assert.ErrorIs(t, err, pretty.ErrUnbalanced)
}

func TestGenerate_NestedReferences(t *testing.T) {
	dir := testutil.ExtractArchive(t, filepath.Join("loader", "testdata", "shapes.txtar"))
	out, err := Generate(context.Background(), []string{filepath.Join(dir, "shop", "*.proto")}, nil)
	require.NoError(t, err)

	assert.Contains(t, out, strings.Join([]string{
		"      interface Item {",
		"        sku: string;",
		"        price: BigInt;",
		"        tagsList: string[];",
		"        variants: { [key: string]: Item.Variant };",
		"        state: Item.State;",
		"      }",
		"      declare namespace Item {",
		"        interface Variant {",
		"          delta: number;",
		"          state: Item.State;",
		"        }",
		"        enum State {",
		"          DRAFT = 0,",
		"          LIVE = 1,",
		"        }",
		"      }",
	}, "\n"))
	assert.Contains(t, out, "        pick: Item.Variant;\n")
}

func TestRender_UnexpectedNode(t *testing.T) {
	root := &ir.Root{}
	root.EnsureNamespace("broken").Add(ir.Entry{Kind: ir.NodeKind(42)})

	_, err := Render(root, nil)
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeUnexpectedNode))
	assert.Contains(t, err.Error(), "unexpected nested kind")
}

func TestGenerate_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	dir := fixture(t, "hello_user.txtar")
	_, err := Generate(context.Background(), []string{filepath.Join(dir, "*.proto")}, &Options{Logger: logger})
	require.NoError(t, err)

	logs := buf.String()
	assert.Contains(t, logs, "patterns expanded")
	assert.Contains(t, logs, "files=2")
	assert.Contains(t, logs, "schema loaded")
	assert.Contains(t, logs, "services=1")
	assert.Contains(t, logs, "declarations generated")
}

func TestGenerator_Fluent(t *testing.T) {
	dir := testutil.ExtractString(t, flagsArchive)
	mem := sink.NewMemorySink()

	err := FromPatterns(filepath.Join(dir, "*.proto")).
		Optional(true).
		List(false).
		TypeMapping("int64", "number").
		UseTabs().
		WriteTo(context.Background(), mem, "types/rpc.d.ts")
	require.NoError(t, err)

	got := string(mem.Get("types/rpc.d.ts"))
	assert.Contains(t, got, "\t\t\titem?: Item[];\n")
	assert.Contains(t, got, "\t\t\ttotal?: number;\n")
}

func TestGenerator_Options(t *testing.T) {
	g := FromPatterns("a.proto").ImportPaths("vendor").Indent(4)
	opts := g.Options()

	require.NotNil(t, opts.Parse)
	assert.True(t, opts.Parse.AlternateCommentMode, "ImportPaths keeps the default comment modes")
	assert.True(t, opts.Parse.PreferTrailingComment)
	assert.Equal(t, []string{"vendor"}, opts.Parse.ImportPaths)
	assert.Equal(t, 4, opts.Format.IndentWidth)
}

func TestGenerator_ImportPathsKeepsCallerSlice(t *testing.T) {
	paths := make([]string, 1, 4)
	paths[0] = "third_party"

	g := FromPatterns("a.proto").
		ParseOptions(loader.Options{ImportPaths: paths}).
		ImportPaths("vendor")

	assert.Equal(t, []string{"third_party", "vendor"}, g.Options().Parse.ImportPaths)
	assert.Equal(t, "", paths[:2][1], "caller's backing array was written")
}

func TestGenerator_WriteToError(t *testing.T) {
	dir := fixture(t, "hello_user.txtar")
	err := FromPatterns(filepath.Join(dir, "*.proto")).
		WriteTo(context.Background(), sink.NewMemorySink(), "../escape.d.ts")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sink.ErrInvalidPath))
}
