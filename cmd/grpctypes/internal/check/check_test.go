package check

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/broady/grpctypes/cmd/grpctypes/internal/flags"
	"github.com/broady/grpctypes/testutil"
)

const fixtures = "../../../../testdata"

func TestRun(t *testing.T) {
	dir := testutil.ExtractArchive(t, filepath.Join(fixtures, "hello_user.txtar"))
	want, err := os.ReadFile(filepath.Join(fixtures, "hello_user.d.ts"))
	if err != nil {
		t.Fatal(err)
	}
	stale := strings.Replace(string(want), "age: number;", "age: string;", 1)

	tests := []struct {
		name      string
		content   string
		wantStale bool
	}{
		{"up to date", string(want), false},
		{"stale", stale, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			against := filepath.Join(t.TempDir(), "rpc.d.ts")
			if err := os.WriteFile(against, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			var out bytes.Buffer
			cmd := &Cmd{
				Generation: flags.Generation{Patterns: []string{filepath.Join(dir, "*.proto")}},
				Against:    against,
				Color:      "never",
				Context:    1,
				Stdout:     &out,
			}

			err := cmd.Run(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
			if !tt.wantStale {
				if err != nil {
					t.Fatalf("Run() error = %v", err)
				}
				if out.Len() != 0 {
					t.Errorf("unexpected diff output:\n%s", out.String())
				}
				return
			}
			if !errors.Is(err, ErrStale) {
				t.Fatalf("Run() error = %v, want ErrStale", err)
			}
			diff := out.String()
			for _, s := range []string{"--- " + against, "+++ generated", "-      age: string;", "+      age: number;"} {
				if !strings.Contains(diff, s) {
					t.Errorf("diff missing %q:\n%s", s, diff)
				}
			}
		})
	}
}

func TestColored(t *testing.T) {
	var buf bytes.Buffer
	tests := []struct {
		cmd  Cmd
		want bool
	}{
		{Cmd{Color: "always", Stdout: &buf}, true},
		{Cmd{Color: "never"}, false},
		{Cmd{Color: "auto", Stdout: &buf}, false},
	}
	for _, tt := range tests {
		if got := tt.cmd.colored(); got != tt.want {
			t.Errorf("colored(%q) = %v, want %v", tt.cmd.Color, got, tt.want)
		}
	}
}
