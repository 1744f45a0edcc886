package dump

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/grpctypes/cmd/grpctypes/internal/flags"
	"github.com/broady/grpctypes/testutil"
)

func TestRun(t *testing.T) {
	dir := testutil.ExtractArchive(t, filepath.Join("../../../../testdata", "hello_user.txtar"))

	for _, compact := range []bool{false, true} {
		var out bytes.Buffer
		cmd := &Cmd{
			Generation: flags.Generation{Patterns: []string{filepath.Join(dir, "*.proto")}},
			Compact:    compact,
			Stdout:     &out,
		}
		require.NoError(t, cmd.Run(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil))))

		var tree struct {
			Nested []struct {
				Kind string `json:"kind"`
				Name string `json:"name"`
			} `json:"nested"`
		}
		require.NoError(t, json.Unmarshal(out.Bytes(), &tree))
		require.Len(t, tree.Nested, 2)
		assert.Equal(t, "hello", tree.Nested[0].Name)
		assert.Equal(t, "user", tree.Nested[1].Name)
		assert.Equal(t, !compact, strings.Contains(out.String(), "\n  "))
	}
}
