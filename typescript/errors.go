package typescript

import (
	"fmt"
	"strings"

	"github.com/broady/grpctypes/ir"
)

// UnexpectedKindError reports a nested entry the emitter has no rule for.
// The loader never produces one; seeing it means the tree is corrupt.
type UnexpectedKindError struct {
	// Scope is the path of enclosing declarations.
	Scope []string

	// Kind is the offending entry's kind tag.
	Kind ir.NodeKind
}

func (e *UnexpectedKindError) Error() string {
	where := "rpc"
	if len(e.Scope) > 0 {
		where = "rpc." + strings.Join(e.Scope, ".")
	}
	return fmt.Sprintf("unexpected nested kind %s (%d) in %s", e.Kind, int(e.Kind), where)
}
