// Package typescript emits TypeScript declaration text for a protobuf schema
// tree. Output is one "declare namespace rpc" wrapping a namespace per
// package, an interface per service and message, and an enum per enum.
package typescript

import (
	"fmt"
	"strings"

	"github.com/broady/grpctypes/ir"
)

// RootNamespace is the name of the namespace wrapping all declarations.
const RootNamespace = "rpc"

// Config controls declaration emission.
type Config struct {
	// Optional appends "?" to the names of optional fields.
	Optional bool

	// List appends ListSuffix to the names of repeated fields.
	List bool

	// Types overrides or extends the scalar type map.
	// e.g. map[string]string{"int64": "string", "google.protobuf.Timestamp": "Date"}
	Types map[string]string
}

// DefaultConfig returns the default emission settings.
func DefaultConfig() Config {
	return Config{Optional: false, List: true}
}

// Emitter accumulates declaration lines for one emission. It is the mutable
// context of a single invocation and must not be shared.
type Emitter struct {
	out    []string
	config Config
	types  map[string]string
	scope  []string
}

// NewEmitter creates an Emitter with the effective type map for cfg.
func NewEmitter(cfg Config) *Emitter {
	return &Emitter{
		config: cfg,
		types:  mergeTypes(cfg.Types),
	}
}

// Emit renders root as unformatted declaration text, one declaration
// fragment per line.
func Emit(root *ir.Root, cfg Config) (string, error) {
	e := NewEmitter(cfg)
	if err := e.EmitRoot(root); err != nil {
		return "", err
	}
	return e.String(), nil
}

// EmitRoot emits the rpc wrapper and every top-level entry of root.
func (e *Emitter) EmitRoot(root *ir.Root) error {
	e.out = append(e.out, "declare namespace "+RootNamespace+" {")
	for _, entry := range root.Nested {
		if err := e.emitEntry(entry); err != nil {
			return err
		}
	}
	e.out = append(e.out, "}")
	return nil
}

// Lines returns the accumulated lines.
func (e *Emitter) Lines() []string {
	return e.out
}

// String joins the accumulated lines with newlines.
func (e *Emitter) String() string {
	return strings.Join(e.out, "\n")
}

// emitEntry dispatches on the entry's kind tag.
func (e *Emitter) emitEntry(entry ir.Entry) error {
	if !entry.Valid() {
		return &UnexpectedKindError{Scope: e.currentScope(), Kind: entry.Kind}
	}

	switch entry.Kind {
	case ir.KindNamespace:
		return e.emitNamespace(entry.Namespace)
	case ir.KindService:
		e.emitService(entry.Service)
		return nil
	case ir.KindMessage:
		return e.emitMessage(entry.Message)
	case ir.KindEnum:
		e.emitEnum(entry.Enum)
		return nil
	default:
		return &UnexpectedKindError{Scope: e.currentScope(), Kind: entry.Kind}
	}
}

// emitNamespace emits a namespace declaration and its entries in order.
func (e *Emitter) emitNamespace(ns *ir.Namespace) error {
	e.emitComment(ns.Doc)
	return e.emitScope(ns.Name, ns.Nested)
}

func (e *Emitter) emitScope(name string, entries []ir.Entry) error {
	e.out = append(e.out, "declare namespace "+name+" {")
	e.scope = append(e.scope, name)
	for _, entry := range entries {
		if err := e.emitEntry(entry); err != nil {
			return err
		}
	}
	e.scope = e.scope[:len(e.scope)-1]
	e.out = append(e.out, "}")
	return nil
}

// emitService emits a service as an interface of method signatures.
func (e *Emitter) emitService(svc *ir.Service) {
	e.emitComment(svc.Doc)
	e.out = append(e.out, "interface "+svc.Name+" {")
	for _, m := range svc.Methods {
		e.emitMethod(m)
	}
	e.out = append(e.out, "}")
}

func (e *Emitter) emitMethod(m ir.Method) {
	e.emitComment(m.Doc)
	request := e.TypeName(m.RequestType)
	response := e.TypeName(m.ResponseType)
	e.out = append(e.out, fmt.Sprintf("%s: (request: %s) => Promise<%s>;", m.Name, request, response))
}

// emitMessage emits a message as an interface. Declarations nested in the
// message follow it in a namespace of the same name, which TypeScript merges
// with the interface.
func (e *Emitter) emitMessage(msg *ir.Message) error {
	e.emitComment(msg.Doc)
	e.out = append(e.out, "interface "+msg.Name+" {")
	for _, f := range msg.Fields {
		e.emitField(f)
	}
	e.out = append(e.out, "}")

	if len(msg.Nested) == 0 {
		return nil
	}
	return e.emitScope(msg.Name, msg.Nested)
}

func (e *Emitter) emitField(f ir.Field) {
	optional := ""
	if e.config.Optional && f.Optional {
		optional = "?"
	}

	if f.Map {
		e.out = append(e.out, fmt.Sprintf("%s%s: { [key: string]: %s };", f.Name, optional, e.TypeName(f.Type)))
		return
	}

	name := f.Name
	list := ""
	if f.Repeated {
		list = "[]"
		if e.config.List {
			name += ListSuffix
		}
	}
	e.out = append(e.out, fmt.Sprintf("%s%s: %s%s;", name, optional, e.TypeName(f.Type), list))
}

// emitEnum emits an enum with explicit values in declaration order.
func (e *Emitter) emitEnum(enum *ir.Enum) {
	e.emitComment(enum.Doc)
	e.out = append(e.out, "enum "+enum.Name+" {")
	for _, v := range enum.Values {
		e.emitComment(v.Doc)
		e.out = append(e.out, fmt.Sprintf("%s = %d,", v.Name, v.Number))
	}
	e.out = append(e.out, "}")
}

func (e *Emitter) currentScope() []string {
	scope := make([]string, len(e.scope))
	copy(scope, e.scope)
	return scope
}
