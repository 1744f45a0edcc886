// Package loader parses protobuf schema files and builds the schema tree
// consumed by the typescript emitter.
//
// Files are compiled with protocompile. Type references are recorded the way
// they are written in the source, so a reference to a message in the same
// package stays unqualified; references into files without a retained syntax
// tree fall back to the fully-qualified name with a leading ".".
package loader

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bufbuild/protocompile"
	"github.com/bufbuild/protocompile/linker"
	"github.com/bufbuild/protocompile/parser"
	"github.com/bufbuild/protocompile/reporter"
	"github.com/cockroachdb/errors"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/broady/grpctypes/ir"
)

// Load compiles files and returns their definitions, and those of everything
// they import, as a schema tree.
func Load(ctx context.Context, files []string, opts Options) (*ir.Root, error) {
	if len(files) == 0 {
		return nil, errors.Wrap(ErrNoMatches, "load")
	}

	names, importPaths, err := resolveNames(files, opts.ImportPaths)
	if err != nil {
		return nil, err
	}

	compiler := protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(&protocompile.SourceResolver{
			ImportPaths: importPaths,
		}),
		SourceInfoMode: protocompile.SourceInfoStandard,
		RetainASTs:     true,
	}
	compiled, err := compiler.Compile(ctx, names...)
	if err != nil {
		return nil, errors.Wrap(err, "compile schema")
	}

	b := &builder{
		opts: opts,
		raw:  newRawIndex(),
	}
	for _, fd := range importOrder(compiled) {
		if err := b.addFile(fd); err != nil {
			return nil, errors.Wrapf(err, "load %s", fd.Path())
		}
	}
	return &b.root, nil
}

// resolveNames maps each file to the name the compiler knows it by: relative
// to the first import path containing it, else relative to the deepest
// directory containing every file. That directory is searched last.
func resolveNames(files, importPaths []string) ([]string, []string, error) {
	searchDir, err := SearchDir(files)
	if err != nil {
		return nil, nil, err
	}

	var absPaths []string
	for _, p := range importPaths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "resolve import path %s", p)
		}
		absPaths = append(absPaths, abs)
	}
	absPaths = append(absPaths, searchDir)

	names := make([]string, 0, len(files))
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "resolve %s", f)
		}
		for _, dir := range absPaths {
			if !within(dir, abs) {
				continue
			}
			rel, err := filepath.Rel(dir, abs)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "resolve %s", f)
			}
			names = append(names, filepath.ToSlash(rel))
			break
		}
	}
	return names, absPaths, nil
}

// importOrder returns the compiled files in request order followed by their
// transitive imports, breadth first.
func importOrder(compiled linker.Files) []protoreflect.FileDescriptor {
	var order []protoreflect.FileDescriptor
	seen := make(map[string]bool)
	visit := func(fd protoreflect.FileDescriptor) {
		if seen[fd.Path()] {
			return
		}
		seen[fd.Path()] = true
		order = append(order, fd)
	}
	for _, f := range compiled {
		visit(f)
	}
	for i := 0; i < len(order); i++ {
		imports := order[i].Imports()
		for j := 0; j < imports.Len(); j++ {
			if imp := imports.Get(j).FileDescriptor; imp != nil && !imp.IsPlaceholder() {
				visit(imp)
			}
		}
	}
	return order
}

// builder accumulates the schema tree for one Load call.
type builder struct {
	opts Options
	root ir.Root
	raw  *rawIndex
}

func (b *builder) addFile(fd protoreflect.FileDescriptor) error {
	if err := b.raw.index(fd); err != nil {
		return err
	}

	add := b.root.Add
	if pkg := string(fd.Package()); pkg != "" {
		add = b.root.EnsureNamespace(strings.Split(pkg, ".")...).Add
	}
	for _, e := range b.definitions(fd.Messages(), fd.Enums(), fd.Services()) {
		add(e)
	}
	return nil
}

// definitions converts the given declarations into entries ordered by their
// position in the source file.
func (b *builder) definitions(msgs protoreflect.MessageDescriptors, enums protoreflect.EnumDescriptors, svcs protoreflect.ServiceDescriptors) []ir.Entry {
	type positioned struct {
		line, col int
		entry     ir.Entry
	}
	var defs []positioned
	at := func(d protoreflect.Descriptor, e ir.Entry) {
		loc := d.ParentFile().SourceLocations().ByDescriptor(d)
		defs = append(defs, positioned{line: loc.StartLine, col: loc.StartColumn, entry: e})
	}

	for i := 0; i < msgs.Len(); i++ {
		if md := msgs.Get(i); !md.IsMapEntry() {
			at(md, ir.MessageEntry(b.message(md)))
		}
	}
	for i := 0; i < enums.Len(); i++ {
		at(enums.Get(i), ir.EnumEntry(b.enum(enums.Get(i))))
	}
	if svcs != nil {
		for i := 0; i < svcs.Len(); i++ {
			at(svcs.Get(i), ir.ServiceEntry(b.service(svcs.Get(i))))
		}
	}

	sort.SliceStable(defs, func(i, j int) bool {
		if defs[i].line != defs[j].line {
			return defs[i].line < defs[j].line
		}
		return defs[i].col < defs[j].col
	})

	entries := make([]ir.Entry, len(defs))
	for i, d := range defs {
		entries[i] = d.entry
	}
	return entries
}

func (b *builder) message(md protoreflect.MessageDescriptor) *ir.Message {
	msg := &ir.Message{
		Name: string(md.Name()),
		Doc:  b.doc(md),
	}

	fields := md.Fields()
	for i := 0; i < fields.Len(); i++ {
		fd := fields.Get(i)
		f := ir.Field{
			Name:     string(fd.Name()),
			Number:   int32(fd.Number()),
			Optional: fd.Cardinality() != protoreflect.Required,
		}
		if fd.IsMap() {
			f.Map = true
			f.KeyType = fd.MapKey().Kind().String()
			f.Type = b.raw.fieldType(fd.MapValue())
		} else {
			f.Repeated = fd.Cardinality() == protoreflect.Repeated
			f.Type = b.raw.fieldType(fd)
		}
		msg.Fields = append(msg.Fields, f)
	}

	msg.Nested = b.definitions(md.Messages(), md.Enums(), nil)
	return msg
}

func (b *builder) enum(ed protoreflect.EnumDescriptor) *ir.Enum {
	enum := &ir.Enum{
		Name: string(ed.Name()),
		Doc:  b.doc(ed),
	}
	values := ed.Values()
	for i := 0; i < values.Len(); i++ {
		v := values.Get(i)
		enum.Values = append(enum.Values, ir.EnumValue{
			Name:   string(v.Name()),
			Number: int32(v.Number()),
			Doc:    b.doc(v),
		})
	}
	return enum
}

func (b *builder) service(sd protoreflect.ServiceDescriptor) *ir.Service {
	svc := &ir.Service{
		Name: string(sd.Name()),
		Doc:  b.doc(sd),
	}
	methods := sd.Methods()
	for i := 0; i < methods.Len(); i++ {
		md := methods.Get(i)
		req, res := b.raw.methodTypes(md)
		svc.Methods = append(svc.Methods, ir.Method{
			Name:           string(md.Name()),
			Doc:            b.doc(md),
			RequestType:    req,
			ResponseType:   res,
			RequestStream:  md.IsStreamingClient(),
			ResponseStream: md.IsStreamingServer(),
		})
	}
	return svc
}

// rawIndex holds the unlinked descriptors of every file with a retained
// syntax tree. Linking rewrites type references to fully-qualified names;
// the unlinked descriptors keep them as written.
type rawIndex struct {
	messages map[protoreflect.FullName]*descriptorpb.DescriptorProto
	services map[protoreflect.FullName]*descriptorpb.ServiceDescriptorProto
}

func newRawIndex() *rawIndex {
	return &rawIndex{
		messages: make(map[protoreflect.FullName]*descriptorpb.DescriptorProto),
		services: make(map[protoreflect.FullName]*descriptorpb.ServiceDescriptorProto),
	}
}

func (x *rawIndex) index(fd protoreflect.FileDescriptor) error {
	res, ok := fd.(linker.Result)
	if !ok || res.AST() == nil {
		return nil
	}
	unlinked, err := parser.ResultFromAST(res.AST(), false, reporter.NewHandler(nil))
	if err != nil {
		return errors.Wrap(err, "re-parse")
	}

	proto := unlinked.FileDescriptorProto()
	pkg := protoreflect.FullName(proto.GetPackage())
	for _, m := range proto.GetMessageType() {
		x.addMessage(pkg, m)
	}
	for _, s := range proto.GetService() {
		x.services[qualify(pkg, s.GetName())] = s
	}
	return nil
}

func (x *rawIndex) addMessage(scope protoreflect.FullName, m *descriptorpb.DescriptorProto) {
	name := qualify(scope, m.GetName())
	x.messages[name] = m
	for _, nested := range m.GetNestedType() {
		x.addMessage(name, nested)
	}
}

// fieldType returns the type token of fd: the scalar name, or the message
// or enum reference as written. References to types nested in a message are
// qualified from their package instead, since an interface body does not see
// the declarations nested under its own name.
func (x *rawIndex) fieldType(fd protoreflect.FieldDescriptor) string {
	var target protoreflect.Descriptor
	switch {
	case fd.Message() != nil:
		target = fd.Message()
	case fd.Enum() != nil:
		target = fd.Enum()
	default:
		return fd.Kind().String()
	}

	if _, nested := target.Parent().(protoreflect.MessageDescriptor); nested {
		return nestedName(target, fd.ParentFile().Package())
	}

	if m := x.messages[fd.ContainingMessage().FullName()]; m != nil {
		for _, f := range m.GetField() {
			if f.GetNumber() == int32(fd.Number()) && f.GetTypeName() != "" {
				return f.GetTypeName()
			}
		}
	}
	return "." + string(target.FullName())
}

// nestedName names a type nested in a message relative to its package when
// the reference comes from the same package, else fully qualified.
func nestedName(target protoreflect.Descriptor, from protoreflect.FullName) string {
	full := string(target.FullName())
	pkg := target.ParentFile().Package()
	if pkg != from {
		return "." + full
	}
	if pkg == "" {
		return full
	}
	return strings.TrimPrefix(full, string(pkg)+".")
}

// methodTypes returns the request and response tokens of md.
func (x *rawIndex) methodTypes(md protoreflect.MethodDescriptor) (string, string) {
	req := "." + string(md.Input().FullName())
	res := "." + string(md.Output().FullName())
	if s := x.services[md.Parent().FullName()]; s != nil {
		for _, m := range s.GetMethod() {
			if m.GetName() != string(md.Name()) {
				continue
			}
			if m.GetInputType() != "" {
				req = m.GetInputType()
			}
			if m.GetOutputType() != "" {
				res = m.GetOutputType()
			}
			break
		}
	}
	return req, res
}

func qualify(scope protoreflect.FullName, name string) protoreflect.FullName {
	if scope == "" {
		return protoreflect.FullName(name)
	}
	return scope.Append(protoreflect.Name(name))
}
