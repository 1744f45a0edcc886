package typescript

// ListSuffix is appended to repeated field names when list naming is on.
const ListSuffix = "List"

// defaultTypes maps protobuf scalar names to TypeScript type names.
// 64-bit integers exceed the 53 bits a number represents exactly.
var defaultTypes = map[string]string{
	"float":    "number",
	"double":   "number",
	"int32":    "number",
	"uint32":   "number",
	"sint32":   "number",
	"fixed32":  "number",
	"sfixed32": "number",
	"int64":    "BigInt",
	"uint64":   "BigInt",
	"sint64":   "BigInt",
	"fixed64":  "BigInt",
	"sfixed64": "BigInt",
	"bool":     "boolean",
	"bytes":    "Buffer",
	"string":   "string",
}

// DefaultTypes returns a copy of the built-in scalar type map.
func DefaultTypes() map[string]string {
	return mergeTypes(nil)
}

// mergeTypes returns the defaults overlaid with overrides. Overrides win,
// and keys that are not scalars (e.g. "google.protobuf.Timestamp") are kept
// as extra mappings. Empty values are skipped.
func mergeTypes(overrides map[string]string) map[string]string {
	types := make(map[string]string, len(defaultTypes)+len(overrides))
	for k, v := range defaultTypes {
		types[k] = v
	}
	for k, v := range overrides {
		if v != "" {
			types[k] = v
		}
	}
	return types
}
