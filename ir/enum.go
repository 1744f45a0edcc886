package ir

// Enum is a named set of integer constants. Values keep declaration order,
// including aliases that share a number.
type Enum struct {
	Name   string
	Doc    string
	Values []EnumValue
}

// EnumValue is a single enum constant with its own documentation.
type EnumValue struct {
	Name   string
	Number int32
	Doc    string
}

// Value returns the number for name and whether it exists.
func (e *Enum) Value(name string) (int32, bool) {
	for _, v := range e.Values {
		if v.Name == name {
			return v.Number, true
		}
	}
	return 0, false
}
