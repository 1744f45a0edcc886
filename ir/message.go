package ir

// Message is a structured type with ordered fields.
type Message struct {
	Name   string
	Doc    string
	Fields []Field

	// Nested holds messages and enums declared inside this message, in source
	// order. Synthetic map entry messages are never included.
	Nested []Entry
}

// Field is a single message field. Fields carry no documentation.
type Field struct {
	Name   string
	Number int32

	// Type is a scalar name ("int32", "string", ...) or a type token naming a
	// message or enum, in the same forms as Method.RequestType. For map
	// fields it is the value type.
	Type string

	// Repeated marks list-valued fields. Map fields are never repeated.
	Repeated bool

	// Optional is true unless the field is proto2 "required".
	Optional bool

	// Map marks map<KeyType, Type> fields.
	Map     bool
	KeyType string
}

// Add appends a nested declaration to the message.
func (m *Message) Add(e Entry) {
	m.Nested = append(m.Nested, e)
}
