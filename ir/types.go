// Package ir defines the schema tree produced by the loader and consumed by
// the declaration emitters. The tree mirrors the package structure of the
// parsed .proto files: namespaces nest namespaces, services, messages and
// enums, in source order.
package ir

// NodeKind identifies the variant held by an Entry.
type NodeKind int

const (
	KindNamespace NodeKind = iota + 1 // Package scope (one per package segment)
	KindService                       // RPC service with methods
	KindMessage                       // Message type with fields
	KindEnum                          // Enumeration of named integer values
)

// String returns the string representation of the node kind.
func (k NodeKind) String() string {
	switch k {
	case KindNamespace:
		return "Namespace"
	case KindService:
		return "Service"
	case KindMessage:
		return "Message"
	case KindEnum:
		return "Enum"
	default:
		return "Unknown"
	}
}

// Entry is one nested declaration inside a scope. Exactly one of the payload
// pointers is set, the one matching Kind. Consumers switch on Kind rather than
// inspecting which pointer is non-nil.
type Entry struct {
	Kind      NodeKind
	Namespace *Namespace
	Service   *Service
	Message   *Message
	Enum      *Enum
}

// NamespaceEntry wraps ns as an Entry.
func NamespaceEntry(ns *Namespace) Entry { return Entry{Kind: KindNamespace, Namespace: ns} }

// ServiceEntry wraps svc as an Entry.
func ServiceEntry(svc *Service) Entry { return Entry{Kind: KindService, Service: svc} }

// MessageEntry wraps msg as an Entry.
func MessageEntry(msg *Message) Entry { return Entry{Kind: KindMessage, Message: msg} }

// EnumEntry wraps enum as an Entry.
func EnumEntry(enum *Enum) Entry { return Entry{Kind: KindEnum, Enum: enum} }

// Name returns the declared name of the entry's payload, or "" when the entry
// is malformed.
func (e Entry) Name() string {
	switch e.Kind {
	case KindNamespace:
		if e.Namespace != nil {
			return e.Namespace.Name
		}
	case KindService:
		if e.Service != nil {
			return e.Service.Name
		}
	case KindMessage:
		if e.Message != nil {
			return e.Message.Name
		}
	case KindEnum:
		if e.Enum != nil {
			return e.Enum.Name
		}
	}
	return ""
}

// Valid reports whether the payload matching Kind is present.
func (e Entry) Valid() bool {
	switch e.Kind {
	case KindNamespace:
		return e.Namespace != nil
	case KindService:
		return e.Service != nil
	case KindMessage:
		return e.Message != nil
	case KindEnum:
		return e.Enum != nil
	default:
		return false
	}
}
