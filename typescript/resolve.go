package typescript

import "strings"

// QualifiedPrefix marks a type token that is fully qualified from the root.
const QualifiedPrefix = "."

// TypeName resolves a field or method type token to the name emitted in
// declarations: a mapped type when the token is in the effective type map,
// otherwise the token with a single leading '.' removed. The emitted
// namespaces mirror package nesting, so "user.User" resolves wherever the
// rpc namespace is in scope.
func (e *Emitter) TypeName(token string) string {
	if mapped := e.types[token]; mapped != "" {
		return mapped
	}
	return strings.TrimPrefix(token, QualifiedPrefix)
}
