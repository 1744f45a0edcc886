package typescript

import "strings"

// emitComment emits doc as a JSDoc block preceded by a blank separator line.
// Each line of doc becomes one "* " line, kept verbatim; the pretty-printer
// owns indentation.
func (e *Emitter) emitComment(doc string) {
	if doc == "" {
		return
	}
	e.out = append(e.out, "", "/**")
	for _, line := range strings.Split(doc, "\n") {
		e.out = append(e.out, "* "+line)
	}
	e.out = append(e.out, " */")
}
