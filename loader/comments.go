package loader

import (
	"strings"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// doc returns the documentation attached to d, or "" when it has none.
func (b *builder) doc(d protoreflect.Descriptor) string {
	loc := d.ParentFile().SourceLocations().ByDescriptor(d)
	leading := normalizeComment(loc.LeadingComments, b.opts.AlternateCommentMode)
	trailing := normalizeComment(loc.TrailingComments, b.opts.AlternateCommentMode)
	if trailing != "" && (b.opts.PreferTrailingComment || leading == "") {
		return trailing
	}
	return leading
}

// normalizeComment turns raw comment text, as recorded in source info, into
// documentation lines. Block comments arrive without their "/*" and "*/"
// delimiters and line comments without "//", so a leading "*" or "/" marks
// the doc-style forms "/**" and "///".
func normalizeComment(raw string, alternate bool) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	if !alternate && !strings.HasPrefix(raw, "*") && !strings.HasPrefix(raw, "/") {
		return ""
	}

	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "*") {
			line = line[1:]
		} else if strings.HasPrefix(line, "/") {
			line = line[1:]
		}
		lines = append(lines, strings.TrimSpace(line))
	}

	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
