// Package pretty formats declaration text produced by the typescript emitter.
//
// The emitter writes one declaration fragment per line with no indentation.
// Format re-indents those lines by brace depth, normalizes JSDoc blocks and
// blank lines, and rejects text whose delimiters do not balance. It is not a
// general TypeScript formatter: lines are never split or joined.
package pretty

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// ParserTypeScript is the only supported parser.
const ParserTypeScript = "typescript"

// DefaultIndentWidth is the number of spaces per level when UseTabs is off.
const DefaultIndentWidth = 2

var (
	// ErrUnbalanced reports mismatched braces, brackets, parentheses or an
	// unterminated block comment.
	ErrUnbalanced = errors.New("unbalanced delimiters")

	// ErrUnsupportedParser reports a parser name other than "typescript".
	ErrUnsupportedParser = errors.New("unsupported parser")
)

// Options configures Format. The zero value formats TypeScript with two
// space indentation.
type Options struct {
	// Parser selects the input language. Empty means "typescript".
	Parser string `yaml:"parser" validate:"omitempty,oneof=typescript"`

	// IndentWidth is the number of spaces per level. Zero means 2.
	IndentWidth int `yaml:"indentWidth" validate:"gte=0,lte=16"`

	// UseTabs indents with one tab per level instead of spaces.
	UseTabs bool `yaml:"useTabs"`
}

func (o Options) unit() string {
	if o.UseTabs {
		return "\t"
	}
	width := o.IndentWidth
	if width <= 0 {
		width = DefaultIndentWidth
	}
	return strings.Repeat(" ", width)
}

// Format re-indents src and returns it terminated by a single newline.
func Format(src string, opts Options) (string, error) {
	if opts.Parser != "" && opts.Parser != ParserTypeScript {
		return "", errors.Wrapf(ErrUnsupportedParser, "%q", opts.Parser)
	}

	f := &formatter{unit: opts.unit()}
	for i, raw := range strings.Split(src, "\n") {
		if err := f.line(strings.TrimSpace(raw)); err != nil {
			return "", errors.Wrapf(err, "line %d", i+1)
		}
	}
	if f.inComment {
		return "", errors.Wrap(ErrUnbalanced, "unterminated block comment")
	}
	if f.depth != 0 {
		return "", errors.Wrapf(ErrUnbalanced, "%d unclosed braces at end of input", f.depth)
	}
	return strings.Join(f.out, "\n") + "\n", nil
}

type formatter struct {
	unit      string
	out       []string
	depth     int
	inComment bool
	blank     bool
}

func (f *formatter) indent(depth int) string {
	return strings.Repeat(f.unit, depth)
}

func (f *formatter) line(line string) error {
	if line == "" {
		if len(f.out) > 0 {
			f.blank = true
		}
		return nil
	}

	if f.inComment {
		f.blank = false
		switch {
		case line == "*/":
			f.out = append(f.out, f.indent(f.depth)+" */")
			f.inComment = false
		case strings.Contains(line, "*/"):
			return errors.Wrap(ErrUnbalanced, "block comment closed before its last line")
		case strings.HasPrefix(line, "*"):
			f.out = append(f.out, f.indent(f.depth)+" "+line)
		default:
			f.out = append(f.out, f.indent(f.depth)+" * "+line)
		}
		return nil
	}

	if strings.HasPrefix(line, "/**") || strings.HasPrefix(line, "/*") {
		end := strings.Index(line[2:], "*/")
		if end >= 0 && end+4 != len(line) {
			return errors.Wrap(ErrUnbalanced, "text after block comment")
		}
		f.flushBlank()
		f.out = append(f.out, f.indent(f.depth)+line)
		f.inComment = end < 0
		return nil
	}

	if strings.HasPrefix(line, "//") {
		f.flushBlank()
		f.out = append(f.out, f.indent(f.depth)+line)
		return nil
	}

	if err := checkPairs(line); err != nil {
		return err
	}

	level := f.depth
	if strings.HasPrefix(line, "}") {
		level--
		// No blank line before a closing brace.
		f.blank = false
	}
	if level < 0 {
		return errors.Wrap(ErrUnbalanced, "unexpected '}'")
	}

	f.flushBlank()
	if last := len(f.out) - 1; level < f.depth && last >= 0 && strings.HasSuffix(f.out[last], "{") {
		// Empty block: "interface A {}".
		f.out[last] += line
	} else {
		f.out = append(f.out, f.indent(level)+line)
	}

	f.depth += strings.Count(line, "{") - strings.Count(line, "}")
	if f.depth < 0 {
		return errors.Wrap(ErrUnbalanced, "unexpected '}'")
	}
	return nil
}

// flushBlank emits a pending blank line unless it would open a block.
func (f *formatter) flushBlank() {
	if f.blank && len(f.out) > 0 && !strings.HasSuffix(f.out[len(f.out)-1], "{") {
		f.out = append(f.out, "")
	}
	f.blank = false
}

// checkPairs reports parentheses or brackets that do not balance within a
// single line.
func checkPairs(line string) error {
	var stack []rune
	for _, r := range line {
		switch r {
		case '(', '[':
			stack = append(stack, r)
		case ')', ']':
			open := '('
			if r == ']' {
				open = '['
			}
			if len(stack) == 0 || stack[len(stack)-1] != open {
				return errors.Wrapf(ErrUnbalanced, "unexpected %q", r)
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		return errors.Wrapf(ErrUnbalanced, "unclosed %q", stack[len(stack)-1])
	}
	return nil
}
