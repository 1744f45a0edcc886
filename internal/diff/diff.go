// Package diff renders line diffs between a checked-in declaration file and
// a fresh generation.
package diff

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Op is the kind of a diff line.
type Op int

const (
	Equal  Op = iota // Present in both
	Delete           // Only in the old text
	Insert           // Only in the new text
)

// Line is one line of a diff, without its newline.
type Line struct {
	Op   Op
	Text string
}

// Lines diffs from and to line by line.
func Lines(from, to string) []Line {
	dmp := diffpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	var lines []Line
	for _, d := range diffs {
		op := Equal
		switch d.Type {
		case diffpatch.DiffDelete:
			op = Delete
		case diffpatch.DiffInsert:
			op = Insert
		}
		for _, text := range strings.SplitAfter(d.Text, "\n") {
			if text == "" {
				continue
			}
			lines = append(lines, Line{Op: op, Text: strings.TrimSuffix(text, "\n")})
		}
	}
	return lines
}

// Changed reports whether lines hold any insertion or deletion.
func Changed(lines []Line) bool {
	for _, l := range lines {
		if l.Op != Equal {
			return true
		}
	}
	return false
}

// Printer writes diffs in unified style, optionally colored.
type Printer struct {
	// Context is the number of unchanged lines shown around each change.
	Context int

	del, ins, hunk func(a ...any) string
}

// NewPrinter creates a Printer. With colored off, output is plain text.
func NewPrinter(colored bool, context int) *Printer {
	p := &Printer{Context: context}
	styles := []*color.Color{color.New(color.FgRed), color.New(color.FgGreen), color.New(color.FgCyan)}
	for _, s := range styles {
		if colored {
			s.EnableColor()
		} else {
			s.DisableColor()
		}
	}
	p.del = styles[0].SprintFunc()
	p.ins = styles[1].SprintFunc()
	p.hunk = styles[2].SprintFunc()
	return p
}

// Print writes the diff of lines with headers naming the old and new text.
// Nothing is written when lines hold no change.
func (p *Printer) Print(w io.Writer, oldName, newName string, lines []Line) error {
	if !Changed(lines) {
		return nil
	}
	if _, err := fmt.Fprintf(w, "%s\n%s\n", p.del("--- "+oldName), p.ins("+++ "+newName)); err != nil {
		return err
	}

	show := p.visible(lines)
	oldLine, newLine := 1, 1
	gap := true
	for i, l := range lines {
		if !show[i] {
			gap = true
		} else {
			if gap {
				if _, err := fmt.Fprintln(w, p.hunk(fmt.Sprintf("@@ -%d +%d @@", oldLine, newLine))); err != nil {
					return err
				}
				gap = false
			}
			var out string
			switch l.Op {
			case Delete:
				out = p.del("-" + l.Text)
			case Insert:
				out = p.ins("+" + l.Text)
			default:
				out = " " + l.Text
			}
			if _, err := fmt.Fprintln(w, out); err != nil {
				return err
			}
		}

		switch l.Op {
		case Delete:
			oldLine++
		case Insert:
			newLine++
		default:
			oldLine++
			newLine++
		}
	}
	return nil
}

// visible marks the changed lines and their context.
func (p *Printer) visible(lines []Line) []bool {
	show := make([]bool, len(lines))
	for i, l := range lines {
		if l.Op == Equal {
			continue
		}
		lo, hi := i-p.Context, i+p.Context
		for j := max(lo, 0); j <= hi && j < len(lines); j++ {
			show[j] = true
		}
	}
	return show
}
