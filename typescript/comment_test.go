package typescript

import (
	"reflect"
	"testing"

	"github.com/broady/grpctypes/ir"
)

func TestEmitter_EmitComment(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []string
	}{
		{
			name: "absent",
			doc:  "",
			want: nil,
		},
		{
			name: "single line",
			doc:  "The greeting service definition.",
			want: []string{"", "/**", "* The greeting service definition.", " */"},
		},
		{
			name: "two lines verbatim",
			doc:  "Some Comment\n  Others, indented",
			want: []string{"", "/**", "* Some Comment", "*   Others, indented", " */"},
		},
		{
			name: "blank inner line kept",
			doc:  "First.\n\nThird.",
			want: []string{"", "/**", "* First.", "* ", "* Third.", " */"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEmitter(DefaultConfig())
			e.emitComment(tt.doc)
			if !reflect.DeepEqual(e.Lines(), tt.want) {
				t.Errorf("emitComment(%q) = %q, want %q", tt.doc, e.Lines(), tt.want)
			}
		})
	}
}

func TestEmit_MessageDocumentation(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantBlock bool
	}{
		{"documented", "The request message.\nSecond line.", true},
		{"undocumented", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEmitter(DefaultConfig())
			if err := e.emitMessage(&ir.Message{Name: "HelloRequest", Doc: tt.doc}); err != nil {
				t.Fatalf("emitMessage() error = %v", err)
			}
			lines := e.Lines()

			var stars []string
			hasOpen := false
			for _, line := range lines {
				if line == "/**" {
					hasOpen = true
				}
				if len(line) > 1 && line[:2] == "* " {
					stars = append(stars, line[2:])
				}
			}
			if hasOpen != tt.wantBlock {
				t.Fatalf("comment block present = %v, want %v (lines %q)", hasOpen, tt.wantBlock, lines)
			}
			if tt.wantBlock {
				want := []string{"The request message.", "Second line."}
				if !reflect.DeepEqual(stars, want) {
					t.Errorf("comment lines = %q, want %q", stars, want)
				}
			}
		})
	}
}
