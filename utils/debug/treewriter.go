// Package debug has helpers producing human readable dumps of nested
// structures.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

// TreeWriter accumulates indented lines, two spaces per nesting level.
// Depth is tracked by the writer, use Enter and Leave around children.
type TreeWriter struct {
	w     *strings.Builder
	depth int
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw *TreeWriter) String() string {
	return tw.w.String()
}

// Depth returns current nesting level.
func (tw *TreeWriter) Depth() int {
	return tw.depth
}

// Enter increases nesting level for the following lines.
func (tw *TreeWriter) Enter() {
	tw.depth++
}

// Leave decreases nesting level, it never goes below zero.
func (tw *TreeWriter) Leave() {
	if tw.depth > 0 {
		tw.depth--
	}
}

func (tw *TreeWriter) indent() {
	for range tw.depth {
		tw.w.WriteString("  ")
	}
}

// Line writes formatted line at current nesting level.
func (tw *TreeWriter) Line(format string, args ...any) {
	tw.indent()
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// Value writes "label: value" line, non empty values are quoted.
func (tw *TreeWriter) Value(label, value string) {
	tw.indent()
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
