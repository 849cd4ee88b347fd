//go:build !windows

package config

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// SafeName turns arbitrary text (document names) into a file name usable
// inside the report: separators are replaced and leading dots dropped.
func SafeName(in string) string {
	out := strings.TrimLeft(strings.Map(func(sym rune) rune {
		if sym == 0 || strings.ContainsRune("/"+string(os.PathListSeparator), sym) {
			return '_'
		}
		return sym
	}, in), ".")
	if len(out) == 0 {
		out = "_unnamed_"
	}
	return out
}

// EnableColorOutput checks if colorized output is possible.
func EnableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}
