package render

import (
	"path/filepath"
	"strings"
)

// maxNameLen bounds the stem derived from a source path.
const maxNameLen = 128

// OutputName derives a plot file name from a source path: the base name
// without extension, reduced to ASCII letters, digits, dot, underscore and
// dash, followed by "_<kind>.<ext>".
func OutputName(source, kind, ext string) string {
	stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return sanitize(stem) + "_" + kind + "." + ext
}

// sanitize replaces runs of disallowed characters with one underscore.
func sanitize(s string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		if b.Len() >= maxNameLen {
			break
		}
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'),
			r == '.', r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "pass"
	}
	return out
}
