package validation

import (
	"sort"
	"strings"
)

// RootPath keys errors that concern the value itself rather than a field.
const RootPath = "$"

// ValidationError maps field paths (e.g. "education[0].year") to messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	paths := make([]string, 0, len(e.Fields))
	for p := range e.Fields {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var b strings.Builder
	b.WriteString("validation failed: ")
	for i, p := range paths {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(p)
		b.WriteString(": ")
		b.WriteString(e.Fields[p])
	}
	return b.String()
}
