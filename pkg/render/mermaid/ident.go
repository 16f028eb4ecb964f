package mermaid

import "regexp"

var nonWordRe = regexp.MustCompile(`\W+`)

// Identifier converts an arbitrary job or stage name into an identifier safe
// for Mermaid node references. Runs of non-word characters collapse into a
// single underscore and a leading digit gets an underscore prefix, so names
// like "build:docker" and "2fa-check" become "build_docker" and "_2fa_check".
func Identifier(name string) string {
	id := nonWordRe.ReplaceAllString(name, "_")
	if id == "" {
		return "_"
	}
	if id[0] >= '0' && id[0] <= '9' {
		id = "_" + id
	}
	return id
}

// escapeLabel makes a display label safe for a double-quoted Mermaid string.
func escapeLabel(label string) string {
	out := make([]rune, 0, len(label))
	for _, r := range label {
		if r == '"' {
			out = append(out, '\'')
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
