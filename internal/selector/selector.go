// Package selector parses compact element selectors such as "li#item.a.b".
package selector

import "strings"

// DefaultTag is used when a selector names no tag
const DefaultTag = "div"

// Selector is the parsed form of a selector token.
// ID and Class are empty when the token declares none.
type Selector struct {
	Tag   string
	ID    string
	Class string
}

// Parse splits a selector token into tag, id and class list.
// Classes keep their source order and are joined by a single space.
// Only the first #-run is meaningful; later ones are ignored.
func Parse(token string) Selector {
	end := strings.IndexAny(token, ".#")
	if end == -1 {
		end = len(token)
	}

	sel := Selector{Tag: token[:end]}
	if sel.Tag == "" {
		sel.Tag = DefaultTag
	}

	var classes []string
	hasID := false
	rest := token[end:]
	for len(rest) > 0 {
		marker := rest[0]
		rest = rest[1:]
		next := strings.IndexAny(rest, ".#")
		if next == -1 {
			next = len(rest)
		}
		run := rest[:next]
		rest = rest[next:]
		if run == "" {
			continue
		}

		switch marker {
		case '.':
			classes = append(classes, run)
		case '#':
			if !hasID {
				sel.ID = run
				hasID = true
			}
		}
	}

	if len(classes) > 0 {
		sel.Class = strings.Join(classes, " ")
	}
	return sel
}
