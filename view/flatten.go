package view

// Flatten normalizes a children collection into one ordered sequence.
//
// List wrappers are spliced in place exactly one level deep; everything else,
// including nil entries and nested Nodes, is kept as is. A nil entry means
// "no node produced here" and keeps its position. Flatten(Flatten(x))
// equals Flatten(x) whenever x holds no List nested inside another List.
func Flatten(children []interface{}) []interface{} {
	if len(children) == 0 {
		return []interface{}{}
	}
	if !hasList(children) {
		return children
	}
	out := make([]interface{}, 0, len(children))
	for _, c := range children {
		if l, ok := c.(List); ok {
			out = append(out, l...)
			continue
		}
		out = append(out, c)
	}
	return out
}

func hasList(children []interface{}) bool {
	for _, c := range children {
		if _, ok := c.(List); ok {
			return true
		}
	}
	return false
}
