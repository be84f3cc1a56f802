package classify

import "strings"

// ListenerPrefix marks attribute keys that register event listeners
const ListenerPrefix = "on-"

// Target says how an attribute key is applied to an element
type Target int

const (
	TargetAttr Target = iota
	TargetID
	TargetClass
	TargetListener
)

// AttrTarget dispatches an attribute key. For listeners the event name is
// the key without its "on-" prefix.
func AttrTarget(name string) (Target, string) {
	switch {
	case name == "id":
		return TargetID, ""
	case name == "class":
		return TargetClass, ""
	case strings.HasPrefix(name, ListenerPrefix):
		return TargetListener, strings.TrimPrefix(name, ListenerPrefix)
	}
	return TargetAttr, ""
}
