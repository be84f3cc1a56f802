package livedom

import (
	"fmt"
	"reflect"
	"strconv"
)

// Truthy reports whether v produces a node, attribute or listener.
// nil, false and nil pointers, funcs, maps and slices are falsy.
func Truthy(v interface{}) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Ptr, reflect.Func, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan:
		return !rv.IsNil()
	}
	return true
}

// Text converts a text-like value to its text content. Falsy values
// convert to the empty string.
func Text(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "true"
		}
		return ""
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case fmt.Stringer:
		return x.String()
	}
	if !Truthy(v) {
		return ""
	}
	return fmt.Sprint(v)
}

// AttrValue converts an attribute value to its string form. true renders
// as a present, empty boolean attribute.
func AttrValue(v interface{}) string {
	if b, ok := v.(bool); ok && b {
		return ""
	}
	return Text(v)
}

// JoinClass appends a class value to a class prefix, separated by one space.
// A falsy value leaves the prefix unchanged.
func JoinClass(prefix string, v interface{}) string {
	if !Truthy(v) {
		return prefix
	}
	s := AttrValue(v)
	switch {
	case s == "":
		return prefix
	case prefix == "":
		return s
	}
	return prefix + " " + s
}
