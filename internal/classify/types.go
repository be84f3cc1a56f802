package classify

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
)

// TypeResolver optionally reports the static Go type of an expression.
// A false result means "unknown" and keeps the value Dynamic.
type TypeResolver interface {
	ResolveStaticType(src string) (string, bool)
}

// VarTypes resolves expressions from declared variable types, keyed by
// identifier or dotted selector path ("item.Title"). Go type names are
// written as in source: "string", "int64", "[]string".
type VarTypes map[string]string

var textTypes = map[string]bool{
	"string": true, "bool": true, "rune": true, "byte": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"float32": true, "float64": true,
}

// IsTextType reports whether values of the named type render as text
func IsTextType(typ string) bool {
	return textTypes[typ]
}

// stringFuncs are package functions known to return a string
var stringFuncs = map[string]bool{
	"fmt.Sprint":          true,
	"fmt.Sprintf":         true,
	"fmt.Sprintln":        true,
	"strconv.Itoa":        true,
	"strconv.FormatInt":   true,
	"strconv.FormatUint":  true,
	"strconv.FormatFloat": true,
	"strconv.FormatBool":  true,
	"strconv.Quote":       true,
	"strings.Join":        true,
	"strings.ToUpper":     true,
	"strings.ToLower":     true,
	"strings.TrimSpace":   true,
	"strings.Repeat":      true,
}

// ResolveStaticType implements TypeResolver
func (v VarTypes) ResolveStaticType(src string) (string, bool) {
	ex, err := parser.ParseExpr(src)
	if err != nil {
		return "", false
	}
	return v.resolve(ex)
}

func (v VarTypes) resolve(ex ast.Expr) (string, bool) {
	switch e := ex.(type) {
	case *ast.ParenExpr:
		return v.resolve(e.X)
	case *ast.BasicLit:
		switch e.Kind {
		case token.STRING:
			return "string", true
		case token.INT:
			return "int", true
		case token.FLOAT:
			return "float64", true
		case token.CHAR:
			return "rune", true
		}
	case *ast.Ident:
		if e.Name == "true" || e.Name == "false" {
			return "bool", true
		}
		typ, ok := v[e.Name]
		return typ, ok
	case *ast.SelectorExpr:
		if path, ok := selectorPath(e); ok {
			typ, ok := v[path]
			return typ, ok
		}
	case *ast.UnaryExpr:
		if e.Op == token.NOT {
			return "bool", true
		}
		if e.Op == token.SUB || e.Op == token.ADD {
			return v.resolve(e.X)
		}
	case *ast.BinaryExpr:
		switch e.Op {
		case token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ, token.LAND, token.LOR:
			return "bool", true
		}
		if typ, ok := v.resolve(e.X); ok {
			return typ, true
		}
		return v.resolve(e.Y)
	case *ast.CallExpr:
		return v.resolveCall(e)
	}
	return "", false
}

func (v VarTypes) resolveCall(e *ast.CallExpr) (string, bool) {
	switch fun := e.Fun.(type) {
	case *ast.Ident:
		switch {
		case fun.Name == "len" || fun.Name == "cap":
			return "int", true
		case IsTextType(fun.Name):
			// conversion, e.g. string(b) or int64(n)
			return fun.Name, true
		}
	case *ast.SelectorExpr:
		if path, ok := selectorPath(fun); ok && stringFuncs[path] {
			return "string", true
		}
	}
	return "", false
}

func selectorPath(e *ast.SelectorExpr) (string, bool) {
	var parts []string
	var cur ast.Expr = e
	for {
		switch x := cur.(type) {
		case *ast.SelectorExpr:
			parts = append(parts, x.Sel.Name)
			cur = x.X
			continue
		case *ast.Ident:
			parts = append(parts, x.Name)
		default:
			return "", false
		}
		break
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "."), true
}
