package classify

import "testing"

func TestVarTypes_ResolveStaticType(t *testing.T) {
	vars := VarTypes{
		"name":       "string",
		"count":      "int",
		"items":      "[]Item",
		"item.Title": "string",
		"a.b.c":      "bool",
	}

	tests := []struct {
		src  string
		typ  string
		ok   bool
		text bool
	}{
		{`"literal"`, "string", true, true},
		{"42", "int", true, true},
		{"4.2", "float64", true, true},
		{"'x'", "rune", true, true},
		{"true", "bool", true, true},
		{"name", "string", true, true},
		{"(name)", "string", true, true},
		{"items", "[]Item", true, false},
		{"item.Title", "string", true, true},
		{"a.b.c", "bool", true, true},
		{"!done", "bool", true, true},
		{"count > 3", "bool", true, true},
		{"-count", "int", true, true},
		{`name + "!"`, "string", true, true},
		{`fmt.Sprintf("%d", count)`, "string", true, true},
		{"strconv.Itoa(count)", "string", true, true},
		{"len(items)", "int", true, true},
		{"int64(count)", "int64", true, true},
		{"unknown", "", false, false},
		{"items[0].Title", "", false, false},
		{"render(item)", "", false, false},
		{"not valid go (", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			typ, ok := vars.ResolveStaticType(tt.src)
			if typ != tt.typ || ok != tt.ok {
				t.Errorf("ResolveStaticType(%q) = (%q, %v), want (%q, %v)", tt.src, typ, ok, tt.typ, tt.ok)
			}
			if got := ok && IsTextType(typ); got != tt.text {
				t.Errorf("text-like = %v, want %v", got, tt.text)
			}
		})
	}
}

func TestVarTypes_Nil(t *testing.T) {
	var vars VarTypes
	if _, ok := vars.ResolveStaticType("name"); ok {
		t.Error("expected nil VarTypes to resolve nothing for identifiers")
	}
	if typ, ok := vars.ResolveStaticType(`"x"`); !ok || typ != "string" {
		t.Errorf("expected literals to resolve without hints, got (%q, %v)", typ, ok)
	}
}
