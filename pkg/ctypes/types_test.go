package ctypes

import "testing"

func TestTypeNames(t *testing.T) {
	tests := []struct {
		name    string
		typ     Type
		wantStr string
	}{
		{"void", Void, "void"},
		{"int", Int, "int"},
		{"char", Char, "char"},
		{"bool", Bool, "bool"},
		{"string", String, "string"},
		{"null", Null, "null"},
		{"unresolved", Unresolved, "<unresolved>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.wantStr {
				t.Errorf("String() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		want Type
		ok   bool
	}{
		{"int", Int, true},
		{"char", Char, true},
		{"bool", Bool, true},
		{"void", Void, true},
		{"string", Unresolved, false},
		{"long", Unresolved, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Lookup(tt.name)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Lookup(%q) = (%v, %v), want (%v, %v)", tt.name, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestZeroValues(t *testing.T) {
	tests := []struct {
		typ  Type
		want any
	}{
		{Int, int64(0)},
		{Bool, false},
		{Char, byte(' ')},
		{String, ""},
		{Void, nil},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			got := tt.typ.Zero()
			if got != tt.want {
				t.Errorf("Zero() = %#v, want %#v", got, tt.want)
			}
			if !tt.typ.Holds(got) {
				t.Errorf("%s does not hold its own zero value", tt.typ)
			}
		})
	}
}

func TestHolds(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		v    any
		want bool
	}{
		{"int holds int64", Int, int64(3), true},
		{"int rejects int", Int, 3, false},
		{"char holds byte", Char, byte('a'), true},
		{"char rejects int64", Char, int64('a'), false},
		{"bool holds bool", Bool, true, true},
		{"null holds nil", Null, nil, true},
		{"string rejects byte", String, byte('a'), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.Holds(tt.v); got != tt.want {
				t.Errorf("Holds(%#v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}
