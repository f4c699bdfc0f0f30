package imports

import "testing"

func TestCoerce(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		kind Kind
		want interface{}
		omit bool
	}{
		{name: "string trimmed", raw: "  Amani ", kind: KindString, want: "Amani"},
		{name: "empty string omitted", raw: "   ", kind: KindString, omit: true},
		{name: "null form omitted", raw: "null", kind: KindString, omit: true},
		{name: "undefined form omitted", raw: "UNDEFINED", kind: KindString, omit: true},
		{name: "integer", raw: "23", kind: KindInteger, want: 23},
		{name: "integer from float form", raw: "4.0", kind: KindInteger, want: 4},
		{name: "integer native", raw: 7, kind: KindInteger, want: 7},
		{name: "non-numeric integer omitted", raw: "4A", kind: KindInteger, omit: true},
		{name: "empty integer omitted", raw: "", kind: KindInteger, omit: true},
		{name: "date normalized", raw: "13/01/2020", kind: KindDate, want: "2020-01-13"},
		{name: "bad date omitted not defaulted", raw: "soon", kind: KindDate, omit: true},
		{name: "out-of-range date omitted", raw: "1805-01-01", kind: KindDate, omit: true},
		{name: "enum passes through trimmed", raw: " O+ ", kind: KindEnum, want: "O+"},
		{name: "empty enum omitted", raw: "", kind: KindEnum, omit: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Coerce(tt.raw, tt.kind)
			if tt.omit {
				if ok {
					t.Errorf("Coerce(%v, %s) = %v, want omitted", tt.raw, tt.kind, got)
				}
				return
			}
			if !ok {
				t.Fatalf("Coerce(%v, %s) omitted, want %v", tt.raw, tt.kind, tt.want)
			}
			if got != tt.want {
				t.Errorf("Coerce(%v, %s) = %v, want %v", tt.raw, tt.kind, got, tt.want)
			}

			// coercion is pure: same input, same outcome
			again, ok2 := Coerce(tt.raw, tt.kind)
			if !ok2 || again != got {
				t.Errorf("Coerce not idempotent: first %v, second %v (ok=%v)", got, again, ok2)
			}
		})
	}
}
