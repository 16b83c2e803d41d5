package directive

import "testing"

func TestScan(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Directive
	}{
		{
			name: "no markers",
			text: "plain text with $ and (parens)",
			want: nil,
		},
		{
			name: "single marker",
			text: "See $uml(diagrams/flow) here",
			want: []Directive{{Command: "uml", Argument: "diagrams/flow", Start: 4, End: 23}},
		},
		{
			name: "two markers",
			text: "$uml(a) and $src(b)",
			want: []Directive{
				{Command: "uml", Argument: "a", Start: 0, End: 7},
				{Command: "src", Argument: "b", Start: 12, End: 19},
			},
		},
		{
			name: "argument stops at first close paren",
			text: "$src(a(b))",
			want: []Directive{{Command: "src", Argument: "a(b", Start: 0, End: 9}},
		},
		{
			name: "empty argument is not a marker",
			text: "$uml()",
			want: nil,
		},
		{
			name: "command is case sensitive and keeps digits and underscores",
			text: "$Uml_2(x)",
			want: []Directive{{Command: "Uml_2", Argument: "x", Start: 0, End: 9}},
		},
		{
			name: "doubled sigil",
			text: "$$uml(x)",
			want: []Directive{{Command: "uml", Argument: "x", Start: 1, End: 8}},
		},
		{
			name: "argument spans lines and spaces",
			text: "$uml(a b\nc)",
			want: []Directive{{Command: "uml", Argument: "a b\nc", Start: 0, End: 11}},
		},
		{
			name: "non word command",
			text: "$ul-m(x)",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Scan(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("Scan(%q) returned %d directives, want %d: %+v", tt.text, len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Scan(%q)[%d] = %+v, want %+v", tt.text, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDirectiveString(t *testing.T) {
	d := Directive{Command: "src", Argument: "Foo/Bar"}
	if got := d.String(); got != "$src(Foo/Bar)" {
		t.Errorf("String() = %q, want %q", got, "$src(Foo/Bar)")
	}
}
