package diagram

import (
	"testing"

	ferrors "github.com/matzehuels/familytree/pkg/errors"
)

func TestRecordAppearance(t *testing.T) {
	a := RecordAppearance{}
	piero := Member{ID: 1, Name: "Piero", Port: PersonPort(1)}
	pina := Member{ID: 2, Name: "Pina", Port: PersonPort(2)}
	umberto := Member{ID: 3, Name: "Umberto", Port: PersonPort(3)}

	if got, want := a.Single(piero), "<p1> Piero"; got != want {
		t.Errorf("Single() = %q, want %q", got, want)
	}

	c := Couple{First: piero, Second: pina, Port: CouplePort(1, 2)}
	if got, want := a.Couple(c), "<p1> Piero | <c1_2> | <p2> Pina"; got != want {
		t.Errorf("Couple() = %q, want %q", got, want)
	}

	multi := []Couple{c, {First: umberto, Second: pina, Port: CouplePort(3, 2)}}
	want := "<p1> Piero | <c1_2> | <p2> Pina | <p3> Umberto | <c3_2> | Pina"
	if got := a.MultiCouple(multi); got != want {
		t.Errorf("MultiCouple() = %q, want %q", got, want)
	}

	from, to := a.Edge(EdgeEnds{ChildNode: "node-5", ParentNode: "node-1-2", ChildPort: "p5", ParentPort: "c1_2"})
	if from != "node-1-2:c1_2" || to != "node-5:p5" {
		t.Errorf("Edge() = (%q, %q)", from, to)
	}
}

func TestDetailedAppearance(t *testing.T) {
	a := DetailedAppearance{}
	ann := Member{ID: 4, Name: "Ann", Port: PersonPort(4)}
	bob := Member{ID: 9, Name: "Bob", Port: PersonPort(9)}

	if got, want := a.Single(ann), "<p4> Ann (#4)"; got != want {
		t.Errorf("Single() = %q, want %q", got, want)
	}
	c := Couple{First: bob, Second: ann, Port: CouplePort(9, 4)}
	if got, want := a.Couple(c), "<p9> Bob (#9) | <c9_4> | <p4> Ann (#4)"; got != want {
		t.Errorf("Couple() = %q, want %q", got, want)
	}
	if got, want := a.MultiCouple([]Couple{c}), "<p9> Bob (#9) | <c9_4> | <p4> Ann (#4)"; got != want {
		t.Errorf("MultiCouple() = %q, want %q", got, want)
	}
}

func TestEscapeRecord(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"a|b", `a\|b`},
		{"{x}", `\{x\}`},
		{"<tag>", `\<tag\>`},
		{`back\slash`, `back\\slash`},
	}
	for _, tt := range tests {
		if got := escapeRecord(tt.in); got != tt.want {
			t.Errorf("escapeRecord(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	got := RecordAppearance{}.Single(Member{ID: 1, Name: "A|B", Port: "p1"})
	if got != `<p1> A\|B` {
		t.Errorf("Single() = %q", got)
	}
}

func TestAppearanceByName(t *testing.T) {
	tests := []struct {
		name    string
		want    Appearance
		wantErr bool
	}{
		{"", RecordAppearance{}, false},
		{"record", RecordAppearance{}, false},
		{"detailed", DetailedAppearance{}, false},
		{"fancy", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AppearanceByName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !ferrors.Is(err, ferrors.ErrCodeInvalidAppearance) {
					t.Errorf("code = %v", ferrors.GetCode(err))
				}
				return
			}
			if got != tt.want {
				t.Errorf("AppearanceByName(%q) = %T, want %T", tt.name, got, tt.want)
			}
		})
	}
}
