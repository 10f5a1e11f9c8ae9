package diagram

import (
	"fmt"

	ferrors "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
)

// AssemblyError reports a household that breaks the invariants the family
// builder is supposed to guarantee.
type AssemblyError struct {
	Household string
	PersonIDs []int
	Detail    string
}

// Error implements the error interface.
func (e *AssemblyError) Error() string {
	return fmt.Sprintf("assemble %s: %s", e.Household, e.Detail)
}

// Code returns the error code for this error type.
func (e *AssemblyError) Code() ferrors.Code { return ferrors.ErrCodeAssembly }

// Stats counts what an assembly emitted.
type Stats struct {
	Nodes int
	Edges int
}

// Assembler emits diagram declarations for a family.
type Assembler struct {
	appearance Appearance
}

// NewAssembler creates an assembler that formats with a. A nil appearance
// selects [RecordAppearance].
func NewAssembler(a Appearance) *Assembler {
	if a == nil {
		a = RecordAppearance{}
	}
	return &Assembler{appearance: a}
}

// Assemble emits one node per household, in the roster order of the first
// member reached, followed by one edge per person with a known parent.
// Households are recomputed on every call and no state is shared between
// calls.
//
// Assemble stops at the first sink error or *AssemblyError; declarations
// already pushed to the sink are not retracted.
func (a *Assembler) Assemble(f *family.Family, sink Sink) (Stats, error) {
	var stats Stats
	r := family.NewResolver(f)

	emitted := make(map[string]bool)
	for _, p := range f.Persons() {
		h := r.Of(p)
		if emitted[h.Key] {
			continue
		}
		label, err := a.label(h)
		if err != nil {
			return stats, err
		}
		if err := sink.Node(h.Key, label); err != nil {
			return stats, fmt.Errorf("node %s: %w", h.Key, err)
		}
		emitted[h.Key] = true
		stats.Nodes++
	}

	for _, p := range f.Persons() {
		pp := p.Parents()
		if pp.Empty() {
			continue
		}
		parents := r.Of(pp.First())
		from, to := a.appearance.Edge(EdgeEnds{
			ChildNode:  r.Of(p).Key,
			ParentNode: parents.Key,
			ChildPort:  PersonPort(p.ID),
			ParentPort: parentPort(parents, pp),
		})
		if err := sink.Edge(from, to); err != nil {
			return stats, fmt.Errorf("edge %s -> %s: %w", from, to, err)
		}
		stats.Edges++
	}
	return stats, nil
}

func (a *Assembler) label(h *family.Household) (string, error) {
	switch h.Kind() {
	case family.KindSingle:
		return a.appearance.Single(member(h.Members[0])), nil
	case family.KindCouple:
		x, y := h.Members[0], h.Members[1]
		if !x.IsSpouseOf(y) || !y.IsSpouseOf(x) {
			return "", &AssemblyError{
				Household: h.Key,
				PersonIDs: []int{x.ID, y.ID},
				Detail:    fmt.Sprintf("%d and %d share a household but are not recorded as spouses of each other", x.ID, y.ID),
			}
		}
		return a.appearance.Couple(couple(h.Couples[0])), nil
	default:
		if len(h.Couples) == 0 {
			ids := make([]int, len(h.Members))
			for i, m := range h.Members {
				ids[i] = m.ID
			}
			return "", &AssemblyError{Household: h.Key, PersonIDs: ids, Detail: "household has several members but no marriage"}
		}
		cs := make([]Couple, len(h.Couples))
		for i, c := range h.Couples {
			cs[i] = couple(c)
		}
		return a.appearance.MultiCouple(cs), nil
	}
}

// parentPort anchors an edge on the parents' couple field when father and
// mother are married to each other, otherwise on the first parent.
func parentPort(h *family.Household, pp family.ParentPair) string {
	if pp.Complete() {
		if c, ok := h.CoupleOf(pp.Father, pp.Mother); ok {
			return CouplePort(c.First.ID, c.Second.ID)
		}
	}
	return PersonPort(pp.First().ID)
}

func member(p *family.Person) Member {
	return Member{ID: p.ID, Name: p.Name, Port: PersonPort(p.ID)}
}

func couple(c family.Couple) Couple {
	return Couple{
		First:  member(c.First),
		Second: member(c.Second),
		Port:   CouplePort(c.First.ID, c.Second.ID),
	}
}
