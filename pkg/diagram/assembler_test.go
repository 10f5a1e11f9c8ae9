package diagram

import (
	"errors"
	"slices"
	"strconv"
	"testing"

	ferrors "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
)

func buildFamily(t *testing.T, rows ...family.Row) *family.Family {
	t.Helper()
	persons, err := family.ParseRecords(rows)
	if err != nil {
		t.Fatalf("ParseRecords: %v", err)
	}
	f, err := family.Build(persons)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return f
}

func assemble(t *testing.T, f *family.Family) *Recorder {
	t.Helper()
	rec := &Recorder{}
	stats, err := NewAssembler(RecordAppearance{}).Assemble(f, rec)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if stats.Nodes != len(rec.Nodes) || stats.Edges != len(rec.Edges) {
		t.Errorf("stats = %+v, recorded %d nodes %d edges", stats, len(rec.Nodes), len(rec.Edges))
	}
	return rec
}

func nodeKeys(rec *Recorder) []string {
	keys := make([]string, len(rec.Nodes))
	for i, n := range rec.Nodes {
		keys[i] = n.Key
	}
	return keys
}

func TestAssembleSinglePerson(t *testing.T) {
	f := buildFamily(t, family.Row{"id": "1", "person_name": "Giacomo", "sex": "M"})
	rec := assemble(t, f)

	if len(rec.Nodes) != 1 {
		t.Fatalf("nodes = %d, want 1", len(rec.Nodes))
	}
	if rec.Nodes[0] != (NodeDecl{Key: "node-1", Label: "<p1> Giacomo"}) {
		t.Errorf("node = %+v", rec.Nodes[0])
	}
	if len(rec.Edges) != 0 {
		t.Errorf("edges = %v, want none", rec.Edges)
	}
}

func TestAssembleFamily(t *testing.T) {
	f := buildFamily(t,
		family.Row{"id": "2", "person_name": "Pina", "sex": "F", "marriage_1": "1"},
		family.Row{"id": "1", "person_name": "Piero", "sex": "M", "marriage_1": "2"},
		family.Row{"id": "3", "person_name": "Aurora", "sex": "F", "father_id": "1", "mother_id": "2", "marriage_1": "4"},
		family.Row{"id": "4", "person_name": "Alessandro", "sex": "M", "marriage_1": "3"},
		family.Row{"id": "5", "person_name": "Armando", "sex": "M", "father_id": "1", "mother_id": "2"},
		family.Row{"id": "6", "person_name": "Domenico", "sex": "M", "father_id": "4", "mother_id": "3"},
	)
	rec := assemble(t, f)

	want := []NodeDecl{
		{Key: "node-1-2", Label: "<p1> Piero | <c1_2> | <p2> Pina"},
		{Key: "node-3-4", Label: "<p4> Alessandro | <c4_3> | <p3> Aurora"},
		{Key: "node-5", Label: "<p5> Armando"},
		{Key: "node-6", Label: "<p6> Domenico"},
	}
	if !slices.Equal(rec.Nodes, want) {
		t.Errorf("nodes =\n%v\nwant\n%v", rec.Nodes, want)
	}

	wantEdges := []EdgeDecl{
		{From: "node-1-2:c1_2", To: "node-3-4:p3"},
		{From: "node-1-2:c1_2", To: "node-5:p5"},
		{From: "node-3-4:c4_3", To: "node-6:p6"},
	}
	if !slices.Equal(rec.Edges, wantEdges) {
		t.Errorf("edges =\n%v\nwant\n%v", rec.Edges, wantEdges)
	}
}

func TestAssembleRemarriageChainSingleNode(t *testing.T) {
	f := buildFamily(t,
		family.Row{"id": "1", "person_name": "A", "sex": "M", "marriage_1": "2"},
		family.Row{"id": "2", "person_name": "B", "sex": "F", "marriage_1": "1", "marriage_2": "3"},
		family.Row{"id": "3", "person_name": "C", "sex": "M", "marriage_1": "2"},
		family.Row{"id": "4", "person_name": "D", "sex": "F", "father_id": "3", "mother_id": "2"},
	)
	rec := assemble(t, f)

	if got := nodeKeys(rec); !slices.Equal(got, []string{"node-1-2-3", "node-4"}) {
		t.Fatalf("nodes = %v", got)
	}
	wantLabel := "<p1> A | <c1_2> | <p2> B | <p3> C | <c3_2> | B"
	if rec.Nodes[0].Label != wantLabel {
		t.Errorf("label = %q, want %q", rec.Nodes[0].Label, wantLabel)
	}
	if len(rec.Edges) != 1 || rec.Edges[0] != (EdgeDecl{From: "node-1-2-3:c3_2", To: "node-4:p4"}) {
		t.Errorf("edges = %v", rec.Edges)
	}
}

// Parents in one household but not married to each other anchor the edge on
// the father.
func TestAssembleParentsLinkedThroughChain(t *testing.T) {
	f := buildFamily(t,
		family.Row{"id": "1", "sex": "M", "marriage_1": "2"},
		family.Row{"id": "2", "sex": "F", "marriage_1": "1", "marriage_2": "3"},
		family.Row{"id": "3", "sex": "M", "marriage_1": "2", "marriage_2": "4"},
		family.Row{"id": "4", "sex": "F", "marriage_1": "3"},
		family.Row{"id": "5", "sex": "M", "father_id": "1", "mother_id": "4"},
	)
	rec := assemble(t, f)
	if len(rec.Edges) != 1 || rec.Edges[0].From != "node-1-2-3-4:p1" {
		t.Errorf("edges = %v", rec.Edges)
	}
}

func TestAssembleSingleParent(t *testing.T) {
	f := buildFamily(t,
		family.Row{"id": "1", "person_name": "Paola", "sex": "F"},
		family.Row{"id": "2", "person_name": "Carolina", "sex": "F", "mother_id": "1"},
	)
	rec := assemble(t, f)
	if len(rec.Edges) != 1 || rec.Edges[0] != (EdgeDecl{From: "node-1:p1", To: "node-2:p2"}) {
		t.Errorf("edges = %v", rec.Edges)
	}
}

func TestAssembleNoDuplicateNodes(t *testing.T) {
	// Five members of one household, listed interleaved with their children.
	var rows []family.Row
	rows = append(rows,
		family.Row{"id": "1", "sex": "M", "marriage_1": "2", "marriage_2": "4"},
		family.Row{"id": "10", "sex": "M", "father_id": "1", "mother_id": "2"},
		family.Row{"id": "2", "sex": "F", "marriage_1": "1", "marriage_2": "3"},
		family.Row{"id": "3", "sex": "M", "marriage_1": "2"},
		family.Row{"id": "11", "sex": "F", "father_id": "3", "mother_id": "2"},
		family.Row{"id": "4", "sex": "F", "marriage_1": "1", "marriage_2": "5"},
		family.Row{"id": "5", "sex": "M", "marriage_1": "4"},
	)
	f := buildFamily(t, rows...)
	rec := assemble(t, f)

	seen := make(map[string]int)
	for _, n := range rec.Nodes {
		seen[n.Key]++
	}
	for k, n := range seen {
		if n != 1 {
			t.Errorf("node %s emitted %d times", k, n)
		}
	}
	if got := nodeKeys(rec); !slices.Equal(got, []string{"node-1-2-3-4-5", "node-10", "node-11"}) {
		t.Errorf("nodes = %v", got)
	}
	if len(rec.Edges) != 2 {
		t.Errorf("edges = %d, want 2", len(rec.Edges))
	}
}

func TestAssembleNodesBeforeEdges(t *testing.T) {
	f := buildFamily(t,
		family.Row{"id": "3", "sex": "F", "father_id": "1", "mother_id": "2"},
		family.Row{"id": "1", "sex": "M", "marriage_1": "2"},
		family.Row{"id": "2", "sex": "F", "marriage_1": "1"},
	)
	var order []string
	sink := &funcSink{
		node: func(key, _ string) error { order = append(order, "node"); return nil },
		edge: func(_, _ string) error { order = append(order, "edge"); return nil },
	}
	if _, err := NewAssembler(nil).Assemble(f, sink); err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !slices.Equal(order, []string{"node", "node", "edge"}) {
		t.Errorf("order = %v", order)
	}
}

func TestAssembleIsRepeatable(t *testing.T) {
	f := buildFamily(t,
		family.Row{"id": "1", "sex": "M", "marriage_1": "2"},
		family.Row{"id": "2", "sex": "F", "marriage_1": "1"},
		family.Row{"id": "3", "sex": "M", "father_id": "1", "mother_id": "2"},
	)
	first := assemble(t, f)
	second := assemble(t, f)
	if !slices.Equal(first.Nodes, second.Nodes) || !slices.Equal(first.Edges, second.Edges) {
		t.Error("repeated assembly should produce identical declarations")
	}
}

func TestAssembleSinkError(t *testing.T) {
	f := buildFamily(t, family.Row{"id": "1", "sex": "M"})
	boom := errors.New("boom")
	sink := &funcSink{node: func(string, string) error { return boom }}
	_, err := NewAssembler(nil).Assemble(f, sink)
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want %v", err, boom)
	}
}

func TestLabelRejectsUnmarriedPair(t *testing.T) {
	x := &family.Person{ID: 1, Sex: family.Male}
	y := &family.Person{ID: 2, Sex: family.Female}
	h := &family.Household{
		Key:     family.HouseholdKey([]int{1, 2}),
		Members: []*family.Person{x, y},
		Couples: []family.Couple{family.NewCouple(x, y)},
	}

	_, err := NewAssembler(nil).label(h)
	var ae *AssemblyError
	if !errors.As(err, &ae) {
		t.Fatalf("error = %v, want *AssemblyError", err)
	}
	if !slices.Equal(ae.PersonIDs, []int{1, 2}) {
		t.Errorf("PersonIDs = %v", ae.PersonIDs)
	}
	if !ferrors.Is(err, ferrors.ErrCodeAssembly) {
		t.Errorf("code = %v", ferrors.GetCode(err))
	}
}

func TestLabelRejectsHouseholdWithoutMarriage(t *testing.T) {
	var members []*family.Person
	for i := 1; i <= 3; i++ {
		members = append(members, &family.Person{ID: i, Name: strconv.Itoa(i)})
	}
	h := &family.Household{Key: "node-1-2-3", Members: members}
	if _, err := NewAssembler(nil).label(h); !ferrors.Is(err, ferrors.ErrCodeAssembly) {
		t.Errorf("error = %v, want assembly error", err)
	}
}

func TestRecorderReplay(t *testing.T) {
	src := &Recorder{}
	_ = src.Node("a", "A")
	_ = src.Node("b", "B")
	_ = src.Edge("a:p1", "b:p2")

	dst := &Recorder{}
	if err := src.Replay(dst); err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if !slices.Equal(src.Nodes, dst.Nodes) || !slices.Equal(src.Edges, dst.Edges) {
		t.Error("replayed declarations differ")
	}
}

type funcSink struct {
	node func(key, label string) error
	edge func(from, to string) error
}

func (s *funcSink) Node(key, label string) error {
	if s.node == nil {
		return nil
	}
	return s.node(key, label)
}

func (s *funcSink) Edge(from, to string) error {
	if s.edge == nil {
		return nil
	}
	return s.edge(from, to)
}
