package diagram

import (
	"fmt"
	"strings"

	ferrors "github.com/matzehuels/familytree/pkg/errors"
)

// Member is one person as shown inside a node.
type Member struct {
	ID   int
	Name string
	Port string
}

// Couple is a married pair as shown inside a node, male first.
type Couple struct {
	First  Member
	Second Member
	Port   string // anchor for edges to the couple's children
}

// EdgeEnds identifies both endpoints of a parent-to-child edge.
type EdgeEnds struct {
	ChildNode  string // household key of the child
	ParentNode string // household key of the parents
	ChildPort  string // the child's port inside its own node
	ParentPort string // the parents' port inside their node
}

// Appearance formats node labels and edge endpoints. Implementations only
// format strings; they know nothing about family consistency.
type Appearance interface {
	// Single formats the label of a lone person.
	Single(m Member) string
	// Couple formats the label of a two-person household.
	Couple(c Couple) string
	// MultiCouple formats the label of a household holding several
	// marriages, given in a fixed order.
	MultiCouple(cs []Couple) string
	// Edge returns the from and to endpoint descriptors of an edge.
	Edge(e EdgeEnds) (from, to string)
}

// PersonPort returns the port name of a person.
func PersonPort(id int) string { return fmt.Sprintf("p%d", id) }

// CouplePort returns the port name of a couple, male id first.
func CouplePort(first, second int) string { return fmt.Sprintf("c%d_%d", first, second) }

// RecordAppearance draws households as Graphviz record boxes:
//
//	<p1> Piero | <c1_2> | <p2> Pina
//
// The empty middle field of a couple is the anchor for its children's edges.
type RecordAppearance struct{}

// Single implements Appearance.
func (RecordAppearance) Single(m Member) string { return field(m.Port, escapeRecord(m.Name)) }

// Couple implements Appearance.
func (RecordAppearance) Couple(c Couple) string { return coupleFields(c, escapeRecord, nil) }

// MultiCouple implements Appearance. A person married more than once is
// labeled again in each marriage, but only the first field carries the port.
func (RecordAppearance) MultiCouple(cs []Couple) string { return multiFields(cs, escapeRecord) }

// Edge implements Appearance.
func (RecordAppearance) Edge(e EdgeEnds) (string, string) { return recordEdge(e) }

// DetailedAppearance is [RecordAppearance] with the person id after each name.
type DetailedAppearance struct{}

func detailedName(m Member) string { return fmt.Sprintf("%s (#%d)", m.Name, m.ID) }

// Single implements Appearance.
func (DetailedAppearance) Single(m Member) string {
	return field(m.Port, escapeRecord(detailedName(m)))
}

// Couple implements Appearance.
func (DetailedAppearance) Couple(c Couple) string {
	return coupleFields(c, escapeRecord, detailedName)
}

// MultiCouple implements Appearance.
func (DetailedAppearance) MultiCouple(cs []Couple) string {
	out := make([]Couple, len(cs))
	for i, c := range cs {
		c.First.Name = detailedName(c.First)
		c.Second.Name = detailedName(c.Second)
		out[i] = c
	}
	return multiFields(out, escapeRecord)
}

// Edge implements Appearance.
func (DetailedAppearance) Edge(e EdgeEnds) (string, string) { return recordEdge(e) }

// Appearance names accepted by [AppearanceByName].
const (
	AppearanceRecord   = "record"
	AppearanceDetailed = "detailed"
)

// AppearanceNames lists the selectable appearances.
var AppearanceNames = []string{AppearanceRecord, AppearanceDetailed}

// AppearanceByName returns the appearance registered under name. An empty
// name selects the record appearance.
func AppearanceByName(name string) (Appearance, error) {
	switch name {
	case "", AppearanceRecord:
		return RecordAppearance{}, nil
	case AppearanceDetailed:
		return DetailedAppearance{}, nil
	}
	return nil, ferrors.New(ferrors.ErrCodeInvalidAppearance,
		"unknown appearance %q (must be one of %s)", name, strings.Join(AppearanceNames, ", "))
}

func recordEdge(e EdgeEnds) (string, string) {
	return e.ParentNode + ":" + e.ParentPort, e.ChildNode + ":" + e.ChildPort
}

func field(port, text string) string {
	if text == "" {
		return "<" + port + ">"
	}
	return "<" + port + "> " + text
}

func coupleFields(c Couple, esc func(string) string, name func(Member) string) string {
	if name == nil {
		name = func(m Member) string { return m.Name }
	}
	return strings.Join([]string{
		field(c.First.Port, esc(name(c.First))),
		field(c.Port, ""),
		field(c.Second.Port, esc(name(c.Second))),
	}, " | ")
}

func multiFields(cs []Couple, esc func(string) string) string {
	seen := make(map[int]bool)
	member := func(m Member) string {
		if seen[m.ID] {
			return esc(m.Name)
		}
		seen[m.ID] = true
		return field(m.Port, esc(m.Name))
	}
	parts := make([]string, 0, 3*len(cs))
	for _, c := range cs {
		parts = append(parts, member(c.First), field(c.Port, ""), member(c.Second))
	}
	return strings.Join(parts, " | ")
}

var recordEscaper = strings.NewReplacer(
	`\`, `\\`,
	`{`, `\{`,
	`}`, `\}`,
	`|`, `\|`,
	`<`, `\<`,
	`>`, `\>`,
)

// escapeRecord escapes the characters that structure a record label.
func escapeRecord(s string) string { return recordEscaper.Replace(s) }
