package family

import "slices"

// Sex is the binary sex recorded for a person. It drives pair ordering:
// male members come first in every couple and parent pair.
type Sex int

const (
	// Female is the zero value; any sex marker other than "M" parses to it.
	Female Sex = iota
	// Male is parsed from the "M" sex marker.
	Male
)

// String returns "M" or "F".
func (s Sex) String() string {
	if s == Male {
		return "M"
	}
	return "F"
}

// Person is one member of the family roster.
//
// The exported fields hold the raw, unresolved record. Relationship accessors
// such as [Person.Father] or [Person.Children] return nil until the person has
// passed through [Build]; afterwards the person must be treated as immutable.
type Person struct {
	ID        int
	Name      string
	Sex       Sex
	FatherID  *int  // nil when unknown
	MotherID  *int  // nil when unknown
	SpouseIDs []int // in record order, may contain duplicates before Build

	father       *Person
	mother       *Person
	spouses      []*Person
	children     []*Person
	siblings     []*Person
	halfSiblings []*Person
}

// IsMale reports whether the person is male.
func (p *Person) IsMale() bool { return p.Sex == Male }

// Father returns the resolved father, or nil if unknown.
func (p *Person) Father() *Person { return p.father }

// Mother returns the resolved mother, or nil if unknown.
func (p *Person) Mother() *Person { return p.mother }

// Parents returns the resolved parent pair, father first.
func (p *Person) Parents() ParentPair { return ParentPair{Father: p.father, Mother: p.mother} }

// Spouses returns the resolved spouses in record order.
func (p *Person) Spouses() []*Person { return p.spouses }

// Children returns every person naming p as father or mother, in roster order.
func (p *Person) Children() []*Person { return p.children }

// Siblings returns the persons sharing both known parents with p.
func (p *Person) Siblings() []*Person { return p.siblings }

// HalfSiblings returns the persons sharing exactly one known parent with p.
func (p *Person) HalfSiblings() []*Person { return p.halfSiblings }

// IsSpouseOf reports whether other appears among p's resolved spouses.
func (p *Person) IsSpouseOf(other *Person) bool {
	return slices.Contains(p.spouses, other)
}

// ParentPair is a person's resolved parents. Either slot may be nil.
type ParentPair struct {
	Father *Person
	Mother *Person
}

// Empty reports whether neither parent is known.
func (pp ParentPair) Empty() bool { return pp.Father == nil && pp.Mother == nil }

// Complete reports whether both parents are known.
func (pp ParentPair) Complete() bool { return pp.Father != nil && pp.Mother != nil }

// First returns the first resolved parent: the father if known, otherwise
// the mother. It returns nil for an empty pair.
func (pp ParentPair) First() *Person {
	if pp.Father != nil {
		return pp.Father
	}
	return pp.Mother
}

// sharedSlots counts the parent slots that are known on both sides and refer
// to the same person.
func (pp ParentPair) sharedSlots(other ParentPair) int {
	n := 0
	if pp.Father != nil && pp.Father == other.Father {
		n++
	}
	if pp.Mother != nil && pp.Mother == other.Mother {
		n++
	}
	return n
}

// Couple is a married pair ordered male first. For a same-sex pair the lower
// id comes first.
type Couple struct {
	First  *Person
	Second *Person
}

// NewCouple orders a and b male first.
func NewCouple(a, b *Person) Couple {
	if a.Sex != b.Sex {
		if a.IsMale() {
			return Couple{First: a, Second: b}
		}
		return Couple{First: b, Second: a}
	}
	if a.ID <= b.ID {
		return Couple{First: a, Second: b}
	}
	return Couple{First: b, Second: a}
}

// Has reports whether p is one of the two partners.
func (c Couple) Has(p *Person) bool { return c.First == p || c.Second == p }

// lowHigh returns the couple's member ids in ascending order.
func (c Couple) lowHigh() (int, int) {
	if c.First.ID < c.Second.ID {
		return c.First.ID, c.Second.ID
	}
	return c.Second.ID, c.First.ID
}
