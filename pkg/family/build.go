package family

import "fmt"

// Family is a resolved and validated roster. It is the only owner of its
// persons and is never mutated after [Build] returns.
type Family struct {
	persons []*Person
	byID    map[int]*Person
}

// Build resolves the parsed persons into a family graph.
//
// Pass one resolves parent and spouse ids into references. Spouse ids keep
// their record order; a repeated id is dropped after its first occurrence.
// Pass two derives children, full siblings and half-siblings from the
// complete roster. The result is validated before it is returned.
//
// Build returns a *ConsistencyError naming the offending person ids when
// ids repeat, a reference points nowhere, a parent has the wrong sex, a
// marriage is recorded on one side only, or two parents do not share a
// household. The persons are left partially resolved in that case and must
// be discarded.
func Build(persons []*Person) (*Family, error) {
	f := &Family{
		persons: persons,
		byID:    make(map[int]*Person, len(persons)),
	}
	for _, p := range persons {
		if _, dup := f.byID[p.ID]; dup {
			return nil, inconsistent(RelationID, "id is not unique", p.ID)
		}
		f.byID[p.ID] = p
	}

	for _, p := range persons {
		if err := f.resolveLinks(p); err != nil {
			return nil, err
		}
	}
	for _, p := range persons {
		f.deriveRelatives(p)
	}

	if err := f.validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Persons returns the roster in input order.
func (f *Family) Persons() []*Person { return f.persons }

// Person returns the person with the given id.
func (f *Family) Person(id int) (*Person, bool) {
	p, ok := f.byID[id]
	return p, ok
}

// Len returns the number of persons.
func (f *Family) Len() int { return len(f.persons) }

func (f *Family) resolveLinks(p *Person) error {
	var err error
	if p.father, err = f.lookupParent(p, p.FatherID, RelationFather); err != nil {
		return err
	}
	if p.mother, err = f.lookupParent(p, p.MotherID, RelationMother); err != nil {
		return err
	}

	p.spouses = make([]*Person, 0, len(p.SpouseIDs))
	seen := make(map[int]bool, len(p.SpouseIDs))
	for _, id := range p.SpouseIDs {
		if id == p.ID {
			return inconsistent(RelationSpouse, "person is listed as their own spouse", p.ID)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		s, ok := f.byID[id]
		if !ok {
			return inconsistent(RelationSpouse, fmt.Sprintf("spouse %d does not exist", id), p.ID, id)
		}
		p.spouses = append(p.spouses, s)
	}
	return nil
}

func (f *Family) lookupParent(p *Person, id *int, rel Relation) (*Person, error) {
	if id == nil {
		return nil, nil
	}
	if *id == p.ID {
		return nil, inconsistent(rel, "person is listed as their own parent", p.ID)
	}
	parent, ok := f.byID[*id]
	if !ok {
		return nil, inconsistent(rel, fmt.Sprintf("%s %d does not exist", rel, *id), p.ID, *id)
	}
	return parent, nil
}

// deriveRelatives scans the full roster. It requires resolveLinks to have
// run for every person.
func (f *Family) deriveRelatives(p *Person) {
	p.children, p.siblings, p.halfSiblings = nil, nil, nil
	mine := p.Parents()
	for _, other := range f.persons {
		if other.father == p || other.mother == p {
			p.children = append(p.children, other)
		}
		if other == p {
			continue
		}
		theirs := other.Parents()
		switch {
		case mine.Complete() && theirs.Complete() && mine == theirs:
			p.siblings = append(p.siblings, other)
		case mine.sharedSlots(theirs) == 1:
			p.halfSiblings = append(p.halfSiblings, other)
		}
	}
}
