package family

import "fmt"

func (f *Family) validate() error {
	for _, p := range f.persons {
		if err := checkParentSex(p); err != nil {
			return err
		}
		if err := checkSpouseSymmetry(p); err != nil {
			return err
		}
	}

	r := NewResolver(f)
	for _, p := range f.persons {
		pp := p.Parents()
		if !pp.Complete() {
			continue
		}
		if r.Of(pp.Father).Key != r.Of(pp.Mother).Key {
			return inconsistent(RelationHousehold,
				fmt.Sprintf("father %d and mother %d are not connected by marriage", pp.Father.ID, pp.Mother.ID),
				p.ID, pp.Father.ID, pp.Mother.ID)
		}
	}
	return nil
}

func checkParentSex(p *Person) error {
	if p.father != nil && !p.father.IsMale() {
		return inconsistent(RelationFather,
			fmt.Sprintf("father %d is recorded as female", p.father.ID), p.ID, p.father.ID)
	}
	if p.mother != nil && p.mother.IsMale() {
		return inconsistent(RelationMother,
			fmt.Sprintf("mother %d is recorded as male", p.mother.ID), p.ID, p.mother.ID)
	}
	return nil
}

func checkSpouseSymmetry(p *Person) error {
	for _, s := range p.spouses {
		if !s.IsSpouseOf(p) {
			return inconsistent(RelationSpouse,
				fmt.Sprintf("%d lists %d as spouse but not the other way round", p.ID, s.ID), p.ID, s.ID)
		}
	}
	return nil
}
