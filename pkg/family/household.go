package family

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

// KeyPrefix starts every household key.
const KeyPrefix = "node"

// Kind classifies a household for rendering.
type Kind int

const (
	// KindSingle is a lone, unmarried person.
	KindSingle Kind = iota
	// KindCouple is exactly two persons married to each other.
	KindCouple
	// KindMultiCouple is a chain of marriages with two or more couples.
	KindMultiCouple
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindCouple:
		return "couple"
	case KindMultiCouple:
		return "multi-couple"
	default:
		return "single"
	}
}

// Household is a connected component of the married-to relation.
type Household struct {
	// Key is derived from the ascending member ids, e.g. "node-3-7-9".
	// It is the same whichever member the household was reached from.
	Key string
	// Members are sorted by ascending id.
	Members []*Person
	// Couples are the distinct marriages inside the household, each ordered
	// male first, sorted by the lower member id and then the higher one.
	Couples []Couple
}

// Kind classifies the household by its size and couple count.
func (h *Household) Kind() Kind {
	switch {
	case len(h.Members) <= 1:
		return KindSingle
	case len(h.Members) == 2 && len(h.Couples) == 1:
		return KindCouple
	default:
		return KindMultiCouple
	}
}

// CoupleOf returns the couple formed by a and b, if they are married to each
// other within this household.
func (h *Household) CoupleOf(a, b *Person) (Couple, bool) {
	for _, c := range h.Couples {
		if c.Has(a) && c.Has(b) && a != b {
			return c, true
		}
	}
	return Couple{}, false
}

// HouseholdKey builds the canonical key for a set of member ids. The ids do
// not need to be sorted.
func HouseholdKey(ids []int) string {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	parts := make([]string, 0, len(sorted)+1)
	parts = append(parts, KeyPrefix)
	for _, id := range sorted {
		parts = append(parts, strconv.Itoa(id))
	}
	return strings.Join(parts, "-")
}

// Resolver groups the persons of a family into households. Results are
// memoized per resolver, so a fresh resolver sees no state from earlier runs.
// A Resolver is not safe for concurrent use.
type Resolver struct {
	family   *Family
	spouses  map[int][]int
	resolved map[int]*Household
}

// NewResolver creates a resolver over f.
func NewResolver(f *Family) *Resolver {
	adj := make(map[int][]int, f.Len())
	for _, p := range f.persons {
		ids := make([]int, len(p.spouses))
		for i, s := range p.spouses {
			ids[i] = s.ID
		}
		adj[p.ID] = ids
	}
	return &Resolver{
		family:   f,
		spouses:  adj,
		resolved: make(map[int]*Household),
	}
}

// Of returns the household containing p.
func (r *Resolver) Of(p *Person) *Household {
	if h, ok := r.resolved[p.ID]; ok {
		return h
	}
	h := r.discover(p.ID)
	for _, m := range h.Members {
		r.resolved[m.ID] = h
	}
	return h
}

// Partition returns every household of the family, ordered by the roster
// position of the first member reached. Each person belongs to exactly one.
func (r *Resolver) Partition() []*Household {
	var out []*Household
	seen := make(map[string]bool)
	for _, p := range r.family.persons {
		h := r.Of(p)
		if seen[h.Key] {
			continue
		}
		seen[h.Key] = true
		out = append(out, h)
	}
	return out
}

type pairKey struct{ lo, hi int }

// discover walks the spouse relation from start with an explicit stack.
// The visited set bounds the walk even when spouse data loops back on
// itself; the pair set records each marriage once whichever side it is
// reached from.
func (r *Resolver) discover(start int) *Household {
	visited := map[int]bool{start: true}
	pairs := make(map[pairKey]bool)
	ids := []int{start}
	var couples []Couple

	stack := []int{start}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, sid := range r.spouses[id] {
			k := pairKey{min(id, sid), max(id, sid)}
			if !pairs[k] {
				pairs[k] = true
				a, _ := r.family.Person(id)
				b, _ := r.family.Person(sid)
				couples = append(couples, NewCouple(a, b))
			}
			if visited[sid] {
				continue
			}
			visited[sid] = true
			ids = append(ids, sid)
			stack = append(stack, sid)
		}
	}

	slices.Sort(ids)
	members := make([]*Person, len(ids))
	for i, id := range ids {
		members[i], _ = r.family.Person(id)
	}
	slices.SortFunc(couples, func(a, b Couple) int {
		alo, ahi := a.lowHigh()
		blo, bhi := b.lowHigh()
		return cmp.Or(cmp.Compare(alo, blo), cmp.Compare(ahi, bhi))
	})

	return &Household{
		Key:     HouseholdKey(ids),
		Members: members,
		Couples: couples,
	}
}
