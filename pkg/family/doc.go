// Package family resolves flat person records into a consistent family graph.
//
// # Overview
//
// Input rows carry raw identifiers: a person's own id, optional father and
// mother ids and an ordered list of spouse ids. This package turns them into
// [Person] values whose relationships are object references, derives the
// implied relationships (children, full siblings, half-siblings) and groups
// persons into households for diagramming.
//
// # Building
//
// Parse rows with [ParseRecords], then resolve them with [Build]:
//
//	persons, err := family.ParseRecords(rows)
//	if err != nil {
//	    return err // *family.ParseError
//	}
//	f, err := family.Build(persons)
//	if err != nil {
//	    return err // *family.ConsistencyError
//	}
//
// [Build] runs two passes. The first resolves parent and spouse ids into
// references. The second derives children and siblings, which needs every
// person's parents resolved first. The result is validated before it is
// returned; a family that fails validation is never handed out.
//
// # Validation
//
// A built family guarantees:
//
//   - person ids are unique and every referenced id exists
//   - a father is male and a mother is female
//   - spouse links are symmetric
//   - both parents of a person, when known, belong to the same household
//
// # Households
//
// A household is a connected component of the married-to relation. Serial
// or multiple marriages form one household, so a person married twice is
// drawn as one box holding both marriages. [Resolver] computes households
// with an explicit stack traversal and gives each one a canonical key built
// from its sorted member ids:
//
//	r := family.NewResolver(f)
//	h := r.Of(p)
//	fmt.Println(h.Key) // node-1-2-5
//
// Wherever a couple or a parent pair is materialized as an ordered pair, the
// male member comes first.
package family
