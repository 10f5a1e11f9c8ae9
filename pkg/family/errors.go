package family

import (
	"fmt"
	"strconv"
	"strings"

	ferrors "github.com/matzehuels/familytree/pkg/errors"
)

// ParseError reports a row that is missing its id or holds a value that
// cannot be read as an integer.
type ParseError struct {
	Line  int    // 1-based row number, 0 when unknown
	Field string // column name
	Value string // offending raw value, empty when the field is missing
	Err   error  // underlying conversion error, if any
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("parse")
	if e.Line > 0 {
		fmt.Fprintf(&b, " row %d", e.Line)
	}
	if e.Value == "" {
		fmt.Fprintf(&b, ": missing %s", e.Field)
	} else {
		fmt.Fprintf(&b, ": %s %q is not an integer", e.Field, e.Value)
	}
	return b.String()
}

// Unwrap returns the underlying conversion error.
func (e *ParseError) Unwrap() error { return e.Err }

// Code returns the error code for this error type.
func (e *ParseError) Code() ferrors.Code { return ferrors.ErrCodeParse }

// Relation names the rule a [ConsistencyError] reports on.
type Relation string

const (
	RelationID        Relation = "id"
	RelationFather    Relation = "father"
	RelationMother    Relation = "mother"
	RelationSpouse    Relation = "spouse"
	RelationHousehold Relation = "household"
)

// ConsistencyError reports a family that cannot be resolved into a valid
// graph. PersonIDs lists the offending person first, followed by the
// persons it references.
type ConsistencyError struct {
	Relation  Relation
	PersonIDs []int
	Detail    string
}

// Error implements the error interface.
func (e *ConsistencyError) Error() string {
	ids := make([]string, len(e.PersonIDs))
	for i, id := range e.PersonIDs {
		ids[i] = strconv.Itoa(id)
	}
	return fmt.Sprintf("inconsistent %s (persons %s): %s", e.Relation, strings.Join(ids, ", "), e.Detail)
}

// Code returns the error code for this error type.
func (e *ConsistencyError) Code() ferrors.Code { return ferrors.ErrCodeFamilyInconsistent }

func inconsistent(rel Relation, detail string, ids ...int) *ConsistencyError {
	return &ConsistencyError{Relation: rel, PersonIDs: ids, Detail: detail}
}
