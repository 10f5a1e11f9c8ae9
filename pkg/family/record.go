package family

import (
	"math"
	"strconv"
	"strings"
)

// Column names of a person record.
const (
	ColumnID       = "id"
	ColumnName     = "person_name"
	ColumnSex      = "sex"
	ColumnMotherID = "mother_id"
	ColumnFatherID = "father_id"

	// marriagePrefix is followed by 1, 2, 3, ... for each spouse column.
	marriagePrefix = "marriage_"
)

// Row is one raw input record keyed by column name.
type Row map[string]string

// MarriageColumn returns the name of the n-th spouse column (1-based).
func MarriageColumn(n int) string { return marriagePrefix + strconv.Itoa(n) }

// nullTokens are the cell values that mean "unknown", matched case-insensitively.
var nullTokens = map[string]bool{"": true, "nan": true, "null": true, "none": true, "na": true}

// ParseRecord converts one row into an unresolved [Person].
// line is the 1-based row number used in error messages; pass 0 if unknown.
//
// The id column is required. Parent and marriage columns are optional: an
// absent column, an empty cell or a null token means "unknown". Marriage
// columns are scanned from marriage_1 upwards until the first column that
// does not exist in the row. Duplicate and self-referencing spouse ids are
// kept as-is; [Build] deals with them.
func ParseRecord(row Row, line int) (*Person, error) {
	id, ok, err := optionalInt(row, ColumnID, line)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &ParseError{Line: line, Field: ColumnID}
	}

	p := &Person{
		ID:   id,
		Name: strings.TrimSpace(row[ColumnName]),
		Sex:  parseSex(row[ColumnSex]),
	}
	if p.FatherID, err = optionalIntPtr(row, ColumnFatherID, line); err != nil {
		return nil, err
	}
	if p.MotherID, err = optionalIntPtr(row, ColumnMotherID, line); err != nil {
		return nil, err
	}

	for n := 1; ; n++ {
		col := MarriageColumn(n)
		if _, exists := row[col]; !exists {
			break
		}
		spouse, ok, err := optionalInt(row, col, line)
		if err != nil {
			return nil, err
		}
		if ok {
			p.SpouseIDs = append(p.SpouseIDs, spouse)
		}
	}
	return p, nil
}

// ParseRecords parses a whole table. Rows are numbered from 1.
func ParseRecords(rows []Row) ([]*Person, error) {
	persons := make([]*Person, 0, len(rows))
	for i, row := range rows {
		p, err := ParseRecord(row, i+1)
		if err != nil {
			return nil, err
		}
		persons = append(persons, p)
	}
	return persons, nil
}

func parseSex(s string) Sex {
	if strings.TrimSpace(s) == "M" {
		return Male
	}
	return Female
}

func optionalIntPtr(row Row, col string, line int) (*int, error) {
	v, ok, err := optionalInt(row, col, line)
	if err != nil || !ok {
		return nil, err
	}
	return &v, nil
}

// optionalInt reads an integer-coercible cell. Whole-valued decimals such as
// "3.0" are accepted because spreadsheet exports often write ids that way.
// Both spellings share the int32 range.
func optionalInt(row Row, col string, line int) (int, bool, error) {
	raw := strings.TrimSpace(row[col])
	if nullTokens[strings.ToLower(raw)] {
		return 0, false, nil
	}
	if v, err := strconv.ParseInt(raw, 10, 32); err == nil {
		return int(v), true, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, &ParseError{Line: line, Field: col, Value: raw, Err: err}
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false, &ParseError{Line: line, Field: col, Value: raw}
	}
	return int(f), true, nil
}
