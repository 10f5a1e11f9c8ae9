package mongo

import (
	"context"
	"math"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/matzehuels/familytree/pkg/family"
)

func TestCellString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"null", primitive.Null{}, ""},
		{"string", "Ann", "Ann"},
		{"int32", int32(7), "7"},
		{"int64", int64(12), "12"},
		{"whole float", 3.0, "3"},
		{"fractional float", 3.5, "3.5"},
		{"nan", math.NaN(), ""},
		{"bool", true, "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cellString(tt.in)
			if err != nil {
				t.Fatalf("cellString: %v", err)
			}
			if got != tt.want {
				t.Errorf("cellString(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCellStringUnsupported(t *testing.T) {
	if _, err := cellString(bson.A{1}); err == nil {
		t.Error("expected error for array value")
	}
}

func TestToRowSkipsObjectID(t *testing.T) {
	row, err := toRow(bson.M{
		"_id":       primitive.NewObjectID(),
		"id":        int32(1),
		"sex":       "M",
		"father_id": nil,
	})
	if err != nil {
		t.Fatalf("toRow: %v", err)
	}
	if _, ok := row["_id"]; ok {
		t.Error("_id copied into row")
	}
	if row[family.ColumnID] != "1" || row[family.ColumnFatherID] != "" {
		t.Errorf("row = %v", row)
	}
}

func TestSourceRows(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("rows in cursor order", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		first := mtest.CreateCursorResponse(1, ns, mtest.FirstBatch,
			bson.D{{Key: "id", Value: int32(1)}, {Key: "person_name", Value: "Piero"}, {Key: "sex", Value: "M"}, {Key: "marriage_1", Value: int32(2)}},
			bson.D{{Key: "id", Value: int32(2)}, {Key: "person_name", Value: "Pina"}, {Key: "sex", Value: "F"}, {Key: "marriage_1", Value: int32(1)}},
		)
		last := mtest.CreateCursorResponse(0, ns, mtest.NextBatch)
		mt.AddMockResponses(first, last)

		rows, err := New(mt.Coll, "").Rows(context.Background())
		if err != nil {
			mt.Fatalf("Rows: %v", err)
		}
		if len(rows) != 2 {
			mt.Fatalf("rows = %d, want 2", len(rows))
		}

		persons, err := family.ParseRecords(rows)
		if err != nil {
			mt.Fatalf("ParseRecords: %v", err)
		}
		f, err := family.Build(persons)
		if err != nil {
			mt.Fatalf("Build: %v", err)
		}
		a, _ := f.Person(1)
		b, _ := f.Person(2)
		if !a.IsSpouseOf(b) {
			mt.Error("1 and 2 should be married")
		}
	})

	mt.Run("find error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "bad query",
		}))
		if _, err := New(mt.Coll, "id").Rows(context.Background()); err == nil {
			mt.Error("expected error")
		}
	})
}

func TestOpenRequiresConfig(t *testing.T) {
	if _, err := Open(context.Background(), Config{URI: "mongodb://localhost"}); err == nil {
		t.Error("expected error for missing database")
	}
}
