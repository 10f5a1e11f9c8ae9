package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/observability"
)

// Parse decodes rows into persons.
func Parse(ctx context.Context, rows []family.Row) ([]*family.Person, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, len(rows))
	start := time.Now()

	persons, err := family.ParseRecords(rows)
	hooks.OnParseComplete(ctx, len(persons), time.Since(start), err)
	return persons, err
}

// Build resolves persons into a validated family graph.
func Build(ctx context.Context, persons []*family.Person) (*family.Family, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, len(persons))
	start := time.Now()

	f, err := family.Build(persons)
	n := 0
	if f != nil {
		n = f.Len()
	}
	hooks.OnBuildComplete(ctx, n, time.Since(start), err)
	return f, err
}
