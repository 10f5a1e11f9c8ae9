package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/pipeline"
)

// familySummary holds the counts the check command reports.
type familySummary struct {
	Persons      int
	Households   int
	Couples      int
	MultiCouple  int
	Edges        int
	WithoutLinks int // persons with no parent, spouse or child
}

// summarize counts households, couples and parent edges of a built family.
// Edges match what the diagram assembler would emit: one per person with at
// least one known parent.
func summarize(f *family.Family) familySummary {
	s := familySummary{Persons: f.Len()}
	for _, h := range family.NewResolver(f).Partition() {
		s.Households++
		s.Couples += len(h.Couples)
		if h.Kind() == family.KindMultiCouple {
			s.MultiCouple++
		}
	}
	for _, p := range f.Persons() {
		if !p.Parents().Empty() {
			s.Edges++
		} else if len(p.Spouses()) == 0 && len(p.Children()) == 0 {
			s.WithoutLinks++
		}
	}
	return s
}

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	var (
		in         inputFlags
		households bool
	)

	cmd := &cobra.Command{
		Use:   "check [file.csv]",
		Short: "Validate a person table and print family statistics",
		Long: `Parse and build the family without rendering anything.

The command fails with the first parse or consistency error, for example
a father recorded as female, a one-sided marriage, or parents who are not
married to each other.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rows, err := c.loadRows(ctx, args, in)
			if err != nil {
				return err
			}

			f, err := pipeline.NewRunner(nil, nil, c.Logger).Build(ctx, rows)
			if err != nil {
				return err
			}

			s := summarize(f)
			printSuccess("Family is consistent")
			printKeyValue("Persons", strconv.Itoa(s.Persons))
			printKeyValue("Households", strconv.Itoa(s.Households))
			printKeyValue("Couples", strconv.Itoa(s.Couples))
			printKeyValue("Multi-couple", strconv.Itoa(s.MultiCouple))
			printKeyValue("Edges", strconv.Itoa(s.Edges))
			if s.WithoutLinks > 0 {
				printWarning("%d persons have no parents, spouses or children", s.WithoutLinks)
			}

			if households {
				printNewline()
				for _, h := range family.NewResolver(f).Partition() {
					printDetail("%s", householdLine(h))
				}
			}
			return nil
		},
	}

	addInputFlags(cmd, &in)
	cmd.Flags().BoolVar(&households, "households", false, "list every household")

	return cmd
}

// householdLine formats a household as "<key> (<kind>): Name, Name".
func householdLine(h *family.Household) string {
	names := make([]string, len(h.Members))
	for i, m := range h.Members {
		names[i] = m.Name
	}
	return fmt.Sprintf("%s (%s): %s", h.Key, h.Kind(), strings.Join(names, ", "))
}
