package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/familytree/pkg/pipeline"
)

// inspectCommand creates the inspect command, an interactive browser over a
// built family.
func (c *CLI) inspectCommand() *cobra.Command {
	var in inputFlags

	cmd := &cobra.Command{
		Use:   "inspect [file.csv]",
		Short: "Browse persons and their relatives interactively",
		Args:  cobra.MaximumNArgs(1),
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

			p := tea.NewProgram(NewPersonListModel(f), tea.WithAltScreen(), tea.WithContext(ctx))
			_, err = p.Run()
			return err
		},
	}

	addInputFlags(cmd, &in)

	return cmd
}
