package cli

import (
	"github.com/spf13/cobra"

	"portal-service/app/cli/output"
	"portal-service/app/domain"
)

func newRosterCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "roster",
		Short: "List the demo accounts that seeding provisions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := output.NewTable(a.printer.Out(), []string{"Email", "Name", "Role", "Designation", "Department"})
			for _, spec := range domain.Roster() {
				table.AddRow(spec.Email, spec.Name, spec.Role.String(), spec.Designation, spec.Department)
			}
			if err := table.Render(); err != nil {
				return err
			}

			a.printer.Info("Default password: %s", a.printer.Bold(domain.DemoDefaultPassword))
			return nil
		},
	}
}
