package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"portal-service/app/cli/output"
	"portal-service/app/domain"
)

func newSeedCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Provision the demo roster on the portal API",
		Long: `Create every demo account with the default password and assign its role.

Seeding is idempotent: existing accounts are reused and roles that are
already assigned count as assigned. The command exits non-zero when any
roster entry did not end with its role assigned.

Examples:
  portalctl seed
  portalctl seed --server https://portal.example.gov`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSeed(cmd)
		},
	}
}

func (a *app) runSeed(cmd *cobra.Command) error {
	ctx, cancel := a.context(cmd)
	defer cancel()

	a.printer.Header("Seeding Demo Accounts")
	a.printer.Info("Server: %s", a.printer.Bold(a.cfg.Server.URL))

	results, err := a.client.Seed(ctx)
	if err != nil {
		return requestError("seeding failed", err)
	}

	table := output.NewTable(a.printer.Out(), []string{"Email", "Created", "Role Assigned", "Status", "Error"})
	for _, res := range results {
		table.AddRow(res.Email, a.printer.YesNo(res.Created), a.printer.YesNo(res.RoleAssigned), a.printer.SeedStatus(res.Status), res.Error)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering results: %w", err)
	}

	report := domain.SeedReport{OK: true, Results: results}
	failed := report.Failed()
	if len(failed) == 0 {
		a.printer.Success("%d demo accounts ready", len(results))
		return nil
	}

	return &output.CLIError{
		Summary:    fmt.Sprintf("%d of %d roster entries are not fully provisioned", len(failed), len(results)),
		Detail:     failed[0].Email + ": " + describeFailure(failed[0]),
		Suggestion: "Seeding is safe to re-run once the identity service and database are healthy",
		ExitCode:   output.ExitSeedFailures,
	}
}

func describeFailure(res domain.SeedResult) string {
	if res.Error != "" {
		return res.Error
	}
	if res.Status == domain.SeedStatusOK && !res.RoleAssigned {
		return "role was not assigned"
	}
	return string(res.Status)
}
