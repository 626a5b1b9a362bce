package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"portal-service/app/cli/output"
	"portal-service/app/client"
	"portal-service/app/domain"
	"portal-service/app/utils/validator"
)

// passwordEnv lets scripts avoid putting the password on the command line
const passwordEnv = "PORTALCTL_PASSWORD"

func newLoginCommand(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Long: `Sign in with an email and password. The password may also be supplied
through the ` + passwordEnv + ` environment variable.

Examples:
  portalctl login --email admin@portal.gov.in --password 'Portal@Demo2024'
  ` + passwordEnv + `=... portalctl login --email teacher@portal.gov.in`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password = a.resolvePassword(password)
			if email == "" || password == "" {
				return &output.CLIError{
					Summary:    "email and password are required",
					Suggestion: "Pass --email and --password, or set " + passwordEnv,
					ExitCode:   output.ExitUsageError,
				}
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			session, err := a.client.Login(ctx, email, password)
			if err != nil {
				return requestError("login failed", err)
			}

			a.printer.Success("Signed in as %s", a.printer.Bold(email))
			a.printProfile(session.User)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func newSignupCommand(a *app) *cobra.Command {
	var req domain.SignupRequest

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register a citizen account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Password = a.resolvePassword(req.Password)
			if req.Email == "" || req.Password == "" || req.Name == "" {
				return &output.CLIError{
					Summary:  "email, password and name are required",
					ExitCode: output.ExitUsageError,
				}
			}
			if !validator.IsValidEmail(req.Email) {
				return &output.CLIError{Summary: fmt.Sprintf("%q is not a valid email address", req.Email), ExitCode: output.ExitUsageError}
			}
			if !validator.IsValidPassword(req.Password) {
				return &output.CLIError{
					Summary:  "password is too weak",
					Detail:   "use at least 8 characters with upper and lower case letters, a number and a symbol",
					ExitCode: output.ExitUsageError,
				}
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			session, err := a.client.Signup(ctx, req)
			if err != nil {
				if errors.Is(err, domain.ErrAccountExists) {
					return &output.CLIError{
						Summary:    fmt.Sprintf("%s is already registered", req.Email),
						Suggestion: "Run 'portalctl login' instead",
						ExitCode:   output.ExitGeneral,
					}
				}
				return requestError("signup failed", err)
			}

			a.printer.Success("Registered %s", a.printer.Bold(req.Email))
			a.printProfile(session.User)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password")
	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	cmd.Flags().StringVar(&req.Designation, "designation", "", "job title")
	cmd.Flags().StringVar(&req.Department, "department", "", "department")
	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			if err := a.client.Logout(ctx); err != nil {
				return &output.CLIError{Summary: "could not clear the stored session", Detail: err.Error(), ExitCode: output.ExitGeneral}
			}
			a.printer.Success("Signed out")
			return nil
		},
	}
}

func newWhoAmICommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account, its roles and permissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			profile, err := a.client.RestoreSession(ctx)
			if err != nil {
				if errors.Is(err, client.ErrNoSession) {
					return &output.CLIError{
						Summary:    "not signed in",
						Detail:     err.Error(),
						Suggestion: "Run 'portalctl login' first",
						ExitCode:   output.ExitAuthError,
					}
				}
				return requestError("could not restore the session", err)
			}

			a.printProfile(profile)
			return nil
		},
	}
}

func (a *app) printProfile(p *domain.Profile) {
	if p == nil {
		return
	}

	roles := make([]string, 0, len(p.Roles))
	for _, r := range p.Roles {
		roles = append(roles, r.String())
	}
	permissions := make([]string, 0, len(p.Permissions))
	for _, perm := range p.Permissions {
		permissions = append(permissions, string(perm))
	}

	a.printer.Header("Profile")
	table := output.NewTable(a.printer.Out(), []string{"Field", "Value"})
	table.AddRow("Email", p.Email)
	table.AddRow("Name", p.Name)
	table.AddRow("Designation", p.Designation)
	table.AddRow("Department", p.Department)
	table.AddRow("Role", p.Role.String())
	table.AddRow("All Roles", strings.Join(roles, ", "))
	table.AddRow("Permissions", strings.Join(permissions, ", "))
	if err := table.Render(); err != nil {
		a.logger.Debug("failed to render profile", "error", err)
	}
}

// resolvePassword prefers the flag and falls back to PORTALCTL_PASSWORD
func (a *app) resolvePassword(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return strings.TrimSpace(a.v.GetString("password"))
}
