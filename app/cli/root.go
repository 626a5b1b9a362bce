// Package cli implements portalctl, the operator CLI for the portal API
package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"portal-service/app/cli/output"
	"portal-service/app/client"
	"portal-service/app/utils/logger"
)

type app struct {
	v         *viper.Viper
	cfgFile   string
	colorMode string
	verbose   bool
	quiet     bool

	cfg     *Config
	logger  *slog.Logger
	printer *output.Printer
	tokens  client.TokenStore
	client  *client.Client
}

// NewRootCommand builds the portalctl command tree
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "portalctl",
		Short: "Operator CLI for the portal dashboard backend",
		Long: `portalctl talks to the portal API on behalf of a signed-in session.

The session token is kept in ~/.config/portalctl/session.yaml unless
session.file is configured.

Example usage:
  portalctl seed                          # Provision the demo roster
  portalctl roster                        # Show the demo roster
  portalctl login --email admin@portal.gov.in
  portalctl whoami                        # Show the signed-in profile
  portalctl logout`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is .portalctl.yaml)")
	flags.String("server", "", "portal API base URL")
	flags.String("session-file", "", "where the session token is stored")
	flags.StringVar(&a.colorMode, "color", "auto", "color output: auto, always, or never")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "suppress informational output")

	_ = a.v.BindPFlag("server.url", flags.Lookup("server"))
	_ = a.v.BindPFlag("session.file", flags.Lookup("session-file"))

	rootCmd.AddCommand(
		newSeedCommand(a),
		newRosterCommand(a),
		newLoginCommand(a),
		newSignupCommand(a),
		newLogoutCommand(a),
		newWhoAmICommand(a),
	)

	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	mode, err := output.ParseColorMode(a.colorMode)
	if err != nil {
		return &output.CLIError{Summary: err.Error(), ExitCode: output.ExitUsageError}
	}

	cfg, err := LoadConfig(a.v, a.cfgFile)
	if err != nil {
		return &output.CLIError{
			Summary:    "could not load configuration",
			Detail:     err.Error(),
			Suggestion: "Check .portalctl.yaml and PORTALCTL_* variables",
			ExitCode:   output.ExitConfigError,
		}
	}
	a.cfg = cfg

	level := cfg.Logging.Level
	if a.verbose {
		level = "debug"
	}
	a.logger, err = logger.NewWithWriter(level, cmd.ErrOrStderr())
	if err != nil {
		return &output.CLIError{Summary: err.Error(), ExitCode: output.ExitConfigError}
	}

	a.printer = output.NewPrinter(output.PrinterOptions{
		Out:          cmd.OutOrStdout(),
		Err:          cmd.ErrOrStderr(),
		ColorMode:    mode,
		ConfigColors: cfg.Output.Colors,
		Quiet:        a.quiet,
	})

	a.tokens = client.NewFileTokenStore(cfg.Session.File)
	a.client, err = client.New(client.Config{
		BaseURL: cfg.Server.URL,
		Timeout: cfg.Timeout,
		Logger:  a.logger,
	}, a.tokens)
	if err != nil {
		return &output.CLIError{Summary: "invalid server configuration", Detail: err.Error(), ExitCode: output.ExitConfigError}
	}

	a.logger.Debug("configuration loaded",
		"server", cfg.Server.URL,
		"session_file", cfg.Session.File)
	return nil
}

func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.cfg.Timeout)
}

// Execute runs portalctl with args and returns the process exit code
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return output.ExitSuccess
	}

	var cliErr *output.CLIError
	if !errors.As(err, &cliErr) {
		cliErr = &output.CLIError{Summary: err.Error(), ExitCode: output.ExitGeneral}
	}

	output.NewPrinter(output.PrinterOptions{Out: stdout, Err: stderr, ColorMode: output.ColorNever}).FormatError(cliErr)
	return cliErr.ExitCode
}

// requestError turns a client failure into a CLIError with a hint
func requestError(summary string, err error) *output.CLIError {
	cliErr := &output.CLIError{
		Summary:  summary,
		Detail:   err.Error(),
		ExitCode: output.ExitGeneral,
	}

	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrNoSession):
		cliErr.ExitCode = output.ExitAuthError
		cliErr.Suggestion = "Run 'portalctl login' first"
	case errors.As(err, &apiErr):
		switch {
		case apiErr.Status == http.StatusUnauthorized:
			cliErr.ExitCode = output.ExitAuthError
			cliErr.Suggestion = "Check the email and password, or run 'portalctl login' again"
		case apiErr.Code == "CONFIG_ERROR":
			cliErr.ExitCode = output.ExitConfigError
			cliErr.Suggestion = "Set KRATOS_ADMIN_URL and KRATOS_ADMIN_TOKEN on the server"
		}
	default:
		cliErr.Suggestion = "Is the portal API reachable? Check server.url or --server"
	}
	return cliErr
}
