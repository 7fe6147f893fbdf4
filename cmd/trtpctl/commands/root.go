// Package commands implements the CLI commands for trtpctl, the remote
// management client for trtpd's admin API.
package commands

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var (
	flagServer  string
	flagToken   string
	flagOutput  string
	flagNoColor bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "trtpctl",
	Short: "trtpctl - remote management client for trtpd",
	Long: `trtpctl manages a running trtpd server through its admin REST API:
account creation and editing, session listing and kicking, and server-wide
broadcast.

Use "trtpctl [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "Admin API base URL (default: $TRTPCTL_SERVER or http://localhost:8089)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "Bearer token (default: $TRTPCTL_TOKEN)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "table", "Output format (table|json|yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(broadcastCmd)
	rootCmd.AddCommand(completionCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// serverURL resolves the admin API base URL from the --server flag, the
// TRTPCTL_SERVER environment variable, or the default.
func serverURL() string {
	if flagServer != "" {
		return flagServer
	}
	if env := os.Getenv("TRTPCTL_SERVER"); env != "" {
		return env
	}
	return "http://localhost:8089"
}

// authToken resolves the bearer token from the --token flag, the
// TRTPCTL_TOKEN environment variable, or the saved credential file written
// by `trtpctl login`.
func authToken() string {
	if flagToken != "" {
		return flagToken
	}
	if env := os.Getenv("TRTPCTL_TOKEN"); env != "" {
		return env
	}
	token, _ := loadSavedToken()
	return token
}

// newClient builds an apiClient from the resolved server URL and token.
func newClient() *apiClient {
	return newAPIClient(serverURL(), authToken())
}

// PrintErr prints an error message to stderr.
func PrintErr(format string, args ...any) {
	rootCmd.PrintErrf(format+"\n", args...)
}

// Exit prints an error and exits with code 1.
func Exit(format string, args ...any) {
	PrintErr(format, args...)
	os.Exit(1)
}
