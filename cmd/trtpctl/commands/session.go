package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trtpd/trtpd/internal/cli/output"
	"github.com/trtpd/trtpd/internal/cli/prompt"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Connected session management",
	Long: `List and disconnect sessions currently connected to the server.

Examples:
  trtpctl session list
  trtpctl session kick 42`,
}

func init() {
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionKickCmd)
}

// sessionResponse mirrors pkg/adminapi's sessionResponse.
type sessionResponse struct {
	UserID        uint16 `json:"user_id"`
	Nickname      string `json:"nickname"`
	Address       string `json:"address"`
	Authenticated bool   `json:"authenticated"`
	Guest         bool   `json:"guest"`
	ConnectedAt   string `json:"connected_at"`
	LastActivity  string `json:"last_activity"`
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List connected sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		var sessions []sessionResponse
		if err := newClient().get("/api/v1/sessions", &sessions); err != nil {
			return err
		}

		format, err := output.ParseFormat(flagOutput)
		if err != nil {
			return err
		}
		switch format {
		case output.FormatJSON:
			return output.PrintJSON(os.Stdout, sessions)
		case output.FormatYAML:
			return output.PrintYAML(os.Stdout, sessions)
		default:
			table := output.NewTableData("USER ID", "NICKNAME", "ADDRESS", "AUTH", "GUEST", "CONNECTED")
			for _, s := range sessions {
				table.AddRow(
					fmt.Sprintf("%d", s.UserID),
					s.Nickname,
					s.Address,
					fmt.Sprintf("%t", s.Authenticated),
					fmt.Sprintf("%t", s.Guest),
					s.ConnectedAt,
				)
			}
			return output.PrintTable(os.Stdout, table)
		}
	},
}

var sessionKickForce bool

var sessionKickCmd = &cobra.Command{
	Use:   "kick <user-id>",
	Short: "Disconnect a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !sessionKickForce {
			ok, err := prompt.Confirm(fmt.Sprintf("Disconnect session %s", args[0]), false)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Aborted.")
				return nil
			}
		}
		if err := newClient().delete("/api/v1/sessions/" + args[0]); err != nil {
			return err
		}
		fmt.Printf("Session %s disconnected.\n", args[0])
		return nil
	},
}

func init() {
	sessionKickCmd.Flags().BoolVarP(&sessionKickForce, "force", "f", false, "Skip confirmation prompt")
}
