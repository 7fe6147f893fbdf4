package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var broadcastCmd = &cobra.Command{
	Use:   "broadcast <message>",
	Short: "Send a server-wide broadcast message",
	Long: `Send a message every connected session receives as a server
announcement.

Examples:
  trtpctl broadcast "Server restarting in 5 minutes"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := map[string]any{"message": strings.Join(args, " ")}
		if err := newClient().post("/api/v1/broadcast", req, nil); err != nil {
			return err
		}
		fmt.Println("Broadcast sent.")
		return nil
	},
}
