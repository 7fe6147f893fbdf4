package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/trtpd/trtpd/internal/cli/output"
	"github.com/trtpd/trtpd/internal/cli/prompt"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Account management",
	Long: `Manage TRTP accounts on the server.

Examples:
  # List all accounts
  trtpctl account list

  # Create an account
  trtpctl account create --login alice --access-mask 0xffffffff

  # Show one account
  trtpctl account get alice

  # Change an account's access mask
  trtpctl account update alice --access-mask 0x3

  # Delete an account
  trtpctl account delete alice`,
}

func init() {
	accountCmd.AddCommand(accountListCmd)
	accountCmd.AddCommand(accountCreateCmd)
	accountCmd.AddCommand(accountGetCmd)
	accountCmd.AddCommand(accountUpdateCmd)
	accountCmd.AddCommand(accountDeleteCmd)
}

// accountResponse mirrors pkg/adminapi's accountResponse.
type accountResponse struct {
	ID         string `json:"id"`
	Login      string `json:"login"`
	Name       string `json:"name"`
	AccessMask uint64 `json:"access_mask"`
}

func (a accountResponse) row() []string {
	return []string{a.ID, a.Login, a.Name, fmt.Sprintf("0x%x", a.AccessMask)}
}

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		var accounts []accountResponse
		if err := newClient().get("/api/v1/accounts", &accounts); err != nil {
			return err
		}

		format, err := output.ParseFormat(flagOutput)
		if err != nil {
			return err
		}
		switch format {
		case output.FormatJSON:
			return output.PrintJSON(os.Stdout, accounts)
		case output.FormatYAML:
			return output.PrintYAML(os.Stdout, accounts)
		default:
			table := output.NewTableData("ID", "LOGIN", "NAME", "ACCESS MASK")
			for _, a := range accounts {
				table.AddRow(a.row()...)
			}
			return output.PrintTable(os.Stdout, table)
		}
	},
}

var accountGetCmd = &cobra.Command{
	Use:   "get <login>",
	Short: "Show one account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var account accountResponse
		if err := newClient().get("/api/v1/accounts/"+args[0], &account); err != nil {
			return err
		}
		return output.SimpleTable(os.Stdout, [][2]string{
			{"ID", account.ID},
			{"Login", account.Login},
			{"Name", account.Name},
			{"Access mask", fmt.Sprintf("0x%x", account.AccessMask)},
		})
	},
}

var (
	accountCreateLogin      string
	accountCreateName       string
	accountCreateAccessMask string
)

var accountCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		login := accountCreateLogin
		if login == "" {
			var err error
			login, err = prompt.InputRequired("Login")
			if err != nil {
				return err
			}
		}
		password, err := prompt.PasswordWithConfirmation("Password", "Confirm password", 1)
		if err != nil {
			return err
		}
		mask, err := parseAccessMask(accountCreateAccessMask)
		if err != nil {
			return err
		}

		req := map[string]any{
			"login":       login,
			"password":    password,
			"name":        accountCreateName,
			"access_mask": mask,
		}
		var account accountResponse
		if err := newClient().post("/api/v1/accounts", req, &account); err != nil {
			return err
		}
		fmt.Printf("Account %q created.\n", account.Login)
		return nil
	},
}

func init() {
	accountCreateCmd.Flags().StringVar(&accountCreateLogin, "login", "", "Account login")
	accountCreateCmd.Flags().StringVar(&accountCreateName, "name", "", "Display name")
	accountCreateCmd.Flags().StringVar(&accountCreateAccessMask, "access-mask", "0", "Access mask (decimal or 0x-prefixed hex)")
}

var (
	accountUpdatePassword bool
	accountUpdateAccess   string
)

var accountUpdateCmd = &cobra.Command{
	Use:   "update <login>",
	Short: "Update an account's password or access mask",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := map[string]any{}

		if accountUpdatePassword {
			password, err := prompt.PasswordWithConfirmation("New password", "Confirm new password", 1)
			if err != nil {
				return err
			}
			req["password"] = password
		}
		if accountUpdateAccess != "" {
			mask, err := parseAccessMask(accountUpdateAccess)
			if err != nil {
				return err
			}
			req["access_mask"] = mask
		}

		var account accountResponse
		if err := newClient().put("/api/v1/accounts/"+args[0], req, &account); err != nil {
			return err
		}
		fmt.Printf("Account %q updated.\n", account.Login)
		return nil
	},
}

func init() {
	accountUpdateCmd.Flags().BoolVar(&accountUpdatePassword, "password", false, "Prompt for a new password")
	accountUpdateCmd.Flags().StringVar(&accountUpdateAccess, "access-mask", "", "New access mask (decimal or 0x-prefixed hex)")
}

var accountDeleteCmd = &cobra.Command{
	Use:   "delete <login>",
	Short: "Delete an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ok, err := prompt.ConfirmDanger(fmt.Sprintf("Delete account %q", args[0]), args[0])
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
		if err := newClient().delete("/api/v1/accounts/" + args[0]); err != nil {
			return err
		}
		fmt.Printf("Account %q deleted.\n", args[0])
		return nil
	},
}

func parseAccessMask(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	mask, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid access mask %q: %w", s, err)
	}
	return mask, nil
}
