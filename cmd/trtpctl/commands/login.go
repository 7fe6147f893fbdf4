package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/trtpd/trtpd/internal/cli/prompt"
)

var loginUsername string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against a trtpd admin API and save the token",
	Long: `Log in to a trtpd server's admin API and cache the resulting bearer
token so subsequent commands don't need --token.

Examples:
  trtpctl login --server http://localhost:8089 --username admin`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginUsername, "username", "admin", "Operator username")
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

func runLogin(cmd *cobra.Command, args []string) error {
	password, err := prompt.Password("Operator password")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	client := newAPIClient(serverURL(), "")
	var resp loginResponse
	if err := client.post("/api/v1/auth/login", loginRequest{Username: loginUsername, Password: password}, &resp); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := saveToken(resp.AccessToken); err != nil {
		return fmt.Errorf("save token: %w", err)
	}

	fmt.Println("Logged in. Token cached for future commands.")
	return nil
}

// credentialPath returns the path trtpctl caches its bearer token at.
func credentialPath() string {
	return filepath.Join(credentialDir(), "token")
}

func credentialDir() string {
	if runtime.GOOS == "windows" {
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, "trtpctl")
		}
	}
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "trtpctl")
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "trtpctl")
}

func saveToken(token string) error {
	dir := credentialDir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	return os.WriteFile(credentialPath(), []byte(token), 0600)
}

func loadSavedToken() (string, error) {
	data, err := os.ReadFile(credentialPath())
	if err != nil {
		return "", err
	}
	return string(data), nil
}
