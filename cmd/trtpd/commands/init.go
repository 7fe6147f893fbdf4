package commands

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trtpd/trtpd/pkg/adminapi/auth"
	"github.com/trtpd/trtpd/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a sample configuration file",
	Long: `Initialize a sample trtpd configuration file.

By default, the configuration file is created at $XDG_CONFIG_HOME/trtpd/config.yaml.
Use --config to specify a custom path.

A random JWT secret and a random operator password are generated; the JWT
secret and the bcrypt hash of the operator password are written into the
file. The operator password itself is printed once and is not recoverable
afterward.

Examples:
  # Initialize with default location
  trtpd init

  # Initialize with custom path
  trtpd init --config /etc/trtpd/config.yaml

  # Force overwrite existing config
  trtpd init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()

	var configPath string
	var err error

	if configFile != "" {
		err = config.InitConfigToPath(configFile, initForce)
		configPath = configFile
	} else {
		configPath, err = config.InitConfig(initForce)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	operatorPassword, err := randomPassword(20)
	if err != nil {
		return fmt.Errorf("failed to generate operator password: %w", err)
	}
	passwordHash, err := auth.HashPassword(operatorPassword)
	if err != nil {
		return fmt.Errorf("failed to hash operator password: %w", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}
	cfg.AdminAPI.OperatorPasswordHash = passwordHash
	if err := config.SaveConfig(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save operator credentials: %w", err)
	}

	fmt.Printf("Configuration file created at: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit the configuration file to customize your setup")
	fmt.Println("  2. Start the server with: trtpd start")
	fmt.Printf("  3. Or specify custom config: trtpd start --config %s\n", configPath)
	fmt.Println("\nAdmin API operator credentials:")
	fmt.Printf("  Username: %s\n", cfg.AdminAPI.OperatorUsername)
	fmt.Printf("  Password: %s\n", operatorPassword)
	fmt.Println("  This password is not stored; save it now, it will not be shown again.")
	fmt.Println("\nSecurity note:")
	fmt.Println("  A random JWT secret has been generated for development use.")
	fmt.Println("  For production, generate a secure secret and use an environment variable:")
	fmt.Printf("    export %s=$(openssl rand -hex 32)\n", config.EnvJWTSecret)

	return nil
}

// randomPassword returns a hex-encoded random password with n bytes of
// entropy.
func randomPassword(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
