package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/trtpd/trtpd/internal/cli/output"
)

var (
	statusOutput  string
	statusPidFile string
	statusAPIPort int
	statusAPIHost string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server status",
	Long: `Display the current status of the trtpd server.

This command checks the PID file and the admin API's readiness endpoint,
and reports whether the server process is alive and whether it is
accepting connections.

Examples:
  # Check status (uses default settings)
  trtpd status

  # Check status with a custom admin API port
  trtpd status --api-port 9089

  # Output as JSON
  trtpd status --output json`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusPidFile, "pid-file", "", "Path to PID file (default: $XDG_STATE_HOME/trtpd/trtpd.pid)")
	statusCmd.Flags().StringVar(&statusAPIHost, "api-host", "localhost", "Admin API host")
	statusCmd.Flags().IntVar(&statusAPIPort, "api-port", 8089, "Admin API port")
	statusCmd.Flags().StringVarP(&statusOutput, "output", "o", "table", "Output format (table|json|yaml)")
}

// ServerStatus represents the server status information.
type ServerStatus struct {
	Running  bool   `json:"running" yaml:"running"`
	PID      int    `json:"pid,omitempty" yaml:"pid,omitempty"`
	Message  string `json:"message" yaml:"message"`
	Sessions int    `json:"sessions,omitempty" yaml:"sessions,omitempty"`
	Healthy  bool   `json:"healthy" yaml:"healthy"`
}

// readinessResponse mirrors pkg/adminapi's healthResponse shape.
type readinessResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
	Error    string `json:"error,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(statusOutput)
	if err != nil {
		return err
	}

	status := ServerStatus{
		Running: false,
		Healthy: false,
		Message: "Server is not running",
	}

	pidPath := statusPidFile
	if pidPath == "" {
		pidPath = GetDefaultPidFile()
	}

	pidData, err := os.ReadFile(pidPath)
	if err == nil {
		pid, err := strconv.Atoi(strings.TrimSpace(string(pidData)))
		if err == nil {
			process, err := os.FindProcess(pid)
			if err == nil {
				if err := process.Signal(syscall.Signal(0)); err == nil {
					status.Running = true
					status.PID = pid
				}
			}
		}
	}

	readyURL := fmt.Sprintf("http://%s:%d/health/ready", statusAPIHost, statusAPIPort)
	client := &http.Client{Timeout: 2 * time.Second}

	resp, err := client.Get(readyURL)
	if err == nil {
		defer func() { _ = resp.Body.Close() }()

		var ready readinessResponse
		if err := json.NewDecoder(resp.Body).Decode(&ready); err == nil {
			status.Running = true
			status.Healthy = ready.Status == "healthy"
			status.Sessions = ready.Sessions
			if status.Healthy {
				status.Message = "Server is running and ready"
			} else {
				status.Message = fmt.Sprintf("Server is running but not ready: %s", ready.Error)
			}
		} else {
			status.Running = true
			status.Message = "Server is running but readiness response was invalid"
		}
	} else if status.Running {
		status.Message = "Server process exists but the admin API is unreachable"
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, status)
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, status)
	default:
		printStatusTable(status)
	}

	return nil
}

func printStatusTable(status ServerStatus) {
	fmt.Println()
	fmt.Println("trtpd Server Status")
	fmt.Println("====================")
	fmt.Println()

	if status.Running {
		if status.Healthy {
			fmt.Printf("  Status:     \033[32m● Running\033[0m\n")
		} else {
			fmt.Printf("  Status:     \033[33m● Running (not ready)\033[0m\n")
		}
		if status.PID != 0 {
			fmt.Printf("  PID:        %d\n", status.PID)
		}
		if status.Healthy {
			fmt.Printf("  Sessions:   %d\n", status.Sessions)
		}
	} else {
		fmt.Printf("  Status:     \033[31m○ Stopped\033[0m\n")
	}

	fmt.Println()
	fmt.Printf("  %s\n", status.Message)
	fmt.Println()
}
