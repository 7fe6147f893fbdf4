package config

import (
	"testing"
	"time"
)

func TestApplyDefaults_Logging(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default log level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default log format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected default log output 'stdout', got %q", cfg.Logging.Output)
	}
}

func TestApplyDefaults_LogLevelUppercased(t *testing.T) {
	cfg := &Config{Logging: LoggingConfig{Level: "debug"}}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected log level to be uppercased to 'DEBUG', got %q", cfg.Logging.Level)
	}
}

func TestApplyDefaults_ShutdownTimeout(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("Expected default shutdown timeout 30s, got %v", cfg.ShutdownTimeout)
	}
}

func TestApplyDefaults_Server(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Server.Port != 5500 {
		t.Errorf("Expected default server port 5500, got %d", cfg.Server.Port)
	}
	if cfg.Server.HandshakeTimeout != 10*time.Second {
		t.Errorf("Expected default handshake timeout 10s, got %v", cfg.Server.HandshakeTimeout)
	}
	if cfg.Server.ServerName != "trtpd" {
		t.Errorf("Expected default server name 'trtpd', got %q", cfg.Server.ServerName)
	}
}

func TestApplyDefaults_AdminAPI(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.AdminAPI.Port != 8089 {
		t.Errorf("Expected default admin API port 8089, got %d", cfg.AdminAPI.Port)
	}
	if cfg.AdminAPI.TokenTTL != 8*time.Hour {
		t.Errorf("Expected default token TTL 8h, got %v", cfg.AdminAPI.TokenTTL)
	}
	if cfg.AdminAPI.OperatorUsername != "admin" {
		t.Errorf("Expected default operator username 'admin', got %q", cfg.AdminAPI.OperatorUsername)
	}
}

func TestApplyDefaults_Metrics(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Metrics.Port != 9090 {
		t.Errorf("Expected default metrics port 9090, got %d", cfg.Metrics.Port)
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Logging: LoggingConfig{
			Level:  "DEBUG",
			Format: "json",
			Output: "/var/log/trtpd.log",
		},
		ShutdownTimeout: 60 * time.Second,
		Server: ServerConfig{
			Port:       5999,
			ServerName: "my-server",
		},
		AdminAPI: AdminAPIConfig{
			OperatorUsername: "root",
		},
	}

	ApplyDefaults(cfg)

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected explicit level 'DEBUG' to be preserved, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Output != "/var/log/trtpd.log" {
		t.Errorf("Expected explicit output to be preserved, got %q", cfg.Logging.Output)
	}
	if cfg.ShutdownTimeout != 60*time.Second {
		t.Errorf("Expected explicit timeout 60s to be preserved, got %v", cfg.ShutdownTimeout)
	}
	if cfg.Server.Port != 5999 {
		t.Errorf("Expected explicit server port to be preserved, got %d", cfg.Server.Port)
	}
	if cfg.Server.ServerName != "my-server" {
		t.Errorf("Expected explicit server name to be preserved, got %q", cfg.Server.ServerName)
	}
	if cfg.AdminAPI.OperatorUsername != "root" {
		t.Errorf("Expected explicit operator username to be preserved, got %q", cfg.AdminAPI.OperatorUsername)
	}
}

func TestGetDefaultConfig_IsValid(t *testing.T) {
	cfg := GetDefaultConfig()

	if err := Validate(cfg); err != nil {
		t.Errorf("Default config should be valid, got error: %v", err)
	}
}

func TestGetDefaultConfig_HasRequiredFields(t *testing.T) {
	cfg := GetDefaultConfig()

	if cfg.Logging.Level == "" {
		t.Error("Default config missing logging level")
	}
	if cfg.Server.Port == 0 {
		t.Error("Default config missing server port")
	}
	if cfg.AdminAPI.OperatorUsername == "" {
		t.Error("Default config missing operator username")
	}
	if cfg.Database.Type == "" {
		t.Error("Default config missing database type")
	}
}

func TestValidate_RejectsShortJWTSecretWhenAdminAPIEnabled(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.AdminAPI.Enabled = true
	cfg.AdminAPI.JWTSecret = "too-short"

	if err := Validate(cfg); err == nil {
		t.Error("Expected validation error for short JWT secret, got nil")
	}
}

func TestValidate_AllowsEmptyJWTSecretWhenAdminAPIDisabled(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.AdminAPI.Enabled = false
	cfg.AdminAPI.JWTSecret = ""

	if err := Validate(cfg); err != nil {
		t.Errorf("Expected no validation error when admin API disabled, got: %v", err)
	}
}

func TestValidate_RejectsInvalidLogLevel(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Level = "VERBOSE"

	if err := Validate(cfg); err == nil {
		t.Error("Expected validation error for invalid log level, got nil")
	}
}

func TestValidate_RejectsZeroShutdownTimeout(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.ShutdownTimeout = 0

	if err := Validate(cfg); err == nil {
		t.Error("Expected validation error for zero shutdown timeout, got nil")
	}
}

func TestInitConfigToPath_GeneratesJWTSecret(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/config.yaml"

	if err := InitConfigToPath(path, false); err != nil {
		t.Fatalf("InitConfigToPath failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.AdminAPI.JWTSecret) < 32 {
		t.Errorf("Expected generated JWT secret of at least 32 chars, got %d", len(cfg.AdminAPI.JWTSecret))
	}
}

func TestInitConfigToPath_RefusesToOverwriteWithoutForce(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/config.yaml"

	if err := InitConfigToPath(path, false); err != nil {
		t.Fatalf("first InitConfigToPath failed: %v", err)
	}
	if err := InitConfigToPath(path, false); err == nil {
		t.Error("Expected error on second InitConfigToPath without force, got nil")
	}
	if err := InitConfigToPath(path, true); err != nil {
		t.Errorf("Expected InitConfigToPath with force to succeed, got: %v", err)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir + "/does-not-exist.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 5500 {
		t.Errorf("Expected default server port for missing config file, got %d", cfg.Server.Port)
	}
}
