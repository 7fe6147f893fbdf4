// Package config loads trtpd's static configuration: logging, telemetry,
// the protocol listener, account persistence, the admin REST API, and
// metrics. Dynamic state (accounts, active sessions) lives in the account
// store and in memory, not in this file.
//
// Configuration sources, in order of precedence:
//  1. CLI flags (bound by the command that calls Load)
//  2. Environment variables (TRTPD_*)
//  3. Configuration file (YAML)
//  4. Default values (lowest priority)
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/trtpd/trtpd/pkg/accounts/store"
)

// Config represents trtpd's full configuration.
type Config struct {
	// Logging controls log output behavior.
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Telemetry controls OpenTelemetry distributed tracing and Pyroscope
	// continuous profiling.
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`

	// ShutdownTimeout is the maximum time to wait for in-flight connections
	// to drain during graceful shutdown before they are force-closed.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0" yaml:"shutdown_timeout"`

	// Server configures the TRTP protocol listener.
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	// Database configures account persistence (SQLite or PostgreSQL).
	Database store.Config `mapstructure:"database" yaml:"database"`

	// AdminAPI configures the operator-facing REST management server.
	AdminAPI AdminAPIConfig `mapstructure:"admin_api" yaml:"admin_api"`

	// Metrics contains Prometheus metrics server configuration.
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output.
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive).
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`

	// Format specifies the log output format: text or json.
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`

	// Output specifies where logs are written: stdout, stderr, or a file path.
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// TelemetryConfig controls OpenTelemetry distributed tracing. When enabled,
// trace data is exported to an OTLP-compatible collector.
type TelemetryConfig struct {
	// Enabled controls whether distributed tracing is active. Default: false.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Endpoint is the OTLP collector endpoint (host:port).
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// Insecure controls whether to use a non-TLS connection to the collector.
	Insecure bool `mapstructure:"insecure" yaml:"insecure"`

	// SampleRate controls the trace sampling rate (0.0 to 1.0).
	SampleRate float64 `mapstructure:"sample_rate" validate:"omitempty,gte=0,lte=1" yaml:"sample_rate"`

	// Profiling contains Pyroscope continuous profiling configuration.
	Profiling ProfilingConfig `mapstructure:"profiling" yaml:"profiling"`
}

// ProfilingConfig controls Pyroscope continuous profiling.
type ProfilingConfig struct {
	// Enabled controls whether continuous profiling is active. Default: false.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Endpoint is the Pyroscope server endpoint (URL).
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// ProfileTypes selects which profile types to collect.
	ProfileTypes []string `mapstructure:"profile_types" yaml:"profile_types"`
}

// ServerConfig configures the TRTP protocol listener and the pipeline's
// own connection-level tuning.
type ServerConfig struct {
	// BindAddress is the interface to listen on. Empty means all interfaces.
	BindAddress string `mapstructure:"bind_address" yaml:"bind_address"`

	// Port is the TRTP listener's TCP port. Default: 5500.
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`

	// MaxConnections caps concurrently accepted sockets. Zero means
	// unlimited.
	MaxConnections int `mapstructure:"max_connections" yaml:"max_connections"`

	// HandshakeTimeout bounds how long a freshly accepted socket has to
	// complete the 12-byte client handshake.
	HandshakeTimeout time.Duration `mapstructure:"handshake_timeout" yaml:"handshake_timeout"`

	// IdleTimeout, if nonzero, disconnects a session that has sent no
	// transaction for this long. Off by default.
	IdleTimeout time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`

	// AllowGuests permits login with an empty login/password pair.
	AllowGuests bool `mapstructure:"allow_guests" yaml:"allow_guests"`

	// GuestAccessMask is the access mask granted to a guest session.
	GuestAccessMask uint64 `mapstructure:"guest_access_mask" yaml:"guest_access_mask"`

	// ServerName is announced in the login reply's ServerName field.
	ServerName string `mapstructure:"server_name" yaml:"server_name"`

	// BannerID selects which server banner graphic to advertise.
	BannerID uint16 `mapstructure:"banner_id" yaml:"banner_id"`
}

// AdminAPIConfig configures the operator-facing HTTP management server.
type AdminAPIConfig struct {
	// Enabled controls whether the admin REST API listens at all.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// BindAddress is the interface the admin API listens on.
	BindAddress string `mapstructure:"bind_address" yaml:"bind_address"`

	// Port is the admin API's TCP port. Default: 8089.
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`

	// JWTSecret signs and verifies operator session tokens. Must be at
	// least 32 bytes; falls back to the TRTPD_JWT_SECRET environment
	// variable when empty so it never needs to live in a config file.
	JWTSecret string `mapstructure:"jwt_secret" yaml:"jwt_secret,omitempty"`

	// TokenTTL controls how long an issued access token remains valid.
	TokenTTL time.Duration `mapstructure:"token_ttl" yaml:"token_ttl"`

	// OperatorUsername is the single built-in operator account's login.
	OperatorUsername string `mapstructure:"operator_username" yaml:"operator_username"`

	// OperatorPasswordHash is the bcrypt hash of the operator's password.
	// Generated once at first run and persisted back to the config file if
	// it was empty; see cmd/trtpd's bootstrap step.
	OperatorPasswordHash string `mapstructure:"operator_password_hash" yaml:"operator_password_hash,omitempty"`
}

// MetricsConfig configures the Prometheus metrics HTTP endpoint. When
// Enabled is false, metrics collection is a no-op with zero overhead.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Port is the HTTP port serving /metrics. Default: 9090.
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`
}

// Load loads configuration from file, environment, and defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	configFileFound, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}

	if !configFileFound {
		cfg := GetDefaultConfig()
		return cfg, nil
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(configDecodeHooks())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration with a helpful error if no config file
// exists at all, pointing the operator at `trtpd init`.
func MustLoad(configPath string) (*Config, error) {
	if configPath == "" {
		if !DefaultConfigExists() {
			return nil, fmt.Errorf("no configuration file found at default location: %s\n\n"+
				"Please initialize a configuration file first:\n"+
				"  trtpd init\n\n"+
				"Or specify a custom config file:\n"+
				"  trtpd <command> --config /path/to/config.yaml",
				GetDefaultConfigPath())
		}
		configPath = GetDefaultConfigPath()
	} else if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s\n\n"+
			"Please create the configuration file:\n"+
			"  trtpd init --config %s",
			configPath, configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path as YAML, creating parent directories as
// needed. Permissions are restricted to the owner since the file may carry
// the operator password hash and JWT secret.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// InitConfig creates a fresh configuration file at the default location,
// seeded with a random admin API JWT secret. Fails if a file already exists
// there unless force is true.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	return path, InitConfigToPath(path, force)
}

// InitConfigToPath creates a fresh configuration file at path. Fails if a
// file already exists there unless force is true.
func InitConfigToPath(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", path)
		}
	}

	cfg := GetDefaultConfig()

	secret, err := randomSecret(32)
	if err != nil {
		return fmt.Errorf("generate JWT secret: %w", err)
	}
	cfg.AdminAPI.JWTSecret = secret

	return SaveConfig(cfg, path)
}

// randomSecret returns a hex-encoded random string with n bytes of entropy.
func randomSecret(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// GetDefaultConfig returns a Config with every field set to its default,
// used when no config file is present.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with sensible defaults. Explicit
// values from file, environment, or flags are always preserved.
func ApplyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Telemetry.Endpoint == "" {
		cfg.Telemetry.Endpoint = "localhost:4317"
	}
	if cfg.Telemetry.SampleRate == 0 {
		cfg.Telemetry.SampleRate = 1.0
	}
	if cfg.Telemetry.Profiling.Endpoint == "" {
		cfg.Telemetry.Profiling.Endpoint = "http://localhost:4040"
	}
	if len(cfg.Telemetry.Profiling.ProfileTypes) == 0 {
		cfg.Telemetry.Profiling.ProfileTypes = []string{"cpu", "alloc_objects", "alloc_space", "inuse_objects", "inuse_space", "goroutines"}
	}

	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5500
	}
	if cfg.Server.HandshakeTimeout == 0 {
		cfg.Server.HandshakeTimeout = 10 * time.Second
	}
	if cfg.Server.ServerName == "" {
		cfg.Server.ServerName = "trtpd"
	}

	cfg.Database.ApplyDefaults()

	if cfg.AdminAPI.Port == 0 {
		cfg.AdminAPI.Port = 8089
	}
	if cfg.AdminAPI.TokenTTL == 0 {
		cfg.AdminAPI.TokenTTL = 8 * time.Hour
	}
	if cfg.AdminAPI.OperatorUsername == "" {
		cfg.AdminAPI.OperatorUsername = "admin"
	}
	if cfg.AdminAPI.JWTSecret == "" {
		cfg.AdminAPI.JWTSecret = os.Getenv(EnvJWTSecret)
	}

	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
}

var validate = validator.New()

// Validate checks that cfg's field constraints hold. Struct tags drive
// most of this; a handful of cross-field rules are checked explicitly.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return err
	}
	if err := cfg.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if cfg.AdminAPI.Enabled && cfg.AdminAPI.JWTSecret != "" && len(cfg.AdminAPI.JWTSecret) < 32 {
		return fmt.Errorf("admin_api.jwt_secret must be at least 32 characters")
	}
	return nil
}

// EnvJWTSecret is the environment variable carrying the admin API's JWT
// signing secret, consulted when the config file leaves it blank.
const EnvJWTSecret = "TRTPD_JWT_SECRET"

// setupViper configures viper with environment variable and config file
// search settings.
func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("TRTPD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		configDir := getConfigDir()
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file if it exists. A missing file
// is not an error: callers fall back to defaults.
func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}
	return true, nil
}

// configDecodeHooks returns the mapstructure decode hook used to unmarshal
// human-readable durations ("30s", "5m") into time.Duration fields.
func configDecodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(durationDecodeHook())
}

func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

// getConfigDir returns the configuration directory path: XDG_CONFIG_HOME,
// falling back to ~/.config, falling back to the current directory.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "trtpd")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "trtpd")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// DefaultConfigExists checks if a config file exists at the default location.
func DefaultConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}

// GetConfigDir returns the configuration directory path, exposed for the
// init command.
func GetConfigDir() string {
	return getConfigDir()
}
