// Package config provides functionality for managing configuration options
// for the application using command-line flags, a JSON config file,
// a .env file and environment variables.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Addr defines the server's listening address (ip:port).
	Addr string `json:"address"`

	// DatabaseType selects the SQL driver: "sqlite" or "postgres".
	DatabaseType string `json:"database_type"`

	// DatabaseDSN holds the database connection string for the application.
	DatabaseDSN string `json:"database_dsn"`

	// AdminUsername and AdminPassword are the static admin credentials.
	AdminUsername string `json:"admin_username"`
	AdminPassword string `json:"admin_password"`

	// AdminPasswordHash is a bcrypt hash. When set it replaces AdminPassword.
	AdminPasswordHash string `json:"admin_password_hash"`

	// SecretKey signs session cookies.
	SecretKey string `json:"secret_key"`

	// SessionTTL bounds how long an admin session stays valid.
	SessionTTL time.Duration `json:"-"`

	// MaxUploadBytes caps the size of an uploaded TSV request body.
	MaxUploadBytes int64 `json:"max_upload_bytes"`

	// PurgeInterval and PurgeRetention drive the soft-delete cleaner.
	PurgeInterval  time.Duration `json:"-"`
	PurgeRetention time.Duration `json:"-"`

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	TLSCertFile string `json:"tls_cert_file"`
	TLSKeyFile  string `json:"tls_key_file"`

	// LogLevel is a zap level name.
	LogLevel string `json:"log_level"`

	// Config is the path to the Config file.
	Config string `json:"-"`
}

// Defaults returns the options used when nothing else is configured.
func Defaults() *Options {
	return &Options{
		Addr:           ":5000",
		DatabaseType:   "sqlite",
		DatabaseDSN:    "flashcards.db",
		AdminUsername:  "admin",
		AdminPassword:  "flashcards",
		SecretKey:      "change-me",
		SessionTTL:     12 * time.Hour,
		MaxUploadBytes: 10 << 20,
		PurgeInterval:  time.Hour,
		PurgeRetention: 30 * 24 * time.Hour,
		LogLevel:       "info",
		Config:         "config.json",
	}
}

// Parse loads .env, then parses the process arguments and environment.
func Parse() (*Options, error) {
	// a missing .env is normal outside development
	_ = godotenv.Load()
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses args, then applies the JSON config file and finally the
// environment. Later sources override earlier ones.
func ParseArgs(args []string) (*Options, error) {
	options, _, err := parse(args)
	return options, err
}

// ParseCommand is ParseArgs for tools that take a subcommand after the
// flags. It loads .env and returns the arguments left after the flags.
func ParseCommand(args []string) (*Options, []string, error) {
	_ = godotenv.Load()
	return parse(args)
}

func parse(args []string) (*Options, []string, error) {
	options := Defaults()

	fs := flag.NewFlagSet("flashcards", flag.ContinueOnError)
	fs.StringVar(&options.Addr, "a", options.Addr, "run on ip:port server")
	fs.StringVar(&options.DatabaseType, "t", options.DatabaseType, "database type (sqlite or postgres)")
	fs.StringVar(&options.DatabaseDSN, "d", options.DatabaseDSN, "db address")
	fs.StringVar(&options.Config, "config", options.Config, "path to config file")
	fs.StringVar(&options.Config, "c", options.Config, "path to config file (shorthand)")
	fs.StringVar(&options.LogLevel, "l", options.LogLevel, "log level")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				return nil, nil, fmt.Errorf("read config file: %w", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				return nil, nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if err := applyEnv(options); err != nil {
		return nil, nil, err
	}
	if err := options.validate(); err != nil {
		return nil, nil, err
	}
	return options, fs.Args(), nil
}

func applyEnv(options *Options) error {
	if port := os.Getenv("PORT"); port != "" {
		if _, err := strconv.Atoi(port); err != nil {
			return errors.New("invalid PORT env variable")
		}
		options.Addr = ":" + port
	}
	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Addr = serverAddress
	}

	vars := map[string]*string{
		"DATABASE_TYPE":       &options.DatabaseType,
		"DATABASE_DSN":        &options.DatabaseDSN,
		"ADMIN_USERNAME":      &options.AdminUsername,
		"ADMIN_PASSWORD":      &options.AdminPassword,
		"ADMIN_PASSWORD_HASH": &options.AdminPasswordHash,
		"SECRET_KEY":          &options.SecretKey,
		"LOG_LEVEL":           &options.LogLevel,
		"TLS_CERT_FILE":       &options.TLSCertFile,
		"TLS_KEY_FILE":        &options.TLSKeyFile,
	}
	for key, dst := range vars {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SESSION_TTL: %w", err)
		}
		options.SessionTTL = d
	}
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MAX_UPLOAD_BYTES: %w", err)
		}
		options.MaxUploadBytes = n
	}
	return nil
}

func (o *Options) validate() error {
	o.DatabaseType = strings.ToLower(strings.TrimSpace(o.DatabaseType))
	switch o.DatabaseType {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database type %q", o.DatabaseType)
	}
	if o.AdminUsername == "" {
		return errors.New("admin username required")
	}
	if o.SecretKey == "" {
		return errors.New("secret key required")
	}
	if (o.TLSCertFile == "") != (o.TLSKeyFile == "") {
		return errors.New("TLS needs both a certificate and a key file")
	}
	if o.MaxUploadBytes <= 0 {
		return errors.New("max upload bytes must be positive")
	}
	return nil
}

// TLSEnabled reports whether the server should serve HTTPS.
func (o *Options) TLSEnabled() bool {
	return o.TLSCertFile != "" && o.TLSKeyFile != ""
}
