// Package config loads server and wizard settings from flags with
// environment fallback. A .env file is honored when present.
package config

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds process configuration.
type Config struct {
	Port           int
	DBPath         string
	AllowedOrigins []string

	// Mail relay settings. Notifications are disabled when SMTPHost is
	// empty.
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	AdminEmail   string
	AdminName    string

	// ServerURL is where the wizard and verify subcommands send requests.
	ServerURL string
}

// LoadDotenv loads a .env file if one exists. Missing files are fine.
func LoadDotenv() {
	_ = godotenv.Load()
}

// Parse reads flags and falls back to environment variables.
func Parse(args []string) (Config, error) {
	var cfg Config
	var origins string

	fs := flag.NewFlagSet("medicert", flag.ContinueOnError)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DBPath, "db", "", "Path to the certificate database")
	fs.StringVar(&origins, "origins", "", "Comma-separated allowed CORS origins")
	fs.StringVar(&cfg.ServerURL, "server", "", "Registry server URL (wizard/verify)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 8080
		}
	}

	if cfg.DBPath == "" {
		cfg.DBPath = os.Getenv("MEDICERT_DB")
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "medicert.db"
	}

	if origins == "" {
		origins = os.Getenv("ALLOWED_ORIGINS")
	}
	cfg.AllowedOrigins = splitOrigins(origins)

	if cfg.ServerURL == "" {
		cfg.ServerURL = os.Getenv("MEDICERT_SERVER")
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = "http://localhost:8080"
	}

	cfg.SMTPHost = os.Getenv("SMTP_HOST")
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, errors.New("invalid SMTP_PORT env variable")
		}
		cfg.SMTPPort = port
	} else {
		cfg.SMTPPort = 587
	}
	cfg.SMTPUser = os.Getenv("ADMIN_EMAIL")
	cfg.SMTPPassword = os.Getenv("BREVO_API_KEY")
	cfg.AdminEmail = os.Getenv("ADMIN_EMAIL")
	cfg.AdminName = os.Getenv("ADMIN_NAME")
	if cfg.AdminName == "" {
		cfg.AdminName = "VividMedi Health"
	}

	return cfg, nil
}

func splitOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
