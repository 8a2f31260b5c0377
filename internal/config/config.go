// Package config provides functionality for managing configuration options
// for the application using command-line flags and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strconv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port is the TCP port the HTTP server listens on.
	Port string

	// DatabaseDSN holds the PostgreSQL connection string.
	DatabaseDSN string

	// CORSAllowedOrigin is the origin allowed by the CORS layer ("*" allows all).
	CORSAllowedOrigin string

	// SessionSigningSecret signs the session cookie (HMAC).
	SessionSigningSecret string

	// SessionEncryptionSecret encrypts session payloads at rest.
	// It must be distinct from SessionSigningSecret.
	SessionEncryptionSecret string

	// SessionTTLHours is the session lifetime in hours.
	SessionTTLHours int

	// EnforceSessionIdentity, when true, makes POST /api/progress derive the
	// user ID from the authenticated session instead of trusting the body.
	EnforceSessionIdentity bool

	// Config is the path to the config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Port, "p", "3000", "port to listen on")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.CORSAllowedOrigin, "cors-origin", "*", "allowed CORS origin")
	flag.IntVar(&options.SessionTTLHours, "session-ttl", 168, "session lifetime in hours")
	flag.BoolVar(&options.EnforceSessionIdentity, "enforce-session-identity", false,
		"derive progress user ID from the session instead of the request body")
	flag.StringVar(&options.Config, "config", "", "path to config file")
	flag.StringVar(&options.Config, "c", "", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		options.Port = port
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if origin := os.Getenv("CORS_ALLOWED_ORIGIN"); origin != "" {
		options.CORSAllowedOrigin = origin
	}
	if secret := os.Getenv("SESSION_SIGNING_SECRET"); secret != "" {
		options.SessionSigningSecret = secret
	}
	if secret := os.Getenv("SESSION_ENCRYPTION_SECRET"); secret != "" {
		options.SessionEncryptionSecret = secret
	}
	if ttl := os.Getenv("SESSION_TTL_HOURS"); ttl != "" {
		if hours, err := strconv.Atoi(ttl); err == nil && hours > 0 {
			options.SessionTTLHours = hours
		}
	}
	if v := os.Getenv("ENFORCE_SESSION_IDENTITY"); v != "" {
		if enforce, err := strconv.ParseBool(v); err == nil {
			options.EnforceSessionIdentity = enforce
		}
	}

	return options
}
