/*
Copyright 2026 the FaceShot ChopShop Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

var (
	// ErrMissingBaseURL is raised when no service URL is configured.
	ErrMissingBaseURL = errors.New("missing base URL")

	// ErrInvalidBaseURL is raised when the service URL cannot be used.
	ErrInvalidBaseURL = errors.New("invalid base URL")

	// ErrInvalidDuration is raised when a timeout or interval is not positive.
	ErrInvalidDuration = errors.New("invalid duration")
)

const (
	DefaultBaseURL        = "http://localhost:8001"
	DefaultRequestTimeout = 30 * time.Second
	DefaultLoginEmail     = "test@example.com"
	DefaultPassword       = "testpass123"
	DefaultUploadType     = "faceswap"
	DefaultPollInterval   = 2 * time.Second
	DefaultPollTimeout    = 30 * time.Second
)

// Config is everything a conformance run needs to know.
type Config struct {
	BaseURL         string
	RequestTimeout  time.Duration
	LoginEmail      string
	LoginPassword   string
	SignupPassword  string
	UploadType      string
	JobPollInterval time.Duration
	JobPollTimeout  time.Duration
	ValidateSchema  bool
	ReportFile      string
	DebugLogging    bool
	LogRequests     bool
	LogResponses    bool
}

// envFiles are searched in order, the first one found is loaded.
//
//nolint:gochecknoglobals
var envFiles = []string{
	".env",
	"test/.env",
	"../../../test/.env", // From test/api/suites directory
}

// Load reads configuration from environment variables and .env files.
// Variables already set in the environment take precedence over the file.
func Load() *Config {
	loadEnvFile()

	return &Config{
		BaseURL:         getStringWithDefault("API_BASE_URL", DefaultBaseURL),
		RequestTimeout:  getDurationWithDefault("REQUEST_TIMEOUT", DefaultRequestTimeout),
		LoginEmail:      getStringWithDefault("TEST_LOGIN_EMAIL", DefaultLoginEmail),
		LoginPassword:   getStringWithDefault("TEST_LOGIN_PASSWORD", DefaultPassword),
		SignupPassword:  getStringWithDefault("TEST_SIGNUP_PASSWORD", DefaultPassword),
		UploadType:      getStringWithDefault("TEST_UPLOAD_TYPE", DefaultUploadType),
		JobPollInterval: getDurationWithDefault("JOB_POLL_INTERVAL", DefaultPollInterval),
		JobPollTimeout:  getDurationWithDefault("JOB_POLL_TIMEOUT", DefaultPollTimeout),
		ValidateSchema:  getBoolWithDefault("VALIDATE_SCHEMA", false),
		ReportFile:      os.Getenv("REPORT_FILE"),
		DebugLogging:    getBoolWithDefault("DEBUG_LOGGING", false),
		LogRequests:     getBoolWithDefault("LOG_REQUESTS", false),
		LogResponses:    getBoolWithDefault("LOG_RESPONSES", false),
	}
}

// AddFlags binds the configuration to command line flags. Current values
// become the flag defaults, so flags override the environment.
func (c *Config) AddFlags(f *pflag.FlagSet) {
	f.StringVar(&c.BaseURL, "base-url", c.BaseURL, "Base URL of the service under test.")
	f.DurationVar(&c.RequestTimeout, "request-timeout", c.RequestTimeout, "Upper bound on each HTTP request.")
	f.StringVar(&c.LoginEmail, "login-email", c.LoginEmail, "Email used by the login check.")
	f.StringVar(&c.LoginPassword, "login-password", c.LoginPassword, "Password used by the login check.")
	f.StringVar(&c.SignupPassword, "signup-password", c.SignupPassword, "Password for the freshly signed up user.")
	f.StringVar(&c.UploadType, "upload-type", c.UploadType, "Tool type sent with uploads and processing requests.")
	f.DurationVar(&c.JobPollInterval, "job-poll-interval", c.JobPollInterval, "Interval between job status polls.")
	f.DurationVar(&c.JobPollTimeout, "job-poll-timeout", c.JobPollTimeout, "How long to poll a started job.")
	f.BoolVar(&c.ValidateSchema, "validate-schema", c.ValidateSchema, "Validate accepted responses against the OpenAPI contract.")
	f.StringVar(&c.ReportFile, "report-file", c.ReportFile, "Write a JSON report to this path.")
	f.BoolVar(&c.DebugLogging, "debug", c.DebugLogging, "Enable development logging.")
	f.BoolVar(&c.LogRequests, "log-requests", c.LogRequests, "Log every request.")
	f.BoolVar(&c.LogResponses, "log-responses", c.LogResponses, "Log every response body.")
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: set API_BASE_URL, --base-url or pass it as an argument", ErrMissingBaseURL)
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidBaseURL, u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("%w: no host in %q", ErrInvalidBaseURL, c.BaseURL)
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"request timeout", c.RequestTimeout},
		{"job poll interval", c.JobPollInterval},
		{"job poll timeout", c.JobPollTimeout},
	}

	for _, d := range durations {
		if d.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidDuration, d.name, d.value)
		}
	}

	return nil
}

func getStringWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// getDurationWithDefault gets a duration from environment variable or returns default.
func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}

// getBoolWithDefault gets a boolean from environment variable or returns default.
func getBoolWithDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

func loadEnvFile() {
	var envPath string

	for _, path := range envFiles {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				envPath = absPath
				break
			}
		}
	}

	if envPath == "" {
		// .env file not found - this is OK in CI/CD where env vars are set directly
		return
	}

	if err := godotenv.Load(envPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file from %s: %v\n", envPath, err)
	}
}
