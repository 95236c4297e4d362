// Package config provides client configuration with support for command-line flags, environment variables, and .env files.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	API     APIConfig
	UI      UIConfig
	FakeAPI FakeAPIConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
	// File receives log output while the dashboard owns the terminal.
	// Empty means ~/.bookverse/bookverse.log.
	File string
}

// APIConfig holds settings for the remote catalog API.
type APIConfig struct {
	BaseURL   string        // default: http://localhost:5000/api
	Timeout   time.Duration // 0 keeps the transport default
	RateLimit float64       // requests per second per resource, 0 disables
	RateBurst int           // default: 5
}

// UIConfig holds dashboard behavior settings.
type UIConfig struct {
	SearchDebounce time.Duration // default: 300ms
}

// FakeAPIConfig holds settings for the development API server.
type FakeAPIConfig struct {
	Addr     string // default: :5000
	SeedFile string // optional YAML catalog
}

// Flags carries raw command-line values. Empty strings mean "not set".
// The CLI binds these to its flag set before calling Load.
type Flags struct {
	Env            string
	LogLevel       string
	LogFile        string
	APIURL         string
	APITimeout     string
	RateLimit      string
	RateBurst      string
	SearchDebounce string
	FakeAPIAddr    string
	FakeAPISeed    string
	EnvFile        string
}

// Load builds configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(flags Flags) (*Config, error) {
	envFile := flags.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(flags.Env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(flags.LogLevel, "LOG_LEVEL", "info"),
			File:  getConfigValue(flags.LogFile, "LOG_FILE", ""),
		},
		API: APIConfig{
			BaseURL:   strings.TrimRight(getConfigValue(flags.APIURL, "API_BASE_URL", "http://localhost:5000/api"), "/"),
			RateBurst: getIntConfigValue(flags.RateBurst, "API_RATE_BURST", 5),
		},
		FakeAPI: FakeAPIConfig{
			Addr:     getConfigValue(flags.FakeAPIAddr, "FAKE_API_ADDR", ":5000"),
			SeedFile: getConfigValue(flags.FakeAPISeed, "FAKE_API_SEED", ""),
		},
	}

	rateStr := getConfigValue(flags.RateLimit, "API_RATE_LIMIT", "0")
	rps, err := strconv.ParseFloat(rateStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid API rate limit %q: %w", rateStr, err)
	}
	cfg.API.RateLimit = rps

	timeoutStr := getConfigValue(flags.APITimeout, "API_TIMEOUT", "0s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid API timeout %q: %w", timeoutStr, err)
	}
	cfg.API.Timeout = timeout

	debounceStr := getConfigValue(flags.SearchDebounce, "SEARCH_DEBOUNCE", "300ms")
	debounce, err := time.ParseDuration(debounceStr)
	if err != nil {
		return nil, fmt.Errorf("invalid search debounce %q: %w", debounceStr, err)
	}
	cfg.UI.SearchDebounce = debounce

	// Expand the log file path (defaults to ~/.bookverse/bookverse.log).
	if err := cfg.expandLogFile(); err != nil {
		return nil, fmt.Errorf("invalid log file: %w", err)
	}

	// Expand the seed file path if one was given.
	if cfg.FakeAPI.SeedFile != "" {
		seed, err := expandPath(cfg.FakeAPI.SeedFile, "")
		if err != nil {
			return nil, fmt.Errorf("invalid seed file: %w", err)
		}
		cfg.FakeAPI.SeedFile = seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid API base URL: %q (must be an absolute http or https URL)", c.API.BaseURL)
	}

	if c.API.Timeout < 0 {
		return fmt.Errorf("invalid API timeout: %s (must not be negative)", c.API.Timeout)
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("invalid API rate limit: %v (must not be negative)", c.API.RateLimit)
	}
	if c.API.RateBurst < 1 {
		return fmt.Errorf("invalid API rate burst: %d (must be at least 1)", c.API.RateBurst)
	}
	if c.UI.SearchDebounce < 0 {
		return fmt.Errorf("invalid search debounce: %s (must not be negative)", c.UI.SearchDebounce)
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandLogFile expands ~ and makes the path absolute.
// Defaults to ~/.bookverse/bookverse.log, or the temp dir without a home.
func (c *Config) expandLogFile() error {
	defaultPath := filepath.Join(os.TempDir(), "bookverse.log")
	if homeDir, err := os.UserHomeDir(); err == nil {
		defaultPath = filepath.Join(homeDir, ".bookverse", "bookverse.log")
	}

	expanded, err := expandPath(c.Logger.File, defaultPath)
	if err != nil {
		return err
	}
	c.Logger.File = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strings.TrimSpace(strValue))
	if err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=value.
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
