package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// configEnvKeys lists every variable Load reads, so tests start clean.
var configEnvKeys = []string{
	"ENV", "LOG_LEVEL", "LOG_FILE", "API_BASE_URL", "API_TIMEOUT",
	"API_RATE_LIMIT", "API_RATE_BURST", "SEARCH_DEBOUNCE",
	"FAKE_API_ADDR", "FAKE_API_SEED",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
	}
}

// noEnvFile points Load at a file that does not exist.
func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info", File: "/tmp/bookverse.log"},
		API: APIConfig{
			BaseURL:   "http://localhost:5000/api",
			RateBurst: 5,
		},
		UI: UIConfig{SearchDebounce: 300 * time.Millisecond},
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(Flags{EnvFile: noEnvFile(t)})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "http://localhost:5000/api", cfg.API.BaseURL)
	assert.Zero(t, cfg.API.Timeout)
	assert.Zero(t, cfg.API.RateLimit)
	assert.Equal(t, 5, cfg.API.RateBurst)
	assert.Equal(t, 300*time.Millisecond, cfg.UI.SearchDebounce)
	assert.Equal(t, ":5000", cfg.FakeAPI.Addr)
	assert.Empty(t, cfg.FakeAPI.SeedFile)
	assert.True(t, filepath.IsAbs(cfg.Logger.File))
	assert.Equal(t, "bookverse.log", filepath.Base(cfg.Logger.File))
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_BASE_URL", "http://env.example/api")
	t.Setenv("SEARCH_DEBOUNCE", "1s")
	t.Setenv("API_RATE_LIMIT", "2.5")

	cfg, err := Load(Flags{
		EnvFile:        noEnvFile(t),
		APIURL:         "https://flag.example/api/",
		SearchDebounce: "50ms",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://flag.example/api", cfg.API.BaseURL, "trailing slash trimmed")
	assert.Equal(t, 50*time.Millisecond, cfg.UI.SearchDebounce)
	assert.InDelta(t, 2.5, cfg.API.RateLimit, 0.0001)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("API_TIMEOUT=5s\nAPI_RATE_BURST=9\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("API_TIMEOUT")    //nolint:errcheck // Test cleanup
		os.Unsetenv("API_RATE_BURST") //nolint:errcheck // Test cleanup
	})

	cfg, err := Load(Flags{EnvFile: envFile})
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, 9, cfg.API.RateBurst)
}

func TestLoad_InvalidDurations(t *testing.T) {
	clearEnv(t)

	_, err := Load(Flags{EnvFile: noEnvFile(t), APITimeout: "soon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid API timeout")

	_, err = Load(Flags{EnvFile: noEnvFile(t), SearchDebounce: "fast"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid search debounce")

	_, err = Load(Flags{EnvFile: noEnvFile(t), RateLimit: "lots"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid API rate limit")
}

func TestLoad_SeedFileExpanded(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(Flags{EnvFile: noEnvFile(t), FakeAPISeed: "seed/catalog.yaml"})
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(cfg.FakeAPI.SeedFile))
	assert.Contains(t, cfg.FakeAPI.SeedFile, filepath.Join("seed", "catalog.yaml"))
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "log level",
			mutate:  func(c *Config) { c.Logger.Level = "verbose" },
			wantErr: "invalid log level",
		},
		{
			name:    "relative base url",
			mutate:  func(c *Config) { c.API.BaseURL = "/api" },
			wantErr: "invalid API base URL",
		},
		{
			name:    "unsupported scheme",
			mutate:  func(c *Config) { c.API.BaseURL = "ftp://books.example/api" },
			wantErr: "invalid API base URL",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.API.Timeout = -time.Second },
			wantErr: "invalid API timeout",
		},
		{
			name:    "negative rate",
			mutate:  func(c *Config) { c.API.RateLimit = -1 },
			wantErr: "invalid API rate limit",
		},
		{
			name:    "zero burst",
			mutate:  func(c *Config) { c.API.RateBurst = 0 },
			wantErr: "invalid API rate burst",
		},
		{
			name:    "negative debounce",
			mutate:  func(c *Config) { c.UI.SearchDebounce = -time.Millisecond },
			wantErr: "invalid search debounce",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExpandPath(t *testing.T) {
	homeDir, _ := os.UserHomeDir() //nolint:errcheck // Test setup

	got, err := expandPath("~/logs/bv.log", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(homeDir, "logs", "bv.log"), got)

	got, err = expandPath("", "/default.log")
	require.NoError(t, err)
	assert.Equal(t, "/default.log", got)

	got, err = expandPath("/absolute/../bv.log", "")
	require.NoError(t, err)
	assert.Equal(t, "/bv.log", got)
}

func TestGetConfigValue_Precedence(t *testing.T) {
	assert.Equal(t, "flag-value", getConfigValue("flag-value", "TEST_ENV_KEY", "default-value"))

	t.Setenv("TEST_ENV_KEY", "env-value")
	assert.Equal(t, "env-value", getConfigValue("", "TEST_ENV_KEY", "default-value"))

	assert.Equal(t, "default-value", getConfigValue("", "NONEXISTENT_KEY", "default-value"))
}

func TestGetIntConfigValue(t *testing.T) {
	assert.Equal(t, 7, getIntConfigValue("7", "TEST_INT_KEY", 3))
	assert.Equal(t, 3, getIntConfigValue("seven", "TEST_INT_KEY", 3), "unparseable falls back to default")
	assert.Equal(t, 3, getIntConfigValue("", "TEST_INT_KEY", 3))
}

func TestLoadEnvFile_ValidFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	content := `# Test env file
BV_TEST_ENV=staging
# Comment line
BV_QUOTED="some value"
BV_SINGLE='another value'
`
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))

	for _, key := range []string{"BV_TEST_ENV", "BV_QUOTED", "BV_SINGLE"} {
		os.Unsetenv(key) //nolint:errcheck // Test setup
		t.Cleanup(func() { os.Unsetenv(key) }) //nolint:errcheck // Test cleanup
	}

	require.NoError(t, loadEnvFile(envFile))

	assert.Equal(t, "staging", os.Getenv("BV_TEST_ENV"))
	assert.Equal(t, "some value", os.Getenv("BV_QUOTED"))
	assert.Equal(t, "another value", os.Getenv("BV_SINGLE"))
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("VALID_KEY=valid_value\nINVALID LINE WITHOUT EQUALS\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("VALID_KEY") }) //nolint:errcheck // Test cleanup

	err := loadEnvFile(envFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format at line 2")
}

func TestLoadEnvFile_NonExistentFile(t *testing.T) {
	assert.Error(t, loadEnvFile("/nonexistent/file/.env"))
}

func TestLoadEnvFile_ExistingEnvVarsNotOverwritten(t *testing.T) {
	t.Setenv("BV_TEST_VAR", "original-value")

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("BV_TEST_VAR=new-value"), 0o644))

	require.NoError(t, loadEnvFile(envFile))
	assert.Equal(t, "original-value", os.Getenv("BV_TEST_VAR"))
}
