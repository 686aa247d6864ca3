// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags_EnvVars(t *testing.T) {
	// Set env vars
	os.Setenv("PORT", "9000")
	os.Setenv("DATABASE_URL", "postgres://test")
	os.Setenv("SESSION_SALT", "test-salt")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "postgres://test", cfg.DatabaseURL)
	assert.Equal(t, "postgres", cfg.StoreType)
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	os.Setenv("PORT", "9000")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "postgres://other", "-session-salt", "s1"})
	require.NoError(t, err)

	// CLI should override env
	assert.Equal(t, 8080, cfg.Port)
}

func TestParseFlags_MemoryStoreNeedsNoDatabase(t *testing.T) {
	os.Clearenv()

	cfg, err := ParseFlags([]string{"-t", "memory", "-session-salt", "s1"})
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.StoreType)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestParseFlags_MissingRequired(t *testing.T) {
	os.Clearenv()

	tests := []struct {
		name string
		args []string
	}{
		{"no database URL", []string{"-session-salt", "s1"}},
		{"no session salt", []string{"-d", "postgres://test"}},
		{"bad store type", []string{"-t", "sqlite", "-session-salt", "s1"}},
		{"admin user without password", []string{"-t", "memory", "-session-salt", "s1", "-admin-user", "admin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFlags(tt.args)
			assert.Error(t, err)
		})
	}
}

func TestParseFlags_DefaultPort(t *testing.T) {
	os.Clearenv()

	cfg, err := ParseFlags([]string{"-t", "memory", "-session-salt", "s1"})
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Port)
}
