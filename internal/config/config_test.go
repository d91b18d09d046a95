package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("OPENAI_API_KEY", "")

	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8001, cfg.ServerPort)
	assert.Equal(t, "./users.json", cfg.UsersFile)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, "gpt-4o", cfg.VisionModel)
	assert.Equal(t, 2000, cfg.VisionMaxTokens)
	assert.Equal(t, 60*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, "@hourly", cfg.BackupSchedule)
	assert.Len(t, cfg.CORSOrigins, 2)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("PORT", "9000")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "5")
	t.Setenv("CORS_ORIGINS", "https://app.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.ServerPort)
	assert.Equal(t, 5*time.Minute, cfg.TokenTTL)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.CORSOrigins)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("PORT", "not-a-port")

	_, err := Load()
	assert.Error(t, err)
}
