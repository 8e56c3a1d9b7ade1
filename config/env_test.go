package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	assert.Equal(t, "HS256", JWTAlgorithm())
	assert.Equal(t, 30*time.Minute, AccessTokenTTL())
	assert.Equal(t, "memory", RateLimitDriver())
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "5")
	t.Setenv("JWT_ALGORITHM", "hs512")
	t.Setenv("FIRST_ADMIN_USERNAME", "root")
	t.Setenv("FIRST_ADMIN_PASSWORD", "s3cret")

	assert.Equal(t, 5*time.Minute, AccessTokenTTL())
	assert.Equal(t, "HS512", JWTAlgorithm())

	user, pass := FirstAdmin()
	assert.Equal(t, "root", user)
	assert.Equal(t, "s3cret", pass)
}

func TestTrustedProxiesSplitsList(t *testing.T) {
	assert.Empty(t, TrustedProxies())

	t.Setenv("TRUSTED_PROXIES", " 10.0.0.0/8 ,, 127.0.0.1 ")
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, TrustedProxies())
}

func TestInvalidTTLFallsBack(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "-3")
	assert.Equal(t, 30*time.Minute, AccessTokenTTL())
}

func TestDatabaseDSNAliases(t *testing.T) {
	t.Setenv("DATABASE_URL", "file:alias.db")
	assert.Equal(t, "file:alias.db", DatabaseDSN())

	t.Setenv("DATABASE_DSN", "file:primary.db")
	assert.Equal(t, "file:primary.db", DatabaseDSN())
}

func TestUnknownDriverFallsBackToSQLite(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")
	assert.Equal(t, "sqlite", DatabaseDriver())
}

func TestDotEnvMerge(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("SHOPFRONT_TEST_KEY=from-dotenv\n"), 0o600))

	require.NoError(t, loadFromFiles(filepath.Join(dir, "missing.json"), envPath))
	assert.Equal(t, "from-dotenv", Get("SHOPFRONT_TEST_KEY", ""))
}
