package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		if v, ok := os.LookupEnv(k); ok {
			t.Cleanup(func() { _ = os.Setenv(k, v) })
			require.NoError(t, os.Unsetenv(k))
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	unsetenv(t, "APP_ENV", "DB_TYPE", "PORT", "MONGO_DATABASE", "JWT_VALIDITY", "DB_TIMEOUT", "BCRYPT_COST", "JWT_ISSUER")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, DBMongo, cfg.DBType)
	assert.Equal(t, "expenses", cfg.MongoDatabase)
	assert.Equal(t, time.Hour, cfg.JWTValidity)
	assert.Equal(t, 5*time.Second, cfg.DBTimeout)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "expense-tracker", cfg.JWTIssuer)
}

func TestLoad_EnvFileForAppEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.production"),
		[]byte("DB_TYPE=Memory\nJWT_SECRET=prod-secret\nJWT_VALIDITY=30m\nPORT=8081\n"), 0o600))
	unsetenv(t, "DB_TYPE", "JWT_SECRET", "JWT_VALIDITY")
	t.Setenv("APP_ENV", "production")
	// godotenv does not override variables that are already set
	t.Setenv("PORT", "9000")
	t.Cleanup(func() {
		for _, k := range []string{"DB_TYPE", "JWT_SECRET", "JWT_VALIDITY"} {
			_ = os.Unsetenv(k)
		}
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DBMemory, cfg.DBType)
	assert.Equal(t, "prod-secret", cfg.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.JWTValidity)
	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.IsProduction())
}

func TestValidate(t *testing.T) {
	base := Config{DBType: DBMemory, JWTSecret: "s", JWTValidity: time.Hour, AppEnv: "development"}
	require.NoError(t, base.Validate())

	pg := base
	pg.DBType = DBPostgres
	assert.ErrorContains(t, pg.Validate(), "DATABASE_URL")

	unknown := base
	unknown.DBType = "cassandra"
	assert.ErrorContains(t, unknown.Validate(), "unsupported DB_TYPE")

	prod := base
	prod.AppEnv = "production"
	prod.JWTSecret = devSecret
	assert.ErrorContains(t, prod.Validate(), "JWT_SECRET")
}
