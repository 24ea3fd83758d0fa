package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"HTTP_PORT", "PORT", "CREDENTIAL_STORE", "BCRYPT_COST", "SESSION_TTL", "KAFKA_BROKERS"} {
		t.Setenv(key, "")
	}
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.HTTPPort)
	assert.Equal(t, "mongo", cfg.CredentialStore)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load("")
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	content := `
http_port: "5000"
jwt_secret: from-file
credential_store: postgres
session_ttl: 2h
postgres:
  host: db.internal
  port: 6543
kafka_brokers:
  - k1:9092
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("JWT_SECRET", "")
	t.Setenv("HTTP_PORT", "6000")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "6000", cfg.HTTPPort)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "postgres", cfg.CredentialStore)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, 6543, cfg.Postgres.Port)
	assert.Equal(t, "storefront", cfg.Postgres.User)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read config file")
}

func TestLoad_UnknownCredentialStore(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CREDENTIAL_STORE", "dynamo")

	_, err := Load("")
	assert.ErrorContains(t, err, "unknown credential store")
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("BCRYPT_COST", "many")
	t.Setenv("SESSION_TTL", "forever")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
}
