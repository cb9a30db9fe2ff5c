package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("database:\n  host: db\n  user: rent\n  name: quickrent\n"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, 5*time.Minute, cfg.Booking.CodeTTL())
	assert.True(t, cfg.Booking.VerificationRequired())
	assert.Equal(t, "booking-notifications", cfg.Kafka.NotificationsTopic)
	assert.Equal(t, 3, cfg.Kafka.PublishAttempts)
	assert.Equal(t, 15*time.Second, cfg.Booking.CarsCacheDuration())
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "host=db port=5432 user=rent password= dbname=quickrent sslmode=disable", cfg.Database.DSN())
}

func TestParse_ExplicitValues(t *testing.T) {
	raw := `
http:
  address: ":9000"
redis:
  addr: "localhost:6379"
booking:
  code_ttl_minutes: 10
  require_verification: false
kafka:
  brokers: ["k1:9092", "k2:9092"]
`
	cfg, err := Parse([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTP.Address)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 10*time.Minute, cfg.Booking.CodeTTL())
	assert.False(t, cfg.Booking.VerificationRequired())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestParse_EnvOverridesSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DATABASE_PASSWORD", "pg-secret")

	cfg, err := Parse([]byte("auth:\n  jwt_secret: from-file\n"))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "pg-secret", cfg.Database.Password)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("http: [unterminated"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("worker:\n  expiration_sweep_minutes: 3\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Worker.ExpirationSweepMinutes)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
