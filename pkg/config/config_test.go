package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "http://localhost:8000/api", cfg.Remote.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Remote.Timeout())
	assert.Equal(t, SessionBackendMemory, cfg.Session.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL())
	assert.Equal(t, SessionBackendMemory, cfg.Mirror.Backend)
	assert.False(t, cfg.Kafka.Enabled())
	assert.False(t, cfg.Mail.Enabled())
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("REMOTE_BASE_URL", "http://estoque:8000/api/")
	v.Set("HTTP_PORT", "9090")
	v.Set("SESSION_BACKEND", "Redis")
	v.Set("KAFKA_BROKERS", "k1:9092, k2:9092,")
	v.Set("ALERT_MAIL_TO", "admin@toolgear.local")
	v.Set("SMTP_HOST", "smtp.toolgear.local")
	v.Set("OTEL_ENABLED", "true")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "http://estoque:8000/api", cfg.Remote.BaseURL, "la barra final se elimina")
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, SessionBackendRedis, cfg.Session.Backend)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled())
	assert.True(t, cfg.Mail.Enabled())
	assert.True(t, cfg.Telemetry.Enabled)
}

func TestFromViper_SessionBackendInvalido(t *testing.T) {
	v := viper.New()
	v.Set("SESSION_BACKEND", "mongo")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_MirrorRedisNoSoportado(t *testing.T) {
	v := viper.New()
	v.Set("MIRROR_BACKEND", "redis")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "estoque", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/estoque?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
