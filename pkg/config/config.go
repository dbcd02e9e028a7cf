package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	Remote    RemoteConfig
	JWT       JWTConfig
	Session   SessionConfig
	Mirror    MirrorConfig
	DB        DBConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Mail      MailConfig
	Telemetry TelemetryConfig
	RateLimit RateLimitConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RemoteConfig apunta a la API REST de estoque (fuente de verdad de productos y movimientos).
type RemoteConfig struct {
	BaseURL        string // ej. http://localhost:8000/api
	TimeoutSeconds int
}

// Timeout devuelve el timeout de red para cada llamada a la API remota.
func (c RemoteConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// JWTConfig configuración del token de sesión del dashboard.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// Backends de sesión soportados.
const (
	SessionBackendMemory   = "memory"
	SessionBackendPostgres = "postgres"
	SessionBackendRedis    = "redis"
)

// SessionConfig dónde se guardan las sesiones (tokens de la API remota) y cuánto duran.
type SessionConfig struct {
	Backend  string
	TTLHours int
}

// TTL duración máxima de una sesión sin renovar.
func (c SessionConfig) TTL() time.Duration {
	if c.TTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.TTLHours) * time.Hour
}

// MirrorConfig dónde se guarda el espejo local de productos (memory o postgres).
type MirrorConfig struct {
	Backend string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// RedisConfig conexión a Redis (solo si SESSION_BACKEND=redis).
type RedisConfig struct {
	URL string
}

// KafkaConfig publicación de alertas de estoque bajo. Sin brokers no se publica.
type KafkaConfig struct {
	Brokers       []string
	LowStockTopic string
}

// Enabled indica si hay brokers configurados.
func (c KafkaConfig) Enabled() bool { return len(c.Brokers) > 0 }

// MailConfig envío de alertas de estoque bajo por correo. Sin host o destinatarios no se envía.
type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       []string
}

// Enabled indica si el correo está configurado.
func (c MailConfig) Enabled() bool { return c.Host != "" && len(c.To) > 0 }

// TelemetryConfig OpenTelemetry (trazas y métricas vía OTLP/HTTP).
type TelemetryConfig struct {
	Enabled      bool
	OTLPEndpoint string
	ServiceName  string
}

// RateLimitConfig límite de peticiones por IP para las rutas públicas de auth.
type RateLimitConfig struct {
	AuthPerMinute int
	AuthBurst     int
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, REMOTE_BASE_URL, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	appName := getString(v, "APP_NAME", "toolgear-dashboard")
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     appName,
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Remote: RemoteConfig{
			BaseURL:        strings.TrimRight(getString(v, "REMOTE_BASE_URL", "http://localhost:8000/api"), "/"),
			TimeoutSeconds: getInt(v, "REMOTE_TIMEOUT_SECONDS", 10),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 480),
			Issuer:     getString(v, "JWT_ISSUER", appName),
		},
		Session: SessionConfig{
			Backend:  strings.ToLower(getString(v, "SESSION_BACKEND", SessionBackendMemory)),
			TTLHours: getInt(v, "SESSION_TTL_HOURS", 24),
		},
		Mirror: MirrorConfig{
			Backend: strings.ToLower(getString(v, "MIRROR_BACKEND", SessionBackendMemory)),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "toolgear_dashboard"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL: getString(v, "REDIS_URL", "redis://localhost:6379/0"),
		},
		Kafka: KafkaConfig{
			Brokers:       getList(v, "KAFKA_BROKERS"),
			LowStockTopic: getString(v, "KAFKA_LOW_STOCK_TOPIC", "estoque.baixo"),
		},
		Mail: MailConfig{
			Host:     getString(v, "SMTP_HOST", ""),
			Port:     getInt(v, "SMTP_PORT", 587),
			User:     getString(v, "SMTP_USER", ""),
			Password: getString(v, "SMTP_PASSWORD", ""),
			From:     getString(v, "SMTP_FROM", "estoque@toolgear.local"),
			To:       getList(v, "ALERT_MAIL_TO"),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBool(v, "OTEL_ENABLED", false),
			OTLPEndpoint: getString(v, "OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName:  getString(v, "OTEL_SERVICE_NAME", appName),
		},
		RateLimit: RateLimitConfig{
			AuthPerMinute: getInt(v, "AUTH_RATE_PER_MINUTE", 30),
			AuthBurst:     getInt(v, "AUTH_RATE_BURST", 10),
		},
	}

	switch cfg.Session.Backend {
	case SessionBackendMemory, SessionBackendPostgres, SessionBackendRedis:
	default:
		return nil, fmt.Errorf("SESSION_BACKEND inválido: %q", cfg.Session.Backend)
	}
	switch cfg.Mirror.Backend {
	case SessionBackendMemory, SessionBackendPostgres:
	default:
		return nil, fmt.Errorf("MIRROR_BACKEND inválido: %q", cfg.Mirror.Backend)
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return b
	}
	return def
}

// getList lee una lista separada por comas ("a,b , c").
func getList(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}
	var out []string
	for _, s := range strings.Split(v.GetString(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
