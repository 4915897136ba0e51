package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the namespace applied to every environment variable.
const EnvPrefix = "SUNITAS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "SUNITAS_DB_DSN"
	EnvDBHost = "SUNITAS_DB_HOST"
	EnvDBUser = "SUNITAS_DB_USER"
	EnvDBName = "SUNITAS_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Cart         CartConfig
	HTTP         HTTPConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SUNITAS_APP_ENV" required:"true"`
	Port         string `envconfig:"SUNITAS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SUNITAS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SUNITAS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SUNITAS_DB_DSN"`
	Driver string `envconfig:"SUNITAS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SUNITAS_DB_HOST"`
	LegacyPort     int    `envconfig:"SUNITAS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SUNITAS_DB_USER"`
	LegacyPassword string `envconfig:"SUNITAS_DB_PASSWORD"`
	LegacyName     string `envconfig:"SUNITAS_DB_NAME"`
	LegacySSLMode  string `envconfig:"SUNITAS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SUNITAS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SUNITAS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SUNITAS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SUNITAS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SUNITAS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SUNITAS_REDIS_ADDR"`
	Password     string        `envconfig:"SUNITAS_REDIS_PASSWORD"`
	DB           int           `envconfig:"SUNITAS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SUNITAS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SUNITAS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SUNITAS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SUNITAS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SUNITAS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SUNITAS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SUNITAS_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SUNITAS_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// AccessTokenTTL returns the configured access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SUNITAS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SUNITAS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SUNITAS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SUNITAS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SUNITAS_ARGON_KEY_LEN" default:"32"`
}

type CartConfig struct {
	SessionCookieName string `envconfig:"SUNITAS_CART_SESSION_COOKIE" default:"cart_session_id"`
}

type HTTPConfig struct {
	AllowedOrigins []string `envconfig:"SUNITAS_HTTP_ALLOWED_ORIGINS" default:"*"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SUNITAS_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
