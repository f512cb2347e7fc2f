package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Contacts      ContactsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"CONTACTBOOK_APP_ENV" required:"true"`
	Port         string   `envconfig:"CONTACTBOOK_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"CONTACTBOOK_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"CONTACTBOOK_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"CONTACTBOOK_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CONTACTBOOK_DB_DSN"`
	Driver string `envconfig:"CONTACTBOOK_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"CONTACTBOOK_DB_HOST"`
	Port     int    `envconfig:"CONTACTBOOK_DB_PORT" default:"5432"`
	User     string `envconfig:"CONTACTBOOK_DB_USER"`
	Password string `envconfig:"CONTACTBOOK_DB_PASSWORD"`
	Name     string `envconfig:"CONTACTBOOK_DB_NAME"`
	SSLMode  string `envconfig:"CONTACTBOOK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CONTACTBOOK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CONTACTBOOK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CONTACTBOOK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CONTACTBOOK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver targets SQLite.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"CONTACTBOOK_REDIS_URL"`
	Address      string        `envconfig:"CONTACTBOOK_REDIS_ADDR"`
	Password     string        `envconfig:"CONTACTBOOK_REDIS_PASSWORD"`
	DB           int           `envconfig:"CONTACTBOOK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CONTACTBOOK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CONTACTBOOK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CONTACTBOOK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CONTACTBOOK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CONTACTBOOK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"CONTACTBOOK_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"CONTACTBOOK_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"CONTACTBOOK_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"CONTACTBOOK_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CONTACTBOOK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CONTACTBOOK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CONTACTBOOK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CONTACTBOOK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CONTACTBOOK_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"CONTACTBOOK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"CONTACTBOOK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"CONTACTBOOK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"CONTACTBOOK_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"CONTACTBOOK_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"CONTACTBOOK_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CONTACTBOOK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CONTACTBOOK_AUTO_MIGRATE" default:"false"`
}

type ContactsConfig struct {
	PageSize int `envconfig:"CONTACTBOOK_CONTACTS_PAGE_SIZE" default:"10"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if useSQLite {
		db.Driver = DriverSQLite
		if db.DSN == "" {
			db.DSN = DefaultSQLiteDSN
		}
		return nil
	}
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range componentDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
