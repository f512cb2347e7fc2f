package config

// EnvPrefix is passed to envconfig; every field carries an explicit envconfig tag so the
// prefix only matters for untagged fields.
const EnvPrefix = "CONTACTBOOK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	DefaultSQLiteDSN = "file:contactbook.db?_foreign_keys=on"
)

const (
	EnvAppEnv   = "CONTACTBOOK_APP_ENV"
	EnvPort     = "CONTACTBOOK_APP_PORT"
	EnvLogLevel = "CONTACTBOOK_LOG_LEVEL"

	EnvDBDSN  = "CONTACTBOOK_DB_DSN"
	EnvDBHost = "CONTACTBOOK_DB_HOST"
	EnvDBUser = "CONTACTBOOK_DB_USER"
	EnvDBName = "CONTACTBOOK_DB_NAME"

	EnvRedisURL = "CONTACTBOOK_REDIS_URL"

	EnvJWTSecret              = "CONTACTBOOK_JWT_SECRET"
	EnvJWTIssuer              = "CONTACTBOOK_JWT_ISSUER"
	EnvJWTExpMins             = "CONTACTBOOK_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "CONTACTBOOK_REFRESH_TOKEN_TTL_MINUTES"

	EnvUseSQLite        = "CONTACTBOOK_USE_SQLITE"
	EnvContactsPageSize = "CONTACTBOOK_CONTACTS_PAGE_SIZE"
)

var componentDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
