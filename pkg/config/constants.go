package config

// EnvPrefix is handed to envconfig; every variable also carries its full name
// in the struct tags so lookups work with or without the prefix applied.
const EnvPrefix = "salescap"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names shared between Load and the test helpers.
const (
	EnvAppEnv   = "SALESCAP_APP_ENV"
	EnvPort     = "SALESCAP_APP_PORT"
	EnvDBDSN    = "SALESCAP_DB_DSN"
	EnvDBHost   = "SALESCAP_DB_HOST"
	EnvDBUser   = "SALESCAP_DB_USER"
	EnvDBName   = "SALESCAP_DB_NAME"
	EnvRedisURL = "SALESCAP_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
