package config

// EnvPrefix is the envconfig prefix shared by every setting.
const EnvPrefix = "SHOPMALL"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "SHOPMALL_DB_DSN"
	EnvDBHost = "SHOPMALL_DB_HOST"
	EnvDBUser = "SHOPMALL_DB_USER"
	EnvDBName = "SHOPMALL_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
