package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names so the
// prefix only matters for variables without a tag.
const EnvPrefix = "MADARSA"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv                 = "MADARSA_APP_ENV"
	EnvPort                   = "MADARSA_APP_PORT"
	EnvDBDSN                  = "MADARSA_DB_DSN"
	EnvDBHost                 = "MADARSA_DB_HOST"
	EnvDBUser                 = "MADARSA_DB_USER"
	EnvDBName                 = "MADARSA_DB_NAME"
	EnvRedisURL               = "MADARSA_REDIS_URL"
	EnvJWTSecret              = "MADARSA_JWT_SECRET"
	EnvJWTIssuer              = "MADARSA_JWT_ISSUER"
	EnvJWTExpMins             = "MADARSA_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "MADARSA_REFRESH_TOKEN_TTL_MINUTES"
	EnvGCPProjectID           = "MADARSA_GCP_PROJECT_ID"
	EnvGCSBucket              = "MADARSA_GCS_BUCKET_NAME"
	EnvPubSubInstitutionTopic = "MADARSA_PUBSUB_INSTITUTION_TOPIC"
	EnvPubSubInstitutionSub   = "MADARSA_PUBSUB_INSTITUTION_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
