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
	GCP           GCPConfig
	GCS           GCSConfig
	Media         MediaConfig
	PubSub        PubSubConfig
	Geocode       GeocodeConfig
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
	Env          string `envconfig:"MADARSA_APP_ENV" required:"true"`
	Port         string `envconfig:"MADARSA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MADARSA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MADARSA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MADARSA_DB_DSN"`
	Driver string `envconfig:"MADARSA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MADARSA_DB_HOST"`
	LegacyPort     int    `envconfig:"MADARSA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MADARSA_DB_USER"`
	LegacyPassword string `envconfig:"MADARSA_DB_PASSWORD"`
	LegacyName     string `envconfig:"MADARSA_DB_NAME"`
	LegacySSLMode  string `envconfig:"MADARSA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MADARSA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MADARSA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MADARSA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MADARSA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MADARSA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MADARSA_REDIS_ADDR"`
	Password     string        `envconfig:"MADARSA_REDIS_PASSWORD"`
	DB           int           `envconfig:"MADARSA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MADARSA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MADARSA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MADARSA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MADARSA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MADARSA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"MADARSA_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"MADARSA_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"MADARSA_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"MADARSA_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MADARSA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MADARSA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MADARSA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MADARSA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MADARSA_ARGON_KEY_LEN" default:"32"`
	MinLength        int `envconfig:"MADARSA_PASSWORD_MIN_LENGTH" default:"6"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"MADARSA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"MADARSA_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"MADARSA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"MADARSA_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"MADARSA_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"MADARSA_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MADARSA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MADARSA_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"MADARSA_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"MADARSA_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"MADARSA_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName    string `envconfig:"MADARSA_GCS_BUCKET_NAME" required:"true"`
	PublicBaseURL string `envconfig:"MADARSA_GCS_PUBLIC_BASE_URL" default:"https://storage.googleapis.com"`
}

type MediaConfig struct {
	InstitutionImageMaxKB int `envconfig:"MADARSA_MEDIA_INSTITUTION_IMAGE_MAX_KB" default:"2048"`
	StaffPhotoMaxKB       int `envconfig:"MADARSA_MEDIA_STAFF_PHOTO_MAX_KB" default:"500"`
}

// InstitutionImageMaxBytes returns the logo/cover upload cap in bytes.
func (m MediaConfig) InstitutionImageMaxBytes() int64 {
	return int64(m.InstitutionImageMaxKB) * 1024
}

// StaffPhotoMaxBytes returns the staff photo upload cap in bytes.
func (m MediaConfig) StaffPhotoMaxBytes() int64 {
	return int64(m.StaffPhotoMaxKB) * 1024
}

type PubSubConfig struct {
	InstitutionTopic        string `envconfig:"MADARSA_PUBSUB_INSTITUTION_TOPIC" required:"true"`
	InstitutionSubscription string `envconfig:"MADARSA_PUBSUB_INSTITUTION_SUBSCRIPTION" required:"true"`
}

type GeocodeConfig struct {
	BaseURL   string        `envconfig:"MADARSA_GEOCODE_BASE_URL" default:"https://nominatim.openstreetmap.org"`
	UserAgent string        `envconfig:"MADARSA_GEOCODE_USER_AGENT" default:"madarsa-backend"`
	Timeout   time.Duration `envconfig:"MADARSA_GEOCODE_TIMEOUT" default:"10s"`
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
		Path:   "/" + db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
