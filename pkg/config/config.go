package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Eventing     EventingConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Razorpay     RazorpayConfig
	Payout       PayoutConfig
	Webhook      WebhookConfig
	Outbox       OutboxConfig
	Cron         CronConfig
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
	Env          string `envconfig:"KARIGARPAY_APP_ENV" required:"true"`
	Port         string `envconfig:"KARIGARPAY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"KARIGARPAY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KARIGARPAY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"KARIGARPAY_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"KARIGARPAY_DB_DSN"`
	Driver string `envconfig:"KARIGARPAY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"KARIGARPAY_DB_HOST"`
	LegacyPort     int    `envconfig:"KARIGARPAY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"KARIGARPAY_DB_USER"`
	LegacyPassword string `envconfig:"KARIGARPAY_DB_PASSWORD"`
	LegacyName     string `envconfig:"KARIGARPAY_DB_NAME"`
	LegacySSLMode  string `envconfig:"KARIGARPAY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KARIGARPAY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KARIGARPAY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KARIGARPAY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KARIGARPAY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KARIGARPAY_REDIS_URL" required:"true"`
	Address      string        `envconfig:"KARIGARPAY_REDIS_ADDR"`
	Password     string        `envconfig:"KARIGARPAY_REDIS_PASSWORD"`
	DB           int           `envconfig:"KARIGARPAY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KARIGARPAY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KARIGARPAY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KARIGARPAY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KARIGARPAY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KARIGARPAY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"KARIGARPAY_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"KARIGARPAY_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"KARIGARPAY_JWT_EXPIRATION_MINUTES" required:"true"`
}

// Expiration returns the access token TTL configured in minutes.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"KARIGARPAY_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"KARIGARPAY_AUTO_MIGRATE" default:"false"`
}

type EventingConfig struct {
	OutboxIdempotencyTTL time.Duration `envconfig:"KARIGARPAY_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"KARIGARPAY_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"KARIGARPAY_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"KARIGARPAY_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	PayoutsTopic        string `envconfig:"KARIGARPAY_PUBSUB_PAYOUTS_TOPIC" required:"true"`
	PayoutsSubscription string `envconfig:"KARIGARPAY_PUBSUB_PAYOUTS_SUBSCRIPTION" required:"true"`
}

type RazorpayConfig struct {
	KeyID         string        `envconfig:"KARIGARPAY_RAZORPAY_KEY_ID" required:"true"`
	KeySecret     string        `envconfig:"KARIGARPAY_RAZORPAY_KEY_SECRET" required:"true"`
	AccountNumber string        `envconfig:"KARIGARPAY_RAZORPAY_ACCOUNT_NUMBER" required:"true"`
	BaseURL       string        `envconfig:"KARIGARPAY_RAZORPAY_BASE_URL" default:"https://api.razorpay.com/v1"`
	Timeout       time.Duration `envconfig:"KARIGARPAY_RAZORPAY_TIMEOUT" default:"15s"`
	Mode          string        `envconfig:"KARIGARPAY_RAZORPAY_PAYOUT_MODE" default:"IMPS"`
}

type PayoutConfig struct {
	PlatformFeePercent string        `envconfig:"KARIGARPAY_PAYOUT_FEE_PERCENT" default:"15"`
	Currency           string        `envconfig:"KARIGARPAY_PAYOUT_CURRENCY" default:"INR"`
	PendingBatchSize   int           `envconfig:"KARIGARPAY_PAYOUT_PENDING_BATCH_SIZE" default:"50"`
	StuckThreshold     time.Duration `envconfig:"KARIGARPAY_PAYOUT_STUCK_THRESHOLD" default:"30m"`
	SnapshotCacheTTL   time.Duration `envconfig:"KARIGARPAY_PAYOUT_SNAPSHOT_CACHE_TTL" default:"5m"`
	ProcessDelay       time.Duration `envconfig:"KARIGARPAY_PAYOUT_PROCESS_DELAY" default:"2s"`
}

type WebhookConfig struct {
	Secret string `envconfig:"KARIGARPAY_WEBHOOK_SECRET" required:"true"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"KARIGARPAY_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"KARIGARPAY_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"KARIGARPAY_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"KARIGARPAY_CRON_INTERVAL" default:"5m"`
	LockTTL  time.Duration `envconfig:"KARIGARPAY_CRON_LOCK_TTL" default:"4m"`
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
