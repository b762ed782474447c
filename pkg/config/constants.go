package config

const (
	EnvPrefix = "KARIGARPAY"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	EnvAppEnv     = "KARIGARPAY_APP_ENV"
	EnvPort       = "KARIGARPAY_APP_PORT"
	EnvDBDSN      = "KARIGARPAY_DB_DSN"
	EnvDBHost     = "KARIGARPAY_DB_HOST"
	EnvDBUser     = "KARIGARPAY_DB_USER"
	EnvDBName     = "KARIGARPAY_DB_NAME"
	EnvRedisURL   = "KARIGARPAY_REDIS_URL"
	EnvJWTSecret  = "KARIGARPAY_JWT_SECRET"
	EnvJWTIssuer  = "KARIGARPAY_JWT_ISSUER"
	EnvJWTExpMins = "KARIGARPAY_JWT_EXPIRATION_MINUTES"

	EnvGCPProjectID = "KARIGARPAY_GCP_PROJECT_ID"

	EnvPubSubPayoutsTopic = "KARIGARPAY_PUBSUB_PAYOUTS_TOPIC"
	EnvPubSubPayoutsSub   = "KARIGARPAY_PUBSUB_PAYOUTS_SUBSCRIPTION"

	EnvRazorpayKeyID     = "KARIGARPAY_RAZORPAY_KEY_ID"
	EnvRazorpayKeySecret = "KARIGARPAY_RAZORPAY_KEY_SECRET"
	EnvRazorpayAccount   = "KARIGARPAY_RAZORPAY_ACCOUNT_NUMBER"

	EnvWebhookSecret = "KARIGARPAY_WEBHOOK_SECRET"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
