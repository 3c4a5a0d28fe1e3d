package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort        string
	AppEnv         string
	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	S3AvatarBucket  string
	S3PublicBaseURL string // e.g. https://cdn.example.com; empty falls back to s3:// URLs
	SNSTopicARN     string // empty disables verification events

	Gemini    ProviderConfig
	AIGateway ProviderConfig

	ResendAPIKey string
	MailFrom     string
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string

	OTP OTPConfig

	JWTPublicKeyPath string
	AllowedOrigins   []string // CORS allowed origins

	// TrustProxyHeaders takes the client address from X-Forwarded-For/X-Real-Ip.
	// Enable only behind a proxy that overwrites those headers.
	TrustProxyHeaders bool
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	EmailVerifications string
	Profiles           string
}

// ProviderConfig describes one upstream AI provider. An empty APIKey marks the
// provider as unavailable; it is never a startup error.
type ProviderConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Configured reports whether a credential was supplied.
func (p ProviderConfig) Configured() bool { return strings.TrimSpace(p.APIKey) != "" }

type OTPConfig struct {
	TTL            time.Duration
	ResendCooldown time.Duration
	StrictDelivery bool
	HashCost       int
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:        getEnv("APP_PORT", "3000"),
		AppEnv:         getEnv("APP_ENV", "development"),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			EmailVerifications: getEnv("DYNAMO_TABLE_EMAIL_VERIFICATIONS", "email_verifications"),
			Profiles:           getEnv("DYNAMO_TABLE_PROFILES", "profiles"),
		},
		S3AvatarBucket:  getEnv("S3_BUCKET_AVATARS", "avatars"),
		S3PublicBaseURL: strings.TrimRight(getEnv("S3_PUBLIC_BASE_URL", ""), "/"),
		SNSTopicARN:     getEnv("SNS_TOPIC_ARN", ""),
		Gemini: ProviderConfig{
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			BaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
			Model:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		},
		AIGateway: ProviderConfig{
			APIKey:  getEnv("LOVABLE_API_KEY", ""),
			BaseURL: getEnv("AI_GATEWAY_BASE_URL", "https://ai.gateway.lovable.dev"),
			Model:   getEnv("AI_GATEWAY_MODEL", "google/gemini-2.5-flash"),
		},
		ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		MailFrom:     getEnv("MAIL_FROM", "Fitness Hub <onboarding@resend.dev>"),
		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		OTP: OTPConfig{
			TTL:            getEnvDuration("OTP_TTL", 10*time.Minute),
			ResendCooldown: getEnvDuration("OTP_RESEND_COOLDOWN", 0),
			StrictDelivery: getEnvBool("OTP_STRICT_DELIVERY", false),
			HashCost:       getEnvInt("OTP_HASH_COST", 10),
		},
		JWTPublicKeyPath: getEnv("JWT_PUBLIC_KEY_PATH", ""),
		AllowedOrigins:   strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),

		TrustProxyHeaders: getEnvBool("TRUST_PROXY_HEADERS", false),
	}
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool {
	switch strings.ToLower(c.AppEnv) {
	case "prod", "production":
		return true
	}
	return false
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("90s", "10m").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
