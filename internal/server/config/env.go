package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix namespaces every environment variable read by the server.
const EnvPrefix = "WAULTY_"

// envFile is the dotenv file loaded before reading the environment. A
// missing file is not an error.
var envFile = ".env"

// parseEnv overlays WAULTY_* environment variables. Variables already set in
// the process environment win over values from the dotenv file.
// Malformed numeric, boolean or duration values are ignored.
func parseEnv(config *Config) {
	_ = godotenv.Load(envFile)

	envString(&config.EndpointAddrHTTP, "HTTP_ADDR")
	envString(&config.EndpointAddrGRPC, "GRPC_ADDR")
	envString(&config.DatabaseDSN, "DATABASE_DSN")
	envString(&config.SecretKey, "SECRET_KEY")
	envDuration(&config.AccessTokenValidityDuration, "ACCESS_TOKEN_TTL")
	envDuration(&config.RefreshTokenValidityDuration, "REFRESH_TOKEN_TTL")
	envDuration(&config.MagicLinkValidityDuration, "MAGIC_LINK_TTL")
	envString(&config.PublicBaseURL, "PUBLIC_BASE_URL")
	envString(&config.DecisionFallbackEmail, "DECISION_FALLBACK_EMAIL")
	if v, ok := lookup("STRICT_TRANSITIONS"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			config.StrictTransitions = b
		}
	}
	if v, ok := lookup("DECISION_RATE_PER_SECOND"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.DecisionRatePerSecond = f
		}
	}
	if v, ok := lookup("DECISION_RATE_BURST"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			config.DecisionRateBurst = n
		}
	}
	envString(&config.ExportDir, "EXPORT_DIR")
	envString(&config.S3RootUser, "S3_ROOT_USER")
	envString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	envString(&config.S3Bucket, "S3_BUCKET")
	envString(&config.S3Region, "S3_REGION")
	envString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	envString(&config.AdminEmail, "ADMIN_EMAIL")
	envString(&config.AdminPassword, "ADMIN_PASSWORD")
	if v, ok := lookup("ALLOWED_ORIGINS"); ok {
		config.AllowedOrigins = splitList(v)
	}
	envString(&config.LogLevel, "LOG_LEVEL")
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func envString(dst *string, name string) {
	if v, ok := lookup(name); ok {
		*dst = v
	}
}

func envDuration(dst *time.Duration, name string) {
	if v, ok := lookup(name); ok {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
