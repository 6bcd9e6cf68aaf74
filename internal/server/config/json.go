package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/waulty/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Every field is optional; only the
// keys present in the file override the current values. Durations accept
// "8h"-style strings or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP             *string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC             *string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                  *string         `json:"database_dsn"`
	SecretKey                    *string         `json:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	MagicLinkValidityDuration    *timex.Duration `json:"magic_link_validity_duration"`
	PublicBaseURL                *string         `json:"public_base_url"`
	DecisionFallbackEmail        *string         `json:"decision_fallback_email"`
	StrictTransitions            *bool           `json:"strict_transitions"`
	DecisionRatePerSecond        *float64        `json:"decision_rate_per_second"`
	DecisionRateBurst            *int            `json:"decision_rate_burst"`
	ExportDir                    *string         `json:"export_dir"`
	S3RootUser                   *string         `json:"s3_root_user"`
	S3RootPassword               *string         `json:"s3_root_password"`
	S3Bucket                     *string         `json:"s3_bucket"`
	S3Region                     *string         `json:"s3_region"`
	S3BaseEndpoint               *string         `json:"s3_base_endpoint"`
	AdminEmail                   *string         `json:"admin_email"`
	AdminPassword                *string         `json:"admin_password"`
	AllowedOrigins               []string        `json:"allowed_origins"`
	LogLevel                     *string         `json:"log_level"`
}

// parseJson overlays values from the JSON file named by -c / -config.
// Without the flag nothing is loaded. An unreadable file or invalid JSON
// panics, since the server cannot start with a half-applied configuration.
func parseJson(config *Config) {
	path := configFilePath()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.applyTo(config)
}

func (c *JsonConfig) applyTo(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.RefreshTokenValidityDuration, c.RefreshTokenValidityDuration)
	setDuration(&config.MagicLinkValidityDuration, c.MagicLinkValidityDuration)
	setString(&config.PublicBaseURL, c.PublicBaseURL)
	setString(&config.DecisionFallbackEmail, c.DecisionFallbackEmail)
	if c.StrictTransitions != nil {
		config.StrictTransitions = *c.StrictTransitions
	}
	if c.DecisionRatePerSecond != nil {
		config.DecisionRatePerSecond = *c.DecisionRatePerSecond
	}
	if c.DecisionRateBurst != nil {
		config.DecisionRateBurst = *c.DecisionRateBurst
	}
	setString(&config.ExportDir, c.ExportDir)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.AdminEmail, c.AdminEmail)
	setString(&config.AdminPassword, c.AdminPassword)
	if c.AllowedOrigins != nil {
		config.AllowedOrigins = c.AllowedOrigins
	}
	setString(&config.LogLevel, c.LogLevel)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
