package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	PublicBaseURL string

	// Cross-origin policy for the submission endpoint. Comma-separated
	// allowlist; "*" allows any origin.
	CORSAllowedOrigins []string

	// reCAPTCHA verification
	RecaptchaEnabled   bool
	RecaptchaSecret    string
	RecaptchaThreshold float64

	// Lead storage selection. LeadsTable takes precedence over MongoURI;
	// with neither set the server falls back to the in-memory repository.
	LeadsTable    string
	MongoURI      string
	MongoDatabase string

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Notification email. The alert is skipped when the provider has no
	// credentials or NotifyTo is empty.
	EmailProvider     string
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	NotifyTo          string

	// Admin surface
	AdminJWTSecret     string
	AdminAllowedDomain string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),

		CORSAllowedOrigins: splitAndTrim(getEnv("CORS_ORIGIN", "")),

		RecaptchaEnabled:   getEnvAsBool("RECAPTCHA_ENABLED", true),
		RecaptchaSecret:    getEnv("RECAPTCHA_SECRET", ""),
		RecaptchaThreshold: getEnvAsFloat("RECAPTCHA_THRESHOLD", 0.5),

		LeadsTable:    getEnv("LEADS_TABLE", ""),
		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDatabase: getEnv("MONGO_DATABASE", "leadgate"),

		AWSRegion:           getEnv("AWS_REGION", "eu-central-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		EmailProvider:     strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "sendgrid"))),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", "no-reply@evrodrive.eu"),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "EV Sales Bot"),
		NotifyTo:          getEnv("MAIL_TO", ""),

		AdminJWTSecret:     getEnv("ADMIN_JWT_SECRET", ""),
		AdminAllowedDomain: getEnv("ADMIN_ALLOWED_EMAIL_DOMAIN", ""),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsFloat retrieves an environment variable as a float or returns a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
