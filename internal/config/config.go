package config

import (
	"os"
	"strings"
)

type Config struct {
	MongoURI          string
	PostgresURI       string
	RedisURI          string
	Port              string
	AllowedOrigins    []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL/ADMIN_URL
	Environment       string   // ENV: production, development, etc.
	AllowReactivation bool     // Whether admins may move inactive therapists back to active
	TrustProxyHeaders bool     // Trust X-Forwarded-For / X-Real-IP for client IPs (set when behind a proxy)
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	// CORS: allow multiple origins so the client frontend and the admin console both work
	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		for _, u := range []string{getEnv("FRONTEND_URL", "http://localhost:3000"), getEnv("ADMIN_URL", "")} {
			u = strings.TrimSpace(u)
			if u != "" {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	return &Config{
		MongoURI:          getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017/therabridge")),
		PostgresURI:       getEnv("POSTGRES_URI", "postgres://localhost:5432/therabridge?sslmode=disable"),
		RedisURI:          getEnv("REDIS_URI", "redis://localhost:6379/0"),
		Port:              getEnv("PORT", "8080"),
		Environment:       env,
		AllowedOrigins:    allowedOrigins,
		AllowReactivation: getEnvBool("ALLOW_REACTIVATION", true),
		TrustProxyHeaders: getEnvBool("TRUST_PROXY_HEADERS", false),
	}
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return defaultValue
}
