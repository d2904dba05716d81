package config

import "os"

// Config holds everything read from the environment at startup. Secrets stay
// here; mutable site preferences live in the settings table instead.
type Config struct {
	Addr         string
	DatabasePath string
	SiteURL      string

	ResendAPIKey  string
	ResendBaseURL string
	EmailFrom     string

	UnsplashAccessKey string
	PexelsAPIKey      string

	OpenAIBaseURL string
	OpenAIToken   string
	OpenAIModel   string

	SessionSecret string
	UploadsDir    string
}

// Load reads the configuration from MOJBLOG_* environment variables,
// falling back to development defaults where a value is optional.
func Load() Config {
	return Config{
		Addr:         envOr("MOJBLOG_ADDR", ":37371"),
		DatabasePath: envOr("MOJBLOG_DB_PATH", "blog.db"),
		SiteURL:      envOr("MOJBLOG_SITE_URL", "http://localhost:37371"),

		ResendAPIKey:  os.Getenv("MOJBLOG_RESEND_API_KEY"),
		ResendBaseURL: envOr("MOJBLOG_RESEND_BASE_URL", "https://api.resend.com"),
		EmailFrom:     envOr("MOJBLOG_EMAIL_FROM", "newsletter@localhost"),

		UnsplashAccessKey: os.Getenv("MOJBLOG_UNSPLASH_ACCESS_KEY"),
		PexelsAPIKey:      os.Getenv("MOJBLOG_PEXELS_API_KEY"),

		OpenAIBaseURL: os.Getenv("MOJBLOG_OPENAI_BASE_URL"),
		OpenAIToken:   os.Getenv("MOJBLOG_OPENAI_TOKEN"),
		OpenAIModel:   envOr("MOJBLOG_OPENAI_MODEL", "gpt-4o-mini"),

		SessionSecret: envOr("MOJBLOG_SESSION_SECRET", "secret-key-should-be-changed"),
		UploadsDir:    envOr("MOJBLOG_UPLOADS_DIR", "uploads"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
