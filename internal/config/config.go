package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	GinMode          string
	LogLevel         string
	Database         DatabaseConfig
	Logto            LogtoConfig
	JWT              JWTConfig
	Session          SessionConfig
	ReportSigningKey string
	AdminUsers       []string
	TestMode         bool
	Location         *time.Location
}

type DatabaseConfig struct {
	URL string
}

type LogtoConfig struct {
	Endpoint      string
	AppID         string
	AppSecret     string
	RedirectURI   string
	PostLogoutURI string
}

type JWTConfig struct {
	Secret string
}

type SessionConfig struct {
	Secret string
	Secure bool
}

func Load() (*Config, error) {
	godotenv.Load()

	location, err := loadLocation(getEnv("FARM_TIMEZONE", os.Getenv("TZ")))
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:     getEnv("PORT", "8080"),
		GinMode:  getEnv("GIN_MODE", "debug"),
		LogLevel: getEnv("LOG_LEVEL", ""),
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Logto: LogtoConfig{
			Endpoint:      getEnv("LOGTO_ENDPOINT", ""),
			AppID:         getEnv("LOGTO_APP_ID", ""),
			AppSecret:     getEnv("LOGTO_APP_SECRET", ""),
			RedirectURI:   getEnv("LOGTO_REDIRECT_URI", ""),
			PostLogoutURI: getEnv("LOGTO_POST_LOGOUT_URI", ""),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", ""),
			Secure: getEnv("SESSION_SECURE", "false") == "true",
		},
		ReportSigningKey: getEnv("REPORT_SIGNING_KEY", ""),
		AdminUsers:       splitList(os.Getenv("ADMIN_USERS")),
		TestMode:         getEnv("TEST_MODE", "false") == "true",
		Location:         location,
	}, nil
}

// IsAdmin reports whether username is listed in ADMIN_USERS.
func (c *Config) IsAdmin(username string) bool {
	for _, admin := range c.AdminUsers {
		if admin == username {
			return true
		}
	}
	return false
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

func splitList(value string) []string {
	items := []string{}
	if value == "" {
		return items
	}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
