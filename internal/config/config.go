package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	ErrDatabaseURLRequired = errors.New("DATABASE_URL is required")
	ErrJWTSecretRequired   = errors.New("APP_JWT_SECRET is required")
)

// Config holds the server settings. Values come from an optional YAML file
// named by CONFIG_FILE and are overridden by environment variables.
type Config struct {
	Port        string `yaml:"port"`
	DatabaseURL string `yaml:"database_url"`
	JWTSecret   string `yaml:"jwt_secret"`
	SeedDemo    bool   `yaml:"seed_demo"`

	GoogleMapsAPIKey  string `yaml:"google_maps_api_key"`
	DirectionsBaseURL string `yaml:"directions_base_url"`

	OpenWeatherAPIKey  string `yaml:"openweathermap_api_key"`
	OpenWeatherBaseURL string `yaml:"openweathermap_base_url"`

	BusinessName     string `yaml:"business_name"`
	BusinessAddress  string `yaml:"business_address"`
	BusinessTimezone string `yaml:"business_timezone"`

	RedisURL    string `yaml:"redis_url"`
	RabbitMQURL string `yaml:"rabbitmq_url"`

	FirebaseCredentialsBase64 string `yaml:"firebase_credentials_base64"`
	FirebaseCredentialsFile   string `yaml:"firebase_credentials_file"`

	WeatherRefreshInterval time.Duration `yaml:"weather_refresh_interval"`
	ReminderInterval       time.Duration `yaml:"reminder_interval"`
	AutoDelayInterval      time.Duration `yaml:"auto_delay_interval"`

	RateLimitRPS       float64  `yaml:"rate_limit_rps"`
	RateLimitBurst     int      `yaml:"rate_limit_burst"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

func defaults() Config {
	return Config{
		Port:                    "8080",
		BusinessName:            "Lawn Care",
		BusinessTimezone:        "UTC",
		FirebaseCredentialsFile: "./firebase-service-account.json",
		WeatherRefreshInterval:  3 * time.Hour,
		ReminderInterval:        15 * time.Minute,
		AutoDelayInterval:       time.Hour,
		RateLimitRPS:            10,
		RateLimitBurst:          20,
		CORSAllowedOrigins:      []string{"*"},
	}
}

// Load reads .env, then the CONFIG_FILE overlay, then the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables from system")
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
		log.Printf("✅ Config file loaded: %s", path)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	str := map[string]*string{
		"PORT":                        &c.Port,
		"DATABASE_URL":                &c.DatabaseURL,
		"APP_JWT_SECRET":              &c.JWTSecret,
		"GOOGLE_MAPS_API_KEY":         &c.GoogleMapsAPIKey,
		"DIRECTIONS_BASE_URL":         &c.DirectionsBaseURL,
		"OPENWEATHERMAP_API_KEY":      &c.OpenWeatherAPIKey,
		"OPENWEATHERMAP_BASE_URL":     &c.OpenWeatherBaseURL,
		"BUSINESS_NAME":               &c.BusinessName,
		"BUSINESS_ADDRESS":            &c.BusinessAddress,
		"BUSINESS_TIMEZONE":           &c.BusinessTimezone,
		"REDIS_URL":                   &c.RedisURL,
		"RABBITMQ_URL":                &c.RabbitMQURL,
		"FIREBASE_CREDENTIALS_BASE64": &c.FirebaseCredentialsBase64,
		"FIREBASE_CREDENTIALS_FILE":   &c.FirebaseCredentialsFile,
	}
	for key, dst := range str {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"WEATHER_REFRESH_INTERVAL": &c.WeatherRefreshInterval,
		"REMINDER_INTERVAL":        &c.ReminderInterval,
		"AUTO_DELAY_INTERVAL":      &c.AutoDelayInterval,
	}
	for key, dst := range durations {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = d
	}

	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
		}
		c.RateLimitRPS = rps
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
		}
		c.RateLimitBurst = burst
	}
	if v := os.Getenv("SEED_DEMO"); v != "" {
		seed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SEED_DEMO: %w", err)
		}
		c.SeedDemo = seed
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.CORSAllowedOrigins = nil
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				c.CORSAllowedOrigins = append(c.CORSAllowedOrigins, origin)
			}
		}
	}
	return nil
}

// Validate checks the settings the server cannot start without
func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, ErrDatabaseURLRequired)
	}
	if c.JWTSecret == "" {
		errs = append(errs, ErrJWTSecretRequired)
	}
	for name, d := range map[string]time.Duration{
		"weather_refresh_interval": c.WeatherRefreshInterval,
		"reminder_interval":        c.ReminderInterval,
		"auto_delay_interval":      c.AutoDelayInterval,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Location resolves BusinessTimezone
func (c *Config) Location() (*time.Location, error) {
	if c.BusinessTimezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.BusinessTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid business timezone %q: %w", c.BusinessTimezone, err)
	}
	return loc, nil
}
