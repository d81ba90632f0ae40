package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Launch modes
const (
	LaunchModeComingSoon = "coming_soon"
	LaunchModeOpen       = "open"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Supabase      SupabaseConfig
	Session       SessionConfig
	Launch        LaunchConfig
	MagicLink     MagicLinkConfig
	Cache         CacheConfig
	EventTriggers EventTriggersConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
	Storage       StorageConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	BaseURL        string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URL        string
	MaxConns   int32
	MinConns   int32
	CACertPath string
}

type SupabaseConfig struct {
	URL            string
	AnonKey        string
	JWTSecret      string // optional; enables signature checks on access tokens
	TimeoutSeconds int
}

type SessionConfig struct {
	CookieDomain    string
	CookieSecure    bool
	RefreshTTLHours int
}

type LaunchConfig struct {
	Mode     string
	DevHosts []string
}

type MagicLinkConfig struct {
	ConsumeOnUse bool
}

type CacheConfig struct {
	ProfileTTLSeconds   int
	DisableProfileCache bool
}

type EventTriggersConfig struct {
	SubscriberCreatedTriggerURL string
	StandupSubmittedTriggerURL  string
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	OTLPEndpoint      string
	OTLPInsecure      bool
	SampleRatio       float64
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

type StorageConfig struct {
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Endpoint        string
	Region          string
	UsePathStyle    bool
}

// Load reads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	cfg := load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func load() *Config {
	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("BASE_URL", "http://localhost:3000")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("DATABASE_MAX_CONNS", 10)
	v.SetDefault("DATABASE_MIN_CONNS", 1)
	v.SetDefault("SUPABASE_TIMEOUT_SECONDS", 10)
	v.SetDefault("COOKIE_DOMAIN", "")
	v.SetDefault("COOKIE_SECURE", true)
	v.SetDefault("SESSION_REFRESH_TTL_HOURS", 24*30)
	v.SetDefault("LAUNCH_MODE", LaunchModeComingSoon)
	v.SetDefault("DEV_HOSTS", "localhost:3000")
	v.SetDefault("MAGIC_LINK_CONSUME_ON_USE", false)
	v.SetDefault("PROFILE_CACHE_TTL", 300) // 5 minutes in seconds
	v.SetDefault("DISABLE_PROFILE_CACHE", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "/app/logs")
	v.SetDefault("O11Y_OTLP_ENDPOINT", "")
	v.SetDefault("O11Y_OTLP_INSECURE", true)
	v.SetDefault("O11Y_TRACE_SAMPLE_RATIO", 1.0)
	v.SetDefault("O11Y_SERVICE_NAME", "notethatdown-api")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "notethatdown")
	v.SetDefault("O11Y_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "notethatdown-api")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,alloc_objects,goroutines,mutex,block")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)
	v.SetDefault("STORAGE_REGION", "us-east-1")
	v.SetDefault("STORAGE_USE_PATH_STYLE", true)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // .env is optional

	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			BaseURL:        strings.TrimRight(v.GetString("BASE_URL"), "/"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_CORS_ORIGINS")),
		},
		Database: DatabaseConfig{
			URL:        v.GetString("DATABASE_URL"),
			MaxConns:   v.GetInt32("DATABASE_MAX_CONNS"),
			MinConns:   v.GetInt32("DATABASE_MIN_CONNS"),
			CACertPath: v.GetString("DATABASE_CA_CERT_PATH"),
		},
		Supabase: SupabaseConfig{
			URL:            strings.TrimRight(v.GetString("SUPABASE_URL"), "/"),
			AnonKey:        v.GetString("SUPABASE_ANON_KEY"),
			JWTSecret:      v.GetString("SUPABASE_JWT_SECRET"),
			TimeoutSeconds: v.GetInt("SUPABASE_TIMEOUT_SECONDS"),
		},
		Session: SessionConfig{
			CookieDomain:    v.GetString("COOKIE_DOMAIN"),
			CookieSecure:    v.GetBool("COOKIE_SECURE"),
			RefreshTTLHours: v.GetInt("SESSION_REFRESH_TTL_HOURS"),
		},
		Launch: LaunchConfig{
			Mode:     strings.ToLower(strings.TrimSpace(v.GetString("LAUNCH_MODE"))),
			DevHosts: splitList(v.GetString("DEV_HOSTS")),
		},
		MagicLink: MagicLinkConfig{
			ConsumeOnUse: v.GetBool("MAGIC_LINK_CONSUME_ON_USE"),
		},
		Cache: CacheConfig{
			ProfileTTLSeconds:   v.GetInt("PROFILE_CACHE_TTL"),
			DisableProfileCache: v.GetBool("DISABLE_PROFILE_CACHE"),
		},
		EventTriggers: EventTriggersConfig{
			SubscriberCreatedTriggerURL: v.GetString("SUBSCRIBER_CREATED_TRIGGER_URL"),
			StandupSubmittedTriggerURL:  v.GetString("STANDUP_SUBMITTED_TRIGGER_URL"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			OTLPEndpoint:      v.GetString("O11Y_OTLP_ENDPOINT"),
			OTLPInsecure:      v.GetBool("O11Y_OTLP_INSECURE"),
			SampleRatio:       v.GetFloat64("O11Y_TRACE_SAMPLE_RATIO"),
			ServiceName:       v.GetString("O11Y_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
		Storage: StorageConfig{
			AccessKeyID:     v.GetString("STORAGE_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("STORAGE_SECRET_ACCESS_KEY"),
			BucketName:      v.GetString("STORAGE_BUCKET_NAME"),
			Endpoint:        v.GetString("STORAGE_ENDPOINT"),
			Region:          v.GetString("STORAGE_REGION"),
			UsePathStyle:    v.GetBool("STORAGE_USE_PATH_STYLE"),
		},
	}
}

// splitList parses a comma-separated list, dropping blanks
func splitList(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Supabase.URL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.Supabase.AnonKey == "" {
		return fmt.Errorf("SUPABASE_ANON_KEY is required")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Server.BaseURL == "" {
		return fmt.Errorf("BASE_URL is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required")
	}

	switch c.Launch.Mode {
	case LaunchModeComingSoon, LaunchModeOpen:
	default:
		return fmt.Errorf("LAUNCH_MODE must be %q or %q, got %q", LaunchModeComingSoon, LaunchModeOpen, c.Launch.Mode)
	}

	if c.Observability.SampleRatio < 0 || c.Observability.SampleRatio > 1 {
		return fmt.Errorf("O11Y_TRACE_SAMPLE_RATIO must be between 0 and 1")
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// ValidateExport checks the settings the waitlist export needs on top of Validate
func (c *Config) ValidateExport() error {
	if c.Storage.BucketName == "" {
		return fmt.Errorf("STORAGE_BUCKET_NAME is required for exports")
	}
	if c.Storage.AccessKeyID == "" || c.Storage.SecretAccessKey == "" {
		return fmt.Errorf("STORAGE_ACCESS_KEY_ID and STORAGE_SECRET_ACCESS_KEY are required for exports")
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}

// ComingSoon reports whether public hosts are held on the coming-soon page
func (c *Config) ComingSoon() bool {
	return c.Launch.Mode == LaunchModeComingSoon
}
