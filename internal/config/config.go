package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/audience-scope/internal/audience"
	"github.com/Veraticus/audience-scope/internal/common"
)

// EnvPrefix prefixes every environment override, e.g. SCOPE_VK_TOKEN.
const EnvPrefix = "SCOPE"

// Config is the typed application configuration.
type Config struct {
	Logging    LoggingConfig
	VK         VKConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Server     ServerConfig
	Categories []audience.Category
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string
	Format string
}

// VKConfig configures the VK API client.
type VKConfig struct {
	Token        string
	APIVersion   string
	BaseURL      string
	RequestDelay time.Duration
	MaxMembers   int
}

// DatabaseConfig points at SQLite or PostgreSQL.
type DatabaseConfig struct {
	URL string
}

// RedisConfig enables the report cache when URL is set.
type RedisConfig struct {
	URL string
	TTL time.Duration
}

// ServerConfig configures the HTTP API. With TLS set the API is served over
// HTTPS using a self-signed certificate kept in CertDir.
type ServerConfig struct {
	Addr           string
	CertDir        string
	AllowedOrigins []string
	TLSHosts       []string
	TLS            bool
}

// SetDefaults registers default values and environment binding on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("vk.api_version", "5.199")
	v.SetDefault("vk.base_url", "https://api.vk.com/method")
	v.SetDefault("vk.request_delay", 340*time.Millisecond)
	v.SetDefault("vk.max_members", 10000)
	v.SetDefault("database.url", "~/.local/share/scope/scope.db")
	v.SetDefault("redis.ttl", 6*time.Hour)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.tls", false)
	v.SetDefault("server.cert_dir", "~/.local/share/scope/certs")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads the typed configuration out of v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
		VK: VKConfig{
			Token:        v.GetString("vk.token"),
			APIVersion:   v.GetString("vk.api_version"),
			BaseURL:      strings.TrimRight(v.GetString("vk.base_url"), "/"),
			RequestDelay: v.GetDuration("vk.request_delay"),
			MaxMembers:   v.GetInt("vk.max_members"),
		},
		Database: DatabaseConfig{
			URL: v.GetString("database.url"),
		},
		Redis: RedisConfig{
			URL: v.GetString("redis.url"),
			TTL: v.GetDuration("redis.ttl"),
		},
		Server: ServerConfig{
			Addr:           v.GetString("server.addr"),
			CertDir:        ExpandPath(v.GetString("server.cert_dir")),
			AllowedOrigins: v.GetStringSlice("server.allowed_origins"),
			TLSHosts:       v.GetStringSlice("server.tls_hosts"),
			TLS:            v.GetBool("server.tls"),
		},
	}

	if v.IsSet("audience.categories") {
		if err := v.UnmarshalKey("audience.categories", &cfg.Categories); err != nil {
			return nil, fmt.Errorf("%w: audience.categories: %w", common.ErrInvalidConfig, err)
		}
	}

	if !strings.Contains(cfg.Database.URL, "://") {
		cfg.Database.URL = ExpandPath(cfg.Database.URL)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that have no sensible fallback.
func (c *Config) Validate() error {
	switch {
	case c.VK.MaxMembers <= 0:
		return fmt.Errorf("%w: vk.max_members must be positive", common.ErrInvalidConfig)
	case c.VK.RequestDelay < 0:
		return fmt.Errorf("%w: vk.request_delay must not be negative", common.ErrInvalidConfig)
	case c.VK.BaseURL == "":
		return fmt.Errorf("%w: vk.base_url is empty", common.ErrInvalidConfig)
	case c.Database.URL == "":
		return fmt.Errorf("%w: database.url is empty", common.ErrInvalidConfig)
	case c.Redis.URL != "" && c.Redis.TTL <= 0:
		return fmt.Errorf("%w: redis.ttl must be positive", common.ErrInvalidConfig)
	}
	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}

// RequireVKToken fails for commands that talk to the VK API without a token.
func (c *Config) RequireVKToken() error {
	if strings.TrimSpace(c.VK.Token) == "" {
		return common.NewUserError(
			"VK access token is not configured; set vk.token or "+EnvPrefix+"_VK_TOKEN",
			common.ErrMissingConfig,
		)
	}
	return nil
}

// Dictionary builds the category dictionary, replacing the default categories
// when the configuration lists its own.
func (c *Config) Dictionary() (*audience.Dictionary, error) {
	if len(c.Categories) == 0 {
		return audience.DefaultDictionary(), nil
	}
	dcfg := audience.DefaultDictionaryConfig()
	dcfg.Categories = c.Categories
	dict, err := audience.NewDictionary(dcfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	return dict, nil
}
