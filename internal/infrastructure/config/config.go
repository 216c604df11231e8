package config

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Site    SiteConfig
	Session SessionConfig
	Discord DiscordConfig
	Errors  ErrorsConfig
	Jobs    JobsConfig
	Notify  NotifyConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type SiteConfig struct {
	ProductName string `env:"SITE_PRODUCT_NAME,       default=XIVAPI"`
	ShowErrors  bool   `env:"SITE_CONFIG_SHOW_ERRORS, default=false"`
	DeployRoot  string `env:"SITE_DEPLOY_ROOT,        default=/home/dalamud/"`
	LocalMarker string `env:"SITE_LOCAL_MARKER,       default=vagrant"`
}

type SessionConfig struct {
	TokenKey     string        `env:"SESSION_TOKEN_KEY"`
	SecureCookie bool          `env:"SESSION_SECURE_COOKIE, default=true"`
	StateSecret  string        `env:"SSO_STATE_SECRET"`
	StateTTL     time.Duration `env:"SSO_STATE_TTL,         default=10m"`
}

type DiscordConfig struct {
	ClientID     string `env:"DISCORD_CLIENT_ID"`
	ClientSecret string `env:"DISCORD_CLIENT_SECRET"`
	RedirectURL  string `env:"DISCORD_REDIRECT_URL"`
	BotToken     string `env:"DISCORD_BOT_TOKEN"`
	ErrorChannel string `env:"DISCORD_ERROR_CHANNEL"`
	RoleAPIURL   string `env:"DISCORD_ROLE_API_URL"`
	RoleAPIToken string `env:"DISCORD_ROLE_API_TOKEN"`
}

type ErrorsConfig struct {
	SuppressCodes []int         `env:"ERRORS_SUPPRESS_CODES, default=404"`
	DedupPrefix   string        `env:"ERRORS_DEDUP_PREFIX,   default=error_"`
	DedupTTL      time.Duration `env:"ERRORS_DEDUP_TTL,      default=0s"`
}

type JobsConfig struct {
	TierSyncSchedule string `env:"JOBS_TIER_SYNC_SCHEDULE, default=0 0 */6 * * *"`
}

type NotifyConfig struct {
	Workers     int           `env:"NOTIFY_WORKERS,      default=2"`
	SendTimeout time.Duration `env:"NOTIFY_SEND_TIMEOUT, default=10s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017/?replicaSet=rs0"`
	Database string `env:"MONGO_DB,  default=common"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.fillDevSecrets(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev"
}

func (c *Config) validate() error {
	if c.Session.StateSecret == "" && !c.IsDevelopment() {
		return fmt.Errorf("SSO_STATE_SECRET is required outside development")
	}
	if c.Session.TokenKey == "" && !c.IsDevelopment() {
		return fmt.Errorf("SESSION_TOKEN_KEY is required outside development")
	}
	return nil
}

// fillDevSecrets generates throwaway secrets in development so a local run
// needs no setup. Sessions do not survive a restart.
func (c *Config) fillDevSecrets() error {
	for _, secret := range []*string{&c.Session.StateSecret, &c.Session.TokenKey} {
		if *secret != "" {
			continue
		}
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return fmt.Errorf("generate dev secret: %w", err)
		}
		*secret = hex.EncodeToString(buf)
	}
	return nil
}
