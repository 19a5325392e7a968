package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Bot      BotConfig      `mapstructure:"bot"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Learning LearningConfig `mapstructure:"learning"`
	Context  ContextConfig  `mapstructure:"context"`
}

type TelegramConfig struct {
	Token   string `mapstructure:"token"`
	Timeout int    `mapstructure:"timeout"`
}

type BotConfig struct {
	Name        string        `mapstructure:"name"`
	TypingDelay time.Duration `mapstructure:"typing_delay"`
}

type StorageConfig struct {
	Backend      string         `mapstructure:"backend"`
	Dir          string         `mapstructure:"dir"`
	KnowledgeKey string         `mapstructure:"knowledge_key"`
	AutoReplyKey string         `mapstructure:"autoreply_key"`
	Database     DatabaseConfig `mapstructure:"database"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type LearningConfig struct {
	// PersistEvery writes the knowledge snapshot after every n-th vocabulary growth
	PersistEvery int `mapstructure:"persist_every"`
}

type ContextConfig struct {
	MaxSenders int           `mapstructure:"max_senders"`
	TTL        time.Duration `mapstructure:"ttl"`
}

func parseDatabaseURL(dbURL string) (DatabaseConfig, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return DatabaseConfig{}, err
	}

	password, _ := u.User.Password()
	port := 5432 // default PostgreSQL port
	if u.Port() != "" {
		fmt.Sscanf(u.Port(), "%d", &port)
	}

	sslMode := u.Query().Get("sslmode")
	if sslMode == "" {
		sslMode = "disable"
	}

	return DatabaseConfig{
		Host:     u.Hostname(),
		Port:     port,
		User:     u.User.Username(),
		Password: password,
		DBName:   strings.TrimPrefix(u.Path, "/"),
		SSLMode:  sslMode,
	}, nil
}

// LoadConfig reads path if it exists; defaults and environment variables fill the rest
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("telegram.timeout", 60)
	v.SetDefault("bot.name", "XMD AI Bot")
	v.SetDefault("bot.typing_delay", time.Second)
	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.dir", "data")
	v.SetDefault("storage.knowledge_key", "ai_learning")
	v.SetDefault("storage.autoreply_key", "auto_replies")
	v.SetDefault("storage.database.port", 5432)
	v.SetDefault("storage.database.host", "localhost")
	v.SetDefault("storage.database.user", "postgres")
	v.SetDefault("storage.database.sslmode", "disable")
	v.SetDefault("learning.persist_every", 10)
	v.SetDefault("context.max_senders", 10000)
	v.SetDefault("context.ttl", 0)

	// Enable environment variable support
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config %q: %w", path, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	// Check for DATABASE_URL environment variable
	if dbURL := v.GetString("DATABASE_URL"); dbURL != "" {
		dbConfig, err := parseDatabaseURL(dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
		}
		config.Storage.Database = dbConfig
		config.Storage.Backend = BackendPostgres
	}

	if token := v.GetString("TELEGRAM_TOKEN"); token != "" {
		config.Telegram.Token = token
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects settings the bot cannot start with
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendPostgres, BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.KnowledgeKey == "" || c.Storage.AutoReplyKey == "" {
		return errors.New("storage keys must not be empty")
	}
	if c.Storage.KnowledgeKey == c.Storage.AutoReplyKey {
		return errors.New("knowledge and auto-reply snapshots need distinct keys")
	}
	if c.Learning.PersistEvery < 1 {
		return fmt.Errorf("learning.persist_every must be positive, got %d", c.Learning.PersistEvery)
	}
	if c.Context.MaxSenders < 0 {
		return fmt.Errorf("context.max_senders must not be negative, got %d", c.Context.MaxSenders)
	}
	return nil
}
