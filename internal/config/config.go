package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds application level configuration loaded from environment variables
// and, when CONFIG_PATH is set, a YAML file. Environment variables win over the file.
type Config struct {
	ServerPort string `yaml:"server_port" env:"SERVER_PORT" env-default:"3000"`

	DBDriver       string        `yaml:"db_driver" env:"DB_DRIVER" env-default:"postgres"`
	DatabaseDSN    string        `yaml:"database_dsn" env:"DATABASE_DSN" env-default:"host=localhost user=postgres password=postgres dbname=news_app port=5432 sslmode=disable TimeZone=UTC"`
	DBTimeout      time.Duration `yaml:"db_timeout" env:"DB_TIMEOUT" env-default:"5s"`
	DBMaxOpenConns int           `yaml:"db_max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"10"`
	DBMaxIdleConns int           `yaml:"db_max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	ResetDB        bool          `yaml:"reset_db" env:"RESET_DB" env-default:"false"`

	RedisAddr string `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisDB   int    `yaml:"redis_db" env:"REDIS_DB" env-default:"0"`
	RedisPass string `yaml:"redis_password" env:"REDIS_PASSWORD"`

	SessionSecret string        `yaml:"session_secret" env:"SESSION_SECRET" env-default:"change-me"`
	SessionTTL    time.Duration `yaml:"session_ttl" env:"SESSION_TTL" env-default:"24h"`
	CookieSecure  bool          `yaml:"cookie_secure" env:"COOKIE_SECURE" env-default:"false"`

	StaticDir     string `yaml:"static_dir" env:"STATIC_DIR" env-default:"public"`
	UploadDir     string `yaml:"upload_dir" env:"UPLOAD_DIR" env-default:"public/uploads"`
	MaxUploadSize string `yaml:"max_upload_size" env:"MAX_UPLOAD_SIZE" env-default:"5M"`

	PageSize int `yaml:"page_size" env:"PAGE_SIZE" env-default:"6"`

	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`

	SwaggerHost string `yaml:"swagger_host" env:"SWAGGER_HOST"`
}

// Load builds Config from the optional CONFIG_PATH file and the environment.
func Load() (*Config, error) {
	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DBTimeout <= 0 {
		return fmt.Errorf("DB_TIMEOUT must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive")
	}
	return nil
}

// Usage returns the environment variable help text.
func Usage() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return text
}
