package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Vodeneev/leonspider/internal/parser/seed"
)

type Config struct {
	Leon     LeonConfig     `yaml:"leon"`
	Retry    RetryConfig    `yaml:"retry"`
	Harvest  HarvestConfig  `yaml:"harvest"`
	Report   ReportConfig   `yaml:"report"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Telegram TelegramConfig `yaml:"telegram"`
	Seeds    SeedsConfig    `yaml:"seeds"`
}

type LeonConfig struct {
	BaseURL    string        `yaml:"base_url"`
	EventsPath string        `yaml:"events_path"` // league events listing
	EventPath  string        `yaml:"event_path"`  // single event with all markets
	Locale     string        `yaml:"locale"`      // ctag query parameter
	Timeout    time.Duration `yaml:"timeout"`
	UserAgent  string        `yaml:"user_agent"`
}

type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
}

type HarvestConfig struct {
	SeedDir          string   `yaml:"seed_dir"`
	SportPages       []string `yaml:"sport_pages"` // report order
	Workers          int      `yaml:"workers"`
	MatchesPerLeague int      `yaml:"matches_per_league"`
}

type ReportConfig struct {
	FilePath string `yaml:"file_path"`
}

type ServerConfig struct {
	Port              int           `yaml:"port"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	CORSOrigins       []string      `yaml:"cors_origins"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // DEBUG, INFO, WARN, ERROR
	Format string `yaml:"format"` // text or json
	File   string `yaml:"file"`   // optional, appended to in addition to stdout
}

type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token"` // can be set via TELEGRAM_BOT_TOKEN env
	ChatID   int64  `yaml:"chat_id"`
}

type SeedsConfig struct {
	URLs    map[string]string `yaml:"urls"` // sport page name -> live Leon page
	Wait    time.Duration     `yaml:"wait"`
	Timeout time.Duration     `yaml:"timeout"`
}

// Default returns the configuration used when no file overrides a value.
func Default() *Config {
	return &Config{
		Leon: LeonConfig{
			BaseURL:    "https://leon.ru",
			EventsPath: "/api-2/betline/events/all",
			EventPath:  "/api-2/betline/event/all",
			Locale:     "en-US",
			Timeout:    30 * time.Second,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   time.Second,
		},
		Harvest: HarvestConfig{
			SeedDir:          "sport-pages",
			SportPages:       append([]string(nil), seed.DefaultSports...),
			Workers:          3,
			MatchesPerLeague: 2,
		},
		Report: ReportConfig{FilePath: "report.txt"},
		Server: ServerConfig{
			Port:              8080,
			ReadHeaderTimeout: 5 * time.Second,
		},
		Logging: LoggingConfig{Level: "INFO", Format: "text"},
		Seeds: SeedsConfig{
			URLs: map[string]string{
				"football":   "https://leon.ru/bets/soccer",
				"tennis":     "https://leon.ru/bets/tennis",
				"basketball": "https://leon.ru/bets/basketball",
				"esports":    "https://leon.ru/bets/esports",
			},
			Wait:    5 * time.Second,
			Timeout: 60 * time.Second,
		},
	}
}

// Load reads the YAML file at configPath on top of Default. A missing file
// is an error; an empty path yields the defaults.
func Load(configPath string) (*Config, error) {
	config := Default()
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		config.Telegram.BotToken = token
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Validate() error {
	if c.Leon.BaseURL == "" {
		return fmt.Errorf("leon.base_url must be set")
	}
	if c.Leon.EventsPath == "" || c.Leon.EventPath == "" {
		return fmt.Errorf("leon.events_path and leon.event_path must be set")
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	if c.Retry.BaseDelay <= 0 {
		return fmt.Errorf("retry.base_delay must be positive")
	}
	if len(c.Harvest.SportPages) == 0 {
		return fmt.Errorf("harvest.sport_pages must not be empty")
	}
	if c.Harvest.Workers < 1 {
		return fmt.Errorf("harvest.workers must be at least 1, got %d", c.Harvest.Workers)
	}
	if c.Harvest.MatchesPerLeague < 1 {
		return fmt.Errorf("harvest.matches_per_league must be at least 1, got %d", c.Harvest.MatchesPerLeague)
	}
	if c.Report.FilePath == "" {
		return fmt.Errorf("report.file_path must be set")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Telegram.Enabled && (c.Telegram.BotToken == "" || c.Telegram.ChatID == 0) {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id are required when telegram is enabled")
	}
	return nil
}
