package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"BizBoost/internal/scenario"
)

// Advisor providers.
const (
	ProviderGemini = "gemini"
	ProviderChat   = "chat"
	ProviderCanned = "canned"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Catalog struct {
		Path            string `yaml:"path"`
		DefaultBusiness string `yaml:"default_business"`
	} `yaml:"catalog"`
	Simulation struct {
		HistoricalBoundary int                             `yaml:"historical_boundary"`
		CostPerEmployee    float64                         `yaml:"cost_per_employee"`
		Overrides          map[string]scenario.Assumptions `yaml:"overrides"`
	} `yaml:"simulation"`
	Advisor struct {
		Provider string        `yaml:"provider"`
		Model    string        `yaml:"model"`
		APIKey   string        `yaml:"api_key"`
		ChatURL  string        `yaml:"chat_url"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"advisor"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Email struct {
		Host     string   `yaml:"host"`
		Port     string   `yaml:"port"`
		Username string   `yaml:"username"`
		Password string   `yaml:"password"`
		From     string   `yaml:"from"`
		To       []string `yaml:"to"`
	} `yaml:"email"`
	Digest struct {
		Cron string `yaml:"cron"`
	} `yaml:"digest"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("BIZBOOST_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CATALOG_PATH"); v != "" {
		cfg.Catalog.Path = v
	}
	if v := os.Getenv("ADVISOR_PROVIDER"); v != "" {
		cfg.Advisor.Provider = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Advisor.APIKey = v
	}
	if v := os.Getenv("ADVISOR_CHAT_URL"); v != "" {
		cfg.Advisor.ChatURL = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		cfg.Email.Host = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		cfg.Email.Port = v
	}
	if v := os.Getenv("SMTP_USERNAME"); v != "" {
		cfg.Email.Username = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		cfg.Email.Password = v
	}
	if v := os.Getenv("DIGEST_CRON"); v != "" {
		cfg.Digest.Cron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("COST_PER_EMPLOYEE"); v != "" {
		var cost float64
		if _, err := fmt.Sscanf(v, "%f", &cost); err == nil {
			cfg.Simulation.CostPerEmployee = cost
		}
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Simulation.HistoricalBoundary == 0 {
		cfg.Simulation.HistoricalBoundary = scenario.DefaultHistoricalBoundary
	}
	if cfg.Simulation.CostPerEmployee == 0 {
		cfg.Simulation.CostPerEmployee = scenario.DefaultCostPerEmployee
	}
	if cfg.Advisor.Provider == "" {
		cfg.Advisor.Provider = ProviderGemini
	}
	cfg.Advisor.Provider = strings.ToLower(cfg.Advisor.Provider)
	if cfg.Advisor.Model == "" {
		cfg.Advisor.Model = "gemini-2.5-flash-lite"
	}
	if cfg.Advisor.Timeout == 0 {
		cfg.Advisor.Timeout = 30 * time.Second
	}
	if cfg.Email.Port == "" {
		cfg.Email.Port = "587"
	}
	if cfg.Digest.Cron == "" {
		cfg.Digest.Cron = "0 0 8 * * 1-5"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/bizboost.db"
	}

	return cfg, nil
}

// Validate checks cross-field rules.
func (c *Config) Validate() error {
	switch c.Advisor.Provider {
	case ProviderGemini, ProviderCanned:
	case ProviderChat:
		if c.Advisor.ChatURL == "" {
			return fmt.Errorf("advisor.chat_url is required for the chat provider")
		}
	default:
		return fmt.Errorf("advisor.provider %q is not one of gemini, chat, canned", c.Advisor.Provider)
	}
	if c.Simulation.HistoricalBoundary < 0 {
		return fmt.Errorf("simulation.historical_boundary must not be negative")
	}
	if c.Simulation.CostPerEmployee <= 0 {
		return fmt.Errorf("simulation.cost_per_employee must be positive")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if c.Email.Host != "" && (c.Email.From == "" || len(c.Email.To) == 0) {
		return fmt.Errorf("email.from and email.to are required when email.host is set")
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log.format %q is not one of json, text", c.Log.Format)
	}
	return nil
}

// Assumptions returns the base simulation assumptions.
func (c *Config) Assumptions() scenario.Assumptions {
	return scenario.Assumptions{
		HistoricalBoundary: c.Simulation.HistoricalBoundary,
		CostPerEmployee:    c.Simulation.CostPerEmployee,
	}
}

// TelegramEnabled reports whether the Telegram chat front-end is configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// EmailEnabled reports whether digest emails are configured.
func (c *Config) EmailEnabled() bool {
	return c.Email.Host != ""
}
