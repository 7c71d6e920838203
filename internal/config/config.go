package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Email      EmailConfig      `yaml:"email"`
	Company    CompanyConfig    `yaml:"company"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Admin      AdminConfig      `yaml:"admin"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Exports    ExportConfig     `yaml:"exports"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

// StorageConfig selects the record store backend. An empty path keeps
// submissions in process memory; a path switches to the sqlite store.
type StorageConfig struct {
	Path string `yaml:"path"`
}

const (
	EmailModeSMTP     = "smtp"
	EmailModeDelegate = "delegate"
	EmailModeDisabled = "disabled"
)

type EmailConfig struct {
	Mode               string     `yaml:"mode"`
	SMTP               SMTPConfig `yaml:"smtp"`
	ServiceURL         string     `yaml:"service_url"`
	Sender             string     `yaml:"sender"`
	StaffEmail         string     `yaml:"staff_email"`
	SendTimeoutSeconds int        `yaml:"send_timeout_seconds"`
}

// SendTimeout bounds a single outbound mail attempt.
func (e EmailConfig) SendTimeout() time.Duration {
	return time.Duration(e.SendTimeoutSeconds) * time.Second
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type CompanyConfig struct {
	Name    string               `yaml:"name"`
	Address CompanyAddressConfig `yaml:"address"`
	Contact CompanyContactConfig `yaml:"contact"`
	Hours   CompanyHoursConfig   `yaml:"hours"`
}

type CompanyAddressConfig struct {
	Street  string `yaml:"street"`
	Area    string `yaml:"area"`
	City    string `yaml:"city"`
	State   string `yaml:"state"`
	Zip     string `yaml:"zip"`
	Country string `yaml:"country"`
}

type CompanyContactConfig struct {
	Phone        string `yaml:"phone"`
	OfficePhone  string `yaml:"office_phone"`
	Email        string `yaml:"email"`
	ProjectEmail string `yaml:"project_email"`
}

type CompanyHoursConfig struct {
	Weekdays string `yaml:"weekdays"`
	Saturday string `yaml:"saturday"`
	Sunday   string `yaml:"sunday"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
	Debug    bool   `yaml:"debug"`
}

type AdminConfig struct {
	Enabled      bool           `yaml:"enabled"`
	HeaderAPIKey string         `yaml:"header_api_key"`
	APIKeys      []APIClientKey `yaml:"api_keys"`
}

type APIClientKey struct {
	Key  string `yaml:"key"`
	Name string `yaml:"name"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

// Load reads the yaml config, expanding ${VAR} references from the
// environment. A .env file is applied first when present.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Email.Mode {
	case EmailModeSMTP:
		if c.Email.SMTP.Host == "" {
			return errors.New("email.mode=smtp requires email.smtp.host")
		}
	case EmailModeDelegate:
		if c.Email.ServiceURL == "" {
			return errors.New("email.mode=delegate requires email.service_url")
		}
	case EmailModeDisabled:
	default:
		return fmt.Errorf("unknown email mode: %s", c.Email.Mode)
	}

	if c.Admin.Enabled && len(c.Admin.APIKeys) == 0 {
		return errors.New("admin API is enabled but no api_keys are configured")
	}

	keys := make(map[string]bool, len(c.Admin.APIKeys))
	for _, k := range c.Admin.APIKeys {
		if k.Key == "" {
			return fmt.Errorf("admin api key '%s' has empty key value", k.Name)
		}
		if keys[k.Key] {
			return errors.New("duplicate admin api key found")
		}
		keys[k.Key] = true
	}

	if c.Telegram.BotToken != "" && c.Telegram.ChatID == 0 {
		return errors.New("telegram.bot_token is set but telegram.chat_id is missing")
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "ddarch"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}

	if c.Email.Mode == "" {
		switch {
		case c.Email.ServiceURL != "":
			c.Email.Mode = EmailModeDelegate
		case c.Email.SMTP.Host != "":
			c.Email.Mode = EmailModeSMTP
		default:
			c.Email.Mode = EmailModeDisabled
		}
	}
	if c.Email.SMTP.Port == 0 {
		c.Email.SMTP.Port = 587
	}
	if c.Email.SendTimeoutSeconds == 0 {
		c.Email.SendTimeoutSeconds = 5
	}
	if c.Email.Sender == "" {
		c.Email.Sender = c.Company.Contact.Email
	}
	if c.Email.StaffEmail == "" {
		c.Email.StaffEmail = c.Company.Contact.Email
	}

	if c.RateLimit.RPS == 0 {
		c.RateLimit.RPS = 5
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 10
	}

	if c.Admin.HeaderAPIKey == "" {
		c.Admin.HeaderAPIKey = "x-api-key"
	}

	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}

	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
}
