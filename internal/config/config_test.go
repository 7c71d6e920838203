package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: testapp
company:
  contact:
    email: studio@example.com
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "testapp", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, EmailModeDisabled, cfg.Email.Mode)
	assert.Equal(t, 587, cfg.Email.SMTP.Port)
	assert.Equal(t, "studio@example.com", cfg.Email.Sender)
	assert.Equal(t, "studio@example.com", cfg.Email.StaffEmail)
	assert.Equal(t, 5, cfg.Email.SendTimeoutSeconds)
	assert.Equal(t, "x-api-key", cfg.Admin.HeaderAPIKey)
	assert.Equal(t, float64(5), cfg.RateLimit.RPS)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.Equal(t, "exports", cfg.Exports.Path)
}

func TestLoadInfersEmailMode(t *testing.T) {
	path := writeConfig(t, `
email:
  service_url: http://localhost:5001
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, EmailModeDelegate, cfg.Email.Mode)

	path = writeConfig(t, `
email:
  smtp:
    host: smtp.example.com
`)

	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, EmailModeSMTP, cfg.Email.Mode)
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_SMTP_HOST", "smtp.test.example.com")

	path := writeConfig(t, `
email:
  mode: smtp
  smtp:
    host: ${TEST_SMTP_HOST}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "smtp.test.example.com", cfg.Email.SMTP.Host)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		cfg.applyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = -1 },
			wantErr: "invalid server port",
		},
		{
			name:    "smtp mode without host",
			mutate:  func(c *Config) { c.Email.Mode = EmailModeSMTP },
			wantErr: "requires email.smtp.host",
		},
		{
			name:    "delegate mode without url",
			mutate:  func(c *Config) { c.Email.Mode = EmailModeDelegate },
			wantErr: "requires email.service_url",
		},
		{
			name:    "unknown mode",
			mutate:  func(c *Config) { c.Email.Mode = "pigeon" },
			wantErr: "unknown email mode",
		},
		{
			name:    "admin enabled without keys",
			mutate:  func(c *Config) { c.Admin.Enabled = true },
			wantErr: "no api_keys",
		},
		{
			name: "duplicate admin keys",
			mutate: func(c *Config) {
				c.Admin.Enabled = true
				c.Admin.APIKeys = []APIClientKey{{Key: "k1"}, {Key: "k1"}}
			},
			wantErr: "duplicate admin api key",
		},
		{
			name:    "telegram token without chat id",
			mutate:  func(c *Config) { c.Telegram.BotToken = "123:abc" },
			wantErr: "telegram.chat_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSendTimeout(t *testing.T) {
	cfg := EmailConfig{SendTimeoutSeconds: 3}
	assert.Equal(t, "3s", cfg.SendTimeout().String())
}
