package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"APP_PORT", "LOG_LEVEL", "PARK_NAME", "PARK_TICKET_PRICE",
	"WHATSAPP_TOKEN", "WHATSAPP_PHONE_NUMBER_ID", "META_VERIFY_TOKEN",
	"WHATSAPP_BASE_URL", "WHATSAPP_API_VERSION", "WHATSAPP_MANAGER_ID",
	"GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_DATABASE_ID",
	"REPORT_CRON_SCHEDULE", "TIMEZONE", "MONGODB_URI", "MONGODB_DB_NAME",
}

// clearEnv unsets every config key for the duration of the test. godotenv
// never overrides a variable that is already present, even when empty.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		original, had := os.LookupEnv(key)
		require.NoError(t, os.Unsetenv(key))
		t.Cleanup(func() {
			if had {
				_ = os.Setenv(key, original)
				return
			}
			_ = os.Unsetenv(key)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "Isla Nublar", cfg.Park.Name)
	assert.Equal(t, 250.0, cfg.Park.TicketPrice)
	assert.Equal(t, "0 20 * * *", cfg.Reporting.CronSchedule)
	assert.Equal(t, "UTC", cfg.Reporting.Timezone)
	assert.Equal(t, "dinopark", cfg.MongoDB.DBName)
	assert.False(t, cfg.WhatsApp.Enabled())
	assert.False(t, cfg.Sheets.Enabled())
}

func TestLoad_FromEnvFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), ".env")
	content := "PARK_NAME=Isla Sorna\nPARK_TICKET_PRICE=99.5\nTIMEZONE=Africa/Conakry\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Isla Sorna", cfg.Park.Name)
	assert.Equal(t, 99.5, cfg.Park.TicketPrice)
	assert.Equal(t, "Africa/Conakry", cfg.Reporting.Timezone)
}

func TestLoad_InvalidTicketPrice(t *testing.T) {
	for _, raw := range []string{"free", "NaN", "+Inf", "-Inf"} {
		t.Run(raw, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("PARK_TICKET_PRICE", raw)

			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.ErrorContains(t, err, "PARK_TICKET_PRICE")
		})
	}
}

func validConfig() *Config {
	return &Config{
		Server:    ServerConfig{Port: "8080"},
		Park:      ParkConfig{Name: "Isla Nublar", TicketPrice: 250},
		WhatsApp:  WhatsAppConfig{BaseURL: "https://graph.facebook.com", APIVersion: "v20.0"},
		Reporting: ReportingConfig{CronSchedule: "0 20 * * *", Timezone: "UTC"},
		MongoDB:   MongoDBConfig{DBName: "dinopark"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: "APP_PORT"},
		{name: "missing park name", mutate: func(c *Config) { c.Park.Name = "" }, wantErr: "PARK_NAME"},
		{name: "negative price", mutate: func(c *Config) { c.Park.TicketPrice = -1 }, wantErr: "PARK_TICKET_PRICE"},
		{name: "nan price", mutate: func(c *Config) { c.Park.TicketPrice = math.NaN() }, wantErr: "PARK_TICKET_PRICE"},
		{name: "infinite price", mutate: func(c *Config) { c.Park.TicketPrice = math.Inf(1) }, wantErr: "PARK_TICKET_PRICE"},
		{name: "whatsapp without phone", mutate: func(c *Config) { c.WhatsApp.AccessToken = "token" }, wantErr: "WHATSAPP_PHONE_NUMBER_ID"},
		{name: "whatsapp without manager", mutate: func(c *Config) {
			c.WhatsApp.AccessToken = "token"
			c.WhatsApp.PhoneNumberID = "123"
			c.WhatsApp.VerifyToken = "verify"
		}, wantErr: "WHATSAPP_MANAGER_ID"},
		{name: "whatsapp complete", mutate: func(c *Config) {
			c.WhatsApp.AccessToken = "token"
			c.WhatsApp.PhoneNumberID = "123"
			c.WhatsApp.VerifyToken = "verify"
			c.WhatsApp.ManagerID = "224600000000"
		}},
		{name: "half configured sheets", mutate: func(c *Config) { c.Sheets.SpreadsheetID = "sheet" }, wantErr: "GOOGLE_SHEETS_CREDENTIALS_PATH"},
		{name: "mongo without db name", mutate: func(c *Config) {
			c.MongoDB.URI = "mongodb://localhost:27017"
			c.MongoDB.DBName = ""
		}, wantErr: "MONGODB_DB_NAME"},
		{name: "missing cron", mutate: func(c *Config) { c.Reporting.CronSchedule = "" }, wantErr: "REPORT_CRON_SCHEDULE"},
		{name: "bad timezone", mutate: func(c *Config) { c.Reporting.Timezone = "Mars/Olympus" }, wantErr: "TIMEZONE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	var cfg *Config
	assert.Error(t, cfg.Validate())
}
