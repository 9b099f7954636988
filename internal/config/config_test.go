package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "vacaciones.csv", cfg.Storage.File)
	assert.Equal(t, "vacaciones_backup.csv", cfg.Storage.BackupFile)
	assert.True(t, cfg.Booking.WeekendShift)
	assert.True(t, cfg.Booking.StrictAdjacency)
	assert.Equal(t, []int{7, 14}, cfg.Booking.Durations)
	assert.Equal(t, defaultSectors, cfg.Booking.GetSectors())
	assert.Len(t, cfg.Booking.Colors, 6)
	assert.Equal(t, 4, cfg.Calendar.MaxEntries)
	assert.Equal(t, 14, cfg.Calendar.LabelBudget)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 10*time.Second, cfg.Server.GetShutdownTimeout())
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
storage:
  file: /data/vacaciones.csv
  backup_file: ""
booking:
  weekend_shift: false
  sectors: [ventas, Logistica]
  durations: [5, 10]
calendar:
  max_entries: 3
server:
  address: 127.0.0.1:9000
  read_timeout: 5s
  write_timeout: nonsense
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/vacaciones.csv", cfg.Storage.File)
	assert.Equal(t, "", cfg.Storage.BackupFile)
	assert.False(t, cfg.Booking.WeekendShift)
	assert.True(t, cfg.Booking.StrictAdjacency)
	assert.Equal(t, []string{"VENTAS", "LOGISTICA"}, cfg.Booking.GetSectors())
	assert.Equal(t, []int{5, 10}, cfg.Booking.Durations)
	assert.Equal(t, 3, cfg.Calendar.MaxEntries)
	assert.Equal(t, 14, cfg.Calendar.LabelBudget)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Address)
	assert.Equal(t, 5*time.Second, cfg.Server.GetReadTimeout())
	assert.Equal(t, 30*time.Second, cfg.Server.GetWriteTimeout(), "invalid durations fall back")
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("VACACIONES_STORAGE_FILE", "/srv/reservas.csv")
	t.Setenv("VACACIONES_SERVER_ADDRESS", ":9999")

	cfg, err := Load(writeConfig(t, "storage:\n  file: ignored.csv\n"))
	require.NoError(t, err)

	assert.Equal(t, "/srv/reservas.csv", cfg.Storage.File)
	assert.Equal(t, ":9999", cfg.Server.Address)
}

func TestLoadExpandsEnvInPaths(t *testing.T) {
	t.Setenv("VACATION_DATA", "/var/lib/vacaciones")

	cfg, err := Load(writeConfig(t, "storage:\n  file: $VACATION_DATA/vacaciones.csv\n"))
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/vacaciones/vacaciones.csv", cfg.Storage.File)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Storage: StorageConfig{File: "a.csv", BackupFile: "b.csv"},
			Booking: BookingConfig{Durations: []int{7}},
			Server:  ServerConfig{Mode: "release"},
			Log:     LogConfig{Level: "info"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing storage file", func(c *Config) { c.Storage.File = " " }, true},
		{"backup equals store", func(c *Config) { c.Storage.BackupFile = "a.csv" }, true},
		{"zero duration", func(c *Config) { c.Booking.Durations = []int{7, 0} }, true},
		{"blank sector", func(c *Config) { c.Booking.Sectors = []string{"COMERCIAL", ""} }, true},
		{"negative entries", func(c *Config) { c.Calendar.MaxEntries = -1 }, true},
		{"bad gin mode", func(c *Config) { c.Server.Mode = "production" }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
