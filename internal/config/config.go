package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. VACACIONES_STORAGE_FILE
const EnvPrefix = "VACACIONES"

// Config represents application configuration
type Config struct {
	Storage  StorageConfig  `mapstructure:"storage"`
	Holidays HolidaysConfig `mapstructure:"holidays"`
	Booking  BookingConfig  `mapstructure:"booking"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
}

// StorageConfig locates the bookings file and its backup
type StorageConfig struct {
	File       string `mapstructure:"file"`
	BackupFile string `mapstructure:"backup_file"` // empty disables backups
}

// HolidaysConfig selects holiday sources
type HolidaysConfig struct {
	File        string `mapstructure:"file"`         // optional "YYYY-MM-DD note" list merged with the static table
	StaticYears []int  `mapstructure:"static_years"` // empty means every year in the static table
}

// BookingConfig represents the admission rules
type BookingConfig struct {
	WeekendShift    bool     `mapstructure:"weekend_shift"`
	StrictAdjacency bool     `mapstructure:"strict_adjacency"`
	Sectors         []string `mapstructure:"sectors"`
	Durations       []int    `mapstructure:"durations"`
	Colors          []string `mapstructure:"colors"`
}

// CalendarConfig represents month grid presentation
type CalendarConfig struct {
	MaxEntries  int `mapstructure:"max_entries"`
	LabelBudget int `mapstructure:"label_budget"`
	CellWidth   int `mapstructure:"cell_width"`
	CellHeight  int `mapstructure:"cell_height"`
}

// ServerConfig represents the HTTP dashboard
type ServerConfig struct {
	Address         string `mapstructure:"address"`
	Mode            string `mapstructure:"mode"` // gin mode: debug, release or test
	ReadTimeout     string `mapstructure:"read_timeout"`
	WriteTimeout    string `mapstructure:"write_timeout"`
	ShutdownTimeout string `mapstructure:"shutdown_timeout"`
	SystemTray      bool   `mapstructure:"system_tray"` // Show system tray icon (Windows only)
}

// LogConfig represents logging
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

var defaultSectors = []string{"LABORATORIO", "PRODUCCION", "COMERCIAL", "FACTURACION", "COMPRAS", "CONTABLE", "SOCIOS"}

var defaultColors = []string{"#6EC6FF", "#81C784", "#FFF176", "#F48FB1", "#CE93D8", "#FFCC80"}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.file", "vacaciones.csv")
	v.SetDefault("storage.backup_file", "vacaciones_backup.csv")

	v.SetDefault("holidays.file", "")
	v.SetDefault("holidays.static_years", []int{})

	v.SetDefault("booking.weekend_shift", true)
	v.SetDefault("booking.strict_adjacency", true)
	v.SetDefault("booking.sectors", defaultSectors)
	v.SetDefault("booking.durations", []int{7, 14})
	v.SetDefault("booking.colors", defaultColors)

	v.SetDefault("calendar.max_entries", 4)
	v.SetDefault("calendar.label_budget", 14)
	v.SetDefault("calendar.cell_width", 150)
	v.SetDefault("calendar.cell_height", 110)

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.system_tray", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
}

// Load loads configuration from file, .env and environment.
// Without an explicit path a missing config file is not an error: defaults apply.
func Load(configPath string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.vacation-calendar")
		v.AddConfigPath("/etc/vacation-calendar")
	}

	// Read environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.ExpandEnvVars()

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Storage.File) == "" {
		return fmt.Errorf("storage.file is required")
	}
	if c.Storage.BackupFile != "" && c.Storage.BackupFile == c.Storage.File {
		return fmt.Errorf("storage.backup_file must differ from storage.file")
	}

	for _, d := range c.Booking.Durations {
		if d <= 0 {
			return fmt.Errorf("booking.durations must be positive, got %d", d)
		}
	}
	for _, s := range c.Booking.Sectors {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("booking.sectors must not contain empty names")
		}
	}

	if c.Calendar.MaxEntries < 0 {
		return fmt.Errorf("calendar.max_entries must not be negative")
	}
	if c.Calendar.LabelBudget < 0 {
		return fmt.Errorf("calendar.label_budget must not be negative")
	}

	switch c.Server.Mode {
	case "", "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be 'debug', 'release' or 'test', got '%s'", c.Server.Mode)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error; got '%s'", c.Log.Level)
	}

	return nil
}

// GetReadTimeout returns the HTTP read timeout
func (c *ServerConfig) GetReadTimeout() time.Duration {
	return parseDuration(c.ReadTimeout, 10*time.Second)
}

// GetWriteTimeout returns the HTTP write timeout
func (c *ServerConfig) GetWriteTimeout() time.Duration {
	return parseDuration(c.WriteTimeout, 30*time.Second)
}

// GetShutdownTimeout returns how long graceful shutdown may take
func (c *ServerConfig) GetShutdownTimeout() time.Duration {
	return parseDuration(c.ShutdownTimeout, 10*time.Second)
}

// GetSectors returns the configured sectors, upper-cased
func (c *BookingConfig) GetSectors() []string {
	if len(c.Sectors) == 0 {
		return defaultSectors
	}
	out := make([]string, 0, len(c.Sectors))
	for _, s := range c.Sectors {
		out = append(out, strings.ToUpper(strings.TrimSpace(s)))
	}
	return out
}

// ExpandEnvVars expands environment variables in file paths
func (c *Config) ExpandEnvVars() {
	c.Storage.File = os.ExpandEnv(c.Storage.File)
	c.Storage.BackupFile = os.ExpandEnv(c.Storage.BackupFile)
	c.Holidays.File = os.ExpandEnv(c.Holidays.File)
	c.Log.File = os.ExpandEnv(c.Log.File)
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
