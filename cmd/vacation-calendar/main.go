package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/username/vacation-calendar/internal/booking"
	"github.com/username/vacation-calendar/internal/calendar"
	"github.com/username/vacation-calendar/internal/calendarview"
	"github.com/username/vacation-calendar/internal/config"
	"github.com/username/vacation-calendar/internal/metrics"
	"github.com/username/vacation-calendar/internal/store"
	"github.com/username/vacation-calendar/internal/vacation"
	"github.com/username/vacation-calendar/pkg/palette"
)

var (
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
	out        io.Writer = os.Stdout
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "vacation-calendar",
		Short:         "Calendario de Vacaciones",
		Long:          "Register employee vacations per sector, validated against holidays and overlaps, and render a monthly calendar",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				initLogger("info")
				return err
			}

			if cfg.Log.File != "" {
				logger = initFileLogger(cfg.Log)
			} else {
				initLogger(cfg.Log.Level)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: config.yaml in ., $HOME/.vacation-calendar, /etc/vacation-calendar)")

	rootCmd.AddCommand(
		serveCmd(),
		addCmd(),
		listCmd(),
		updateCmd(),
		deleteCmd(),
		renderCmd(),
		holidaysCmd(),
		clearCmd(),
	)

	return rootCmd
}

func printf(format string, a ...interface{}) {
	fmt.Fprintf(out, format, a...)
}

func loadHolidays(cfg *config.Config) *calendar.Set {
	sources := []calendar.Source{calendar.NewStaticCalendar(cfg.Holidays.StaticYears...)}
	if cfg.Holidays.File != "" {
		sources = append(sources, calendar.NewFileCalendar(cfg.Holidays.File, logger))
	}

	holidays, err := calendar.NewCompositeCalendar(logger, sources...).Load()
	if err != nil {
		logger.Warn("No holiday source could be loaded, continuing without holidays", zap.Error(err))
		return calendar.NewSet()
	}
	return holidays
}

func initializeManager(cfg *config.Config, recorder *metrics.Recorder) (*vacation.Manager, error) {
	pal, err := palette.New(cfg.Booking.Colors)
	if err != nil {
		return nil, fmt.Errorf("invalid booking.colors: %w", err)
	}

	st := store.NewCSVStore(cfg.Storage.File, cfg.Storage.BackupFile, logger)

	opts := vacation.Options{
		Policy: booking.Policy{
			WeekendShift:    cfg.Booking.WeekendShift,
			StrictAdjacency: cfg.Booking.StrictAdjacency,
			Sectors:         cfg.Booking.GetSectors(),
		},
		View: calendarview.Options{
			MaxEntries:  cfg.Calendar.MaxEntries,
			LabelBudget: cfg.Calendar.LabelBudget,
			CellWidth:   cfg.Calendar.CellWidth,
			CellHeight:  cfg.Calendar.CellHeight,
		},
		Durations: cfg.Booking.Durations,
	}

	return vacation.NewManager(st, loadHolidays(cfg), pal, opts, recorder, logger), nil
}

func initLogger(level string) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if err := config.Level.UnmarshalText([]byte(level)); err != nil {
		config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(lc config.LogConfig) *zap.Logger {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   lc.File,
		MaxSize:    lc.MaxSizeMB,
		MaxBackups: lc.MaxBackups,
		MaxAge:     lc.MaxAgeDays,
		Compress:   true, // Compress old logs with gzip
	}

	// Setup encoder
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// Parse log level
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(lc.Level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	// Create core with lumberjack writer
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core)
}
