package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/username/vacation-calendar/internal/metrics"
	"github.com/username/vacation-calendar/internal/server"
)

func serveCmd() *cobra.Command {
	var (
		address string
		tray    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the vacation dashboard",
		Long:  "Serve the dashboard page, the JSON API and Prometheus metrics until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("address") {
				cfg.Server.Address = address
			}
			if cmd.Flags().Changed("tray") {
				cfg.Server.SystemTray = tray
			}

			recorder := metrics.New()
			manager, err := initializeManager(cfg, recorder)
			if err != nil {
				return err
			}

			// Warm the store so startup logs report the current state
			bookings, warnings := manager.List()
			logger.Info("Starting vacation calendar",
				zap.String("address", cfg.Server.Address),
				zap.String("storage", cfg.Storage.File),
				zap.Int("bookings", len(bookings)),
				zap.Strings("warnings", warnings),
				zap.Bool("system_tray", cfg.Server.SystemTray))

			srv := server.New(manager, server.Options{
				Address:         cfg.Server.Address,
				Mode:            cfg.Server.Mode,
				ReadTimeout:     cfg.Server.GetReadTimeout(),
				WriteTimeout:    cfg.Server.GetWriteTimeout(),
				ShutdownTimeout: cfg.Server.GetShutdownTimeout(),
			}, recorder, logger)

			return srv.Start(context.Background(), cfg.Server.SystemTray)
		},
	}

	cmd.Flags().StringVarP(&address, "address", "a", "", "Listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&tray, "tray", false, "Show a system tray icon (Windows only)")
	return cmd
}
