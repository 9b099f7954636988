package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/username/vacation-calendar/internal/booking"
	"github.com/username/vacation-calendar/internal/calendarview"
	"github.com/username/vacation-calendar/internal/vacation"
	"github.com/username/vacation-calendar/pkg/dateutil"
)

func addCmd() *cobra.Command {
	var req vacation.RegisterRequest

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Register a vacation",
		Example: "  vacation-calendar add --name Juan --sector COMERCIAL --start 2025-06-02 --days 14",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := initializeManager(cfg, nil)
			if err != nil {
				return err
			}

			res, err := manager.Register(req)
			if err != nil {
				return err
			}

			b := res.Booking
			printf("Registrado: %s %s %s..%s (%d días) %s\n",
				b.ID, b.Employee, dateutil.Key(b.Start), dateutil.Key(b.End), b.Days(), b.Color)
			if res.Decision.Shifted {
				printf("El inicio %s cae en fin de semana; se movió al %s.\n",
					dateutil.Key(res.Decision.RequestedStart), dateutil.Key(b.Start))
			}
			printWarnings(res.Warnings)
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.Employee, "name", "n", "", "Employee name")
	cmd.Flags().StringVarP(&req.Sector, "sector", "s", "", "Sector")
	cmd.Flags().StringVar(&req.Start, "start", "", "Start date (YYYY-MM-DD or DD/MM/YYYY)")
	cmd.Flags().IntVarP(&req.Duration, "days", "d", 7, "Duration in days")
	cmd.Flags().StringVar(&req.End, "end", "", "End date; overrides --days")
	cmd.Flags().StringVar(&req.Color, "color", "", "Calendar color (#RRGGBB)")
	cmd.Flags().StringVar(&req.Note, "note", "", "Free-text note")
	_ = cmd.MarkFlagRequired("sector")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func updateCmd() *cobra.Command {
	var req vacation.UpdateRequest
	var note string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the range or details of a vacation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := initializeManager(cfg, nil)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("note") {
				req.Note = &note
			}

			res, err := manager.Update(args[0], req)
			if err != nil {
				return err
			}

			b := res.Booking
			printf("Actualizado: %s %s %s..%s (%d días)\n",
				b.ID, b.Employee, dateutil.Key(b.Start), dateutil.Key(b.End), b.Days())
			printWarnings(res.Warnings)
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.Employee, "name", "n", "", "New employee name")
	cmd.Flags().StringVarP(&req.Sector, "sector", "s", "", "New sector")
	cmd.Flags().StringVar(&req.Start, "start", "", "Start date")
	cmd.Flags().IntVarP(&req.Duration, "days", "d", 0, "Duration in days")
	cmd.Flags().StringVar(&req.End, "end", "", "End date; overrides --days")
	cmd.Flags().StringVar(&req.Color, "color", "", "Calendar color (#RRGGBB)")
	cmd.Flags().StringVar(&note, "note", "", "Free-text note")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func listCmd() *cobra.Command {
	var sector string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered vacations",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := initializeManager(cfg, nil)
			if err != nil {
				return err
			}

			bookings, warnings := manager.List()
			printWarnings(warnings)

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNOMBRE\tSECTOR\tDESDE\tHASTA\tDÍAS\tCOLOR")
			shown := 0
			for _, b := range bookings {
				if sector != "" && !booking.SameSector(b.Sector, sector) {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
					b.ID, b.Employee, b.Sector, dateutil.Key(b.Start), dateutil.Key(b.End), b.Days(), b.Color)
				shown++
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if shown == 0 {
				printf("Sin registros.\n")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&sector, "sector", "s", "", "Only show one sector")
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a vacation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := initializeManager(cfg, nil)
			if err != nil {
				return err
			}

			res, err := manager.Delete(args[0])
			if err != nil {
				return err
			}
			printWarnings(res.Warnings)
			if !res.Persisted {
				return fmt.Errorf("booking %s was not removed from %s", res.Booking.ID, cfg.Storage.File)
			}
			printf("Eliminado: %s\n", res.Booking.Label())
			return nil
		},
	}
}

func clearCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every vacation, leaving a header-only file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return fmt.Errorf("refusing to clear %s without --force", cfg.Storage.File)
			}
			manager, err := initializeManager(cfg, nil)
			if err != nil {
				return err
			}
			if err := manager.Clear(); err != nil {
				return err
			}
			logger.Info("Bookings cleared", zap.String("file", cfg.Storage.File))
			printf("Registros eliminados.\n")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Confirm the store should be emptied")
	return cmd
}

func renderCmd() *cobra.Command {
	var (
		year, month int
		format      string
		output      string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw the month calendar as PNG or PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if format != "png" && format != "pdf" {
				return fmt.Errorf("unsupported format %q (use png or pdf)", format)
			}

			manager, err := initializeManager(cfg, nil)
			if err != nil {
				return err
			}

			now := calendarview.CursorAt(dateutil.Today())
			if year == 0 {
				year = now.Year
			}
			if month == 0 && !cmd.Flags().Changed("month") {
				month = int(now.Month)
			}
			cursor := calendarview.NewCursor(year, month)

			if output == "" {
				output = fmt.Sprintf("vacaciones-%s.%s", cursor.String(), format)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			defer f.Close()

			if format == "pdf" {
				err = manager.RenderPDF(cursor, f)
			} else {
				err = manager.RenderPNG(cursor, f)
			}
			if err != nil {
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			logger.Info("Calendar rendered", zap.String("month", cursor.String()), zap.String("file", output))
			printf("%s -> %s\n", cursor.Title(), output)
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Year (default: current)")
	cmd.Flags().IntVar(&month, "month", 0, "Month 1-12; 0 and 13 roll into the neighbouring year (default: current)")
	cmd.Flags().StringVarP(&format, "format", "f", "png", "Output format: png or pdf")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: vacaciones-YYYY-MM.<format>)")
	return cmd
}

func holidaysCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "List the holidays bookings are checked against",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := initializeManager(cfg, nil)
			if err != nil {
				return err
			}

			holidays := manager.Holidays(year)
			if len(holidays) == 0 {
				printf("Sin feriados cargados.\n")
				return nil
			}
			for _, h := range holidays {
				printf("%s  %s  %s\n", dateutil.Key(h.Date), dateutil.WeekdayHeaders[dateutil.MondayOffset(h.Date.Weekday())], h.Note)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Only show one year (default: all)")
	return cmd
}

func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Aviso: %s\n", w)
	}
}
