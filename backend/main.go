package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"pharmacy/m/internal/api"
	"pharmacy/m/internal/config"
	"pharmacy/m/internal/database"
	"pharmacy/m/internal/logging"
	"pharmacy/m/internal/migrations"
	"pharmacy/m/internal/report"
	"pharmacy/m/internal/seed"
	"pharmacy/m/internal/store"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:          "pharmacy",
		Short:        "Pharmacy stock and dispensing server",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(serveCmd(), migrateCmd(), seedCmd(), userCmd(), exportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// open loads config, connects and migrates. Callers close the returned store's DB.
func open() (config.Config, *store.Store, zerolog.Logger, error) {
	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		return cfg, nil, logger, err
	}
	if err := migrations.Run(db); err != nil {
		db.Close()
		return cfg, nil, logger, err
	}
	return cfg, store.New(db), logger, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, s, logger, err := open()
			if err != nil {
				return err
			}
			defer s.DB().Close()

			ctx := cmd.Context()
			if _, err := seed.LoadMedicationsFile(ctx, s, cfg.CatalogCSV, logger); err != nil {
				logger.Warn().Err(err).Msg("catalog seed failed")
			}
			if cfg.AdminUsername != "" {
				if _, err := seed.EnsureUser(ctx, s, cfg.AdminUsername, cfg.AdminPassword, cfg.AdminFullName); err != nil {
					return fmt.Errorf("bootstrap admin: %w", err)
				}
			}

			srv := &http.Server{
				Addr:              ":" + cfg.HTTPPort,
				Handler:           api.New(s, cfg, logger).Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			go func() {
				logger.Info().Str("addr", srv.Addr).Msg("pharmacy server starting")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal().Err(err).Msg("server error")
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			logger.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, logger, err := open()
			if err != nil {
				return err
			}
			defer s.DB().Close()
			logger.Info().Msg("schema up to date")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var csvPath string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the medication catalog CSV and bootstrap the admin login",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, s, logger, err := open()
			if err != nil {
				return err
			}
			defer s.DB().Close()
			if csvPath == "" {
				csvPath = cfg.CatalogCSV
			}
			if _, err := seed.LoadMedicationsFile(cmd.Context(), s, csvPath, logger); err != nil {
				return err
			}
			if cfg.AdminUsername == "" {
				return nil
			}
			created, err := seed.EnsureUser(cmd.Context(), s, cfg.AdminUsername, cfg.AdminPassword, cfg.AdminFullName)
			if err != nil {
				return err
			}
			logger.Info().Str("username", cfg.AdminUsername).Bool("created", created).Msg("admin user ensured")
			return nil
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "catalog CSV path (defaults to CATALOG_CSV)")
	return cmd
}

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage logins",
	}

	var password, fullName string
	create := &cobra.Command{
		Use:   "create <username>",
		Short: "Create an active login",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, logger, err := open()
			if err != nil {
				return err
			}
			defer s.DB().Close()
			created, err := seed.EnsureUser(cmd.Context(), s, args[0], password, fullName)
			if err != nil {
				return err
			}
			if !created {
				return fmt.Errorf("user %q already exists", args[0])
			}
			logger.Info().Str("username", args[0]).Msg("user created")
			return nil
		},
	}
	create.Flags().StringVar(&password, "password", "", "login password")
	create.Flags().StringVar(&fullName, "name", "", "full name recorded on dispensations")
	_ = create.MarkFlagRequired("password")

	setActive := func(use string, active bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <username>",
			Short: use + " a login",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, s, _, err := open()
				if err != nil {
					return err
				}
				defer s.DB().Close()
				return s.SetUserActive(cmd.Context(), args[0], active)
			},
		}
	}

	cmd.AddCommand(create, setActive("enable", true), setActive("disable", false))
	return cmd
}

func exportCmd() *cobra.Command {
	var from, to, patient, medication, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the dispensation report spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, s, logger, err := open()
			if err != nil {
				return err
			}
			defer s.DB().Close()

			filter, err := report.ParseFilter(from, to, patient, medication)
			if err != nil {
				return err
			}
			start, until := filter.Bounds()
			rows, err := s.ListDispensations(cmd.Context(), start, until, 0)
			if err != nil {
				return err
			}
			rows = filter.Apply(rows)

			if out == "" {
				out = report.FileName(time.Now())
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := report.WriteXLSX(f, rows, cfg.ReportTitle); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			logger.Info().Str("file", out).Int("rows", len(rows)).Msg("report exported")
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD")
	cmd.Flags().StringVar(&patient, "patient", "", "patient name or national id filter")
	cmd.Flags().StringVar(&medication, "medication", "", "medication name or code filter")
	cmd.Flags().StringVar(&out, "out", "", "output file (defaults to dispensations_<today>.xlsx)")
	return cmd
}
