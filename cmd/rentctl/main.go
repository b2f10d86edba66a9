// Command rentctl runs maintenance tasks against the RentMyRide database:
// migrations, demo seed data and the message archive job.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chachabrian/rentmyride-backend/internal/config"
	"github.com/chachabrian/rentmyride-backend/internal/database"
	"github.com/chachabrian/rentmyride-backend/internal/logger"
	"github.com/chachabrian/rentmyride-backend/internal/repository"
	"github.com/chachabrian/rentmyride-backend/internal/services"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	cfg *config.Config
	log *logger.Logger

	retention time.Duration
	cronSpec  string

	rootCmd = &cobra.Command{
		Use:           "rentctl",
		Short:         "Maintenance commands for the RentMyRide backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(); err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded
			log = logger.New(logger.Config{Level: cfg.LogLevel, Format: logger.TEXT, Output: os.Stderr, Service: "rentctl"})
			return nil
		},
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema, constraints and triggers",
		RunE:  runMigrate,
	}

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Load demo users, vehicles, bookings and messages",
		RunE:  runSeed,
	}

	archiveCmd = &cobra.Command{
		Use:   "archive",
		Short: "Move messages older than the retention window to messages_archive",
		RunE:  runArchive,
	}

	scheduleCmd = &cobra.Command{
		Use:   "schedule",
		Short: "Run the archive job on a cron schedule until interrupted",
		RunE:  runSchedule,
	}
)

func init() {
	archiveCmd.Flags().DurationVar(&retention, "retention", 0, "archive messages last updated before now minus this (default ARCHIVE_RETENTION)")
	scheduleCmd.Flags().StringVar(&cronSpec, "cron", "", "cron expression (default ARCHIVE_CRON)")
	scheduleCmd.Flags().DurationVar(&retention, "retention", 0, "archive retention (default ARCHIVE_RETENTION)")

	rootCmd.AddCommand(migrateCmd, seedCmd, archiveCmd, scheduleCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "rentctl:", err)
		os.Exit(1)
	}
}

func openDB() (*gorm.DB, error) {
	return database.InitDB(cfg)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		return err
	}
	log.Info("migrations applied")
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		return err
	}
	result, err := database.Seed(db, time.Now().UTC())
	if err != nil {
		return err
	}
	if result.Skipped {
		log.Info("seed data already present", "owner_id", result.OwnerID)
		return nil
	}
	log.Info("seed data loaded",
		"owner", database.SeedOwnerEmail,
		"customer", database.SeedCustomerEmail,
		"vehicles", len(result.VehicleIDs),
	)
	return nil
}

func archiver(db *gorm.DB) *services.Archiver {
	window := cfg.ArchiveRetention
	if retention > 0 {
		window = retention
	}
	return services.NewArchiver(repository.NewMessageRepository(db), window, log)
}

func runArchive(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close(db)

	moved, err := archiver(db).Run(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "archived %d messages\n", moved)
	return nil
}

func runSchedule(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close(db)

	spec := cfg.ArchiveCron
	if cronSpec != "" {
		spec = cronSpec
	}
	scheduler, err := services.NewScheduler(archiver(db), spec, cfg.TZ, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler.Start()
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	scheduler.Stop(stopCtx)
	return nil
}
