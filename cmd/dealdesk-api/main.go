package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leadkitchen/dealdesk/internal/catalog"
	"github.com/leadkitchen/dealdesk/internal/config"
	"github.com/leadkitchen/dealdesk/internal/database"
	"github.com/leadkitchen/dealdesk/internal/leads"
	"github.com/leadkitchen/dealdesk/internal/logging"
	"github.com/leadkitchen/dealdesk/internal/notion"
	"github.com/leadkitchen/dealdesk/internal/scheduler"
	"github.com/leadkitchen/dealdesk/internal/server"
	"github.com/leadkitchen/dealdesk/internal/syncer"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dealdesk-api",
		Short: "DealDesk workspace sync service",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	setupFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("http-address", defaults.GetString("http.address"), "HTTP listen address")
	cmd.PersistentFlags().String("database-dsn", defaults.GetString("database.dsn"), "Destination database DSN (postgres URL or SQLite path)")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("notion-base-url", defaults.GetString("notion.base_url"), "Workspace API base URL override")
	cmd.PersistentFlags().Int("sync-cooldown-minutes", defaults.GetInt("sync.cooldown_minutes"), "Minimum minutes between sync runs")
	cmd.PersistentFlags().String("sync-schedule", defaults.GetString("sync.schedule"), "Cron expression for scheduled syncs (empty disables)")
	cmd.PersistentFlags().String("notion-token", "", "Workspace API token (overrides env)")
	cmd.PersistentFlags().String("deals-database-id", "", "Deals database identifier")
	cmd.PersistentFlags().String("brands-database-id", "", "Brands database identifier")
	cmd.PersistentFlags().String("offers-database-id", "", "Offers database identifier")
	cmd.PersistentFlags().String("advertisers-database-id", "", "Advertisers database identifier")

	bindFlag(cmd, "http.address", "http-address")
	bindFlag(cmd, "database.dsn", "database-dsn")
	bindFlag(cmd, "log.level", "log-level")
	bindFlag(cmd, "notion.base_url", "notion-base-url")
	bindFlag(cmd, "sync.cooldown_minutes", "sync-cooldown-minutes")
	bindFlag(cmd, "sync.schedule", "sync-schedule")
	bindFlag(cmd, "notion.token", "notion-token")
	bindFlag(cmd, "notion.deals_database_id", "deals-database-id")
	bindFlag(cmd, "notion.brands_database_id", "brands-database-id")
	bindFlag(cmd, "notion.offers_database_id", "offers-database-id")
	bindFlag(cmd, "notion.advertisers_database_id", "advertisers-database-id")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
}

func runServer(ctx context.Context) error {
	appConfig, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(appConfig.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	db, err := database.Open(appConfig.DatabaseDSN, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	workspace, err := notion.NewClient(notion.ClientConfig{
		Token:   appConfig.NotionToken,
		BaseURL: appConfig.NotionBaseURL,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	catalogService, err := catalog.NewService(catalog.ServiceConfig{
		Database:  db,
		Workspace: workspace,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	dispatcher := server.NewEventDispatcher()

	syncService, err := syncer.NewService(syncer.ServiceConfig{
		Database:  db,
		Workspace: workspace,
		Guard:     syncer.NewGuard(appConfig.SyncCooldown),
		Sources: []syncer.CollectionSource{
			{Collection: catalog.Deals, DatabaseID: appConfig.DealsDatabaseID},
			{Collection: catalog.Brands, DatabaseID: appConfig.BrandsDatabaseID},
			{Collection: catalog.Offers, DatabaseID: appConfig.OffersDatabaseID},
			{Collection: catalog.Advertisers, DatabaseID: appConfig.AdvertisersDatabaseID},
		},
		Logger:     logger,
		OnComplete: dispatcher.Broadcast,
	})
	if err != nil {
		return err
	}

	ingestor, err := leads.NewIngestor(leads.IngestorConfig{
		Database: db,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	handler, err := server.NewHTTPHandler(server.Dependencies{
		SyncRunner:   syncService,
		Catalog:      catalogService,
		LeadIngestor: ingestor,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	if appConfig.SyncSchedule != "" {
		cronRunner, err := scheduler.New(scheduler.Config{
			Schedule: appConfig.SyncSchedule,
			Runner:   syncService,
			Logger:   logger,
		})
		if err != nil {
			return err
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	httpServer := &http.Server{
		Addr:    appConfig.HTTPAddress,
		Handler: handler,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("address", appConfig.HTTPAddress))
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-signalCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
