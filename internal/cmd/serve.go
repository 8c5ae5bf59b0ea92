package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auction-marketplace/internal/backup"
	bidding "auction-marketplace/internal/biddingService"
	"auction-marketplace/internal/config"
	"auction-marketplace/internal/events"
	market "auction-marketplace/internal/marketService"
	"auction-marketplace/internal/repository"
	"auction-marketplace/internal/search"
	"auction-marketplace/internal/server"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

// memoryEventLimit bounds the in-process event log used when no Kafka brokers are configured
const memoryEventLimit = 1000

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API. The database schema is applied on start, the scheduler runs the
periodic backup and the expired-session purge, and SIGINT/SIGTERM shut the server down gracefully.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.DB().Close()

	publisher, closePublisher := newPublisher(cfg.Kafka)
	defer closePublisher()

	index := newListingIndex(cfg.Search)
	services := market.NewServices(store, index, publisher, cfg.Session.TTL)
	biddingSvc := bidding.NewBiddingService(repository.NewAuctionRepo(store), publisher)

	deps := server.Deps{
		Services: services,
		Bidding:  biddingSvc,
		Session:  cfg.Session,
		Auth:     cfg.Auth,
	}

	scheduler := backup.NewScheduler()
	if err := scheduler.AddFunc(cfg.Session.PurgeSchedule, "session-purge", func(ctx context.Context) error {
		_, err := services.Auth.PurgeExpired(ctx)
		return err
	}); err != nil {
		return err
	}
	if m := backupManager(cfg); m != nil {
		deps.Backup = func(ctx context.Context) (string, error) { return m.Backup(ctx, store.DB()) }
		if cfg.Backup.Enabled {
			if err := scheduler.AddBackup(cfg.Backup.Schedule, m, store.DB()); err != nil {
				return err
			}
		}
	}
	scheduler.Start()

	gin.SetMode(cfg.Server.Mode)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.SetupRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		utils.Info("starting auction server", map[string]any{"addr": cfg.Server.Addr, "driver": cfg.DB.Driver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		utils.Info("shutting down auction server", nil)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	scheduler.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// newPublisher returns a Kafka publisher when brokers are configured, else an in-memory log
func newPublisher(cfg config.KafkaConfig) (events.Publisher, func()) {
	if len(cfg.Brokers) == 0 {
		utils.Info("no kafka brokers configured, keeping events in memory", nil)
		return events.NewMemoryPublisher(memoryEventLimit), func() {}
	}

	kp := events.NewKafkaPublisher(cfg.Brokers, cfg.Topic)
	return kp, func() {
		if err := kp.Close(); err != nil {
			utils.Warn("failed to close kafka writer", map[string]any{"error": err.Error()})
		}
	}
}

// newListingIndex returns the Elasticsearch index when addresses are configured. A nil index
// makes listing search fall back to SQL.
func newListingIndex(cfg config.SearchConfig) search.ListingIndex {
	if len(cfg.Addresses) == 0 {
		return nil
	}
	client, err := search.NewClient(cfg)
	if err != nil {
		utils.Warn("search disabled: failed to create elasticsearch client", map[string]any{"error": err.Error()})
		return nil
	}
	return search.NewESIndex(client, cfg.Index)
}
