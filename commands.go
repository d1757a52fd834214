package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	zero "github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/filecat/internal/catalog"
	"github.com/sidereusnuntius/filecat/internal/catalog/sparql"
	"github.com/sidereusnuntius/filecat/internal/catalog/triplestore"
	"github.com/sidereusnuntius/filecat/internal/config"
	db "github.com/sidereusnuntius/filecat/internal/db/impl"
	"github.com/sidereusnuntius/filecat/internal/initialization"
	"github.com/sidereusnuntius/filecat/internal/lock"
	"github.com/sidereusnuntius/filecat/internal/queue"
	service "github.com/sidereusnuntius/filecat/internal/service/impl"
	"github.com/sidereusnuntius/filecat/internal/state"
	"github.com/sidereusnuntius/filecat/internal/storage"
	"github.com/sidereusnuntius/filecat/internal/storage/filestore"
	"github.com/sidereusnuntius/filecat/internal/storage/s3store"
	"github.com/sidereusnuntius/filecat/internal/web"
	"github.com/spf13/cobra"
)

func loadConfig(file string) (*config.Configuration, error) {
	cfg, err := config.ReadConfig(file)
	if err != nil {
		return nil, err
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	return &cfg, nil
}

func openStorage(ctx context.Context, cfg *config.Configuration) (storage.Storage, error) {
	switch cfg.StorageBackend {
	case config.StorageS3:
		return s3store.New(ctx, cfg.S3)
	default:
		return filestore.New(cfg.StoragePath())
	}
}

// openCatalog returns the configured catalog and, for the embedded one, its database.
func openCatalog(cfg *config.Configuration) (catalog.Catalog, *sql.DB, error) {
	if cfg.CatalogBackend != config.CatalogSqlite {
		return sparql.New(&http.Client{}, cfg.SparqlEndpoint), nil, nil
	}

	d, err := initialization.OpenDB(cfg.CatalogDB)
	if err != nil {
		return nil, nil, err
	}
	if err = initialization.Migrate(d, cfg.MigrationsFolder, "catalog"); err != nil {
		d.Close()
		return nil, nil, err
	}
	return triplestore.New(d), d, nil
}

func NewServeCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the files API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configFile)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := openStorage(ctx, cfg)
			if err != nil {
				return fmt.Errorf("opening blob store: %w", err)
			}
			zero.Info().Str("backend", cfg.StorageBackend).Str("location", store.Location("")).Msg("blob store ready")

			c, catalogDB, err := openCatalog(cfg)
			if err != nil {
				return fmt.Errorf("opening catalog: %w", err)
			}
			if catalogDB != nil {
				defer catalogDB.Close()
			}
			files := db.New(c, cfg.Graph)

			blClient, queueDB, err := initialization.InitQueue(cfg)
			if err != nil {
				return fmt.Errorf("unable to connect with backlite database: %w", err)
			}
			defer queueDB.Close()

			reconciler := queue.New(ctx, blClient, store, files, cfg)
			switch {
			case cfg.SweepInterval <= 0:
			case !cfg.SweepAllowed():
				zero.Warn().Str("path", cfg.StoragePath()).Msg("blobs are stored in the share root; orphan sweep disabled")
			default:
				go queue.RunSweeps(ctx, reconciler, cfg.SweepInterval)
			}

			st := state.State{
				Config:  cfg,
				Storage: store,
				DB:      files,
				Queue:   reconciler,
			}
			if cfg.SerializeByID && cfg.Redis.Addr != "" {
				rc, err := initialization.InitRedis(cfg)
				if err != nil {
					return err
				}
				defer rc.Close()
				st.Locks = lock.NewRedis(rc, "filecat:lock:", cfg.Redis.LockTTL)
			}
			handler := web.New(cfg, service.New(st))
			router := chi.NewRouter()
			router.Use(middleware.Recoverer)
			if cfg.Debug {
				router.Use(middleware.Logger)
			}
			handler.Mount(router)

			s := &http.Server{
				Addr:              ":" + strconv.Itoa(int(cfg.Port)),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			go func() {
				<-ctx.Done()
				shutdown, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				if err := s.Shutdown(shutdown); err != nil {
					zero.Error().Err(err).Msg("server shutdown failed")
				}
				blClient.Stop(shutdown)
			}()

			zero.Info().Uint16("port", cfg.Port).Msg("started server")
			if err = s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}

func NewMigrateCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded catalog migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configFile)
			if err != nil {
				return err
			}
			d, err := initialization.OpenDB(cfg.CatalogDB)
			if err != nil {
				return err
			}
			defer d.Close()
			return initialization.Migrate(d, cfg.MigrationsFolder, "catalog")
		},
	}
}

func NewSweepCommand(configFile *string) *cobra.Command {
	var (
		grace time.Duration
		force bool
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Remove blobs that no catalogued file refers to",
		Long: `Lists the blob store and deletes every blob older than the grace period for which the catalog
holds no file record. Blobs younger than the grace period may belong to an upload in progress.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configFile)
			if err != nil {
				return err
			}
			if !cfg.SweepAllowed() && !force {
				return fmt.Errorf("refusing to sweep %s: the share root is not owned by this service (use --force)", cfg.StoragePath())
			}
			if !cmd.Flags().Changed("grace") {
				grace = cfg.SweepGrace
			}

			ctx := cmd.Context()
			store, err := openStorage(ctx, cfg)
			if err != nil {
				return err
			}
			c, catalogDB, err := openCatalog(cfg)
			if err != nil {
				return err
			}
			if catalogDB != nil {
				defer catalogDB.Close()
			}

			removed, err := queue.Sweep(ctx, store, db.New(c, cfg.Graph), grace, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d orphaned blobs\n", removed)
			return nil
		},
	}

	cmd.Flags().DurationVar(&grace, "grace", 0, "minimum age of an orphaned blob (defaults to SWEEP_GRACE)")
	cmd.Flags().BoolVar(&force, "force", false, "sweep even when blobs are stored in the share root")
	return cmd
}
