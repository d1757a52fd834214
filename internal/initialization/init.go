// The initialization package contains functions that setup required dependencies such as the SQLite databases.
package initialization

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate"
	"github.com/golang-migrate/migrate/database/sqlite3"
	_ "github.com/golang-migrate/migrate/source/file"
	"github.com/mikestefanello/backlite"
	"github.com/redis/go-redis/v9"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/filecat/internal/config"
)

// Migrate applies all remaining migrations found in folder. The connection is left open.
func Migrate(db *sql.DB, folder, dbname string) error {
	log.Info().Str("folder", folder).Msg("starting migrations")
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		log.Error().Err(err).Msg("failed to create sqlite3 migration driver")
		return err
	}

	mig, err := migrate.NewWithDatabaseInstance(
		"file://"+folder,
		dbname,
		driver,
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to create Migrate object")
		return err
	}

	err = mig.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info().Msg("catalog schema is up to date")
		return nil
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to run migrations")
	}
	return err
}

func OpenDB(connString string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", connString)
	if err != nil {
		log.Error().Err(err).Str("connection string", connString).Msg("failed to open database")
		return nil, err
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to %s: %w", connString, err)
	}
	return db, nil
}

// InitQueue opens the queue database and creates the backlite client with its schema installed.
func InitQueue(cfg *config.Configuration) (*backlite.Client, *sql.DB, error) {
	db, err := OpenDB(cfg.QueueDB)
	if err != nil {
		return nil, nil, err
	}

	client, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		Logger:          QueueLogger{},
		ReleaseAfter:    10 * time.Minute,
		NumWorkers:      4,
		CleanupInterval: time.Hour,
	})
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	if err = client.Install(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("installing queue schema: %w", err)
	}
	return client, db, nil
}

// InitRedis connects to the server that holds cross-replica locks.
func InitRedis(cfg *config.Configuration) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Redis.Addr, err)
	}

	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
	return client, nil
}
