package config

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrAbsoluteStoragePath = errors.New("MU_APPLICATION_FILE_STORAGE_PATH must be relative")

const (
	keyShareRoot        = "SHARE_ROOT"
	keyStoragePath      = "MU_APPLICATION_FILE_STORAGE_PATH"
	keyResourceBase     = "FILE_RESOURCE_BASE"
	keyValidateReadback = "VALIDATE_READABLE_METADATA"
	keyStorageBackend   = "STORAGE_BACKEND"
	keyS3Bucket         = "S3_BUCKET"
	keyS3Prefix         = "S3_PREFIX"
	keyS3Region         = "S3_REGION"
	keyS3Endpoint       = "S3_ENDPOINT"
	keyS3AccessKey      = "S3_ACCESS_KEY_ID"
	keyS3SecretKey      = "S3_SECRET_ACCESS_KEY"
	keyS3PathStyle      = "S3_USE_PATH_STYLE"
	keyCatalogBackend   = "CATALOG_BACKEND"
	keySparqlEndpoint   = "MU_SPARQL_ENDPOINT"
	keyGraph            = "MU_APPLICATION_GRAPH"
	keyCatalogDB        = "CATALOG_DB"
	keyMigrations       = "MIGRATIONS_FOLDER"
	keyQueueDB          = "QUEUE_DB"
	keySweepInterval    = "SWEEP_INTERVAL"
	keySweepGrace       = "SWEEP_GRACE"
	keyTimeout          = "OPERATION_TIMEOUT"
	keySerializeByID    = "SERIALIZE_BY_ID"
	keyRedisAddr        = "REDIS_ADDR"
	keyRedisPassword    = "REDIS_PASSWORD"
	keyRedisDB          = "REDIS_DB"
	keyLockTTL          = "LOCK_TTL"
	keyPort             = "PORT"
	keyDebug            = "DEBUG"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyShareRoot, "/share")
	v.SetDefault(keyStoragePath, "")
	v.SetDefault(keyResourceBase, "")
	v.SetDefault(keyValidateReadback, false)
	v.SetDefault(keyStorageBackend, StorageFS)
	v.SetDefault(keyS3Region, "us-east-1")
	v.SetDefault(keyCatalogBackend, CatalogSparql)
	v.SetDefault(keySparqlEndpoint, "http://database:8890/sparql")
	v.SetDefault(keyGraph, "http://mu.semte.ch/application")
	v.SetDefault(keyCatalogDB, "file:catalog.db?_foreign_keys=on")
	v.SetDefault(keyMigrations, "migrations")
	v.SetDefault(keyQueueDB, "file:queue.db?_journal=WAL&_timeout=5000")
	v.SetDefault(keySweepInterval, time.Hour)
	v.SetDefault(keySweepGrace, 24*time.Hour)
	v.SetDefault(keyTimeout, 30*time.Second)
	v.SetDefault(keySerializeByID, false)
	v.SetDefault(keyRedisDB, 0)
	v.SetDefault(keyLockTTL, time.Minute)
	v.SetDefault(keyPort, 80)
	v.SetDefault(keyDebug, false)
}

// ReadConfig builds the configuration from the environment and, if file is not empty, from the given
// configuration file. Environment variables take precedence over the file.
func ReadConfig(file string) (Configuration, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Configuration{}, fmt.Errorf("reading config file %s: %w", file, err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (cfg Configuration, err error) {
	rel := v.GetString(keyStoragePath)
	if strings.HasPrefix(rel, "/") {
		err = fmt.Errorf("%w: %s", ErrAbsoluteStoragePath, rel)
		return
	}
	rel = strings.TrimSuffix(rel, "/")
	if rel != "" {
		rel = path.Clean(rel)
		if rel == ".." || strings.HasPrefix(rel, "../") {
			err = fmt.Errorf("%w: %s escapes the share root", ErrAbsoluteStoragePath, rel)
			return
		}
	}

	cfg = Configuration{
		ShareRoot:           strings.TrimSuffix(v.GetString(keyShareRoot), "/"),
		RelativeStoragePath: rel,
		FileResourceBase:    v.GetString(keyResourceBase),
		ValidateReadback:    v.GetBool(keyValidateReadback),
		StorageBackend:      v.GetString(keyStorageBackend),
		S3: S3Config{
			Bucket:          v.GetString(keyS3Bucket),
			Prefix:          v.GetString(keyS3Prefix),
			Region:          v.GetString(keyS3Region),
			Endpoint:        v.GetString(keyS3Endpoint),
			AccessKeyID:     v.GetString(keyS3AccessKey),
			SecretAccessKey: v.GetString(keyS3SecretKey),
			UsePathStyle:    v.GetBool(keyS3PathStyle),
		},
		CatalogBackend:   v.GetString(keyCatalogBackend),
		SparqlEndpoint:   v.GetString(keySparqlEndpoint),
		Graph:            v.GetString(keyGraph),
		CatalogDB:        v.GetString(keyCatalogDB),
		MigrationsFolder: v.GetString(keyMigrations),
		QueueDB:          v.GetString(keyQueueDB),
		SweepInterval:    v.GetDuration(keySweepInterval),
		SweepGrace:       v.GetDuration(keySweepGrace),
		OperationTimeout: v.GetDuration(keyTimeout),
		SerializeByID:    v.GetBool(keySerializeByID),
		Redis: RedisConfig{
			Addr:     v.GetString(keyRedisAddr),
			Password: v.GetString(keyRedisPassword),
			DB:       v.GetInt(keyRedisDB),
			LockTTL:  v.GetDuration(keyLockTTL),
		},
		Port:             v.GetUint16(keyPort),
		Debug:            v.GetBool(keyDebug),
	}

	switch cfg.StorageBackend {
	case StorageFS:
	case StorageS3:
		if cfg.S3.Bucket == "" {
			err = errors.New("S3_BUCKET is required when STORAGE_BACKEND is s3")
		}
	default:
		err = fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
	if err != nil {
		return
	}

	switch cfg.CatalogBackend {
	case CatalogSparql, CatalogSqlite:
	default:
		err = fmt.Errorf("unknown catalog backend %q", cfg.CatalogBackend)
	}
	return
}
