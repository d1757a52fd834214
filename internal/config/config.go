package config

import "time"

const (
	StorageFS = "fs"
	StorageS3 = "s3"

	CatalogSparql = "sparql"
	CatalogSqlite = "sqlite"
)

type Configuration struct {
	// ShareRoot is the mount point shared with other services; share:// URIs resolve against it.
	ShareRoot string
	// RelativeStoragePath is the directory under ShareRoot where blobs are written. It must be relative.
	RelativeStoragePath string
	// FileResourceBase prefixes the URI of every upload resource.
	FileResourceBase string
	// ValidateReadback, if true, makes every upload re-query the catalog for the file record it just
	// inserted and fail with 403 when the record cannot be read back.
	ValidateReadback bool

	// StorageBackend selects the blob store: StorageFS or StorageS3.
	StorageBackend string
	S3             S3Config

	// CatalogBackend selects the metadata catalog: CatalogSparql or CatalogSqlite.
	CatalogBackend string
	SparqlEndpoint string
	// Graph is the named graph into which every record is written.
	Graph string
	// CatalogDB is the SQLite connection string of the embedded catalog.
	CatalogDB        string
	MigrationsFolder string

	// QueueDB is the SQLite connection string of the reconciliation queue.
	QueueDB       string
	SweepInterval time.Duration
	// SweepGrace is the minimum age of a blob without metadata before the sweep removes it.
	SweepGrace time.Duration

	// OperationTimeout bounds every single call to the blob store or the catalog.
	OperationTimeout time.Duration
	// SerializeByID makes deletions and downloads of the same upload run one at a time.
	SerializeByID bool
	// Redis, when Addr is set, holds the SerializeByID locks so that they apply across replicas.
	Redis RedisConfig

	Port  uint16
	Debug bool
}

type S3Config struct {
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

// StoragePath is the directory in which the file store keeps its blobs.
func (c *Configuration) StoragePath() string {
	if c.RelativeStoragePath == "" {
		return c.ShareRoot
	}
	return c.ShareRoot + "/" + c.RelativeStoragePath
}

// SweepAllowed reports whether the blob store belongs to this service alone. A file store rooted at the
// share root itself holds files of other services, which the orphan sweep must not touch.
func (c *Configuration) SweepAllowed() bool {
	return c.StorageBackend != StorageFS || c.RelativeStoragePath != ""
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// LockTTL bounds how long a lock outlives a crashed holder.
	LockTTL time.Duration
}
