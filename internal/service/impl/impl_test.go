package core

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/filecat/internal/catalog/triplestore"
	"github.com/sidereusnuntius/filecat/internal/config"
	"github.com/sidereusnuntius/filecat/internal/db"
	dbimpl "github.com/sidereusnuntius/filecat/internal/db/impl"
	"github.com/sidereusnuntius/filecat/internal/initialization"
	"github.com/sidereusnuntius/filecat/internal/service"
	"github.com/sidereusnuntius/filecat/internal/state"
	"github.com/sidereusnuntius/filecat/internal/storage"
	"github.com/sidereusnuntius/filecat/internal/storage/filestore"
)

var (
	ctx   = context.Background()
	cfg   *config.Configuration
	fs    *filestore.FileStore
	files db.DB
	svc   service.Service
)

func testConfig() *config.Configuration {
	return &config.Configuration{
		ShareRoot:           os.TempDir(),
		RelativeStoragePath: "files",
		FileResourceBase:    "http://services.example.com/files/",
		ValidateReadback:    true,
		Graph:               "http://mu.semte.ch/application",
		OperationTimeout:    5 * time.Second,
	}
}

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "coordinators")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to setup tests")
	}

	if fs, err = filestore.New(dir); err != nil {
		log.Fatal().Err(err).Msg("failed to setup tests")
	}

	d, err := initialization.OpenDB("file:coordinators?mode=memory&cache=shared")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	if err = initialization.Migrate(d, "../../../migrations", "coordinators"); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	cfg = testConfig()
	files = dbimpl.New(triplestore.New(d), cfg.Graph)
	svc = New(state.State{Config: cfg, Storage: fs, DB: files})

	code := m.Run()
	d.Close()
	if err = os.RemoveAll(dir); err != nil {
		log.Fatal().Err(err).Msg("removal of temporary directory failed")
	}
	os.Exit(code)
}

// recordingQueue stands in for the reconciliation queue.
type recordingQueue struct {
	mu     sync.Mutex
	names  []string
	delays []time.Duration
}

func (q *recordingQueue) DeleteBlob(_ context.Context, name string, after time.Duration) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.names = append(q.names, name)
	q.delays = append(q.delays, after)
	return nil
}

func (q *recordingQueue) ScheduleSweep(context.Context, time.Duration) error {
	return nil
}

func blobExists(t *testing.T, s storage.Storage, name string) bool {
	t.Helper()
	exists, err := s.Exists(ctx, name)
	if err != nil {
		t.Fatalf("unexpected error checking blob %s: %s", name, err)
	}
	return exists
}
