package state

import (
	"github.com/sidereusnuntius/filecat/internal/config"
	"github.com/sidereusnuntius/filecat/internal/db"
	"github.com/sidereusnuntius/filecat/internal/lock"
	"github.com/sidereusnuntius/filecat/internal/queue"
	"github.com/sidereusnuntius/filecat/internal/storage"
)

// State is built once at startup and shared read-only by every request handler.
type State struct {
	Config  *config.Configuration
	Storage storage.Storage
	DB      db.DB
	Queue   queue.Reconciler
	// Locks is used only when Config.SerializeByID is set; nil means in-process locks.
	Locks   lock.Locker
}
