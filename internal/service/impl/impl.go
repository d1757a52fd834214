package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/sidereusnuntius/filecat/internal/config"
	"github.com/sidereusnuntius/filecat/internal/db"
	"github.com/sidereusnuntius/filecat/internal/lock"
	"github.com/sidereusnuntius/filecat/internal/queue"
	"github.com/sidereusnuntius/filecat/internal/service"
	"github.com/sidereusnuntius/filecat/internal/state"
	"github.com/sidereusnuntius/filecat/internal/storage"
)

type AppService struct {
	Config  *config.Configuration
	DB      db.DB
	Storage storage.Storage
	Queue   queue.Reconciler
	locks   lock.Locker
}

func New(state state.State) service.Service {
	s := &AppService{
		Config:  state.Config,
		DB:      state.DB,
		Storage: state.Storage,
		Queue:   state.Queue,
	}
	if state.Config.SerializeByID {
		s.locks = state.Locks
		if s.locks == nil {
			s.locks = lock.NewLocal()
		}
	}
	return s
}

// withTimeout bounds a single adapter call.
func (s *AppService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Config.OperationTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.Config.OperationTimeout)
}

// lock serializes operations on one upload id when SerializeByID is set, and is a no-op otherwise.
func (s *AppService) lock(ctx context.Context, id string) (func(), error) {
	if s.locks == nil {
		return func() {}, nil
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.locks.Lock(ctx, id)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, db.ErrNotFound):
		return fmt.Errorf("%w: %w", service.ErrNotFound, err)
	case errors.Is(err, db.ErrInconsistent):
		return fmt.Errorf("%w: %w", service.ErrInconsistent, err)
	}
	return err
}
