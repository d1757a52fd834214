package queue

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/filecat/internal/config"
	"github.com/sidereusnuntius/filecat/internal/db"
	"github.com/sidereusnuntius/filecat/internal/storage"
)

// Reconciler repairs divergence between the blob store and the catalog outside of the request path.
type Reconciler interface {
	// DeleteBlob schedules the removal of a blob that should not exist, no earlier than after from now.
	DeleteBlob(ctx context.Context, name string, after time.Duration) error
	// ScheduleSweep schedules an orphan sweep after the given delay.
	ScheduleSweep(ctx context.Context, after time.Duration) error
}

type reconcilerImpl struct {
	queues  *backlite.Client
	storage storage.Storage
	db      db.Files
	cfg     *config.Configuration

	sweeping atomic.Bool
}

func New(ctx context.Context, blClient *backlite.Client, store storage.Storage, files db.Files, cfg *config.Configuration) Reconciler {
	q := &reconcilerImpl{
		queues:  blClient,
		storage: store,
		db:      files,
		cfg:     cfg,
	}
	q.register()
	q.queues.Start(ctx)
	log.Info().Msg("started reconciliation queue")
	return q
}

func (q *reconcilerImpl) DeleteBlob(ctx context.Context, name string, after time.Duration) error {
	log.Debug().Str("stored_name", name).Dur("after", after).Msg("enqueuing blob deletion")
	_, err := q.queues.Add(DeleteBlobJob{Name: name}).Ctx(ctx).Wait(after).Save()
	return err
}

func (q *reconcilerImpl) ScheduleSweep(ctx context.Context, after time.Duration) error {
	_, err := q.queues.Add(SweepJob{}).Ctx(ctx).Wait(after).Save()
	return err
}
