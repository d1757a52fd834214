package queue

import (
	"context"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/filecat/internal/db"
	"github.com/sidereusnuntius/filecat/internal/naming"
	"github.com/sidereusnuntius/filecat/internal/storage"
)

func (q *reconcilerImpl) register() {
	q.queues.Register(backlite.NewQueue[DeleteBlobJob](q.deleteBlob()))
	q.queues.Register(backlite.NewQueue[SweepJob](q.sweep()))
}

func (q *reconcilerImpl) deleteBlob() func(context.Context, DeleteBlobJob) error {
	return func(ctx context.Context, job DeleteBlobJob) error {
		// The upload may have been retried with the same name since the job was queued.
		exists, err := q.db.FileNameExists(ctx, job.Name)
		if err != nil {
			return err
		}
		if exists {
			log.Warn().Str("stored_name", job.Name).Msg("blob is referenced again; not deleting")
			return nil
		}

		if err = q.storage.Delete(ctx, job.Name); err != nil {
			log.Error().Err(err).Str("stored_name", job.Name).Msg("queued blob deletion failed")
			return err
		}
		log.Info().Str("stored_name", job.Name).Msg("removed orphaned blob")
		return nil
	}
}

func (q *reconcilerImpl) sweep() func(context.Context, SweepJob) error {
	return func(ctx context.Context, job SweepJob) error {
		if !q.sweeping.CompareAndSwap(false, true) {
			log.Debug().Msg("orphan sweep already running")
			return nil
		}
		defer q.sweeping.Store(false)

		removed, err := Sweep(ctx, q.storage, q.db, q.cfg.SweepGrace, time.Now())
		if err != nil {
			return err
		}
		log.Info().Int("removed", removed).Msg("orphan sweep finished")
		return nil
	}
}

// RunSweeps queues an orphan sweep every interval until ctx is done. Schedules live only as long as the
// process that runs them, so restarts never add up.
func RunSweeps(ctx context.Context, r Reconciler, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.ScheduleSweep(ctx, 0); err != nil {
				log.Error().Err(err).Msg("failed to schedule orphan sweep")
			}
		}
	}
}

// Sweep deletes every blob older than grace that no file record names, and returns how many it removed.
// Younger blobs are skipped because their upload may still be writing its metadata. Names this service
// could not have produced are never touched.
func Sweep(ctx context.Context, store storage.Storage, files db.Files, grace time.Duration, now time.Time) (int, error) {
	var candidates []string
	err := store.List(ctx, func(b storage.BlobInfo) error {
		if naming.IsStoredName(b.Name) && now.Sub(b.ModifiedAt) >= grace {
			candidates = append(candidates, b.Name)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, name := range candidates {
		exists, err := files.FileNameExists(ctx, name)
		if err != nil {
			return removed, err
		}
		if exists {
			continue
		}
		if err = store.Delete(ctx, name); err != nil {
			log.Error().Err(err).Str("stored_name", name).Msg("failed to remove orphaned blob")
			continue
		}
		log.Info().Str("stored_name", name).Str("path", store.Location(name)).Msg("removed orphaned blob")
		removed++
	}
	return removed, nil
}
