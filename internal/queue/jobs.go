package queue

import (
	"time"

	"github.com/mikestefanello/backlite"
)

const (
	DeleteBlobQueue = "DeleteBlob"
	SweepQueue      = "Sweep"
)

// DeleteBlobJob retries the removal of a blob whose compensating delete failed on the request path.
type DeleteBlobJob struct {
	Name string
}

func (j DeleteBlobJob) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        DeleteBlobQueue,
		MaxAttempts: 5,
		Backoff:     30 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   72 * time.Hour,
			OnlyFailed: true,
			Data: &backlite.RetainData{
				OnlyFailed: true,
			},
		},
	}
}

// SweepJob removes blobs that no file record refers to. RunSweeps queues one per interval.
type SweepJob struct{}

func (j SweepJob) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        SweepQueue,
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     30 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data: &backlite.RetainData{
				OnlyFailed: true,
			},
		},
	}
}
