package storage

import (
	"errors"

	"github.com/0x5457/codesearch/internal/models"
)

// Snapshots fans a snapshot out to every writer. A zero value is a no-op.
type Snapshots []SnapshotWriter

func (s Snapshots) Enabled() bool { return len(s) > 0 }

func (s Snapshots) WriteSnapshot(chunks []*models.CodeChunk) error {
	for _, w := range s {
		if err := w.WriteSnapshot(chunks); err != nil {
			return err
		}
	}
	return nil
}

func (s Snapshots) Close() error {
	var errs []error
	for _, w := range s {
		errs = append(errs, w.Close())
	}
	return errors.Join(errs...)
}

var _ SnapshotWriter = Snapshots(nil)
