package index

import (
	"context"

	"farc/internal/watcher"
)

// Apply folds one batch of watcher changes into the index. Added and
// modified files are re-read and upserted; deleted files are dropped.
// The first error stops the batch.
func (s *Store) Apply(ctx context.Context, changes *watcher.Changes) error {
	for _, file := range changes.Added {
		if file.IsDir {
			continue
		}
		if err := s.Refresh(ctx, file.Path); err != nil {
			return err
		}
	}
	for _, file := range changes.Modified {
		if file.IsDir {
			continue
		}
		if err := s.Refresh(ctx, file.Path); err != nil {
			return err
		}
	}
	for _, file := range changes.Deleted {
		if err := s.Remove(ctx, file.Path); err != nil {
			return err
		}
	}
	return nil
}
