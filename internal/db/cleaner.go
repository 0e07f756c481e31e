package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// PurgeDeleted permanently removes flashcards soft-deleted before cutoff
// and returns how many rows were removed.
func PurgeDeleted(ctx context.Context, db *sql.DB, cutoff time.Time) (int64, error) {
	res, err := db.ExecContext(ctx, `
		DELETE FROM flashcards
		 WHERE deleted_at IS NOT NULL
		   AND deleted_at < $1
	`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// StartSoftDeleteCleaner purges soft-deleted flashcards older than
// retention every interval until ctx is cancelled.
func StartSoftDeleteCleaner(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	retention time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := PurgeDeleted(ctx, db, time.Now().Add(-retention))
				if err != nil {
					log.Error("failed to purge soft-deleted flashcards", zap.Error(err))
					continue
				}
				if removed > 0 {
					log.Info("purged soft-deleted flashcards", zap.Int64("removed", removed))
				}
			}
		}
	}()
}
