package inventory

import (
	"context"
	"time"

	"github.com/velocore/backend/internal/domain/shared"
)

// NextDocumentNumber allocates the next per-day document number for a prefix,
// for example "GR-20260115-0003". Must be called inside a transaction scope so
// concurrent allocations serialize on the sequence row.
func NextDocumentNumber(ctx context.Context, repos TransactionalRepositories, prefix string) (string, error) {
	now := time.Now()
	seq, err := repos.Numbers().Next(ctx, shared.DailySequenceKey(prefix, now))
	if err != nil {
		return "", err
	}
	return shared.FormatDocumentNumber(prefix, now, seq), nil
}
