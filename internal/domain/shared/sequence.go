package shared

import (
	"context"
	"fmt"
	"time"
)

// NumberGenerator allocates strictly increasing sequence values for a named
// counter. Implementations must serialize allocation through the same unit of
// work as the caller so that concurrent allocations never produce duplicates.
type NumberGenerator interface {
	// Next returns the next value for the given sequence key.
	Next(ctx context.Context, key string) (int64, error)
}

// FormatDocumentNumber renders a document number like "GR-20260115-0001".
// Document sequences are keyed per prefix and day, so the counter restarts
// each day.
func FormatDocumentNumber(prefix string, date time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, date.Format("20060102"), seq)
}

// DailySequenceKey builds the sequence key for a per-day document counter
func DailySequenceKey(prefix string, date time.Time) string {
	return fmt.Sprintf("%s-%s", prefix, date.Format("20060102"))
}
