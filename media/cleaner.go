package media

import (
	"context"
	"log"
	"time"

	"github.com/abdur28/boarding-sky-sub000/metrics"
)

// Cleaner deletes orphaned images on a best-effort basis. Callers invoke it
// only after the owning record change has been committed.
type Cleaner struct {
	store   Store
	timeout time.Duration
}

func NewCleaner(store Store) *Cleaner {
	return &Cleaner{store: store, timeout: 30 * time.Second}
}

// Cleanup returns the number of URLs submitted. An empty list makes no call.
// Store failures are logged and never propagated.
func (c *Cleaner) Cleanup(ctx context.Context, urls []string) int {
	if c == nil || c.store == nil || len(urls) == 0 {
		return 0
	}

	// the request may be finishing; the record change is already durable
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	metrics.ImagesQueued.Add(float64(len(urls)))
	if err := c.store.Delete(ctx, urls); err != nil {
		metrics.ImageCleanupTotal.WithLabelValues("error").Inc()
		log.Printf("⚠️  image cleanup failed for %d url(s): %v", len(urls), err)
		return len(urls)
	}
	metrics.ImageCleanupTotal.WithLabelValues("ok").Inc()
	return len(urls)
}
