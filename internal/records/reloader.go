package records

import (
	"context"
	"fmt"
	"time"

	"github.com/farxc/consulta-energia/internal/logger"
)

// Reloader refreshes a Store from its Source on demand and, when an interval
// is set, on a ticker.
type Reloader struct {
	store     *Store
	source    Source
	interval  time.Duration
	appLogger *logger.Logger
}

func NewReloader(store *Store, source Source, interval time.Duration, appLogger *logger.Logger) *Reloader {
	return &Reloader{
		store:     store,
		source:    source,
		interval:  interval,
		appLogger: appLogger,
	}
}

// Reload loads the table once. A failure leaves the store empty and is logged
// and returned, never fatal.
func (r *Reloader) Reload(ctx context.Context) error {
	const component = "Reloader"

	start := time.Now()
	if err := r.store.Load(ctx, r.source); err != nil {
		r.appLogger.Error(component, "Failed to load records: source=%s error=%v", describe(r.source), err)
		return err
	}

	r.appLogger.Info(component, "Records loaded: source=%s records=%d elapsed=%s", describe(r.source), r.store.Len(), time.Since(start).Round(time.Millisecond))
	return nil
}

// Run reloads every interval until ctx is done. It returns at once when the
// interval is not positive.
func (r *Reloader) Run(ctx context.Context) {
	if r.interval <= 0 {
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = r.Reload(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func describe(src Source) string {
	if s, ok := src.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", src)
}
