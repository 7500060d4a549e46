package worker

import (
	"context"
	"time"

	"github.com/xavierca1/clientbook/internal/logger"
	"github.com/xavierca1/clientbook/internal/projection"
)

type StatsSource interface {
	RefreshStats() projection.Stats
}

// StatsWorker recomputes the stats on a tick. "Today" moves with the clock
// even when no snapshot arrives, so the gauges would go stale otherwise.
type StatsWorker struct {
	source       StatsSource
	publish      func(projection.Stats)
	tickInterval time.Duration
}

func NewStatsWorker(source StatsSource, publish func(projection.Stats), interval time.Duration) *StatsWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &StatsWorker{
		source:       source,
		publish:      publish,
		tickInterval: interval,
	}
}

func (w *StatsWorker) Start(ctx context.Context) {
	logger.Log.Infof("🕒 stats worker started (every %s)", w.tickInterval)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.refresh()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("⚠️ stats worker stopped")
			return
		case <-ticker.C:
			w.refresh()
		}
	}
}

func (w *StatsWorker) refresh() {
	stats := w.source.RefreshStats()
	if w.publish != nil {
		w.publish(stats)
	}
	logger.Log.WithField("total", stats.Total).Debugf("📊 stats refreshed (today=%d)", stats.Today)
}
