package worker

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskatlas/pkg/usecase"
	"github.com/secmon-lab/riskatlas/pkg/utils/logging"
)

// SnapshotSource computes the organization wide snapshot
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*usecase.Snapshot, error)
}

// SnapshotSink receives every computed snapshot
type SnapshotSink interface {
	Update(snap *usecase.Snapshot)
}

// ReportRefreshWorker recomputes the report snapshot periodically and pushes
// it to the sinks.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - Writes between ticks are picked up by Refresh, called from the change hook
type ReportRefreshWorker struct {
	source   SnapshotSource
	sinks    []SnapshotSink
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}

	// serializes refreshes from the ticker and the change hook
	mu   sync.Mutex
	last *usecase.Snapshot
}

// NewReportRefreshWorker creates a new worker for refreshing report snapshots
func NewReportRefreshWorker(source SnapshotSource, interval time.Duration, sinks ...SnapshotSink) *ReportRefreshWorker {
	return &ReportRefreshWorker{
		source:   source,
		sinks:    sinks,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background refresh loop
// - Initial refresh and periodic refresh both run in a background goroutine
// - Does not block server startup
func (w *ReportRefreshWorker) Start(ctx context.Context) error {
	if w.interval <= 0 {
		return goerr.New("refresh interval must be positive", goerr.V("interval", w.interval))
	}

	logging.Default().Info("Report refresh worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *ReportRefreshWorker) Stop() {
	logging.Default().Info("Report refresh worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("Report refresh worker stopped")
}

func (w *ReportRefreshWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	if err := w.Refresh(ctx); err != nil {
		logging.Default().Error("Initial report refresh failed (will retry next interval)",
			"error", err.Error())
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.Refresh(ctx); err != nil {
				logging.Default().Error("Report refresh failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			logging.Default().Info("Report refresh worker received stop signal")
			return

		case <-ctx.Done():
			logging.Default().Info("Report refresh worker context cancelled")
			return
		}
	}
}

// Refresh computes one snapshot and pushes it to every sink. On failure the
// sinks keep the previous snapshot.
func (w *ReportRefreshWorker) Refresh(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	startTime := time.Now()
	snap, err := w.source.Snapshot(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to compute report snapshot")
	}

	for _, sink := range w.sinks {
		sink.Update(snap)
	}
	w.last = snap

	logging.From(ctx).Debug("Report refresh completed",
		"assessments", snap.Overall.TotalAssessments,
		"duration", time.Since(startTime).String())
	return nil
}

// Last returns the most recent snapshot, or nil before the first refresh
func (w *ReportRefreshWorker) Last() *usecase.Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}
