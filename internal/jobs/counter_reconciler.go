package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kinovera/festival/api/internal/model"
)

// ActivityCounterStore is the slice of the activity repository the
// reconciler needs.
type ActivityCounterStore interface {
	IDs(ctx context.Context) ([]string, error)
	Get(ctx context.Context, activityID string) (*model.Activity, error)
	SetCounters(ctx context.Context, activityID string, registered, waitlist int) error
}

// RegistrationCounter counts registration rows per activity.
type RegistrationCounter interface {
	CountByActivity(ctx context.Context, activityID string) (int, error)
}

// CounterReconciler periodically recomputes the denormalized registration
// counters on activities from the actual registration rows. Counters are
// maintained transactionally on every mutation, so a pass normally finds
// nothing to repair; the job exists to heal drift after manual data edits
// or partial failures.
type CounterReconciler struct {
	activities    ActivityCounterStore
	registrations RegistrationCounter
	interval      time.Duration
	logger        *slog.Logger
	stopCh        chan struct{}
	wg            sync.WaitGroup
	running       bool
	mu            sync.Mutex
}

// NewCounterReconciler creates a new counter reconciliation job
func NewCounterReconciler(activities ActivityCounterStore, registrations RegistrationCounter, interval time.Duration, logger *slog.Logger) *CounterReconciler {
	if interval == 0 {
		interval = 10 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CounterReconciler{
		activities:    activities,
		registrations: registrations,
		interval:      interval,
		logger:        logger,
		stopCh:        make(chan struct{}),
	}
}

// Start begins the reconciliation job
func (r *CounterReconciler) Start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	r.wg.Add(1)
	go r.run()
	r.logger.Info("counter reconciler started", "interval", r.interval)
}

// Stop gracefully stops the reconciliation job
func (r *CounterReconciler) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	close(r.stopCh)
	r.wg.Wait()
	r.logger.Info("counter reconciler stopped")
}

// run is the main loop
func (r *CounterReconciler) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.reconcile()
		case <-r.stopCh:
			return
		}
	}
}

func (r *CounterReconciler) reconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := r.RunOnce(ctx); err != nil {
		r.logger.Error("counter reconciliation pass failed", "error", err)
	}
}

// RunOnce runs a single reconciliation pass (for testing or manual trigger).
// Per-activity failures are logged and skipped so one bad record does not
// stall the rest of the pass.
func (r *CounterReconciler) RunOnce(ctx context.Context) error {
	ids, err := r.activities.IDs(ctx)
	if err != nil {
		return err
	}

	repaired := 0
	for _, id := range ids {
		activity, err := r.activities.Get(ctx, id)
		if err != nil {
			r.logger.Warn("failed to load activity for reconciliation", "activity_id", id, "error", err)
			continue
		}

		count, err := r.registrations.CountByActivity(ctx, id)
		if err != nil {
			r.logger.Warn("failed to count registrations", "activity_id", id, "error", err)
			continue
		}

		waitlist := 0
		if activity.Capacity > 0 && count > activity.Capacity {
			waitlist = count - activity.Capacity
		}

		if activity.RegisteredCount == count && activity.WaitlistCount == waitlist {
			continue
		}

		if err := r.activities.SetCounters(ctx, id, count, waitlist); err != nil {
			r.logger.Warn("failed to repair counters", "activity_id", id, "error", err)
			continue
		}
		repaired++
		r.logger.Info("repaired registration counters",
			"activity_id", id,
			"registered_count", count,
			"waitlist_count", waitlist)
	}

	if repaired > 0 {
		r.logger.Info("counter reconciliation pass complete", "repaired", repaired)
	}
	return nil
}

// IsRunning returns whether the reconciler is running
func (r *CounterReconciler) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
