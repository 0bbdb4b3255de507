package scheduler

import (
	"context"

	"github.com/mithunreddyy/valuva-sub002/config"
	"github.com/mithunreddyy/valuva-sub002/internal/app/repository"
	"github.com/mithunreddyy/valuva-sub002/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CounterReconciler repairs denormalized product counters
type CounterReconciler interface {
	ReconcileCounters() ([]repository.CounterDrift, error)
}

// CouponExpirer switches off coupons whose window has closed
type CouponExpirer interface {
	DeactivateExpired() (int64, error)
}

// MaintenanceScheduler runs the periodic catalog housekeeping jobs
type MaintenanceScheduler struct {
	cron       *cron.Cron
	cfg        config.SchedulerConfig
	reconciler CounterReconciler
	coupons    CouponExpirer
}

func NewMaintenanceScheduler(cfg config.SchedulerConfig, reconciler CounterReconciler, coupons CouponExpirer) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		// a slow run is skipped rather than stacked
		cron:       cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		cfg:        cfg,
		reconciler: reconciler,
		coupons:    coupons,
	}
}

// Start registers both jobs. An empty spec disables that job.
func (s *MaintenanceScheduler) Start() error {
	jobs := []struct {
		name string
		spec string
		run  func()
	}{
		{"reconcile_counters", s.cfg.ReconcileSpec, s.ReconcileCounters},
		{"expire_coupons", s.cfg.CouponExpirySpec, s.ExpireCoupons},
	}

	for _, job := range jobs {
		if job.spec == "" {
			logger.Info("Scheduled job disabled", map[string]interface{}{
				"job": job.name,
			})
			continue
		}
		if _, err := s.cron.AddFunc(job.spec, job.run); err != nil {
			logger.Error("Failed to add cron job", err, map[string]interface{}{
				"job":  job.name,
				"spec": job.spec,
			})
			return err
		}
	}

	s.cron.Start()
	logger.Info("Maintenance scheduler started", map[string]interface{}{
		"reconcile_spec":     s.cfg.ReconcileSpec,
		"coupon_expiry_spec": s.cfg.CouponExpirySpec,
	})
	return nil
}

// Stop waits for running jobs or for ctx, whichever comes first
func (s *MaintenanceScheduler) Stop(ctx context.Context) {
	logger.Info("Stopping maintenance scheduler...", nil)
	select {
	case <-s.cron.Stop().Done():
		logger.Info("Maintenance scheduler stopped", nil)
	case <-ctx.Done():
		logger.Warn("Maintenance scheduler stop timed out", nil)
	}
}

func (s *MaintenanceScheduler) ReconcileCounters() {
	drift, err := s.reconciler.ReconcileCounters()
	if err != nil {
		logger.Error("Scheduled counter reconciliation failed", err)
		return
	}
	if len(drift) > 0 {
		logger.Warn("Corrected drifted product counters", map[string]interface{}{
			"products": len(drift),
		})
		return
	}
	logger.Debug("Product counters consistent", nil)
}

func (s *MaintenanceScheduler) ExpireCoupons() {
	n, err := s.coupons.DeactivateExpired()
	if err != nil {
		logger.Error("Scheduled coupon expiry failed", err)
		return
	}
	if n > 0 {
		logger.Info("Deactivated expired coupons", map[string]interface{}{
			"count": n,
		})
	}
}
