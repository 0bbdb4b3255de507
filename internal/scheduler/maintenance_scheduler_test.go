package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mithunreddyy/valuva-sub002/config"
	"github.com/mithunreddyy/valuva-sub002/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReconciler struct {
	calls atomic.Int32
	err   error
}

func (f *fakeReconciler) ReconcileCounters() ([]repository.CounterDrift, error) {
	f.calls.Add(1)
	return []repository.CounterDrift{{ProductID: 1}}, f.err
}

type fakeExpirer struct {
	calls atomic.Int32
}

func (f *fakeExpirer) DeactivateExpired() (int64, error) {
	f.calls.Add(1)
	return 2, nil
}

func TestMaintenanceScheduler_RunsJobs(t *testing.T) {
	reconciler := &fakeReconciler{}
	expirer := &fakeExpirer{}
	s := NewMaintenanceScheduler(config.SchedulerConfig{
		ReconcileSpec:    "@every 1s",
		CouponExpirySpec: "@every 1s",
	}, reconciler, expirer)

	require.NoError(t, s.Start())
	defer s.Stop(context.Background())

	assert.Eventually(t, func() bool {
		return reconciler.calls.Load() > 0 && expirer.calls.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)
}

func TestMaintenanceScheduler_EmptySpecDisablesJob(t *testing.T) {
	reconciler := &fakeReconciler{}
	expirer := &fakeExpirer{}
	s := NewMaintenanceScheduler(config.SchedulerConfig{CouponExpirySpec: "@every 1s"}, reconciler, expirer)

	require.NoError(t, s.Start())
	assert.Eventually(t, func() bool { return expirer.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	s.Stop(context.Background())

	assert.Zero(t, reconciler.calls.Load())
}

func TestMaintenanceScheduler_InvalidSpec(t *testing.T) {
	s := NewMaintenanceScheduler(config.SchedulerConfig{ReconcileSpec: "every tuesday"}, &fakeReconciler{}, &fakeExpirer{})
	assert.Error(t, s.Start())
}

func TestMaintenanceScheduler_JobErrorsAreContained(t *testing.T) {
	reconciler := &fakeReconciler{err: errors.New("db down")}
	s := NewMaintenanceScheduler(config.SchedulerConfig{}, reconciler, &fakeExpirer{})

	assert.NotPanics(t, s.ReconcileCounters)
	assert.NotPanics(t, s.ExpireCoupons)
	assert.Equal(t, int32(1), reconciler.calls.Load())
}
