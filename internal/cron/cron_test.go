package cron

import (
	"context"
	"errors"
	"testing"

	"workforce/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeDrainer struct {
	calls  int
	report service.DrainReport
	err    error
}

func (f *fakeDrainer) Drain(ctx context.Context) (service.DrainReport, error) {
	f.calls++
	return f.report, f.err
}

func TestRunRejectsInvalidSchedule(t *testing.T) {
	c := newCron(zap.NewNop(), "not a schedule", &fakeDrainer{})
	assert.Error(t, c.Run())
}

func TestDefaultSchedule(t *testing.T) {
	c := newCron(zap.NewNop(), "", &fakeDrainer{})
	assert.Equal(t, defaultOutboxSchedule, c.schedule)
	require.NoError(t, c.Run())
	require.NoError(t, c.Stop(context.Background()))
}

func TestDrainLogsOnlyFailures(t *testing.T) {
	obs, logs := observer.New(zap.InfoLevel)
	drainer := &fakeDrainer{report: service.DrainReport{Tenants: 1, Claimed: 2, Done: 2}}
	c := newCron(zap.New(obs), "", drainer)

	c.drainIdentityOutbox()
	assert.Zero(t, logs.Len())

	drainer.err = errors.New("mongo down")
	c.drainIdentityOutbox()
	assert.Equal(t, 1, logs.FilterMessage("[Cron] identity outbox drain failed").Len())
	assert.Equal(t, 2, drainer.calls)
}
