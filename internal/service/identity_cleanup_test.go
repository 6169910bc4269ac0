package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"workforce/config"
	"workforce/internal/core"
	"workforce/internal/database/mongodb/model"
	"workforce/internal/identity"
	"workforce/internal/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeDeleter struct {
	errs    map[string]error
	deleted []string
}

func (d *fakeDeleter) DeleteUser(_ context.Context, userID string) error {
	d.deleted = append(d.deleted, userID)
	return d.errs[userID]
}

type retryMark struct {
	status core.OutboxStatus
	err    string
	next   time.Time
}

type fakeOutbox struct {
	tenants  []string
	queues   map[string][]*model.IdentityDeletionJob
	claimErr map[string]error
	done     []primitive.ObjectID
	retries  map[primitive.ObjectID]retryMark
	indexed  []string
}

func newFakeOutbox(tenants ...string) *fakeOutbox {
	return &fakeOutbox{
		tenants:  tenants,
		queues:   map[string][]*model.IdentityDeletionJob{},
		claimErr: map[string]error{},
		retries:  map[primitive.ObjectID]retryMark{},
	}
}

func (o *fakeOutbox) enqueue(tenantID, externalUserID string, attempts int) *model.IdentityDeletionJob {
	job := &model.IdentityDeletionJob{
		ID:             primitive.NewObjectID(),
		ExternalUserID: externalUserID,
		Status:         string(core.OutboxStatusPending),
		Attempts:       attempts,
	}
	o.queues[tenantID] = append(o.queues[tenantID], job)
	return job
}

func (o *fakeOutbox) EnsureIndexes(_ context.Context, tenantID string) error {
	o.indexed = append(o.indexed, tenantID)
	return nil
}

func (o *fakeOutbox) TenantIDs(context.Context) ([]string, error) {
	return o.tenants, nil
}

func (o *fakeOutbox) ClaimDue(_ context.Context, tenantID string, _ time.Time, _ time.Duration) (*model.IdentityDeletionJob, error) {
	if err := o.claimErr[tenantID]; err != nil {
		return nil, err
	}
	queue := o.queues[tenantID]
	if len(queue) == 0 {
		return nil, nil
	}
	o.queues[tenantID] = queue[1:]
	return queue[0], nil
}

func (o *fakeOutbox) MarkDone(_ context.Context, _ string, jobID primitive.ObjectID) error {
	o.done = append(o.done, jobID)
	return nil
}

func (o *fakeOutbox) MarkRetry(_ context.Context, _ string, jobID primitive.ObjectID, status core.OutboxStatus, lastError string, next time.Time) error {
	o.retries[jobID] = retryMark{status: status, err: lastError, next: next}
	return nil
}

func (o *fakeOutbox) CountByStatus(_ context.Context, tenantID string, status core.OutboxStatus) (int64, error) {
	var n int64
	for _, job := range o.queues[tenantID] {
		if job.Status == string(status) {
			n++
		}
	}
	return n, nil
}

var fixedNow = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func newCleanupService(deleter identityDeleter, outbox identityOutbox, conf config.Outbox) *IdentityCleanupService {
	s := newIdentityCleanupService(deleter, outbox, &telemetry.Trace{}, telemetry.NewMetric(nil), zap.NewNop(), conf)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestIdentityCleanupAttemptMarksDone(t *testing.T) {
	deleter := &fakeDeleter{}
	outbox := newFakeOutbox("acme")
	job := outbox.enqueue("acme", "user_1", 0)
	s := newCleanupService(deleter, outbox, config.Outbox{})

	require.NoError(t, s.Attempt(context.Background(), "acme", *job))
	assert.Equal(t, []string{"user_1"}, deleter.deleted)
	assert.Equal(t, []primitive.ObjectID{job.ID}, outbox.done)
	assert.Empty(t, outbox.retries)
}

func TestIdentityCleanupTreatsMissingAccountAsDone(t *testing.T) {
	deleter := &fakeDeleter{errs: map[string]error{"user_1": errors.Join(identity.ErrUserNotFound, errors.New("404"))}}
	outbox := newFakeOutbox("acme")
	job := outbox.enqueue("acme", "user_1", 2)
	s := newCleanupService(deleter, outbox, config.Outbox{})

	require.NoError(t, s.Attempt(context.Background(), "acme", *job))
	assert.Equal(t, []primitive.ObjectID{job.ID}, outbox.done)
}

func TestIdentityCleanupSchedulesRetryWithBackoff(t *testing.T) {
	cause := errors.New("clerk: 503")
	deleter := &fakeDeleter{errs: map[string]error{"user_1": cause}}
	outbox := newFakeOutbox("acme")
	first := outbox.enqueue("acme", "user_1", 0)
	third := outbox.enqueue("acme", "user_1", 2)
	s := newCleanupService(deleter, outbox, config.Outbox{MaxAttempts: 5, BaseDelaySeconds: 10, MaxDelaySeconds: 3600})

	err := s.Attempt(context.Background(), "acme", *first)
	assert.ErrorIs(t, err, cause)
	mark := outbox.retries[first.ID]
	assert.Equal(t, core.OutboxStatusPending, mark.status)
	assert.Equal(t, "clerk: 503", mark.err)
	assert.Equal(t, fixedNow.Add(10*time.Second), mark.next)

	require.Error(t, s.Attempt(context.Background(), "acme", *third))
	assert.Equal(t, fixedNow.Add(40*time.Second), outbox.retries[third.ID].next)
	assert.Empty(t, outbox.done)
}

func TestIdentityCleanupGivesUpAfterMaxAttempts(t *testing.T) {
	deleter := &fakeDeleter{errs: map[string]error{"user_1": errors.New("boom")}}
	outbox := newFakeOutbox("acme")
	job := outbox.enqueue("acme", "user_1", 2)
	s := newCleanupService(deleter, outbox, config.Outbox{MaxAttempts: 3})

	require.Error(t, s.Attempt(context.Background(), "acme", *job))
	assert.Equal(t, core.OutboxStatusFailed, outbox.retries[job.ID].status)
}

func TestIdentityCleanupDelayIsCapped(t *testing.T) {
	s := newCleanupService(&fakeDeleter{}, newFakeOutbox(), config.Outbox{BaseDelaySeconds: 30, MaxDelaySeconds: 300})

	assert.Equal(t, 30*time.Second, s.delay(1))
	assert.Equal(t, 60*time.Second, s.delay(2))
	assert.Equal(t, 120*time.Second, s.delay(3))
	assert.Equal(t, 240*time.Second, s.delay(4))
	assert.Equal(t, 300*time.Second, s.delay(5))
	assert.Equal(t, 300*time.Second, s.delay(12))
}

func TestIdentityCleanupDefaults(t *testing.T) {
	s := newCleanupService(&fakeDeleter{}, newFakeOutbox(), config.Outbox{})
	assert.Equal(t, defaultOutboxBatchSize, s.batchSize)
	assert.Equal(t, defaultOutboxMaxAttempts, s.maxAttempts)
	assert.Equal(t, defaultOutboxBaseDelay, s.baseDelay)
	assert.Equal(t, defaultOutboxMaxDelay, s.maxDelay)
	assert.Equal(t, defaultOutboxLease, s.lease)
	assert.Equal(t, defaultOutboxLease, s.Lease())

	configured := newCleanupService(&fakeDeleter{}, newFakeOutbox(), config.Outbox{LeaseSeconds: 90})
	assert.Equal(t, 90*time.Second, configured.Lease())
}

func TestIdentityCleanupDrain(t *testing.T) {
	deleter := &fakeDeleter{errs: map[string]error{
		"user_flaky": errors.New("timeout"),
		"user_dead":  errors.New("timeout"),
	}}
	outbox := newFakeOutbox("acme", "globex", "broken")
	outbox.enqueue("acme", "user_1", 0)
	outbox.enqueue("acme", "user_flaky", 0)
	outbox.enqueue("globex", "user_dead", 3)
	outbox.enqueue("globex", "user_2", 1)
	outbox.claimErr["broken"] = errors.New("no such database")
	s := newCleanupService(deleter, outbox, config.Outbox{MaxAttempts: 4})

	report, err := s.Drain(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "tenant broken")
	assert.Equal(t, DrainReport{Tenants: 3, Claimed: 4, Done: 2, Retrying: 1, Failed: 1}, report)
	assert.ElementsMatch(t, []string{"user_1", "user_flaky", "user_dead", "user_2"}, deleter.deleted)
}

func TestIdentityCleanupDrainHonoursBatchSize(t *testing.T) {
	outbox := newFakeOutbox("acme")
	for range 5 {
		outbox.enqueue("acme", "user", 0)
	}
	s := newCleanupService(&fakeDeleter{}, outbox, config.Outbox{BatchSize: 2})

	report, err := s.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Claimed)
	assert.Len(t, outbox.queues["acme"], 3)
}

func TestIdentityCleanupStatusAndIndexes(t *testing.T) {
	outbox := newFakeOutbox("acme", "globex")
	outbox.enqueue("acme", "user_1", 0)
	failed := outbox.enqueue("acme", "user_2", 8)
	failed.Status = string(core.OutboxStatusFailed)
	s := newCleanupService(&fakeDeleter{}, outbox, config.Outbox{})

	status, err := s.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]map[core.OutboxStatus]int64{
		"acme": {core.OutboxStatusPending: 1, core.OutboxStatusFailed: 1},
	}, status)

	require.NoError(t, s.EnsureIndexes(context.Background()))
	assert.Equal(t, []string{"acme", "globex"}, outbox.indexed)
}
