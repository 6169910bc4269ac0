package deletion

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"workforce/internal/core"
	"workforce/internal/database/mongodb/model"
	cErr "workforce/internal/pkg/error"
	"workforce/internal/telemetry"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const tenantID = "acme"

type auditedEvent struct {
	event  core.SecurityEvent
	record SecurityRecord
}

type recordingAuditor struct {
	mu     sync.Mutex
	events []auditedEvent
}

func (a *recordingAuditor) RecordSecurityEvent(_ context.Context, event core.SecurityEvent, record SecurityRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, auditedEvent{event: event, record: record})
}

func (a *recordingAuditor) names() []core.SecurityEvent {
	out := make([]core.SecurityEvent, len(a.events))
	for i, e := range a.events {
		out[i] = e.event
	}
	return out
}

type recordingListings struct {
	invalidated []core.EntityType
	tenants     []string
	err         error
}

func (l *recordingListings) InvalidateListings(_ context.Context, tenantID string, entities ...core.EntityType) error {
	l.tenants = append(l.tenants, tenantID)
	l.invalidated = append(l.invalidated, entities...)
	return l.err
}

type stubDirectory struct {
	byEmail map[string]string
	err     error
	lookups []string
}

func (d *stubDirectory) LookupUserIDByEmail(_ context.Context, email string) (string, error) {
	d.lookups = append(d.lookups, email)
	if d.err != nil {
		return "", d.err
	}
	if id, ok := d.byEmail[email]; ok {
		return id, nil
	}
	return "", errors.New("not found")
}

type recordingCleaner struct {
	jobs []model.IdentityDeletionJob
	err  error
}

func (c *recordingCleaner) Lease() time.Duration {
	return time.Minute
}

func (c *recordingCleaner) Attempt(_ context.Context, _ string, job model.IdentityDeletionJob) error {
	c.jobs = append(c.jobs, job)
	return c.err
}

type fixture struct {
	store     *memoryTenant
	engine    *Engine
	auditor   *recordingAuditor
	listings  *recordingListings
	directory *stubDirectory
	cleaner   *recordingCleaner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:     newMemoryTenant(),
		auditor:   &recordingAuditor{},
		listings:  &recordingListings{},
		directory: &stubDirectory{byEmail: map[string]string{}},
		cleaner:   &recordingCleaner{},
	}
	resolver := TenantResolver(func(id string) (Tenant, error) {
		if id != tenantID {
			return nil, errors.New("unknown tenant")
		}
		return f.store, nil
	})
	f.engine = NewEngine(resolver, f.directory, f.cleaner, f.listings, f.auditor,
		&telemetry.Trace{}, telemetry.NewMetric(nil), zap.NewNop())
	t.Cleanup(func() {
		require.Empty(t, f.store.writesOutside, "writes issued outside the transaction")
	})
	return f
}

func employeeDoc(id primitive.ObjectID, role string, department, designation any) bson.M {
	return bson.M{
		"_id":           id,
		"employeeId":    "EMP-" + id.Hex()[18:],
		"firstName":     "First" + id.Hex()[20:],
		"lastName":      "Last",
		"contact":       bson.M{"email": id.Hex() + "@acme.io"},
		"account":       bson.M{"role": role},
		"departmentId":  department,
		"designationId": designation,
		"isDeleted":     false,
	}
}

func requireReason(t *testing.T, err error, reason string) *cErr.Error {
	t.Helper()
	require.Error(t, err)
	var appErr *cErr.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, reason, appErr.Reason(), "error: %s", appErr.ErrorDesc())
	return appErr
}
