package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"workforce/config"
	"workforce/internal/core"
	"workforce/internal/database/client"
	"workforce/internal/database/fluentd/repository"
	"workforce/internal/dto"
	"workforce/internal/middleware"
	cErr "workforce/internal/pkg/error"
	"workforce/internal/pkg/response"
	"workforce/internal/service/deletion"
	"workforce/internal/telemetry"
	"workforce/utils/validate"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	sourceID = "64b7f0c2a1b2c3d4e5f60001"
	targetID = "64b7f0c2a1b2c3d4e5f60002"
)

type call struct {
	entity string
	req    deletion.Request
}

type fakeEngine struct {
	calls  []call
	err    error
	counts deletion.Counts
}

func (f *fakeEngine) run(entity string, req deletion.Request) (*deletion.Result, error) {
	f.calls = append(f.calls, call{entity, req})
	if f.err != nil {
		return nil, f.err
	}
	return &deletion.Result{EmployeeID: req.EntityID, ReassignedTo: req.ReassignTo}, nil
}

func (f *fakeEngine) DeleteEmployee(_ context.Context, req deletion.Request) (*deletion.Result, error) {
	return f.run("employee", req)
}

func (f *fakeEngine) DeleteDepartment(_ context.Context, req deletion.Request) (*deletion.Result, error) {
	return f.run("department", req)
}

func (f *fakeEngine) DeleteDesignation(_ context.Context, req deletion.Request) (*deletion.Result, error) {
	return f.run("designation", req)
}

func (f *fakeEngine) Dependencies(_ context.Context, tenantID string, entity core.EntityType, id string) (deletion.Counts, error) {
	f.calls = append(f.calls, call{string(entity), deletion.Request{TenantID: tenantID, EntityID: id}})
	return f.counts, f.err
}

type fakeCandidates struct {
	entity core.EntityType
	source string
}

func (f *fakeCandidates) Candidates(_ context.Context, _ string, entity core.EntityType, sourceID string) (*dto.CandidateListDto, error) {
	f.entity, f.source = entity, sourceID
	return &dto.CandidateListDto{
		Entity:     string(entity),
		SourceID:   sourceID,
		Candidates: []*dto.CandidateDto{{ID: targetID, Name: "Bob"}},
	}, nil
}

func newHRMEngine(t *testing.T, engine *fakeEngine, candidates *fakeCandidates) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validate.RegisterMongoIDValidator()

	conf := &config.Configuration{App: config.App{Name: "workforce"}}
	trace := &telemetry.Trace{}
	logs := repository.NewLogRepository(conf, &client.NoopClient{})
	h := newHRMHandler(trace, engine, candidates)

	r := gin.New()
	r.Use(
		middleware.NewRecovery(zap.NewNop(), trace, conf, logs).ErrorHandler(),
		middleware.NewResponse(zap.NewNop(), trace, conf, logs).FormatHandler(),
		func(c *gin.Context) {
			c.Set(core.ContextTenantIDKey, "tenant_a")
			c.Set(core.ContextRoleKey, "Admin")
			c.Set(core.ContextUserIDKey, "user_admin")
			c.Next()
		},
	)
	g := r.Group("/hrm")
	g.DELETE("/employees/:employeeID", h.DeleteEmployee)
	g.DELETE("/departments/:departmentID", h.DeleteDepartment)
	g.POST("/departments/reassign-delete", h.ReassignDeleteDepartment)
	g.POST("/designations/reassign-delete", h.ReassignDeleteDesignation)
	g.GET("/employees/:employeeID/dependencies", h.Dependencies(core.EntityEmployee))
	g.GET("/designations/:designationID/reassign-candidates", h.Candidates(core.EntityDesignation))
	return r
}

func serve(r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, response.Response) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestDeleteEmployeeBuildsRequestFromContext(t *testing.T) {
	engine := &fakeEngine{}
	r := newHRMEngine(t, engine, &fakeCandidates{})

	w, body := serve(r, http.MethodDelete, "/hrm/employees/"+sourceID, `{"reassignTo":"`+targetID+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Employee deleted successfully", body.Description)
	require.Len(t, engine.calls, 1)
	assert.Equal(t, deletion.Request{
		TenantID:      "tenant_a",
		EntityID:      sourceID,
		ReassignTo:    targetID,
		RequesterID:   "user_admin",
		RequesterRole: "Admin",
	}, engine.calls[0].req)
}

func TestDeleteAcceptsReassignToFromQueryOrNothing(t *testing.T) {
	engine := &fakeEngine{}
	r := newHRMEngine(t, engine, &fakeCandidates{})

	w, _ := serve(r, http.MethodDelete, "/hrm/departments/"+sourceID+"?reassignTo="+targetID, "")
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = serve(r, http.MethodDelete, "/hrm/departments/"+sourceID, "")
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, engine.calls, 2)
	assert.Equal(t, "department", engine.calls[0].entity)
	assert.Equal(t, targetID, engine.calls[0].req.ReassignTo)
	assert.Empty(t, engine.calls[1].req.ReassignTo)
}

func TestDeleteRejectsMalformedReassignTo(t *testing.T) {
	engine := &fakeEngine{}
	r := newHRMEngine(t, engine, &fakeCandidates{})

	w, body := serve(r, http.MethodDelete, "/hrm/employees/"+sourceID, `{"reassignTo":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "reassignTo must be a valid id", body.Description)
	assert.Empty(t, engine.calls)
}

func TestEngineErrorsKeepReasonAndDetails(t *testing.T) {
	breakdown := map[string]any{"requiresReassign": true}
	engine := &fakeEngine{err: cErr.DependentRecords("Employee has dependent records", breakdown)}
	r := newHRMEngine(t, engine, &fakeCandidates{})

	w, body := serve(r, http.MethodDelete, "/hrm/employees/"+sourceID, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, cErr.ReasonDependentRecords, body.Message)
	require.Len(t, body.Details, 1)
	assert.Equal(t, true, body.Details[0].(map[string]any)["requiresReassign"])

	result := &deletion.Result{EmployeeID: sourceID, ClerkUserID: "user_x"}
	engine.err = cErr.IdentityCleanupPending("identity account removal queued", result, assert.AnError)
	w, body = serve(r, http.MethodDelete, "/hrm/employees/"+sourceID, "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, cErr.ReasonIdentityCleanupPending, body.Message)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "user_x", body.Details[0].(map[string]any)["clerkUserId"])
}

func TestReassignDeleteRequiresBothIDs(t *testing.T) {
	engine := &fakeEngine{}
	r := newHRMEngine(t, engine, &fakeCandidates{})

	w, body := serve(r, http.MethodPost, "/hrm/departments/reassign-delete", `{"sourceDepartmentId":"`+sourceID+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Source and target department IDs are required", body.Description)

	w, body = serve(r, http.MethodPost, "/hrm/designations/reassign-delete", `{"sourceDesignationId":"bad","targetDesignationId":"`+targetID+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid source designation ID format", body.Description)
	assert.Empty(t, engine.calls)
}

func TestReassignDeleteRoutesToEngine(t *testing.T) {
	engine := &fakeEngine{}
	r := newHRMEngine(t, engine, &fakeCandidates{})

	w, _ := serve(r, http.MethodPost, "/hrm/designations/reassign-delete",
		`{"sourceDesignationId":"`+sourceID+`","targetDesignationId":"`+targetID+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, engine.calls, 1)
	assert.Equal(t, "designation", engine.calls[0].entity)
	assert.Equal(t, sourceID, engine.calls[0].req.EntityID)
	assert.Equal(t, targetID, engine.calls[0].req.ReassignTo)
}

func TestDependenciesPreview(t *testing.T) {
	engine := &fakeEngine{counts: deletion.Counts{"tasks": 2, "projects": 0}}
	r := newHRMEngine(t, engine, &fakeCandidates{})

	w, body := serve(r, http.MethodGet, "/hrm/employees/"+sourceID+"/dependencies", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := body.Data.(map[string]any)
	assert.Equal(t, float64(2), data["total"])
	assert.Equal(t, true, data["requiresReassignment"])
	assert.Equal(t, "employees", engine.calls[0].entity)
	assert.Equal(t, "tenant_a", engine.calls[0].req.TenantID)
}

func TestCandidatesUsesEntityParam(t *testing.T) {
	candidates := &fakeCandidates{}
	r := newHRMEngine(t, &fakeEngine{}, candidates)

	w, body := serve(r, http.MethodGet, "/hrm/designations/"+sourceID+"/reassign-candidates", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, core.EntityDesignation, candidates.entity)
	assert.Equal(t, sourceID, candidates.source)
	assert.Len(t, body.Data.(map[string]any)["candidates"], 1)
}
