package deletion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"workforce/internal/core"
	"workforce/internal/database/mongodb/model"
	cErr "workforce/internal/pkg/error"
	"workforce/internal/telemetry"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const outcomeSuccess = "success"

// Request 一次刪除請求；TenantID 與 RequesterRole 由上游驗證後帶入
type Request struct {
	TenantID      string
	EntityID      string
	ReassignTo    string
	RequesterID   string
	RequesterRole string
}

// Result 刪除成功的摘要
type Result struct {
	EmployeeID    string `json:"employeeId,omitempty"`
	DepartmentID  string `json:"departmentId,omitempty"`
	DesignationID string `json:"designationId,omitempty"`
	Name          string `json:"name,omitempty"`
	ReassignedTo  string `json:"reassignedTo,omitempty"`
	ClerkUserID   string `json:"clerkUserId,omitempty"`
	Dependencies  Counts `json:"dependencies"`
}

// Engine 員工 / 部門 / 職稱的刪除與重新指派流程：
// 查詢 → 授權（僅員工）→ 計數 → 依賴閘門 → 驗證 target → 交易（改寫 + 刪除）→ commit 後處理
type Engine struct {
	tenants   TenantResolver
	directory IdentityDirectory
	cleaner   IdentityCleaner
	listings  ListingInvalidator
	auditor   SecurityAuditor
	trace     *telemetry.Trace
	metric    *telemetry.Metric
	logger    *zap.Logger
	now       func() time.Time
}

func NewEngine(
	tenants TenantResolver,
	directory IdentityDirectory,
	cleaner IdentityCleaner,
	listings ListingInvalidator,
	auditor SecurityAuditor,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		tenants:   tenants,
		directory: directory,
		cleaner:   cleaner,
		listings:  listings,
		auditor:   auditor,
		trace:     trace,
		metric:    metric,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (e *Engine) DeleteEmployee(ctx context.Context, req Request) (result *Result, returnedError error) {
	meta := core.TraceDeletionMeta{Entity: string(core.EntityEmployee), TenantID: req.TenantID, EntityID: req.EntityID, ReassignTo: req.ReassignTo}
	ctx, finish := e.observe(ctx, core.EntityEmployee, &meta)
	defer func() { finish(returnedError) }()

	tenant, source, err := e.open(req, core.EntityEmployee)
	if err != nil {
		return nil, err
	}
	var employee model.Employee
	if err := e.lookup(ctx, tenant, core.EntityEmployee, source, &employee); err != nil {
		return nil, err
	}

	identityUserID := e.resolveIdentityUser(ctx, &employee)
	requesterRole := NormalizeRole(req.RequesterRole)
	targetRole := NormalizeRole(employee.RawRole())
	meta.RequesterRole, meta.TargetRole = string(requesterRole), string(targetRole)

	record := SecurityRecord{
		TenantID:      req.TenantID,
		RequesterID:   req.RequesterID,
		RequesterRole: requesterRole,
		TargetID:      source.Hex(),
		TargetRole:    targetRole,
	}
	e.auditor.RecordSecurityEvent(ctx, core.SecurityEventDeleteAttempt, record)
	if !CanDelete(requesterRole, targetRole) {
		e.auditor.RecordSecurityEvent(ctx, core.SecurityEventDeleteDenied, record)
		return nil, cErr.Forbidden("You do not have permission to delete this role.")
	}

	counts, err := e.gate(ctx, tenant, core.EntityEmployee, source, req.ReassignTo)
	meta.Dependencies = counts
	if err != nil {
		return nil, err
	}

	var reassignee *model.Employee
	if req.ReassignTo != "" {
		if _, reassignee, err = validateEmployeeTarget(ctx, tenant, &employee, req.ReassignTo); err != nil {
			return nil, err
		}
	}

	var ops []operation
	if reassignee != nil {
		ops = append(ops, employeeReassignOps(source, reassignee)...)
	}
	ops = append(ops, employeeOrphanOps(source, identityUserID)...)
	ops = append(ops, employeePurgeOps(source, employee.EmployeeCode, identityUserID)...)

	var job *model.IdentityDeletionJob
	if identityUserID != "" {
		j := newIdentityJob(source.Hex(), identityUserID, e.now(), e.cleaner.Lease())
		job = &j
	}

	err = e.transact(ctx, tenant, func(txContext context.Context) error {
		if err := runOps(txContext, tenant, ops); err != nil {
			return err
		}
		if err := deletePrimary(txContext, tenant, core.EntityEmployee, source); err != nil {
			return err
		}
		if job != nil {
			if err := tenant.InsertOne(txContext, core.MongoCollectionIdentityOutbox, job); err != nil {
				return cErr.DatabaseError("enqueue identity cleanup").Wrap(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result = &Result{EmployeeID: source.Hex(), ClerkUserID: identityUserID, Dependencies: counts}
	if reassignee != nil {
		result.ReassignedTo = reassignee.ID.Hex()
	}
	e.logger.Info("employee deleted",
		zap.String("tenantId", req.TenantID),
		zap.String("employeeId", source.Hex()),
		zap.String("reassignedTo", result.ReassignedTo),
		zap.Int("operations", len(ops)),
	)

	// commit 之後的步驟不受呼叫端取消影響
	postCtx := context.WithoutCancel(ctx)
	e.invalidate(postCtx, req.TenantID, core.EntityEmployee)

	if job != nil {
		if err := e.cleaner.Attempt(postCtx, req.TenantID, *job); err != nil {
			return nil, cErr.IdentityCleanupPending(
				"Employee deleted, but the identity account could not be removed; cleanup is queued for retry",
				result, err,
			)
		}
	}
	return result, nil
}

func (e *Engine) DeleteDepartment(ctx context.Context, req Request) (result *Result, returnedError error) {
	meta := core.TraceDeletionMeta{Entity: string(core.EntityDepartment), TenantID: req.TenantID, EntityID: req.EntityID, ReassignTo: req.ReassignTo}
	ctx, finish := e.observe(ctx, core.EntityDepartment, &meta)
	defer func() { finish(returnedError) }()

	tenant, source, err := e.open(req, core.EntityDepartment)
	if err != nil {
		return nil, err
	}
	var department model.Department
	if err := e.lookup(ctx, tenant, core.EntityDepartment, source, &department); err != nil {
		return nil, err
	}

	counts, err := e.gate(ctx, tenant, core.EntityDepartment, source, req.ReassignTo)
	meta.Dependencies = counts
	if err != nil {
		return nil, err
	}

	var ops []operation
	var target Ref
	if req.ReassignTo != "" {
		if target, _, err = validateDepartmentTarget(ctx, tenant, &department, req.ReassignTo); err != nil {
			return nil, err
		}
		ops = departmentReassignOps(source, target)
	}

	err = e.transact(ctx, tenant, func(txContext context.Context) error {
		if err := runOps(txContext, tenant, ops); err != nil {
			return err
		}
		return deletePrimary(txContext, tenant, core.EntityDepartment, source)
	})
	if err != nil {
		return nil, err
	}

	result = &Result{DepartmentID: source.Hex(), Name: department.Department, Dependencies: counts}
	if !target.IsZero() {
		result.ReassignedTo = target.Hex()
	}
	e.logger.Info("department deleted",
		zap.String("tenantId", req.TenantID),
		zap.String("departmentId", source.Hex()),
		zap.String("reassignedTo", result.ReassignedTo),
	)
	// 員工與職稱列表中帶有部門欄位，一併失效
	e.invalidate(context.WithoutCancel(ctx), req.TenantID, core.EntityDepartment, core.EntityDesignation, core.EntityEmployee)
	return result, nil
}

func (e *Engine) DeleteDesignation(ctx context.Context, req Request) (result *Result, returnedError error) {
	meta := core.TraceDeletionMeta{Entity: string(core.EntityDesignation), TenantID: req.TenantID, EntityID: req.EntityID, ReassignTo: req.ReassignTo}
	ctx, finish := e.observe(ctx, core.EntityDesignation, &meta)
	defer func() { finish(returnedError) }()

	tenant, source, err := e.open(req, core.EntityDesignation)
	if err != nil {
		return nil, err
	}
	var designation model.Designation
	if err := e.lookup(ctx, tenant, core.EntityDesignation, source, &designation); err != nil {
		return nil, err
	}

	counts, err := e.gate(ctx, tenant, core.EntityDesignation, source, req.ReassignTo)
	meta.Dependencies = counts
	if err != nil {
		return nil, err
	}

	var ops []operation
	var target *model.Designation
	if req.ReassignTo != "" {
		if _, target, err = validateDesignationTarget(ctx, tenant, &designation, req.ReassignTo); err != nil {
			return nil, err
		}
		ops = designationReassignOps(source, target)
	}

	err = e.transact(ctx, tenant, func(txContext context.Context) error {
		if err := runOps(txContext, tenant, ops); err != nil {
			return err
		}
		return deletePrimary(txContext, tenant, core.EntityDesignation, source)
	})
	if err != nil {
		return nil, err
	}

	result = &Result{DesignationID: source.Hex(), Name: designation.Designation, Dependencies: counts}
	if target != nil {
		result.ReassignedTo = target.ID.Hex()
	}
	e.logger.Info("designation deleted",
		zap.String("tenantId", req.TenantID),
		zap.String("designationId", source.Hex()),
		zap.String("reassignedTo", result.ReassignedTo),
	)
	e.invalidate(context.WithoutCancel(ctx), req.TenantID, core.EntityDesignation, core.EntityEmployee)
	return result, nil
}

// Dependencies 只做查詢與計數，不改動任何資料
func (e *Engine) Dependencies(ctx context.Context, tenantID string, entity core.EntityType, entityID string) (Counts, error) {
	if !entity.Valid() {
		return nil, cErr.BadRequestParams(fmt.Sprintf("unsupported entity %q", entity))
	}
	tenant, source, err := e.open(Request{TenantID: tenantID, EntityID: entityID}, entity)
	if err != nil {
		return nil, err
	}
	var doc struct{}
	if err := e.lookup(ctx, tenant, entity, source, &doc); err != nil {
		return nil, err
	}
	counts, err := countDependencies(ctx, tenant, dependenciesOf(entity), source)
	if err != nil {
		return nil, cErr.DatabaseError("count dependencies").Wrap(err)
	}
	return counts, nil
}

func idField(entity core.EntityType) string {
	return entityNoun(entity) + "Id"
}

func (e *Engine) open(req Request, entity core.EntityType) (Tenant, Ref, error) {
	if strings.TrimSpace(req.TenantID) == "" {
		return nil, Ref{}, cErr.Validation("tenantId", "tenantId is required")
	}
	source, err := ParseRef(idField(entity), req.EntityID)
	if err != nil {
		return nil, Ref{}, err
	}
	tenant, err := e.tenants(req.TenantID)
	if err != nil {
		return nil, Ref{}, cErr.DatabaseError("open tenant store").Wrap(err)
	}
	return tenant, source, nil
}

func (e *Engine) lookup(ctx context.Context, tenant Tenant, entity core.EntityType, source Ref, out any) error {
	if err := tenant.FindOne(ctx, entity.Collection(), source.ById(), out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return cErr.NotFound(entity.Singular() + " not found")
		}
		return cErr.DatabaseError("load " + entityNoun(entity)).Wrap(err)
	}
	return nil
}

// gate 有依賴卻沒有指定 target 時回傳 DEPENDENT_RECORDS
func (e *Engine) gate(ctx context.Context, tenant Tenant, entity core.EntityType, source Ref, reassignTo string) (Counts, error) {
	counts, err := countDependencies(ctx, tenant, dependenciesOf(entity), source)
	if err != nil {
		return nil, cErr.DatabaseError("count dependencies").Wrap(err)
	}
	if counts.HasAny() && strings.TrimSpace(reassignTo) == "" {
		return counts, cErr.DependentRecords(
			"Dependent records exist. Reassignment is required before deletion.",
			counts.Breakdown(),
		)
	}
	return counts, nil
}

func (e *Engine) transact(ctx context.Context, tenant Tenant, fn func(txContext context.Context) error) error {
	ctx, _, endSpan := e.trace.WithSpan(ctx, string(core.SpanDeletionTx))
	err := tenant.WithTransaction(ctx, fn)
	endSpan(err)
	if err == nil {
		return nil
	}
	var appErr *cErr.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return cErr.DatabaseError("deletion transaction aborted").Wrap(err)
}

// resolveIdentityUser clerkUserId 優先，否則以 email 反查；查詢失敗視為沒有帳號
func (e *Engine) resolveIdentityUser(ctx context.Context, employee *model.Employee) string {
	if employee.ClerkUserID != "" {
		return employee.ClerkUserID
	}
	email := employee.PrimaryEmail()
	if email == "" || e.directory == nil {
		return ""
	}
	userID, err := e.directory.LookupUserIDByEmail(ctx, email)
	if err != nil {
		e.logger.Debug("identity lookup by email failed", zap.String("employeeId", employee.ID.Hex()), zap.Error(err))
		return ""
	}
	return userID
}

// invalidate 快取失效失敗只記錄，不影響已 commit 的結果
func (e *Engine) invalidate(ctx context.Context, tenantID string, entities ...core.EntityType) {
	if e.listings == nil {
		return
	}
	if err := e.listings.InvalidateListings(ctx, tenantID, entities...); err != nil {
		e.logger.Warn("listing cache invalidation failed",
			zap.String("tenantId", tenantID),
			zap.Any("entities", entities),
			zap.Error(err),
		)
	}
}

func (e *Engine) observe(ctx context.Context, entity core.EntityType, meta *core.TraceDeletionMeta) (context.Context, func(error)) {
	started := time.Now()
	ctx, span, endSpan := e.trace.WithSpan(ctx)
	return ctx, func(err error) {
		meta.Outcome = outcomeOf(err)
		e.trace.ApplyTraceAttributes(span, *meta)
		e.metric.ObserveDeletion(entity, meta.Outcome, time.Since(started))
		endSpan(err)
	}
}

func outcomeOf(err error) string {
	if err == nil {
		return outcomeSuccess
	}
	return cErr.From(err).Reason()
}
