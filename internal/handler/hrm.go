package handler

import (
	"context"
	"strings"

	"workforce/internal/core"
	"workforce/internal/dto"
	"workforce/internal/pkg/response"
	"workforce/internal/service"
	"workforce/internal/service/deletion"
	"workforce/internal/telemetry"
	"workforce/utils/validate"

	"github.com/gin-gonic/gin"
)

type deletionEngine interface {
	DeleteEmployee(ctx context.Context, req deletion.Request) (*deletion.Result, error)
	DeleteDepartment(ctx context.Context, req deletion.Request) (*deletion.Result, error)
	DeleteDesignation(ctx context.Context, req deletion.Request) (*deletion.Result, error)
	Dependencies(ctx context.Context, tenantID string, entity core.EntityType, entityID string) (deletion.Counts, error)
}

type candidateFinder interface {
	Candidates(ctx context.Context, tenantID string, entity core.EntityType, sourceID string) (*dto.CandidateListDto, error)
}

type HRMHandler struct {
	trace      *telemetry.Trace
	engine     deletionEngine
	candidates candidateFinder
}

func NewHRMHandler(trace *telemetry.Trace, engine *deletion.Engine, reassignment *service.ReassignmentService) *HRMHandler {
	return newHRMHandler(trace, engine, reassignment)
}

func newHRMHandler(trace *telemetry.Trace, engine deletionEngine, candidates candidateFinder) *HRMHandler {
	return &HRMHandler{trace: trace, engine: engine, candidates: candidates}
}

// EntityParam 路由上對應實體的 path 參數名稱
func EntityParam(entity core.EntityType) string {
	switch entity {
	case core.EntityDepartment:
		return "departmentID"
	case core.EntityDesignation:
		return "designationID"
	default:
		return "employeeID"
	}
}

// DeleteEmployee 刪除員工
// @Summary 刪除員工（有依賴時需指定 reassignTo）
// @Tags HRM
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param employeeID path string true "員工 ID"
// @Param reassignTo query string false "接手的員工 ID"
// @Param body body dto.DeleteEntityDto false "接手的員工 ID"
// @Success 200 {object} deletion.Result
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response "DEPENDENT_RECORDS"
// @Failure 502 {object} response.Response "IDENTITY_CLEANUP_PENDING"
// @Router /hrm/employees/{employeeID} [delete]
func (h *HRMHandler) DeleteEmployee(c *gin.Context) {
	h.delete(c, core.EntityEmployee, h.engine.DeleteEmployee, "Employee deleted successfully")
}

// DeleteDepartment 刪除部門
// @Summary 刪除部門（有依賴時需指定 reassignTo）
// @Tags HRM
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param departmentID path string true "部門 ID"
// @Param reassignTo query string false "接手的部門 ID"
// @Param body body dto.DeleteEntityDto false "接手的部門 ID"
// @Success 200 {object} deletion.Result
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response "DEPENDENT_RECORDS"
// @Router /hrm/departments/{departmentID} [delete]
func (h *HRMHandler) DeleteDepartment(c *gin.Context) {
	h.delete(c, core.EntityDepartment, h.engine.DeleteDepartment, "Department deleted successfully")
}

// DeleteDesignation 刪除職稱
// @Summary 刪除職稱（有依賴時需指定 reassignTo）
// @Tags HRM
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param designationID path string true "職稱 ID"
// @Param reassignTo query string false "接手的職稱 ID"
// @Param body body dto.DeleteEntityDto false "接手的職稱 ID"
// @Success 200 {object} deletion.Result
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response "DEPENDENT_RECORDS"
// @Router /hrm/designations/{designationID} [delete]
func (h *HRMHandler) DeleteDesignation(c *gin.Context) {
	h.delete(c, core.EntityDesignation, h.engine.DeleteDesignation, "Designation deleted successfully")
}

// ReassignDeleteDepartment 將部門的所有引用移到目標部門後刪除
// @Summary 部門重新指派後刪除
// @Tags HRM
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.ReassignDepartmentDto true "來源與目標部門"
// @Success 200 {object} deletion.Result
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /hrm/departments/reassign-delete [post]
func (h *HRMHandler) ReassignDeleteDepartment(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	var req dto.ReassignDepartmentDto
	if cause, respErr := validate.BindAndValidate(c, &req); respErr != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	result, err := h.engine.DeleteDepartment(ctx, h.request(c, req.SourceDepartmentID, req.TargetDepartmentID))
	end(err)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "Department reassigned and deleted successfully", "result": result})
}

// ReassignDeleteDesignation 將職稱的所有引用移到目標職稱後刪除
// @Summary 職稱重新指派後刪除
// @Tags HRM
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.ReassignDesignationDto true "來源與目標職稱"
// @Success 200 {object} deletion.Result
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /hrm/designations/reassign-delete [post]
func (h *HRMHandler) ReassignDeleteDesignation(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	var req dto.ReassignDesignationDto
	if cause, respErr := validate.BindAndValidate(c, &req); respErr != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	result, err := h.engine.DeleteDesignation(ctx, h.request(c, req.SourceDesignationID, req.TargetDesignationID))
	end(err)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "Designation reassigned and deleted successfully", "result": result})
}

// Dependencies 刪除前預覽各類依賴筆數
// @Summary 依賴筆數預覽
// @Tags HRM
// @Security BearerAuth
// @Produce json
// @Param entity path string true "employees / departments / designations"
// @Param id path string true "實體 ID"
// @Success 200 {object} map[string]any
// @Failure 404 {object} response.Response
// @Router /hrm/{entity}/{id}/dependencies [get]
func (h *HRMHandler) Dependencies(entity core.EntityType) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, _, end := h.trace.WithSpan(c)
		id := c.Param(EntityParam(entity))
		counts, err := h.engine.Dependencies(ctx, c.GetString(core.ContextTenantIDKey), entity, id)
		end(err)
		if err != nil {
			response.AbortWithError(c, err)
			return
		}
		response.Success(c, gin.H{
			"entity":               entity,
			"id":                   id,
			"dependencies":         counts,
			"total":                counts.Total(),
			"requiresReassignment": counts.HasAny(),
		})
	}
}

// Candidates 可接手的同範圍實體
// @Summary 重新指派候選清單
// @Tags HRM
// @Security BearerAuth
// @Produce json
// @Param entity path string true "employees / departments / designations"
// @Param id path string true "實體 ID"
// @Success 200 {object} dto.CandidateListDto
// @Failure 404 {object} response.Response
// @Router /hrm/{entity}/{id}/reassign-candidates [get]
func (h *HRMHandler) Candidates(entity core.EntityType) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, _, end := h.trace.WithSpan(c)
		list, err := h.candidates.Candidates(ctx, c.GetString(core.ContextTenantIDKey), entity, c.Param(EntityParam(entity)))
		end(err)
		if err != nil {
			response.AbortWithError(c, err)
			return
		}
		response.Success(c, list)
	}
}

func (h *HRMHandler) delete(
	c *gin.Context,
	entity core.EntityType,
	run func(context.Context, deletion.Request) (*deletion.Result, error),
	message string,
) {
	ctx, _, end := h.trace.WithSpan(c)
	var req dto.DeleteEntityDto
	if cause, respErr := validate.BindOptionalJSON(c, &req); respErr != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	// body 優先，其次 query
	if req.ReassignTo == "" {
		req.ReassignTo = strings.TrimSpace(c.Query("reassignTo"))
	}
	result, err := run(ctx, h.request(c, c.Param(EntityParam(entity)), req.ReassignTo))
	end(err)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, gin.H{"message": message, "result": result})
}

func (h *HRMHandler) request(c *gin.Context, entityID, reassignTo string) deletion.Request {
	return deletion.Request{
		TenantID:      c.GetString(core.ContextTenantIDKey),
		EntityID:      entityID,
		ReassignTo:    reassignTo,
		RequesterID:   c.GetString(core.ContextUserIDKey),
		RequesterRole: c.GetString(core.ContextRoleKey),
	}
}
