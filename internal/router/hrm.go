package router

import (
	"workforce/internal/core"
	"workforce/internal/handler"
	"workforce/internal/middleware"

	"github.com/gin-gonic/gin"
)

type HRMRouter struct {
	hrmHandler *handler.HRMHandler
	auth       *middleware.Auth
}

func NewHRMRouter(
	hrmHandler *handler.HRMHandler,
	auth *middleware.Auth,
) *HRMRouter {
	return &HRMRouter{
		hrmHandler: hrmHandler,
		auth:       auth,
	}
}

func (hr *HRMRouter) RegisterRoutes(r *gin.Engine) {
	hrm := r.Group("/hrm", hr.auth.Handler())
	{
		hrm.POST("/departments/reassign-delete", hr.hrmHandler.ReassignDeleteDepartment)
		hrm.POST("/designations/reassign-delete", hr.hrmHandler.ReassignDeleteDesignation)

		hrm.DELETE("/employees/:employeeID", hr.hrmHandler.DeleteEmployee)
		hrm.DELETE("/departments/:departmentID", hr.hrmHandler.DeleteDepartment)
		hrm.DELETE("/designations/:designationID", hr.hrmHandler.DeleteDesignation)

		for _, entity := range []core.EntityType{core.EntityEmployee, core.EntityDepartment, core.EntityDesignation} {
			item := "/" + string(entity) + "/:" + handler.EntityParam(entity)
			hrm.GET(item+"/dependencies", hr.hrmHandler.Dependencies(entity))
			hrm.GET(item+"/reassign-candidates", hr.hrmHandler.Candidates(entity))
		}
	}
}
