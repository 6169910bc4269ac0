package deletion

import (
	"context"
	"errors"
	"fmt"

	"workforce/internal/core"
	"workforce/internal/database/mongodb/model"
	cErr "workforce/internal/pkg/error"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const reassignField = "reassignTo"

// parseTarget 共同前置檢查：格式正確且不等於 source
func parseTarget(entity core.EntityType, source Ref, raw string) (Ref, error) {
	target, err := ParseRef(reassignField, raw)
	if err != nil {
		return Ref{}, cErr.Validation(reassignField, fmt.Sprintf("Invalid target %s ID format", entityNoun(entity)))
	}
	if target.ObjectID() == source.ObjectID() {
		return Ref{}, cErr.Validation(reassignField, fmt.Sprintf("Target %s must be different", entityNoun(entity)))
	}
	return target, nil
}

// findActive 查詢未被軟刪除的 target
func findActive(ctx context.Context, tenant Tenant, entity core.EntityType, target Ref, out any) error {
	filter := bson.M{"_id": target.ObjectID(), "isDeleted": bson.M{"$ne": true}}
	if err := tenant.FindOne(ctx, entity.Collection(), filter, out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return cErr.Validation(reassignField, fmt.Sprintf("Target %s not found or inactive", entityNoun(entity)))
		}
		return cErr.DatabaseError("load reassignment target").Wrap(err)
	}
	return nil
}

// validateEmployeeTarget 必須與被刪除員工同部門且同職稱
func validateEmployeeTarget(ctx context.Context, tenant Tenant, source *model.Employee, raw string) (Ref, *model.Employee, error) {
	target, err := parseTarget(core.EntityEmployee, RefOf(source.ID), raw)
	if err != nil {
		return Ref{}, nil, err
	}
	var reassignee model.Employee
	if err := findActive(ctx, tenant, core.EntityEmployee, target, &reassignee); err != nil {
		return Ref{}, nil, err
	}
	if !sameRef(reassignee.DepartmentID.String(), source.DepartmentID.String()) {
		return Ref{}, nil, cErr.Validation(reassignField, "Reassignment employee must be from the same department")
	}
	if !sameRef(reassignee.DesignationID.String(), source.DesignationID.String()) {
		return Ref{}, nil, cErr.Validation(reassignField, "Reassignment employee must have the same designation")
	}
	return target, &reassignee, nil
}

// validateDesignationTarget 必須屬於同一個部門
func validateDesignationTarget(ctx context.Context, tenant Tenant, source *model.Designation, raw string) (Ref, *model.Designation, error) {
	target, err := parseTarget(core.EntityDesignation, RefOf(source.ID), raw)
	if err != nil {
		return Ref{}, nil, err
	}
	var designation model.Designation
	if err := findActive(ctx, tenant, core.EntityDesignation, target, &designation); err != nil {
		return Ref{}, nil, err
	}
	if !sameRef(designation.DepartmentID.String(), source.DepartmentID.String()) {
		return Ref{}, nil, cErr.Validation(reassignField, "Target designation must be in the same department")
	}
	return target, &designation, nil
}

// validateDepartmentTarget 任何其他存在的部門皆可
func validateDepartmentTarget(ctx context.Context, tenant Tenant, source *model.Department, raw string) (Ref, *model.Department, error) {
	target, err := parseTarget(core.EntityDepartment, RefOf(source.ID), raw)
	if err != nil {
		return Ref{}, nil, err
	}
	var department model.Department
	if err := findActive(ctx, tenant, core.EntityDepartment, target, &department); err != nil {
		return Ref{}, nil, err
	}
	return target, &department, nil
}

func entityNoun(entity core.EntityType) string {
	switch entity {
	case core.EntityDepartment:
		return "department"
	case core.EntityDesignation:
		return "designation"
	default:
		return "employee"
	}
}
