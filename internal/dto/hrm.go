package dto

import "workforce/internal/pkg/request"

// 刪除員工 / 部門 / 職稱，body 可省略
type DeleteEntityDto struct {
	ReassignTo string `json:"reassignTo,omitempty" form:"reassignTo" binding:"omitempty,mongodb"` // 接手者 ID
}

func (d DeleteEntityDto) GetMessages() request.ValidatorMessages {
	return request.ValidatorMessages{
		"reassignTo.mongodb": "reassignTo must be a valid id",
	}
}

// 部門重新指派後刪除
type ReassignDepartmentDto struct {
	SourceDepartmentID string `json:"sourceDepartmentId" binding:"required,mongodb"`
	TargetDepartmentID string `json:"targetDepartmentId" binding:"required,mongodb"`
}

func (d ReassignDepartmentDto) GetMessages() request.ValidatorMessages {
	return request.ValidatorMessages{
		"sourceDepartmentId.required": "Source and target department IDs are required",
		"targetDepartmentId.required": "Source and target department IDs are required",
		"sourceDepartmentId.mongodb":  "Invalid source department ID format",
		"targetDepartmentId.mongodb":  "Invalid target department ID format",
	}
}

// 職稱重新指派後刪除
type ReassignDesignationDto struct {
	SourceDesignationID string `json:"sourceDesignationId" binding:"required,mongodb"`
	TargetDesignationID string `json:"targetDesignationId" binding:"required,mongodb"`
}

func (d ReassignDesignationDto) GetMessages() request.ValidatorMessages {
	return request.ValidatorMessages{
		"sourceDesignationId.required": "Source and target designation IDs are required",
		"targetDesignationId.required": "Source and target designation IDs are required",
		"sourceDesignationId.mongodb":  "Invalid source designation ID format",
		"targetDesignationId.mongodb":  "Invalid target designation ID format",
	}
}

// 可接手的員工 / 部門 / 職稱
type CandidateDto struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Code          string `json:"code,omitempty"`
	Email         string `json:"email,omitempty"`
	DepartmentID  string `json:"departmentId,omitempty"`
	DesignationID string `json:"designationId,omitempty"`
}

type CandidateListDto struct {
	Entity     string          `json:"entity"`
	SourceID   string          `json:"sourceId"`
	Candidates []*CandidateDto `json:"candidates"`
	Cached     bool            `json:"cached"`
}
