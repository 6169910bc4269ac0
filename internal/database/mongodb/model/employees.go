package model

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultAvatar = "assets/img/profiles/avatar-01.jpg"

type EmployeeContact struct {
	Email string `json:"email,omitempty" bson:"email,omitempty"`
	Phone string `json:"phone,omitempty" bson:"phone,omitempty"`
}

type EmployeeAccount struct {
	Role     string `json:"role,omitempty" bson:"role,omitempty"`
	UserName string `json:"userName,omitempty" bson:"userName,omitempty"`
}

// Employee 只映射刪除流程會讀到的欄位
type Employee struct {
	ID            primitive.ObjectID `json:"id" bson:"_id"`
	EmployeeCode  string             `json:"employeeId,omitempty" bson:"employeeId,omitempty"`
	FirstName     string             `json:"firstName,omitempty" bson:"firstName,omitempty"`
	LastName      string             `json:"lastName,omitempty" bson:"lastName,omitempty"`
	Email         string             `json:"email,omitempty" bson:"email,omitempty"`
	Contact       EmployeeContact    `json:"contact" bson:"contact,omitempty"`
	Account       EmployeeAccount    `json:"account" bson:"account,omitempty"`
	Role          string             `json:"role,omitempty" bson:"role,omitempty"`
	Avatar        string             `json:"avatar,omitempty" bson:"avatar,omitempty"`
	AvatarURL     string             `json:"avatarUrl,omitempty" bson:"avatarUrl,omitempty"`
	ProfileImage  string             `json:"profileImage,omitempty" bson:"profileImage,omitempty"`
	DepartmentID  RefID              `json:"departmentId,omitempty" bson:"departmentId,omitempty"`
	DesignationID RefID              `json:"designationId,omitempty" bson:"designationId,omitempty"`
	Designation   string             `json:"designation,omitempty" bson:"designation,omitempty"`
	ReportingTo   RefID              `json:"reportingTo,omitempty" bson:"reportingTo,omitempty"`
	ClerkUserID   string             `json:"clerkUserId,omitempty" bson:"clerkUserId,omitempty"`
	Status        string             `json:"status,omitempty" bson:"status,omitempty"`
	IsDeleted     bool               `json:"isDeleted,omitempty" bson:"isDeleted,omitempty"`
}

// PrimaryEmail contact.email 優先，其次 email
func (e *Employee) PrimaryEmail() string {
	if email := strings.TrimSpace(e.Contact.Email); email != "" {
		return email
	}
	return strings.TrimSpace(e.Email)
}

// RawRole account.role 優先，其次 role
func (e *Employee) RawRole() string {
	if e.Account.Role != "" {
		return e.Account.Role
	}
	return e.Role
}

func (e *Employee) DisplayName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}
