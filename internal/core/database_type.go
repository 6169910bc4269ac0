package core

import "strings"

// ─── Database Types ────────────────────────────────────────────────────────────

// MongoCollection 租戶資料庫中的集合名稱
type MongoCollection string
type RedisKey string
type FluentdSubTag string

// ─── MongoDB ───────────────────────────────────────────────────────────────────

// 每個租戶（公司）一組固定名稱的集合，名稱沿用既有 HRMS 資料
const (
	MongoCollectionEmployees             MongoCollection = "employees"
	MongoCollectionDepartments           MongoCollection = "departments"
	MongoCollectionDesignations          MongoCollection = "designations"
	MongoCollectionProjects              MongoCollection = "projects"
	MongoCollectionTasks                 MongoCollection = "tasks"
	MongoCollectionLeads                 MongoCollection = "leads"
	MongoCollectionTickets               MongoCollection = "tickets"
	MongoCollectionTrainings             MongoCollection = "trainings"
	MongoCollectionPromotions            MongoCollection = "promotions"
	MongoCollectionPolicies              MongoCollection = "policy"
	MongoCollectionAttendance            MongoCollection = "attendance"
	MongoCollectionPayroll               MongoCollection = "payroll"
	MongoCollectionLeaves                MongoCollection = "leaves"
	MongoCollectionOvertimeRequests      MongoCollection = "overtimeRequests"
	MongoCollectionTimeEntries           MongoCollection = "timeEntries"
	MongoCollectionPerformanceReviews    MongoCollection = "performanceReviews"
	MongoCollectionPerformanceAppraisals MongoCollection = "performanceAppraisals"
	MongoCollectionResignation           MongoCollection = "resignation"
	MongoCollectionTermination           MongoCollection = "termination"
	MongoCollectionSkills                MongoCollection = "skills"
	MongoCollectionSalaryHistory         MongoCollection = "salaryHistory"
	MongoCollectionNotifications         MongoCollection = "notifications"
	MongoCollectionPermissions           MongoCollection = "permissions"
	MongoCollectionAssets                MongoCollection = "assets"
	MongoCollectionIdentityOutbox        MongoCollection = "identityDeletionOutbox"
)

// TenantDatabaseName 租戶資料庫名稱：prefix + tenantId
func TenantDatabaseName(prefix, tenantID string) string {
	return prefix + tenantID
}

// TenantIDFromDatabase 反推租戶 ID；不符合前綴時回傳 false
func TenantIDFromDatabase(prefix, database string) (string, bool) {
	switch database {
	case "admin", "local", "config":
		return "", false
	}
	if !strings.HasPrefix(database, prefix) {
		return "", false
	}
	tenantID := strings.TrimPrefix(database, prefix)
	return tenantID, tenantID != ""
}

// ─── Redis Keys ────────────────────────────────────────────────────────────────

const (
	RedisKeyServerName RedisKey = "workforce" // 伺服器名稱
	RedisKeyListing    RedisKey = "listing"   // 列表快取
)

const (
	FluentdRequest       FluentdSubTag = "request_log"
	FluentdResponse      FluentdSubTag = "response_log"
	FluentdSecurityEvent FluentdSubTag = "security_event"
)
