package core

// EntityType 可被刪除引擎處理的主要實體，同時作為快取失效的標籤
type EntityType string

const (
	EntityEmployee    EntityType = "employees"
	EntityDepartment  EntityType = "departments"
	EntityDesignation EntityType = "designations"
)

func (e EntityType) Valid() bool {
	switch e {
	case EntityEmployee, EntityDepartment, EntityDesignation:
		return true
	}
	return false
}

// Collection 實體所在的集合
func (e EntityType) Collection() MongoCollection {
	switch e {
	case EntityDepartment:
		return MongoCollectionDepartments
	case EntityDesignation:
		return MongoCollectionDesignations
	default:
		return MongoCollectionEmployees
	}
}

// Singular 用於錯誤訊息
func (e EntityType) Singular() string {
	switch e {
	case EntityDepartment:
		return "Department"
	case EntityDesignation:
		return "Designation"
	default:
		return "Employee"
	}
}

// 安全事件名稱
type SecurityEvent string

const (
	SecurityEventDeleteAttempt SecurityEvent = "permissions_delete_attempt"
	SecurityEventDeleteDenied  SecurityEvent = "permissions_delete_denied"
)

// 身分帳號刪除任務狀態
type OutboxStatus string

const (
	OutboxStatusPending OutboxStatus = "pending"
	OutboxStatusDone    OutboxStatus = "done"
	OutboxStatusFailed  OutboxStatus = "failed" // 超過最大重試次數，需人工介入
)
