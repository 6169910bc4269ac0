package deletion

import (
	"context"
	"time"

	"workforce/internal/core"
	"workforce/internal/database/mongodb/model"

	"go.mongodb.org/mongo-driver/bson"
)

// Tenant 單一租戶的集合集合。WithTransaction 傳給 fn 的 ctx 帶有 session，
// 以該 ctx 發出的操作都屬於同一個多文件交易
type Tenant interface {
	CountDocuments(ctx context.Context, collection core.MongoCollection, filter bson.M) (int64, error)
	FindOne(ctx context.Context, collection core.MongoCollection, filter bson.M, out any) error
	Find(ctx context.Context, collection core.MongoCollection, filter bson.M, out any) error
	InsertOne(ctx context.Context, collection core.MongoCollection, document any) error
	UpdateMany(ctx context.Context, collection core.MongoCollection, filter bson.M, update bson.M, arrayFilters ...bson.M) (int64, error)
	DeleteMany(ctx context.Context, collection core.MongoCollection, filter bson.M) (int64, error)
	DeleteOne(ctx context.Context, collection core.MongoCollection, filter bson.M) (int64, error)
	WithTransaction(ctx context.Context, fn func(txContext context.Context) error) error
}

// TenantResolver 依租戶 ID 取得 Tenant
type TenantResolver func(tenantID string) (Tenant, error)

// ListingInvalidator 清除 (tenant, entity) 的列表快取
type ListingInvalidator interface {
	InvalidateListings(ctx context.Context, tenantID string, entities ...core.EntityType) error
}

type SecurityRecord struct {
	TenantID      string
	RequesterID   string
	RequesterRole core.Role
	TargetID      string
	TargetRole    core.Role
}

// SecurityAuditor 接收刪除授權的稽核事件
type SecurityAuditor interface {
	RecordSecurityEvent(ctx context.Context, event core.SecurityEvent, record SecurityRecord)
}

// IdentityDirectory 以 email 反查外部身分帳號
type IdentityDirectory interface {
	LookupUserIDByEmail(ctx context.Context, email string) (string, error)
}

// IdentityCleaner 在交易 commit 後嘗試刪除外部身分帳號；
// 帳號已不存在視為成功，其餘失敗時任務保留在 outbox 等待重試。
// Lease 是新任務第一次可被 drain 領取前的保留時間，commit 後的嘗試擁有這段租約
type IdentityCleaner interface {
	Attempt(ctx context.Context, tenantID string, job model.IdentityDeletionJob) error
	Lease() time.Duration
}
