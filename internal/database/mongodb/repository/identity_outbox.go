package repository

import (
	"context"
	"errors"
	"time"

	"workforce/internal/core"
	"workforce/internal/database/mongodb/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IdentityOutboxRepository 操作租戶資料庫內的 identityDeletionOutbox
type IdentityOutboxRepository struct {
	tenants *TenantRepository
}

func NewIdentityOutboxRepository(tenants *TenantRepository) *IdentityOutboxRepository {
	return &IdentityOutboxRepository{tenants: tenants}
}

func (repository *IdentityOutboxRepository) collection(tenantID string) (*mongo.Collection, error) {
	store, err := repository.tenants.Tenant(tenantID)
	if err != nil {
		return nil, err
	}
	return store.collection(core.MongoCollectionIdentityOutbox), nil
}

func (repository *IdentityOutboxRepository) EnsureIndexes(contextValue context.Context, tenantID string) error {
	coll, err := repository.collection(tenantID)
	if err != nil {
		return err
	}
	_, err = coll.Indexes().CreateMany(contextValue, model.IdentityDeletionJobIndexes)
	return err
}

func (repository *IdentityOutboxRepository) TenantIDs(contextValue context.Context) ([]string, error) {
	return repository.tenants.TenantIDs(contextValue)
}

// ClaimDue 取出一筆到期的 pending 任務，並把 nextAttemptAt 往後推 lease 秒避免被重複領取
func (repository *IdentityOutboxRepository) ClaimDue(contextValue context.Context, tenantID string, now time.Time, lease time.Duration) (*model.IdentityDeletionJob, error) {
	coll, err := repository.collection(tenantID)
	if err != nil {
		return nil, err
	}
	filter := bson.M{
		"status":        string(core.OutboxStatusPending),
		"nextAttemptAt": bson.M{"$lte": now},
	}
	update := withUpdatedAt(bson.M{"$set": bson.M{"nextAttemptAt": now.Add(lease)}})
	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "nextAttemptAt", Value: 1}}).
		SetReturnDocument(options.After)

	var job model.IdentityDeletionJob
	if err := coll.FindOneAndUpdate(contextValue, filter, update, opts).Decode(&job); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

func (repository *IdentityOutboxRepository) MarkDone(contextValue context.Context, tenantID string, jobID primitive.ObjectID) error {
	coll, err := repository.collection(tenantID)
	if err != nil {
		return err
	}
	_, err = coll.UpdateOne(contextValue, bson.M{"_id": jobID}, withUpdatedAt(bson.M{
		"$set":   bson.M{"status": string(core.OutboxStatusDone)},
		"$inc":   bson.M{"attempts": 1},
		"$unset": bson.M{"lastError": ""},
	}))
	return err
}

// MarkRetry 記錄失敗；status 由呼叫端依重試次數決定 pending 或 failed
func (repository *IdentityOutboxRepository) MarkRetry(contextValue context.Context, tenantID string, jobID primitive.ObjectID, status core.OutboxStatus, lastError string, nextAttemptAt time.Time) error {
	coll, err := repository.collection(tenantID)
	if err != nil {
		return err
	}
	_, err = coll.UpdateOne(contextValue, bson.M{"_id": jobID}, withUpdatedAt(bson.M{
		"$set": bson.M{
			"status":        string(status),
			"lastError":     lastError,
			"nextAttemptAt": nextAttemptAt,
		},
		"$inc": bson.M{"attempts": 1},
	}))
	return err
}

// CountByStatus 給 CLI 顯示佇列狀態
func (repository *IdentityOutboxRepository) CountByStatus(contextValue context.Context, tenantID string, status core.OutboxStatus) (int64, error) {
	coll, err := repository.collection(tenantID)
	if err != nil {
		return 0, err
	}
	return coll.CountDocuments(contextValue, bson.M{"status": string(status)})
}
