package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"workforce/config"
	"workforce/internal/core"
	client "workforce/internal/database/client"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

var ErrTenantRequired = errors.New("tenant id is required")

// TenantRepository 每個租戶一個資料庫，名稱為 prefix + tenantId
type TenantRepository struct {
	client *mongo.Client
	prefix string
}

func NewTenantRepository(mongoClient *client.MongoClient, config *config.Configuration) *TenantRepository {
	return &TenantRepository{client: mongoClient.Client(), prefix: config.MongoDB.TenantDBPrefix}
}

// Tenant 取得租戶的集合集合；不做存在檢查，查無資料時由查詢結果反映
func (repository *TenantRepository) Tenant(tenantID string) (*TenantStore, error) {
	if tenantID == "" {
		return nil, ErrTenantRequired
	}
	return &TenantStore{
		client:   repository.client,
		database: repository.client.Database(core.TenantDatabaseName(repository.prefix, tenantID)),
	}, nil
}

// TenantIDs 列出目前存在的租戶資料庫
func (repository *TenantRepository) TenantIDs(contextValue context.Context) ([]string, error) {
	names, err := repository.client.ListDatabaseNames(contextValue, bson.M{})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(names))
	for _, name := range names {
		if id, ok := core.TenantIDFromDatabase(repository.prefix, name); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// TenantStore 單一租戶資料庫上的操作；ctx 若帶有 session 就會加入該交易
type TenantStore struct {
	client   *mongo.Client
	database *mongo.Database
}

func NewTenantStore(mongoClient *mongo.Client, database *mongo.Database) *TenantStore {
	return &TenantStore{client: mongoClient, database: database}
}

func (store *TenantStore) collection(name core.MongoCollection) *mongo.Collection {
	return store.database.Collection(string(name))
}

func (store *TenantStore) CountDocuments(contextValue context.Context, collection core.MongoCollection, filter bson.M) (int64, error) {
	return store.collection(collection).CountDocuments(contextValue, filter)
}

// FindOne 查無資料時回傳 mongo.ErrNoDocuments
func (store *TenantStore) FindOne(contextValue context.Context, collection core.MongoCollection, filter bson.M, out any) error {
	return store.collection(collection).FindOne(contextValue, filter).Decode(out)
}

// Find out 必須是指向 slice 的指標
func (store *TenantStore) Find(contextValue context.Context, collection core.MongoCollection, filter bson.M, out any) error {
	if v := reflect.ValueOf(out); v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("find %s: out must be a pointer to a slice, got %T", collection, out)
	}
	cursor, err := store.collection(collection).Find(contextValue, filter)
	if err != nil {
		return err
	}
	return cursor.All(contextValue, out)
}

func (store *TenantStore) InsertOne(contextValue context.Context, collection core.MongoCollection, document any) error {
	_, err := store.collection(collection).InsertOne(contextValue, document)
	return err
}

func (store *TenantStore) UpdateMany(contextValue context.Context, collection core.MongoCollection, filter bson.M, update bson.M, arrayFilters ...bson.M) (int64, error) {
	opts := options.Update()
	if len(arrayFilters) > 0 {
		filters := make([]interface{}, len(arrayFilters))
		for i, f := range arrayFilters {
			filters[i] = f
		}
		opts.SetArrayFilters(options.ArrayFilters{Filters: filters})
	}
	result, err := store.collection(collection).UpdateMany(contextValue, filter, update, opts)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (store *TenantStore) DeleteMany(contextValue context.Context, collection core.MongoCollection, filter bson.M) (int64, error) {
	result, err := store.collection(collection).DeleteMany(contextValue, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (store *TenantStore) DeleteOne(contextValue context.Context, collection core.MongoCollection, filter bson.M) (int64, error) {
	result, err := store.collection(collection).DeleteOne(contextValue, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// WithTransaction fn 收到的 ctx 帶有 session，所有操作都必須使用它
// TransientTransactionError / UnknownTransactionCommitResult 由 driver 自動重試 fn
func (store *TenantStore) WithTransaction(contextValue context.Context, fn func(txContext context.Context) error) error {
	session, err := store.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(contextValue)

	txnOptions := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = session.WithTransaction(contextValue, func(sessionContext mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessionContext)
	}, txnOptions)
	return err
}
