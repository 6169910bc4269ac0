package repository

import (
	"context"
	"testing"

	"workforce/internal/core"
	"workforce/internal/database/mongodb/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestTenantStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("count documents", func(mt *mtest.T) {
		store := NewTenantStore(mt.Client, mt.DB)
		ns := mt.DB.Name() + ".tasks"
		mt.AddMockResponses(mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(3)}}))

		n, err := store.CountDocuments(ctx, core.MongoCollectionTasks, bson.M{"assignee": "x"})
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), n)
	})

	mt.Run("find one not found", func(mt *mtest.T) {
		store := NewTenantStore(mt.Client, mt.DB)
		ns := mt.DB.Name() + ".employees"
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		var emp model.Employee
		err := store.FindOne(ctx, core.MongoCollectionEmployees, bson.M{"_id": primitive.NewObjectID()}, &emp)
		assert.ErrorIs(mt, err, mongo.ErrNoDocuments)
	})

	mt.Run("find one decodes mixed id forms", func(mt *mtest.T) {
		store := NewTenantStore(mt.Client, mt.DB)
		ns := mt.DB.Name() + ".employees"
		id := primitive.NewObjectID()
		dept := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "firstName", Value: "Ada"},
			{Key: "departmentId", Value: dept},
			{Key: "designationId", Value: "64b000000000000000000009"},
		}))

		var emp model.Employee
		require.NoError(mt, store.FindOne(ctx, core.MongoCollectionEmployees, bson.M{"_id": id}, &emp))
		assert.Equal(mt, "Ada", emp.FirstName)
		assert.Equal(mt, model.RefID(dept.Hex()), emp.DepartmentID)
		assert.Equal(mt, model.RefID("64b000000000000000000009"), emp.DesignationID)
	})

	mt.Run("find requires slice pointer", func(mt *mtest.T) {
		store := NewTenantStore(mt.Client, mt.DB)
		var emp model.Employee
		err := store.Find(ctx, core.MongoCollectionEmployees, bson.M{}, &emp)
		assert.Error(mt, err)
	})

	mt.Run("update many with array filters", func(mt *mtest.T) {
		store := NewTenantStore(mt.Client, mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: int32(2)},
			bson.E{Key: "nModified", Value: int32(2)},
		))

		n, err := store.UpdateMany(ctx, core.MongoCollectionPolicies,
			bson.M{"assignTo.departmentId": "x"},
			bson.M{"$set": bson.M{"assignTo.$[elem].departmentId": "y"}},
			bson.M{"elem.departmentId": "x"},
		)
		require.NoError(mt, err)
		assert.Equal(mt, int64(2), n)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "update", started.CommandName)
		_, err = started.Command.LookupErr("updates", "0", "arrayFilters")
		assert.NoError(mt, err)
	})

	mt.Run("delete one reports count", func(mt *mtest.T) {
		store := NewTenantStore(mt.Client, mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(0)}))

		n, err := store.DeleteOne(ctx, core.MongoCollectionEmployees, bson.M{"_id": primitive.NewObjectID()})
		require.NoError(mt, err)
		assert.Zero(mt, n)
	})

	mt.Run("write error surfaces", func(mt *mtest.T) {
		store := NewTenantStore(mt.Client, mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))

		err := store.InsertOne(ctx, core.MongoCollectionIdentityOutbox, bson.M{"_id": primitive.NewObjectID()})
		assert.True(mt, mongo.IsDuplicateKeyError(err))
	})
}

func TestTenantRepositoryRequiresTenant(t *testing.T) {
	repo := &TenantRepository{prefix: "hrms_"}
	_, err := repo.Tenant("")
	assert.ErrorIs(t, err, ErrTenantRequired)
}

func TestWithUpdatedAt(t *testing.T) {
	update := withUpdatedAt(bson.M{"$set": bson.M{"status": "done"}})
	assert.Equal(t, bson.M{"updatedAt": true}, update["$currentDate"])
}
