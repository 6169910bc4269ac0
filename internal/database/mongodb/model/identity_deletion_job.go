package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IdentityDeletionJob 與員工刪除同一筆交易寫入，commit 後才呼叫外部身分服務
type IdentityDeletionJob struct {
	ID             primitive.ObjectID `json:"id" bson:"_id"`
	ExternalUserID string             `json:"externalUserId" bson:"externalUserId"`
	EmployeeID     string             `json:"employeeId" bson:"employeeId"`
	Status         string             `json:"status" bson:"status"`
	Attempts       int                `json:"attempts" bson:"attempts"`
	LastError      string             `json:"lastError,omitempty" bson:"lastError,omitempty"`
	NextAttemptAt  time.Time          `json:"nextAttemptAt" bson:"nextAttemptAt"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

var IdentityDeletionJobIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "status", Value: 1}, {Key: "nextAttemptAt", Value: 1}},
		Options: options.Index().SetName("idx_status_nextAttemptAt"),
	},
	{
		Keys:    bson.D{{Key: "externalUserId", Value: 1}},
		Options: options.Index().SetName("idx_externalUserId"),
	},
}
