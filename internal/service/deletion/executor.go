package deletion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"workforce/internal/core"
	"workforce/internal/database/mongodb/model"
	cErr "workforce/internal/pkg/error"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// orClauses 略過 nil 子句；只剩一個時直接回傳該子句
func orClauses(clauses ...bson.M) bson.M {
	kept := make(bson.A, 0, len(clauses))
	for _, c := range clauses {
		if c != nil {
			kept = append(kept, c)
		}
	}
	if len(kept) == 1 {
		return kept[0].(bson.M)
	}
	return bson.M{"$or": kept}
}

// when cond 為 false 時回傳 nil，交給 orClauses 略過
func when(cond bool, clause bson.M) bson.M {
	if !cond {
		return nil
	}
	return clause
}

func purge(collection core.MongoCollection, filter bson.M) operation {
	return operation{
		name:       fmt.Sprintf("%s purge", collection),
		kind:       opDelete,
		collection: collection,
		filter:     filter,
	}
}

// employeePurgeOps 與員工本人綁定、沒有轉移意義的歷史資料。
// code 為員工編號（employees.employeeId），identityUserID 為外部身分帳號
func employeePurgeOps(source Ref, code, identityUserID string) []operation {
	hasCode := code != ""
	hasIdentity := identityUserID != ""

	ops := []operation{
		purge(core.MongoCollectionAttendance, orClauses(
			bson.M{"employee": source.In()},
			bson.M{"employeeId": source.In()},
			when(hasCode, bson.M{"employeeId": code}),
		)),
		purge(core.MongoCollectionPayroll, bson.M{"employeeId": source.In()}),
		purge(core.MongoCollectionLeaves, bson.M{"employee": source.In()}),
		purge(core.MongoCollectionOvertimeRequests, orClauses(
			bson.M{"employee": source.In()},
			bson.M{"employeeId": source.In()},
			when(hasCode, bson.M{"employeeId": code}),
		)),
	}
	if hasIdentity {
		ops = append(ops, purge(core.MongoCollectionTimeEntries, bson.M{"userId": identityUserID}))
	}
	ops = append(ops,
		purge(core.MongoCollectionPromotions, bson.M{"employeeId": source.In()}),
		purge(core.MongoCollectionPerformanceReviews, orClauses(
			bson.M{"employeeId": source.In()},
			when(hasCode, bson.M{"employeeInfo.empId": code}),
		)),
		purge(core.MongoCollectionPerformanceAppraisals, orClauses(
			bson.M{"employeeId": source.In()},
			when(hasCode, bson.M{"employeeId": code}),
		)),
		purge(core.MongoCollectionResignation, bson.M{"employeeId": source.In()}),
		purge(core.MongoCollectionTermination, bson.M{"employeeId": source.In()}),
		purge(core.MongoCollectionSkills, orClauses(
			bson.M{"employeeId": source.In()},
			when(hasIdentity, bson.M{"userId": identityUserID}),
		)),
		purge(core.MongoCollectionSalaryHistory, bson.M{"empId": source.In()}),
		purge(core.MongoCollectionNotifications, orClauses(
			bson.M{"createdBy": source.In()},
			bson.M{"employeeId": source.In()},
			when(hasIdentity, bson.M{"userId": identityUserID}),
		)),
		purge(core.MongoCollectionPermissions, bson.M{"employeeId": source.In()}),
	)
	return ops
}

// runOps 依序執行；任何一步失敗都讓整個交易回滾
func runOps(ctx context.Context, tenant Tenant, ops []operation) error {
	for _, op := range ops {
		if _, err := op.apply(ctx, tenant); err != nil {
			var appErr *cErr.Error
			if errors.As(err, &appErr) {
				return err
			}
			return cErr.DatabaseError(err.Error()).Wrap(err)
		}
	}
	return nil
}

// deletePrimary 最後刪除主文件；0 筆代表已被其他請求刪除，視為致命錯誤
func deletePrimary(ctx context.Context, tenant Tenant, entity core.EntityType, source Ref) error {
	n, err := tenant.DeleteOne(ctx, entity.Collection(), source.ById())
	if err != nil {
		return cErr.DatabaseError(fmt.Sprintf("delete %s", entityNoun(entity))).Wrap(err)
	}
	if n == 0 {
		return cErr.DeleteFailed(fmt.Sprintf("Failed to delete %s", entityNoun(entity)))
	}
	return nil
}

// newIdentityJob 交易內寫入的外部帳號刪除任務；lease 到期前 drain 不會領取
func newIdentityJob(employeeID, externalUserID string, now time.Time, lease time.Duration) model.IdentityDeletionJob {
	return model.IdentityDeletionJob{
		ID:             primitive.NewObjectID(),
		ExternalUserID: externalUserID,
		EmployeeID:     employeeID,
		Status:         string(core.OutboxStatusPending),
		NextAttemptAt:  now.Add(lease),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
