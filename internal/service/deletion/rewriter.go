package deletion

import (
	"context"
	"fmt"

	"workforce/internal/core"
	"workforce/internal/database/mongodb/model"

	"go.mongodb.org/mongo-driver/bson"
)

type opKind int

const (
	opUpdate opKind = iota
	opDelete
)

// operation 交易內依序執行的單一批次寫入
type operation struct {
	name         string
	kind         opKind
	collection   core.MongoCollection
	filter       bson.M
	update       bson.M
	arrayFilters []bson.M
}

func (o operation) apply(ctx context.Context, tenant Tenant) (int64, error) {
	var (
		n   int64
		err error
	)
	switch o.kind {
	case opDelete:
		n, err = tenant.DeleteMany(ctx, o.collection, o.filter)
	default:
		n, err = tenant.UpdateMany(ctx, o.collection, o.filter, o.update, o.arrayFilters...)
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", o.name, err)
	}
	return n, nil
}

func setOp(name string, collection core.MongoCollection, filter bson.M, set bson.M, arrayFilters ...bson.M) operation {
	return operation{
		name:         name,
		collection:   collection,
		filter:       filter,
		update:       bson.M{"$set": set},
		arrayFilters: arrayFilters,
	}
}

// replaceScalar 單值欄位直接換成 target
func replaceScalar(collection core.MongoCollection, field string, source Ref, value any) operation {
	return setOp(
		fmt.Sprintf("%s.%s reassign", collection, field),
		collection,
		bson.M{field: source.In()},
		bson.M{field: value},
	)
}

// replaceMember 成員欄位可能是陣列也可能是單值。
// 單值先直接 $set 成 target，之後 $pull 只會碰到陣列；
// 陣列已含 target（任一形式）時不再 $addToSet。
// MongoDB 不允許同一次 update 對同一路徑使用兩個運算子，因此拆成多步
func replaceMember(collection core.MongoCollection, field string, source, target Ref) []operation {
	return []operation{
		setOp(
			fmt.Sprintf("%s.%s reassign scalar", collection, field),
			collection,
			bson.M{field: bson.M{
				"$in":  bson.A{source.ObjectID(), source.Hex()},
				"$not": bson.M{"$type": "array"},
			}},
			bson.M{field: target.ObjectID()},
		),
		{
			name:       fmt.Sprintf("%s.%s add target", collection, field),
			collection: collection,
			filter: bson.M{field: bson.M{
				"$in":  bson.A{source.ObjectID(), source.Hex()},
				"$nin": bson.A{target.ObjectID(), target.Hex()},
			}},
			update: bson.M{"$addToSet": bson.M{field: target.ObjectID()}},
		},
		{
			name:       fmt.Sprintf("%s.%s pull source", collection, field),
			collection: collection,
			filter:     bson.M{field: source.In()},
			update:     bson.M{"$pull": bson.M{field: source.In()}},
		},
	}
}

// ticketAssigneeSnapshot tickets.assignedTo 存的是反正規化的副本，必須整份換成 target 目前的資料
func ticketAssigneeSnapshot(target *model.Employee) bson.M {
	avatar := firstNonEmpty(target.Avatar, target.AvatarURL, target.ProfileImage, model.DefaultAvatar)
	role := firstNonEmpty(target.Role, target.Account.Role, "IT Support Specialist")
	return bson.M{
		"_id":       target.ID,
		"firstName": target.FirstName,
		"lastName":  target.LastName,
		"avatar":    avatar,
		"email":     target.PrimaryEmail(),
		"role":      role,
	}
}

// employeeReassignOps 把 source 的可轉移工作交給 target
func employeeReassignOps(source Ref, target *model.Employee) []operation {
	dst := RefOf(target.ID)
	var ops []operation
	ops = append(ops, replaceMember(core.MongoCollectionTasks, "assignee", source, dst)...)
	for _, field := range []string{"teamMembers", "teamLeader", "projectManager"} {
		ops = append(ops, replaceMember(core.MongoCollectionProjects, field, source, dst)...)
	}
	ops = append(ops,
		replaceScalar(core.MongoCollectionLeads, "owner", source, dst.ObjectID()),
		replaceScalar(core.MongoCollectionLeads, "assignee", source, dst.ObjectID()),
		setOp("tickets.assignedTo snapshot", core.MongoCollectionTickets,
			bson.M{"assignedTo._id": source.In()},
			bson.M{"assignedTo": ticketAssigneeSnapshot(target)},
		),
		replaceScalar(core.MongoCollectionTrainings, "instructor", source, dst.ObjectID()),
	)
	return ops
}

// employeeOrphanOps 不轉移、直接清空的參照；不論是否指定 target 都會執行
func employeeOrphanOps(source Ref, identityUserID string) []operation {
	ops := []operation{
		setOp("employees.reportingTo orphan", core.MongoCollectionEmployees,
			bson.M{"reportingTo": source.In()},
			bson.M{"reportingTo": nil},
		),
		{
			name:       "trainings.participants pull",
			collection: core.MongoCollectionTrainings,
			filter:     bson.M{"participants.employee": source.In()},
			update:     bson.M{"$pull": bson.M{"participants": bson.M{"employee": source.In()}}},
		},
		setOp("assets.assignedTo detach", core.MongoCollectionAssets,
			bson.M{"assignedTo": source.In()},
			bson.M{
				"assignedTo":     nil,
				"assignedDate":   nil,
				"assignmentType": nil,
				"status":         "inactive",
			},
		),
		setOp("tickets.createdBy orphan", core.MongoCollectionTickets,
			bson.M{"createdBy._id": source.In()},
			bson.M{"createdBy._id": nil},
		),
		setOp("tickets.comments author orphan", core.MongoCollectionTickets,
			bson.M{"comments.author._id": source.In()},
			bson.M{"comments.$[comment].author._id": nil},
			bson.M{"comment.author._id": source.In()},
		),
		setOp("tickets.attachments uploader orphan", core.MongoCollectionTickets,
			bson.M{"attachments.uploadedBy": source.In()},
			bson.M{"attachments.$[attachment].uploadedBy": nil},
			bson.M{"attachment.uploadedBy": source.In()},
		),
	}
	if identityUserID != "" {
		ops = append(ops, setOp("timeEntries.approvedBy orphan", core.MongoCollectionTimeEntries,
			bson.M{"approvedBy": identityUserID},
			bson.M{"approvedBy": nil},
		))
	}
	return ops
}

// departmentReassignOps employees / promotions 以字串保存部門，designations / policies 以 ObjectId 保存
func departmentReassignOps(source, target Ref) []operation {
	return []operation{
		replaceScalar(core.MongoCollectionEmployees, "departmentId", source, target.Hex()),
		replaceScalar(core.MongoCollectionDesignations, "departmentId", source, target.ObjectID()),
		setOp("policy.assignTo department reassign", core.MongoCollectionPolicies,
			bson.M{"assignTo.departmentId": source.In(), "applyToAll": false},
			bson.M{"assignTo.$[elem].departmentId": target.ObjectID()},
			bson.M{"elem.departmentId": source.In()},
		),
		replaceScalar(core.MongoCollectionPromotions, "promotionTo.departmentId", source, target.Hex()),
		replaceScalar(core.MongoCollectionPromotions, "promotionFrom.departmentId", source, target.Hex()),
	}
}

// designationReassignOps 員工同時帶上新職稱名稱
func designationReassignOps(source Ref, target *model.Designation) []operation {
	dst := RefOf(target.ID)
	return []operation{
		setOp("employees.designationId reassign", core.MongoCollectionEmployees,
			bson.M{"designationId": source.In()},
			bson.M{"designationId": dst.Hex(), "designation": target.Designation},
		),
		setOp("policy.assignTo designation reassign", core.MongoCollectionPolicies,
			bson.M{"assignTo.designationIds": source.In(), "applyToAll": false},
			bson.M{"assignTo.$[dept].designationIds.$[desig]": dst.ObjectID()},
			bson.M{"dept.designationIds": source.In()},
			bson.M{"desig": source.In()},
		),
		replaceScalar(core.MongoCollectionPromotions, "promotionTo.designationId", source, dst.Hex()),
		replaceScalar(core.MongoCollectionPromotions, "promotionFrom.designationId", source, dst.Hex()),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
