package deletion

import (
	"context"
	"testing"

	"workforce/internal/core"
	cErr "workforce/internal/pkg/error"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type designationWorld struct {
	deptA, deptB          primitive.ObjectID
	source, target, other primitive.ObjectID
}

// seedDesignations source 與 target 屬於 deptA，other 屬於 deptB
func seedDesignations(f *fixture) designationWorld {
	w := designationWorld{
		deptA:  primitive.NewObjectID(),
		deptB:  primitive.NewObjectID(),
		source: primitive.NewObjectID(),
		target: primitive.NewObjectID(),
		other:  primitive.NewObjectID(),
	}
	f.store.seed(core.MongoCollectionDesignations,
		bson.M{"_id": w.source, "designation": "Engineer", "departmentId": w.deptA},
		bson.M{"_id": w.target, "designation": "Senior Engineer", "departmentId": w.deptA.Hex()},
		bson.M{"_id": w.other, "designation": "Accountant", "departmentId": w.deptB},
	)
	return w
}

func TestDeleteDesignationReassignsEmployeesAndPolicies(t *testing.T) {
	f := newFixture(t)
	w := seedDesignations(f)
	keep := primitive.NewObjectID()

	emp := primitive.NewObjectID()
	empDoc := employeeDoc(emp, "employee", w.deptA.Hex(), w.source)
	empDoc["designation"] = "Engineer"
	f.store.seed(core.MongoCollectionEmployees, empDoc)

	policy := primitive.NewObjectID()
	f.store.seed(core.MongoCollectionPolicies, bson.M{
		"_id":        policy,
		"applyToAll": false,
		"assignTo": bson.A{
			bson.M{"departmentId": w.deptA, "designationIds": bson.A{w.source, keep}},
			bson.M{"departmentId": w.deptB, "designationIds": bson.A{w.other}},
			bson.M{"departmentId": w.deptA, "designationIds": bson.A{w.source.Hex()}},
		},
	})
	promotion := primitive.NewObjectID()
	f.store.seed(core.MongoCollectionPromotions, bson.M{
		"_id":           promotion,
		"promotionTo":   bson.M{"designationId": w.source.Hex()},
		"promotionFrom": bson.M{"designationId": keep.Hex()},
	})

	result, err := f.engine.DeleteDesignation(context.Background(), Request{
		TenantID: tenantID, EntityID: w.source.Hex(), ReassignTo: w.target.Hex(),
	})
	require.NoError(t, err)
	assert.Equal(t, w.source.Hex(), result.DesignationID)
	assert.Equal(t, "Engineer", result.Name)
	assert.Equal(t, w.target.Hex(), result.ReassignedTo)
	assert.Equal(t, Counts{"employees": 1, "policies": 1, "promotions": 1}, result.Dependencies)

	e := f.store.doc(core.MongoCollectionEmployees, emp)
	assert.Equal(t, w.target.Hex(), e["designationId"])
	assert.Equal(t, "Senior Engineer", e["designation"])

	assignTo := f.store.doc(core.MongoCollectionPolicies, policy)["assignTo"].(bson.A)
	assert.Equal(t, bson.A{w.target, keep}, assignTo[0].(bson.M)["designationIds"])
	assert.Equal(t, bson.A{w.other}, assignTo[1].(bson.M)["designationIds"])
	assert.Equal(t, bson.A{w.target}, assignTo[2].(bson.M)["designationIds"])

	p := f.store.doc(core.MongoCollectionPromotions, promotion)
	assert.Equal(t, w.target.Hex(), p["promotionTo"].(bson.M)["designationId"])
	assert.Equal(t, keep.Hex(), p["promotionFrom"].(bson.M)["designationId"])

	assert.Nil(t, f.store.doc(core.MongoCollectionDesignations, w.source))
	assert.Equal(t, []core.EntityType{core.EntityDesignation, core.EntityEmployee}, f.listings.invalidated)
}

func TestDeleteDesignationRejectsTargetFromAnotherDepartment(t *testing.T) {
	f := newFixture(t)
	w := seedDesignations(f)
	emp := primitive.NewObjectID()
	f.store.seed(core.MongoCollectionEmployees, employeeDoc(emp, "employee", w.deptA.Hex(), w.source.Hex()))

	_, err := f.engine.DeleteDesignation(context.Background(), Request{
		TenantID: tenantID, EntityID: w.source.Hex(), ReassignTo: w.other.Hex(),
	})

	appErr := requireReason(t, err, cErr.ReasonValidation)
	assert.Equal(t, "reassignTo", appErr.Field())
	assert.Contains(t, appErr.ErrorDesc(), "same department")
	assert.Equal(t, w.source.Hex(), f.store.doc(core.MongoCollectionEmployees, emp)["designationId"])
	assert.NotNil(t, f.store.doc(core.MongoCollectionDesignations, w.source))
	assert.Zero(t, f.store.called("UpdateMany"))
}

func TestDeleteDesignationRequiresReassignment(t *testing.T) {
	f := newFixture(t)
	w := seedDesignations(f)
	f.store.seed(core.MongoCollectionPromotions, bson.M{
		"_id":           primitive.NewObjectID(),
		"promotionFrom": bson.M{"designationId": w.source},
	})

	_, err := f.engine.DeleteDesignation(context.Background(), Request{TenantID: tenantID, EntityID: w.source.Hex()})

	appErr := requireReason(t, err, cErr.ReasonDependentRecords)
	assert.Equal(t, int64(1), appErr.Details()[0].(map[string]any)["promotions"])
}

func TestDeleteDesignationWithoutDependencies(t *testing.T) {
	f := newFixture(t)
	w := seedDesignations(f)

	result, err := f.engine.DeleteDesignation(context.Background(), Request{TenantID: tenantID, EntityID: w.other.Hex()})
	require.NoError(t, err)
	assert.Equal(t, "Accountant", result.Name)
	assert.Nil(t, f.store.doc(core.MongoCollectionDesignations, w.other))
	assert.NotNil(t, f.store.doc(core.MongoCollectionDesignations, w.source))
}

func TestDeleteDesignationUnknownTenant(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.DeleteDesignation(context.Background(), Request{TenantID: "ghost", EntityID: primitive.NewObjectID().Hex()})
	requireReason(t, err, cErr.ReasonDatabase)
}
