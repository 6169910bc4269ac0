package deletion

import (
	"context"
	"fmt"
	"sort"

	"workforce/internal/core"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"
)

// Counts 依賴類別 → 參照筆數
type Counts map[string]int64

func (c Counts) HasAny() bool {
	for _, n := range c {
		if n > 0 {
			return true
		}
	}
	return false
}

func (c Counts) Total() int64 {
	var total int64
	for _, n := range c {
		total += n
	}
	return total
}

// Breakdown DEPENDENT_RECORDS 的 details[0]
func (c Counts) Breakdown() map[string]any {
	out := make(map[string]any, len(c)+1)
	for k, n := range c {
		out[k] = n
	}
	out["requiresReassign"] = true
	return out
}

func (c Counts) Categories() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// dependency 一個依賴類別的計數查詢
type dependency struct {
	category   string
	collection core.MongoCollection
	filter     func(source Ref) bson.M
}

// anyOf 任一欄位以兩種形式參照到 source
func anyOf(source Ref, fields ...string) bson.M {
	if len(fields) == 1 {
		return bson.M{fields[0]: source.In()}
	}
	clauses := make(bson.A, 0, len(fields))
	for _, f := range fields {
		clauses = append(clauses, bson.M{f: source.In()})
	}
	return bson.M{"$or": clauses}
}

// 未套用全體的政策才會逐一指定部門或職稱
func scopedPolicy(field string) func(Ref) bson.M {
	return func(source Ref) bson.M {
		return bson.M{field: source.In(), "applyToAll": false}
	}
}

func fields(names ...string) func(Ref) bson.M {
	return func(source Ref) bson.M {
		return anyOf(source, names...)
	}
}

var employeeDependencies = []dependency{
	{"tasks", core.MongoCollectionTasks, fields("assignee")},
	{"projects", core.MongoCollectionProjects, fields("teamMembers", "teamLeader", "projectManager")},
	{"leads", core.MongoCollectionLeads, fields("owner", "assignee")},
	{"tickets", core.MongoCollectionTickets, fields("assignedTo._id")},
	{"trainings", core.MongoCollectionTrainings, fields("instructor")},
}

var departmentDependencies = []dependency{
	{"employees", core.MongoCollectionEmployees, fields("departmentId")},
	{"designations", core.MongoCollectionDesignations, fields("departmentId")},
	{"policies", core.MongoCollectionPolicies, scopedPolicy("assignTo.departmentId")},
	{"promotions", core.MongoCollectionPromotions, fields("promotionTo.departmentId", "promotionFrom.departmentId")},
}

var designationDependencies = []dependency{
	{"employees", core.MongoCollectionEmployees, fields("designationId")},
	{"policies", core.MongoCollectionPolicies, scopedPolicy("assignTo.designationIds")},
	{"promotions", core.MongoCollectionPromotions, fields("promotionTo.designationId", "promotionFrom.designationId")},
}

func dependenciesOf(entity core.EntityType) []dependency {
	switch entity {
	case core.EntityDepartment:
		return departmentDependencies
	case core.EntityDesignation:
		return designationDependencies
	default:
		return employeeDependencies
	}
}

// countDependencies 各類別並行計數；欄位不存在只會得到 0
func countDependencies(ctx context.Context, tenant Tenant, deps []dependency, source Ref) (Counts, error) {
	results := make([]int64, len(deps))
	g, gctx := errgroup.WithContext(ctx)
	for i, dep := range deps {
		g.Go(func() error {
			n, err := tenant.CountDocuments(gctx, dep.collection, dep.filter(source))
			if err != nil {
				return fmt.Errorf("count %s: %w", dep.category, err)
			}
			results[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	counts := make(Counts, len(deps))
	for i, dep := range deps {
		counts[dep.category] = results[i]
	}
	return counts, nil
}
