package deletion

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"workforce/internal/core"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type txKey struct{}

// memoryTenant 以記憶體實作 Tenant，只支援刪除流程會送出的查詢與更新運算子
type memoryTenant struct {
	mu    sync.Mutex
	colls map[core.MongoCollection][]bson.M

	// failOn 回傳非 nil 時該次呼叫失敗
	failOn func(method string, collection core.MongoCollection) error
	// deleteOneMisses 模擬主文件已被其他請求刪除
	deleteOneMisses bool

	calls         []string
	writesOutside []string
}

func newMemoryTenant() *memoryTenant {
	return &memoryTenant{colls: map[core.MongoCollection][]bson.M{}}
}

func (m *memoryTenant) seed(collection core.MongoCollection, docs ...bson.M) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range docs {
		m.colls[collection] = append(m.colls[collection], normalize(d).(bson.M))
	}
}

func (m *memoryTenant) doc(collection core.MongoCollection, id primitive.ObjectID) bson.M {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.colls[collection] {
		if d["_id"] == id {
			return d
		}
	}
	return nil
}

func (m *memoryTenant) all(collection core.MongoCollection) []bson.M {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]bson.M(nil), m.colls[collection]...)
}

func (m *memoryTenant) called(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if strings.HasPrefix(c, method+" ") {
			n++
		}
	}
	return n
}

func (m *memoryTenant) enter(ctx context.Context, method string, collection core.MongoCollection, write bool) error {
	m.calls = append(m.calls, method+" "+string(collection))
	if write && ctx.Value(txKey{}) == nil {
		m.writesOutside = append(m.writesOutside, method+" "+string(collection))
	}
	if m.failOn != nil {
		return m.failOn(method, collection)
	}
	return nil
}

func (m *memoryTenant) CountDocuments(ctx context.Context, collection core.MongoCollection, filter bson.M) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "CountDocuments", collection, false); err != nil {
		return 0, err
	}
	var n int64
	for _, d := range m.colls[collection] {
		if matches(d, filter) {
			n++
		}
	}
	return n, nil
}

func (m *memoryTenant) FindOne(ctx context.Context, collection core.MongoCollection, filter bson.M, out any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "FindOne", collection, false); err != nil {
		return err
	}
	for _, d := range m.colls[collection] {
		if matches(d, filter) {
			return decodeInto(d, out)
		}
	}
	return mongo.ErrNoDocuments
}

func (m *memoryTenant) Find(ctx context.Context, collection core.MongoCollection, filter bson.M, out any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "Find", collection, false); err != nil {
		return err
	}
	slice := reflect.ValueOf(out).Elem()
	for _, d := range m.colls[collection] {
		if !matches(d, filter) {
			continue
		}
		elem := reflect.New(slice.Type().Elem())
		if err := decodeInto(d, elem.Interface()); err != nil {
			return err
		}
		slice.Set(reflect.Append(slice, elem.Elem()))
	}
	return nil
}

func (m *memoryTenant) InsertOne(ctx context.Context, collection core.MongoCollection, document any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "InsertOne", collection, true); err != nil {
		return err
	}
	raw, err := bson.Marshal(document)
	if err != nil {
		return err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return err
	}
	m.colls[collection] = append(m.colls[collection], normalize(doc).(bson.M))
	return nil
}

func (m *memoryTenant) UpdateMany(ctx context.Context, collection core.MongoCollection, filter bson.M, update bson.M, arrayFilters ...bson.M) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "UpdateMany", collection, true); err != nil {
		return 0, err
	}
	filters := map[string]bson.M{}
	for _, f := range arrayFilters {
		for key := range normalize(f).(bson.M) {
			filters[strings.SplitN(key, ".", 2)[0]] = normalize(f).(bson.M)
		}
	}
	var n int64
	for _, d := range m.colls[collection] {
		if !matches(d, filter) {
			continue
		}
		if err := applyUpdate(d, normalize(update).(bson.M), filters); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (m *memoryTenant) DeleteMany(ctx context.Context, collection core.MongoCollection, filter bson.M) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "DeleteMany", collection, true); err != nil {
		return 0, err
	}
	kept := m.colls[collection][:0:0]
	var n int64
	for _, d := range m.colls[collection] {
		if matches(d, filter) {
			n++
			continue
		}
		kept = append(kept, d)
	}
	m.colls[collection] = kept
	return n, nil
}

func (m *memoryTenant) DeleteOne(ctx context.Context, collection core.MongoCollection, filter bson.M) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "DeleteOne", collection, true); err != nil {
		return 0, err
	}
	if m.deleteOneMisses {
		return 0, nil
	}
	docs := m.colls[collection]
	for i, d := range docs {
		if matches(d, filter) {
			m.colls[collection] = append(docs[:i:i], docs[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

// WithTransaction fn 失敗時整個資料集回到開始前的快照
func (m *memoryTenant) WithTransaction(ctx context.Context, fn func(txContext context.Context) error) error {
	m.mu.Lock()
	snapshot := make(map[core.MongoCollection][]bson.M, len(m.colls))
	for k, docs := range m.colls {
		copied := make([]bson.M, len(docs))
		for i, d := range docs {
			copied[i] = deepCopy(d).(bson.M)
		}
		snapshot[k] = copied
	}
	m.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.mu.Lock()
		m.colls = snapshot
		m.mu.Unlock()
		return err
	}
	return nil
}

func decodeInto(doc bson.M, out any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

// normalize 統一成 bson.M / bson.A 與 int64，方便比較
func normalize(v any) any {
	switch t := v.(type) {
	case bson.M:
		out := bson.M{}
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[string]any:
		return normalize(bson.M(t))
	case primitive.D:
		out := bson.M{}
		for _, e := range t {
			out[e.Key] = normalize(e.Value)
		}
		return out
	case bson.A:
		out := make(bson.A, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	case []any:
		return normalize(bson.A(t))
	case []string:
		out := make(bson.A, len(t))
		for i, val := range t {
			out[i] = val
		}
		return out
	case []primitive.ObjectID:
		out := make(bson.A, len(t))
		for i, val := range t {
			out[i] = val
		}
		return out
	case []bson.M:
		out := make(bson.A, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	case int:
		return int64(t)
	case int32:
		return int64(t)
	}
	return v
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case bson.M:
		out := bson.M{}
		for k, val := range t {
			out[k] = deepCopy(val)
		}
		return out
	case bson.A:
		out := make(bson.A, len(t))
		for i, val := range t {
			out[i] = deepCopy(val)
		}
		return out
	}
	return v
}

// ─── query matching ───────────────────────────────────────────────────────────

func matches(doc bson.M, filter bson.M) bool {
	for key, cond := range filter {
		switch key {
		case "$or":
			ok := false
			for _, sub := range cond.(bson.A) {
				if matches(doc, sub.(bson.M)) {
					ok = true
					break
				}
			}
			if !ok {
				return false
			}
		case "$and":
			for _, sub := range cond.(bson.A) {
				if !matches(doc, sub.(bson.M)) {
					return false
				}
			}
		default:
			if !matchCond(candidates(doc, strings.Split(key, ".")), cond) {
				return false
			}
		}
	}
	return true
}

// candidates 沿路徑取值，遇到陣列時展開到每個元素；葉節點是陣列時同時保留陣列與元素
func candidates(v any, parts []string) []any {
	if len(parts) == 0 {
		if arr, ok := v.(bson.A); ok {
			return append([]any{arr}, arr...)
		}
		return []any{v}
	}
	switch t := v.(type) {
	case bson.M:
		child, ok := t[parts[0]]
		if !ok {
			return nil
		}
		return candidates(child, parts[1:])
	case bson.A:
		var out []any
		for _, el := range t {
			out = append(out, candidates(el, parts)...)
		}
		return out
	}
	return nil
}

func isOperatorDoc(v any) (bson.M, bool) {
	m, ok := v.(bson.M)
	if !ok || len(m) == 0 {
		return nil, false
	}
	for k := range m {
		if !strings.HasPrefix(k, "$") {
			return nil, false
		}
	}
	return m, true
}

func matchCond(cands []any, cond any) bool {
	if ops, ok := isOperatorDoc(cond); ok {
		for op, arg := range ops {
			switch op {
			case "$in":
				found := false
				for _, want := range arg.(bson.A) {
					if anyEqual(cands, want) {
						found = true
						break
					}
				}
				if !found {
					return false
				}
			case "$ne":
				if anyEqual(cands, arg) || (arg == nil && len(cands) == 0) {
					return false
				}
			case "$nin":
				for _, unwanted := range arg.(bson.A) {
					if anyEqual(cands, unwanted) {
						return false
					}
				}
			case "$not":
				if matchCond(cands, arg) {
					return false
				}
			case "$type":
				if arg != "array" {
					panic(fmt.Sprintf("memoryTenant: unsupported $type %v", arg))
				}
				isArray := false
				for _, c := range cands {
					if _, ok := normalize(c).(bson.A); ok {
						isArray = true
						break
					}
				}
				if !isArray {
					return false
				}
			default:
				panic(fmt.Sprintf("memoryTenant: unsupported operator %s", op))
			}
		}
		return true
	}
	if cond == nil && len(cands) == 0 {
		return true
	}
	return anyEqual(cands, cond)
}

func anyEqual(cands []any, want any) bool {
	for _, c := range cands {
		if reflect.DeepEqual(normalize(c), normalize(want)) {
			return true
		}
	}
	return false
}

// ─── updates ──────────────────────────────────────────────────────────────────

func applyUpdate(doc bson.M, update bson.M, filters map[string]bson.M) error {
	for op, arg := range update {
		fieldsArg := arg.(bson.M)
		for path, val := range fieldsArg {
			parts := strings.Split(path, ".")
			var err error
			switch op {
			case "$set":
				err = setPath(doc, parts, deepCopy(val), filters)
			case "$pull":
				err = pullPath(doc, parts, val)
			case "$addToSet":
				err = addToSetPath(doc, parts, val)
			default:
				err = fmt.Errorf("memoryTenant: unsupported update operator %s", op)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func setPath(container bson.M, parts []string, val any, filters map[string]bson.M) error {
	key := parts[0]
	if len(parts) == 1 {
		container[key] = val
		return nil
	}
	next := parts[1]
	if strings.HasPrefix(next, "$[") {
		arr, ok := container[key].(bson.A)
		if !ok {
			return nil
		}
		ident := strings.TrimSuffix(strings.TrimPrefix(next, "$["), "]")
		for i, el := range arr {
			if ident != "" {
				f, ok := filters[ident]
				if !ok {
					return fmt.Errorf("memoryTenant: no array filter for identifier %s", ident)
				}
				if !matches(bson.M{ident: el}, f) {
					continue
				}
			}
			if len(parts) == 2 {
				arr[i] = val
				continue
			}
			if sub, ok := el.(bson.M); ok {
				if err := setPath(sub, parts[2:], val, filters); err != nil {
					return err
				}
			}
		}
		return nil
	}
	child, ok := container[key].(bson.M)
	if !ok {
		child = bson.M{}
		container[key] = child
	}
	return setPath(child, parts[1:], val, filters)
}

func parentOf(doc bson.M, parts []string) (bson.M, string) {
	cur := doc
	for _, p := range parts[:len(parts)-1] {
		next, ok := cur[p].(bson.M)
		if !ok {
			return nil, ""
		}
		cur = next
	}
	return cur, parts[len(parts)-1]
}

func pullPath(doc bson.M, parts []string, cond any) error {
	parent, key := parentOf(doc, parts)
	if parent == nil {
		return nil
	}
	existing, present := parent[key]
	if !present || existing == nil {
		return nil
	}
	arr, ok := existing.(bson.A)
	if !ok {
		return errors.New("memoryTenant: $pull on a non-array field")
	}
	kept := bson.A{}
	for _, el := range arr {
		if pullMatches(el, cond) {
			continue
		}
		kept = append(kept, el)
	}
	parent[key] = kept
	return nil
}

func pullMatches(el any, cond any) bool {
	if _, ok := isOperatorDoc(cond); ok {
		return matchCond([]any{el}, cond)
	}
	if query, ok := cond.(bson.M); ok {
		sub, ok := el.(bson.M)
		return ok && matches(sub, query)
	}
	return reflect.DeepEqual(normalize(el), normalize(cond))
}

func addToSetPath(doc bson.M, parts []string, val any) error {
	parent, key := parentOf(doc, parts)
	if parent == nil {
		return nil
	}
	existing, present := parent[key]
	if !present || existing == nil {
		parent[key] = bson.A{val}
		return nil
	}
	arr, ok := existing.(bson.A)
	if !ok {
		return errors.New("memoryTenant: $addToSet on a non-array field")
	}
	for _, el := range arr {
		if reflect.DeepEqual(normalize(el), normalize(val)) {
			return nil
		}
	}
	parent[key] = append(arr, val)
	return nil
}
