package deletion

import (
	"strings"

	cErr "workforce/internal/pkg/error"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ref 主要實體的識別碼。依賴資料中同一個參照可能存成 ObjectId 或 hex 字串，
// 所有比對都必須透過 In() 同時涵蓋兩種形式
type Ref struct {
	id primitive.ObjectID
}

// ParseRef 空字串或格式錯誤都回傳帶欄位名稱的 VALIDATION_ERROR
func ParseRef(field, raw string) (Ref, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Ref{}, cErr.Validation(field, field+" is required")
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return Ref{}, cErr.Validation(field, "invalid "+field+" format")
	}
	return Ref{id: id}, nil
}

func RefOf(id primitive.ObjectID) Ref {
	return Ref{id: id}
}

func (r Ref) ObjectID() primitive.ObjectID {
	return r.id
}

func (r Ref) Hex() string {
	return r.id.Hex()
}

func (r Ref) IsZero() bool {
	return r.id.IsZero()
}

// In {"$in": [ObjectId, "hex"]}
func (r Ref) In() bson.M {
	return bson.M{"$in": bson.A{r.id, r.id.Hex()}}
}

// ById 主文件本身一律以 ObjectId 作為 _id
func (r Ref) ById() bson.M {
	return bson.M{"_id": r.id}
}

// sameRef 比較兩個以字串保存的參照，空值彼此相等
func sameRef(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
