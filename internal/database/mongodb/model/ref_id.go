package model

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// RefID 參照欄位在舊資料中可能是 ObjectId 也可能是字串，讀取時一律轉成 hex 字串
type RefID string

func (r *RefID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.ObjectID:
		*r = RefID(raw.ObjectID().Hex())
	case bsontype.String:
		*r = RefID(raw.StringValue())
	default:
		// null / undefined / 其他型別都視為沒有參照
		*r = ""
	}
	return nil
}

func (r RefID) String() string {
	return string(r)
}

func (r RefID) IsZero() bool {
	return r == ""
}
