package model

import "go.mongodb.org/mongo-driver/bson/primitive"

type Department struct {
	ID         primitive.ObjectID `json:"id" bson:"_id"`
	Department string             `json:"department" bson:"department"`
	Status     string             `json:"status,omitempty" bson:"status,omitempty"`
	IsDeleted  bool               `json:"isDeleted,omitempty" bson:"isDeleted,omitempty"`
}

type Designation struct {
	ID           primitive.ObjectID `json:"id" bson:"_id"`
	Designation  string             `json:"designation" bson:"designation"`
	DepartmentID RefID              `json:"departmentId,omitempty" bson:"departmentId,omitempty"`
	Status       string             `json:"status,omitempty" bson:"status,omitempty"`
	IsDeleted    bool               `json:"isDeleted,omitempty" bson:"isDeleted,omitempty"`
}
