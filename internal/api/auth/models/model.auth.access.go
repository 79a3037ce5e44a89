package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Access lưu danh sách token quyền của một user (hr_access), một bản ghi cho mỗi user
type Access struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	User        primitive.ObjectID `json:"user" bson:"user" index:"unique" validate:"required"`
	Permissions []string           `json:"permissions" bson:"permissions"`
	CreatedAt   int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt"`
}
