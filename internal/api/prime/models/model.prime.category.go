// Package models chứa danh mục thưởng, bản ghi tiến độ job tính thưởng và cấu hình hệ thống.
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// BonusCategory là danh mục thưởng (prime). Một user thuộc tối đa một danh mục.
type BonusCategory struct {
	ID                primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Name              string               `json:"name" bson:"name" index:"unique" validate:"required,max=120,no_xss"`
	BaseAmount        float64              `json:"baseAmount" bson:"baseAmount" validate:"gte=0"`
	RemarkBonusAmount float64              `json:"remarkBonusAmount" bson:"remarkBonusAmount" validate:"gte=0"`
	Coefficient       float64              `json:"coefficient" bson:"coefficient" validate:"gte=0"`
	Members           []primitive.ObjectID `json:"members" bson:"members"`
	CreatedAt         int64                `json:"createdAt" bson:"createdAt"`
	UpdatedAt         int64                `json:"updatedAt" bson:"updatedAt"`
}
