package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Asset là tài sản của công ty (patrimoine), có thể giao cho một nhân viên (assets)
type Asset struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name" validate:"required,max=120,no_xss"`
	Category     string             `json:"category" bson:"category" validate:"required,max=60,no_xss"`
	SerialNumber string             `json:"serialNumber,omitempty" bson:"serialNumber,omitempty" index:"unique,sparse" validate:"omitempty,max=80,no_xss"`
	Value        float64            `json:"value" bson:"value" validate:"gte=0"`
	AssignedTo   primitive.ObjectID `json:"assignedTo,omitempty" bson:"assignedTo,omitempty" index:"single:1"`
	AssignedAt   int64              `json:"assignedAt,omitempty" bson:"assignedAt,omitempty"`
	CreatedAt    int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt    int64              `json:"updatedAt" bson:"updatedAt"`
}
