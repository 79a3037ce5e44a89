package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Loại nhận xét
const (
	ObservationPositive = "Positive"
	ObservationNegative = "Negative"
)

// Observation là nhận xét về một nhân viên, do người dùng khác viết (hr_observations)
type Observation struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Author    primitive.ObjectID `json:"author" bson:"author" validate:"required"`
	User      primitive.ObjectID `json:"user" bson:"user" index:"single:1,compound:user_created" validate:"required"`
	Type      string             `json:"type" bson:"type" validate:"required,oneof=Positive Negative"`
	Content   string             `json:"content" bson:"content" validate:"required,max=2000,no_xss"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt" index:"compound:user_created"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}

// Sign trả về +1 cho nhận xét tích cực, -1 cho tiêu cực
func (o *Observation) Sign() int {
	if o.Type == ObservationPositive {
		return 1
	}
	return -1
}
