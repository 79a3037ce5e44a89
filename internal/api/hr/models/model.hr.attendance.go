package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Attendance là bản chấm công một ngày của nhân viên (hr_attendances)
type Attendance struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	User           primitive.ObjectID `json:"user" bson:"user" index:"compound:user_date_unique" validate:"required"`
	Date           string             `json:"date" bson:"date" index:"compound:user_date_unique" validate:"required,datetime=2006-01-02"`
	HoursWorked    float64            `json:"hoursWorked" bson:"hoursWorked" validate:"gte=0,lte=24"`
	TasksCompleted int                `json:"tasksCompleted" bson:"tasksCompleted" validate:"gte=0"`
	Note           string             `json:"note,omitempty" bson:"note,omitempty" validate:"omitempty,max=500,no_xss"`
	CreatedAt      int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt      int64              `json:"updatedAt" bson:"updatedAt"`
}

// Leave là một lần nghỉ phép (hr_leaves), tính theo ngày
type Leave struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	User      primitive.ObjectID `json:"user" bson:"user" index:"single:1" validate:"required"`
	StartDate string             `json:"startDate" bson:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string             `json:"endDate" bson:"endDate" validate:"required,datetime=2006-01-02"`
	Days      float64            `json:"days" bson:"days" validate:"gt=0,lte=366"`
	Reason    string             `json:"reason,omitempty" bson:"reason,omitempty" validate:"omitempty,max=500,no_xss"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}
