// Package models chứa các model thuộc domain nhân sự (phòng ban, nhóm, chức vụ,
// nhóm giờ làm, nhận xét, chấm công, nghỉ phép, tài sản).
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Department là phòng ban (hr_departments)
type Department struct {
	ID          primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string               `json:"name" bson:"name" index:"unique" validate:"required,max=120,no_xss"`
	Description string               `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=500,no_xss"`
	Manager     primitive.ObjectID   `json:"manager,omitempty" bson:"manager,omitempty"`
	Members     []primitive.ObjectID `json:"members" bson:"members"`
	CreatedAt   int64                `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64                `json:"updatedAt" bson:"updatedAt"`
}

// Team là nhóm làm việc, có thể thuộc một phòng ban (hr_teams)
type Team struct {
	ID          primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string               `json:"name" bson:"name" validate:"required,max=120,no_xss"`
	Description string               `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=500,no_xss"`
	Department  primitive.ObjectID   `json:"department,omitempty" bson:"department,omitempty" index:"single:1"`
	Leader      primitive.ObjectID   `json:"leader,omitempty" bson:"leader,omitempty"`
	Members     []primitive.ObjectID `json:"members" bson:"members"`
	CreatedAt   int64                `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64                `json:"updatedAt" bson:"updatedAt"`
}

// Position là chức vụ (hr_positions)
type Position struct {
	ID          primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Title       string               `json:"title" bson:"title" index:"unique" validate:"required,max=120,no_xss"`
	Level       int                  `json:"level" bson:"level" validate:"gte=0,lte=20"`
	Description string               `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=500,no_xss"`
	Members     []primitive.ObjectID `json:"members" bson:"members"`
	CreatedAt   int64                `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64                `json:"updatedAt" bson:"updatedAt"`
}

// HourGroup là nhóm giờ làm: khung giờ và số giờ mỗi tuần (hr_hour_groups)
type HourGroup struct {
	ID          primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string               `json:"name" bson:"name" index:"unique" validate:"required,max=120,no_xss"`
	StartTime   string               `json:"startTime" bson:"startTime" validate:"required,hhmm"`
	EndTime     string               `json:"endTime" bson:"endTime" validate:"required,hhmm"`
	WeeklyHours float64              `json:"weeklyHours" bson:"weeklyHours" validate:"gt=0,lte=168"`
	Members     []primitive.ObjectID `json:"members" bson:"members"`
	CreatedAt   int64                `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64                `json:"updatedAt" bson:"updatedAt"`
}
