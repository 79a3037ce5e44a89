// Package models chứa mẫu đánh giá KPI và kết quả đánh giá.
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Criterion là một tiêu chí chấm điểm của mẫu KPI
type Criterion struct {
	Name     string  `json:"name" bson:"name" validate:"required,max=120,no_xss"`
	MaxScore float64 `json:"maxScore" bson:"maxScore" validate:"gt=0"`
}

// KpiForm là mẫu đánh giá, áp dụng cho user trực tiếp hoặc qua chức vụ (kpi_forms)
type KpiForm struct {
	ID          primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string               `json:"name" bson:"name" validate:"required,max=120,no_xss"`
	Description string               `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=1000,no_xss"`
	Criteria    []Criterion          `json:"criteria" bson:"criteria" validate:"required,min=1,dive"`
	Users       []primitive.ObjectID `json:"users" bson:"users" index:"single:1"`
	Positions   []primitive.ObjectID `json:"positions" bson:"positions" index:"single:1"`
	CreatedAt   int64                `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64                `json:"updatedAt" bson:"updatedAt"`
}

// MaxTotal là tổng điểm tối đa của mẫu
func (f *KpiForm) MaxTotal() float64 {
	total := 0.0
	for _, c := range f.Criteria {
		total += c.MaxScore
	}
	return total
}

// Score là điểm của một tiêu chí
type Score struct {
	Criterion string  `json:"criterion" bson:"criterion" validate:"required"`
	Score     float64 `json:"score" bson:"score" validate:"gte=0"`
}

// KpiValue là kết quả đánh giá một user theo một mẫu (kpi_values)
type KpiValue struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Form        primitive.ObjectID `json:"form" bson:"form" validate:"required"`
	User        primitive.ObjectID `json:"user" bson:"user" index:"compound:user_evaluated" validate:"required"`
	Evaluator   primitive.ObjectID `json:"evaluator" bson:"evaluator"`
	Scores      []Score            `json:"scores" bson:"scores" validate:"required,min=1,dive"`
	Comment     string             `json:"comment,omitempty" bson:"comment,omitempty" validate:"omitempty,max=1000,no_xss"`
	EvaluatedAt int64              `json:"evaluatedAt" bson:"evaluatedAt" index:"compound:user_evaluated"`
	CreatedAt   int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt"`
}

// Total là tổng điểm đã chấm
func (v *KpiValue) Total() float64 {
	total := 0.0
	for _, s := range v.Scores {
		total += s.Score
	}
	return total
}
