// Package models chứa bảng lương theo kỳ.
package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payroll là bảng lương của một user trong một kỳ tháng YYYY-MM (payrolls).
// Job tính thưởng ghi prime, action generate ghi baseSalary/deductions; cả hai tính lại netPay.
type Payroll struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	User        primitive.ObjectID `json:"user" bson:"user" index:"compound:user_period_unique"`
	Period      string             `json:"period" bson:"period" index:"compound:user_period_unique"`
	BaseSalary  float64            `json:"baseSalary" bson:"baseSalary"`
	Prime       float64            `json:"prime" bson:"prime"`
	PrimeJobID  string             `json:"primeJobId,omitempty" bson:"primeJobId,omitempty"`
	Deductions  float64            `json:"deductions" bson:"deductions"`
	NetPay      float64            `json:"netPay" bson:"netPay"`
	GeneratedAt int64              `json:"generatedAt,omitempty" bson:"generatedAt,omitempty"`
	CreatedAt   int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt"`
}

// NetPayExpr là biểu thức aggregation tính lương thực nhận = lương cơ bản + thưởng - khấu trừ
// trên chính document, dùng trong update dạng pipeline.
func NetPayExpr() bson.M {
	return bson.M{"$subtract": bson.A{
		bson.M{"$add": bson.A{"$baseSalary", "$prime"}},
		"$deductions",
	}}
}
