// Package dto - DTO form cho bảng lương.
package dto

// GenerateInput dữ liệu tạo bảng lương một kỳ cho một user
type GenerateInput struct {
	User       string  `form:"user" validate:"required,objectid"`
	Period     string  `form:"period" validate:"required,datetime=2006-01"`
	Deductions float64 `form:"deductions" validate:"gte=0"`
}

// PayrollQuery lọc bảng lương theo user, period rỗng => mọi kỳ
type PayrollQuery struct {
	User   string `query:"user" validate:"required,objectid"`
	Period string `query:"period" validate:"omitempty,datetime=2006-01"`
}
