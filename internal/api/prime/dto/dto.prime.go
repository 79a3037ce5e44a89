// Package dto - DTO form cho danh mục thưởng và bản ghi job tính thưởng.
package dto

// BonusCategoryInput dữ liệu tạo / sửa danh mục thưởng.
// Id danh mục nằm ở field bonusCategory, handler tự đọc. Số tiền nil => không đổi khi sửa.
type BonusCategoryInput struct {
	Name              string   `form:"name" validate:"omitempty,max=120,no_xss"`
	BaseAmount        *float64 `form:"baseAmount" validate:"omitempty,gte=0"`
	RemarkBonusAmount *float64 `form:"remarkBonusAmount" validate:"omitempty,gte=0"`
	Coefficient       *float64 `form:"coefficient" validate:"omitempty,gte=0"`
}

// PrimeJobQuery lọc danh sách bản ghi job
type PrimeJobQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=in-progress completed abandoned"`
	Page   int64  `query:"page"`
	Limit  int64  `query:"limit" validate:"omitempty,lte=100"`
}
