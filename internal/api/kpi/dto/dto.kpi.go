// Package dto - DTO form cho KPI.
package dto

// KpiFormInput dữ liệu tạo / sửa mẫu KPI.
// criteria: "Nom:max;Nom:max", users / positions: id phân cách bởi dấu phẩy.
type KpiFormInput struct {
	Name        string `form:"name" validate:"omitempty,max=120,no_xss"`
	Description string `form:"description" validate:"omitempty,max=1000,no_xss"`
	Criteria    string `form:"criteria" validate:"omitempty,max=4000,no_xss"`
	Users       string `form:"users"`
	Positions   string `form:"positions"`
}

// KpiValueInput dữ liệu chấm KPI. scores: "Nom:score;Nom:score"
type KpiValueInput struct {
	Form    string `form:"form" validate:"required,objectid"`
	User    string `form:"user" validate:"required,objectid"`
	Scores  string `form:"scores" validate:"required,max=4000"`
	Comment string `form:"comment" validate:"omitempty,max=1000,no_xss"`
}

// KpiQuery query của route GET /kpis
type KpiQuery struct {
	User string `query:"user" validate:"required,objectid"`
}
