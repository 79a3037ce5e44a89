// Package dto - tham số query của báo cáo.
package dto

// ExportQuery khoảng tháng của báo cáo, bao gồm hai đầu
type ExportQuery struct {
	From string `query:"from" validate:"required,datetime=2006-01"`
	To   string `query:"to" validate:"required,datetime=2006-01"`
}
