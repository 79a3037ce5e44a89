package models

// PaginateResult kết quả truy vấn có phân trang
type PaginateResult[T any] struct {
	Page      int64 `json:"page"`
	Limit     int64 `json:"limit"`
	ItemCount int64 `json:"itemCount"`
	Items     []T   `json:"items"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"totalPage"`
}

// NewPaginateResult tính số trang từ total
func NewPaginateResult[T any](items []T, page, limit, total int64) *PaginateResult[T] {
	totalPage := int64(0)
	if limit > 0 {
		totalPage = (total + limit - 1) / limit
	}
	if items == nil {
		items = []T{}
	}
	return &PaginateResult[T]{
		Page:      page,
		Limit:     limit,
		ItemCount: int64(len(items)),
		Items:     items,
		Total:     total,
		TotalPage: totalPage,
	}
}
