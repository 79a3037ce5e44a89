package prime

import primemodels "bearh/internal/api/prime/models"

// Mean trả về trung bình cộng; danh sách rỗng => 0
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Remarks là số nhận xét tích cực / tiêu cực trong cửa sổ đánh giá
type Remarks struct {
	Positive int
	Negative int
}

// Signed trả về tổng có dấu: +1 mỗi nhận xét tích cực, -1 mỗi nhận xét tiêu cực
func (r Remarks) Signed() int {
	return r.Positive - r.Negative
}

// Total tính thưởng:
// baseAmount + coefficient × mean(kpi) + remarkBonusAmount × (tích cực − tiêu cực)
func Total(category *primemodels.BonusCategory, kpiRatios []float64, remarks Remarks) float64 {
	return category.BaseAmount +
		category.Coefficient*Mean(kpiRatios) +
		category.RemarkBonusAmount*float64(remarks.Signed())
}
