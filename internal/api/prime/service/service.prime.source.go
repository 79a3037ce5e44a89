package primesvc

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	hrsvc "bearh/internal/api/hr/service"
	kpisvc "bearh/internal/api/kpi/service"
	models "bearh/internal/api/prime/models"
	"bearh/internal/prime"
)

// Source nối các service KPI, nhận xét và danh mục thưởng vào công thức thưởng
type Source struct {
	categories   *BonusCategoryService
	kpiValues    *kpisvc.KpiValueService
	observations *hrsvc.ObservationService
}

var _ prime.Source = (*Source)(nil)

// NewSource tạo nguồn dữ liệu cho job tính thưởng
func NewSource(categories *BonusCategoryService, kpiValues *kpisvc.KpiValueService, observations *hrsvc.ObservationService) *Source {
	return &Source{categories: categories, kpiValues: kpiValues, observations: observations}
}

func (s *Source) Categories(ctx context.Context) ([]models.BonusCategory, error) {
	return s.categories.Categories(ctx)
}

func (s *Source) KpiRatios(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]float64, error) {
	return s.kpiValues.Ratios(ctx, userID, from, to)
}

func (s *Source) Remarks(ctx context.Context, userID primitive.ObjectID, from, to time.Time) (prime.Remarks, error) {
	positive, negative, err := s.observations.CountRemarks(ctx, userID, from, to)
	if err != nil {
		return prime.Remarks{}, err
	}
	return prime.Remarks{Positive: positive, Negative: negative}, nil
}
