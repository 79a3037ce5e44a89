package prime

import (
	"testing"

	"github.com/stretchr/testify/assert"

	primemodels "bearh/internal/api/prime/models"
)

func TestMean_EmptyIsZero(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, Mean([]float64{}))
	assert.InDelta(t, 0.75, Mean([]float64{0.5, 1}), 1e-9)
}

func TestTotal_Scenario(t *testing.T) {
	category := &primemodels.BonusCategory{BaseAmount: 50000, Coefficient: 10000, RemarkBonusAmount: 2000}
	total := Total(category, []float64{0.8}, Remarks{Positive: 1})
	assert.InDelta(t, 60000, total, 1e-6)
}

func TestTotal_NoKpiAndNegativeRemarks(t *testing.T) {
	category := &primemodels.BonusCategory{BaseAmount: 1000, Coefficient: 500, RemarkBonusAmount: 100}
	assert.InDelta(t, 800, Total(category, nil, Remarks{Positive: 1, Negative: 3}), 1e-9)
}
