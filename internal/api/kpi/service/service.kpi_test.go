package kpisvc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "bearh/internal/api/kpi/models"
	"bearh/internal/common"
)

func TestParseCriteria(t *testing.T) {
	criteria, err := ParseCriteria("Ponctualité:10; Qualité du travail:20 ;")
	require.NoError(t, err)
	assert.Equal(t, []models.Criterion{{Name: "Ponctualité", MaxScore: 10}, {Name: "Qualité du travail", MaxScore: 20}}, criteria)

	cases := []string{"", "Ponctualité", "Ponctualité:dix", "A:1;A:2"}
	for _, raw := range cases {
		_, err := ParseCriteria(raw)
		var verr *common.ValidationError
		assert.True(t, errors.As(err, &verr), raw)
	}
}

func TestParseScores(t *testing.T) {
	form := &models.KpiForm{Criteria: []models.Criterion{{Name: "Ponctualité", MaxScore: 10}, {Name: "Qualité", MaxScore: 10}}}

	scores, err := ParseScores("Ponctualité:8;Qualité:8", form)
	require.NoError(t, err)
	assert.Len(t, scores, 2)

	_, err = ParseScores("Ponctualité:11", form)
	assert.Error(t, err)

	_, err = ParseScores("Inconnu:1", form)
	assert.Error(t, err)
}

func TestRatio(t *testing.T) {
	form := &models.KpiForm{Criteria: []models.Criterion{{Name: "A", MaxScore: 10}, {Name: "B", MaxScore: 10}}}
	value := &models.KpiValue{Scores: []models.Score{{Criterion: "A", Score: 8}, {Criterion: "B", Score: 8}}}

	ratio, err := Ratio(value, form)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, ratio, 1e-9)

	_, err = Ratio(value, &models.KpiForm{})
	assert.Error(t, err)
}
