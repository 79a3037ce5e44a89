package prime

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	primemodels "bearh/internal/api/prime/models"
	"bearh/internal/common"
)

type mutableSettings struct {
	value primemodels.BonusCalculationSettings
}

func (m *mutableSettings) BonusCalculation(context.Context) (primemodels.BonusCalculationSettings, error) {
	return m.value, nil
}

func TestScheduler_Reschedule(t *testing.T) {
	cfg := &mutableSettings{value: primemodels.DefaultBonusCalculation()}
	runs := 0
	s := NewScheduler(cfg, RunnerFunc(func(context.Context, string) error { runs++; return nil }), time.UTC)

	require.NoError(t, s.Reschedule(context.Background()))
	require.NotNil(t, s.Rule())
	assert.Equal(t, "0 18 L * *", s.Rule().Expression())
	next := s.Next()
	assert.Equal(t, 18, next.Hour())
	assert.Equal(t, next.AddDate(0, 0, 1).Day(), 1)

	cfg.value = primemodels.BonusCalculationSettings{Frequency: "daily", ExecutionTime: "06:30"}
	require.NoError(t, s.Reschedule(context.Background()))
	assert.Equal(t, "30 6 * * *", s.Rule().Expression())
	assert.Len(t, s.cron.Entries(), 1)
	assert.Equal(t, 0, runs)
}

func TestScheduler_UnsupportedFrequencyUnschedules(t *testing.T) {
	cfg := &mutableSettings{value: primemodels.DefaultBonusCalculation()}
	s := NewScheduler(cfg, RunnerFunc(func(context.Context, string) error { return nil }), nil)
	require.NoError(t, s.Reschedule(context.Background()))

	cfg.value = primemodels.BonusCalculationSettings{Frequency: "fortnightly", ExecutionTime: "06:30"}
	err := s.Reschedule(context.Background())
	assert.True(t, errors.Is(err, common.ErrUnsupportedFrequency))
	assert.Nil(t, s.Rule())
	assert.Empty(t, s.cron.Entries())
	assert.True(t, s.Next().IsZero())
}

func TestScheduler_StartSkipsInvalidConfig(t *testing.T) {
	cfg := &mutableSettings{value: primemodels.BonusCalculationSettings{}}
	s := NewScheduler(cfg, RunnerFunc(func(context.Context, string) error { return nil }), nil)

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	assert.Nil(t, s.Rule())
	cancel()
}
