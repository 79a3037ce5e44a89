package prime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	primemodels "bearh/internal/api/prime/models"
	"bearh/internal/common"
)

type fakeSource struct {
	categories []primemodels.BonusCategory
	kpi        map[primitive.ObjectID][]float64
	kpiErr     map[primitive.ObjectID]error
	remarks    map[primitive.ObjectID]Remarks
	windows    []time.Time
}

func (f *fakeSource) Categories(context.Context) ([]primemodels.BonusCategory, error) {
	return f.categories, nil
}

func (f *fakeSource) KpiRatios(_ context.Context, userID primitive.ObjectID, from, to time.Time) ([]float64, error) {
	f.windows = append(f.windows, from, to)
	if err := f.kpiErr[userID]; err != nil {
		return nil, err
	}
	return f.kpi[userID], nil
}

func (f *fakeSource) Remarks(_ context.Context, userID primitive.ObjectID, _, _ time.Time) (Remarks, error) {
	return f.remarks[userID], nil
}

// fakeJobs giữ bản ghi trong bộ nhớ và kiểm tra bất biến remaining/completed sau mỗi bước
type fakeJobs struct {
	mu        sync.Mutex
	jobs      map[string]*primemodels.PrimeCronJob
	initial   map[string][]primitive.ObjectID
	violation string
}

func newFakeJobs() *fakeJobs {
	return &fakeJobs{jobs: map[string]*primemodels.PrimeCronJob{}, initial: map[string][]primitive.ObjectID{}}
}

func (f *fakeJobs) AbandonStale(_ context.Context, cutoff time.Time) ([]primemodels.PrimeCronJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []primemodels.PrimeCronJob
	for _, j := range f.jobs {
		if j.Status == primemodels.JobStatusInProgress && j.HeartbeatAt < cutoff.UnixMilli() {
			j.Status = primemodels.JobStatusAbandoned
			out = append(out, *j)
		}
	}
	return out, nil
}

func (f *fakeJobs) Start(_ context.Context, job *primemodels.PrimeCronJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, j := range f.jobs {
		if j.Status == primemodels.JobStatusInProgress {
			return common.ErrJobAlreadyRunning
		}
	}
	clone := *job
	clone.RemainingUsers = append([]primitive.ObjectID{}, job.RemainingUsers...)
	f.jobs[job.JobID] = &clone
	f.initial[job.JobID] = append([]primitive.ObjectID{}, job.RemainingUsers...)
	return nil
}

func (f *fakeJobs) move(jobID string, userID primitive.ObjectID, apply func(j *primemodels.PrimeCronJob)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[jobID]
	if !ok {
		return common.ErrNotFound
	}
	idx := -1
	for i, u := range j.RemainingUsers {
		if u == userID {
			idx = i
		}
	}
	if idx < 0 {
		return common.ErrNotFound
	}
	j.RemainingUsers = append(j.RemainingUsers[:idx:idx], j.RemainingUsers[idx+1:]...)
	apply(j)
	f.checkComplementary(j)
	return nil
}

func (f *fakeJobs) checkComplementary(j *primemodels.PrimeCronJob) {
	seen := map[primitive.ObjectID]int{}
	for _, u := range j.RemainingUsers {
		seen[u]++
	}
	for _, u := range j.CompletedUsers {
		seen[u]++
	}
	for _, e := range j.ErrorsDetails {
		seen[e.UserID]++
	}
	for _, u := range f.initial[j.JobID] {
		if seen[u] != 1 {
			f.violation = "user " + u.Hex() + " not in exactly one list"
		}
	}
}

func (f *fakeJobs) Complete(_ context.Context, jobID string, userID primitive.ObjectID) error {
	return f.move(jobID, userID, func(j *primemodels.PrimeCronJob) {
		j.CompletedUsers = append(j.CompletedUsers, userID)
	})
}

func (f *fakeJobs) Fail(_ context.Context, jobID string, userID primitive.ObjectID, reason string) error {
	return f.move(jobID, userID, func(j *primemodels.PrimeCronJob) {
		j.ErrorsDetails = append(j.ErrorsDetails, primemodels.JobError{UserID: userID, Error: reason})
	})
}

func (f *fakeJobs) Finish(_ context.Context, jobID string) (*primemodels.PrimeCronJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j := f.jobs[jobID]
	if len(j.RemainingUsers) == 0 {
		j.Status = primemodels.JobStatusCompleted
		j.EndDate = time.Now().UnixMilli()
	}
	clone := *j
	return &clone, nil
}

type fakePayrolls struct {
	saved map[primitive.ObjectID]float64
	err   map[primitive.ObjectID]error
}

func (f *fakePayrolls) SavePrime(_ context.Context, userID primitive.ObjectID, _ string, amount float64, _ string) error {
	if err := f.err[userID]; err != nil {
		return err
	}
	f.saved[userID] = amount
	return nil
}

type fixedSettings primemodels.BonusCalculationSettings

func (s fixedSettings) BonusCalculation(context.Context) (primemodels.BonusCalculationSettings, error) {
	return primemodels.BonusCalculationSettings(s), nil
}

var monthlySettings = fixedSettings(primemodels.DefaultBonusCalculation())

func newTestCalculator(src *fakeSource, jobs *fakeJobs, pay *fakePayrolls, now time.Time) *Calculator {
	return NewCalculator(src, jobs, pay, monthlySettings, time.UTC).WithClock(func() time.Time { return now })
}

func TestCalculator_ScenarioTotal(t *testing.T) {
	user := primitive.NewObjectID()
	src := &fakeSource{
		categories: []primemodels.BonusCategory{{ID: primitive.NewObjectID(), BaseAmount: 50000, Coefficient: 10000, RemarkBonusAmount: 2000, Members: []primitive.ObjectID{user}}},
		kpi:        map[primitive.ObjectID][]float64{user: {0.8}},
		remarks:    map[primitive.ObjectID]Remarks{user: {Positive: 1}},
	}
	pay := &fakePayrolls{saved: map[primitive.ObjectID]float64{}}
	calc := newTestCalculator(src, newFakeJobs(), pay, time.Date(2026, 3, 31, 18, 0, 0, 0, time.UTC))

	job, err := calc.Run(context.Background(), TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, primemodels.JobStatusCompleted, job.Status)
	assert.Equal(t, "2026-03", job.Period)
	assert.InDelta(t, 60000, pay.saved[user], 1e-6)
	assert.Equal(t, []primitive.ObjectID{user}, job.CompletedUsers)
}

func TestCalculator_PerUserFailureContinues(t *testing.T) {
	a, x, b, c := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	src := &fakeSource{
		categories: []primemodels.BonusCategory{
			{BaseAmount: 100, Members: []primitive.ObjectID{a, x}},
			{BaseAmount: 200, Members: []primitive.ObjectID{b, c}},
		},
		kpiErr: map[primitive.ObjectID]error{x: errors.New("kpi store unavailable")},
	}
	pay := &fakePayrolls{saved: map[primitive.ObjectID]float64{}, err: map[primitive.ObjectID]error{c: errors.New("write conflict")}}
	jobs := newFakeJobs()
	calc := newTestCalculator(src, jobs, pay, time.Now())

	job, err := calc.Run(context.Background(), TriggerSchedule)
	require.NoError(t, err)
	assert.Empty(t, jobs.violation)

	assert.Equal(t, primemodels.JobStatusCompleted, job.Status)
	assert.True(t, job.Partial())
	assert.Empty(t, job.RemainingUsers)
	assert.Equal(t, []primitive.ObjectID{a, b}, job.CompletedUsers)
	require.Len(t, job.ErrorsDetails, 2)
	assert.Equal(t, x, job.ErrorsDetails[0].UserID)
	assert.Contains(t, job.ErrorsDetails[0].Error, "kpi store unavailable")
	assert.Equal(t, c, job.ErrorsDetails[1].UserID)
	assert.NotContains(t, job.CompletedUsers, x)
	assert.Equal(t, 4, len(job.CompletedUsers)+len(job.ErrorsDetails))
	assert.InDelta(t, 200, pay.saved[b], 1e-9)
}

func TestCalculator_OrderAndDedup(t *testing.T) {
	u1, u2, u3 := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	src := &fakeSource{categories: []primemodels.BonusCategory{
		{Members: []primitive.ObjectID{u2, u1}},
		{Members: []primitive.ObjectID{u1, u3}},
	}}
	jobs := newFakeJobs()
	pay := &fakePayrolls{saved: map[primitive.ObjectID]float64{}}
	calc := newTestCalculator(src, jobs, pay, time.Now())

	job, _, err := calc.Start(context.Background(), TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{u2, u1, u3}, job.RemainingUsers)
	assert.Equal(t, primemodels.JobStatusInProgress, job.Status)
	assert.Equal(t, primemodels.JobLock, job.Lock)
	assert.NotEmpty(t, job.JobID)
}

func TestCalculator_GuardsOverlappingRuns(t *testing.T) {
	u := primitive.NewObjectID()
	src := &fakeSource{categories: []primemodels.BonusCategory{{Members: []primitive.ObjectID{u}}}}
	jobs := newFakeJobs()
	now := time.Date(2026, 5, 31, 18, 0, 0, 0, time.UTC)
	calc := newTestCalculator(src, jobs, &fakePayrolls{saved: map[primitive.ObjectID]float64{}}, now)

	_, _, err := calc.Start(context.Background(), TriggerSchedule)
	require.NoError(t, err)

	_, err = calc.Run(context.Background(), TriggerSchedule)
	assert.True(t, IsAlreadyRunning(err))
}

func TestCalculator_RestartsAfterStaleRun(t *testing.T) {
	u := primitive.NewObjectID()
	src := &fakeSource{categories: []primemodels.BonusCategory{{Members: []primitive.ObjectID{u}}}}
	jobs := newFakeJobs()
	pay := &fakePayrolls{saved: map[primitive.ObjectID]float64{}}

	// lần chạy tháng 3 dừng ngay sau khi tạo bản ghi
	start := time.Date(2026, 3, 31, 18, 0, 5, 0, time.UTC)
	stale, _, err := newTestCalculator(src, jobs, pay, start).Start(context.Background(), TriggerSchedule)
	require.NoError(t, err)

	// giữa chu kỳ vẫn coi là đang chạy
	_, err = newTestCalculator(src, jobs, pay, time.Date(2026, 4, 15, 9, 0, 0, 0, time.UTC)).Run(context.Background(), TriggerManual)
	assert.True(t, IsAlreadyRunning(err))

	// lần kích hoạt tháng 4 ngay sau đó
	next := time.Date(2026, 4, 30, 18, 0, 0, 0, time.UTC)
	job, err := newTestCalculator(src, jobs, pay, next).Run(context.Background(), TriggerSchedule)
	require.NoError(t, err)
	assert.Equal(t, primemodels.JobStatusCompleted, job.Status)
	assert.Equal(t, primemodels.JobStatusAbandoned, jobs.jobs[stale.JobID].Status)
}

func TestCalculator_DailyRestartAtNextTrigger(t *testing.T) {
	u := primitive.NewObjectID()
	src := &fakeSource{categories: []primemodels.BonusCategory{{Members: []primitive.ObjectID{u}}}}
	jobs := newFakeJobs()
	pay := &fakePayrolls{saved: map[primitive.ObjectID]float64{}}
	daily := fixedSettings{Frequency: "daily", ExecutionTime: "18:00"}

	start := time.Date(2026, 5, 4, 18, 0, 30, 0, time.UTC)
	_, _, err := NewCalculator(src, jobs, pay, daily, time.UTC).WithClock(func() time.Time { return start }).
		Start(context.Background(), TriggerSchedule)
	require.NoError(t, err)

	next := time.Date(2026, 5, 5, 18, 0, 0, 0, time.UTC)
	job, err := NewCalculator(src, jobs, pay, daily, time.UTC).WithClock(func() time.Time { return next }).
		Run(context.Background(), TriggerSchedule)
	require.NoError(t, err)
	assert.Equal(t, primemodels.JobStatusCompleted, job.Status)
}

func TestCalculator_EvaluationWindow(t *testing.T) {
	u := primitive.NewObjectID()
	src := &fakeSource{categories: []primemodels.BonusCategory{{Members: []primitive.ObjectID{u}}}}
	now := time.Date(2026, 3, 31, 18, 0, 0, 0, time.UTC)
	calc := newTestCalculator(src, newFakeJobs(), &fakePayrolls{saved: map[primitive.ObjectID]float64{}}, now)

	_, err := calc.Run(context.Background(), TriggerManual)
	require.NoError(t, err)
	require.Len(t, src.windows, 2)
	assert.True(t, src.windows[0].Equal(time.Date(2026, 2, 28, 18, 0, 0, 0, time.UTC)))
	assert.True(t, src.windows[1].Equal(now))
}

func TestCalculator_EmptyCategories(t *testing.T) {
	calc := newTestCalculator(&fakeSource{}, newFakeJobs(), &fakePayrolls{saved: map[primitive.ObjectID]float64{}}, time.Now())
	job, err := calc.Run(context.Background(), TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, primemodels.JobStatusCompleted, job.Status)
	assert.Empty(t, job.CompletedUsers)
}

func TestCalculator_UnsupportedFrequency(t *testing.T) {
	calc := NewCalculator(&fakeSource{}, newFakeJobs(), &fakePayrolls{}, fixedSettings{Frequency: "hourly", ExecutionTime: "10:00"}, nil)
	_, err := calc.Run(context.Background(), TriggerSchedule)
	assert.True(t, errors.Is(err, common.ErrUnsupportedFrequency))
}
