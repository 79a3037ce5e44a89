package prime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	primemodels "bearh/internal/api/prime/models"
	"bearh/internal/common"
	"bearh/internal/logger"
	"bearh/internal/utility"
)

// Source cung cấp dữ liệu đầu vào cho công thức thưởng
type Source interface {
	// Categories trả về các danh mục thưởng theo thứ tự ổn định (createdAt, _id)
	Categories(ctx context.Context) ([]primemodels.BonusCategory, error)
	// KpiRatios trả về tỉ lệ điểm (tổng điểm / tổng điểm tối đa) của từng đánh giá trong cửa sổ
	KpiRatios(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]float64, error)
	// Remarks đếm nhận xét tích cực / tiêu cực trong cửa sổ
	Remarks(ctx context.Context, userID primitive.ObjectID, from, to time.Time) (Remarks, error)
}

// JobStore lưu bản ghi tiến độ. Mỗi phương thức chuyển user là một update nguyên tử.
type JobStore interface {
	// AbandonStale đánh dấu abandoned các job in-progress có heartbeat trước cutoff
	AbandonStale(ctx context.Context, cutoff time.Time) ([]primemodels.PrimeCronJob, error)
	// Start tạo bản ghi; đã có job in-progress => common.ErrJobAlreadyRunning
	Start(ctx context.Context, job *primemodels.PrimeCronJob) error
	// Complete chuyển userID từ remainingUsers sang completedUsers
	Complete(ctx context.Context, jobID string, userID primitive.ObjectID) error
	// Fail chuyển userID từ remainingUsers sang errorsDetails
	Fail(ctx context.Context, jobID string, userID primitive.ObjectID, reason string) error
	// Finish đặt status = completed, endDate = now khi remainingUsers rỗng
	Finish(ctx context.Context, jobID string) (*primemodels.PrimeCronJob, error)
}

// PrimeWriter ghi thưởng đã tính vào bảng lương của kỳ
type PrimeWriter interface {
	SavePrime(ctx context.Context, userID primitive.ObjectID, period string, amount float64, jobID string) error
}

// SettingsReader đọc lịch tính thưởng hiện tại
type SettingsReader interface {
	BonusCalculation(ctx context.Context) (primemodels.BonusCalculationSettings, error)
}

// Calculator chạy job tính thưởng: tuần tự từng user, lỗi của một user không dừng cả lô
type Calculator struct {
	source   Source
	jobs     JobStore
	payrolls PrimeWriter
	settings SettingsReader
	now      func() time.Time
	loc      *time.Location
}

// NewCalculator tạo Calculator; loc nil => UTC
func NewCalculator(source Source, jobs JobStore, payrolls PrimeWriter, settings SettingsReader, loc *time.Location) *Calculator {
	if loc == nil {
		loc = time.UTC
	}
	return &Calculator{
		source:   source,
		jobs:     jobs,
		payrolls: payrolls,
		settings: settings,
		now:      time.Now,
		loc:      loc,
	}
}

// WithClock thay đồng hồ (dùng trong test)
func (c *Calculator) WithClock(now func() time.Time) *Calculator {
	c.now = now
	return c
}

// Run tạo bản ghi rồi xử lý hết user; trả về bản ghi ở trạng thái cuối
func (c *Calculator) Run(ctx context.Context, trigger string) (*primemodels.PrimeCronJob, error) {
	job, rule, err := c.Start(ctx, trigger)
	if err != nil {
		return nil, err
	}
	return c.Process(ctx, job, rule)
}

// Start kiểm tra job treo, dựng danh sách user và tạo bản ghi in-progress
func (c *Calculator) Start(ctx context.Context, trigger string) (*primemodels.PrimeCronJob, *RecurrenceRule, error) {
	settings, err := c.settings.BonusCalculation(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load bonus calculation settings: %w", err)
	}
	rule, err := ParseRecurrence(settings)
	if err != nil {
		return nil, nil, err
	}

	now := c.now().In(c.loc)
	stale, err := c.jobs.AbandonStale(ctx, rule.PreviousFire(now))
	if err != nil {
		return nil, nil, fmt.Errorf("abandon stale jobs: %w", err)
	}
	for _, j := range stale {
		logger.WithModule("prime").WithFields(logrus.Fields{"job_id": j.JobID, "remaining": len(j.RemainingUsers)}).
			Warn("stale prime job marked abandoned")
	}

	categories, err := c.source.Categories(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load bonus categories: %w", err)
	}

	job := &primemodels.PrimeCronJob{
		JobID:          uuid.NewString(),
		Lock:           primemodels.JobLock,
		Trigger:        trigger,
		Status:         primemodels.JobStatusInProgress,
		Period:         utility.PeriodOf(now),
		WindowStart:    rule.WindowStart(now).UnixMilli(),
		WindowEnd:      now.UnixMilli(),
		StartDate:      now.UnixMilli(),
		HeartbeatAt:    now.UnixMilli(),
		RemainingUsers: orderedMembers(categories),
		CompletedUsers: []primitive.ObjectID{},
		ErrorsDetails:  []primemodels.JobError{},
	}
	if err := c.jobs.Start(ctx, job); err != nil {
		return nil, nil, err
	}

	logger.WithModule("prime").WithFields(logrus.Fields{
		"job_id":  job.JobID,
		"trigger": trigger,
		"users":   len(job.RemainingUsers),
		"period":  job.Period,
	}).Info("prime job started")
	return job, rule, nil
}

// Process tính thưởng cho từng user trong remainingUsers theo thứ tự đã lưu
func (c *Calculator) Process(ctx context.Context, job *primemodels.PrimeCronJob, rule *RecurrenceRule) (*primemodels.PrimeCronJob, error) {
	log := logger.WithModule("prime").WithField("job_id", job.JobID)

	categories, err := c.source.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bonus categories: %w", err)
	}
	byUser := categoryByUser(categories)

	from := time.UnixMilli(job.WindowStart).In(c.loc)
	to := time.UnixMilli(job.WindowEnd).In(c.loc)

	users := append([]primitive.ObjectID(nil), job.RemainingUsers...)
	for _, userID := range users {
		total, err := c.computeUser(ctx, byUser[userID], userID, from, to)
		if err == nil {
			err = c.payrolls.SavePrime(ctx, userID, job.Period, total, job.JobID)
		}
		if err != nil {
			log.WithError(err).WithField("user_id", userID.Hex()).Warn("prime computation failed for user")
			if ferr := c.jobs.Fail(ctx, job.JobID, userID, err.Error()); ferr != nil {
				return nil, fmt.Errorf("record failure for %s: %w", userID.Hex(), ferr)
			}
			continue
		}
		if err := c.jobs.Complete(ctx, job.JobID, userID); err != nil {
			return nil, fmt.Errorf("record completion for %s: %w", userID.Hex(), err)
		}
	}

	final, err := c.jobs.Finish(ctx, job.JobID)
	if err != nil {
		return nil, fmt.Errorf("finish job: %w", err)
	}
	log.WithFields(logrus.Fields{
		"completed": len(final.CompletedUsers),
		"errors":    len(final.ErrorsDetails),
	}).Info("prime job completed")
	return final, nil
}

// computeUser tính thưởng một user; panic được đổi thành lỗi của riêng user đó
func (c *Calculator) computeUser(ctx context.Context, category *primemodels.BonusCategory, userID primitive.ObjectID, from, to time.Time) (total float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	if category == nil {
		return 0, errors.New("user no longer belongs to a bonus category")
	}
	ratios, err := c.source.KpiRatios(ctx, userID, from, to)
	if err != nil {
		return 0, fmt.Errorf("kpi: %w", err)
	}
	remarks, err := c.source.Remarks(ctx, userID, from, to)
	if err != nil {
		return 0, fmt.Errorf("observations: %w", err)
	}
	return Total(category, ratios, remarks), nil
}

// orderedMembers trả về user theo thứ tự danh mục rồi thứ tự trong members, bỏ trùng
func orderedMembers(categories []primemodels.BonusCategory) []primitive.ObjectID {
	seen := map[primitive.ObjectID]bool{}
	out := []primitive.ObjectID{}
	for _, cat := range categories {
		for _, m := range cat.Members {
			if m.IsZero() || seen[m] {
				continue
			}
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

// categoryByUser ánh xạ user -> danh mục đầu tiên chứa user
func categoryByUser(categories []primemodels.BonusCategory) map[primitive.ObjectID]*primemodels.BonusCategory {
	out := map[primitive.ObjectID]*primemodels.BonusCategory{}
	for i := range categories {
		for _, m := range categories[i].Members {
			if _, ok := out[m]; !ok {
				out[m] = &categories[i]
			}
		}
	}
	return out
}

// IsAlreadyRunning cho biết lỗi là do đã có job in-progress
func IsAlreadyRunning(err error) bool {
	return errors.Is(err, common.ErrJobAlreadyRunning)
}
