package worker

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	primemodels "bearh/internal/api/prime/models"
	"bearh/internal/delivery/channels"
	"bearh/internal/logger"
	"bearh/internal/prime"
)

// defaultStaleAfter dùng khi chưa có lịch hợp lệ
const defaultStaleAfter = 24 * time.Hour

// JobMonitorStore là phần của PrimeJobService mà monitor cần
type JobMonitorStore interface {
	AbandonStale(ctx context.Context, cutoff time.Time) ([]primemodels.PrimeCronJob, error)
	PendingAlerts(ctx context.Context) ([]primemodels.PrimeCronJob, error)
	MarkAlerted(ctx context.Context, id primitive.ObjectID) error
}

// RuleSource trả về quy tắc lịch đang áp dụng (Scheduler)
type RuleSource interface {
	Rule() *prime.RecurrenceRule
}

// PrimeMonitorWorker định kỳ đánh dấu job treo là abandoned và gửi cảnh báo
// cho job abandoned hoặc hoàn tất có lỗi.
type PrimeMonitorWorker struct {
	jobs     JobMonitorStore
	rules    RuleSource
	alerter  channels.Alerter
	interval time.Duration
	now      func() time.Time
}

// NewPrimeMonitorWorker tạo worker; interval dưới 30 giây => 5 phút
func NewPrimeMonitorWorker(jobs JobMonitorStore, rules RuleSource, alerter channels.Alerter, interval time.Duration) *PrimeMonitorWorker {
	if interval < 30*time.Second {
		interval = 5 * time.Minute
	}
	if alerter == nil {
		alerter = channels.LogAlerter{}
	}
	return &PrimeMonitorWorker{jobs: jobs, rules: rules, alerter: alerter, interval: interval, now: time.Now}
}

// Start chạy vòng lặp cho tới khi ctx bị hủy
func (w *PrimeMonitorWorker) Start(ctx context.Context) {
	log := logger.WithModule("prime-monitor")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithField("interval", w.interval.String()).Info("prime monitor started")
	for {
		select {
		case <-ctx.Done():
			log.Info("prime monitor stopped")
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.WithField("panic", r).Error("prime monitor panic, retrying next tick")
					}
				}()
				w.RunOnce(ctx)
			}()
		}
	}
}

// staleCutoff là lần kích hoạt gần nhất của lịch hiện tại
func (w *PrimeMonitorWorker) staleCutoff(now time.Time) time.Time {
	if w.rules != nil {
		if rule := w.rules.Rule(); rule != nil {
			return rule.PreviousFire(now)
		}
	}
	return now.Add(-defaultStaleAfter)
}

// RunOnce chạy một lượt kiểm tra; trả về số cảnh báo đã gửi
func (w *PrimeMonitorWorker) RunOnce(ctx context.Context) int {
	log := logger.WithModule("prime-monitor")

	cutoff := w.staleCutoff(w.now())
	abandoned, err := w.jobs.AbandonStale(ctx, cutoff)
	if err != nil {
		log.WithError(err).Error("abandon stale prime jobs failed")
	}
	for _, job := range abandoned {
		log.WithField("job_id", job.JobID).WithField("remaining", len(job.RemainingUsers)).Warn("prime job abandoned")
	}

	pending, err := w.jobs.PendingAlerts(ctx)
	if err != nil {
		log.WithError(err).Error("load pending prime alerts failed")
		return 0
	}
	sent := 0
	for i := range pending {
		job := &pending[i]
		if err := w.alerter.Alert(ctx, job); err != nil {
			// giữ alertedAt trống để lượt sau gửi lại
			log.WithError(err).WithField("job_id", job.JobID).Error("prime alert failed")
			continue
		}
		if err := w.jobs.MarkAlerted(ctx, job.ID); err != nil {
			log.WithError(err).WithField("job_id", job.JobID).Error("mark prime alert failed")
			continue
		}
		sent++
	}
	return sent
}
