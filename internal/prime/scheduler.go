package prime

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"bearh/internal/logger"
)

// Trigger ghi nhận nguồn khởi chạy job
const (
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
)

// Runner là phần việc được lập lịch (Calculator.Run)
type Runner interface {
	Run(ctx context.Context, trigger string) error
}

// RunnerFunc cho phép dùng hàm làm Runner
type RunnerFunc func(ctx context.Context, trigger string) error

func (f RunnerFunc) Run(ctx context.Context, trigger string) error { return f(ctx, trigger) }

// Scheduler giữ đúng một entry cron cho job tính thưởng, dựng lại từ cấu hình mỗi lần Reschedule
type Scheduler struct {
	cron     *cron.Cron
	settings SettingsReader
	runner   Runner

	mu      sync.Mutex
	entryID cron.EntryID
	rule    *RecurrenceRule
	ctx     context.Context
}

// NewScheduler tạo Scheduler theo múi giờ loc (nil => UTC)
func NewScheduler(settings SettingsReader, runner Runner, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	cronLogger := cron.PrintfLogger(logger.WithModule("prime-cron"))
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		settings: settings,
		runner:   runner,
		ctx:      context.Background(),
	}
}

// NewCalculatorRunner bọc Calculator thành Runner, bỏ qua kết quả trả về
func NewCalculatorRunner(calc *Calculator) Runner {
	return RunnerFunc(func(ctx context.Context, trigger string) error {
		_, err := calc.Run(ctx, trigger)
		return err
	})
}

// Start lập lịch theo cấu hình rồi chạy cron trong goroutine riêng.
// Lỗi cấu hình chỉ bỏ qua chu kỳ này, không làm dừng tiến trình.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	if err := s.Reschedule(ctx); err != nil {
		logger.WithModule("prime").WithError(err).Error("prime schedule skipped")
	}
	s.cron.Start()

	go func() {
		<-ctx.Done()
		stopCtx := s.cron.Stop()
		<-stopCtx.Done()
		logger.WithModule("prime").Info("prime scheduler stopped")
	}()
}

// Reschedule đọc lại cấu hình và thay entry cron hiện tại.
// Cấu hình không hợp lệ => entry cũ bị gỡ, trả lỗi để caller log.
func (s *Scheduler) Reschedule(ctx context.Context) error {
	settings, err := s.settings.BonusCalculation(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entryID != 0 {
		s.cron.Remove(s.entryID)
		s.entryID = 0
		s.rule = nil
	}

	rule, err := ParseRecurrence(settings)
	if err != nil {
		return err
	}
	sched, err := rule.Schedule()
	if err != nil {
		return err
	}

	runCtx := s.ctx
	s.entryID = s.cron.Schedule(sched, cron.FuncJob(func() {
		if err := s.runner.Run(runCtx, TriggerSchedule); err != nil {
			entry := logger.WithModule("prime").WithError(err)
			if IsAlreadyRunning(err) {
				entry.Warn("scheduled prime job skipped: a run is already in progress")
				return
			}
			entry.Error("scheduled prime job failed")
		}
	}))
	s.rule = rule

	logger.WithModule("prime").WithFields(logrus.Fields{
		"expression": rule.Expression(),
		"next":       s.cron.Entry(s.entryID).Next,
	}).Info("prime job scheduled")
	return nil
}

// Rule trả về quy tắc đang áp dụng (nil nếu chưa lập lịch)
func (s *Scheduler) Rule() *RecurrenceRule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rule
}

// Next trả về lần chạy kế tiếp; zero nếu chưa lập lịch hoặc cron chưa chạy
func (s *Scheduler) Next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entryID == 0 {
		return time.Time{}
	}
	if next := s.cron.Entry(s.entryID).Next; !next.IsZero() {
		return next
	}
	if s.rule == nil {
		return time.Time{}
	}
	sched, err := s.rule.Schedule()
	if err != nil {
		return time.Time{}
	}
	return sched.Next(time.Now().In(s.cron.Location()))
}
