// Package primehdl - handler danh mục thưởng, cấu hình lịch tính thưởng và job tính thưởng.
package primehdl

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	basehdl "bearh/internal/api/base/handler"
	basemodels "bearh/internal/api/base/models"
	primedto "bearh/internal/api/prime/dto"
	models "bearh/internal/api/prime/models"
	"bearh/internal/authz"
	"bearh/internal/common"
	"bearh/internal/logger"
	"bearh/internal/prime"
)

// ConfigStore đọc / ghi cấu hình hệ thống (SystemConfigService)
type ConfigStore interface {
	Get(ctx context.Context) (*models.SystemConfig, error)
	UpdateBonusCalculation(ctx context.Context, in models.BonusCalculationSettings) (*models.SystemConfig, error)
}

// JobLister đọc bản ghi job (PrimeJobService)
type JobLister interface {
	List(ctx context.Context, status string, page, limit int64) (*basemodels.PaginateResult[models.PrimeCronJob], error)
	Running(ctx context.Context) (*models.PrimeCronJob, error)
}

// JobRunner tạo bản ghi rồi xử lý job (prime.Calculator)
type JobRunner interface {
	Start(ctx context.Context, trigger string) (*models.PrimeCronJob, *prime.RecurrenceRule, error)
	Process(ctx context.Context, job *models.PrimeCronJob, rule *prime.RecurrenceRule) (*models.PrimeCronJob, error)
}

// ScheduleControl là bộ lập lịch đang chạy (prime.Scheduler)
type ScheduleControl interface {
	Reschedule(ctx context.Context) error
	Rule() *prime.RecurrenceRule
	Next() time.Time
}

// PrimeHandler xử lý route cấu hình và job tính thưởng
type PrimeHandler struct {
	config    ConfigStore
	jobs      JobLister
	calc      JobRunner
	scheduler ScheduleControl
}

// NewPrimeHandler tạo PrimeHandler; scheduler nil => không lập lịch lại khi đổi cấu hình
func NewPrimeHandler(config ConfigStore, jobs JobLister, calc JobRunner, scheduler ScheduleControl) *PrimeHandler {
	return &PrimeHandler{config: config, jobs: jobs, calc: calc, scheduler: scheduler}
}

// ====================================
// CONFIG
// ====================================

// ConfigActions là bảng action của /config/actions
func (h *PrimeHandler) ConfigActions() basehdl.ActionTable {
	return basehdl.ActionTable{
		"updateBonusCalculation": {Permission: authz.Permission("Config.Update"), Handle: h.updateBonusCalculation},
	}
}

func (h *PrimeHandler) updateBonusCalculation(c fiber.Ctx, _ *basehdl.Principal) (fiber.Map, error) {
	var input models.BonusCalculationSettings
	if err := basehdl.BindForm(c, &input); err != nil {
		return nil, err
	}
	cfg, err := h.config.UpdateBonusCalculation(c.Context(), input)
	if err != nil {
		return nil, err
	}
	if h.scheduler != nil {
		if err := h.scheduler.Reschedule(c.Context()); err != nil {
			// cấu hình đã lưu hợp lệ; lỗi ở đây là lỗi đọc lại store
			logger.WithRequest(c).WithError(err).Error("prime reschedule failed")
		}
	}
	return fiber.Map{"message": common.MsgUpdated, "config": cfg, "schedule": h.schedule()}, nil
}

// GetConfig trả về cấu hình hiện tại và lịch chạy kế tiếp
func (h *PrimeHandler) GetConfig(c fiber.Ctx, _ *basehdl.Principal) (fiber.Map, error) {
	cfg, err := h.config.Get(c.Context())
	if err != nil {
		return nil, err
	}
	return fiber.Map{"config": cfg, "schedule": h.schedule()}, nil
}

func (h *PrimeHandler) schedule() fiber.Map {
	if h.scheduler == nil {
		return fiber.Map{"active": false}
	}
	rule := h.scheduler.Rule()
	if rule == nil {
		return fiber.Map{"active": false}
	}
	out := fiber.Map{"active": true, "expression": rule.Expression()}
	if next := h.scheduler.Next(); !next.IsZero() {
		out["next"] = next
	}
	return out
}

// ====================================
// JOB
// ====================================

// JobActions là bảng action của /prime-jobs/actions
func (h *PrimeHandler) JobActions() basehdl.ActionTable {
	return basehdl.ActionTable{
		"run": {Permission: authz.Permission("PrimeJob.Run"), Handle: h.run},
	}
}

// run tạo bản ghi ngay trong request (để trả lỗi "đang chạy" cho client),
// phần tính toán chạy trong goroutine riêng.
func (h *PrimeHandler) run(c fiber.Ctx, p *basehdl.Principal) (fiber.Map, error) {
	job, rule, err := h.calc.Start(c.Context(), prime.TriggerManual)
	if err != nil {
		return nil, err
	}

	ctx := context.WithoutCancel(c.Context())
	actor := p.ID().Hex()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.WithModule("prime").WithField("job_id", job.JobID).Errorf("manual prime job panic: %v", r)
			}
		}()
		if _, err := h.calc.Process(ctx, job, rule); err != nil {
			logger.WithModule("prime").WithError(err).WithField("job_id", job.JobID).WithField("actor", actor).
				Error("manual prime job failed")
		}
	}()

	return fiber.Map{"message": "Calcul des primes lancé", "job": job}, nil
}

// ListJobs trả về bản ghi job, mới nhất trước
func (h *PrimeHandler) ListJobs(c fiber.Ctx, _ *basehdl.Principal) (fiber.Map, error) {
	var query primedto.PrimeJobQuery
	if err := basehdl.BindQuery(c, &query); err != nil {
		return nil, err
	}
	result, err := h.jobs.List(c.Context(), query.Status, query.Page, query.Limit)
	if err != nil {
		return nil, err
	}
	running, err := h.jobs.Running(c.Context())
	if err != nil {
		return nil, err
	}
	return fiber.Map{"jobs": result, "running": running}, nil
}
