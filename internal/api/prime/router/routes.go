// Package router đăng ký route danh mục thưởng, cấu hình lịch và job tính thưởng.
package router

import (
	"github.com/gofiber/fiber/v3"

	basehdl "bearh/internal/api/base/handler"
	primedto "bearh/internal/api/prime/dto"
	primehdl "bearh/internal/api/prime/handler"
	models "bearh/internal/api/prime/models"
	apirouter "bearh/internal/api/router"
	"bearh/internal/authz"
)

// Register đăng ký route prime lên v1
func Register(v1 fiber.Router, r *apirouter.Router) error {
	s := r.Services

	categories := &basehdl.GroupResource[models.BonusCategory, primedto.BonusCategoryInput]{
		Permission: "BonusCategory", Field: "bonusCategory", Key: "bonusCategory", ListKey: "bonusCategories",
		Ops: s.BonusCategories, Create: s.BonusCategories.Create, Update: s.BonusCategories.Update, List: s.BonusCategories.ReadMany,
	}
	actions := categories.Actions()
	delete(actions, "addMember") // một user chỉ thuộc một danh mục: chỉ dùng assign
	r.RegisterActions(v1, "/bonus-categories", "bonus-categories", actions)
	v1.Get("/bonus-categories", basehdl.Loader(r.Auth, categories.ReadCondition(), categories.Loader))

	h := primehdl.NewPrimeHandler(s.SystemConfig, s.PrimeJobs, s.Calculator, s.Scheduler)
	r.RegisterActions(v1, "/config", "config", h.ConfigActions())
	v1.Get("/config", basehdl.Loader(r.Auth, authz.Permission("Config.Read"), h.GetConfig))

	r.RegisterActions(v1, "/prime-jobs", "prime-jobs", h.JobActions())
	v1.Get("/prime-jobs", basehdl.Loader(r.Auth, authz.Permission("PrimeJob.Read"), h.ListJobs))
	return nil
}
