// Package router đăng ký các route KPI.
package router

import (
	"github.com/gofiber/fiber/v3"

	basehdl "bearh/internal/api/base/handler"
	kpihdl "bearh/internal/api/kpi/handler"
	apirouter "bearh/internal/api/router"
	"bearh/internal/authz"
)

// Register đăng ký route KPI lên v1
func Register(v1 fiber.Router, r *apirouter.Router) error {
	s := r.Services
	h := kpihdl.NewKpiHandler(s.KpiForms, s.KpiValues, s.Users)

	v1.Get("/kpis", basehdl.Loader(r.Auth, kpihdl.ReadKpis, h.KpisForUser))

	r.RegisterActions(v1, "/kpi-forms", "kpi-forms", h.FormActions())
	v1.Get("/kpi-forms", basehdl.Loader(r.Auth, authz.Permission("KpiForm.Read"), h.ListForms))

	r.RegisterActions(v1, "/kpi-values", "kpi-values", h.ValueActions())
	v1.Get("/kpi-values", basehdl.Loader(r.Auth, authz.Permission("KpiValue.Read"), h.ListValues))
	return nil
}
