// Package router đăng ký route báo cáo.
package router

import (
	"github.com/gofiber/fiber/v3"

	basehdl "bearh/internal/api/base/handler"
	reporthdl "bearh/internal/api/report/handler"
	apirouter "bearh/internal/api/router"
	"bearh/internal/authz"
)

// Register đăng ký route báo cáo lên v1
func Register(v1 fiber.Router, r *apirouter.Router) error {
	h := reporthdl.NewReportHandler(r.Services.Reports, r.Services.Users)
	v1.Get("/reports/users/:id/export", basehdl.Guard(r.Auth, authz.Permission("Report.Export"), h.Export))
	return nil
}
