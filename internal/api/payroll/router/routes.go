// Package router đăng ký các route bảng lương.
package router

import (
	"github.com/gofiber/fiber/v3"

	basehdl "bearh/internal/api/base/handler"
	payrollhdl "bearh/internal/api/payroll/handler"
	apirouter "bearh/internal/api/router"
	"bearh/internal/authz"
)

// Register đăng ký route bảng lương lên v1
func Register(v1 fiber.Router, r *apirouter.Router) error {
	h := payrollhdl.NewPayrollHandler(r.Services.Payrolls)
	r.RegisterActions(v1, "/payrolls", "payrolls", h.Actions())
	v1.Get("/payrolls", basehdl.Loader(r.Auth, authz.Permission("Payroll.Read"), h.List))
	return nil
}
