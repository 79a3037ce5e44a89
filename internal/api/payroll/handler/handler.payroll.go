// Package payrollhdl - handler bảng lương.
package payrollhdl

import (
	"github.com/gofiber/fiber/v3"

	basehdl "bearh/internal/api/base/handler"
	payrolldto "bearh/internal/api/payroll/dto"
	payrollsvc "bearh/internal/api/payroll/service"
	"bearh/internal/authz"
	"bearh/internal/common"
	"bearh/internal/utility"
)

// PayrollHandler xử lý route bảng lương
type PayrollHandler struct {
	payrolls *payrollsvc.PayrollService
}

// NewPayrollHandler tạo PayrollHandler
func NewPayrollHandler(payrolls *payrollsvc.PayrollService) *PayrollHandler {
	return &PayrollHandler{payrolls: payrolls}
}

// Actions là bảng action của /payrolls/actions
func (h *PayrollHandler) Actions() basehdl.ActionTable {
	return basehdl.ActionTable{
		"generate": {Permission: authz.Permission("Payroll.Generate"), Handle: h.generate},
	}
}

func (h *PayrollHandler) generate(c fiber.Ctx, _ *basehdl.Principal) (fiber.Map, error) {
	var input payrolldto.GenerateInput
	if err := basehdl.BindForm(c, &input); err != nil {
		return nil, err
	}
	payroll, err := h.payrolls.Generate(c.Context(), &input)
	if err != nil {
		return nil, err
	}
	return fiber.Map{"message": common.MsgCreated, "payroll": payroll}, nil
}

// List trả về bảng lương của ?user=, lọc thêm theo ?period= nếu có
func (h *PayrollHandler) List(c fiber.Ctx, _ *basehdl.Principal) (fiber.Map, error) {
	var query payrolldto.PayrollQuery
	if err := basehdl.BindQuery(c, &query); err != nil {
		return nil, err
	}
	userID, _ := utility.ParseObjectID(query.User)
	payrolls, err := h.payrolls.ListForUser(c.Context(), userID, query.Period)
	if err != nil {
		return nil, err
	}
	return fiber.Map{"payrolls": payrolls}, nil
}
