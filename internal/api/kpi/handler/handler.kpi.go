// Package kpihdl - handler mẫu KPI, kết quả chấm KPI và route truy vấn KPI theo user.
package kpihdl

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	authmodels "bearh/internal/api/auth/models"
	basehdl "bearh/internal/api/base/handler"
	kpidto "bearh/internal/api/kpi/dto"
	kpisvc "bearh/internal/api/kpi/service"
	"bearh/internal/authz"
	"bearh/internal/common"
	"bearh/internal/utility"
)

// UserReader đọc user còn hoạt động (để lấy chức vụ)
type UserReader interface {
	FindActiveUser(ctx context.Context, id primitive.ObjectID) (*authmodels.User, error)
}

// ReadKpis là điều kiện xem KPI của một user: người đọc mẫu hoặc người chấm điểm
var ReadKpis = authz.Any{authz.Permission("KpiForm.Read"), authz.Permission("KpiValue.Submit")}

// KpiHandler xử lý route KPI
type KpiHandler struct {
	forms  *kpisvc.KpiFormService
	values *kpisvc.KpiValueService
	users  UserReader
}

// NewKpiHandler tạo KpiHandler
func NewKpiHandler(forms *kpisvc.KpiFormService, values *kpisvc.KpiValueService, users UserReader) *KpiHandler {
	return &KpiHandler{forms: forms, values: values, users: users}
}

// KpisForUser trả về {kpis, message}: mẫu KPI gán trực tiếp cho ?user= hoặc qua chức vụ của user
func (h *KpiHandler) KpisForUser(c fiber.Ctx, _ *basehdl.Principal) (fiber.Map, error) {
	var query kpidto.KpiQuery
	if err := basehdl.BindQuery(c, &query); err != nil {
		return nil, err
	}
	userID, _ := utility.ParseObjectID(query.User)
	user, err := h.users.FindActiveUser(c.Context(), userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrUserNotFound
	}

	forms, err := h.forms.ForUser(c.Context(), user.ID, user.Position)
	if err != nil {
		return nil, err
	}
	message := "Aucun formulaire KPI pour cet utilisateur"
	if len(forms) > 0 {
		message = fmt.Sprintf("%d formulaire(s) KPI trouvé(s)", len(forms))
	}
	return fiber.Map{"kpis": forms, "message": message}, nil
}

// FormActions là bảng action của /kpi-forms/actions
func (h *KpiHandler) FormActions() basehdl.ActionTable {
	return basehdl.ActionTable{
		"create": {Permission: authz.Permission("KpiForm.Create"), Handle: h.createForm},
		"update": {Permission: authz.Permission("KpiForm.Update"), Handle: h.updateForm},
		"delete": {Permission: authz.Permission("KpiForm.Delete"), Handle: h.deleteForm},
	}
}

func (h *KpiHandler) createForm(c fiber.Ctx, _ *basehdl.Principal) (fiber.Map, error) {
	var input kpidto.KpiFormInput
	if err := basehdl.BindForm(c, &input); err != nil {
		return nil, err
	}
	form, err := h.forms.Create(c.Context(), &input)
	if err != nil {
		return nil, err
	}
	return fiber.Map{"message": common.MsgCreated, "kpiForm": form}, nil
}

func (h *KpiHandler) updateForm(c fiber.Ctx, _ *basehdl.Principal) (fiber.Map, error) {
	id, err := basehdl.FormObjectID(c, "kpiForm")
	if err != nil {
		return nil, err
	}
	var input kpidto.KpiFormInput
	if err := basehdl.BindForm(c, &input); err != nil {
		return nil, err
	}
	form, err := h.forms.Update(c.Context(), id, &input)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, common.ErrNotFound
	}
	return fiber.Map{"message": common.MsgUpdated, "kpiForm": form}, nil
}

func (h *KpiHandler) deleteForm(c fiber.Ctx, _ *basehdl.Principal) (fiber.Map, error) {
	id, err := basehdl.FormObjectID(c, "kpiForm")
	if err != nil {
		return nil, err
	}
	deleted, err := h.forms.Delete(c.Context(), id)
	if err != nil {
		return nil, err
	}
	if err := basehdl.FoundOr404(deleted); err != nil {
		return nil, err
	}
	return fiber.Map{"message": common.MsgDeleted}, nil
}

// ValueActions là bảng action của /kpi-values/actions
func (h *KpiHandler) ValueActions() basehdl.ActionTable {
	return basehdl.ActionTable{
		"submit": {Permission: authz.Permission("KpiValue.Submit"), Handle: h.submitValue},
		"delete": {Permission: authz.Permission("KpiValue.Delete"), Handle: h.deleteValue},
	}
}

func (h *KpiHandler) submitValue(c fiber.Ctx, p *basehdl.Principal) (fiber.Map, error) {
	var input kpidto.KpiValueInput
	if err := basehdl.BindForm(c, &input); err != nil {
		return nil, err
	}
	value, err := h.values.Submit(c.Context(), p.ID(), &input)
	if err != nil {
		return nil, err
	}
	return fiber.Map{"message": common.MsgCreated, "kpiValue": value}, nil
}

func (h *KpiHandler) deleteValue(c fiber.Ctx, _ *basehdl.Principal) (fiber.Map, error) {
	id, err := basehdl.FormObjectID(c, "kpiValue")
	if err != nil {
		return nil, err
	}
	deleted, err := h.values.Delete(c.Context(), id)
	if err != nil {
		return nil, err
	}
	if err := basehdl.FoundOr404(deleted); err != nil {
		return nil, err
	}
	return fiber.Map{"message": common.MsgDeleted}, nil
}

// ListForms trả về mọi mẫu KPI
func (h *KpiHandler) ListForms(c fiber.Ctx, _ *basehdl.Principal) (fiber.Map, error) {
	forms, err := h.forms.ReadMany(c.Context(), bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	return fiber.Map{"kpiForms": forms}, nil
}

// ListValues trả về kết quả chấm KPI của ?user=, mới nhất trước
func (h *KpiHandler) ListValues(c fiber.Ctx, _ *basehdl.Principal) (fiber.Map, error) {
	userID, err := basehdl.QueryObjectID(c, "user")
	if err != nil {
		return nil, err
	}
	values, err := h.values.ReadMany(c.Context(), bson.M{"user": userID}, options.Find().SetSort(bson.D{{Key: "evaluatedAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	return fiber.Map{"kpiValues": values}, nil
}
