// Package hrhdl - handler nhận xét, chấm công, nghỉ phép và tài sản.
package hrhdl

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	authmodels "bearh/internal/api/auth/models"
	basehdl "bearh/internal/api/base/handler"
	hrdto "bearh/internal/api/hr/dto"
	models "bearh/internal/api/hr/models"
	"bearh/internal/authz"
	"bearh/internal/common"
	"bearh/internal/logger"
	"bearh/internal/utility"
)

// ObservationStore là phần của ObservationService handler dùng
type ObservationStore interface {
	Create(ctx context.Context, author primitive.ObjectID, in *hrdto.ObservationInput) (*models.Observation, error)
	ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Observation, error)
}

// AttendanceStore ghi chấm công
type AttendanceStore interface {
	Record(ctx context.Context, in *hrdto.AttendanceInput) (*models.Attendance, error)
}

// LeaveStore tạo / xóa nghỉ phép
type LeaveStore interface {
	Create(ctx context.Context, in *hrdto.LeaveInput) (*models.Leave, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// AssetStore là phần của AssetService handler dùng
type AssetStore interface {
	Create(ctx context.Context, in *hrdto.AssetInput) (*models.Asset, error)
	Update(ctx context.Context, id primitive.ObjectID, in *hrdto.AssetInput) (*models.Asset, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	Assign(ctx context.Context, assetID, userID primitive.ObjectID) (*models.Asset, error)
	ListAssignedTo(ctx context.Context, userID primitive.ObjectID) ([]models.Asset, error)
	ReadMany(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]models.Asset, error)
}

// UserReader đọc user còn hoạt động (người nhận tài sản)
type UserReader interface {
	FindActiveUser(ctx context.Context, id primitive.ObjectID) (*authmodels.User, error)
}

// HRHandler gom handler của nhận xét, chấm công, nghỉ phép, tài sản
type HRHandler struct {
	observations ObservationStore
	attendances  AttendanceStore
	leaves       LeaveStore
	assets       AssetStore
	users        UserReader
}

// NewHRHandler tạo HRHandler
func NewHRHandler(observations ObservationStore, attendances AttendanceStore, leaves LeaveStore, assets AssetStore, users UserReader) *HRHandler {
	return &HRHandler{observations: observations, attendances: attendances, leaves: leaves, assets: assets, users: users}
}

// ====================================
// OBSERVATION
// ====================================

// CreateObservation ghi nhận xét; author là user của phiên
func (h *HRHandler) CreateObservation(c fiber.Ctx) error {
	p := basehdl.PrincipalFrom(c)
	var input hrdto.ObservationInput
	if err := basehdl.BindForm(c, &input); err != nil {
		return basehdl.ActionFailure(c, err)
	}
	observation, err := h.observations.Create(c.Context(), p.ID(), &input)
	if err != nil {
		return basehdl.ActionFailure(c, err)
	}
	logger.Audit(c, p.ID().Hex(), "observations", "create", "ok")
	return basehdl.ActionSuccess(c, fiber.Map{"message": common.MsgCreated, "observation": observation})
}

// ListObservations trả về nhận xét của ?user=
func (h *HRHandler) ListObservations(c fiber.Ctx, _ *basehdl.Principal) (fiber.Map, error) {
	userID, err := basehdl.QueryObjectID(c, "user")
	if err != nil {
		return nil, err
	}
	list, err := h.observations.ListForUser(c.Context(), userID)
	if err != nil {
		return nil, err
	}
	return fiber.Map{"observations": list}, nil
}

// ====================================
// ATTENDANCE / LEAVE
// ====================================

// AttendanceActions là bảng action của /attendances/actions
func (h *HRHandler) AttendanceActions() basehdl.ActionTable {
	return basehdl.ActionTable{
		"record": {Permission: authz.Permission("Attendance.Create"), Handle: h.recordAttendance},
	}
}

func (h *HRHandler) recordAttendance(c fiber.Ctx, _ *basehdl.Principal) (fiber.Map, error) {
	var input hrdto.AttendanceInput
	if err := basehdl.BindForm(c, &input); err != nil {
		return nil, err
	}
	attendance, err := h.attendances.Record(c.Context(), &input)
	if err != nil {
		return nil, err
	}
	return fiber.Map{"message": common.MsgUpdated, "attendance": attendance}, nil
}

// LeaveActions là bảng action của /leaves/actions
func (h *HRHandler) LeaveActions() basehdl.ActionTable {
	return basehdl.ActionTable{
		"create": {Permission: authz.Permission("Leave.Create"), Handle: h.createLeave},
		"delete": {Permission: authz.Permission("Leave.Delete"), Handle: h.deleteLeave},
	}
}

func (h *HRHandler) createLeave(c fiber.Ctx, _ *basehdl.Principal) (fiber.Map, error) {
	var input hrdto.LeaveInput
	if err := basehdl.BindForm(c, &input); err != nil {
		return nil, err
	}
	leave, err := h.leaves.Create(c.Context(), &input)
	if err != nil {
		return nil, err
	}
	return fiber.Map{"message": common.MsgCreated, "leave": leave}, nil
}

func (h *HRHandler) deleteLeave(c fiber.Ctx, _ *basehdl.Principal) (fiber.Map, error) {
	id, err := basehdl.FormObjectID(c, "leave")
	if err != nil {
		return nil, err
	}
	deleted, err := h.leaves.Delete(c.Context(), id)
	if err != nil {
		return nil, err
	}
	if err := basehdl.FoundOr404(deleted); err != nil {
		return nil, err
	}
	return fiber.Map{"message": common.MsgDeleted}, nil
}

// ====================================
// ASSET
// ====================================

// AssetActions là bảng action của /assets/actions
func (h *HRHandler) AssetActions() basehdl.ActionTable {
	return basehdl.ActionTable{
		"create": {Permission: authz.Permission("Asset.Create"), Handle: h.createAsset},
		"update": {Permission: authz.Permission("Asset.Update"), Handle: h.updateAsset},
		"delete": {Permission: authz.Permission("Asset.Delete"), Handle: h.deleteAsset},
		"assign": {Permission: authz.Permission("Asset.Assign"), Handle: h.assignAsset},
	}
}

func (h *HRHandler) createAsset(c fiber.Ctx, _ *basehdl.Principal) (fiber.Map, error) {
	var input hrdto.AssetInput
	if err := basehdl.BindForm(c, &input); err != nil {
		return nil, err
	}
	asset, err := h.assets.Create(c.Context(), &input)
	if err != nil {
		return nil, err
	}
	return fiber.Map{"message": common.MsgCreated, "asset": asset}, nil
}

func (h *HRHandler) updateAsset(c fiber.Ctx, _ *basehdl.Principal) (fiber.Map, error) {
	id, err := basehdl.FormObjectID(c, "asset")
	if err != nil {
		return nil, err
	}
	var input hrdto.AssetInput
	if err := basehdl.BindForm(c, &input); err != nil {
		return nil, err
	}
	asset, err := h.assets.Update(c.Context(), id, &input)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, common.ErrNotFound
	}
	return fiber.Map{"message": common.MsgUpdated, "asset": asset}, nil
}

func (h *HRHandler) deleteAsset(c fiber.Ctx, _ *basehdl.Principal) (fiber.Map, error) {
	id, err := basehdl.FormObjectID(c, "asset")
	if err != nil {
		return nil, err
	}
	deleted, err := h.assets.Delete(c.Context(), id)
	if err != nil {
		return nil, err
	}
	if err := basehdl.FoundOr404(deleted); err != nil {
		return nil, err
	}
	return fiber.Map{"message": common.MsgDeleted}, nil
}

func (h *HRHandler) assignAsset(c fiber.Ctx, _ *basehdl.Principal) (fiber.Map, error) {
	var input hrdto.AssetAssignInput
	if err := basehdl.BindForm(c, &input); err != nil {
		return nil, err
	}
	assetID, _ := utility.ParseObjectID(input.Asset)
	userID := utility.String2ObjectID(input.User) // rỗng => thu hồi
	if !userID.IsZero() {
		user, err := h.users.FindActiveUser(c.Context(), userID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, common.ErrUserNotFound
		}
	}
	asset, err := h.assets.Assign(c.Context(), assetID, userID)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, common.ErrNotFound
	}
	return fiber.Map{"message": common.MsgUpdated, "asset": asset}, nil
}

// ListAssets trả về tài sản; ?user= lọc theo người đang giữ
func (h *HRHandler) ListAssets(c fiber.Ctx, _ *basehdl.Principal) (fiber.Map, error) {
	if c.Query("user") != "" {
		userID, err := basehdl.QueryObjectID(c, "user")
		if err != nil {
			return nil, err
		}
		assets, err := h.assets.ListAssignedTo(c.Context(), userID)
		if err != nil {
			return nil, err
		}
		return fiber.Map{"assets": assets}, nil
	}
	assets, err := h.assets.ReadMany(c.Context(), bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	return fiber.Map{"assets": assets}, nil
}
