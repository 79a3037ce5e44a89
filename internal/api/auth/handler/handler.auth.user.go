package authhdl

import (
	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	authdto "bearh/internal/api/auth/dto"
	authsvc "bearh/internal/api/auth/service"
	basehdl "bearh/internal/api/base/handler"
	"bearh/internal/authz"
	"bearh/internal/common"
	"bearh/internal/logger"
	"bearh/internal/utility"
)

// UserCleanup gỡ user khỏi các nhóm và tài sản sau khi xóa
type UserCleanup interface {
	Forget(c fiber.Ctx, userID primitive.ObjectID) error
}

// UserCleanupFunc cho phép dùng hàm làm UserCleanup
type UserCleanupFunc func(c fiber.Ctx, userID primitive.ObjectID) error

func (f UserCleanupFunc) Forget(c fiber.Ctx, userID primitive.ObjectID) error { return f(c, userID) }

// UserHandler xử lý action và loader của nhân viên
type UserHandler struct {
	users   *authsvc.UserService
	access  *authsvc.AccessService
	cleanup UserCleanup
}

// NewUserHandler tạo UserHandler; cleanup nil => chỉ xóa user và quyền
func NewUserHandler(users *authsvc.UserService, access *authsvc.AccessService, cleanup UserCleanup) *UserHandler {
	return &UserHandler{users: users, access: access, cleanup: cleanup}
}

// Actions là bảng action của /users/actions
func (h *UserHandler) Actions() basehdl.ActionTable {
	return basehdl.ActionTable{
		"create": {
			// tạo user kèm quyền => cần cả quyền sửa Access
			Permission: authz.All{authz.Permission("User.Create"), authz.Permission("Access.Update")},
			Handle:     h.create,
		},
		"update":        {Permission: authz.Permission("User.Update"), Handle: h.update},
		"delete":        {Permission: authz.Permission("User.Delete"), Handle: h.delete},
		"setBaseSalary": {Permission: authz.Any{authz.Permission("User.Update"), authz.Permission("Payroll.Generate")}, Handle: h.setBaseSalary},
	}
}

func (h *UserHandler) create(c fiber.Ctx, _ *basehdl.Principal) (fiber.Map, error) {
	var input authdto.UserCreateInput
	if err := basehdl.BindForm(c, &input); err != nil {
		return nil, err
	}
	user, err := h.users.Create(c.Context(), &input)
	if err != nil {
		return nil, err
	}
	return fiber.Map{"message": common.MsgCreated, "user": user}, nil
}

func (h *UserHandler) update(c fiber.Ctx, _ *basehdl.Principal) (fiber.Map, error) {
	var input authdto.UserUpdateInput
	if err := basehdl.BindForm(c, &input); err != nil {
		return nil, err
	}
	id, err := basehdl.FormObjectID(c, "user")
	if err != nil {
		return nil, err
	}
	user, err := h.users.Update(c.Context(), id, &input)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrUserNotFound
	}
	return fiber.Map{"message": common.MsgUpdated, "user": user}, nil
}

func (h *UserHandler) delete(c fiber.Ctx, p *basehdl.Principal) (fiber.Map, error) {
	id, err := basehdl.FormObjectID(c, "user")
	if err != nil {
		return nil, err
	}
	if id == p.ID() {
		return nil, common.NewValidationError(map[string]string{"user": "Impossible de supprimer votre propre compte"})
	}
	deleted, err := h.users.Remove(c.Context(), id)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, common.ErrUserNotFound
	}
	if h.cleanup != nil {
		if err := h.cleanup.Forget(c, id); err != nil {
			// user đã xóa; membership còn sót không chặn response
			logger.WithRequest(c).WithError(err).WithField("user_id", id.Hex()).Error("user cleanup failed")
		}
	}
	return fiber.Map{"message": common.MsgDeleted}, nil
}

func (h *UserHandler) setBaseSalary(c fiber.Ctx, _ *basehdl.Principal) (fiber.Map, error) {
	var input authdto.BaseSalaryInput
	if err := basehdl.BindForm(c, &input); err != nil {
		return nil, err
	}
	id, _ := utility.ParseObjectID(input.ID)
	user, err := h.users.SetBaseSalary(c.Context(), id, input.BaseSalary)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrUserNotFound
	}
	return fiber.Map{"message": common.MsgUpdated, "user": user}, nil
}

// AccessActions là bảng action của /access/actions
func (h *UserHandler) AccessActions() basehdl.ActionTable {
	return basehdl.ActionTable{
		"setPermissions": {Permission: authz.Permission("Access.Update"), Handle: h.setPermissions},
	}
}

func (h *UserHandler) setPermissions(c fiber.Ctx, _ *basehdl.Principal) (fiber.Map, error) {
	var input authdto.PermissionsInput
	if err := basehdl.BindForm(c, &input); err != nil {
		return nil, err
	}
	userID, _ := utility.ParseObjectID(input.User)
	user, err := h.users.FindActiveUser(c.Context(), userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrUserNotFound
	}
	access, err := h.access.SetPermissions(c.Context(), userID, utility.SplitCSV(input.Permissions))
	if err != nil {
		return nil, err
	}
	return fiber.Map{"message": common.MsgUpdated, "access": access}, nil
}

// ListUsers trả về nhân viên đang hoạt động
func (h *UserHandler) ListUsers(c fiber.Ctx, _ *basehdl.Principal) (fiber.Map, error) {
	users, err := h.users.ListActive(c.Context())
	if err != nil {
		return nil, err
	}
	return fiber.Map{"users": users}, nil
}

// GetUser trả về một nhân viên kèm quyền
func (h *UserHandler) GetUser(c fiber.Ctx, _ *basehdl.Principal) (fiber.Map, error) {
	id, err := basehdl.ParamObjectID(c, "id")
	if err != nil {
		return nil, err
	}
	user, err := h.users.ReadOne(c.Context(), map[string]interface{}{"_id": id})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrUserNotFound
	}
	perms, err := h.access.PermissionsForUser(c.Context(), id)
	if err != nil {
		return nil, err
	}
	return fiber.Map{"user": user, "permissions": perms.List()}, nil
}

// Catalogue trả về danh mục quyền (để dựng form phân quyền)
func (h *UserHandler) Catalogue(c fiber.Ctx, _ *basehdl.Principal) (fiber.Map, error) {
	return fiber.Map{"permissions": h.access.Catalogue().Permissions()}, nil
}
