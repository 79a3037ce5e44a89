// Package authhdl - handler đăng nhập, phiên, nhân viên và quyền.
package authhdl

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"go.mongodb.org/mongo-driver/bson/primitive"

	authdto "bearh/internal/api/auth/dto"
	authsvc "bearh/internal/api/auth/service"
	basehdl "bearh/internal/api/base/handler"
	"bearh/internal/common"
	"bearh/internal/logger"
)

// Khóa lưu trong phiên server
const (
	SessionUserKey    = "userId"
	SessionThemeKey   = "theme"
	SessionSidebarKey = "isSidebarOpen"
)

// Giá trị mặc định khi phiên chưa có tùy chọn giao diện
const (
	DefaultTheme       = "light"
	DefaultSidebarOpen = true
)

// SessionAuthenticator đọc user id từ phiên cookie, rồi nạp user + quyền từ store ở mỗi request
type SessionAuthenticator struct {
	users  *authsvc.UserService
	access *authsvc.AccessService
}

// NewSessionAuthenticator tạo Authenticator dựa trên middleware session
func NewSessionAuthenticator(users *authsvc.UserService, access *authsvc.AccessService) *SessionAuthenticator {
	return &SessionAuthenticator{users: users, access: access}
}

// SessionUserID không chạm store
func (a *SessionAuthenticator) SessionUserID(c fiber.Ctx) (primitive.ObjectID, error) {
	sess := session.FromContext(c)
	if sess == nil {
		return primitive.NilObjectID, common.ErrAuthenticationRequired
	}
	raw, _ := sess.Get(SessionUserKey).(string)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, common.ErrAuthenticationRequired
	}
	return id, nil
}

// LoadPrincipal đọc user còn hoạt động và quyền hiện tại; user bị xóa / khóa => hủy phiên
func (a *SessionAuthenticator) LoadPrincipal(c fiber.Ctx, userID primitive.ObjectID) (*basehdl.Principal, error) {
	user, err := a.users.FindActiveUser(c.Context(), userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		if sess := session.FromContext(c); sess != nil {
			_ = sess.Destroy()
		}
		return nil, common.ErrAuthenticationRequired
	}
	perms, err := a.access.PermissionsForUser(c.Context(), userID)
	if err != nil {
		return nil, err
	}
	return &basehdl.Principal{User: user, Permissions: perms}, nil
}

// SessionHandler xử lý đăng nhập, đăng xuất, thông tin phiên và tùy chọn giao diện
type SessionHandler struct {
	users *authsvc.UserService
}

// NewSessionHandler tạo SessionHandler
func NewSessionHandler(users *authsvc.UserService) *SessionHandler {
	return &SessionHandler{users: users}
}

// HandleLogin kiểm tra email / mật khẩu rồi cấp phiên mới
func (h *SessionHandler) HandleLogin(c fiber.Ctx) error {
	var input authdto.LoginInput
	if err := basehdl.BindForm(c, &input); err != nil {
		return basehdl.ActionFailure(c, err)
	}
	user, err := h.users.Authenticate(c.Context(), input.Email, input.Password)
	if err != nil {
		logger.WithRequest(c).WithField("email", input.Email).Warn("login failed")
		return basehdl.ActionFailure(c, err)
	}

	sess := session.FromContext(c)
	if sess == nil {
		return basehdl.ActionFailure(c, common.ErrAuthenticationRequired)
	}
	// đổi session id khi đăng nhập
	if err := sess.Regenerate(); err != nil {
		return basehdl.ActionFailure(c, err)
	}
	sess.Set(SessionUserKey, user.ID.Hex())

	logger.Audit(c, user.ID.Hex(), "session", "login", "ok")
	return basehdl.ActionSuccess(c, fiber.Map{"user": user})
}

// HandleLogout hủy phiên hiện tại
func (h *SessionHandler) HandleLogout(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess != nil {
		if err := sess.Destroy(); err != nil {
			return basehdl.ActionFailure(c, err)
		}
	}
	return basehdl.ActionSuccess(c, fiber.Map{"message": "Déconnexion réussie"})
}

// HandleMe trả về user đang đăng nhập và danh sách quyền
func (h *SessionHandler) HandleMe(c fiber.Ctx, p *basehdl.Principal) (fiber.Map, error) {
	return fiber.Map{"user": p.User, "permissions": p.Permissions.List()}, nil
}

// Preferences đọc tùy chọn giao diện trong phiên, dùng mặc định nếu chưa có
func Preferences(sess *session.Middleware) fiber.Map {
	theme, sidebar := DefaultTheme, DefaultSidebarOpen
	if sess != nil {
		if v, ok := sess.Get(SessionThemeKey).(string); ok && v != "" {
			theme = v
		}
		if v, ok := sess.Get(SessionSidebarKey).(bool); ok {
			sidebar = v
		}
	}
	return fiber.Map{"theme": theme, "isSidebarOpen": sidebar}
}

// HandleGetPreferences trả về theme và isSidebarOpen của phiên
func (h *SessionHandler) HandleGetPreferences(c fiber.Ctx) error {
	return basehdl.ActionSuccess(c, Preferences(session.FromContext(c)))
}

// HandleSetPreferences ghi theme / isSidebarOpen vào phiên; field rỗng giữ nguyên
func (h *SessionHandler) HandleSetPreferences(c fiber.Ctx) error {
	var input authdto.PreferencesInput
	if err := basehdl.BindForm(c, &input); err != nil {
		return basehdl.ActionFailure(c, err)
	}
	sess := session.FromContext(c)
	if sess == nil {
		return basehdl.ActionFailure(c, common.ErrInvalidInput)
	}
	if input.Theme != "" {
		sess.Set(SessionThemeKey, input.Theme)
	}
	if input.IsSidebarOpen != "" {
		sess.Set(SessionSidebarKey, input.IsSidebarOpen == "true")
	}
	return basehdl.ActionSuccess(c, Preferences(sess))
}
