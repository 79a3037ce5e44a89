package basehdl

import (
	"sort"

	"github.com/gofiber/fiber/v3"

	"bearh/internal/authz"
	"bearh/internal/common"
	"bearh/internal/logger"
)

// ActionField là tên field form chọn action
const ActionField = "_action"

// ActionFunc thực hiện đúng một lời gọi service và trả về payload cho client
type ActionFunc func(c fiber.Ctx, p *Principal) (fiber.Map, error)

// ActionSpec gắn điều kiện quyền với hàm xử lý của một action
type ActionSpec struct {
	Permission authz.Condition
	Handle     ActionFunc
}

// ActionTable là bảng action của một resource, khóa là giá trị "_action"
type ActionTable map[string]ActionSpec

// Actions trả về danh sách action đã sắp xếp
func (t ActionTable) Actions() []string {
	out := make([]string, 0, len(t))
	for name := range t {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Handler tạo fiber handler điều phối action cho resource.
// Thứ tự: phiên (401) -> tra "_action" (400, không chạm store) -> nạp user + quyền -> kiểm tra quyền (403) -> gọi service.
func (t ActionTable) Handler(resource string, auth Authenticator) fiber.Handler {
	return func(c fiber.Ctx) error {
		userID, err := auth.SessionUserID(c)
		if err != nil {
			return ActionFailure(c, err)
		}

		action := c.FormValue(ActionField)
		spec, ok := t[action]
		if !ok || spec.Handle == nil {
			logger.WithRequest(c).WithField("resource", resource).WithField("action", action).Warn("unsupported action")
			return ActionFailure(c, common.ErrUnsupportedAction)
		}

		principal, err := auth.LoadPrincipal(c, userID)
		if err != nil {
			return ActionFailure(c, err)
		}
		actor := userID.Hex()

		if !authz.Authorize(principal.Permissions, spec.Permission) {
			logger.Audit(c, actor, resource, action, "denied")
			return ActionFailure(c, common.ErrAuthorizationDenied)
		}
		SetPrincipal(c, principal)

		payload, err := spec.Handle(c, principal)
		if err != nil {
			logger.Audit(c, actor, resource, action, "failed")
			return ActionFailure(c, err)
		}
		logger.Audit(c, actor, resource, action, "ok")
		return ActionSuccess(c, payload)
	}
}
