package basehdl

import (
	"github.com/gofiber/fiber/v3"

	"bearh/internal/authz"
	"bearh/internal/common"
)

// LoaderFunc đọc dữ liệu cho route GET
type LoaderFunc func(c fiber.Ctx, p *Principal) (fiber.Map, error)

// Guard kiểm tra phiên và quyền rồi mới gọi h.
// cond nil => chỉ cần đăng nhập.
func Guard(auth Authenticator, cond authz.Condition, h fiber.Handler) fiber.Handler {
	return func(c fiber.Ctx) error {
		userID, err := auth.SessionUserID(c)
		if err != nil {
			return ActionFailure(c, err)
		}
		principal, err := auth.LoadPrincipal(c, userID)
		if err != nil {
			return ActionFailure(c, err)
		}
		if cond != nil && !authz.Authorize(principal.Permissions, cond) {
			return ActionFailure(c, common.ErrAuthorizationDenied)
		}
		SetPrincipal(c, principal)
		return h(c)
	}
}

// Loader là Guard cho các route đọc trả JSON {success: true, ...}
func Loader(auth Authenticator, cond authz.Condition, load LoaderFunc) fiber.Handler {
	return Guard(auth, cond, func(c fiber.Ctx) error {
		payload, err := load(c, PrincipalFrom(c))
		if err != nil {
			return ActionFailure(c, err)
		}
		return ActionSuccess(c, payload)
	})
}
