package basehdl

import (
	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	authmodels "bearh/internal/api/auth/models"
	"bearh/internal/authz"
)

const principalLocalsKey = "principal"

// Principal là user đã đăng nhập cùng tập quyền đọc từ store trong request hiện tại
type Principal struct {
	User        *authmodels.User
	Permissions authz.PermissionSet
}

// ID trả về _id của user
func (p *Principal) ID() primitive.ObjectID {
	if p == nil || p.User == nil {
		return primitive.NilObjectID
	}
	return p.User.ID
}

// Authenticator tách bước đọc phiên (không chạm store) khỏi bước nạp user + quyền (có chạm store)
type Authenticator interface {
	SessionUserID(c fiber.Ctx) (primitive.ObjectID, error)
	LoadPrincipal(c fiber.Ctx, userID primitive.ObjectID) (*Principal, error)
}

// SetPrincipal lưu principal vào Locals
func SetPrincipal(c fiber.Ctx, p *Principal) {
	c.Locals(principalLocalsKey, p)
}

// PrincipalFrom lấy principal đã được middleware/dispatcher gắn vào context
func PrincipalFrom(c fiber.Ctx) *Principal {
	p, _ := c.Locals(principalLocalsKey).(*Principal)
	return p
}
