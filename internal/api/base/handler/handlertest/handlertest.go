// Package handlertest chứa tiện ích kiểm thử handler: Authenticator đọc user từ header
// và các hàm gửi request qua app.Test.
package handlertest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	authmodels "bearh/internal/api/auth/models"
	basehdl "bearh/internal/api/base/handler"
	"bearh/internal/authz"
	"bearh/internal/common"
)

// UserHeader là header mang user id của phiên giả lập
const UserHeader = "X-User"

// HeaderAuth là Authenticator đọc user id từ UserHeader; mọi user có cùng Perms
type HeaderAuth struct {
	Perms     authz.PermissionSet
	LoadCalls int
}

// NewHeaderAuth tạo HeaderAuth với các quyền cho trước
func NewHeaderAuth(perms ...string) *HeaderAuth {
	return &HeaderAuth{Perms: authz.NewPermissionSet(perms...)}
}

func (a *HeaderAuth) SessionUserID(c fiber.Ctx) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Get(UserHeader))
	if err != nil {
		return primitive.NilObjectID, common.ErrAuthenticationRequired
	}
	return id, nil
}

func (a *HeaderAuth) LoadPrincipal(_ fiber.Ctx, userID primitive.ObjectID) (*basehdl.Principal, error) {
	a.LoadCalls++
	return &basehdl.Principal{User: &authmodels.User{ID: userID}, Permissions: a.Perms}, nil
}

// PostForm gửi form urlencoded tới path với user của phiên (rỗng = chưa đăng nhập)
func PostForm(t *testing.T, app *fiber.App, path, user string, form url.Values) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if user != "" {
		req.Header.Set(UserHeader, user)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

// Get gửi GET tới path với user của phiên
func Get(t *testing.T, app *fiber.App, path, user string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if user != "" {
		req.Header.Set(UserHeader, user)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

// JSON đọc body JSON của resp
func JSON(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return body
}
