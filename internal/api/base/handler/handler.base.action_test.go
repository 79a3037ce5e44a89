package basehdl

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	authmodels "bearh/internal/api/auth/models"
	"bearh/internal/authz"
	"bearh/internal/common"
)

// fakeAuth đọc user id từ header X-User, đếm số lần chạm store
type fakeAuth struct {
	perms     authz.PermissionSet
	loadCalls int
	loadErr   error
}

func (f *fakeAuth) SessionUserID(c fiber.Ctx) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Get("X-User"))
	if err != nil {
		return primitive.NilObjectID, common.ErrAuthenticationRequired
	}
	return id, nil
}

func (f *fakeAuth) LoadPrincipal(c fiber.Ctx, userID primitive.ObjectID) (*Principal, error) {
	f.loadCalls++
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return &Principal{User: &authmodels.User{ID: userID}, Permissions: f.perms}, nil
}

func newActionApp(auth Authenticator, table ActionTable) *fiber.App {
	app := fiber.New()
	app.Post("/departments/actions", table.Handler("Department", auth))
	return app
}

func postAction(t *testing.T, app *fiber.App, user string, form url.Values) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/departments/actions", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if user != "" {
		req.Header.Set("X-User", user)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func departmentTable(calls *int, result error) ActionTable {
	return ActionTable{
		"create": {
			Permission: authz.Permission("Department.Create"),
			Handle: func(c fiber.Ctx, p *Principal) (fiber.Map, error) {
				*calls++
				if result != nil {
					return nil, result
				}
				return fiber.Map{"name": c.FormValue("name")}, nil
			},
		},
	}
}

func TestActionTable_RequiresSession(t *testing.T) {
	auth := &fakeAuth{}
	calls := 0
	status, body := postAction(t, newActionApp(auth, departmentTable(&calls, nil)), "", url.Values{"_action": {"create"}})

	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, common.MsgUnauthorized, body["error"])
	assert.Equal(t, 0, auth.loadCalls)
	assert.Equal(t, 0, calls)
}

func TestActionTable_UnknownActionSkipsStore(t *testing.T) {
	auth := &fakeAuth{perms: authz.NewPermissionSet("Department.Create")}
	calls := 0
	user := primitive.NewObjectID().Hex()
	status, body := postAction(t, newActionApp(auth, departmentTable(&calls, nil)), user, url.Values{"_action": {"frobnicate"}})

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Action not supported", body["error"])
	assert.Equal(t, 0, auth.loadCalls)
	assert.Equal(t, 0, calls)
}

func TestActionTable_DeniesWithoutPermission(t *testing.T) {
	auth := &fakeAuth{perms: authz.NewPermissionSet("Department.Read")}
	calls := 0
	status, body := postAction(t, newActionApp(auth, departmentTable(&calls, nil)), primitive.NewObjectID().Hex(),
		url.Values{"_action": {"create"}, "name": {"Ventes"}})

	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, common.MsgForbidden, body["error"])
	assert.Equal(t, 1, auth.loadCalls)
	assert.Equal(t, 0, calls)
}

func TestActionTable_DispatchesOnce(t *testing.T) {
	auth := &fakeAuth{perms: authz.NewPermissionSet("Department.Create")}
	calls := 0
	status, body := postAction(t, newActionApp(auth, departmentTable(&calls, nil)), primitive.NewObjectID().Hex(),
		url.Values{"_action": {"create"}, "name": {"Ventes"}})

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Ventes", body["name"])
	assert.Equal(t, 1, calls)
}

func TestActionTable_ErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"validation", common.NewValidationError(map[string]string{"name": "Ce champ est obligatoire"}), fiber.StatusBadRequest, common.MsgValidationError},
		{"not found", common.ErrNotFound, fiber.StatusNotFound, common.MsgNotFound},
		{"store failure", errors.New("connection reset by peer"), fiber.StatusBadRequest, common.MsgInternalError},
		{"converted store failure", common.ConvertMongoError(errors.New("boom")), fiber.StatusBadRequest, common.MsgInternalError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := &fakeAuth{perms: authz.NewPermissionSet("Department.Create")}
			calls := 0
			status, body := postAction(t, newActionApp(auth, departmentTable(&calls, tc.err)), primitive.NewObjectID().Hex(),
				url.Values{"_action": {"create"}})

			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tc.wantError, body["error"])
			assert.NotContains(t, body["error"], "boom")
		})
	}
}

func TestActionTable_ValidationFields(t *testing.T) {
	auth := &fakeAuth{perms: authz.NewPermissionSet("Department.Create")}
	calls := 0
	verr := common.NewValidationError(map[string]string{"name": "Ce champ est obligatoire"})
	_, body := postAction(t, newActionApp(auth, departmentTable(&calls, verr)), primitive.NewObjectID().Hex(),
		url.Values{"_action": {"create"}})

	fields, ok := body["fields"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Ce champ est obligatoire", fields["name"])
}

func TestLoader_Guards(t *testing.T) {
	auth := &fakeAuth{perms: authz.NewPermissionSet("Department.Read")}
	app := fiber.New()
	app.Get("/departments", Loader(auth, authz.Permission("Department.Read"), func(c fiber.Ctx, p *Principal) (fiber.Map, error) {
		return fiber.Map{"departments": []string{"RH"}, "actor": p.ID().Hex()}, nil
	}))
	app.Get("/payrolls", Loader(auth, authz.Permission("Payroll.Read"), func(c fiber.Ctx, p *Principal) (fiber.Map, error) {
		return fiber.Map{}, nil
	}))

	user := primitive.NewObjectID().Hex()
	req := httptest.NewRequest(http.MethodGet, "/departments", nil)
	req.Header.Set("X-User", user)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/payrolls", nil)
	req.Header.Set("X-User", user)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/departments", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestActionTable_Actions(t *testing.T) {
	table := ActionTable{"update": {}, "create": {}, "delete": {}}
	assert.Equal(t, []string{"create", "delete", "update"}, table.Actions())
}
