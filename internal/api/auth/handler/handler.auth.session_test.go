package authhdl

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bearh/internal/global"
)

func newPreferencesApp() *fiber.App {
	global.InitValidator()
	h := NewSessionHandler(nil)
	app := fiber.New()
	app.Use(session.New())
	app.Get("/session/preferences", h.HandleGetPreferences)
	app.Post("/session/preferences", h.HandleSetPreferences)
	return app
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestPreferences_DefaultsAndPersist(t *testing.T) {
	app := newPreferencesApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/session/preferences", nil))
	require.NoError(t, err)
	body := decode(t, resp)
	assert.Equal(t, DefaultTheme, body["theme"])
	assert.Equal(t, true, body["isSidebarOpen"])

	form := url.Values{"theme": {"dark"}, "isSidebarOpen": {"false"}}
	req := httptest.NewRequest(http.MethodPost, "/session/preferences", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err = app.Test(req)
	require.NoError(t, err)
	cookies := resp.Cookies()
	body = decode(t, resp)
	assert.Equal(t, "dark", body["theme"])
	assert.Equal(t, false, body["isSidebarOpen"])
	require.NotEmpty(t, cookies)

	req = httptest.NewRequest(http.MethodGet, "/session/preferences", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err = app.Test(req)
	require.NoError(t, err)
	body = decode(t, resp)
	assert.Equal(t, "dark", body["theme"])
	assert.Equal(t, false, body["isSidebarOpen"])
}

func TestPreferences_RejectsUnknownTheme(t *testing.T) {
	app := newPreferencesApp()
	form := url.Values{"theme": {"neon"}}
	req := httptest.NewRequest(http.MethodPost, "/session/preferences", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
