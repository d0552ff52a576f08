package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"user-service/internal/pkg/apperror"
	"user-service/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type envelope struct {
	Status     string `json:"status"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
}

func decode(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	return env
}

func newErrorApp(logger *zap.Logger, h fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(NewErrorMiddleware(logger).Middleware())
	app.Get("/", h)
	return app
}

func TestErrorMiddleware_MapsErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "bad request", err: apperror.BadRequest("Invalid value for phone"), wantStatus: 400, wantMsg: "Invalid value for phone"},
		{name: "wrapped not found", err: errors.Join(errors.New("ctx"), apperror.ResourceNotFound("User not found!")), wantStatus: 404, wantMsg: "User not found!"},
		{name: "unauthorized default message", err: apperror.Unauthorized(""), wantStatus: 401, wantMsg: "unauthorized"},
		{name: "fiber error", err: fiber.NewError(fiber.StatusRequestEntityTooLarge), wantStatus: 413, wantMsg: "Request Entity Too Large"},
		{name: "internal hides cause", err: apperror.Internal(errors.New("secret detail")), wantStatus: 500, wantMsg: "internal server error"},
		{name: "plain error", err: errors.New("pq: connection refused"), wantStatus: 500, wantMsg: "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newErrorApp(nil, func(fiber.Ctx) error { return tc.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			env := decode(t, resp)

			assert.Equal(t, tc.wantStatus, resp.StatusCode)
			assert.Equal(t, tc.wantStatus, env.StatusCode)
			assert.Equal(t, tc.wantMsg, env.Message)
			assert.Equal(t, "error", env.Status)
		})
	}
}

func TestErrorMiddleware_CarriesData(t *testing.T) {
	app := newErrorApp(nil, func(fiber.Ctx) error {
		return apperror.BadRequest("Invalid value for bio").WithData(map[string]any{"fields": []string{"bio"}})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	env := decode(t, resp)
	assert.Equal(t, map[string]any{"fields": []any{"bio"}}, env.Data)
}

func TestErrorMiddleware_RecoversPanic(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	app := newErrorApp(zap.New(core), func(fiber.Ctx) error { panic("boom") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	env := decode(t, resp)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "internal server error", env.Message)
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestErrorMiddleware_LogsOnlyServerErrors(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	logger := zap.New(core)

	_, err := newErrorApp(logger, func(fiber.Ctx) error { return apperror.BadRequest("nope") }).
		Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, 0, logs.Len())

	_, err = newErrorApp(logger, func(fiber.Ctx) error { return errors.New("db down") }).
		Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Equal(t, 1, logs.FilterMessage("request failed").Len())
}

type fakeJWT struct {
	claims jwt.Claims
	err    error
	got    string
}

func (f *fakeJWT) GenerateAccessToken(string, string) (string, error) { return "", nil }

func (f *fakeJWT) ValidateToken(token string) (jwt.Claims, error) {
	f.got = token
	return f.claims, f.err
}

func newAuthApp(svc jwt.Service) *fiber.App {
	app := fiber.New()
	app.Use(NewErrorMiddleware(nil).Middleware())
	app.Use(NewAuthMiddleware(svc).Middleware())
	app.Get("/me", func(c fiber.Ctx) error {
		id, ok := IdentityFrom(c)
		if !ok {
			return c.SendStatus(fiber.StatusTeapot)
		}
		return c.SendString(id.ID + "|" + id.Email)
	})
	return app
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	cases := []struct {
		name    string
		header  string
		err     error
		wantMsg string
	}{
		{name: "no header", header: "", wantMsg: "Unauthorized"},
		{name: "wrong scheme", header: "Basic abc", wantMsg: "Unauthorized"},
		{name: "empty bearer", header: "Bearer   ", wantMsg: "Unauthorized"},
		{name: "invalid token", header: "Bearer abc", err: jwt.ErrTokenInvalid, wantMsg: "Invalid token"},
		{name: "expired token", header: "Bearer abc", err: jwt.ErrTokenExpired, wantMsg: "Token expired"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeJWT{err: tc.err}
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			resp, err := newAuthApp(svc).Test(req)
			require.NoError(t, err)
			env := decode(t, resp)

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tc.wantMsg, env.Message)
		})
	}
}

func TestAuthMiddleware_SetsIdentity(t *testing.T) {
	svc := &fakeJWT{claims: jwt.Claims{UserID: "not-a-uuid", Email: "a@b.c"}}
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "bearer tok-123")

	resp, err := newAuthApp(svc).Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "not-a-uuid|a@b.c", string(body))
	assert.Equal(t, "tok-123", svc.got)
}

func TestAuthMiddleware_WithRealTokens(t *testing.T) {
	svc := jwt.NewHMACService("secret", time.Minute)
	token, err := svc.GenerateAccessToken("6f1c9a52-7a0e-4d43-9d57-2f3f3b8f6c10", "ada@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := newAuthApp(svc).Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	other := jwt.NewHMACService("other-secret", time.Minute)
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = newAuthApp(other).Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, decode(t, resp).StatusCode)
}

func TestAccessLog_RequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	app := fiber.New()
	app.Use(NewAccessLogMiddleware(zap.New(core)).Middleware())
	app.Get("/", func(c fiber.Ctx) error { return c.SendString(RequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "rid-1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, "rid-1", string(body))
	assert.Equal(t, "rid-1", resp.Header.Get("X-Request-ID"))

	entries := logs.FilterMessage("http access").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "rid-1", fields["rid"])
	assert.Equal(t, int64(200), fields["status"])
}

func TestAccessLog_GeneratesRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(NewAccessLogMiddleware(nil).Middleware())
	app.Get("/", func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Len(t, resp.Header.Get("X-Request-ID"), 36)
}

func TestRequestTimeout(t *testing.T) {
	app := fiber.New()
	app.Use(RequestTimeout(50 * time.Millisecond))
	app.Get("/", func(c fiber.Ctx) error {
		deadline, ok := c.Context().Deadline()
		if !ok || time.Until(deadline) > 50*time.Millisecond {
			return c.SendStatus(fiber.StatusTeapot)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
