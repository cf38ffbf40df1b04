package api

import (
	"errors"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/terraincognita07/dosalabel/internal/services"
)

type loginInput struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Next     string `json:"next" form:"next"`
}

func (handler *Handler) ShowLoginPage(c *fiber.Ctx) error {
	if !handler.operators.Enabled() {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	if session, ok := currentSession(c); ok && session.Operator {
		return c.Redirect(sanitizeRedirectPath(c.Query("next"), "/"), fiber.StatusSeeOther)
	}

	flash := handler.popFlashCookie(c)
	return handler.render(c, "login", fiber.Map{
		"Title":      localizedPageTitle(currentMessages(c), "meta.title.login", "Dosalabel | Login"),
		"ErrorCode":  flash.AuthError,
		"LoginEmail": flash.LoginEmail,
		"Next":       sanitizeRedirectPath(c.Query("next"), "/"),
	})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	if !handler.operators.Enabled() {
		return apiError(c, fiber.StatusNotFound, "login_disabled")
	}

	input := loginInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.loginFailed(c, fiber.StatusBadRequest, "invalid_input", input)
	}

	limiterKey := requestLimiterKey(c)
	now := time.Now()
	if handler.loginLimiter.tooManyRecent(limiterKey, now, handler.loginMaxAttempts, handler.loginAttemptWindow) {
		handler.logger.Warn("login throttled", "client", limiterKey)
		return handler.loginFailed(c, fiber.StatusTooManyRequests, "too_many_login_attempts", input)
	}

	if err := handler.operators.Authenticate(input.Email, input.Password); err != nil {
		if !errors.Is(err, services.ErrInvalidCredentials) {
			status, code := classifyServiceError(err)
			return handler.loginFailed(c, status, code, input)
		}
		handler.loginLimiter.addFailure(limiterKey, now, handler.loginAttemptWindow)
		return handler.loginFailed(c, fiber.StatusUnauthorized, "invalid_credentials", input)
	}
	handler.loginLimiter.reset(limiterKey)

	session, ok := currentSession(c)
	if !ok {
		session = labelSession{Workspace: uuid.NewString()}
	}
	session.Operator = true
	if err := handler.setSessionCookie(c, session); err != nil {
		handler.logger.Error("issue operator session", "err", err)
		return apiError(c, fiber.StatusInternalServerError, "internal")
	}
	handler.logger.Info("operator logged in", "workspace", session.Workspace)
	return redirectOrJSON(c, sanitizeRedirectPath(input.Next, "/"))
}

// Logout drops operator rights but keeps the workspace, so the label being
// edited is still there after the next login.
func (handler *Handler) Logout(c *fiber.Ctx) error {
	session, ok := currentSession(c)
	if ok && session.Operator {
		session.Operator = false
		if err := handler.setSessionCookie(c, session); err != nil {
			handler.logger.Error("issue session cookie", "err", err)
			return apiError(c, fiber.StatusInternalServerError, "internal")
		}
	}
	target := "/"
	if handler.operators.Enabled() {
		target = "/login"
	}
	return redirectOrJSON(c, target)
}

func (handler *Handler) loginFailed(c *fiber.Ctx, status int, code string, input loginInput) error {
	if acceptsJSON(c) || isHTMX(c) {
		return apiError(c, status, code)
	}
	handler.setFlashCookie(c, FlashPayload{AuthError: code, LoginEmail: input.Email})

	target := "/login"
	if next := sanitizeRedirectPath(input.Next, ""); next != "" {
		target += "?next=" + url.QueryEscape(next)
	}
	return c.Redirect(target, fiber.StatusSeeOther)
}
