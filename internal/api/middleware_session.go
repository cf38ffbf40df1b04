package api

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type sessionClaims struct {
	Workspace string `json:"ws"`
	Operator  bool   `json:"op,omitempty"`
	jwt.RegisteredClaims
}

// SessionMiddleware attaches the browser's workspace, opening a fresh one
// when the session cookie is missing or no longer verifies.
func (handler *Handler) SessionMiddleware(c *fiber.Ctx) error {
	session, err := handler.parseSessionCookie(c.Cookies(sessionCookieName))
	if err != nil {
		session = labelSession{Workspace: uuid.NewString()}
		if err := handler.setSessionCookie(c, session); err != nil {
			handler.logger.Error("issue session cookie", "err", err)
			return apiError(c, fiber.StatusInternalServerError, "internal")
		}
	}
	c.Locals(contextSessionKey, session)
	return c.Next()
}

// OperatorRequired only guards routes when operator login is configured.
func (handler *Handler) OperatorRequired(c *fiber.Ctx) error {
	if !handler.operators.Enabled() {
		return c.Next()
	}
	if session, ok := currentSession(c); ok && session.Operator {
		return c.Next()
	}

	if strings.HasPrefix(c.Path(), "/api/") || acceptsJSON(c) {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	loginPath := "/login?next=" + url.QueryEscape(currentPathWithQuery(c))
	if isHTMX(c) {
		c.Set("HX-Redirect", loginPath)
		return c.SendStatus(fiber.StatusUnauthorized)
	}
	return c.Redirect(loginPath, fiber.StatusSeeOther)
}

func (handler *Handler) parseSessionCookie(raw string) (labelSession, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return labelSession{}, errors.New("missing session")
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		return handler.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return labelSession{}, errors.New("invalid session")
	}
	if _, err := uuid.Parse(claims.Workspace); err != nil {
		return labelSession{}, errors.New("invalid workspace")
	}
	return labelSession{Workspace: claims.Workspace, Operator: claims.Operator}, nil
}

func (handler *Handler) setSessionCookie(c *fiber.Ctx, session labelSession) error {
	token, err := handler.buildSessionToken(session)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  time.Now().Add(handler.sessionTTL),
	})
	c.Locals(contextSessionKey, session)
	return nil
}

func (handler *Handler) buildSessionToken(session labelSession) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Workspace: session.Workspace,
		Operator:  session.Operator,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.Workspace,
			ExpiresAt: jwt.NewNumericDate(now.Add(handler.sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(handler.secretKey)
}
