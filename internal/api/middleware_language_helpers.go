package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const languageCookieLifetime = 365 * 24 * time.Hour

// LanguageMiddleware picks the interface language for the request. Printed
// label text is always Bengali; only the editor chrome and card captions
// follow this choice.
func (handler *Handler) LanguageMiddleware(c *fiber.Ctx) error {
	language, stale := handler.requestLanguage(c)
	if stale {
		handler.setLanguageCookie(c, language)
	}

	c.Set(fiber.HeaderContentLanguage, language)
	c.Vary(fiber.HeaderAcceptLanguage)
	c.Locals(contextLanguageKey, language)
	c.Locals(contextMessagesKey, handler.i18n.Messages(language))
	return c.Next()
}

// requestLanguage prefers the operator's saved choice over the browser
// header. stale reports a saved cookie that no longer names a supported
// language; header detection alone is never persisted.
func (handler *Handler) requestLanguage(c *fiber.Ctx) (language string, stale bool) {
	saved := c.Cookies(languageCookieName)
	if saved == "" {
		return handler.i18n.DetectFromAcceptLanguage(c.Get(fiber.HeaderAcceptLanguage)), false
	}
	language = handler.i18n.NormalizeLanguage(saved)
	return language, language != saved
}

func (handler *Handler) setLanguageCookie(c *fiber.Ctx, language string) {
	c.Cookie(&fiber.Cookie{
		Name:     languageCookieName,
		Value:    language,
		Path:     "/",
		Secure:   handler.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(languageCookieLifetime),
	})
}

// SetLanguage saves an explicit choice from the language switcher and
// returns to the page it was made on.
func (handler *Handler) SetLanguage(c *fiber.Ctx) error {
	handler.setLanguageCookie(c, handler.i18n.NormalizeLanguage(c.Params("lang")))

	next := sanitizeRedirectPath(c.Query("next"), "/")
	if isHTMX(c) {
		c.Set("HX-Redirect", next)
		return c.SendStatus(fiber.StatusOK)
	}
	return c.Redirect(next, fiber.StatusSeeOther)
}
