package api

import "github.com/gofiber/fiber/v2"

const (
	sessionCookieName  = "dosalabel_session"
	languageCookieName = "dosalabel_lang"
	flashCookieName    = "dosalabel_flash"
	contextSessionKey  = "current_session"
	contextLanguageKey = "current_language"
	contextMessagesKey = "current_messages"
	csrfHeaderName     = "X-CSRF-Token"
)

// labelSession identifies the workspace a browser edits. Operator is set once
// the configured operator has logged in.
type labelSession struct {
	Workspace string
	Operator  bool
}

func currentSession(c *fiber.Ctx) (labelSession, bool) {
	session, ok := c.Locals(contextSessionKey).(labelSession)
	return session, ok && session.Workspace != ""
}

func currentWorkspace(c *fiber.Ctx) string {
	session, _ := currentSession(c)
	return session.Workspace
}
