package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/dosalabel/internal/services"
)

var errorKeys = map[string]string{
	"invalid_input":           "error.invalid_input",
	"invalid_label_field":     "error.invalid_label_field",
	"counseling_empty":        "error.counseling_empty",
	"counseling_too_long":     "error.counseling_too_long",
	"counseling_duplicate":    "error.counseling_duplicate",
	"counseling_unknown":      "error.counseling_unknown",
	"counseling_follow_up":    "error.counseling_follow_up",
	"counseling_not_found":    "error.counseling_not_found",
	"dictation_inactive":      "error.dictation_inactive",
	"dictation_permission":    "error.dictation_permission",
	"invalid_credentials":     "error.invalid_credentials",
	"login_disabled":          "error.login_disabled",
	"too_many_login_attempts": "error.too_many_login_attempts",
	"unauthorized":            "error.unauthorized",
	"not_found":               "error.not_found",
	"internal":                "error.internal",
}

// serviceErrors maps service failures to an HTTP status and error code.
var serviceErrors = []struct {
	target error
	status int
	code   string
}{
	{services.ErrInvalidLabelField, fiber.StatusBadRequest, "invalid_label_field"},
	{services.ErrCounselingEmpty, fiber.StatusBadRequest, "counseling_empty"},
	{services.ErrCounselingTooLong, fiber.StatusBadRequest, "counseling_too_long"},
	{services.ErrCounselingDuplicate, fiber.StatusConflict, "counseling_duplicate"},
	{services.ErrCounselingUnknownPhrase, fiber.StatusBadRequest, "counseling_unknown"},
	{services.ErrCounselingFollowUpManaged, fiber.StatusBadRequest, "counseling_follow_up"},
	{services.ErrCounselingIndexOutOfRange, fiber.StatusNotFound, "counseling_not_found"},
	{services.ErrDictationInactive, fiber.StatusConflict, "dictation_inactive"},
	{services.ErrDictationPermission, fiber.StatusForbidden, "dictation_permission"},
	{services.ErrInvalidCredentials, fiber.StatusUnauthorized, "invalid_credentials"},
	{services.ErrOperatorLoginOff, fiber.StatusNotFound, "login_disabled"},
}

func classifyServiceError(err error) (int, string) {
	for _, candidate := range serviceErrors {
		if errors.Is(err, candidate.target) {
			return candidate.status, candidate.code
		}
	}
	return fiber.StatusInternalServerError, "internal"
}

func translateMessage(messages map[string]string, key string) string {
	if key == "" {
		return ""
	}
	if messages != nil {
		if value, ok := messages[key]; ok && strings.TrimSpace(value) != "" {
			return value
		}
	}
	return key
}

func errorTranslationKey(code string) string {
	key, ok := errorKeys[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return errorKeys["internal"]
	}
	return key
}

func currentLanguage(c *fiber.Ctx) string {
	language, ok := c.Locals(contextLanguageKey).(string)
	if !ok || strings.TrimSpace(language) == "" {
		return ""
	}
	return language
}

func currentMessages(c *fiber.Ctx) map[string]string {
	messages, ok := c.Locals(contextMessagesKey).(map[string]string)
	if !ok || messages == nil {
		return map[string]string{}
	}
	return messages
}

func (handler *Handler) withTemplateDefaults(c *fiber.Ctx, data fiber.Map) fiber.Map {
	if data == nil {
		data = fiber.Map{}
	}

	if _, ok := data["Messages"]; !ok {
		data["Messages"] = currentMessages(c)
	}
	if _, ok := data["Lang"]; !ok {
		language := currentLanguage(c)
		if language == "" {
			language = handler.i18n.DefaultLanguage()
		}
		data["Lang"] = language
	}
	if _, ok := data["Languages"]; !ok {
		data["Languages"] = handler.i18n.SupportedLanguages()
	}
	if _, ok := data["CurrentPath"]; !ok {
		data["CurrentPath"] = currentPathWithQuery(c)
	}
	if _, ok := data["CSRFToken"]; !ok {
		data["CSRFToken"] = csrfToken(c)
	}
	if _, ok := data["LoginEnabled"]; !ok {
		data["LoginEnabled"] = handler.operators.Enabled()
	}
	if _, ok := data["IsOperator"]; !ok {
		session, _ := currentSession(c)
		data["IsOperator"] = session.Operator
	}
	return data
}
