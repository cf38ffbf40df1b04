package api

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (handler *Handler) render(c *fiber.Ctx, name string, data fiber.Map) error {
	tmpl, ok := handler.templates[name]
	if !ok {
		return c.Status(fiber.StatusInternalServerError).SendString("template not found")
	}
	var output bytes.Buffer
	if err := tmpl.ExecuteTemplate(&output, "base", handler.withTemplateDefaults(c, data)); err != nil {
		handler.logger.Error("render page", "page", name, "err", err)
		return c.Status(fiber.StatusInternalServerError).SendString("failed to render template")
	}
	c.Type("html", "utf-8")
	return c.Send(output.Bytes())
}

func (handler *Handler) renderPartial(c *fiber.Ctx, name string, data fiber.Map) error {
	tmpl, ok := handler.partials[name]
	if !ok {
		return c.Status(fiber.StatusInternalServerError).SendString("partial not found")
	}
	var output bytes.Buffer
	if err := tmpl.ExecuteTemplate(&output, name, handler.withTemplateDefaults(c, data)); err != nil {
		handler.logger.Error("render partial", "partial", name, "err", err)
		return c.Status(fiber.StatusInternalServerError).SendString("failed to render partial")
	}
	c.Type("html", "utf-8")
	return c.Send(output.Bytes())
}

// serviceError logs unexpected failures and answers with the mapped code.
func (handler *Handler) serviceError(c *fiber.Ctx, err error) error {
	status, code := classifyServiceError(err)
	if status >= fiber.StatusInternalServerError {
		handler.logger.Error("request failed", "method", c.Method(), "path", c.Path(), "err", err)
	}
	return apiError(c, status, code)
}
