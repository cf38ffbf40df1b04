package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/dosalabel/internal/models"
)

func (handler *Handler) ShowLabelPage(c *fiber.Ctx) error {
	record, err := handler.labels.Load(c.UserContext(), currentWorkspace(c))
	if err != nil {
		return handler.serviceError(c, err)
	}

	messages := currentMessages(c)
	return handler.render(c, "label", fiber.Map{
		"Title": localizedPageTitle(messages, "meta.title.label", "Dosalabel"),
		"View":  handler.buildLabelPageView(record),
		"Flash": handler.popFlashCookie(c),
	})
}

func (handler *Handler) ShowPrintPage(c *fiber.Ctx) error {
	record, err := handler.labels.Load(c.UserContext(), currentWorkspace(c))
	if err != nil {
		return handler.serviceError(c, err)
	}

	title := strings.TrimSpace(record.PatientName)
	if title == "" {
		title = localizedPageTitle(currentMessages(c), "meta.title.print", "Dosalabel | Print")
	}
	return handler.render(c, "print", fiber.Map{
		"Title":     title,
		"PrintMode": true,
		"AutoPrint": c.Query("auto") != "0",
		"View":      handler.buildLabelPageView(record),
	})
}

func (handler *Handler) PreviewsPartial(c *fiber.Ctx) error {
	record, err := handler.labels.Load(c.UserContext(), currentWorkspace(c))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return handler.renderLabelPartial(c, record)
}

func (handler *Handler) UpdateLabelForm(c *fiber.Ctx) error {
	update, err := parseLabelUpdate(c)
	if err != nil {
		return handler.labelFormError(c, err)
	}
	record, err := handler.labels.Update(c.UserContext(), currentWorkspace(c), update)
	if err != nil {
		return handler.labelFormError(c, err)
	}
	return handler.labelFormDone(c, record, "label.success.saved")
}

func (handler *Handler) ResetLabelForm(c *fiber.Ctx) error {
	if _, err := handler.labels.Reset(c.UserContext(), currentWorkspace(c)); err != nil {
		return handler.labelFormError(c, err)
	}
	handler.setFlashCookie(c, FlashPayload{LabelSuccess: "label.success.reset"})
	return redirectOrJSON(c, "/")
}

func (handler *Handler) AddCounselingForm(c *fiber.Ctx) error {
	input := counselingInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.labelFormError(c, errInvalidInput)
	}

	var (
		record models.LabelRecord
		err    error
	)
	if input.isPredefined() {
		record, err = handler.labels.AddPredefinedCounseling(c.UserContext(), currentWorkspace(c), input.Phrase)
	} else {
		record, err = handler.labels.AddCustomCounseling(c.UserContext(), currentWorkspace(c), input.Text)
	}
	if err != nil {
		return handler.labelFormError(c, err)
	}
	return handler.labelFormDone(c, record, "label.success.counseling_added")
}

func (handler *Handler) DeleteCounselingForm(c *fiber.Ctx) error {
	index, err := parseCounselingIndex(c)
	if err != nil {
		return handler.labelFormError(c, err)
	}
	record, err := handler.labels.RemoveCounseling(c.UserContext(), currentWorkspace(c), index)
	if err != nil {
		return handler.labelFormError(c, err)
	}
	return handler.labelFormDone(c, record, "label.success.counseling_removed")
}

func (handler *Handler) renderLabelPartial(c *fiber.Ctx, record models.LabelRecord) error {
	return handler.renderPartial(c, "label_previews_partial", fiber.Map{
		"View": handler.buildLabelPageView(record),
	})
}

// labelFormDone swaps the previews in place for HTMX and redirects back to
// the editor otherwise.
func (handler *Handler) labelFormDone(c *fiber.Ctx, record models.LabelRecord, successKey string) error {
	if isHTMX(c) {
		return handler.renderLabelPartial(c, record)
	}
	if acceptsJSON(c) {
		return c.JSON(handler.labelResponse(record))
	}
	handler.setFlashCookie(c, FlashPayload{LabelSuccess: successKey})
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (handler *Handler) labelFormError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusBadRequest, "invalid_input"
	if !errors.Is(err, errInvalidInput) {
		status, code = classifyServiceError(err)
	}
	if status >= fiber.StatusInternalServerError {
		handler.logger.Error("label form failed", "path", c.Path(), "err", err)
	}
	if isHTMX(c) || acceptsJSON(c) {
		return apiError(c, status, code)
	}
	handler.setFlashCookie(c, FlashPayload{LabelError: code})
	return c.Redirect("/", fiber.StatusSeeOther)
}
