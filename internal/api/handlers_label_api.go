package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/dosalabel/internal/models"
	"github.com/terraincognita07/dosalabel/internal/services"
)

type labelResponse struct {
	Label           models.LabelRecord  `json:"label"`
	Instruction     services.RichText   `json:"instruction"`
	InstructionText string              `json:"instruction_text"`
	CounselingLines []services.RichText `json:"counseling_lines"`
}

func (handler *Handler) labelResponse(record models.LabelRecord) labelResponse {
	instruction := services.RenderInstruction(record)
	return labelResponse{
		Label:           record,
		Instruction:     instruction,
		InstructionText: instruction.PlainText(),
		CounselingLines: services.BuildCounselingLines(record.Counseling),
	}
}

func (handler *Handler) GetLabel(c *fiber.Ctx) error {
	record, err := handler.labels.Load(c.UserContext(), currentWorkspace(c))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(handler.labelResponse(record))
}

func (handler *Handler) PatchLabel(c *fiber.Ctx) error {
	update, err := parseLabelUpdate(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid_input")
	}
	record, err := handler.labels.Update(c.UserContext(), currentWorkspace(c), update)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(handler.labelResponse(record))
}

func (handler *Handler) DeleteLabel(c *fiber.Ctx) error {
	record, err := handler.labels.Reset(c.UserContext(), currentWorkspace(c))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(handler.labelResponse(record))
}

func (handler *Handler) GetInstruction(c *fiber.Ctx) error {
	record, err := handler.labels.Load(c.UserContext(), currentWorkspace(c))
	if err != nil {
		return handler.serviceError(c, err)
	}
	instruction := services.RenderInstruction(record)
	return c.JSON(fiber.Map{
		"instruction": instruction,
		"text":        instruction.PlainText(),
		"emphasized":  instruction.EmphasizedTexts(),
	})
}

func (handler *Handler) GetPreviews(c *fiber.Ctx) error {
	_, previews, err := handler.labels.Previews(c.UserContext(), currentWorkspace(c))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"previews": previews})
}

func (handler *Handler) GetCounselingOptions(c *fiber.Ctx) error {
	record, err := handler.labels.Load(c.UserContext(), currentWorkspace(c))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"predefined": services.PredefinedCounseling(),
		"available":  services.AvailableCounselingOptions(record.Counseling),
	})
}

func (handler *Handler) AddCounseling(c *fiber.Ctx) error {
	input := counselingInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid_input")
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
		return handler.serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(handler.labelResponse(record))
}

func (handler *Handler) DeleteCounseling(c *fiber.Ctx) error {
	index, err := parseCounselingIndex(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid_input")
	}
	record, err := handler.labels.RemoveCounseling(c.UserContext(), currentWorkspace(c), index)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(handler.labelResponse(record))
}

func (handler *Handler) StartDictation(c *fiber.Ctx) error {
	result, err := handler.dictation.Start(c.UserContext(), currentWorkspace(c))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"session_id":      result.SessionID,
		"patient_name":    result.PatientName,
		"active":          result.Active,
		"locale":          handler.dictationLocale,
		"silence_timeout": handler.dictationSilence.Milliseconds(),
	})
}

// DictationStatus lets a reloaded page find out whether a session is still
// listening for its workspace.
func (handler *Handler) DictationStatus(c *fiber.Ctx) error {
	workspace := currentWorkspace(c)
	record, err := handler.labels.Load(c.UserContext(), workspace)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"active":       handler.dictation.IsActive(workspace),
		"patient_name": record.PatientName,
	})
}

func (handler *Handler) PushDictation(c *fiber.Ctx) error {
	input := dictationInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid_input")
	}
	result, err := handler.dictation.Push(c.UserContext(), currentWorkspace(c), input.SessionID, input.Events)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(result)
}

func (handler *Handler) StopDictation(c *fiber.Ctx) error {
	result, err := handler.dictation.Stop(c.UserContext(), currentWorkspace(c))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(result)
}

// FailDictation closes the session after a browser recognition error. The
// committed name is returned even when the error is reported.
func (handler *Handler) FailDictation(c *fiber.Ctx) error {
	input := dictationInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid_input")
	}
	result, err := handler.dictation.Fail(c.UserContext(), currentWorkspace(c), input.SessionID, input.Code)
	if errors.Is(err, services.ErrDictationPermission) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":        "dictation_permission",
			"patient_name": result.PatientName,
			"active":       false,
		})
	}
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(result)
}
