package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/dosalabel/internal/services"
)

var errInvalidInput = errors.New("invalid input")

// labelFields binds request field names to the update slot they fill.
var labelFields = []struct {
	name string
	slot func(update *services.LabelUpdate) **string
}{
	{"serial", func(update *services.LabelUpdate) **string { return &update.Serial }},
	{"patientName", func(update *services.LabelUpdate) **string { return &update.PatientName }},
	{"date", func(update *services.LabelUpdate) **string { return &update.Date }},
	{"shakeMode", func(update *services.LabelUpdate) **string { return &update.ShakeMode }},
	{"drops", func(update *services.LabelUpdate) **string { return &update.Drops }},
	{"cupAmount", func(update *services.LabelUpdate) **string { return &update.CupAmount }},
	{"shakeCount", func(update *services.LabelUpdate) **string { return &update.ShakeCount }},
	{"intervalMode", func(update *services.LabelUpdate) **string { return &update.IntervalMode }},
	{"interval", func(update *services.LabelUpdate) **string { return &update.Interval }},
	{"mealTime", func(update *services.LabelUpdate) **string { return &update.MealTime }},
	{"mixtureAmount", func(update *services.LabelUpdate) **string { return &update.MixtureAmount }},
	{"durationDays", func(update *services.LabelUpdate) **string { return &update.DurationDays }},
	{"labelCount", func(update *services.LabelUpdate) **string { return &update.LabelCount }},
	{"followUpDays", func(update *services.LabelUpdate) **string { return &update.FollowUpDays }},
}

// parseLabelUpdate reads only the fields present in the request, from a JSON
// object or from form values.
func parseLabelUpdate(c *fiber.Ctx) (services.LabelUpdate, error) {
	if isJSONRequest(c) {
		return labelUpdateFromJSON(c.Body())
	}
	return labelUpdateFromForm(c), nil
}

func labelUpdateFromForm(c *fiber.Ctx) services.LabelUpdate {
	update := services.LabelUpdate{}
	args := c.Request().PostArgs()
	for _, field := range labelFields {
		if !args.Has(field.name) {
			continue
		}
		value := string(args.Peek(field.name))
		*field.slot(&update) = &value
	}
	return update
}

// labelUpdateFromJSON accepts strings or numbers per field. null clears an
// optional value.
func labelUpdateFromJSON(body []byte) (services.LabelUpdate, error) {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return services.LabelUpdate{}, errInvalidInput
	}

	update := services.LabelUpdate{}
	for _, field := range labelFields {
		value, ok := raw[field.name]
		if !ok {
			continue
		}
		text, err := jsonFieldText(value)
		if err != nil {
			return services.LabelUpdate{}, errInvalidInput
		}
		*field.slot(&update) = &text
	}
	return update, nil
}

func jsonFieldText(value json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(value)
	if bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}

	var text string
	if err := json.Unmarshal(trimmed, &text); err == nil {
		return text, nil
	}
	var number json.Number
	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()
	if err := decoder.Decode(&number); err != nil {
		return "", err
	}
	if integer, err := number.Int64(); err == nil {
		return strconv.FormatInt(integer, 10), nil
	}
	return number.String(), nil
}

type counselingInput struct {
	Phrase string `json:"phrase" form:"phrase"`
	Text   string `json:"text" form:"text"`
}

func (input counselingInput) isPredefined() bool {
	return strings.TrimSpace(input.Phrase) != ""
}

func parseCounselingIndex(c *fiber.Ctx) (int, error) {
	index, err := strconv.Atoi(strings.TrimSpace(c.Params("index")))
	if err != nil || index < 0 {
		return 0, errInvalidInput
	}
	return index, nil
}

type dictationInput struct {
	SessionID string                    `json:"session_id"`
	Events    []services.DictationEvent `json:"events"`
	Code      string                    `json:"code"`
}
