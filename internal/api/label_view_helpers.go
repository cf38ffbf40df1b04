package api

import (
	"github.com/terraincognita07/dosalabel/internal/models"
	"github.com/terraincognita07/dosalabel/internal/services"
)

type labelPageView struct {
	Record      models.LabelRecord
	Instruction services.RichText
	Previews    []services.LabelPreview
	Counseling  []counselingItem
	Options     []counselingOption
	Clinic      services.ClinicIdentity

	ShakeModes     []choiceOption
	CupAmounts     []choiceOption
	IntervalModes  []choiceOption
	MealTimes      []choiceOption
	MixtureAmounts []string

	MinLabelCount int
	MaxLabelCount int

	DictationLocale    string
	DictationSilenceMs int64
}

type counselingItem struct {
	Index    int
	Text     services.RichText
	FollowUp bool
}

type counselingOption struct {
	Value string
	Text  string
}

// choiceOption pairs a stored enum value with its message key.
type choiceOption struct {
	Value string
	Key   string
}

var shakeModeChoices = []choiceOption{
	{Value: string(models.ShakeWith), Key: "label.shake_mode.with"},
	{Value: string(models.ShakeWithout), Key: "label.shake_mode.without"},
}

var cupAmountChoices = []choiceOption{
	{Value: string(models.CupOne), Key: "label.cup.one"},
	{Value: string(models.CupHalf), Key: "label.cup.half"},
}

var intervalModeChoices = []choiceOption{
	{Value: string(models.IntervalHourly), Key: "label.interval_mode.hourly"},
	{Value: string(models.IntervalDaily), Key: "label.interval_mode.daily"},
	{Value: string(models.IntervalMealTime), Key: "label.interval_mode.meal_time"},
}

var mealTimeChoices = []choiceOption{
	{Value: string(models.MealMorning), Key: "label.meal_time.morning"},
	{Value: string(models.MealNoon), Key: "label.meal_time.noon"},
	{Value: string(models.MealAfternoon), Key: "label.meal_time.afternoon"},
	{Value: string(models.MealNight), Key: "label.meal_time.night"},
	{Value: string(models.MealMorningNight), Key: "label.meal_time.morning_night"},
	{Value: string(models.MealMorningAfternoon), Key: "label.meal_time.morning_afternoon"},
}

func (handler *Handler) buildLabelPageView(record models.LabelRecord) labelPageView {
	record.Date = record.Date.In(handler.location)

	counseling := make([]counselingItem, 0, len(record.Counseling))
	for index, entry := range record.Counseling {
		counseling = append(counseling, counselingItem{
			Index:    index,
			Text:     services.ParseEmphasis(entry),
			FollowUp: services.IsFollowUpEntry(entry),
		})
	}

	available := services.AvailableCounselingOptions(record.Counseling)
	options := make([]counselingOption, 0, len(available))
	for _, phrase := range available {
		options = append(options, counselingOption{Value: phrase, Text: services.StripEmphasis(phrase)})
	}

	return labelPageView{
		Record:             record,
		Instruction:        services.RenderInstruction(record),
		Previews:           services.BuildLabelPreviews(record, handler.location),
		Counseling:         counseling,
		Options:            options,
		Clinic:             handler.clinic,
		ShakeModes:         shakeModeChoices,
		CupAmounts:         cupAmountChoices,
		IntervalModes:      intervalModeChoices,
		MealTimes:          mealTimeChoices,
		MixtureAmounts:     models.MixtureAmounts(),
		MinLabelCount:      models.MinLabelCount,
		MaxLabelCount:      models.MaxLabelCount,
		DictationLocale:    handler.dictationLocale,
		DictationSilenceMs: handler.dictationSilence.Milliseconds(),
	}
}
