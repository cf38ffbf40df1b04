package services

import (
	"time"

	"github.com/terraincognita07/dosalabel/internal/models"
)

const DefaultSerialPrefix = "F/"

var defaultCounseling = []string{
	"• ঔষধ সেবনকালীন যাবতীয় ঔষধি নিষিদ্ধ।",
	"• ঔষধ সেবনের আধা ঘন্টা আগে-পরে জল ব্যতিত কোন খাবার খাবেন না।",
	"• জরুরী প্রয়োজনে বিকাল <strong>৫টা</strong> থেকে <strong>৭টার</strong> মধ্যে ফোন করুন।",
}

// LabelDefaults holds the value every missing or invalid field falls back to.
type LabelDefaults struct {
	Serial        string
	ShakeMode     models.ShakeMode
	Drops         int
	CupAmount     models.CupAmount
	ShakeCount    int
	IntervalMode  models.IntervalMode
	Interval      int
	MealTime      models.MealTime
	MixtureAmount string
	DurationDays  int
	Counseling    []string
	LabelCount    int
	FollowUpDays  int
}

func DefaultLabelDefaults() LabelDefaults {
	return LabelDefaults{
		Serial:        DefaultSerialPrefix,
		ShakeMode:     models.ShakeWith,
		Drops:         3,
		CupAmount:     models.CupOne,
		ShakeCount:    10,
		IntervalMode:  models.IntervalHourly,
		Interval:      12,
		MealTime:      models.MealNone,
		MixtureAmount: models.MixtureOneSpoon,
		DurationDays:  7,
		Counseling:    DefaultCounseling(),
		LabelCount:    1,
		FollowUpDays:  7,
	}
}

func DefaultCounseling() []string {
	return append([]string(nil), defaultCounseling...)
}

// NewDefaultLabelRecord builds the record shown on first load and after reset.
func NewDefaultLabelRecord(defaults LabelDefaults, now time.Time) models.LabelRecord {
	record := models.LabelRecord{
		Serial:        defaults.Serial,
		Date:          now,
		ShakeMode:     defaults.ShakeMode,
		Drops:         positiveOrNil(defaults.Drops),
		CupAmount:     defaults.CupAmount,
		ShakeCount:    positiveOrNil(defaults.ShakeCount),
		IntervalMode:  defaults.IntervalMode,
		Interval:      positiveOrNil(defaults.Interval),
		MealTime:      defaults.MealTime,
		MixtureAmount: defaults.MixtureAmount,
		DurationDays:  positiveOrNil(defaults.DurationDays),
		Counseling:    append([]string(nil), defaults.Counseling...),
		LabelCount:    ClampLabelCount(defaults.LabelCount),
		FollowUpDays:  positiveOrNil(defaults.FollowUpDays),
	}
	record.Counseling, _ = ReconcileFollowUp(record.Counseling, record.FollowUpDays)
	return record
}

func ClampLabelCount(value int) int {
	if value < models.MinLabelCount {
		return models.MinLabelCount
	}
	if value > models.MaxLabelCount {
		return models.MaxLabelCount
	}
	return value
}

func positiveOrNil(value int) *int {
	if value < 1 {
		return nil
	}
	return models.IntPtr(value)
}
