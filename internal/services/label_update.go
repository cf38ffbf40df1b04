package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/terraincognita07/dosalabel/internal/models"
)

const (
	MaxSerialLength      = 64
	MaxPatientNameLength = 120
	labelInputDateLayout = "2006-01-02"
)

var ErrInvalidLabelField = errors.New("invalid label field")

// LabelUpdate carries raw operator input; nil fields are left untouched.
type LabelUpdate struct {
	Serial        *string
	PatientName   *string
	Date          *string
	ShakeMode     *string
	Drops         *string
	CupAmount     *string
	ShakeCount    *string
	IntervalMode  *string
	Interval      *string
	MealTime      *string
	MixtureAmount *string
	DurationDays  *string
	LabelCount    *string
	FollowUpDays  *string
}

func (update LabelUpdate) IsEmpty() bool {
	return update == LabelUpdate{}
}

// ApplyLabelUpdate returns a copy of record with the update applied. Numeric
// input never fails: unusable values clear the field (or reset labelCount to
// 1). Enumerations and dates are validated.
func ApplyLabelUpdate(record models.LabelRecord, update LabelUpdate, location *time.Location) (models.LabelRecord, error) {
	next := record.Clone()
	if location == nil {
		location = time.Local
	}

	if update.Serial != nil {
		next.Serial = truncateRunes(strings.TrimSpace(*update.Serial), MaxSerialLength)
	}
	if update.PatientName != nil {
		next.PatientName = truncateRunes(*update.PatientName, MaxPatientNameLength)
	}
	if update.Date != nil {
		parsed, err := time.ParseInLocation(labelInputDateLayout, strings.TrimSpace(*update.Date), location)
		if err != nil {
			return record, invalidLabelField("date")
		}
		next.Date = parsed
	}
	if update.ShakeMode != nil {
		mode := models.ShakeMode(strings.TrimSpace(*update.ShakeMode))
		if !models.IsValidShakeMode(mode) {
			return record, invalidLabelField("shakeMode")
		}
		next.ShakeMode = mode
	}
	if update.CupAmount != nil {
		amount := models.CupAmount(strings.TrimSpace(*update.CupAmount))
		if !models.IsValidCupAmount(amount) {
			return record, invalidLabelField("cupAmount")
		}
		next.CupAmount = amount
	}
	if update.MixtureAmount != nil {
		amount := strings.TrimSpace(*update.MixtureAmount)
		if !models.IsValidMixtureAmount(amount) {
			return record, invalidLabelField("mixtureAmount")
		}
		next.MixtureAmount = amount
	}
	if update.IntervalMode != nil {
		mode := models.IntervalMode(strings.TrimSpace(*update.IntervalMode))
		if !models.IsValidIntervalMode(mode) {
			return record, invalidLabelField("intervalMode")
		}
		applyIntervalMode(&next, mode)
	}
	// A mode switch picks its own meal time; a meal time posted alongside it
	// is the stale value of the previous mode.
	modeChanged := next.IntervalMode != record.IntervalMode
	if update.MealTime != nil && !modeChanged && next.IntervalMode == models.IntervalMealTime {
		mealTime := models.MealTime(strings.TrimSpace(*update.MealTime))
		if !models.IsValidMealTime(mealTime) {
			return record, invalidLabelField("mealTime")
		}
		next.MealTime = mealTime
	}
	if update.Interval != nil && next.IntervalMode != models.IntervalMealTime {
		next.Interval = parseOptionalCount(*update.Interval)
	}

	if update.Drops != nil {
		next.Drops = parseOptionalCount(*update.Drops)
	}
	if update.ShakeCount != nil {
		next.ShakeCount = parseOptionalCount(*update.ShakeCount)
	}
	if update.DurationDays != nil {
		next.DurationDays = parseOptionalCount(*update.DurationDays)
	}
	if update.LabelCount != nil {
		next.LabelCount = models.MinLabelCount
		if value, ok := ParseCount(*update.LabelCount); ok {
			next.LabelCount = ClampLabelCount(value)
		}
	}
	if update.FollowUpDays != nil {
		next.FollowUpDays = parseOptionalCount(*update.FollowUpDays)
		if !sameOptionalInt(record.FollowUpDays, next.FollowUpDays) {
			next.Counseling, _ = ReconcileFollowUp(next.Counseling, next.FollowUpDays)
		}
	}

	return next, nil
}

// applyIntervalMode switches frequency mode. Entering meal-time mode starts
// from "morning" and drops the numeric interval; leaving it resets the meal
// time.
func applyIntervalMode(record *models.LabelRecord, mode models.IntervalMode) {
	if record.IntervalMode == mode {
		return
	}
	record.IntervalMode = mode
	if mode == models.IntervalMealTime {
		record.MealTime = models.MealMorning
		record.Interval = nil
		return
	}
	record.MealTime = models.MealNone
}

func parseOptionalCount(raw string) *int {
	value, ok := ParseCount(raw)
	if !ok {
		return nil
	}
	return models.IntPtr(value)
}

func sameOptionalInt(left *int, right *int) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}
	return *left == *right
}

func truncateRunes(value string, limit int) string {
	if utf8.RuneCountInString(value) <= limit {
		return value
	}
	return string([]rune(value)[:limit])
}

func invalidLabelField(field string) error {
	return fmt.Errorf("%w: %s", ErrInvalidLabelField, field)
}
