package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/terraincognita07/dosalabel/internal/models"
)

var ErrCorruptLabelState = errors.New("corrupt label state")

// RawLabelRecord is a persisted record as found in storage. Every field is
// kept raw so that absent keys, explicit nulls and wrongly typed values can
// be told apart during normalization.
type RawLabelRecord struct {
	Serial        json.RawMessage `json:"serial"`
	PatientName   json.RawMessage `json:"patientName"`
	Date          json.RawMessage `json:"date"`
	ShakeMode     json.RawMessage `json:"shakeMode"`
	Drops         json.RawMessage `json:"drops"`
	CupAmount     json.RawMessage `json:"cupAmount"`
	ShakeCount    json.RawMessage `json:"shakeCount"`
	IntervalMode  json.RawMessage `json:"intervalMode"`
	Interval      json.RawMessage `json:"interval"`
	MealTime      json.RawMessage `json:"mealTime"`
	MixtureAmount json.RawMessage `json:"mixtureAmount"`
	DurationDays  json.RawMessage `json:"durationDays"`
	Counseling    json.RawMessage `json:"counseling"`
	LabelCount    json.RawMessage `json:"labelCount"`
	FollowUpDays  json.RawMessage `json:"followUpDays"`
}

var supportedDateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}

// DecodeLabelRecord parses a stored payload. Empty or unparsable payloads
// yield the default record; unparsable ones also return ErrCorruptLabelState.
func DecodeLabelRecord(payload []byte, defaults LabelDefaults, now time.Time) (models.LabelRecord, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return NewDefaultLabelRecord(defaults, now), nil
	}

	raw := RawLabelRecord{}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return NewDefaultLabelRecord(defaults, now), errors.Join(ErrCorruptLabelState, err)
	}
	return NormalizeLabelRecord(raw, defaults, now), nil
}

func NormalizeLabelRecord(raw RawLabelRecord, defaults LabelDefaults, now time.Time) models.LabelRecord {
	record := models.LabelRecord{
		Serial:        rawString(raw.Serial, defaults.Serial),
		PatientName:   rawString(raw.PatientName, ""),
		Date:          rawDate(raw.Date, now),
		ShakeMode:     models.ShakeMode(rawString(raw.ShakeMode, "")),
		Drops:         rawOptionalCount(raw.Drops, defaults.Drops),
		CupAmount:     models.CupAmount(rawString(raw.CupAmount, "")),
		ShakeCount:    rawOptionalCount(raw.ShakeCount, defaults.ShakeCount),
		IntervalMode:  models.IntervalMode(rawString(raw.IntervalMode, "")),
		Interval:      rawOptionalCount(raw.Interval, defaults.Interval),
		MealTime:      models.MealTime(rawString(raw.MealTime, "")),
		MixtureAmount: rawString(raw.MixtureAmount, ""),
		DurationDays:  rawOptionalCount(raw.DurationDays, defaults.DurationDays),
		Counseling:    rawStringList(raw.Counseling),
		LabelCount:    rawLabelCount(raw.LabelCount, defaults.LabelCount),
		FollowUpDays:  rawOptionalCount(raw.FollowUpDays, defaults.FollowUpDays),
	}

	if !models.IsValidShakeMode(record.ShakeMode) {
		record.ShakeMode = defaults.ShakeMode
	}
	if !models.IsValidCupAmount(record.CupAmount) {
		record.CupAmount = defaults.CupAmount
	}
	if !models.IsValidIntervalMode(record.IntervalMode) {
		record.IntervalMode = defaults.IntervalMode
	}
	if !models.IsValidMealTime(record.MealTime) {
		record.MealTime = defaults.MealTime
	}
	if !models.IsValidMixtureAmount(record.MixtureAmount) {
		record.MixtureAmount = defaults.MixtureAmount
	}
	if len(record.Counseling) == 0 {
		record.Counseling = append([]string(nil), defaults.Counseling...)
	}

	record.Counseling, _ = ReconcileFollowUp(record.Counseling, record.FollowUpDays)
	return record
}

// ParseCount reads operator input as a positive count. Bengali digits are
// accepted; anything empty, non-numeric or below 1 is reported as unset.
func ParseCount(value string) (int, bool) {
	normalized := strings.TrimSpace(FromBanglaNumerals(value))
	if normalized == "" {
		return 0, false
	}
	parsed, err := strconv.Atoi(normalized)
	if err != nil {
		floatValue, floatErr := strconv.ParseFloat(normalized, 64)
		if floatErr != nil || math.IsNaN(floatValue) || math.IsInf(floatValue, 0) {
			return 0, false
		}
		if floatValue >= math.MaxInt32 {
			return 0, false
		}
		parsed = int(floatValue)
	}
	if parsed < 1 {
		return 0, false
	}
	return parsed, true
}

func FromBanglaNumerals(text string) string {
	return banglaToASCIIDigitReplacer.Replace(text)
}

var banglaToASCIIDigitReplacer = strings.NewReplacer(
	"০", "0",
	"১", "1",
	"২", "2",
	"৩", "3",
	"৪", "4",
	"৫", "5",
	"৬", "6",
	"৭", "7",
	"৮", "8",
	"৯", "9",
)

func isAbsent(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func rawString(raw json.RawMessage, fallback string) string {
	if isAbsent(raw) || isNull(raw) {
		return fallback
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return fallback
	}
	return value
}

func rawDate(raw json.RawMessage, now time.Time) time.Time {
	value := strings.TrimSpace(rawString(raw, ""))
	if value == "" {
		return now
	}
	for _, layout := range supportedDateLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed
		}
	}
	return now
}

// rawOptionalCount treats an absent key as "use the default" and an explicit
// null or invalid value as unset.
func rawOptionalCount(raw json.RawMessage, fallback int) *int {
	if isAbsent(raw) {
		return positiveOrNil(fallback)
	}
	value, ok := rawCount(raw)
	if !ok {
		return nil
	}
	return models.IntPtr(value)
}

func rawLabelCount(raw json.RawMessage, fallback int) int {
	if isAbsent(raw) {
		return ClampLabelCount(fallback)
	}
	value, ok := rawCount(raw)
	if !ok {
		return models.MinLabelCount
	}
	return ClampLabelCount(value)
}

func rawCount(raw json.RawMessage) (int, bool) {
	if isNull(raw) {
		return 0, false
	}
	var number float64
	if err := json.Unmarshal(raw, &number); err == nil {
		if number < 1 || number >= math.MaxInt32 {
			return 0, false
		}
		return int(number), true
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return ParseCount(text)
	}
	return 0, false
}

func rawStringList(raw json.RawMessage) []string {
	if isAbsent(raw) || isNull(raw) {
		return nil
	}
	items := make([]json.RawMessage, 0)
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	result := make([]string, 0, len(items))
	for _, item := range items {
		var text string
		if err := json.Unmarshal(item, &text); err != nil {
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		result = append(result, text)
	}
	return result
}
