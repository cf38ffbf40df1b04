package models

import "time"

type ShakeMode string

const (
	ShakeWith    ShakeMode = "with"
	ShakeWithout ShakeMode = "without"
)

type CupAmount string

const (
	CupOne  CupAmount = "one_cup"
	CupHalf CupAmount = "half_cup"
)

type IntervalMode string

const (
	IntervalHourly   IntervalMode = "hourly"
	IntervalDaily    IntervalMode = "daily"
	IntervalMealTime IntervalMode = "meal-time"
)

type MealTime string

const (
	MealNone             MealTime = "none"
	MealMorning          MealTime = "morning"
	MealNoon             MealTime = "noon"
	MealAfternoon        MealTime = "afternoon"
	MealNight            MealTime = "night"
	MealMorningNight     MealTime = "morning-night"
	MealMorningAfternoon MealTime = "morning-afternoon"
)

const (
	MixtureOneSpoon   = "১ চামচ ঔষধ"
	MixtureTwoSpoons  = "২ চামচ ঔষধ"
	MixtureThreeSpoon = "৩ চামচ ঔষধ"
	MixtureAll        = "সবটুকু ঔষধ"
)

const (
	MinLabelCount = 1
	MaxLabelCount = 100
)

// LabelRecord is the complete state behind one printed medication label.
// Optional numeric fields are nil when unset.
type LabelRecord struct {
	Serial        string       `json:"serial"`
	PatientName   string       `json:"patientName"`
	Date          time.Time    `json:"date"`
	ShakeMode     ShakeMode    `json:"shakeMode"`
	Drops         *int         `json:"drops"`
	CupAmount     CupAmount    `json:"cupAmount"`
	ShakeCount    *int         `json:"shakeCount"`
	IntervalMode  IntervalMode `json:"intervalMode"`
	Interval      *int         `json:"interval"`
	MealTime      MealTime     `json:"mealTime"`
	MixtureAmount string       `json:"mixtureAmount"`
	DurationDays  *int         `json:"durationDays"`
	Counseling    []string     `json:"counseling"`
	LabelCount    int          `json:"labelCount"`
	FollowUpDays  *int         `json:"followUpDays"`
}

func (record LabelRecord) Clone() LabelRecord {
	cloned := record
	cloned.Drops = cloneInt(record.Drops)
	cloned.ShakeCount = cloneInt(record.ShakeCount)
	cloned.Interval = cloneInt(record.Interval)
	cloned.DurationDays = cloneInt(record.DurationDays)
	cloned.FollowUpDays = cloneInt(record.FollowUpDays)
	cloned.Counseling = append([]string(nil), record.Counseling...)
	return cloned
}

func IsValidShakeMode(value ShakeMode) bool {
	return value == ShakeWith || value == ShakeWithout
}

func IsValidCupAmount(value CupAmount) bool {
	return value == CupOne || value == CupHalf
}

func IsValidIntervalMode(value IntervalMode) bool {
	switch value {
	case IntervalHourly, IntervalDaily, IntervalMealTime:
		return true
	default:
		return false
	}
}

func IsValidMealTime(value MealTime) bool {
	switch value {
	case MealNone, MealMorning, MealNoon, MealAfternoon, MealNight, MealMorningNight, MealMorningAfternoon:
		return true
	default:
		return false
	}
}

func MixtureAmounts() []string {
	return []string{MixtureOneSpoon, MixtureTwoSpoons, MixtureThreeSpoon, MixtureAll}
}

func IsValidMixtureAmount(value string) bool {
	for _, candidate := range MixtureAmounts() {
		if candidate == value {
			return true
		}
	}
	return false
}

func IntPtr(value int) *int {
	return &value
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}
