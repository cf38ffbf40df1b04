package services

import (
	"strconv"
	"strings"

	"github.com/terraincognita07/dosalabel/internal/models"
)

// BlankPlaceholder stands in for any value the operator has not filled in.
const BlankPlaceholder = "___"

const (
	intervalSuffix  = " অন্তর অন্তর"
	hourUnit        = "ঘন্টা"
	dayUnit         = "দিন"
	dropsUnit       = "ফোঁটা"
	shakeUnit       = "বার"
	medicineWord    = "ঔষধ"
	wholeMixtureTag = "সবটুকু"
)

var mealTimePhrases = map[models.MealTime]string{
	models.MealMorning:          "সকালে",
	models.MealNoon:             "দুপুরে",
	models.MealAfternoon:        "বিকালে",
	models.MealNight:            "রাতে",
	models.MealMorningNight:     "সকালে ও রাতে",
	models.MealMorningAfternoon: "সকালে ও বিকালে",
}

var cupPhrases = map[models.CupAmount]string{
	models.CupOne:  "এক কাপ",
	models.CupHalf: "আধা কাপ",
}

// RenderInstruction builds the dosage sentence printed on the label. It has
// no error path: every unset value renders as BlankPlaceholder.
func RenderInstruction(record models.LabelRecord) RichText {
	builder := &richTextBuilder{}

	if record.ShakeMode == models.ShakeWith {
		builder.plain("ঔষধ সেবনের আগে শিশিটিকে হাতের তালুর উপরে দূর হতে সজোরে থেমে থেমে ").
			append(ShakeClause(record)).
			plain(" ঝাঁকি দিয়ে ").
			append(DropsClause(record)).
			plain(" ঔষধ ").
			append(CupClause(record)).
			plain(" ঠান্ডা জলের সাথে চামচ দিয়ে ভালোভাবে মিশিয়ে ")
	} else {
		builder.plain("প্রতিবার ঔষধ সেবনের পূর্বে ").
			append(DropsClause(record)).
			plain(" ঔষধ ").
			append(CupClause(record)).
			plain(" ঠান্ডা জলের সাথে চামচ দিয়ে ভালভাবে মিশিয়ে ")
	}

	builder.append(MixtureClause(record)).
		plain(" ").
		append(FrequencyClause(record)).
		plain(" > ").
		append(DurationClause(record)).
		plain(" সেবন করুন।")

	return builder.build()
}

func FrequencyClause(record models.LabelRecord) RichText {
	builder := &richTextBuilder{}
	switch record.IntervalMode {
	case models.IntervalHourly, models.IntervalDaily:
		if record.Interval == nil {
			builder.plain(BlankPlaceholder + intervalSuffix)
			break
		}
		unit := hourUnit
		if record.IntervalMode == models.IntervalDaily {
			unit = dayUnit
		}
		builder.emphasized(countPhrase(*record.Interval, unit)).plain(intervalSuffix)
	default:
		// An unset meal time is still printed in the highlighted slot.
		phrase, ok := mealTimePhrases[record.MealTime]
		if !ok {
			builder.emphasized(BlankPlaceholder)
			break
		}
		builder.emphasized(phrase)
	}
	return builder.build()
}

func DropsClause(record models.LabelRecord) RichText {
	return optionalCountClause(record.Drops, dropsUnit)
}

// ShakeClause is only meaningful when the label asks for shaking.
func ShakeClause(record models.LabelRecord) RichText {
	if record.ShakeMode != models.ShakeWith {
		return (&richTextBuilder{}).plain(BlankPlaceholder).build()
	}
	return optionalCountClause(record.ShakeCount, shakeUnit)
}

func DurationClause(record models.LabelRecord) RichText {
	return optionalCountClause(record.DurationDays, dayUnit)
}

func CupClause(record models.LabelRecord) RichText {
	builder := &richTextBuilder{}
	phrase, ok := cupPhrases[record.CupAmount]
	if !ok {
		return builder.plain(BlankPlaceholder).build()
	}
	return builder.emphasized(phrase).build()
}

// MixtureClause emphasizes the spoon amount; the trailing medicine word is
// plain unless the whole bottle is taken.
func MixtureClause(record models.LabelRecord) RichText {
	builder := &richTextBuilder{}
	amount := strings.TrimSpace(record.MixtureAmount)
	if amount == "" {
		return builder.plain(BlankPlaceholder).build()
	}

	amount = strings.TrimSpace(strings.Replace(amount, " "+medicineWord, "", 1))
	builder.emphasized(amount)
	if !strings.Contains(record.MixtureAmount, wholeMixtureTag) {
		builder.plain(" " + medicineWord)
	}
	return builder.build()
}

func optionalCountClause(value *int, unit string) RichText {
	builder := &richTextBuilder{}
	if value == nil || *value < 1 {
		return builder.plain(BlankPlaceholder).build()
	}
	return builder.emphasized(countPhrase(*value, unit)).build()
}

func countPhrase(value int, unit string) string {
	return strconv.Itoa(value) + " " + unit
}
