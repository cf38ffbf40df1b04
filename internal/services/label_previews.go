package services

import (
	"strings"
	"time"

	"github.com/terraincognita07/dosalabel/internal/models"
)

const labelDateLayout = "02/01/2006"

// LabelPreview is one physical copy of the label.
type LabelPreview struct {
	Index       int        `json:"index"`
	Total       int        `json:"total"`
	Serial      string     `json:"serial"`
	PatientName string     `json:"patient_name"`
	Date        string     `json:"date"`
	Sequence    *Sequence  `json:"sequence,omitempty"`
	Instruction RichText   `json:"instruction"`
	Counseling  []RichText `json:"counseling"`
}

// Sequence marks the order of copies when more than one label is printed.
type Sequence struct {
	Title     string `json:"title"`
	TakeAfter string `json:"take_after,omitempty"`
}

func BuildLabelPreviews(record models.LabelRecord, location *time.Location) []LabelPreview {
	total := ClampLabelCount(record.LabelCount)
	instruction := RenderInstruction(record)
	counseling := BuildCounselingLines(record.Counseling)
	date := FormatLabelDate(record.Date, location)

	previews := make([]LabelPreview, 0, total)
	for index := 1; index <= total; index++ {
		previews = append(previews, LabelPreview{
			Index:       index,
			Total:       total,
			Serial:      record.Serial,
			PatientName: strings.TrimSpace(record.PatientName),
			Date:        date,
			Sequence:    buildSequence(index, total),
			Instruction: instruction,
			Counseling:  counseling,
		})
	}
	return previews
}

// BuildCounselingLines prefixes each entry with a bullet and localizes digits.
func BuildCounselingLines(entries []string) []RichText {
	lines := make([]RichText, 0, len(entries))
	for _, entry := range entries {
		trimmed := strings.TrimSpace(entry)
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, CounselingBullet) {
			trimmed = counselingBulletWithSpacer + trimmed
		}
		builder := &richTextBuilder{}
		lines = append(lines, builder.append(ParseEmphasis(trimmed)).build())
	}
	return lines
}

func FormatLabelDate(value time.Time, location *time.Location) string {
	if value.IsZero() {
		return ""
	}
	if location != nil {
		value = value.In(location)
	}
	return ToBanglaNumerals(value.Format(labelDateLayout))
}

func buildSequence(index int, total int) *Sequence {
	if total <= 1 {
		return nil
	}
	sequence := &Sequence{Title: FormatBanglaInt(index) + " নং ঔষধ"}
	if index > 1 {
		sequence.TakeAfter = FormatBanglaInt(index-1) + " নং এর পরে খাবেন"
	}
	return sequence
}
