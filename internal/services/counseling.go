package services

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	CounselingBullet           = "•"
	MaxCounselingEntryLength   = 300
	counselingBulletWithSpacer = CounselingBullet + " "
)

var (
	ErrCounselingEmpty           = errors.New("counseling entry is empty")
	ErrCounselingTooLong         = errors.New("counseling entry too long")
	ErrCounselingDuplicate       = errors.New("counseling entry already present")
	ErrCounselingUnknownPhrase   = errors.New("unknown counseling phrase")
	ErrCounselingFollowUpManaged = errors.New("follow-up entry is managed by follow-up days")
	ErrCounselingIndexOutOfRange = errors.New("counseling index out of range")
)

// The follow-up phrase is derived from followUpDays and is not offered here.
var predefinedCounseling = []string{
	"• ঔষধ সেবনকালীন যাবতীয় ঔষধি নিষিদ্ধ।",
	"• ঔষধ সেবনের আধা ঘন্টা আগে-পরে জল ব্যতিত কোন খাবার খাবেন না।",
	"• জরুরী প্রয়োজনে বিকাল <strong>৫টা</strong> থেকে <strong>৭টার</strong> মধ্যে ফোন করুন।",
	"• টক জাতীয় খাবার খাবেন না।",
	"• কাঁচা পিয়াজ-রসুন খাবেন না।",
	"• অ্যালার্জিযুক্ত সকল খাবার খাবেন।",
	"• রাত্রি জাগরণ করবেন না।",
	"• নিয়মিত প্রেসার/ডায়াবেটিসের ঔষধ খাবেন।",
	"• ঠান্ডা জাতীয় খাবার খাবেন না।",
	"• বমি, পাতলা পায়খানা, সর্দি হলে অবশ্যই জানাবেন।",
	"• অতিরিক্ত দেয়া ঔষধ ফোন না করে খাবেন না।",
}

func PredefinedCounseling() []string {
	return append([]string(nil), predefinedCounseling...)
}

// AvailableCounselingOptions lists predefined phrases not yet on the label.
func AvailableCounselingOptions(current []string) []string {
	options := make([]string, 0, len(predefinedCounseling))
	for _, phrase := range predefinedCounseling {
		if !containsCounseling(current, phrase) {
			options = append(options, phrase)
		}
	}
	return options
}

func AddPredefinedCounseling(current []string, phrase string) ([]string, error) {
	if !isPredefinedCounseling(phrase) {
		return current, ErrCounselingUnknownPhrase
	}
	return insertCounseling(current, phrase)
}

func AddCustomCounseling(current []string, text string) ([]string, error) {
	entry := strings.TrimSpace(text)
	if entry == "" || entry == CounselingBullet {
		return current, ErrCounselingEmpty
	}
	if utf8.RuneCountInString(entry) > MaxCounselingEntryLength {
		return current, ErrCounselingTooLong
	}
	if IsFollowUpEntry(entry) {
		return current, ErrCounselingFollowUpManaged
	}
	if !strings.HasPrefix(entry, CounselingBullet) {
		entry = counselingBulletWithSpacer + entry
	}
	return insertCounseling(current, entry)
}

func RemoveCounseling(current []string, index int) ([]string, error) {
	if index < 0 || index >= len(current) {
		return current, ErrCounselingIndexOutOfRange
	}
	result := make([]string, 0, len(current)-1)
	result = append(result, current[:index]...)
	return append(result, current[index+1:]...), nil
}

// insertCounseling appends after the manual entries so the follow-up entry
// stays last.
func insertCounseling(current []string, entry string) ([]string, error) {
	if containsCounseling(current, entry) {
		return current, ErrCounselingDuplicate
	}

	result := make([]string, 0, len(current)+1)
	followUp := ""
	for _, existing := range current {
		if followUp == "" && IsFollowUpEntry(existing) {
			followUp = existing
			continue
		}
		result = append(result, existing)
	}
	result = append(result, entry)
	if followUp != "" {
		result = append(result, followUp)
	}
	return result, nil
}

func containsCounseling(current []string, entry string) bool {
	target := normalizeCounselingText(entry)
	for _, existing := range current {
		if normalizeCounselingText(existing) == target {
			return true
		}
	}
	return false
}

func isPredefinedCounseling(phrase string) bool {
	for _, candidate := range predefinedCounseling {
		if candidate == phrase {
			return true
		}
	}
	return false
}

func normalizeCounselingText(entry string) string {
	text := strings.TrimSpace(StripEmphasis(entry))
	text = strings.TrimSpace(strings.TrimPrefix(text, CounselingBullet))
	return strings.Join(strings.Fields(text), " ")
}
