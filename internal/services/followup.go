package services

import "strings"

// FollowUpMarker identifies the system-managed "return after N days" entry.
const FollowUpMarker = "পরে আসবেন"

func FollowUpCounselingText(days int) string {
	return "• " + emphasisOpenTag + FormatBanglaInt(days) + " দিন" + emphasisCloseTag + " " + FollowUpMarker + "।"
}

func IsFollowUpEntry(entry string) bool {
	return strings.Contains(entry, FollowUpMarker)
}

func FollowUpIndex(counseling []string) int {
	for index, entry := range counseling {
		if IsFollowUpEntry(entry) {
			return index
		}
	}
	return -1
}

// ReconcileFollowUp keeps exactly one follow-up entry in sync with
// followUpDays. The first entry is rewritten in place and later ones are
// dropped; a missing entry is appended and an unset value removes it. The
// input slice is never modified.
func ReconcileFollowUp(counseling []string, followUpDays *int) ([]string, bool) {
	enabled := followUpDays != nil && *followUpDays >= 1
	text := ""
	if enabled {
		text = FollowUpCounselingText(*followUpDays)
	}

	result := make([]string, 0, len(counseling)+1)
	changed := false
	seen := false
	for _, entry := range counseling {
		if !IsFollowUpEntry(entry) {
			result = append(result, entry)
			continue
		}
		if !enabled || seen {
			changed = true
			continue
		}
		seen = true
		if entry != text {
			changed = true
		}
		result = append(result, text)
	}

	if enabled && !seen {
		return append(result, text), true
	}
	return result, changed
}
