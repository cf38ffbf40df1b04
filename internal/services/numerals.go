package services

import (
	"strconv"
	"strings"
)

var banglaDigitReplacer = strings.NewReplacer(
	"0", "০",
	"1", "১",
	"2", "২",
	"3", "৩",
	"4", "৪",
	"5", "৫",
	"6", "৬",
	"7", "৭",
	"8", "৮",
	"9", "৯",
)

// ToBanglaNumerals replaces every ASCII digit with its Bengali numeral.
func ToBanglaNumerals(text string) string {
	return banglaDigitReplacer.Replace(text)
}

func FormatBanglaInt(value int) string {
	return ToBanglaNumerals(strconv.Itoa(value))
}
