package services

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/terraincognita07/dosalabel/internal/models"
)

func TestDecodeLabelRecordEmptyPayload(t *testing.T) {
	t.Parallel()

	record, err := DecodeLabelRecord(nil, DefaultLabelDefaults(), testNow)
	if err != nil {
		t.Fatalf("DecodeLabelRecord(nil) unexpected error: %v", err)
	}
	if !reflect.DeepEqual(record, defaultTestRecord()) {
		t.Fatalf("expected default record, got %#v", record)
	}
}

func TestDecodeLabelRecordCorruptPayload(t *testing.T) {
	t.Parallel()

	record, err := DecodeLabelRecord([]byte(`{"serial":`), DefaultLabelDefaults(), testNow)
	if !errors.Is(err, ErrCorruptLabelState) {
		t.Fatalf("expected ErrCorruptLabelState, got %v", err)
	}
	if !reflect.DeepEqual(record, defaultTestRecord()) {
		t.Fatalf("corrupt payload must yield defaults, got %#v", record)
	}
}

func TestDecodeLabelRecordLegacyPayload(t *testing.T) {
	t.Parallel()

	payload := []byte(`{
		"serial": "F/12",
		"patientName": "রহিম",
		"date": "2024-03-01",
		"shakeMode": "without",
		"drops": "5",
		"shakeCount": null,
		"intervalMode": "weekly",
		"mealTime": "brunch",
		"mixtureAmount": "৪ চামচ ঔষধ",
		"durationDays": 0,
		"counseling": [],
		"labelCount": "0",
		"followUpDays": "14"
	}`)

	record, err := DecodeLabelRecord(payload, DefaultLabelDefaults(), testNow)
	if err != nil {
		t.Fatalf("DecodeLabelRecord() unexpected error: %v", err)
	}

	if record.Serial != "F/12" || record.PatientName != "রহিম" {
		t.Fatalf("unexpected identity fields: %#v", record)
	}
	if !record.Date.Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date = %v", record.Date)
	}
	if record.ShakeMode != models.ShakeWithout {
		t.Fatalf("shakeMode = %q", record.ShakeMode)
	}
	if record.Drops == nil || *record.Drops != 5 {
		t.Fatalf("drops = %v", record.Drops)
	}
	if record.ShakeCount != nil {
		t.Fatalf("explicit null shakeCount must stay unset, got %d", *record.ShakeCount)
	}
	if record.Interval == nil || *record.Interval != 12 {
		t.Fatalf("absent interval must take the default, got %v", record.Interval)
	}
	if record.IntervalMode != models.IntervalHourly || record.MealTime != models.MealNone {
		t.Fatalf("invalid enums must fall back: %q %q", record.IntervalMode, record.MealTime)
	}
	if record.MixtureAmount != models.MixtureOneSpoon {
		t.Fatalf("mixtureAmount = %q", record.MixtureAmount)
	}
	if record.DurationDays != nil {
		t.Fatalf("zero duration must be unset, got %d", *record.DurationDays)
	}
	if record.LabelCount != 1 {
		t.Fatalf("labelCount = %d", record.LabelCount)
	}

	wantCounseling := append(DefaultCounseling(), "• <strong>১৪ দিন</strong> পরে আসবেন।")
	if !reflect.DeepEqual(record.Counseling, wantCounseling) {
		t.Fatalf("counseling = %#v, want %#v", record.Counseling, wantCounseling)
	}
}

func TestNormalizeLabelRecordLabelCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		payload string
		want    int
	}{
		{payload: `{"labelCount": 3}`, want: 3},
		{payload: `{"labelCount": 2.7}`, want: 2},
		{payload: `{"labelCount": "4"}`, want: 4},
		{payload: `{"labelCount": -2}`, want: 1},
		{payload: `{"labelCount": "many"}`, want: 1},
		{payload: `{"labelCount": 250}`, want: models.MaxLabelCount},
		{payload: `{}`, want: 1},
	}

	for _, test := range tests {
		record, err := DecodeLabelRecord([]byte(test.payload), DefaultLabelDefaults(), testNow)
		if err != nil {
			t.Fatalf("DecodeLabelRecord(%s) unexpected error: %v", test.payload, err)
		}
		if record.LabelCount != test.want {
			t.Fatalf("DecodeLabelRecord(%s) labelCount = %d, want %d", test.payload, record.LabelCount, test.want)
		}
	}
}

func TestNormalizeLabelRecordRewritesStaleFollowUp(t *testing.T) {
	t.Parallel()

	payload := []byte(`{
		"counseling": ["• টক জাতীয় খাবার খাবেন না।", "• <strong>৩ দিন</strong> পরে আসবেন।", "• রাত্রি জাগরণ করবেন না।"],
		"followUpDays": 7
	}`)

	record, err := DecodeLabelRecord(payload, DefaultLabelDefaults(), testNow)
	if err != nil {
		t.Fatalf("DecodeLabelRecord() unexpected error: %v", err)
	}
	want := []string{
		"• টক জাতীয় খাবার খাবেন না।",
		"• <strong>৭ দিন</strong> পরে আসবেন।",
		"• রাত্রি জাগরণ করবেন না।",
	}
	if !reflect.DeepEqual(record.Counseling, want) {
		t.Fatalf("counseling = %#v, want %#v", record.Counseling, want)
	}
}

func TestNormalizeLabelRecordNullFollowUpRemovesEntry(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"counseling": ["• এক", "• <strong>৭ দিন</strong> পরে আসবেন।"], "followUpDays": null}`)
	record, err := DecodeLabelRecord(payload, DefaultLabelDefaults(), testNow)
	if err != nil {
		t.Fatalf("DecodeLabelRecord() unexpected error: %v", err)
	}
	if record.FollowUpDays != nil {
		t.Fatalf("followUpDays = %d, want unset", *record.FollowUpDays)
	}
	if !reflect.DeepEqual(record.Counseling, []string{"• এক"}) {
		t.Fatalf("counseling = %#v", record.Counseling)
	}
}

func TestNormalizeLabelRecordCollapsesDuplicateFollowUp(t *testing.T) {
	t.Parallel()

	payload := []byte(`{
		"counseling": ["• <strong>৭ দিন</strong> পরে আসবেন।", "• টক জাতীয় খাবার খাবেন না।", "• <strong>১৪ দিন</strong> পরে আসবেন।"],
		"followUpDays": 14
	}`)

	record, err := DecodeLabelRecord(payload, DefaultLabelDefaults(), testNow)
	if err != nil {
		t.Fatalf("DecodeLabelRecord() unexpected error: %v", err)
	}
	want := []string{
		"• <strong>১৪ দিন</strong> পরে আসবেন।",
		"• টক জাতীয় খাবার খাবেন না।",
	}
	if !reflect.DeepEqual(record.Counseling, want) {
		t.Fatalf("counseling = %#v, want %#v", record.Counseling, want)
	}
}
