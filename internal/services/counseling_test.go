package services

import (
	"errors"
	"strings"
	"testing"
)

func TestAvailableCounselingOptionsSkipsPresentPhrases(t *testing.T) {
	t.Parallel()

	options := AvailableCounselingOptions(defaultTestRecord().Counseling)
	if len(options) != len(PredefinedCounseling())-len(DefaultCounseling()) {
		t.Fatalf("expected defaults to be filtered out, got %d options", len(options))
	}
	for _, option := range options {
		if IsFollowUpEntry(option) {
			t.Fatalf("follow-up phrase must not be offered: %q", option)
		}
		for _, existing := range DefaultCounseling() {
			if option == existing {
				t.Fatalf("present phrase offered again: %q", option)
			}
		}
	}
}

func TestAddPredefinedCounselingKeepsFollowUpLast(t *testing.T) {
	t.Parallel()

	current := defaultTestRecord().Counseling
	phrase := PredefinedCounseling()[3]

	updated, err := AddPredefinedCounseling(current, phrase)
	if err != nil {
		t.Fatalf("AddPredefinedCounseling() unexpected error: %v", err)
	}
	if len(updated) != len(current)+1 {
		t.Fatalf("len = %d, want %d", len(updated), len(current)+1)
	}
	if updated[len(updated)-2] != phrase {
		t.Fatalf("new phrase expected before follow-up entry, got %#v", updated)
	}
	if !IsFollowUpEntry(updated[len(updated)-1]) {
		t.Fatalf("follow-up entry expected last, got %q", updated[len(updated)-1])
	}
	if len(current) != 4 {
		t.Fatal("input slice must not be modified")
	}
}

func TestAddPredefinedCounselingErrors(t *testing.T) {
	t.Parallel()

	current := defaultTestRecord().Counseling
	if _, err := AddPredefinedCounseling(current, DefaultCounseling()[0]); !errors.Is(err, ErrCounselingDuplicate) {
		t.Fatalf("expected ErrCounselingDuplicate, got %v", err)
	}
	if _, err := AddPredefinedCounseling(current, "• অজানা"); !errors.Is(err, ErrCounselingUnknownPhrase) {
		t.Fatalf("expected ErrCounselingUnknownPhrase, got %v", err)
	}
	if _, err := AddPredefinedCounseling(current, FollowUpCounselingText(7)); !errors.Is(err, ErrCounselingUnknownPhrase) {
		t.Fatalf("follow-up phrase must not be addable, got %v", err)
	}
}

func TestAddCustomCounseling(t *testing.T) {
	t.Parallel()

	current := []string{"• এক"}
	updated, err := AddCustomCounseling(current, "  নিয়মিত হাঁটবেন  ")
	if err != nil {
		t.Fatalf("AddCustomCounseling() unexpected error: %v", err)
	}
	if updated[1] != "• নিয়মিত হাঁটবেন" {
		t.Fatalf("custom entry = %q", updated[1])
	}

	tests := []struct {
		name string
		text string
		want error
	}{
		{name: "empty", text: "   ", want: ErrCounselingEmpty},
		{name: "bullet only", text: " • ", want: ErrCounselingEmpty},
		{name: "follow-up text", text: "১০ দিন পরে আসবেন", want: ErrCounselingFollowUpManaged},
		{name: "too long", text: strings.Repeat("ক", MaxCounselingEntryLength+1), want: ErrCounselingTooLong},
		{name: "duplicate ignoring emphasis", text: "জরুরী প্রয়োজনে বিকাল ৫টা থেকে ৭টার মধ্যে ফোন করুন।", want: ErrCounselingDuplicate},
	}

	for _, test := range tests {
		_, err := AddCustomCounseling(DefaultCounseling(), test.text)
		if !errors.Is(err, test.want) {
			t.Fatalf("%s: expected %v, got %v", test.name, test.want, err)
		}
	}
}

func TestRemoveCounseling(t *testing.T) {
	t.Parallel()

	current := []string{"• এক", "• দুই", "• তিন"}
	updated, err := RemoveCounseling(current, 1)
	if err != nil {
		t.Fatalf("RemoveCounseling() unexpected error: %v", err)
	}
	if len(updated) != 2 || updated[0] != "• এক" || updated[1] != "• তিন" {
		t.Fatalf("unexpected result: %#v", updated)
	}
	if current[1] != "• দুই" {
		t.Fatal("input slice must not be modified")
	}

	for _, index := range []int{-1, 3} {
		if _, err := RemoveCounseling(current, index); !errors.Is(err, ErrCounselingIndexOutOfRange) {
			t.Fatalf("RemoveCounseling(%d) expected ErrCounselingIndexOutOfRange, got %v", index, err)
		}
	}
}
