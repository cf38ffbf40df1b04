package services

import (
	"reflect"
	"testing"

	"github.com/terraincognita07/dosalabel/internal/models"
)

func TestFollowUpCounselingText(t *testing.T) {
	t.Parallel()

	if got := FollowUpCounselingText(7); got != "• <strong>৭ দিন</strong> পরে আসবেন।" {
		t.Fatalf("FollowUpCounselingText(7) = %q", got)
	}
}

func TestReconcileFollowUpIsIdempotent(t *testing.T) {
	t.Parallel()

	once, _ := ReconcileFollowUp(DefaultCounseling(), models.IntPtr(10))
	twice, changed := ReconcileFollowUp(once, models.IntPtr(10))
	if changed {
		t.Fatal("second reconciliation must not report a change")
	}
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("reconciliation is not idempotent: %#v vs %#v", once, twice)
	}
	if FollowUpIndex(twice) != len(twice)-1 {
		t.Fatalf("follow-up entry expected last, got index %d", FollowUpIndex(twice))
	}
}

func TestReconcileFollowUpUpdatesInPlace(t *testing.T) {
	t.Parallel()

	current := []string{
		"• প্রথম",
		FollowUpCounselingText(7),
		"• শেষ",
	}
	updated, changed := ReconcileFollowUp(current, models.IntPtr(14))
	if !changed {
		t.Fatal("expected change when days differ")
	}
	if len(updated) != len(current) {
		t.Fatalf("length changed: %d", len(updated))
	}
	if updated[1] != "• <strong>১৪ দিন</strong> পরে আসবেন।" {
		t.Fatalf("follow-up entry = %q", updated[1])
	}
	if current[1] != FollowUpCounselingText(7) {
		t.Fatal("input slice must not be modified")
	}
}

func TestReconcileFollowUpRemovesWhenUnset(t *testing.T) {
	t.Parallel()

	current := append(DefaultCounseling(), FollowUpCounselingText(7))
	updated, changed := ReconcileFollowUp(current, nil)
	if !changed {
		t.Fatal("expected change when removing follow-up entry")
	}
	if FollowUpIndex(updated) != -1 {
		t.Fatalf("follow-up entry still present: %#v", updated)
	}
	if len(updated) != len(current)-1 {
		t.Fatalf("expected one entry removed, got %d", len(updated))
	}

	unchanged, changed := ReconcileFollowUp(updated, models.IntPtr(0))
	if changed || !reflect.DeepEqual(unchanged, updated) {
		t.Fatal("zero days with no entry must be a no-op")
	}
}

func TestReconcileFollowUpDropsDuplicateEntries(t *testing.T) {
	t.Parallel()

	current := []string{
		FollowUpCounselingText(7),
		"• টক জাতীয় খাবার খাবেন না।",
		FollowUpCounselingText(14),
	}
	updated, changed := ReconcileFollowUp(current, models.IntPtr(14))
	if !changed {
		t.Fatal("expected change when a duplicate follow-up entry is dropped")
	}
	want := []string{FollowUpCounselingText(14), "• টক জাতীয় খাবার খাবেন না।"}
	if !reflect.DeepEqual(updated, want) {
		t.Fatalf("ReconcileFollowUp = %#v, want %#v", updated, want)
	}

	removed, _ := ReconcileFollowUp(current, nil)
	if FollowUpIndex(removed) != -1 || len(removed) != 1 {
		t.Fatalf("unset follow-up must remove every entry, got %#v", removed)
	}
}
