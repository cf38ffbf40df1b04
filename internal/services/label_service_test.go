package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

type stubStateStore struct {
	mu      sync.Mutex
	values  map[string][]byte
	saveErr error
}

func newStubStateStore() *stubStateStore {
	return &stubStateStore{values: make(map[string][]byte)}
}

func (store *stubStateStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	value, ok := store.values[key]
	return value, ok, nil
}

func (store *stubStateStore) Save(_ context.Context, key string, payload []byte) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.saveErr != nil {
		return store.saveErr
	}
	store.values[key] = append([]byte(nil), payload...)
	return nil
}

func (store *stubStateStore) Delete(_ context.Context, key string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.values, key)
	return nil
}

func newTestLabelService(store LabelStateStore) *LabelService {
	return NewLabelService(store, LabelServiceOptions{
		Location: time.UTC,
		Logger:   log.New(io.Discard),
		Now:      func() time.Time { return testNow },
	})
}

func TestLabelServiceLoadDefaults(t *testing.T) {
	service := newTestLabelService(newStubStateStore())

	record, err := service.Load(context.Background(), "ws-1")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if record.Serial != DefaultSerialPrefix || record.LabelCount != 1 {
		t.Fatalf("unexpected default record: %#v", record)
	}
	if FollowUpIndex(record.Counseling) != 3 {
		t.Fatalf("default counseling must end with follow-up entry: %#v", record.Counseling)
	}
}

func TestLabelServiceUpdatePersistsPerWorkspace(t *testing.T) {
	store := newStubStateStore()
	service := newTestLabelService(store)
	ctx := context.Background()

	if _, err := service.Update(ctx, "ws-1", LabelUpdate{PatientName: stringPtr("রহিম"), LabelCount: stringPtr("2")}); err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	if _, ok := store.values["pharmaLabelState:ws-1"]; !ok {
		t.Fatalf("expected state under workspace key, got keys %v", store.values)
	}

	reloaded, err := service.Load(ctx, "ws-1")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if reloaded.PatientName != "রহিম" || reloaded.LabelCount != 2 {
		t.Fatalf("reloaded record = %#v", reloaded)
	}

	other, err := service.Load(ctx, "ws-2")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if other.PatientName != "" {
		t.Fatalf("workspaces must be isolated, got %q", other.PatientName)
	}
}

func TestLabelServiceStateKey(t *testing.T) {
	service := newTestLabelService(newStubStateStore())
	if got := service.StateKey(""); got != DefaultStateKey {
		t.Fatalf("StateKey(\"\") = %q", got)
	}
	if got := service.StateKey("abc"); got != "pharmaLabelState:abc" {
		t.Fatalf("StateKey(abc) = %q", got)
	}
}

func TestLabelServiceCorruptStateFallsBack(t *testing.T) {
	store := newStubStateStore()
	store.values["pharmaLabelState:ws"] = []byte("{not json")
	service := newTestLabelService(store)

	record, err := service.Load(context.Background(), "ws")
	if err != nil {
		t.Fatalf("corrupt state must not fail Load(): %v", err)
	}
	if record.Serial != DefaultSerialPrefix {
		t.Fatalf("expected defaults, got %#v", record)
	}
}

func TestLabelServiceReset(t *testing.T) {
	store := newStubStateStore()
	service := newTestLabelService(store)
	ctx := context.Background()

	if _, err := service.Update(ctx, "ws", LabelUpdate{Serial: stringPtr("F/99")}); err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	record, err := service.Reset(ctx, "ws")
	if err != nil {
		t.Fatalf("Reset() unexpected error: %v", err)
	}
	if record.Serial != DefaultSerialPrefix {
		t.Fatalf("Reset() serial = %q", record.Serial)
	}
	if _, ok := store.values["pharmaLabelState:ws"]; ok {
		t.Fatal("Reset() must delete stored state")
	}
}

func TestLabelServiceRemovingFollowUpClearsDays(t *testing.T) {
	service := newTestLabelService(newStubStateStore())
	ctx := context.Background()

	record, err := service.Load(ctx, "ws")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	index := FollowUpIndex(record.Counseling)

	updated, err := service.RemoveCounseling(ctx, "ws", index)
	if err != nil {
		t.Fatalf("RemoveCounseling() unexpected error: %v", err)
	}
	if updated.FollowUpDays != nil || FollowUpIndex(updated.Counseling) != -1 {
		t.Fatalf("follow-up must be cleared: days=%v counseling=%#v", updated.FollowUpDays, updated.Counseling)
	}

	reloaded, err := service.Load(ctx, "ws")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if FollowUpIndex(reloaded.Counseling) != -1 {
		t.Fatalf("follow-up entry regenerated after reload: %#v", reloaded.Counseling)
	}
}

func TestLabelServiceCounselingOperations(t *testing.T) {
	service := newTestLabelService(newStubStateStore())
	ctx := context.Background()

	record, err := service.AddCustomCounseling(ctx, "ws", "বেশি করে জল খাবেন")
	if err != nil {
		t.Fatalf("AddCustomCounseling() unexpected error: %v", err)
	}
	if record.Counseling[len(record.Counseling)-2] != "• বেশি করে জল খাবেন" {
		t.Fatalf("counseling = %#v", record.Counseling)
	}

	if _, err := service.AddPredefinedCounseling(ctx, "ws", DefaultCounseling()[0]); !errors.Is(err, ErrCounselingDuplicate) {
		t.Fatalf("expected ErrCounselingDuplicate, got %v", err)
	}
	if _, err := service.RemoveCounseling(ctx, "ws", 42); !errors.Is(err, ErrCounselingIndexOutOfRange) {
		t.Fatalf("expected ErrCounselingIndexOutOfRange, got %v", err)
	}
}

func TestLabelServiceSaveError(t *testing.T) {
	store := newStubStateStore()
	store.saveErr = errors.New("disk full")
	service := newTestLabelService(store)

	_, err := service.SetPatientName(context.Background(), "ws", "করিম")
	if !errors.Is(err, store.saveErr) {
		t.Fatalf("expected wrapped save error, got %v", err)
	}
}

func TestLabelServicePreviews(t *testing.T) {
	service := newTestLabelService(newStubStateStore())
	ctx := context.Background()

	if _, err := service.Update(ctx, "ws", LabelUpdate{LabelCount: stringPtr("3")}); err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	_, previews, err := service.Previews(ctx, "ws")
	if err != nil {
		t.Fatalf("Previews() unexpected error: %v", err)
	}
	if len(previews) != 3 {
		t.Fatalf("expected 3 previews, got %d", len(previews))
	}
}
