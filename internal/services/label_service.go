package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/terraincognita07/dosalabel/internal/models"
)

const DefaultStateKey = "pharmaLabelState"

// LabelStateStore is the key-value capability the label record is persisted
// through. Load reports found=false for keys that were never written.
type LabelStateStore interface {
	Load(ctx context.Context, key string) (payload []byte, found bool, err error)
	Save(ctx context.Context, key string, payload []byte) error
	Delete(ctx context.Context, key string) error
}

type LabelServiceOptions struct {
	Defaults LabelDefaults
	StateKey string
	Location *time.Location
	Logger   *log.Logger
	Now      func() time.Time
}

type LabelService struct {
	store    LabelStateStore
	defaults LabelDefaults
	stateKey string
	location *time.Location
	logger   *log.Logger
	now      func() time.Time

	mu sync.Mutex
}

func NewLabelService(store LabelStateStore, options LabelServiceOptions) *LabelService {
	if len(options.Defaults.Counseling) == 0 && options.Defaults.LabelCount == 0 {
		options.Defaults = DefaultLabelDefaults()
	}
	if strings.TrimSpace(options.StateKey) == "" {
		options.StateKey = DefaultStateKey
	}
	if options.Location == nil {
		options.Location = time.Local
	}
	if options.Logger == nil {
		options.Logger = log.Default()
	}
	if options.Now == nil {
		options.Now = time.Now
	}

	return &LabelService{
		store:    store,
		defaults: options.Defaults,
		stateKey: options.StateKey,
		location: options.Location,
		logger:   options.Logger,
		now:      options.Now,
	}
}

func (service *LabelService) Location() *time.Location {
	return service.location
}

// StateKey returns the storage key of a workspace. An empty workspace maps to
// the bare key used by single-operator installs.
func (service *LabelService) StateKey(workspace string) string {
	workspace = strings.TrimSpace(workspace)
	if workspace == "" {
		return service.stateKey
	}
	return service.stateKey + ":" + workspace
}

func (service *LabelService) Load(ctx context.Context, workspace string) (models.LabelRecord, error) {
	service.mu.Lock()
	defer service.mu.Unlock()
	return service.loadLocked(ctx, workspace)
}

func (service *LabelService) Update(ctx context.Context, workspace string, update LabelUpdate) (models.LabelRecord, error) {
	return service.mutate(ctx, workspace, func(record models.LabelRecord) (models.LabelRecord, error) {
		return ApplyLabelUpdate(record, update, service.location)
	})
}

func (service *LabelService) SetPatientName(ctx context.Context, workspace string, name string) (models.LabelRecord, error) {
	return service.Update(ctx, workspace, LabelUpdate{PatientName: &name})
}

func (service *LabelService) AddPredefinedCounseling(ctx context.Context, workspace string, phrase string) (models.LabelRecord, error) {
	return service.mutate(ctx, workspace, func(record models.LabelRecord) (models.LabelRecord, error) {
		counseling, err := AddPredefinedCounseling(record.Counseling, phrase)
		if err != nil {
			return record, err
		}
		record.Counseling = counseling
		return record, nil
	})
}

func (service *LabelService) AddCustomCounseling(ctx context.Context, workspace string, text string) (models.LabelRecord, error) {
	return service.mutate(ctx, workspace, func(record models.LabelRecord) (models.LabelRecord, error) {
		counseling, err := AddCustomCounseling(record.Counseling, text)
		if err != nil {
			return record, err
		}
		record.Counseling = counseling
		return record, nil
	})
}

// RemoveCounseling drops the entry at index. Removing the follow-up entry
// also clears followUpDays so it is not regenerated.
func (service *LabelService) RemoveCounseling(ctx context.Context, workspace string, index int) (models.LabelRecord, error) {
	return service.mutate(ctx, workspace, func(record models.LabelRecord) (models.LabelRecord, error) {
		if index >= 0 && index < len(record.Counseling) && IsFollowUpEntry(record.Counseling[index]) {
			record.FollowUpDays = nil
		}
		counseling, err := RemoveCounseling(record.Counseling, index)
		if err != nil {
			return record, err
		}
		record.Counseling = counseling
		return record, nil
	})
}

func (service *LabelService) Reset(ctx context.Context, workspace string) (models.LabelRecord, error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	if err := service.store.Delete(ctx, service.StateKey(workspace)); err != nil {
		return models.LabelRecord{}, fmt.Errorf("delete label state: %w", err)
	}
	return NewDefaultLabelRecord(service.defaults, service.now()), nil
}

func (service *LabelService) Previews(ctx context.Context, workspace string) (models.LabelRecord, []LabelPreview, error) {
	record, err := service.Load(ctx, workspace)
	if err != nil {
		return models.LabelRecord{}, nil, err
	}
	return record, BuildLabelPreviews(record, service.location), nil
}

func (service *LabelService) mutate(ctx context.Context, workspace string, apply func(models.LabelRecord) (models.LabelRecord, error)) (models.LabelRecord, error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	current, err := service.loadLocked(ctx, workspace)
	if err != nil {
		return models.LabelRecord{}, err
	}
	next, err := apply(current.Clone())
	if err != nil {
		return current, err
	}
	if err := service.saveLocked(ctx, workspace, next); err != nil {
		return current, err
	}
	return next, nil
}

func (service *LabelService) loadLocked(ctx context.Context, workspace string) (models.LabelRecord, error) {
	key := service.StateKey(workspace)
	payload, found, err := service.store.Load(ctx, key)
	if err != nil {
		return models.LabelRecord{}, fmt.Errorf("load label state: %w", err)
	}
	if !found {
		return NewDefaultLabelRecord(service.defaults, service.now()), nil
	}

	record, err := DecodeLabelRecord(payload, service.defaults, service.now())
	if errors.Is(err, ErrCorruptLabelState) {
		service.logger.Warn("stored label state is unreadable, using defaults", "key", key, "err", err)
		return record, nil
	}
	return record, err
}

func (service *LabelService) saveLocked(ctx context.Context, workspace string, record models.LabelRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode label state: %w", err)
	}
	if err := service.store.Save(ctx, service.StateKey(workspace), payload); err != nil {
		return fmt.Errorf("save label state: %w", err)
	}
	return nil
}
