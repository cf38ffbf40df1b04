package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/dosalabel/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LabelStateRepository struct {
	database *gorm.DB
	now      func() time.Time
}

func NewLabelStateRepository(database *gorm.DB) *LabelStateRepository {
	return &LabelStateRepository{database: database, now: time.Now}
}

func (repo *LabelStateRepository) Load(ctx context.Context, key string) ([]byte, bool, error) {
	state, err := repo.Find(ctx, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(state.Payload), true, nil
}

func (repo *LabelStateRepository) Find(ctx context.Context, key string) (models.LabelState, error) {
	var state models.LabelState
	if err := repo.database.WithContext(ctx).Where("state_key = ?", key).First(&state).Error; err != nil {
		return models.LabelState{}, err
	}
	return state, nil
}

// Save upserts the payload and bumps the row revision.
func (repo *LabelStateRepository) Save(ctx context.Context, key string, payload []byte) error {
	state := models.LabelState{
		StateKey:  key,
		Payload:   string(payload),
		Revision:  1,
		UpdatedAt: repo.now().UTC(),
	}
	return repo.database.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "state_key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"payload":    state.Payload,
			"updated_at": state.UpdatedAt,
			"revision":   gorm.Expr("label_states.revision + 1"),
		}),
	}).Create(&state).Error
}

func (repo *LabelStateRepository) Delete(ctx context.Context, key string) error {
	return repo.database.WithContext(ctx).Where("state_key = ?", key).Delete(&models.LabelState{}).Error
}

// DeletePrefix removes every key starting with prefix and reports how many
// rows went away.
func (repo *LabelStateRepository) DeletePrefix(ctx context.Context, prefix string) (int64, error) {
	result := repo.database.WithContext(ctx).
		Where("state_key = ? OR state_key LIKE ? ESCAPE '\\'", prefix, escapeLike(prefix)+":%").
		Delete(&models.LabelState{})
	return result.RowsAffected, result.Error
}

// List returns the stored rows under prefix ordered by key, payloads included.
func (repo *LabelStateRepository) List(ctx context.Context, prefix string) ([]models.LabelState, error) {
	var states []models.LabelState
	err := repo.database.WithContext(ctx).
		Where("state_key = ? OR state_key LIKE ? ESCAPE '\\'", prefix, escapeLike(prefix)+":%").
		Order("state_key").
		Find(&states).Error
	if err != nil {
		return nil, err
	}
	return states, nil
}

func (repo *LabelStateRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := repo.database.WithContext(ctx).Model(&models.LabelState{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
