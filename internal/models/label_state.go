package models

import "time"

// LabelState is the persisted JSON payload of one workspace's label record.
type LabelState struct {
	StateKey  string    `gorm:"column:state_key;primaryKey"`
	Payload   string    `gorm:"column:payload;not null"`
	Revision  int64     `gorm:"column:revision;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (LabelState) TableName() string {
	return "label_states"
}
