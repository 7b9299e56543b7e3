package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

type JSONMap map[string]interface{}

func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	b, err := json.Marshal(j)
	return string(b), err
}

func (j *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case string:
		bytes = []byte(v)
	case []byte:
		bytes = v
	}
	return json.Unmarshal(bytes, j)
}

// Activity is an append-only audit entry. Rows are never updated or deleted
// except by cascading board deletion.
type Activity struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BoardID    uint      `gorm:"not null;index:idx_activities_board_id" json:"board_id"`
	ActorID    *uint     `json:"actor_id"`
	EntityType string    `gorm:"type:varchar(32);not null;index:idx_entity,priority:1" json:"entity_type"`
	EntityID   *uint     `gorm:"index:idx_entity,priority:2" json:"entity_id"`
	Action     string    `gorm:"type:varchar(64);not null" json:"action"`
	Message    string    `gorm:"type:varchar(512);not null" json:"message"`
	Metadata   JSONMap   `gorm:"type:json" json:"metadata"`
	CreatedAt  time.Time `gorm:"index:idx_created_at" json:"created_at"`

	Actor *User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}

func (Activity) TableName() string { return "activities" }
