package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity provides identity and timestamps for all persisted entities
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// NewBaseEntity creates a new base entity with a generated ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch stamps the entity as updated now
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// AggregateRoot extends BaseEntity with a version counter used for
// optimistic locking on conflicting writes.
type AggregateRoot struct {
	BaseEntity
	Version int `gorm:"not null;default:1"`
}

// NewAggregateRoot creates a new aggregate root at version 1
func NewAggregateRoot() AggregateRoot {
	return AggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

// IncrementVersion increments the version number
func (a *AggregateRoot) IncrementVersion() {
	a.Version++
}
