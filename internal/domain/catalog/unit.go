package catalog

import (
	"github.com/shopstack/backend/internal/domain/shared"
)

// UnitOfMeasure represents a named unit products are counted in (pcs, box, kg)
type UnitOfMeasure struct {
	shared.BaseEntity
	Code        string `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name        string `gorm:"type:varchar(50);not null"`
	Description string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (UnitOfMeasure) TableName() string {
	return "units_of_measure"
}

// NewUnitOfMeasure creates a new unit of measure
func NewUnitOfMeasure(code, name string) (*UnitOfMeasure, error) {
	if code == "" {
		return nil, shared.NewValidationError("Unit code cannot be empty")
	}
	if len(code) > 20 {
		return nil, shared.NewValidationError("Unit code cannot exceed 20 characters")
	}
	if name == "" {
		return nil, shared.NewValidationError("Unit name cannot be empty")
	}

	return &UnitOfMeasure{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Name:       name,
	}, nil
}

// Rename updates the display name
func (u *UnitOfMeasure) Rename(name string) error {
	if name == "" {
		return shared.NewValidationError("Unit name cannot be empty")
	}
	u.Name = name
	u.Touch()
	return nil
}
