package partner

import (
	"github.com/shopstack/backend/internal/domain/shared"
)

// Warehouse represents a physical stock location
type Warehouse struct {
	shared.AggregateRoot
	Code    string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name    string `gorm:"type:varchar(200);not null"`
	Address string `gorm:"type:varchar(500)"`
	Active  bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string {
	return "warehouses"
}

// NewWarehouse creates a new warehouse
func NewWarehouse(code, name string) (*Warehouse, error) {
	if code == "" {
		return nil, shared.NewValidationError("Warehouse code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewValidationError("Warehouse name cannot be empty")
	}

	return &Warehouse{
		AggregateRoot: shared.NewAggregateRoot(),
		Code:          code,
		Name:          name,
		Active:        true,
	}, nil
}
