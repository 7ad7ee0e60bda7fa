package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopstack/backend/internal/domain/trade"
)

// documentSequence holds one per-prefix, per-day counter for document codes
type documentSequence struct {
	Prefix string `gorm:"primaryKey;type:varchar(10)"`
	Day    string `gorm:"primaryKey;type:varchar(8)"`
	Value  int64  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (documentSequence) TableName() string {
	return "document_sequences"
}

// GormCodeGenerator issues document codes like PO-20260829-0001 from a
// database-backed sequence. The increment runs on the caller's transaction so
// a rolled-back document does not consume a number.
type GormCodeGenerator struct {
	db *gorm.DB
}

// NewGormCodeGenerator creates a code generator over the given connection
func NewGormCodeGenerator(db *gorm.DB) *GormCodeGenerator {
	return &GormCodeGenerator{db: db}
}

// NextCode increments the sequence for prefix and date and returns the code
func (g *GormCodeGenerator) NextCode(ctx context.Context, prefix string, date time.Time) (string, error) {
	db := dbFromContext(ctx, g.db)
	day := date.Format("20060102")

	seq := documentSequence{Prefix: prefix, Day: day, Value: 1}
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "prefix"}, {Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value": gorm.Expr("document_sequences.value + 1"),
		}),
	}).Create(&seq).Error
	if err != nil {
		return "", fmt.Errorf("failed to advance sequence %s/%s: %w", prefix, day, err)
	}

	if err := db.Where("prefix = ? AND day = ?", prefix, day).First(&seq).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%04d", prefix, day, seq.Value), nil
}

// Ensure GormCodeGenerator implements CodeGenerator
var _ trade.CodeGenerator = (*GormCodeGenerator)(nil)
