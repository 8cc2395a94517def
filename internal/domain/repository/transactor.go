package repository

import (
	"context"

	"gorm.io/gorm"
)

// Transactor runs repository calls against the database under the configured
// query timeout. Read retries fn on transient failures, so fn must be idempotent.
type Transactor interface {
	Read(ctx context.Context, fn func(db *gorm.DB) error) error
	WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}
