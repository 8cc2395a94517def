package database

import (
	"context"
	"time"

	"awn-booking/config"
	"awn-booking/internal/domain/repository"

	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const readRetryBase = 50 * time.Millisecond

type gormTransactor struct {
	db          *gorm.DB
	log         *logrus.Logger
	timeout     time.Duration
	readRetries uint64
}

func NewTransactor(db *gorm.DB, log *logrus.Logger, cfg config.DBConfig) repository.Transactor {
	return &gormTransactor{
		db:          db,
		log:         log,
		timeout:     cfg.QueryTimeout,
		readRetries: cfg.ReadRetries,
	}
}

// Read runs fn with a per attempt timeout, retrying transient failures with exponential backoff.
func (t *gormTransactor) Read(ctx context.Context, fn func(db *gorm.DB) error) error {
	backoff := retry.WithMaxRetries(t.readRetries, retry.NewExponential(readRetryBase))
	attempt := 0

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		queryCtx, cancel := context.WithTimeout(ctx, t.timeout)
		defer cancel()

		err := fn(t.db.WithContext(queryCtx))
		if err != nil && IsTransient(err) {
			t.log.WithField("attempt", attempt).Warnf("Transient database error, retrying: %+v", err)
			return retry.RetryableError(err)
		}
		return err
	})
}

// WithinTransaction runs fn in a single transaction under the query timeout. Writes are never retried.
func (t *gormTransactor) WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	queryCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	return t.db.WithContext(queryCtx).Transaction(fn)
}
