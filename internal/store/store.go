// internal/store/store.go

// Package store is the typed data access layer over the POS tables. Every
// query is scoped by franchise_id.
package store

import (
	"context"
	"database/sql"
	stderrors "errors"

	"franchise-pos/internal/common/errors"
	"franchise-pos/internal/common/logger"
	"franchise-pos/internal/models"

	"github.com/lib/pq"
)

const (
	defaultListLimit = 50
	uniqueViolation  = "23505"
)

type Store struct {
	db       *sql.DB
	timezone string
	logger   logger.Logger
}

// New returns a Store over db. timezone is the IANA zone used to bucket
// sales by calendar day.
func New(db *sql.DB, timezone string, log logger.Logger) *Store {
	if timezone == "" {
		timezone = "UTC"
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Store{db: db, timezone: timezone, logger: log}
}

func queryError(ctx context.Context, qt models.QueryType, err error) error {
	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) || stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewQueryTimeoutError(string(qt))
	}
	return errors.NewQueryExecutionFailedError(string(qt), err)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return stderrors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
