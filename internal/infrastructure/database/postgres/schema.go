package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"customer-service/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
)

// SeedCount is the number of demo customers inserted into an empty store.
const SeedCount = 25

const createCustomersTable = `
CREATE TABLE IF NOT EXISTS customers (
    id            BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
    name          TEXT NOT NULL,
    email         TEXT NOT NULL,
    phone_number  VARCHAR(10) NOT NULL,
    date_of_birth DATE NOT NULL
)`

var seedColumns = []string{"id", "name", "email", "phone_number", "date_of_birth"}

func EnsureSchema(ctx context.Context, db DBPool, logger *slog.Logger) error {
	logger.InfoContext(ctx, "Ensuring customers schema exists")
	if _, err := db.Exec(ctx, createCustomersTable); err != nil {
		logger.ErrorContext(ctx, "Failed to create customers table", slog.Any("error", err))
		return apperrors.WrapDatabaseError(err, "failed to ensure schema")
	}
	return nil
}

// Seed inserts SeedCount demo customers when the table is empty and moves the
// identity sequence past them. It runs in one transaction holding an exclusive
// table lock, so concurrent starts seed at most once.
func Seed(ctx context.Context, db DBPool, now func() time.Time, logger *slog.Logger) error {
	if now == nil {
		now = time.Now
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to begin seed transaction", slog.Any("error", err))
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	seeded, err := seed(ctx, tx, now())
	if err != nil {
		logger.ErrorContext(ctx, "Failed to seed customers, rolling back", slog.Any("error", err))
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			logger.ErrorContext(ctx, "Failed to rollback seed transaction", slog.Any("error", rbErr))
		}
		return apperrors.WrapDatabaseError(err, "failed to seed customers")
	}

	if err := tx.Commit(ctx); err != nil {
		logger.ErrorContext(ctx, "Failed to commit seed transaction", slog.Any("error", err))
		return apperrors.WrapDatabaseError(err, "failed to commit seed")
	}

	if seeded {
		logger.InfoContext(ctx, "Seeded demo customers", slog.Int("count", SeedCount))
	} else {
		logger.InfoContext(ctx, "Customers table already populated, skipping seed")
	}
	return nil
}

func seed(ctx context.Context, tx pgx.Tx, today time.Time) (bool, error) {
	if _, err := tx.Exec(ctx, `LOCK TABLE customers IN EXCLUSIVE MODE`); err != nil {
		return false, err
	}

	var count int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&count); err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	copied, err := tx.CopyFrom(ctx, pgx.Identifier{"customers"}, seedColumns, pgx.CopyFromRows(SeedRows(today)))
	if err != nil {
		return false, err
	}
	if copied != SeedCount {
		return false, fmt.Errorf("seed copied %d rows, expected %d", copied, SeedCount)
	}

	if _, err := tx.Exec(ctx, `SELECT setval(pg_get_serial_sequence('customers', 'id'), (SELECT MAX(id) FROM customers))`); err != nil {
		return false, err
	}
	return true, nil
}

// SeedRows returns the demo rows in seedColumns order. Customer i is born
// 30+i years before today.
func SeedRows(today time.Time) [][]any {
	y, m, d := today.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	rows := make([][]any, 0, SeedCount)
	for i := 1; i <= SeedCount; i++ {
		rows = append(rows, []any{
			int64(i),
			fmt.Sprintf("Customer %d", i),
			fmt.Sprintf("customer%d@example.com", i),
			"0123456789",
			date.AddDate(-(30 + i), 0, 0),
		})
	}
	return rows
}
