package sql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/swaplane/swaplane/storage/types"
)

type Storage struct {
	pool *pgxpool.Pool
}

func NewStorage(pool *pgxpool.Pool) *Storage {
	return &Storage{
		pool: pool,
	}
}

func (s *Storage) SaveExchange(ctx context.Context, r *types.ExchangeRecord) error {
	_, err := s.pool.Exec(
		ctx,
		`INSERT INTO exchanges
			(id, user_id, bid_id, direction_id, currency_from, currency_to,
			 amount, rate, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at`,
		r.ID,
		r.UserID,
		r.BidID,
		r.DirectionID,
		r.From,
		r.To,
		decimalToNumeric(r.Amount),
		decimalToNumeric(r.Rate),
		r.Status.String(),
		timeToTimestampz(r.CreatedAt),
		timeToTimestampz(r.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("unable to save exchange: %w", err)
	}

	return nil
}

func (s *Storage) GetExchange(ctx context.Context, id string) (*types.ExchangeRecord, error) {
	row := s.pool.QueryRow(
		ctx,
		`SELECT id, user_id, bid_id, direction_id, currency_from, currency_to,
			amount, rate, status, created_at, updated_at
		FROM exchanges
		WHERE id = $1`,
		id,
	)

	record, err := scanExchange(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil //nolint:nilnil // valid case
		}

		return nil, fmt.Errorf("unable to fetch exchange: %w", err)
	}

	return record, nil
}

func (s *Storage) ListExchanges(
	ctx context.Context,
	query *types.HistoryQuery,
) (*types.Page[*types.ExchangeRecord], error) {
	var status string
	if query.Status != nil {
		status = query.Status.String()
	}

	lim := query.Limit
	if lim == 0 {
		lim = 100
	}

	if lim > 500 {
		lim = 500
	}

	rows, err := s.pool.Query(
		ctx,
		`SELECT id, user_id, bid_id, direction_id, currency_from, currency_to,
			amount, rate, status, created_at, updated_at,
			COUNT(*) OVER () AS total
		FROM exchanges
		WHERE ($1 = '' OR user_id = $1)
		  AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`,
		query.UserID,
		status,
		lim,
		query.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch exchanges: %w", err)
	}
	defer rows.Close()

	var (
		items []*types.ExchangeRecord
		total int64
	)

	for rows.Next() {
		record, rowTotal, err := scanExchangeWithTotal(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to fetch exchanges: %w", err)
		}

		items = append(items, record)
		total = rowTotal
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to fetch exchanges: %w", err)
	}

	return &types.Page[*types.ExchangeRecord]{
		Results: items,
		Total:   total,
	}, nil
}

func (s *Storage) UpdateExchangeStatus(
	ctx context.Context,
	id string,
	status types.ExchangeStatus,
) error {
	_, err := s.pool.Exec(
		ctx,
		`UPDATE exchanges SET status = $2, updated_at = $3 WHERE id = $1`,
		id,
		status.String(),
		timeToTimestampz(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("unable to update exchange status: %w", err)
	}

	return nil
}

func (s *Storage) ListOpen(ctx context.Context) ([]*types.ExchangeRecord, error) {
	rows, err := s.pool.Query(
		ctx,
		`SELECT id, user_id, bid_id, direction_id, currency_from, currency_to,
			amount, rate, status, created_at, updated_at
		FROM exchanges
		WHERE status NOT IN ($1, $2, $3)
		ORDER BY created_at ASC, id ASC`,
		types.StatusCompleted.String(),
		types.StatusCancelled.String(),
		types.StatusRejected.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch open exchanges: %w", err)
	}
	defer rows.Close()

	var items []*types.ExchangeRecord

	for rows.Next() {
		record, err := scanExchange(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to fetch open exchanges: %w", err)
		}

		items = append(items, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to fetch open exchanges: %w", err)
	}

	return items, nil
}

// scanExchange parses a single exchange row into the common Go type
func scanExchange(row pgx.Row) (*types.ExchangeRecord, error) {
	var (
		record               types.ExchangeRecord
		amount, rate         pgtype.Numeric
		status               string
		createdAt, updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.BidID,
		&record.DirectionID,
		&record.From,
		&record.To,
		&amount,
		&rate,
		&status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Amount = numericToDecimal(amount)
	record.Rate = numericToDecimal(rate)
	record.Status = types.ExchangeStatus(status)
	record.CreatedAt = timestampzToTime(createdAt)
	record.UpdatedAt = timestampzToTime(updatedAt)

	return &record, nil
}

// scanExchangeWithTotal additionally reads the window total column
func scanExchangeWithTotal(row pgx.Row) (*types.ExchangeRecord, int64, error) {
	var (
		record               types.ExchangeRecord
		amount, rate         pgtype.Numeric
		status               string
		createdAt, updatedAt pgtype.Timestamptz
		total                int64
	)

	err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.BidID,
		&record.DirectionID,
		&record.From,
		&record.To,
		&amount,
		&rate,
		&status,
		&createdAt,
		&updatedAt,
		&total,
	)
	if err != nil {
		return nil, 0, err
	}

	record.Amount = numericToDecimal(amount)
	record.Rate = numericToDecimal(rate)
	record.Status = types.ExchangeStatus(status)
	record.CreatedAt = timestampzToTime(createdAt)
	record.UpdatedAt = timestampzToTime(updatedAt)

	return &record, total, nil
}

// decimalToNumeric converts the decimal value to postgres numeric
func decimalToNumeric(value decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Int:   value.Coefficient(),
		Exp:   value.Exponent(),
		Valid: true,
	}
}

// numericToDecimal converts the postgres value to decimal
func numericToDecimal(value pgtype.Numeric) decimal.Decimal {
	if !value.Valid || value.Int == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(value.Int, value.Exp)
}

// timeToTimestampz converts the time value to postgres timestamp
func timeToTimestampz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{
		Time:  t.UTC(),
		Valid: true,
	}
}

// timestampzToTime converts the postgres timestamp value to time
func timestampzToTime(ts pgtype.Timestamptz) time.Time {
	if !ts.Valid {
		return time.Time{}
	}

	return ts.Time
}
