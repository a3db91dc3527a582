package coupon

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"coupon-api/internal/db"
)

// Repository persists coupons. Implementations return ErrNotFound and
// ErrDuplicate so handlers can classify with errors.Is.
type Repository interface {
	List(ctx context.Context) ([]Coupon, error)
	GetByID(ctx context.Context, id int) (Coupon, error)
	GetByCode(ctx context.Context, code string) (Coupon, error)
	Create(ctx context.Context, req Request) (Coupon, error)
	Update(ctx context.Context, id int, req Request) (Coupon, error)
	DeleteByID(ctx context.Context, id int) error
	DeleteByCode(ctx context.Context, code string) error
}

const uniqueViolation = pq.ErrorCode("23505")

const selectColumns = `id, code, discount, max_usage_count, expiration_date, date_created, date_updated`

type PostgresRepository struct {
	db *db.DB
}

func NewPostgresRepository(database *db.DB) *PostgresRepository {
	return &PostgresRepository{db: database}
}

func (r *PostgresRepository) List(ctx context.Context) ([]Coupon, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM coupon ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()

	coupons := []Coupon{}
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("scan coupon: %w", err)
		}
		coupons = append(coupons, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	return coupons, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (Coupon, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM coupon WHERE id = $1`, id)
	return scanOne(row)
}

func (r *PostgresRepository) GetByCode(ctx context.Context, code string) (Coupon, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM coupon WHERE code = $1`, code)
	return scanOne(row)
}

func (r *PostgresRepository) Create(ctx context.Context, req Request) (Coupon, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO coupon (code, discount, max_usage_count)
		VALUES ($1, $2, $3)
		RETURNING `+selectColumns,
		req.Code, req.Discount, req.MaxUsageCount,
	)
	return scanOne(row)
}

func (r *PostgresRepository) Update(ctx context.Context, id int, req Request) (Coupon, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE coupon
		SET code = $2, discount = $3, max_usage_count = $4, date_updated = NOW()
		WHERE id = $1
		RETURNING `+selectColumns,
		id, req.Code, req.Discount, req.MaxUsageCount,
	)
	return scanOne(row)
}

func (r *PostgresRepository) DeleteByID(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM coupon WHERE id = $1`, id)
	return deleted(res, err)
}

func (r *PostgresRepository) DeleteByCode(ctx context.Context, code string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM coupon WHERE code = $1`, code)
	return deleted(res, err)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCoupon(s scanner) (Coupon, error) {
	var (
		c        Coupon
		maxUsage sql.NullInt64
		expires  sql.NullTime
		created  sql.NullTime
		updated  sql.NullTime
	)

	if err := s.Scan(&c.ID, &c.Code, &c.Discount, &maxUsage, &expires, &created, &updated); err != nil {
		return Coupon{}, err
	}

	if maxUsage.Valid {
		v := int(maxUsage.Int64)
		c.MaxUsageCount = &v
	}
	c.ExpirationDate = nullTime(expires)
	c.DateCreated = nullTime(created)
	c.DateUpdated = nullTime(updated)

	return c, nil
}

func scanOne(row *sql.Row) (Coupon, error) {
	c, err := scanCoupon(row)
	if err != nil {
		return Coupon{}, mapError(err)
	}
	return c, nil
}

func deleted(res sql.Result, err error) error {
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Constraint)
	}

	return err
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
