package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"opencatalogi/internal/notifications"
	"opencatalogi/pkg/platform/sentinel"
)

// PostgresStore persists ledger entries in the failed_notifications table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Append(ctx context.Context, fn *notifications.FailedNotification) error {
	msg, err := json.Marshal(fn.Message)
	if err != nil {
		return fmt.Errorf("marshal failed notification: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO failed_notifications (id, logged_at, kanaal, message) VALUES ($1, $2, $3, $4)`,
		fn.ID, fn.LoggedAt, fn.Kanaal, msg)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return sentinel.ErrConflict
	}
	return err
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*notifications.FailedNotification, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, logged_at, kanaal, message FROM failed_notifications WHERE id = $1`, id)
	return scanFailedNotification(row)
}

func (s *PostgresStore) List(ctx context.Context, kanaal notifications.Kanaal) ([]*notifications.FailedNotification, error) {
	query := `SELECT id, logged_at, kanaal, message FROM failed_notifications`
	args := []any{}
	if kanaal != "" {
		query += ` WHERE kanaal = $1`
		args = append(args, kanaal)
	}
	query += ` ORDER BY logged_at`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*notifications.FailedNotification
	for rows.Next() {
		fn, err := scanFailedNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, fn)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM failed_notifications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM failed_notifications WHERE logged_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func scanFailedNotification(row pgx.Row) (*notifications.FailedNotification, error) {
	var fn notifications.FailedNotification
	var msg []byte
	err := row.Scan(&fn.ID, &fn.LoggedAt, &fn.Kanaal, &msg)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(msg, &fn.Message); err != nil {
		return nil, fmt.Errorf("unmarshal failed notification: %w", err)
	}
	return &fn, nil
}
