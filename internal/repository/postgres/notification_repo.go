package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"talenthub-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const notificationColumns = `id, user_id, type, title, message, data, is_read, priority, category, expires_at, created_at`

type notificationRepo struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) domain.NotificationRepository {
	return &notificationRepo{db: db}
}

func scanNotification(row pgx.Row) (*domain.Notification, error) {
	var (
		n    domain.Notification
		data []byte
	)
	err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &data,
		&n.IsRead, &n.Priority, &n.Category, &n.ExpiresAt, &n.CreatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &n.Data); err != nil {
			return nil, fmt.Errorf("decode notification data: %w", err)
		}
	}
	return &n, nil
}

// Create inserts the notification. A second job lifecycle notification for the
// same (user, type, job) is silently dropped by the partial unique index and
// reported as ErrDuplicate.
func (r *notificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	data, err := json.Marshal(n.Data)
	if err != nil {
		return fmt.Errorf("encode notification data: %w", err)
	}

	var jobID *string
	if n.Data.JobID != "" {
		jobID = &n.Data.JobID
	}
	var expiresAt *time.Time
	if !n.ExpiresAt.IsZero() {
		expiresAt = &n.ExpiresAt
	}

	query := `
		INSERT INTO notifications (user_id, type, title, message, data, job_id, is_read, priority, category, expires_at)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7, $8, $9, COALESCE($10::timestamptz, now() + INTERVAL '90 days'))
		ON CONFLICT DO NOTHING
		RETURNING id, expires_at, created_at`

	err = r.db.QueryRow(ctx, query,
		n.UserID, string(n.Type), n.Title, n.Message, string(data), jobID,
		n.IsRead, string(n.Priority), string(n.Category), expiresAt,
	).Scan(&n.ID, &n.ExpiresAt, &n.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrDuplicate
	}
	return err
}

func (r *notificationRepo) List(ctx context.Context, f domain.NotificationFilter, now time.Time) ([]domain.Notification, error) {
	args := []interface{}{f.UserID, now}
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = $1 AND expires_at > $2`
	if f.UnreadOnly {
		query += ` AND is_read = FALSE`
	}
	if f.Category != "" {
		args = append(args, string(f.Category))
		query += fmt.Sprintf(` AND category = $%d`, len(args))
	}
	args = append(args, f.Limit, f.Skip)
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []domain.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *n)
	}
	return list, rows.Err()
}

func (r *notificationRepo) CountUnread(ctx context.Context, userID string, category domain.NotificationCategory, now time.Time) (int64, error) {
	query := `
		SELECT COUNT(*) FROM notifications
		WHERE user_id = $1 AND is_read = FALSE AND expires_at > $2
		  AND ($3::text = '' OR category = $3::text)`

	var count int64
	err := r.db.QueryRow(ctx, query, userID, now, string(category)).Scan(&count)
	return count, err
}

func (r *notificationRepo) MarkRead(ctx context.Context, id, userID string) (*domain.Notification, error) {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2 RETURNING ` + notificationColumns
	return scanNotification(r.db.QueryRow(ctx, query, id, userID))
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, userID string, category domain.NotificationCategory) (int64, error) {
	query := `
		UPDATE notifications SET is_read = TRUE
		WHERE user_id = $1 AND is_read = FALSE AND ($2::text = '' OR category = $2::text)`

	tag, err := r.db.Exec(ctx, query, userID, string(category))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *notificationRepo) Delete(ctx context.Context, id, userID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *notificationRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM notifications WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
