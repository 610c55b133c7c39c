package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"laundry-service/internal/connections/database"
	"laundry-service/internal/domain"
)

const notificationColumns = `id, recipient_kind, recipient_id, message, type, entity_id, entity_type, created_at, is_read, read_at`

type NotificationRepositoryInterface interface {
	Create(ctx context.Context, n *domain.Notification) error
	GetByID(ctx context.Context, id int64) (domain.Notification, error)
	ListByRecipient(ctx context.Context, kind domain.RecipientKind, recipientID int64) ([]domain.Notification, error)
	ListUnread(ctx context.Context, kind domain.RecipientKind, recipientID int64) ([]domain.Notification, error)
	CountUnread(ctx context.Context, kind domain.RecipientKind, recipientID int64) (int64, error)
	MarkRead(ctx context.Context, id int64, now time.Time) (domain.Notification, error)
	Delete(ctx context.Context, id int64) error
}

type NotificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepositoryInterface {
	return &NotificationRepository{db: db}
}

// Insert writes n through q, which may be a transaction owned by the caller,
// and sets n.ID.
func Insert(ctx context.Context, q sqlx.ExtContext, n *domain.Notification) error {
	var readAt *time.Time
	if n.ReadAt != nil {
		t := n.ReadAt.UTC()
		readAt = &t
	}
	err := q.QueryRowxContext(ctx, q.Rebind(`
		INSERT INTO notifications
		    (recipient_kind, recipient_id, message, type, entity_id, entity_type, created_at, is_read, read_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`),
		string(n.RecipientKind),
		n.RecipientID,
		n.Message,
		string(n.Type),
		n.EntityID,
		n.EntityType,
		n.CreatedAt.UTC(),
		n.Read,
		readAt,
	).Scan(&n.ID)
	if err != nil {
		return fmt.Errorf("insert notification for %s %d: %w", n.RecipientKind, n.RecipientID, err)
	}
	return nil
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	return Insert(ctx, r.db, n)
}

func (r *NotificationRepository) GetByID(ctx context.Context, id int64) (domain.Notification, error) {
	var n domain.Notification
	err := r.db.GetContext(ctx, &n, r.db.Rebind(`SELECT `+notificationColumns+` FROM notifications WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Notification{}, domain.NotFound("notification", id)
	}
	if err != nil {
		return domain.Notification{}, fmt.Errorf("get notification %d: %w", id, err)
	}
	return n, nil
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, kind domain.RecipientKind, recipientID int64) ([]domain.Notification, error) {
	return r.list(ctx, `recipient_kind = ? AND recipient_id = ?`, string(kind), recipientID)
}

func (r *NotificationRepository) ListUnread(ctx context.Context, kind domain.RecipientKind, recipientID int64) ([]domain.Notification, error) {
	return r.list(ctx, `recipient_kind = ? AND recipient_id = ? AND is_read = ?`, string(kind), recipientID, false)
}

func (r *NotificationRepository) list(ctx context.Context, where string, args ...any) ([]domain.Notification, error) {
	out := []domain.Notification{}
	query := r.db.Rebind(`SELECT ` + notificationColumns + ` FROM notifications WHERE ` + where + ` ORDER BY created_at DESC, id DESC`)
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, kind domain.RecipientKind, recipientID int64) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, r.db.Rebind(`
		SELECT COUNT(*) FROM notifications
		WHERE recipient_kind = ? AND recipient_id = ? AND is_read = ?
	`), string(kind), recipientID, false)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}

// MarkRead stamps read_at only on the first call; later calls return the row
// unchanged.
func (r *NotificationRepository) MarkRead(ctx context.Context, id int64, now time.Time) (domain.Notification, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var n domain.Notification
	err = tx.GetContext(ctx, &n, tx.Rebind(`SELECT `+notificationColumns+` FROM notifications WHERE id = ?`+database.ForUpdate(tx)), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Notification{}, domain.NotFound("notification", id)
	}
	if err != nil {
		return domain.Notification{}, fmt.Errorf("get notification %d: %w", id, err)
	}

	if !n.MarkRead(now.UTC()) {
		return n, nil
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE notifications SET is_read = ?, read_at = ? WHERE id = ?`),
		n.Read, *n.ReadAt, id); err != nil {
		return domain.Notification{}, fmt.Errorf("mark notification %d read: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Notification{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return n, nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM notifications WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete notification %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete notification %d: %w", id, err)
	}
	if n == 0 {
		return domain.NotFound("notification", id)
	}
	return nil
}
