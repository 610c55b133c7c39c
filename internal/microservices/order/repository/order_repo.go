package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"laundry-service/internal/connections/database"
	"laundry-service/internal/domain"
	notifrepo "laundry-service/internal/microservices/notification/repository"
)

const orderColumns = `id, placed_at, customer_id, customer_name, address, items, service_type,
	special_instruction, sub_total, tax, total, status, staff_id`

// TransitionFunc mutates the locked order and returns the notifications to
// write in the same transaction. Returning an error rolls everything back.
type TransitionFunc func(o *domain.Order) ([]domain.Notification, error)

type TransitionResult struct {
	Order         domain.Order
	OldStatus     domain.OrderStatus
	Notifications []domain.Notification
}

// ListFilter narrows List. Zero values mean "any".
type ListFilter struct {
	CustomerID int64
	StaffID    int64
	Status     domain.OrderStatus
}

type OrderRepositoryInterface interface {
	// PlaceTx inserts o, the notifications built by notify and the first
	// status-log row atomically. o.ID is set on success.
	PlaceTx(ctx context.Context, o *domain.Order, changedBy string, notify func(orderID int64) []domain.Notification) ([]domain.Notification, error)
	TransitionTx(ctx context.Context, orderID int64, changedBy string, at time.Time, fn TransitionFunc) (TransitionResult, error)

	GetByID(ctx context.Context, id int64) (domain.Order, error)
	List(ctx context.Context, f ListFilter) ([]domain.Order, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]domain.Order, error)
	CountBetween(ctx context.Context, from, to time.Time) (int64, error)
	SumTotalBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	Timeline(ctx context.Context, orderID int64) ([]domain.StatusLogEntry, error)
}

type OrderRepository struct {
	db *sqlx.DB
}

func NewOrderRepository(db *sqlx.DB) OrderRepositoryInterface {
	return &OrderRepository{db: db}
}

func (or *OrderRepository) PlaceTx(ctx context.Context, o *domain.Order, changedBy string, notify func(orderID int64) []domain.Notification) ([]domain.Notification, error) {
	tx, err := or.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	o.RecomputeTotal()

	// 1. Insert order
	err = tx.QueryRowxContext(ctx, tx.Rebind(`
		INSERT INTO orders
		    (placed_at, customer_id, customer_name, address, items, service_type,
		     special_instruction, sub_total, tax, total, status, staff_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`),
		o.PlacedAt.UTC(),
		o.CustomerID,
		o.CustomerName,
		o.Address,
		o.Items,
		o.ServiceType,
		o.SpecialInstruction,
		o.SubTotal,
		o.Tax,
		o.Total,
		string(o.Status),
		o.StaffID,
	).Scan(&o.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	// 2. Staff broadcast
	var notes []domain.Notification
	if notify != nil {
		notes = notify(o.ID)
	}
	for i := range notes {
		if err := notifrepo.Insert(ctx, tx, &notes[i]); err != nil {
			return nil, err
		}
	}

	// 3. Insert into order_status_log
	if err := appendStatusLog(ctx, tx, o.ID, o.Status, changedBy, o.PlacedAt, "order placed"); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return notes, nil
}

// TransitionTx locks the order row, lets fn decide the change, then writes the
// order, fn's notifications and a status-log row in one transaction.
func (or *OrderRepository) TransitionTx(ctx context.Context, orderID int64, changedBy string, at time.Time, fn TransitionFunc) (TransitionResult, error) {
	tx, err := or.db.BeginTxx(ctx, nil)
	if err != nil {
		return TransitionResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var o domain.Order
	err = tx.GetContext(ctx, &o, tx.Rebind(`SELECT `+orderColumns+` FROM orders WHERE id = ?`+database.ForUpdate(tx)), orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return TransitionResult{}, domain.NotFound("order", orderID)
	}
	if err != nil {
		return TransitionResult{}, fmt.Errorf("lock order %d: %w", orderID, err)
	}

	old := o.Status
	notes, err := fn(&o)
	if err != nil {
		return TransitionResult{}, err
	}
	o.RecomputeTotal()

	if _, err := tx.ExecContext(ctx, tx.Rebind(`
		UPDATE orders SET status = ?, staff_id = ?, sub_total = ?, tax = ?, total = ?
		WHERE id = ?
	`), string(o.Status), o.StaffID, o.SubTotal, o.Tax, o.Total, o.ID); err != nil {
		return TransitionResult{}, fmt.Errorf("update order %d: %w", o.ID, err)
	}

	for i := range notes {
		if err := notifrepo.Insert(ctx, tx, &notes[i]); err != nil {
			return TransitionResult{}, err
		}
	}

	if err := appendStatusLog(ctx, tx, o.ID, o.Status, changedBy, at, string(old)+" -> "+string(o.Status)); err != nil {
		return TransitionResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return TransitionResult{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return TransitionResult{Order: o, OldStatus: old, Notifications: notes}, nil
}

func appendStatusLog(ctx context.Context, tx *sqlx.Tx, orderID int64, status domain.OrderStatus, changedBy string, at time.Time, notes string) error {
	_, err := tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO order_status_log (order_id, status, changed_by, changed_at, notes)
		VALUES (?, ?, ?, ?, ?)
	`), orderID, string(status), changedBy, at.UTC(), notes)
	if err != nil {
		return fmt.Errorf("failed to insert order status log: %w", err)
	}
	return nil
}

func (or *OrderRepository) GetByID(ctx context.Context, id int64) (domain.Order, error) {
	var o domain.Order
	err := or.db.GetContext(ctx, &o, or.db.Rebind(`SELECT `+orderColumns+` FROM orders WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.NotFound("order", id)
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("get order %d: %w", id, err)
	}
	return o, nil
}

func (or *OrderRepository) List(ctx context.Context, f ListFilter) ([]domain.Order, error) {
	var (
		where []string
		args  []any
	)
	if f.CustomerID != 0 {
		where = append(where, "customer_id = ?")
		args = append(args, f.CustomerID)
	}
	if f.StaffID != 0 {
		where = append(where, "staff_id = ?")
		args = append(args, f.StaffID)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY placed_at DESC, id DESC`

	out := []domain.Order{}
	if err := or.db.SelectContext(ctx, &out, or.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return out, nil
}

// ListBetween returns orders placed in [from, to).
func (or *OrderRepository) ListBetween(ctx context.Context, from, to time.Time) ([]domain.Order, error) {
	out := []domain.Order{}
	err := or.db.SelectContext(ctx, &out, or.db.Rebind(`
		SELECT `+orderColumns+` FROM orders
		WHERE placed_at >= ? AND placed_at < ?
		ORDER BY placed_at, id
	`), from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("list orders between %s and %s: %w", from.Format(time.RFC3339), to.Format(time.RFC3339), err)
	}
	return out, nil
}

func (or *OrderRepository) CountBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := or.db.GetContext(ctx, &n, or.db.Rebind(`
		SELECT COUNT(*) FROM orders WHERE placed_at >= ? AND placed_at < ?
	`), from.UTC(), to.UTC())
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

// SumTotalBetween adds order totals in Go so SQLite TEXT money stays exact.
func (or *OrderRepository) SumTotalBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var totals []decimal.Decimal
	err := or.db.SelectContext(ctx, &totals, or.db.Rebind(`
		SELECT total FROM orders WHERE placed_at >= ? AND placed_at < ?
	`), from.UTC(), to.UTC())
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum order totals: %w", err)
	}
	sum := decimal.Zero
	for _, t := range totals {
		sum = sum.Add(t)
	}
	return sum, nil
}

func (or *OrderRepository) Timeline(ctx context.Context, orderID int64) ([]domain.StatusLogEntry, error) {
	out := []domain.StatusLogEntry{}
	err := or.db.SelectContext(ctx, &out, or.db.Rebind(`
		SELECT order_id, status, changed_by, changed_at, notes
		FROM order_status_log WHERE order_id = ?
		ORDER BY changed_at, id
	`), orderID)
	if err != nil {
		return nil, fmt.Errorf("order %d timeline: %w", orderID, err)
	}
	return out, nil
}
