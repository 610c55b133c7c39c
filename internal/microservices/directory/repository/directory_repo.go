// Package repository reads the customer and staff directory. Accounts are
// managed elsewhere; this side only counts and enumerates them.
package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type DirectoryRepositoryInterface interface {
	ListStaffIDs(ctx context.Context) ([]int64, error)
	CountStaff(ctx context.Context) (int64, error)
	CountCustomers(ctx context.Context) (int64, error)
}

type DirectoryRepository struct {
	db *sqlx.DB
}

func NewDirectoryRepository(db *sqlx.DB) DirectoryRepositoryInterface {
	return &DirectoryRepository{db: db}
}

// ListStaffIDs returns every staff id in ascending order.
func (r *DirectoryRepository) ListStaffIDs(ctx context.Context) ([]int64, error) {
	ids := []int64{}
	err := r.db.SelectContext(ctx, &ids, `SELECT id FROM staff ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list staff ids: %w", err)
	}
	return ids, nil
}

func (r *DirectoryRepository) CountStaff(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM staff`); err != nil {
		return 0, fmt.Errorf("count staff: %w", err)
	}
	return n, nil
}

func (r *DirectoryRepository) CountCustomers(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM customers`); err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return n, nil
}
