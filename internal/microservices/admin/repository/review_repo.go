package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"laundry-service/internal/domain"
)

// ReviewRepositoryInterface is read only; reviews are written by the
// customer portal.
type ReviewRepositoryInterface interface {
	ListAll(ctx context.Context) ([]domain.Review, error)
}

type ReviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) ReviewRepositoryInterface {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) ListAll(ctx context.Context) ([]domain.Review, error) {
	out := []domain.Review{}
	if err := r.db.SelectContext(ctx, &out, `SELECT id, customer_id, rating, created_at FROM reviews ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return out, nil
}
