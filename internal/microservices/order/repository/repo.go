package repository

import "github.com/jmoiron/sqlx"

type Repository struct {
	OrderRepo OrderRepositoryInterface
}

func New(db *sqlx.DB) *Repository {
	return &Repository{
		OrderRepo: NewOrderRepository(db),
	}
}
