package repository

import "github.com/jmoiron/sqlx"

type Repository struct {
	NotificationRepo NotificationRepositoryInterface
}

func New(db *sqlx.DB) *Repository {
	return &Repository{
		NotificationRepo: NewNotificationRepository(db),
	}
}
