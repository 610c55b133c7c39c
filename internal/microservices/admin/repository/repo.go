package repository

import "github.com/jmoiron/sqlx"

type Repository struct {
	ReportRepo ReportRepositoryInterface
	ReviewRepo ReviewRepositoryInterface
}

func New(db *sqlx.DB) *Repository {
	return &Repository{
		ReportRepo: NewReportRepository(db),
		ReviewRepo: NewReviewRepository(db),
	}
}
