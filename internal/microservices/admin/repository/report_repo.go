package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"laundry-service/internal/domain"
)

const reportColumns = `id, completed_order_count, total_customers, total_income, report_date, time_range, generated_by`

type ReportRepositoryInterface interface {
	Save(ctx context.Context, r *domain.Report) error
	List(ctx context.Context, limit int) ([]domain.Report, error)
	GetByID(ctx context.Context, id int64) (domain.Report, error)
	Delete(ctx context.Context, id int64) error
	ListByTimeRange(ctx context.Context, timeRange string) ([]domain.Report, error)
}

type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) ReportRepositoryInterface {
	return &ReportRepository{db: db}
}

// Save inserts r and sets r.ID. Reports are never updated afterwards.
func (rr *ReportRepository) Save(ctx context.Context, r *domain.Report) error {
	err := rr.db.QueryRowxContext(ctx, rr.db.Rebind(`
		INSERT INTO reports
		    (completed_order_count, total_customers, total_income, report_date, time_range, generated_by)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`),
		r.CompletedOrderCount,
		r.TotalCustomers,
		r.TotalIncome,
		r.ReportDate.UTC(),
		r.TimeRange,
		r.GeneratedBy,
	).Scan(&r.ID)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

// List returns up to limit reports, newest first.
func (rr *ReportRepository) List(ctx context.Context, limit int) ([]domain.Report, error) {
	out := []domain.Report{}
	err := rr.db.SelectContext(ctx, &out, rr.db.Rebind(`
		SELECT `+reportColumns+` FROM reports
		ORDER BY report_date DESC, id DESC
		LIMIT ?
	`), limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return out, nil
}

func (rr *ReportRepository) GetByID(ctx context.Context, id int64) (domain.Report, error) {
	var r domain.Report
	err := rr.db.GetContext(ctx, &r, rr.db.Rebind(`SELECT `+reportColumns+` FROM reports WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Report{}, domain.NotFound("report", id)
	}
	if err != nil {
		return domain.Report{}, fmt.Errorf("get report %d: %w", id, err)
	}
	return r, nil
}

func (rr *ReportRepository) Delete(ctx context.Context, id int64) error {
	res, err := rr.db.ExecContext(ctx, rr.db.Rebind(`DELETE FROM reports WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete report %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete report %d: %w", id, err)
	}
	if n == 0 {
		return domain.NotFound("report", id)
	}
	return nil
}

func (rr *ReportRepository) ListByTimeRange(ctx context.Context, timeRange string) ([]domain.Report, error) {
	out := []domain.Report{}
	err := rr.db.SelectContext(ctx, &out, rr.db.Rebind(`
		SELECT `+reportColumns+` FROM reports
		WHERE time_range = ?
		ORDER BY report_date DESC, id DESC
	`), timeRange)
	if err != nil {
		return nil, fmt.Errorf("list reports for %q: %w", timeRange, err)
	}
	return out, nil
}
