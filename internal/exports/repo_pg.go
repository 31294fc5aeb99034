package exports

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

type PGRepo struct {
	DB *sql.DB
}

const exportColumns = `id, portfolio_id, user_id, format, file_url, file_size, generated_at`

func (r *PGRepo) Create(ctx context.Context, e Export) error {
	const query = `
INSERT INTO portfolio_exports (id, portfolio_id, user_id, format, file_url, file_size, generated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.DB.ExecContext(ctx, query,
		e.ID, e.PortfolioID, e.UserID, string(e.Format), e.FileURL, e.FileSize, e.GeneratedAt)
	return err
}

func (r *PGRepo) ListByPortfolio(ctx context.Context, userID, portfolioID string) ([]Export, error) {
	const query = `SELECT ` + exportColumns + ` FROM portfolio_exports
WHERE user_id = $1 AND portfolio_id = $2 ORDER BY generated_at DESC`
	if !validID(portfolioID) {
		return []Export{}, nil
	}
	rows, err := r.DB.QueryContext(ctx, query, userID, portfolioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Export, 0)
	for rows.Next() {
		e, err := scanExport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PGRepo) GetByID(ctx context.Context, userID, id string) (Export, error) {
	const query = `SELECT ` + exportColumns + ` FROM portfolio_exports WHERE id = $1 AND user_id = $2 LIMIT 1`
	if !validID(id) {
		return Export{}, ErrNotFound
	}
	e, err := scanExport(r.DB.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return Export{}, ErrNotFound
	}
	return e, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExport(s scanner) (Export, error) {
	var (
		e      Export
		format string
	)
	if err := s.Scan(&e.ID, &e.PortfolioID, &e.UserID, &format, &e.FileURL, &e.FileSize, &e.GeneratedAt); err != nil {
		return Export{}, err
	}
	e.Format = Format(format)
	return e, nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

var _ Repo = (*PGRepo)(nil)
