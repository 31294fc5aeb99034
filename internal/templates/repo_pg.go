package templates

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type PGRepo struct {
	DB *sql.DB
}

const templateColumns = `id, name, description, type, html_content, css_styles, preview_url, is_active, created_at, updated_at`

func (r *PGRepo) ListActive(ctx context.Context) ([]Template, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+templateColumns+` FROM templates WHERE is_active = true ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Template, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Template{}, ErrNotFound
	}
	row := r.DB.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM templates WHERE id = $1 LIMIT 1`, id)
	t, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Template{}, ErrNotFound
	}
	return t, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTemplate(s scanner) (Template, error) {
	var (
		t           Template
		typ         string
		description sql.NullString
		css         sql.NullString
		preview     sql.NullString
	)
	if err := s.Scan(&t.ID, &t.Name, &description, &typ, &t.HTMLContent, &css, &preview, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Template{}, err
		}
		return Template{}, fmt.Errorf("scan template: %w", err)
	}
	t.Type = Type(typ)
	t.Description = description.String
	t.CSSStyles = css.String
	t.PreviewURL = preview.String
	return t, nil
}

var _ Repo = (*PGRepo)(nil)
