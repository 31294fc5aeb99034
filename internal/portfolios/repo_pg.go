package portfolios

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type PGRepo struct {
	DB *sql.DB
}

const portfolioColumns = `id, user_id, title, template_id, content, ai_prompt, generated_content,
  status, revision_number, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, p Portfolio) error {
	const query = `
INSERT INTO portfolios (id, user_id, title, template_id, content, ai_prompt, generated_content, status, revision_number, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	content, err := json.Marshal(p.Content)
	if err != nil {
		return fmt.Errorf("marshal content: %w", err)
	}
	generated, err := marshalGenerated(p.GeneratedContent)
	if err != nil {
		return err
	}
	revision := p.RevisionNumber
	if revision == 0 {
		revision = DefaultRevision
	}
	_, err = r.DB.ExecContext(ctx, query,
		p.ID,
		p.UserID,
		p.Title,
		p.TemplateID,
		string(content),
		nullableString(p.AIPrompt),
		generated,
		string(p.Status),
		revision,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID, id string) (Portfolio, error) {
	if !validID(id) {
		return Portfolio{}, ErrNotFound
	}
	query := `SELECT ` + portfolioColumns + ` FROM portfolios WHERE id = $1`
	p, err := scanPortfolio(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Portfolio{}, ErrNotFound
		}
		return Portfolio{}, err
	}
	if p.UserID != userID {
		return Portfolio{}, ErrForbidden
	}
	return p, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Portfolio, error) {
	query := `SELECT ` + portfolioColumns + ` FROM portfolios WHERE user_id = $1 ORDER BY updated_at DESC, created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Portfolio, 0)
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	const query = `DELETE FROM portfolios WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}
	_, err = r.lookupState(ctx, userID, id)
	if err != nil {
		return err
	}
	return ErrNotFound
}

func (r *PGRepo) Finalize(ctx context.Context, userID, id string, status Status, generated *GeneratedContent, at time.Time) error {
	if err := Transition(StatusGenerating, status); err != nil {
		return err
	}
	if !validID(id) {
		return ErrNotFound
	}
	const query = `
UPDATE portfolios
SET status = $3, generated_content = COALESCE($4, generated_content), updated_at = $5
WHERE id = $1 AND user_id = $2 AND status = 'generating'`
	payload, err := marshalGenerated(generated)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, id, userID, string(status), payload, at)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}
	current, err := r.lookupState(ctx, userID, id)
	if err != nil {
		return err
	}
	return Transition(current, status)
}

// lookupState explains why an owner-scoped write matched no rows.
func (r *PGRepo) lookupState(ctx context.Context, userID, id string) (Status, error) {
	const query = `SELECT user_id, status FROM portfolios WHERE id = $1`
	var owner, status string
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&owner, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if owner != userID {
		return "", ErrForbidden
	}
	return Status(status), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPortfolio(row rowScanner) (Portfolio, error) {
	var p Portfolio
	var content []byte
	var aiPrompt sql.NullString
	var generated []byte
	var status string
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Title,
		&p.TemplateID,
		&content,
		&aiPrompt,
		&generated,
		&status,
		&p.RevisionNumber,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return Portfolio{}, err
	}
	if err := json.Unmarshal(content, &p.Content); err != nil {
		return Portfolio{}, fmt.Errorf("decode content: %w", err)
	}
	if len(generated) > 0 {
		var g GeneratedContent
		if err := json.Unmarshal(generated, &g); err != nil {
			return Portfolio{}, fmt.Errorf("decode generated content: %w", err)
		}
		p.GeneratedContent = &g
	}
	p.AIPrompt = aiPrompt.String
	p.Status = Status(status)
	return p, nil
}

func marshalGenerated(g *GeneratedContent) (any, error) {
	if g == nil {
		return nil, nil
	}
	b, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("marshal generated content: %w", err)
	}
	return string(b), nil
}

// validID reports whether id can match the UUID primary key. Anything else
// would fail in Postgres with a cast error instead of matching no rows.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
