package exports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"portfolio-backend/internal/portfolios"
	"portfolio-backend/internal/shared/storage/object"
	"portfolio-backend/internal/shared/telemetry"
	"portfolio-backend/internal/templates"
)

// Service renders completed portfolios and stores the artifacts.
type Service struct {
	Repo       Repo
	Portfolios portfolios.Repo
	Templates  templates.Repo
	Store      object.Store
	Now        func() time.Time
	NewID      func() string
}

// Create renders portfolioID in the requested format. Only html is rendered;
// the other stored formats return ErrUnsupportedFormat.
func (s *Service) Create(ctx context.Context, userID, portfolioID string, format Format) (Export, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(portfolioID) == "" {
		return Export{}, ErrInvalidInput
	}
	if s.Repo == nil || s.Portfolios == nil || s.Templates == nil || s.Store == nil {
		return Export{}, errors.New("missing dependencies")
	}
	format = Format(strings.ToLower(strings.TrimSpace(string(format))))
	if format == "" {
		format = FormatHTML
	}
	if !format.Valid() {
		return Export{}, fmt.Errorf("%w: format %q", ErrInvalidInput, format)
	}
	if format != FormatHTML {
		return Export{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	p, err := s.Portfolios.GetByID(ctx, userID, portfolioID)
	if err != nil {
		return Export{}, err
	}
	if p.Status != portfolios.StatusCompleted || p.GeneratedContent == nil {
		return Export{}, ErrNotReady
	}
	tpl, err := s.Templates.GetByID(ctx, p.TemplateID)
	if err != nil {
		return Export{}, err
	}
	html, err := RenderHTML(tpl, p)
	if err != nil {
		return Export{}, err
	}

	exportID := s.newID()
	key := object.ExportKey(userID, exportID, string(format))
	size, err := s.Store.Put(ctx, key, "text/html; charset=utf-8", bytes.NewReader(html))
	if err != nil {
		return Export{}, fmt.Errorf("store export: %w", err)
	}

	e := Export{
		ID:          exportID,
		PortfolioID: portfolioID,
		UserID:      userID,
		Format:      format,
		FileURL:     key,
		FileSize:    size,
		GeneratedAt: s.now(),
	}
	if err := s.Repo.Create(ctx, e); err != nil {
		if delErr := s.Store.Delete(ctx, key); delErr != nil {
			telemetry.Warn("export.cleanup_failed", map[string]any{"export_id": exportID, "error": delErr})
		}
		return Export{}, err
	}
	telemetry.Info("export.created", map[string]any{
		"export_id":    exportID,
		"portfolio_id": portfolioID,
		"user_id":      userID,
		"format":       string(format),
		"size_bytes":   size,
	})
	return e, nil
}

// List returns the owner's exports of a portfolio.
func (s *Service) List(ctx context.Context, userID, portfolioID string) ([]Export, error) {
	if _, err := s.Portfolios.GetByID(ctx, userID, portfolioID); err != nil {
		return nil, err
	}
	return s.Repo.ListByPortfolio(ctx, userID, portfolioID)
}

// Open returns the export record and a reader over its artifact.
func (s *Service) Open(ctx context.Context, userID, exportID string) (Export, io.ReadCloser, error) {
	e, err := s.Repo.GetByID(ctx, userID, exportID)
	if err != nil {
		return Export{}, nil, err
	}
	rc, err := s.Store.Open(ctx, e.FileURL)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return Export{}, nil, ErrNotFound
		}
		return Export{}, nil, err
	}
	return e, rc, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}
