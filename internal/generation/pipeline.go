package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"portfolio-backend/internal/portfolios"
	"portfolio-backend/internal/shared/metrics"
	"portfolio-backend/internal/shared/telemetry"
	"portfolio-backend/internal/templates"
)

// Invoker calls the generation function for a persisted record.
type Invoker interface {
	Invoke(ctx context.Context, ownerID string, req InvokeRequest) (InvokeResult, error)
}

// Pipeline runs the create -> invoke -> finalize lifecycle of a portfolio.
// A nil Templates repo skips the template lookup.
type Pipeline struct {
	Repo      portfolios.Repo
	Templates templates.Repo
	Invoker   Invoker
	Now       func() time.Time
	NewID     func() string
}

func NewPipeline(repo portfolios.Repo, tpls templates.Repo, invoker Invoker) *Pipeline {
	return &Pipeline{Repo: repo, Templates: tpls, Invoker: invoker}
}

// RequestGeneration validates req, persists a generating record and invokes
// the generation function once. An invocation failure moves the record to
// error and is returned wrapped in ErrInvocation along with the outcome.
func (p *Pipeline) RequestGeneration(ctx context.Context, req Request) (Outcome, error) {
	start := p.now()
	content, err := validate(req)
	if err == nil {
		err = p.checkTemplate(ctx, req.TemplateID)
	}
	if err != nil {
		return Outcome{Success: false, Reason: err.Error()}, err
	}

	record := portfolios.Portfolio{
		ID:             p.newID(),
		UserID:         req.OwnerID,
		Title:          strings.TrimSpace(req.Title),
		TemplateID:     strings.TrimSpace(req.TemplateID),
		Content:        content,
		AIPrompt:       strings.TrimSpace(req.GenerationPrompt),
		Status:         portfolios.StatusGenerating,
		RevisionNumber: portfolios.DefaultRevision,
		CreatedAt:      start,
		UpdatedAt:      start,
	}
	if err := p.Repo.Create(ctx, record); err != nil {
		telemetry.Error("generation.create_failed", map[string]any{
			"user_id": req.OwnerID,
			"error":   err,
		})
		return Outcome{Success: false, Reason: "could not save portfolio"}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	metrics.IncGenerationStarted()
	logStatus(record.ID, req.OwnerID, "", portfolios.StatusGenerating)

	result, err := p.Invoker.Invoke(ctx, req.OwnerID, InvokeRequest{
		PortfolioID: record.ID,
		Content:     content,
		AIPrompt:    record.AIPrompt,
	})
	if err == nil && !result.Success {
		err = errors.New(firstNonEmpty(result.Error, "function reported failure"))
	}
	if err != nil {
		p.markFailed(ctx, record, err)
		metrics.IncGenerationFailed()
		metrics.ObserveGenerationDuration(p.now().Sub(start))
		return Outcome{
			Success:     false,
			PortfolioID: record.ID,
			Status:      portfolios.StatusError,
			Reason:      err.Error(),
		}, fmt.Errorf("%w: %v", ErrInvocation, err)
	}

	metrics.IncGenerationCompleted()
	metrics.ObserveGenerationDuration(p.now().Sub(start))
	return Outcome{
		Success:     true,
		PortfolioID: record.ID,
		Enhanced:    result.Enhanced,
		Status:      portfolios.StatusCompleted,
	}, nil
}

func (p *Pipeline) markFailed(ctx context.Context, record portfolios.Portfolio, cause error) {
	// The request context may already be done; the status write still has to land.
	writeCtx := context.WithoutCancel(ctx)
	err := p.Repo.Finalize(writeCtx, record.UserID, record.ID, portfolios.StatusError, nil, p.now())
	if err != nil {
		telemetry.Error("generation.mark_failed_failed", map[string]any{
			"portfolio_id": record.ID,
			"user_id":      record.UserID,
			"cause":        cause.Error(),
			"error":        err,
		})
		return
	}
	telemetry.Error("generation.invocation_failed", map[string]any{
		"portfolio_id": record.ID,
		"user_id":      record.UserID,
		"error":        cause.Error(),
	})
	logStatus(record.ID, record.UserID, portfolios.StatusGenerating, portfolios.StatusError)
}

// checkTemplate rejects references to unknown or inactive templates before
// anything is written.
func (p *Pipeline) checkTemplate(ctx context.Context, templateID string) error {
	if p.Templates == nil {
		return nil
	}
	tpl, err := p.Templates.GetByID(ctx, strings.TrimSpace(templateID))
	switch {
	case errors.Is(err, templates.ErrNotFound):
		return fmt.Errorf("%w: templateId does not exist", ErrValidation)
	case err != nil:
		return fmt.Errorf("%w: load template: %v", ErrPersistence, err)
	case !tpl.IsActive:
		return fmt.Errorf("%w: templateId is not active", ErrValidation)
	}
	return nil
}

func validate(req Request) (portfolios.Content, error) {
	required := []struct {
		field string
		value string
	}{
		{"ownerId", req.OwnerID},
		{"title", req.Title},
		{"templateId", req.TemplateID},
		{"fullName", req.Content.FullName},
		{"profession", req.Content.Profession},
		{"bio", req.Content.Bio},
		{"skills", req.Content.Skills},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return portfolios.Content{}, fmt.Errorf("%w: %s is required", ErrValidation, r.field)
		}
	}
	skills := ParseSkills(req.Content.Skills)
	if len(skills) == 0 {
		return portfolios.Content{}, fmt.Errorf("%w: skills is required", ErrValidation)
	}
	return portfolios.Content{
		FullName:   strings.TrimSpace(req.Content.FullName),
		Profession: strings.TrimSpace(req.Content.Profession),
		Bio:        strings.TrimSpace(req.Content.Bio),
		Skills:     skills,
	}, nil
}

func logStatus(portfolioID, userID string, from, to portfolios.Status) {
	telemetry.Info("generation.status", map[string]any{
		"portfolio_id": portfolioID,
		"user_id":      userID,
		"from":         string(from),
		"to":           string(to),
	})
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now().UTC()
	}
	return time.Now().UTC()
}

func (p *Pipeline) newID() string {
	if p.NewID != nil {
		return p.NewID()
	}
	return uuid.NewString()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
