package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"portfolio-backend/internal/llm"
	"portfolio-backend/internal/portfolios"
	"portfolio-backend/internal/shared/metrics"
	"portfolio-backend/internal/shared/telemetry"
)

// Function is the generation function: it enriches a record's content and
// completes the record. Enhancement failures never fail the call.
type Function struct {
	Repo     portfolios.Repo
	Enhancer llm.Enhancer
	Now      func() time.Time
}

func NewFunction(repo portfolios.Repo, enhancer llm.Enhancer) *Function {
	return &Function{Repo: repo, Enhancer: enhancer}
}

// Run loads the owner's record, asks the enhancer for richer content and
// stores the merged result with status completed.
func (f *Function) Run(ctx context.Context, ownerID string, req InvokeRequest) (InvokeResult, error) {
	if strings.TrimSpace(req.PortfolioID) == "" {
		return InvokeResult{}, fmt.Errorf("%w: portfolioId is required", ErrValidation)
	}
	if _, err := f.Repo.GetByID(ctx, ownerID, req.PortfolioID); err != nil {
		return InvokeResult{}, fmt.Errorf("%w: fetch portfolio: %w", ErrPersistence, err)
	}

	generated := &portfolios.GeneratedContent{Content: req.Content}
	f.enhance(ctx, req).ApplyTo(generated)
	now := f.now()
	generated.GeneratedAt = now

	if err := f.Repo.Finalize(ctx, ownerID, req.PortfolioID, portfolios.StatusCompleted, generated, now); err != nil {
		return InvokeResult{}, fmt.Errorf("%w: update portfolio: %w", ErrPersistence, err)
	}
	logStatus(req.PortfolioID, ownerID, portfolios.StatusGenerating, portfolios.StatusCompleted)

	return InvokeResult{
		Success:     true,
		PortfolioID: req.PortfolioID,
		Enhanced:    generated.Enhanced(),
	}, nil
}

func (f *Function) enhance(ctx context.Context, req InvokeRequest) *llm.Enhancement {
	if f.Enhancer == nil {
		metrics.ObserveEnhancement(metrics.EnhancementSkipped)
		return nil
	}
	enhancement, err := f.Enhancer.Enhance(ctx, llm.EnhanceInput{
		FullName:     req.Content.FullName,
		Profession:   req.Content.Profession,
		Bio:          req.Content.Bio,
		Skills:       req.Content.Skills,
		Instructions: req.AIPrompt,
	})
	if errors.Is(err, llm.ErrNotConfigured) {
		metrics.ObserveEnhancement(metrics.EnhancementSkipped)
		return nil
	}
	if err != nil {
		metrics.ObserveEnhancement(metrics.EnhancementRejected)
		telemetry.Error("generation.enhancement_failed", map[string]any{
			"portfolio_id": req.PortfolioID,
			"error":        fmt.Errorf("%w: %w", ErrEnhancement, err).Error(),
		})
		return nil
	}
	metrics.ObserveEnhancement(metrics.EnhancementApplied)
	return enhancement
}

func (f *Function) now() time.Time {
	if f.Now != nil {
		return f.Now().UTC()
	}
	return time.Now().UTC()
}
