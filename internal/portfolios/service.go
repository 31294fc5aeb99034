package portfolios

import (
	"context"
	"fmt"
	"strings"

	"portfolio-backend/internal/shared/telemetry"
)

// Service holds the owner-scoped read and delete operations.
type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// List returns the owner's portfolios, most recently updated first.
func (s *Service) List(ctx context.Context, userID string) ([]Portfolio, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	return s.Repo.ListByUser(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID, id string) (Portfolio, error) {
	if strings.TrimSpace(id) == "" {
		return Portfolio{}, fmt.Errorf("%w: id required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, userID, id)
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id required", ErrInvalidInput)
	}
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	telemetry.Info("portfolio.deleted", map[string]any{"user_id": userID, "portfolio_id": id})
	return nil
}
