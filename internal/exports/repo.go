package exports

import "context"

type Repo interface {
	Create(ctx context.Context, e Export) error
	// ListByPortfolio returns the owner's exports of a portfolio, newest first.
	ListByPortfolio(ctx context.Context, userID, portfolioID string) ([]Export, error)
	GetByID(ctx context.Context, userID, id string) (Export, error)
}
