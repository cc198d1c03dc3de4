package orders

import (
	"context"

	"github.com/praveen037/agriconnect/pkg/logger"
	"github.com/praveen037/agriconnect/pkg/upstream"
)

type historyAPI interface {
	MyOrders(ctx context.Context, userID string) ([]upstream.Order, error)
}

// Service proxies buyer order history from the core backend and serves
// gateway-side confirmations from the repository.
type Service struct {
	api  historyAPI
	repo *Repository
	logg *logger.Logger
}

func NewService(api historyAPI, repo *Repository, logg *logger.Logger) *Service {
	return &Service{api: api, repo: repo, logg: logg}
}

// History returns the buyer's past orders as recorded by the core backend.
func (s *Service) History(ctx context.Context, userID string) ([]upstream.Order, error) {
	list, err := s.api.MyOrders(ctx, userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []upstream.Order{}
	}
	return list, nil
}

// Repo exposes the persistence layer for the checkout flow.
func (s *Service) Repo() *Repository {
	if s == nil {
		return nil
	}
	return s.repo
}
