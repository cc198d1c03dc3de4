package approvals

import (
	"context"
	"strings"

	pkgerrors "github.com/praveen037/agriconnect/pkg/errors"
	"github.com/praveen037/agriconnect/pkg/upstream"
)

type adminAPI interface {
	PendingVendors(ctx context.Context) ([]upstream.PendingApproval, error)
	PendingExperts(ctx context.Context) ([]upstream.PendingApproval, error)
	DecideVendor(ctx context.Context, vendorID string, approve bool) error
	DecideExpert(ctx context.Context, expertID string, approve bool) error
}

// Kind selects which onboarding queue an admin operation targets.
type Kind string

const (
	KindVendor Kind = "vendor"
	KindExpert Kind = "expert"
)

// ParseKind converts a route segment into a queue kind.
func ParseKind(value string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case KindVendor:
		return KindVendor, nil
	case KindExpert:
		return KindExpert, nil
	}
	return "", pkgerrors.New(pkgerrors.CodeValidation, "unknown approval queue").
		WithDetails(map[string]string{"kind": value})
}

// Service exposes the admin onboarding queues held by the core API.
type Service struct {
	api adminAPI
}

func NewService(api adminAPI) *Service {
	return &Service{api: api}
}

// Pending lists accounts awaiting an admin decision.
func (s *Service) Pending(ctx context.Context, kind Kind) ([]upstream.PendingApproval, error) {
	var (
		list []upstream.PendingApproval
		err  error
	)
	switch kind {
	case KindVendor:
		list, err = s.api.PendingVendors(ctx)
	case KindExpert:
		list, err = s.api.PendingExperts(ctx)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown approval queue")
	}
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []upstream.PendingApproval{}
	}
	return list, nil
}

// Decide approves or rejects one pending account.
func (s *Service) Decide(ctx context.Context, kind Kind, id string, approve bool) error {
	if strings.TrimSpace(id) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "account id is required")
	}
	switch kind {
	case KindVendor:
		return s.api.DecideVendor(ctx, id, approve)
	case KindExpert:
		return s.api.DecideExpert(ctx, id, approve)
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "unknown approval queue")
}
