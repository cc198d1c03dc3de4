package vendors

import (
	"context"
	"strings"

	pkgerrors "github.com/praveen037/agriconnect/pkg/errors"
	"github.com/praveen037/agriconnect/pkg/upstream"
)

type productAPI interface {
	CreateProduct(ctx context.Context, body any) (*upstream.Product, error)
	UpdateProduct(ctx context.Context, id string, body any) (*upstream.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type catalogCache interface {
	Invalidate(ctx context.Context, productIDs ...string)
}

// ProductInput is the vendor-facing product form, validated at the gateway
// before it is forwarded.
type ProductInput struct {
	Name        string  `json:"productName" validate:"required"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost" validate:"gte=0"`
	Unit        string  `json:"unit"`
	Stock       int     `json:"quantity" validate:"gte=0"`
	Image       string  `json:"image"`
	CategoryID  string  `json:"categoryId" validate:"required"`
	VendorID    string  `json:"vendorId"`
}

// Service manages a vendor's product listings through the core API and keeps
// the browse cache coherent with writes.
type Service struct {
	api   productAPI
	cache catalogCache
}

func NewService(api productAPI, cache catalogCache) *Service {
	return &Service{api: api, cache: cache}
}

// Create lists a new product under the vendor's account.
func (s *Service) Create(ctx context.Context, vendorID string, input ProductInput) (*upstream.Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	input.VendorID = vendorID
	product, err := s.api.CreateProduct(ctx, input)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	return product, nil
}

// Update edits an existing listing.
func (s *Service) Update(ctx context.Context, vendorID, productID string, input ProductInput) (*upstream.Product, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	input.VendorID = vendorID
	product, err := s.api.UpdateProduct(ctx, productID, input)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, productID)
	return product, nil
}

// Delete removes a listing.
func (s *Service) Delete(ctx context.Context, productID string) error {
	if strings.TrimSpace(productID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := s.api.DeleteProduct(ctx, productID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, productID)
	return nil
}
