package service

import (
	"context"
	"errors"

	"pricelist/internal/domain"
	"pricelist/internal/repository"
)

// CatalogService encapsulates the item lifecycle. Orders never mutate the
// catalog; they only read it.
type CatalogService struct {
	items repository.ItemRepository
}

func NewCatalogService(items repository.ItemRepository) *CatalogService {
	return &CatalogService{items: items}
}

var ErrInvalidInput = errors.New("invalid input")

// ItemPatch carries a partial item update. Nil fields are left untouched.
type ItemPatch struct {
	Name      *string
	Price     *float64
	Unit      *string
	ImageURL  *string
	Available *bool
}

func (s *CatalogService) Create(ctx context.Context, it domain.Item) (*domain.Item, error) {
	if it.Name == "" || it.Unit == "" || it.Price < 0 {
		return nil, ErrInvalidInput
	}
	it.Available = true
	cp := it
	if err := s.items.Create(ctx, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (s *CatalogService) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return s.items.GetByID(ctx, id)
}

// Update merges the patch into the stored item.
func (s *CatalogService) Update(ctx context.Context, id string, p ItemPatch) (*domain.Item, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	it, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Price != nil {
		it.Price = *p.Price
	}
	if p.Unit != nil {
		it.Unit = *p.Unit
	}
	if p.ImageURL != nil {
		it.ImageURL = *p.ImageURL
	}
	if p.Available != nil {
		it.Available = *p.Available
	}
	if it.Name == "" || it.Unit == "" || it.Price < 0 {
		return nil, ErrInvalidInput
	}
	if err := s.items.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

// Delete removes the item. Existing orders keep their snapshot prices and
// their lines keep referencing the deleted id.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	return s.items.Delete(ctx, id)
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Item, error) {
	return s.items.List(ctx)
}
