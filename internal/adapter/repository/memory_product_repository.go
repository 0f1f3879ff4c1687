package repository

import (
	"context"
	"sync"

	"marketchat/internal/domain/entity"
	"marketchat/pkg/errors"
)

type MemoryProductRepository struct {
	mu       sync.RWMutex
	products map[string]*entity.Product
}

func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[string]*entity.Product),
	}
}

func (r *MemoryProductRepository) Seed(products ...*entity.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, product := range products {
		cp := *product
		r.products[product.ID] = &cp
	}
}

func (r *MemoryProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, errors.NotFound("Product", nil)
	}
	cp := *product
	return &cp, nil
}

func (r *MemoryProductRepository) GetMany(ctx context.Context, ids []string) (map[string]*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		if product, ok := r.products[id]; ok {
			cp := *product
			products[id] = &cp
		}
	}
	return products, nil
}
