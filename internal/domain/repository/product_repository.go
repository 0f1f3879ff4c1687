package repository

import (
	"context"

	"marketchat/internal/domain/entity"
)

type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetMany(ctx context.Context, ids []string) (map[string]*entity.Product, error)
}
