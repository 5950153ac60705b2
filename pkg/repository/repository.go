// Package repository provides a small generic store over gorm models.
package repository

import (
	"context"

	"github.com/inkvoice/inkvoice/pkg/db/option"
)

type Repository[T any] interface {
	Find(ctx context.Context, query *T, opts ...option.QueryOption) ([]*T, error)
	FindOne(ctx context.Context, query *T, opts ...option.QueryOption) (*T, error)
	Create(ctx context.Context, resource *T) error
	Update(ctx context.Context, resourceID string, resource any) error
	Delete(ctx context.Context, resourceID string) error
	Count(ctx context.Context, query *T) (int64, error)
}
