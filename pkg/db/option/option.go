// Package option provides composable query modifiers for the generic
// repository.
package option

import "gorm.io/gorm"

type QueryOption interface {
	Apply(*gorm.DB) *gorm.DB
}

type optionFunc func(*gorm.DB) *gorm.DB

func (f optionFunc) Apply(db *gorm.DB) *gorm.DB { return f(db) }

// WithOrder appends an ORDER BY expression.
func WithOrder(expr string) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		return db.Order(expr)
	})
}
