package option

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QueryOption narrows or orders a repository query.
type QueryOption func(*gorm.DB) *gorm.DB

type QuerySortBy struct {
	Field   string
	OrderBy string
}

func WithSortBy(s QuerySortBy) QueryOption {
	return func(db *gorm.DB) *gorm.DB {
		field := s.Field
		if field == "" {
			field = "created_at"
		}
		order := s.OrderBy
		if order != "DESC" {
			order = "ASC"
		}
		return db.Order(field + " " + order)
	}
}

func WithLimit(n int) QueryOption {
	return func(db *gorm.DB) *gorm.DB {
		if n <= 0 {
			return db
		}
		return db.Limit(n)
	}
}

func WithOffset(n int) QueryOption {
	return func(db *gorm.DB) *gorm.DB {
		if n <= 0 {
			return db
		}
		return db.Offset(n)
	}
}

// LockingUpdate takes a row lock for the duration of the surrounding
// transaction. sqlite has no FOR UPDATE; its single-writer model already
// serialises the mutation, so the clause is skipped there.
func LockingUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
