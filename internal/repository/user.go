package repository

import (
	"context"

	"basic-api/internal/domain"
)

// UserLookup is the read-only credential store consulted at login.
type UserLookup interface {
	// FindByUsername returns (nil, nil) when no user has the given name.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// List returns every user ordered by id.
	List(ctx context.Context) ([]domain.User, error)
}
