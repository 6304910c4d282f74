package memory

import (
	"context"
	"sort"

	"basic-api/internal/domain"
	"basic-api/internal/repository"
)

// UserRepository is a fixed in-process user list.
type UserRepository struct {
	users []domain.User
}

func NewUserRepository(users []domain.User) repository.UserLookup {
	cp := make([]domain.User, len(users))
	copy(cp, users)
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].ID < cp[j].ID })
	return &UserRepository{users: cp}
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for i := range r.users {
		if r.users[i].Username == username {
			user := r.users[i]
			return &user, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, len(r.users))
	copy(out, r.users)
	return out, nil
}
