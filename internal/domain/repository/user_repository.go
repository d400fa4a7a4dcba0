package repository

import "github.com/resumeforge/resumeforge/internal/domain/entity"

// UserRepository defines the interface for identity lookups and creation.
type UserRepository interface {
	Create(u *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
}
