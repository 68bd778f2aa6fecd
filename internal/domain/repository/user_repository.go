package repository

import "github.com/jhoicas/veterinaria-api/internal/domain/entity"

// UserRepository puerto de persistencia de usuarios (staff).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmailAndClinic(email, clinicID string) (*entity.User, error)
}
