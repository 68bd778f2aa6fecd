package repository

import "github.com/jhoicas/veterinaria-api/internal/domain/entity"

// OwnerRepository puerto de persistencia de propietarios.
type OwnerRepository interface {
	Create(owner *entity.Owner) error
	GetByID(clinicID, id string) (*entity.Owner, error)
	ListByClinic(clinicID string, limit, offset int) ([]*entity.Owner, error)
}
