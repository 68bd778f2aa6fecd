package repository

import "github.com/jhoicas/veterinaria-api/internal/domain/entity"

// PetRepository puerto de persistencia de mascotas.
type PetRepository interface {
	Create(pet *entity.Pet) error
	GetByID(clinicID, id string) (*entity.Pet, error)
	ListByOwner(clinicID, ownerID string) ([]*entity.Pet, error)
}
