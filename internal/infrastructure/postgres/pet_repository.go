package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/veterinaria-api/internal/domain/entity"
	"github.com/jhoicas/veterinaria-api/internal/domain/repository"
)

var _ repository.PetRepository = (*PetRepo)(nil)

// PetRepo implementación de PetRepository (usable con pool o tx).
type PetRepo struct {
	q Querier
}

// NewPetRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPetRepository(q Querier) *PetRepo {
	return &PetRepo{q: q}
}

// Create persiste una mascota.
func (r *PetRepo) Create(pet *entity.Pet) error {
	query := `
		INSERT INTO pets (id, clinic_id, owner_id, name, species, breed, birth_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		pet.ID, pet.ClinicID, pet.OwnerID, pet.Name, pet.Species, pet.Breed, pet.BirthDate,
		pet.CreatedAt, pet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert pet: %w", err)
	}
	return nil
}

// GetByID obtiene una mascota de la clínica, o nil si no existe.
func (r *PetRepo) GetByID(clinicID, id string) (*entity.Pet, error) {
	query := `
		SELECT id, clinic_id, owner_id, name, species, breed, birth_date, created_at, updated_at
		FROM pets WHERE clinic_id = $1 AND id = $2`
	var p entity.Pet
	err := r.q.QueryRow(context.Background(), query, clinicID, id).Scan(
		&p.ID, &p.ClinicID, &p.OwnerID, &p.Name, &p.Species, &p.Breed, &p.BirthDate,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pet: %w", err)
	}
	return &p, nil
}

// ListByOwner lista las mascotas de un propietario.
func (r *PetRepo) ListByOwner(clinicID, ownerID string) ([]*entity.Pet, error) {
	query := `
		SELECT id, clinic_id, owner_id, name, species, breed, birth_date, created_at, updated_at
		FROM pets WHERE clinic_id = $1 AND owner_id = $2 ORDER BY name`
	rows, err := r.q.Query(context.Background(), query, clinicID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list pets: %w", err)
	}
	defer rows.Close()
	var list []*entity.Pet
	for rows.Next() {
		var p entity.Pet
		if err := rows.Scan(&p.ID, &p.ClinicID, &p.OwnerID, &p.Name, &p.Species, &p.Breed, &p.BirthDate,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan pet: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
