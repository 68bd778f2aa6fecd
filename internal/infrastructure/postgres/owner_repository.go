package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/veterinaria-api/internal/domain"
	"github.com/jhoicas/veterinaria-api/internal/domain/entity"
	"github.com/jhoicas/veterinaria-api/internal/domain/repository"
)

var _ repository.OwnerRepository = (*OwnerRepo)(nil)

// OwnerRepo implementación de OwnerRepository (usable con pool o tx).
type OwnerRepo struct {
	q Querier
}

// NewOwnerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOwnerRepository(q Querier) *OwnerRepo {
	return &OwnerRepo{q: q}
}

// Create persiste un propietario.
func (r *OwnerRepo) Create(owner *entity.Owner) error {
	query := `
		INSERT INTO owners (id, clinic_id, first_name, last_name, email, phone, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		owner.ID, owner.ClinicID, owner.FirstName, owner.LastName,
		owner.Email, owner.Phone, owner.Address,
		owner.CreatedAt, owner.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert owner: %w", err)
	}
	return nil
}

// GetByID obtiene un propietario de la clínica, o nil si no existe.
func (r *OwnerRepo) GetByID(clinicID, id string) (*entity.Owner, error) {
	query := `
		SELECT id, clinic_id, first_name, last_name, email, phone, address, created_at, updated_at
		FROM owners WHERE clinic_id = $1 AND id = $2`
	var o entity.Owner
	err := r.q.QueryRow(context.Background(), query, clinicID, id).Scan(
		&o.ID, &o.ClinicID, &o.FirstName, &o.LastName, &o.Email, &o.Phone, &o.Address,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get owner: %w", err)
	}
	return &o, nil
}

// ListByClinic lista propietarios de la clínica con paginación.
func (r *OwnerRepo) ListByClinic(clinicID string, limit, offset int) ([]*entity.Owner, error) {
	query := `
		SELECT id, clinic_id, first_name, last_name, email, phone, address, created_at, updated_at
		FROM owners WHERE clinic_id = $1 ORDER BY last_name, first_name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, clinicID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	defer rows.Close()
	var list []*entity.Owner
	for rows.Next() {
		var o entity.Owner
		if err := rows.Scan(&o.ID, &o.ClinicID, &o.FirstName, &o.LastName, &o.Email, &o.Phone, &o.Address,
			&o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan owner: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}
