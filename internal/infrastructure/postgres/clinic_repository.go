package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/veterinaria-api/internal/domain/entity"
	"github.com/jhoicas/veterinaria-api/internal/domain/repository"
)

var _ repository.ClinicRepository = (*ClinicRepo)(nil)

// ClinicRepo implementación de ClinicRepository (usable con pool o tx).
type ClinicRepo struct {
	q Querier
}

// NewClinicRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClinicRepository(q Querier) *ClinicRepo {
	return &ClinicRepo{q: q}
}

// Create persiste una clínica.
func (r *ClinicRepo) Create(clinic *entity.Clinic) error {
	query := `
		INSERT INTO clinics (id, name, address, phone, email, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		clinic.ID, clinic.Name, clinic.Address, clinic.Phone, clinic.Email, clinic.Status,
		clinic.CreatedAt, clinic.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert clinic: %w", err)
	}
	return nil
}

// GetByID obtiene una clínica por ID, o nil si no existe.
func (r *ClinicRepo) GetByID(id string) (*entity.Clinic, error) {
	query := `
		SELECT id, name, address, phone, email, status, created_at, updated_at
		FROM clinics WHERE id = $1`
	var c entity.Clinic
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.Name, &c.Address, &c.Phone, &c.Email, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get clinic: %w", err)
	}
	return &c, nil
}

// List lista clínicas con paginación.
func (r *ClinicRepo) List(limit, offset int) ([]*entity.Clinic, error) {
	query := `
		SELECT id, name, address, phone, email, status, created_at, updated_at
		FROM clinics ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list clinics: %w", err)
	}
	defer rows.Close()
	var list []*entity.Clinic
	for rows.Next() {
		var c entity.Clinic
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.Phone, &c.Email, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan clinic: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
