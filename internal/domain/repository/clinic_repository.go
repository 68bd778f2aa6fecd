package repository

import "github.com/jhoicas/veterinaria-api/internal/domain/entity"

// ClinicRepository puerto de persistencia de clínicas (tenants).
type ClinicRepository interface {
	Create(clinic *entity.Clinic) error
	GetByID(id string) (*entity.Clinic, error)
	List(limit, offset int) ([]*entity.Clinic, error)
}
