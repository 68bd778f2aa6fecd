package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jhoicas/veterinaria-api/internal/application/dto"
	"github.com/jhoicas/veterinaria-api/internal/domain/entity"
	"github.com/jhoicas/veterinaria-api/internal/domain/repository"
)

// OwnerHandler maneja las peticiones HTTP de propietarios (protegido).
// Registro simple sin lógica de negocio: va directo al repositorio.
type OwnerHandler struct {
	repo repository.OwnerRepository
}

// NewOwnerHandler construye el handler.
func NewOwnerHandler(repo repository.OwnerRepository) *OwnerHandler {
	return &OwnerHandler{repo: repo}
}

// Create registra un propietario.
// POST /api/owners
func (h *OwnerHandler) Create(c *fiber.Ctx) error {
	clinicID := GetClinicID(c)
	if clinicID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateOwnerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.FirstName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "first_name requerido"})
	}
	now := time.Now()
	owner := &entity.Owner{
		ID:        uuid.New().String(),
		ClinicID:  clinicID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.repo.Create(owner); err != nil {
		return billingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toOwnerResponse(owner))
}

// List lista propietarios de la clínica.
// GET /api/owners
func (h *OwnerHandler) List(c *fiber.Ctx) error {
	clinicID := GetClinicID(c)
	if clinicID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	owners, err := h.repo.ListByClinic(clinicID, page.Limit, page.Offset)
	if err != nil {
		return billingError(c, err)
	}
	resp := make([]dto.OwnerResponse, 0, len(owners))
	for _, o := range owners {
		resp = append(resp, toOwnerResponse(o))
	}
	return c.JSON(resp)
}

// GetByID obtiene un propietario.
// GET /api/owners/:id
func (h *OwnerHandler) GetByID(c *fiber.Ctx) error {
	clinicID := GetClinicID(c)
	if clinicID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	owner, err := h.repo.GetByID(clinicID, c.Params("id"))
	if err != nil {
		return billingError(c, err)
	}
	if owner == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "propietario no encontrado"})
	}
	return c.JSON(toOwnerResponse(owner))
}

func toOwnerResponse(o *entity.Owner) dto.OwnerResponse {
	return dto.OwnerResponse{
		ID:        o.ID,
		ClinicID:  o.ClinicID,
		FirstName: o.FirstName,
		LastName:  o.LastName,
		Email:     o.Email,
		Phone:     o.Phone,
		Address:   o.Address,
	}
}
