package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jhoicas/veterinaria-api/internal/application/dto"
	"github.com/jhoicas/veterinaria-api/internal/domain/entity"
	"github.com/jhoicas/veterinaria-api/internal/domain/repository"
)

// PetHandler maneja las peticiones HTTP de mascotas (protegido).
type PetHandler struct {
	petRepo   repository.PetRepository
	ownerRepo repository.OwnerRepository
}

// NewPetHandler construye el handler.
func NewPetHandler(petRepo repository.PetRepository, ownerRepo repository.OwnerRepository) *PetHandler {
	return &PetHandler{petRepo: petRepo, ownerRepo: ownerRepo}
}

// Create registra una mascota, validando que el propietario sea de la clínica.
// POST /api/pets
func (h *PetHandler) Create(c *fiber.Ctx) error {
	clinicID := GetClinicID(c)
	if clinicID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreatePetRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.OwnerID == "" || in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "owner_id y name requeridos"})
	}
	owner, err := h.ownerRepo.GetByID(clinicID, in.OwnerID)
	if err != nil {
		return billingError(c, err)
	}
	if owner == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "propietario no encontrado"})
	}
	now := time.Now()
	pet := &entity.Pet{
		ID:        uuid.New().String(),
		ClinicID:  clinicID,
		OwnerID:   in.OwnerID,
		Name:      in.Name,
		Species:   in.Species,
		Breed:     in.Breed,
		BirthDate: in.BirthDate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.petRepo.Create(pet); err != nil {
		return billingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPetResponse(pet))
}

// ListByOwner lista las mascotas de un propietario.
// GET /api/pets?owner_id=...
func (h *PetHandler) ListByOwner(c *fiber.Ctx) error {
	clinicID := GetClinicID(c)
	if clinicID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	ownerID := c.Query("owner_id")
	if ownerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "owner_id requerido"})
	}
	pets, err := h.petRepo.ListByOwner(clinicID, ownerID)
	if err != nil {
		return billingError(c, err)
	}
	resp := make([]dto.PetResponse, 0, len(pets))
	for _, p := range pets {
		resp = append(resp, toPetResponse(p))
	}
	return c.JSON(resp)
}

func toPetResponse(p *entity.Pet) dto.PetResponse {
	return dto.PetResponse{
		ID:        p.ID,
		ClinicID:  p.ClinicID,
		OwnerID:   p.OwnerID,
		Name:      p.Name,
		Species:   p.Species,
		Breed:     p.Breed,
		BirthDate: p.BirthDate,
	}
}
