package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/veterinaria-api/internal/application/dto"
	"github.com/jhoicas/veterinaria-api/internal/application/inventory"
	"github.com/jhoicas/veterinaria-api/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP de inventario (protegido).
type InventoryHandler struct {
	uc *inventory.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// Create da de alta un artículo de inventario.
// POST /api/inventory
func (h *InventoryHandler) Create(c *fiber.Ctx) error {
	clinicID := GetClinicID(c)
	if clinicID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateInventoryItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.uc.CreateItem(c.Context(), clinicID, &entity.InventoryItem{
		Name:         in.Name,
		Category:     in.Category,
		UnitPrice:    in.UnitPrice,
		CurrentStock: in.CurrentStock,
		ReorderPoint: in.ReorderPoint,
	})
	if err != nil {
		return billingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toInventoryItemResponse(item))
}

// List lista el inventario de la clínica.
// GET /api/inventory
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	clinicID := GetClinicID(c)
	if clinicID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	items, err := h.uc.ListItems(c.Context(), clinicID, page.Limit, page.Offset)
	if err != nil {
		return billingError(c, err)
	}
	resp := make([]dto.InventoryItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toInventoryItemResponse(item))
	}
	return c.JSON(resp)
}

// GetByID obtiene un artículo de inventario.
// GET /api/inventory/:id
func (h *InventoryHandler) GetByID(c *fiber.Ctx) error {
	clinicID := GetClinicID(c)
	if clinicID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	item, err := h.uc.GetItem(c.Context(), clinicID, c.Params("id"))
	if err != nil {
		return billingError(c, err)
	}
	return c.JSON(toInventoryItemResponse(item))
}

// Restock suma stock a un artículo (transaccional, con bloqueo de fila).
// POST /api/inventory/:id/restock
func (h *InventoryHandler) Restock(c *fiber.Ctx) error {
	clinicID := GetClinicID(c)
	if clinicID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RestockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.uc.Restock(c.Context(), clinicID, c.Params("id"), in.Quantity)
	if err != nil {
		return billingError(c, err)
	}
	return c.JSON(toInventoryItemResponse(item))
}

func toInventoryItemResponse(item *entity.InventoryItem) dto.InventoryItemResponse {
	return dto.InventoryItemResponse{
		ID:           item.ID,
		ClinicID:     item.ClinicID,
		Name:         item.Name,
		Category:     item.Category,
		UnitPrice:    item.UnitPrice,
		CurrentStock: item.CurrentStock,
		ReorderPoint: item.ReorderPoint,
		LowStock:     item.BelowReorderPoint(),
	}
}
