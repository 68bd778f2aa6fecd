package dto

import "github.com/shopspring/decimal"

// CreateInventoryItemRequest body para POST /api/inventory.
type CreateInventoryItemRequest struct {
	Name         string          `json:"name"`
	Category     string          `json:"category"` // medication | supply
	UnitPrice    decimal.Decimal `json:"unit_price"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
}

// RestockRequest body para POST /api/inventory/:id/restock.
type RestockRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// InventoryItemResponse artículo en respuestas.
type InventoryItemResponse struct {
	ID           string          `json:"id"`
	ClinicID     string          `json:"clinic_id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
	LowStock     bool            `json:"low_stock"`
}
