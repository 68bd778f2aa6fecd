package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem representa un artículo de inventario de la clínica
// (medicamentos e insumos). CurrentStock se descuenta al facturar líneas
// que lo referencian, según la política de stock configurada.
type InventoryItem struct {
	ID           string
	ClinicID     string
	Name         string
	Category     string // medication, supply
	UnitPrice    decimal.Decimal
	CurrentStock decimal.Decimal
	ReorderPoint decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BelowReorderPoint indica si el stock actual está en o por debajo del punto de reorden.
func (i *InventoryItem) BelowReorderPoint() bool {
	return i.CurrentStock.LessThanOrEqual(i.ReorderPoint)
}
