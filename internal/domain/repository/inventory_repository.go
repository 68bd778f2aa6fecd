package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/veterinaria-api/internal/domain/entity"
)

// InventoryRepository puerto de persistencia de artículos de inventario.
type InventoryRepository interface {
	Create(item *entity.InventoryItem) error

	// GetByID obtiene el artículo de la clínica, o nil si no existe.
	GetByID(clinicID, id string) (*entity.InventoryItem, error)

	// GetForUpdate obtiene el artículo bloqueando la fila (SELECT FOR UPDATE).
	// Solo tiene sentido dentro de una transacción.
	GetForUpdate(clinicID, id string) (*entity.InventoryItem, error)

	// DebitStock descuenta quantity de current_stock solo si hay stock
	// suficiente (UPDATE condicional). Retorna false si no afectó filas.
	DebitStock(clinicID, id string, quantity decimal.Decimal, now time.Time) (bool, error)

	// DebitStockUnchecked descuenta sin condición de stock; el saldo puede
	// quedar negativo (política "negative").
	DebitStockUnchecked(clinicID, id string, quantity decimal.Decimal, now time.Time) error

	// AddStock suma quantity al stock (reabastecimiento).
	AddStock(clinicID, id string, quantity decimal.Decimal, now time.Time) error

	ListByClinic(clinicID string, limit, offset int) ([]*entity.InventoryItem, error)
}
