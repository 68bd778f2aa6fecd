package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/veterinaria-api/internal/domain"
	"github.com/jhoicas/veterinaria-api/internal/domain/entity"
	"github.com/jhoicas/veterinaria-api/internal/domain/repository"
	"github.com/jhoicas/veterinaria-api/pkg/config"
	"github.com/jhoicas/veterinaria-api/pkg/logger"
)

// UseCase gestiona el inventario de la clínica: alta de artículos,
// reabastecimiento transaccional y el descuento de stock que invoca el motor
// de facturación dentro de su propia transacción.
type UseCase struct {
	txRunner TxRunner
	repo     repository.InventoryRepository
	policy   string // config.StockPolicy*
	log      *logger.Logger
}

// NewUseCase construye el caso de uso. policy es una de las constantes
// config.StockPolicy* (validada al cargar configuración).
func NewUseCase(txRunner TxRunner, repo repository.InventoryRepository, policy string, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, repo: repo, policy: policy, log: log}
}

// DebitForInvoiceInTx descuenta stock para una línea de factura usando el
// repositorio del caller (misma transacción). El comportamiento ante stock
// insuficiente depende de la política configurada:
//
//	skip:     no descuenta, registra warning y la factura continúa
//	reject:   retorna ErrInsufficientStock y el caller hace rollback
//	negative: descuenta siempre, el saldo puede quedar negativo
//
// Implementa la interfaz billing.StockDebiter.
func (uc *UseCase) DebitForInvoiceInTx(
	invRepo repository.InventoryRepository,
	clinicID, itemID string,
	quantity decimal.Decimal,
	now time.Time,
) error {
	if !quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}

	if uc.policy == config.StockPolicyNegative {
		return invRepo.DebitStockUnchecked(clinicID, itemID, quantity, now)
	}

	// UPDATE condicional: solo aplica si current_stock >= quantity
	applied, err := invRepo.DebitStock(clinicID, itemID, quantity, now)
	if err != nil {
		return err
	}
	if applied {
		return nil
	}
	if uc.policy == config.StockPolicyReject {
		return domain.ErrInsufficientStock
	}
	// Política skip: la factura procede sin descontar
	uc.log.Warn().
		Str("clinic_id", clinicID).
		Str("inventory_item_id", itemID).
		Str("quantity", quantity.String()).
		Msg("stock insuficiente: descuento omitido, la factura continúa")
	return nil
}

// CreateItem da de alta un artículo de inventario.
func (uc *UseCase) CreateItem(ctx context.Context, clinicID string, item *entity.InventoryItem) (*entity.InventoryItem, error) {
	if clinicID == "" || item.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	switch item.Category {
	case entity.ItemTypeMedication, entity.ItemTypeSupply:
	default:
		return nil, domain.ErrInvalidInput
	}
	if item.UnitPrice.LessThan(decimal.Zero) || item.CurrentStock.LessThan(decimal.Zero) || item.ReorderPoint.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	item.ID = uuid.New().String()
	item.ClinicID = clinicID
	item.CreatedAt = now
	item.UpdatedAt = now
	if err := uc.repo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// Restock suma stock a un artículo dentro de una transacción con bloqueo de fila.
func (uc *UseCase) Restock(ctx context.Context, clinicID, itemID string, quantity decimal.Decimal) (*entity.InventoryItem, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	var restocked *entity.InventoryItem
	err := uc.txRunner.Run(ctx, func(invRepo repository.InventoryRepository) error {
		item, err := invRepo.GetForUpdate(clinicID, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		now := time.Now()
		if err := invRepo.AddStock(clinicID, itemID, quantity, now); err != nil {
			return err
		}
		item.CurrentStock = item.CurrentStock.Add(quantity)
		item.UpdatedAt = now
		restocked = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return restocked, nil
}

// GetItem obtiene un artículo de la clínica.
func (uc *UseCase) GetItem(ctx context.Context, clinicID, itemID string) (*entity.InventoryItem, error) {
	item, err := uc.repo.GetByID(clinicID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// ListItems lista el inventario de la clínica con paginación.
func (uc *UseCase) ListItems(ctx context.Context, clinicID string, limit, offset int) ([]*entity.InventoryItem, error) {
	return uc.repo.ListByClinic(clinicID, limit, offset)
}
