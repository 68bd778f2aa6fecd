package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/veterinaria-api/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción que incluye
// los repositorios de facturación e inventario atados a la misma tx.
// Si fn retorna error se hace rollback completo: ni factura, ni líneas, ni
// descuentos de stock parciales sobreviven.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		inventoryRepo repository.InventoryRepository,
	) error) error
}

// StockDebiter integra facturación con inventario: descuenta stock para una
// línea usando los repositorios del caller (misma transacción). La política
// ante stock insuficiente (skip/reject/negative) vive en la implementación.
type StockDebiter interface {
	DebitForInvoiceInTx(
		invRepo repository.InventoryRepository,
		clinicID, itemID string,
		quantity decimal.Decimal,
		now time.Time,
	) error
}

// ViewCache colaborador de vistas cacheadas. La invalidación tras una
// escritura es fire-and-forget: su fallo nunca falla la operación de
// facturación.
type ViewCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	InvalidatePrefix(prefix string)
}
