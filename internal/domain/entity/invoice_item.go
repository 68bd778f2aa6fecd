package entity

import "github.com/shopspring/decimal"

// Tipos de línea de factura.
const (
	ItemTypeService    = "service"
	ItemTypeMedication = "medication"
	ItemTypeSupply     = "supply"
	ItemTypeProcedure  = "procedure"
)

// ValidItemType indica si el tipo de línea es uno de los conocidos.
func ValidItemType(t string) bool {
	switch t {
	case ItemTypeService, ItemTypeMedication, ItemTypeSupply, ItemTypeProcedure:
		return true
	}
	return false
}

// StockTracked indica si el tipo de línea descuenta inventario
// (solo medicamentos e insumos; servicios y procedimientos no).
func StockTracked(itemType string) bool {
	return itemType == ItemTypeMedication || itemType == ItemTypeSupply
}

// InvoiceItem representa una línea de factura. Pertenece a exactamente una
// factura y no tiene ciclo de vida propio. InventoryItemID enlaza la línea
// con un artículo de inventario cuando aplica descuento de stock.
type InvoiceItem struct {
	ID              string
	InvoiceID       string
	ItemType        string // ver constantes ItemType*
	InventoryItemID *string
	Description     string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	TotalPrice      decimal.Decimal
}
