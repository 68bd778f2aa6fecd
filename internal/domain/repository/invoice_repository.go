package repository

import (
	"time"

	"github.com/jhoicas/veterinaria-api/internal/domain/entity"
)

// InvoiceRepository puerto de persistencia de facturas y sus líneas.
type InvoiceRepository interface {
	// NextInvoiceNumber calcula el siguiente consecutivo de la clínica.
	// Debe invocarse dentro de la misma transacción que insertará la factura;
	// la implementación serializa la asignación por clínica.
	NextInvoiceNumber(clinicID string) (string, error)

	// Create persiste la cabecera. Retorna domain.ErrDuplicate si el número
	// de factura ya existe para la clínica (backstop del consecutivo).
	Create(invoice *entity.Invoice) error

	// CreateItem persiste una línea de la factura.
	CreateItem(item *entity.InvoiceItem) error

	// GetByID obtiene la factura de la clínica, o nil si no existe.
	GetByID(clinicID, id string) (*entity.Invoice, error)

	// GetItemsByInvoiceID obtiene las líneas en orden de inserción.
	GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error)

	// ListByClinic lista facturas con nombres de propietario y mascota,
	// filtradas opcionalmente por propietario y estado de pago (vacío = sin
	// filtro), ordenadas por fecha de factura y creación descendentes.
	ListByClinic(clinicID, ownerID, status string) ([]*entity.InvoiceSummary, error)

	// UpdatePaymentStatus actualiza únicamente los campos del ciclo de pago
	// (estado, método, fecha de pago, updated_at). Columnas enumeradas, nunca
	// construidas dinámicamente.
	UpdatePaymentStatus(clinicID, id, status string, method *string, paymentDate *time.Time, updatedAt time.Time) (bool, error)
}
