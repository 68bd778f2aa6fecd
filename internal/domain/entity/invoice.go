package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pago de una factura.
const (
	PaymentStatusUnpaid  = "unpaid"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
	PaymentStatusOverdue = "overdue"
)

// Invoice representa la factura de una clínica: montos, referencias
// opcionales (mascota, cita, historia clínica) y ciclo de vida de pago.
// Invariante: TotalAmount = Subtotal + TaxAmount - DiscountAmount.
type Invoice struct {
	ID              string
	ClinicID        string
	OwnerID         string
	PetID           *string
	AppointmentID   *string
	MedicalRecordID *string
	InvoiceNumber   string // consecutivo legible por tenant (INV00001)
	InvoiceDate     time.Time
	DueDate         time.Time
	Subtotal        decimal.Decimal
	TaxAmount       decimal.Decimal
	DiscountAmount  decimal.Decimal
	TotalAmount     decimal.Decimal
	PaymentStatus   string // ver constantes PaymentStatus*
	PaymentMethod   *string
	PaymentDate     *time.Time
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// InvoiceSummary fila de listado: factura más nombres de propietario y mascota
// (join para despliegue, sin las líneas).
type InvoiceSummary struct {
	Invoice
	OwnerName string
	PetName   string
}
