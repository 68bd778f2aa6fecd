package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest body para POST /api/invoices.
// DiscountAmount y TaxRate son opcionales (0 y tasa plana configurada).
type CreateInvoiceRequest struct {
	OwnerID         string               `json:"owner_id"`
	PetID           *string              `json:"pet_id,omitempty"`
	AppointmentID   *string              `json:"appointment_id,omitempty"`
	MedicalRecordID *string              `json:"medical_record_id,omitempty"`
	Items           []InvoiceItemRequest `json:"items"`
	DiscountAmount  *decimal.Decimal     `json:"discount_amount,omitempty"`
	TaxRate         *decimal.Decimal     `json:"tax_rate,omitempty"` // fracción (0.08 = 8%)
	PaymentMethod   *string              `json:"payment_method,omitempty"`
	DueDate         *time.Time           `json:"due_date,omitempty"`
	Notes           string               `json:"notes,omitempty"`
}

// InvoiceItemRequest línea de factura. TotalPrice lo calcula el caller y el
// motor lo verifica contra quantity*unit_price.
type InvoiceItemRequest struct {
	ItemType        string          `json:"item_type"` // service | medication | supply | procedure
	InventoryItemID *string         `json:"inventory_item_id,omitempty"`
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TotalPrice      decimal.Decimal `json:"total_price"`
}

// UpdatePaymentStatusRequest body para PATCH /api/invoices/:id/payment-status.
// Si PaymentDate va vacío y Status es "paid", se estampa la hora actual.
type UpdatePaymentStatusRequest struct {
	Status        string     `json:"status"` // unpaid | partial | paid | overdue
	PaymentMethod *string    `json:"payment_method,omitempty"`
	PaymentDate   *time.Time `json:"payment_date,omitempty"`
}

// InvoiceResponse factura con líneas para POST /api/invoices y GET /api/invoices/:id.
type InvoiceResponse struct {
	ID              string                `json:"id"`
	ClinicID        string                `json:"clinic_id"`
	OwnerID         string                `json:"owner_id"`
	OwnerName       string                `json:"owner_name,omitempty"`
	PetID           *string               `json:"pet_id,omitempty"`
	AppointmentID   *string               `json:"appointment_id,omitempty"`
	MedicalRecordID *string               `json:"medical_record_id,omitempty"`
	InvoiceNumber   string                `json:"invoice_number"`
	InvoiceDate     time.Time             `json:"invoice_date"`
	DueDate         time.Time             `json:"due_date"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
	TaxAmount       decimal.Decimal       `json:"tax_amount"`
	DiscountAmount  decimal.Decimal       `json:"discount_amount"`
	TotalAmount     decimal.Decimal       `json:"total_amount"`
	PaymentStatus   string                `json:"payment_status"`
	PaymentMethod   *string               `json:"payment_method,omitempty"`
	PaymentDate     *time.Time            `json:"payment_date,omitempty"`
	Notes           string                `json:"notes,omitempty"`
	Items           []InvoiceItemResponse `json:"items,omitempty"`
}

// InvoiceItemResponse línea en la respuesta.
type InvoiceItemResponse struct {
	ID              string          `json:"id"`
	ItemType        string          `json:"item_type"`
	InventoryItemID *string         `json:"inventory_item_id,omitempty"`
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TotalPrice      decimal.Decimal `json:"total_price"`
}

// InvoiceSummaryResponse fila de listado para GET /api/invoices.
type InvoiceSummaryResponse struct {
	ID            string          `json:"id"`
	OwnerID       string          `json:"owner_id"`
	OwnerName     string          `json:"owner_name"`
	PetName       string          `json:"pet_name,omitempty"`
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	DueDate       time.Time       `json:"due_date"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentStatus string          `json:"payment_status"`
}
