package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/veterinaria-api/internal/domain"
	domainbilling "github.com/jhoicas/veterinaria-api/internal/domain/billing"
	"github.com/jhoicas/veterinaria-api/internal/domain/entity"
	"github.com/jhoicas/veterinaria-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// NextInvoiceNumber calcula el siguiente consecutivo de la clínica:
// max(sufijo numérico) + 1, o 1 si no hay facturas. Toma primero un advisory
// lock transaccional por clínica, de modo que dos creaciones concurrentes no
// calculen el mismo valor; el lock se libera al terminar la transacción.
// Debe invocarse sobre la misma tx que insertará la factura. El índice único
// (clinic_id, invoice_number) queda como backstop.
func (r *InvoiceRepo) NextInvoiceNumber(clinicID string) (string, error) {
	lock := `SELECT pg_advisory_xact_lock(hashtextextended('invoice_number:' || $1, 0))`
	if _, err := r.q.Exec(context.Background(), lock, clinicID); err != nil {
		return "", fmt.Errorf("advisory lock numeración: %w", err)
	}

	query := `
		SELECT COALESCE(MAX(CAST(SUBSTRING(invoice_number FROM 4) AS BIGINT)), 0)
		FROM invoices
		WHERE clinic_id = $1 AND invoice_number LIKE 'INV%'`
	var last int64
	if err := r.q.QueryRow(context.Background(), query, clinicID).Scan(&last); err != nil {
		return "", fmt.Errorf("leer consecutivo de facturas: %w", err)
	}
	return domainbilling.FormatNumber(last + 1), nil
}

// Create persiste la cabecera de la factura. Retorna domain.ErrDuplicate si
// el número ya existe para la clínica.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (id, clinic_id, owner_id, pet_id, appointment_id, medical_record_id,
			invoice_number, invoice_date, due_date,
			subtotal, tax_amount, discount_amount, total_amount,
			payment_status, payment_method, payment_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.ClinicID, invoice.OwnerID, invoice.PetID, invoice.AppointmentID, invoice.MedicalRecordID,
		invoice.InvoiceNumber, invoice.InvoiceDate, invoice.DueDate,
		invoice.Subtotal, invoice.TaxAmount, invoice.DiscountAmount, invoice.TotalAmount,
		invoice.PaymentStatus, invoice.PaymentMethod, invoice.PaymentDate, nullIfEmpty(invoice.Notes),
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de la factura.
func (r *InvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoice_items (id, invoice_id, item_type, inventory_item_id, description, quantity, unit_price, total_price, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM invoice_items WHERE invoice_id = $2))`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.InvoiceID, item.ItemType, item.InventoryItemID, item.Description,
		item.Quantity, item.UnitPrice, item.TotalPrice,
	)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// GetByID obtiene una factura de la clínica por ID, o nil si no existe.
func (r *InvoiceRepo) GetByID(clinicID, id string) (*entity.Invoice, error) {
	query := `
		SELECT id, clinic_id, owner_id, pet_id, appointment_id, medical_record_id,
		       invoice_number, invoice_date, due_date,
		       subtotal, tax_amount, discount_amount, total_amount,
		       payment_status, payment_method, payment_date, COALESCE(notes, ''),
		       created_at, updated_at
		FROM invoices WHERE clinic_id = $1 AND id = $2`
	var inv entity.Invoice
	err := r.q.QueryRow(context.Background(), query, clinicID, id).Scan(
		&inv.ID, &inv.ClinicID, &inv.OwnerID, &inv.PetID, &inv.AppointmentID, &inv.MedicalRecordID,
		&inv.InvoiceNumber, &inv.InvoiceDate, &inv.DueDate,
		&inv.Subtotal, &inv.TaxAmount, &inv.DiscountAmount, &inv.TotalAmount,
		&inv.PaymentStatus, &inv.PaymentMethod, &inv.PaymentDate, &inv.Notes,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}

// GetItemsByInvoiceID obtiene las líneas de una factura en orden de inserción.
func (r *InvoiceRepo) GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, item_type, inventory_item_id, description, quantity, unit_price, total_price
		FROM invoice_items WHERE invoice_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.ItemType, &it.InventoryItemID, &it.Description,
			&it.Quantity, &it.UnitPrice, &it.TotalPrice); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// ListByClinic lista facturas con nombres de propietario y mascota. Los
// filtros vacíos no aplican ($2/$3 = '' equivale a sin filtro).
func (r *InvoiceRepo) ListByClinic(clinicID, ownerID, status string) ([]*entity.InvoiceSummary, error) {
	query := `
		SELECT i.id, i.clinic_id, i.owner_id, i.pet_id,
		       i.invoice_number, i.invoice_date, i.due_date,
		       i.subtotal, i.tax_amount, i.discount_amount, i.total_amount,
		       i.payment_status, i.payment_method, i.payment_date,
		       i.created_at, i.updated_at,
		       TRIM(o.first_name || ' ' || o.last_name),
		       COALESCE(p.name, '')
		FROM invoices i
		JOIN owners o ON o.id = i.owner_id
		LEFT JOIN pets p ON p.id = i.pet_id
		WHERE i.clinic_id = $1
		  AND ($2 = '' OR i.owner_id = $2)
		  AND ($3 = '' OR i.payment_status = $3)
		ORDER BY i.invoice_date DESC, i.created_at DESC`
	rows, err := r.q.Query(context.Background(), query, clinicID, ownerID, status)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceSummary
	for rows.Next() {
		var s entity.InvoiceSummary
		if err := rows.Scan(
			&s.ID, &s.ClinicID, &s.OwnerID, &s.PetID,
			&s.InvoiceNumber, &s.InvoiceDate, &s.DueDate,
			&s.Subtotal, &s.TaxAmount, &s.DiscountAmount, &s.TotalAmount,
			&s.PaymentStatus, &s.PaymentMethod, &s.PaymentDate,
			&s.CreatedAt, &s.UpdatedAt,
			&s.OwnerName, &s.PetName,
		); err != nil {
			return nil, fmt.Errorf("scan invoice summary: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// UpdatePaymentStatus actualiza solo los campos del ciclo de pago, con
// columnas enumeradas. Método y fecha conservan su valor cuando vienen nil.
// Retorna false si la factura no existe para la clínica.
func (r *InvoiceRepo) UpdatePaymentStatus(clinicID, id, status string, method *string, paymentDate *time.Time, updatedAt time.Time) (bool, error) {
	query := `
		UPDATE invoices
		SET payment_status = $3,
		    payment_method = COALESCE($4, payment_method),
		    payment_date   = COALESCE($5, payment_date),
		    updated_at     = $6
		WHERE clinic_id = $1 AND id = $2`
	tag, err := r.q.Exec(context.Background(), query, clinicID, id, status, method, paymentDate, updatedAt)
	if err != nil {
		return false, fmt.Errorf("update payment status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
