package billing

import (
	"context"
	"strings"

	"github.com/jhoicas/veterinaria-api/internal/application/dto"
	"github.com/jhoicas/veterinaria-api/internal/domain"
	domainbilling "github.com/jhoicas/veterinaria-api/internal/domain/billing"
)

// ListInvoices lista las facturas de la clínica, opcionalmente filtradas por
// propietario y estado de pago, con nombres de propietario y mascota para
// despliegue. El resultado se sirve desde el view cache cuando existe; las
// escrituras del motor lo invalidan por prefijo.
func (uc *InvoiceUseCase) ListInvoices(ctx context.Context, clinicID, ownerID, status string) ([]dto.InvoiceSummaryResponse, error) {
	if clinicID == "" {
		return nil, domain.ErrInvalidInput
	}
	if status != "" && !domainbilling.ValidPaymentStatus(status) {
		return nil, domain.ErrInvalidInput
	}

	key := listViewKey(clinicID, ownerID, status)
	if cached, ok := uc.cache.Get(key); ok {
		if list, ok := cached.([]dto.InvoiceSummaryResponse); ok {
			return list, nil
		}
	}

	rows, err := uc.invoiceRepo.ListByClinic(clinicID, ownerID, status)
	if err != nil {
		return nil, uc.storeFailure("listar facturas", err)
	}
	list := make([]dto.InvoiceSummaryResponse, 0, len(rows))
	for _, row := range rows {
		list = append(list, dto.InvoiceSummaryResponse{
			ID:            row.ID,
			OwnerID:       row.OwnerID,
			OwnerName:     row.OwnerName,
			PetName:       row.PetName,
			InvoiceNumber: row.InvoiceNumber,
			InvoiceDate:   row.InvoiceDate,
			DueDate:       row.DueDate,
			TotalAmount:   row.TotalAmount,
			PaymentStatus: row.PaymentStatus,
		})
	}
	uc.cache.Set(key, list)
	return list, nil
}

// GetInvoice obtiene una factura de la clínica con todas sus líneas en orden
// de inserción. Lectura pura: dos llamadas consecutivas sin mutación
// intermedia devuelven lo mismo.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, clinicID, invoiceID string) (*dto.InvoiceResponse, error) {
	if clinicID == "" || invoiceID == "" {
		return nil, domain.ErrInvalidInput
	}
	inv, err := uc.invoiceRepo.GetByID(clinicID, invoiceID)
	if err != nil {
		return nil, uc.storeFailure("leer factura", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.invoiceRepo.GetItemsByInvoiceID(inv.ID)
	if err != nil {
		return nil, uc.storeFailure("leer líneas de factura", err)
	}
	ownerName := ""
	if owner, err := uc.ownerRepo.GetByID(clinicID, inv.OwnerID); err == nil && owner != nil {
		ownerName = owner.FullName()
	}
	return toInvoiceResponse(inv, ownerName, items), nil
}

func listViewKey(clinicID, ownerID, status string) string {
	return strings.Join([]string{billingViewPrefix(clinicID), "list", ownerID, status}, ":")
}
