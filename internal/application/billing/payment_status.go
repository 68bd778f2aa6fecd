package billing

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/veterinaria-api/internal/application/dto"
	"github.com/jhoicas/veterinaria-api/internal/domain"
	domainbilling "github.com/jhoicas/veterinaria-api/internal/domain/billing"
	"github.com/jhoicas/veterinaria-api/internal/domain/entity"
)

// UpdatePaymentStatus transiciona la factura en su ciclo de pago y registra
// método y fecha. El motor acepta cualquier transición entre estados
// conocidos (comportamiento permisivo vigente); los retrocesos (por ejemplo
// paid -> unpaid) se permiten pero quedan registrados con warning. Si el
// estado es "paid" y no viene fecha, se estampa la hora actual.
func (uc *InvoiceUseCase) UpdatePaymentStatus(ctx context.Context, clinicID, invoiceID string, in dto.UpdatePaymentStatusRequest) (*dto.InvoiceResponse, error) {
	if clinicID == "" || invoiceID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !domainbilling.ValidPaymentStatus(in.Status) {
		return nil, domain.ErrInvalidInput
	}

	inv, err := uc.invoiceRepo.GetByID(clinicID, invoiceID)
	if err != nil {
		return nil, uc.storeFailure("leer factura", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}

	if !domainbilling.ForwardTransition(inv.PaymentStatus, in.Status) {
		uc.log.Warn().
			Str("clinic_id", clinicID).
			Str("invoice_id", invoiceID).
			Str("from", inv.PaymentStatus).
			Str("to", in.Status).
			Msg("transición de pago hacia atrás permitida")
	}

	now := time.Now()
	paymentDate := in.PaymentDate
	if paymentDate == nil && in.Status == entity.PaymentStatusPaid {
		paymentDate = &now
	}

	updated, err := uc.invoiceRepo.UpdatePaymentStatus(clinicID, invoiceID, in.Status, in.PaymentMethod, paymentDate, now)
	if err != nil {
		return nil, uc.storeFailure("actualizar estado de pago", err)
	}
	if !updated {
		return nil, domain.ErrNotFound
	}

	uc.cache.InvalidatePrefix(billingViewPrefix(clinicID))

	resp, err := uc.GetInvoice(ctx, clinicID, invoiceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return resp, nil
}
