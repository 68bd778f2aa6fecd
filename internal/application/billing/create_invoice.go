package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/veterinaria-api/internal/application/dto"
	"github.com/jhoicas/veterinaria-api/internal/domain"
	domainbilling "github.com/jhoicas/veterinaria-api/internal/domain/billing"
	"github.com/jhoicas/veterinaria-api/internal/domain/entity"
	"github.com/jhoicas/veterinaria-api/internal/domain/repository"
	"github.com/jhoicas/veterinaria-api/pkg/config"
	"github.com/jhoicas/veterinaria-api/pkg/logger"
)

// InvoiceUseCase orquesta el motor de facturación: crea la factura con sus
// líneas y los descuentos de inventario en una sola transacción, actualiza el
// ciclo de pago y expone las consultas de lectura.
type InvoiceUseCase struct {
	txRunner      BillingTxRunner
	debiter       StockDebiter
	ownerRepo     repository.OwnerRepository
	petRepo       repository.PetRepository
	inventoryRepo repository.InventoryRepository
	invoiceRepo   repository.InvoiceRepository
	cache         ViewCache
	cfg           config.BillingConfig
	log           *logger.Logger
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner BillingTxRunner,
	debiter StockDebiter,
	ownerRepo repository.OwnerRepository,
	petRepo repository.PetRepository,
	inventoryRepo repository.InventoryRepository,
	invoiceRepo repository.InvoiceRepository,
	cache ViewCache,
	cfg config.BillingConfig,
	log *logger.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:      txRunner,
		debiter:       debiter,
		ownerRepo:     ownerRepo,
		petRepo:       petRepo,
		inventoryRepo: inventoryRepo,
		invoiceRepo:   invoiceRepo,
		cache:         cache,
		cfg:           cfg,
		log:           log,
	}
}

// CreateInvoice crea la factura completa en una transacción: calcula totales,
// asigna el consecutivo de la clínica, inserta cabecera y líneas y descuenta
// inventario por cada línea con artículo asociado. Cualquier error revierte
// todo. Ante colisión del consecutivo (carrera entre creadores) reintenta la
// transacción completa una vez antes de devolver el conflicto.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, clinicID, userID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if clinicID == "" || in.OwnerID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	// Validar propietario (y mascota si viene) fuera de la tx, solo lectura
	owner, err := uc.ownerRepo.GetByID(clinicID, in.OwnerID)
	if err != nil {
		return nil, uc.storeFailure("validar propietario", err)
	}
	if owner == nil {
		return nil, domain.ErrNotFound
	}
	if in.PetID != nil {
		pet, err := uc.petRepo.GetByID(clinicID, *in.PetID)
		if err != nil {
			return nil, uc.storeFailure("validar mascota", err)
		}
		if pet == nil {
			return nil, domain.ErrNotFound
		}
		if pet.OwnerID != in.OwnerID {
			return nil, domain.ErrInvalidInput
		}
	}

	// Validar tipos de línea y existencia de los artículos referenciados
	lines := make([]domainbilling.Line, len(in.Items))
	for i, item := range in.Items {
		if !entity.ValidItemType(item.ItemType) || item.Description == "" {
			return nil, domain.ErrInvalidInput
		}
		if item.InventoryItemID != nil && entity.StockTracked(item.ItemType) {
			invItem, err := uc.inventoryRepo.GetByID(clinicID, *item.InventoryItemID)
			if err != nil {
				return nil, uc.storeFailure("validar artículo de inventario", err)
			}
			if invItem == nil {
				return nil, domain.ErrNotFound
			}
		}
		lines[i] = domainbilling.Line{
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		}
	}

	discount := decimal.Zero
	if in.DiscountAmount != nil {
		discount = *in.DiscountAmount
	}
	taxRate := uc.cfg.TaxRate
	if in.TaxRate != nil {
		taxRate = *in.TaxRate
	}
	totals, err := domainbilling.CalculateTotals(lines, discount, taxRate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	dueDate := now.AddDate(0, 0, uc.cfg.DueDays)
	if in.DueDate != nil {
		dueDate = *in.DueDate
	}
	status := entity.PaymentStatusUnpaid
	if totals.TotalAmount.IsZero() {
		status = entity.PaymentStatusPaid
	}

	var inv *entity.Invoice
	var items []*entity.InvoiceItem

	// Dos intentos: el segundo solo ante colisión del número de factura
	// (constraint único por clínica como backstop del consecutivo).
	for attempt := 0; ; attempt++ {
		inv = nil
		items = items[:0]
		err = uc.txRunner.RunBilling(ctx, func(
			invoiceRepo repository.InvoiceRepository,
			inventoryRepo repository.InventoryRepository,
		) error {
			// 1) Consecutivo por clínica, serializado dentro de la tx
			number, err := invoiceRepo.NextInvoiceNumber(clinicID)
			if err != nil {
				return err
			}

			// 2) Cabecera
			inv = &entity.Invoice{
				ID:              uuid.New().String(),
				ClinicID:        clinicID,
				OwnerID:         in.OwnerID,
				PetID:           in.PetID,
				AppointmentID:   in.AppointmentID,
				MedicalRecordID: in.MedicalRecordID,
				InvoiceNumber:   number,
				InvoiceDate:     now,
				DueDate:         dueDate,
				Subtotal:        totals.Subtotal,
				TaxAmount:       totals.TaxAmount,
				DiscountAmount:  totals.DiscountAmount,
				TotalAmount:     totals.TotalAmount,
				PaymentStatus:   status,
				PaymentMethod:   in.PaymentMethod,
				Notes:           in.Notes,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if err := invoiceRepo.Create(inv); err != nil {
				return err
			}

			// 3) Líneas y descuento de inventario (misma tx)
			for _, reqItem := range in.Items {
				item := &entity.InvoiceItem{
					ID:              uuid.New().String(),
					InvoiceID:       inv.ID,
					ItemType:        reqItem.ItemType,
					InventoryItemID: reqItem.InventoryItemID,
					Description:     reqItem.Description,
					Quantity:        reqItem.Quantity,
					UnitPrice:       reqItem.UnitPrice,
					TotalPrice:      reqItem.TotalPrice,
				}
				if err := invoiceRepo.CreateItem(item); err != nil {
					return err
				}
				items = append(items, item)

				if entity.StockTracked(item.ItemType) && item.InventoryItemID != nil {
					if err := uc.debiter.DebitForInvoiceInTx(
						inventoryRepo, clinicID, *item.InventoryItemID, item.Quantity, now,
					); err != nil {
						return err
					}
				}
			}
			return nil
		})
		if errors.Is(err, domain.ErrDuplicate) && attempt == 0 {
			uc.log.Warn().
				Str("clinic_id", clinicID).
				Msg("colisión de número de factura, reintentando transacción")
			continue
		}
		break
	}
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput),
			errors.Is(err, domain.ErrNotFound),
			errors.Is(err, domain.ErrInsufficientStock),
			errors.Is(err, domain.ErrDuplicate):
			return nil, err
		}
		return nil, uc.storeFailure("crear factura", err)
	}

	// Invalidación de vistas fuera de la tx: fire-and-forget
	uc.cache.InvalidatePrefix(billingViewPrefix(clinicID))
	uc.cache.InvalidatePrefix(inventoryViewPrefix(clinicID))

	uc.log.Info().
		Str("clinic_id", clinicID).
		Str("invoice_id", inv.ID).
		Str("invoice_number", inv.InvoiceNumber).
		Str("total_amount", inv.TotalAmount.StringFixed(2)).
		Str("created_by", userID).
		Msg("factura creada")

	return toInvoiceResponse(inv, owner.FullName(), items), nil
}

// storeFailure registra el error de almacenamiento con contexto y devuelve el
// sentinel genérico: los errores crudos del store nunca llegan al caller.
func (uc *InvoiceUseCase) storeFailure(op string, err error) error {
	uc.log.Error().Err(err).Str("op", op).Msg("error de almacenamiento en facturación")
	return domain.ErrInternal
}

func billingViewPrefix(clinicID string) string   { return "billing:" + clinicID }
func inventoryViewPrefix(clinicID string) string { return "inventory:" + clinicID }

func toInvoiceResponse(inv *entity.Invoice, ownerName string, items []*entity.InvoiceItem) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:              inv.ID,
		ClinicID:        inv.ClinicID,
		OwnerID:         inv.OwnerID,
		OwnerName:       ownerName,
		PetID:           inv.PetID,
		AppointmentID:   inv.AppointmentID,
		MedicalRecordID: inv.MedicalRecordID,
		InvoiceNumber:   inv.InvoiceNumber,
		InvoiceDate:     inv.InvoiceDate,
		DueDate:         inv.DueDate,
		Subtotal:        inv.Subtotal,
		TaxAmount:       inv.TaxAmount,
		DiscountAmount:  inv.DiscountAmount,
		TotalAmount:     inv.TotalAmount,
		PaymentStatus:   inv.PaymentStatus,
		PaymentMethod:   inv.PaymentMethod,
		PaymentDate:     inv.PaymentDate,
		Notes:           inv.Notes,
		Items:           make([]dto.InvoiceItemResponse, 0, len(items)),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ID:              it.ID,
			ItemType:        it.ItemType,
			InventoryItemID: it.InventoryItemID,
			Description:     it.Description,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			TotalPrice:      it.TotalPrice,
		})
	}
	return resp
}
