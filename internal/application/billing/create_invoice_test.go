package billing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/jhoicas/veterinaria-api/internal/application/dto"
	"github.com/jhoicas/veterinaria-api/internal/domain"
	"github.com/jhoicas/veterinaria-api/internal/domain/entity"
	"github.com/jhoicas/veterinaria-api/pkg/config"
)

const (
	testClinic = "clinic-1"
	testOwner  = "owner-1"
	testItem   = "item-1"
	testUser   = "user-1"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func strPtr(s string) *string { return &s }

// consultaRequest arma el escenario de referencia: consulta $40.00, medicamento
// $15.50 x2 (con descuento de stock) e insumo $5.00 sin artículo asociado.
func consultaRequest() dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		OwnerID: testOwner,
		Items: []dto.InvoiceItemRequest{
			{ItemType: entity.ItemTypeService, Description: "Consulta general", Quantity: dec("1"), UnitPrice: dec("40.00"), TotalPrice: dec("40.00")},
			{ItemType: entity.ItemTypeMedication, InventoryItemID: strPtr(testItem), Description: "Amoxicilina 500mg", Quantity: dec("2"), UnitPrice: dec("15.50"), TotalPrice: dec("31.00")},
			{ItemType: entity.ItemTypeSupply, Description: "Venda elástica", Quantity: dec("1"), UnitPrice: dec("5.00"), TotalPrice: dec("5.00")},
		},
	}
}

func TestCreateInvoice_Exitoso(t *testing.T) {
	s := newMemStore()
	seedOwner(s, testClinic, testOwner)
	seedInventoryItem(s, testClinic, testItem, "10")
	uc := newTestUseCase(s, config.StockPolicySkip, nopCache{})

	resp, err := uc.CreateInvoice(context.Background(), testClinic, testUser, consultaRequest())
	require.NoError(t, err)

	assert.Equal(t, "INV00001", resp.InvoiceNumber)
	assert.Equal(t, "76.00", resp.Subtotal.StringFixed(2))
	assert.Equal(t, "6.08", resp.TaxAmount.StringFixed(2))
	assert.Equal(t, "82.08", resp.TotalAmount.StringFixed(2))
	assert.Equal(t, entity.PaymentStatusUnpaid, resp.PaymentStatus)
	assert.Equal(t, "María García", resp.OwnerName)
	require.Len(t, resp.Items, 3)
	assert.Equal(t, "Consulta general", resp.Items[0].Description)

	// El medicamento descontó stock: 10 - 2 = 8
	assert.Equal(t, "8", s.inventory[testItem].CurrentStock.String())

	// Cabecera y líneas persistidas
	require.Len(t, s.invoices, 1)
	assert.Len(t, s.items[resp.ID], 3)
}

func TestCreateInvoice_ConsecutivoPorClinica(t *testing.T) {
	s := newMemStore()
	seedOwner(s, testClinic, testOwner)
	seedOwner(s, "clinic-2", "owner-2")
	uc := newTestUseCase(s, config.StockPolicySkip, nopCache{})

	req := dto.CreateInvoiceRequest{
		OwnerID: testOwner,
		Items: []dto.InvoiceItemRequest{
			{ItemType: entity.ItemTypeService, Description: "Consulta", Quantity: dec("1"), UnitPrice: dec("40.00"), TotalPrice: dec("40.00")},
		},
	}
	first, err := uc.CreateInvoice(context.Background(), testClinic, testUser, req)
	require.NoError(t, err)
	second, err := uc.CreateInvoice(context.Background(), testClinic, testUser, req)
	require.NoError(t, err)

	// Cada clínica arranca su propio consecutivo
	req.OwnerID = "owner-2"
	other, err := uc.CreateInvoice(context.Background(), "clinic-2", testUser, req)
	require.NoError(t, err)

	assert.Equal(t, "INV00001", first.InvoiceNumber)
	assert.Equal(t, "INV00002", second.InvoiceNumber)
	assert.Equal(t, "INV00001", other.InvoiceNumber)
}

func TestCreateInvoice_TotalCeroQuedaPagada(t *testing.T) {
	s := newMemStore()
	seedOwner(s, testClinic, testOwner)
	uc := newTestUseCase(s, config.StockPolicySkip, nopCache{})

	req := dto.CreateInvoiceRequest{
		OwnerID: testOwner,
		Items: []dto.InvoiceItemRequest{
			{ItemType: entity.ItemTypeService, Description: "Control de cortesía", Quantity: dec("1"), UnitPrice: dec("0"), TotalPrice: dec("0")},
		},
	}
	resp, err := uc.CreateInvoice(context.Background(), testClinic, testUser, req)
	require.NoError(t, err)

	assert.True(t, resp.TotalAmount.IsZero())
	assert.Equal(t, entity.PaymentStatusPaid, resp.PaymentStatus)
}

func TestCreateInvoice_Validaciones(t *testing.T) {
	s := newMemStore()
	seedOwner(s, testClinic, testOwner)
	seedPet(s, testClinic, testOwner, "pet-1", "Firulais")
	seedPet(s, testClinic, "otro-owner", "pet-ajena", "Michi")
	uc := newTestUseCase(s, config.StockPolicySkip, nopCache{})

	ctx := context.Background()
	serviceItem := dto.InvoiceItemRequest{
		ItemType: entity.ItemTypeService, Description: "Consulta",
		Quantity: dec("1"), UnitPrice: dec("40.00"), TotalPrice: dec("40.00"),
	}

	// Sin líneas
	_, err := uc.CreateInvoice(ctx, testClinic, testUser, dto.CreateInvoiceRequest{OwnerID: testOwner})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Propietario inexistente
	_, err = uc.CreateInvoice(ctx, testClinic, testUser, dto.CreateInvoiceRequest{
		OwnerID: "no-existe", Items: []dto.InvoiceItemRequest{serviceItem},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Mascota de otro propietario
	_, err = uc.CreateInvoice(ctx, testClinic, testUser, dto.CreateInvoiceRequest{
		OwnerID: testOwner, PetID: strPtr("pet-ajena"), Items: []dto.InvoiceItemRequest{serviceItem},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Tipo de línea desconocido
	_, err = uc.CreateInvoice(ctx, testClinic, testUser, dto.CreateInvoiceRequest{
		OwnerID: testOwner,
		Items: []dto.InvoiceItemRequest{
			{ItemType: "donation", Description: "x", Quantity: dec("1"), UnitPrice: dec("1"), TotalPrice: dec("1")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Artículo de inventario inexistente
	_, err = uc.CreateInvoice(ctx, testClinic, testUser, dto.CreateInvoiceRequest{
		OwnerID: testOwner,
		Items: []dto.InvoiceItemRequest{
			{ItemType: entity.ItemTypeMedication, InventoryItemID: strPtr("no-existe"), Description: "x", Quantity: dec("1"), UnitPrice: dec("1"), TotalPrice: dec("1")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Total de línea que no coincide con cantidad*precio
	_, err = uc.CreateInvoice(ctx, testClinic, testUser, dto.CreateInvoiceRequest{
		OwnerID: testOwner,
		Items: []dto.InvoiceItemRequest{
			{ItemType: entity.ItemTypeService, Description: "Consulta", Quantity: dec("2"), UnitPrice: dec("15.50"), TotalPrice: dec("30.00")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Nada quedó persistido
	assert.Empty(t, s.invoices)
}

func TestCreateInvoice_RollbackCompleto(t *testing.T) {
	s := newMemStore()
	seedOwner(s, testClinic, testOwner)
	seedInventoryItem(s, testClinic, testItem, "10")
	// La segunda línea falla al insertarse: todo debe revertirse
	s.failItemAfter = 1
	s.errCreateItem = errors.New("deadlock detected")
	uc := newTestUseCase(s, config.StockPolicySkip, nopCache{})

	_, err := uc.CreateInvoice(context.Background(), testClinic, testUser, consultaRequest())
	require.ErrorIs(t, err, domain.ErrInternal)

	// Ni cabecera, ni líneas, ni descuento de stock sobreviven
	assert.Empty(t, s.invoices)
	assert.Empty(t, s.items)
	assert.Equal(t, "10", s.inventory[testItem].CurrentStock.String())
}

func TestCreateInvoice_ReintentaAnteColisionDeNumero(t *testing.T) {
	s := newMemStore()
	seedOwner(s, testClinic, testOwner)
	uc := newTestUseCase(s, config.StockPolicySkip, nopCache{})

	req := dto.CreateInvoiceRequest{
		OwnerID: testOwner,
		Items: []dto.InvoiceItemRequest{
			{ItemType: entity.ItemTypeService, Description: "Consulta", Quantity: dec("1"), UnitPrice: dec("40.00"), TotalPrice: dec("40.00")},
		},
	}
	first, err := uc.CreateInvoice(context.Background(), testClinic, testUser, req)
	require.NoError(t, err)
	require.Equal(t, "INV00001", first.InvoiceNumber)

	// Simula una carrera: el primer intento recibe un número ya tomado y el
	// constraint único lo rechaza; el reintento calcula el siguiente libre.
	s.forcedNumbers = []string{"INV00001"}

	second, err := uc.CreateInvoice(context.Background(), testClinic, testUser, req)
	require.NoError(t, err)
	assert.Equal(t, "INV00002", second.InvoiceNumber)
	assert.Len(t, s.invoices, 2)
}

func TestCreateInvoice_ColisionPersistenteDevuelveConflicto(t *testing.T) {
	s := newMemStore()
	seedOwner(s, testClinic, testOwner)
	uc := newTestUseCase(s, config.StockPolicySkip, nopCache{})

	req := dto.CreateInvoiceRequest{
		OwnerID: testOwner,
		Items: []dto.InvoiceItemRequest{
			{ItemType: entity.ItemTypeService, Description: "Consulta", Quantity: dec("1"), UnitPrice: dec("40.00"), TotalPrice: dec("40.00")},
		},
	}
	_, err := uc.CreateInvoice(context.Background(), testClinic, testUser, req)
	require.NoError(t, err)

	// Colisión en el intento inicial y también en el reintento
	s.forcedNumbers = []string{"INV00001", "INV00001"}

	_, err = uc.CreateInvoice(context.Background(), testClinic, testUser, req)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Len(t, s.invoices, 1)
}

func TestCreateInvoice_PoliticaSkip(t *testing.T) {
	s := newMemStore()
	seedOwner(s, testClinic, testOwner)
	seedInventoryItem(s, testClinic, testItem, "1")
	uc := newTestUseCase(s, config.StockPolicySkip, nopCache{})

	resp, err := uc.CreateInvoice(context.Background(), testClinic, testUser, consultaRequest())
	require.NoError(t, err)

	// La factura procede y el stock insuficiente queda sin descontar
	assert.Equal(t, entity.PaymentStatusUnpaid, resp.PaymentStatus)
	assert.Equal(t, "1", s.inventory[testItem].CurrentStock.String())
}

func TestCreateInvoice_PoliticaReject(t *testing.T) {
	s := newMemStore()
	seedOwner(s, testClinic, testOwner)
	seedInventoryItem(s, testClinic, testItem, "1")
	uc := newTestUseCase(s, config.StockPolicyReject, nopCache{})

	_, err := uc.CreateInvoice(context.Background(), testClinic, testUser, consultaRequest())
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Rollback completo: la cabecera insertada antes del descuento no sobrevive
	assert.Empty(t, s.invoices)
	assert.Equal(t, "1", s.inventory[testItem].CurrentStock.String())
}

func TestCreateInvoice_PoliticaNegative(t *testing.T) {
	s := newMemStore()
	seedOwner(s, testClinic, testOwner)
	seedInventoryItem(s, testClinic, testItem, "1")
	uc := newTestUseCase(s, config.StockPolicyNegative, nopCache{})

	_, err := uc.CreateInvoice(context.Background(), testClinic, testUser, consultaRequest())
	require.NoError(t, err)

	// Descuenta siempre: 1 - 2 = -1
	assert.Equal(t, "-1", s.inventory[testItem].CurrentStock.String())
}

func TestCreateInvoice_ConcurrenciaNumerosDistintos(t *testing.T) {
	s := newMemStore()
	seedOwner(s, testClinic, testOwner)
	seedInventoryItem(s, testClinic, testItem, "1000")
	uc := newTestUseCase(s, config.StockPolicySkip, nopCache{})

	const n = 20
	var wg sync.WaitGroup
	numbers := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := uc.CreateInvoice(context.Background(), testClinic, testUser, consultaRequest())
			if err == nil {
				numbers <- resp.InvoiceNumber
			}
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[string]bool)
	for number := range numbers {
		assert.False(t, seen[number], "número repetido: %s", number)
		seen[number] = true
	}
	// Las 20 creaciones obtienen números distintos y consecutivos
	require.Len(t, seen, n)
	for seq := 1; seq <= n; seq++ {
		assert.True(t, seen[fmt.Sprintf("INV%05d", seq)], "falta INV%05d", seq)
	}

	// Cada factura descontó 2 unidades
	assert.Equal(t, "960", s.inventory[testItem].CurrentStock.String())
}
