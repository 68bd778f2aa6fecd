package billing

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/veterinaria-api/internal/application/inventory"
	"github.com/jhoicas/veterinaria-api/internal/domain"
	domainbilling "github.com/jhoicas/veterinaria-api/internal/domain/billing"
	"github.com/jhoicas/veterinaria-api/internal/domain/entity"
	"github.com/jhoicas/veterinaria-api/internal/domain/repository"
	"github.com/jhoicas/veterinaria-api/pkg/config"
	"github.com/jhoicas/veterinaria-api/pkg/logger"
)

// memStore almacén en memoria compartido por los repos falsos. El runner de
// transacciones toma snapshot antes de ejecutar y restaura ante error, con el
// mutex tomado durante toda la transacción (serializable, como el advisory
// lock por clínica en PostgreSQL).
type memStore struct {
	mu        sync.Mutex
	owners    map[string]*entity.Owner
	pets      map[string]*entity.Pet
	inventory map[string]*entity.InventoryItem
	invoices  map[string]*entity.Invoice
	items     map[string][]*entity.InvoiceItem // por invoiceID

	// Ganchos de prueba
	forcedNumbers   []string // cola para NextInvoiceNumber (simula carreras)
	failItemAfter   int      // falla CreateItem tras N llamadas exitosas; -1 = nunca
	createItemCalls int
	errCreateItem   error
}

func newMemStore() *memStore {
	return &memStore{
		owners:        make(map[string]*entity.Owner),
		pets:          make(map[string]*entity.Pet),
		inventory:     make(map[string]*entity.InventoryItem),
		invoices:      make(map[string]*entity.Invoice),
		items:         make(map[string][]*entity.InvoiceItem),
		failItemAfter: -1,
	}
}

type memSnapshot struct {
	inventory map[string]entity.InventoryItem
	invoices  map[string]entity.Invoice
	items     map[string][]entity.InvoiceItem
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		inventory: make(map[string]entity.InventoryItem, len(s.inventory)),
		invoices:  make(map[string]entity.Invoice, len(s.invoices)),
		items:     make(map[string][]entity.InvoiceItem, len(s.items)),
	}
	for id, it := range s.inventory {
		snap.inventory[id] = *it
	}
	for id, inv := range s.invoices {
		snap.invoices[id] = *inv
	}
	for id, lines := range s.items {
		cp := make([]entity.InvoiceItem, len(lines))
		for i, l := range lines {
			cp[i] = *l
		}
		snap.items[id] = cp
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.inventory = make(map[string]*entity.InventoryItem, len(snap.inventory))
	for id, it := range snap.inventory {
		cp := it
		s.inventory[id] = &cp
	}
	s.invoices = make(map[string]*entity.Invoice, len(snap.invoices))
	for id, inv := range snap.invoices {
		cp := inv
		s.invoices[id] = &cp
	}
	s.items = make(map[string][]*entity.InvoiceItem, len(snap.items))
	for id, lines := range snap.items {
		cp := make([]*entity.InvoiceItem, len(lines))
		for i := range lines {
			l := lines[i]
			cp[i] = &l
		}
		s.items[id] = cp
	}
}

// fakeTxRunner implementa BillingTxRunner sobre memStore: mutex durante toda
// la transacción, snapshot al entrar y restore ante error.
type fakeTxRunner struct {
	s *memStore
}

func (r *fakeTxRunner) RunBilling(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	inventoryRepo repository.InventoryRepository,
) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	snap := r.s.snapshot()
	err := fn(&fakeInvoiceRepo{s: r.s, inTx: true}, &fakeInventoryRepo{s: r.s, inTx: true})
	if err != nil {
		r.s.restore(snap)
	}
	return err
}

// fakeInvoiceRepo implementa repository.InvoiceRepository. Fuera de tx toma el
// mutex por operación; dentro de tx el runner ya lo sostiene.
type fakeInvoiceRepo struct {
	s    *memStore
	inTx bool
}

func (r *fakeInvoiceRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *fakeInvoiceRepo) NextInvoiceNumber(clinicID string) (string, error) {
	defer r.lock()()
	if len(r.s.forcedNumbers) > 0 {
		n := r.s.forcedNumbers[0]
		r.s.forcedNumbers = r.s.forcedNumbers[1:]
		return n, nil
	}
	var last int64
	for _, inv := range r.s.invoices {
		if inv.ClinicID != clinicID {
			continue
		}
		if seq, err := domainbilling.SequenceOf(inv.InvoiceNumber); err == nil && seq > last {
			last = seq
		}
	}
	return domainbilling.FormatNumber(last + 1), nil
}

func (r *fakeInvoiceRepo) Create(invoice *entity.Invoice) error {
	defer r.lock()()
	for _, inv := range r.s.invoices {
		if inv.ClinicID == invoice.ClinicID && inv.InvoiceNumber == invoice.InvoiceNumber {
			return domain.ErrDuplicate
		}
	}
	cp := *invoice
	r.s.invoices[invoice.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	defer r.lock()()
	if r.s.failItemAfter >= 0 && r.s.createItemCalls >= r.s.failItemAfter {
		return r.s.errCreateItem
	}
	r.s.createItemCalls++
	cp := *item
	r.s.items[item.InvoiceID] = append(r.s.items[item.InvoiceID], &cp)
	return nil
}

func (r *fakeInvoiceRepo) GetByID(clinicID, id string) (*entity.Invoice, error) {
	defer r.lock()()
	inv, ok := r.s.invoices[id]
	if !ok || inv.ClinicID != clinicID {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeInvoiceRepo) GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error) {
	defer r.lock()()
	lines := r.s.items[invoiceID]
	out := make([]*entity.InvoiceItem, len(lines))
	for i, l := range lines {
		cp := *l
		out[i] = &cp
	}
	return out, nil
}

func (r *fakeInvoiceRepo) ListByClinic(clinicID, ownerID, status string) ([]*entity.InvoiceSummary, error) {
	defer r.lock()()
	var out []*entity.InvoiceSummary
	for _, inv := range r.s.invoices {
		if inv.ClinicID != clinicID {
			continue
		}
		if ownerID != "" && inv.OwnerID != ownerID {
			continue
		}
		if status != "" && inv.PaymentStatus != status {
			continue
		}
		row := &entity.InvoiceSummary{Invoice: *inv}
		if owner, ok := r.s.owners[inv.OwnerID]; ok {
			row.OwnerName = owner.FullName()
		}
		if inv.PetID != nil {
			if pet, ok := r.s.pets[*inv.PetID]; ok {
				row.PetName = pet.Name
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (r *fakeInvoiceRepo) UpdatePaymentStatus(clinicID, id, status string, method *string, paymentDate *time.Time, updatedAt time.Time) (bool, error) {
	defer r.lock()()
	inv, ok := r.s.invoices[id]
	if !ok || inv.ClinicID != clinicID {
		return false, nil
	}
	inv.PaymentStatus = status
	if method != nil {
		inv.PaymentMethod = method
	}
	if paymentDate != nil {
		inv.PaymentDate = paymentDate
	}
	inv.UpdatedAt = updatedAt
	return true, nil
}

// fakeInventoryRepo implementa repository.InventoryRepository sobre memStore.
type fakeInventoryRepo struct {
	s    *memStore
	inTx bool
}

func (r *fakeInventoryRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *fakeInventoryRepo) Create(item *entity.InventoryItem) error {
	defer r.lock()()
	cp := *item
	r.s.inventory[item.ID] = &cp
	return nil
}

func (r *fakeInventoryRepo) GetByID(clinicID, id string) (*entity.InventoryItem, error) {
	defer r.lock()()
	item, ok := r.s.inventory[id]
	if !ok || item.ClinicID != clinicID {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (r *fakeInventoryRepo) GetForUpdate(clinicID, id string) (*entity.InventoryItem, error) {
	return r.GetByID(clinicID, id)
}

func (r *fakeInventoryRepo) DebitStock(clinicID, id string, quantity decimal.Decimal, now time.Time) (bool, error) {
	defer r.lock()()
	item, ok := r.s.inventory[id]
	if !ok || item.ClinicID != clinicID {
		return false, nil
	}
	if item.CurrentStock.LessThan(quantity) {
		return false, nil
	}
	item.CurrentStock = item.CurrentStock.Sub(quantity)
	item.UpdatedAt = now
	return true, nil
}

func (r *fakeInventoryRepo) DebitStockUnchecked(clinicID, id string, quantity decimal.Decimal, now time.Time) error {
	defer r.lock()()
	item, ok := r.s.inventory[id]
	if !ok || item.ClinicID != clinicID {
		return domain.ErrNotFound
	}
	item.CurrentStock = item.CurrentStock.Sub(quantity)
	item.UpdatedAt = now
	return nil
}

func (r *fakeInventoryRepo) AddStock(clinicID, id string, quantity decimal.Decimal, now time.Time) error {
	defer r.lock()()
	item, ok := r.s.inventory[id]
	if !ok || item.ClinicID != clinicID {
		return domain.ErrNotFound
	}
	item.CurrentStock = item.CurrentStock.Add(quantity)
	item.UpdatedAt = now
	return nil
}

func (r *fakeInventoryRepo) ListByClinic(clinicID string, limit, offset int) ([]*entity.InventoryItem, error) {
	defer r.lock()()
	var out []*entity.InventoryItem
	for _, item := range r.s.inventory {
		if item.ClinicID != clinicID {
			continue
		}
		cp := *item
		out = append(out, &cp)
	}
	return out, nil
}

// fakeOwnerRepo implementa repository.OwnerRepository.
type fakeOwnerRepo struct{ s *memStore }

func (r *fakeOwnerRepo) Create(owner *entity.Owner) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *owner
	r.s.owners[owner.ID] = &cp
	return nil
}

func (r *fakeOwnerRepo) GetByID(clinicID, id string) (*entity.Owner, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	owner, ok := r.s.owners[id]
	if !ok || owner.ClinicID != clinicID {
		return nil, nil
	}
	cp := *owner
	return &cp, nil
}

func (r *fakeOwnerRepo) ListByClinic(clinicID string, limit, offset int) ([]*entity.Owner, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Owner
	for _, owner := range r.s.owners {
		if owner.ClinicID == clinicID {
			cp := *owner
			out = append(out, &cp)
		}
	}
	return out, nil
}

// fakePetRepo implementa repository.PetRepository.
type fakePetRepo struct{ s *memStore }

func (r *fakePetRepo) Create(pet *entity.Pet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *pet
	r.s.pets[pet.ID] = &cp
	return nil
}

func (r *fakePetRepo) GetByID(clinicID, id string) (*entity.Pet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	pet, ok := r.s.pets[id]
	if !ok || pet.ClinicID != clinicID {
		return nil, nil
	}
	cp := *pet
	return &cp, nil
}

func (r *fakePetRepo) ListByOwner(clinicID, ownerID string) ([]*entity.Pet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Pet
	for _, pet := range r.s.pets {
		if pet.ClinicID == clinicID && pet.OwnerID == ownerID {
			cp := *pet
			out = append(out, &cp)
		}
	}
	return out, nil
}

// nopCache implementa ViewCache sin cachear nada (para pruebas que no miran el cache).
type nopCache struct{}

func (nopCache) Get(string) (any, bool)  { return nil, false }
func (nopCache) Set(string, any)         {}
func (nopCache) InvalidatePrefix(string) {}

// memCache implementa ViewCache con un mapa, invalidable por prefijo
// (misma semántica que el cache de infraestructura, sin importarlo).
type memCache struct {
	mu      sync.Mutex
	entries map[string]any
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]any)}
}

func (c *memCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *memCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

func (c *memCache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
}

// newTestUseCase arma el caso de uso completo sobre el almacén en memoria,
// con el caso de uso real de inventario como debiter (política indicada).
func newTestUseCase(s *memStore, policy string, cache ViewCache) *InvoiceUseCase {
	cfg := config.BillingConfig{
		TaxRate:     decimal.RequireFromString("0.08"),
		StockPolicy: policy,
		DueDays:     30,
	}
	log := logger.Nop()
	invRepo := &fakeInventoryRepo{s: s}
	debiter := inventory.NewUseCase(nil, invRepo, policy, log)
	return NewInvoiceUseCase(
		&fakeTxRunner{s: s},
		debiter,
		&fakeOwnerRepo{s: s},
		&fakePetRepo{s: s},
		invRepo,
		&fakeInvoiceRepo{s: s},
		cache,
		cfg,
		log,
	)
}

func seedOwner(s *memStore, clinicID, id string) {
	s.owners[id] = &entity.Owner{ID: id, ClinicID: clinicID, FirstName: "María", LastName: "García"}
}

func seedPet(s *memStore, clinicID, ownerID, id, name string) {
	s.pets[id] = &entity.Pet{ID: id, ClinicID: clinicID, OwnerID: ownerID, Name: name, Species: "perro"}
}

func seedInventoryItem(s *memStore, clinicID, id, stock string) {
	s.inventory[id] = &entity.InventoryItem{
		ID:           id,
		ClinicID:     clinicID,
		Name:         "Amoxicilina 500mg",
		Category:     entity.ItemTypeMedication,
		UnitPrice:    decimal.RequireFromString("15.50"),
		CurrentStock: decimal.RequireFromString(stock),
		ReorderPoint: decimal.RequireFromString("5"),
	}
}
