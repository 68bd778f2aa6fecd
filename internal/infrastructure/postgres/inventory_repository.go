package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/veterinaria-api/internal/domain"
	"github.com/jhoicas/veterinaria-api/internal/domain/entity"
	"github.com/jhoicas/veterinaria-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL
// (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

const inventoryColumns = `id, clinic_id, name, category, unit_price, current_stock, reorder_point, created_at, updated_at`

// Create persiste un artículo de inventario.
func (r *InventoryRepo) Create(item *entity.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (` + inventoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.ClinicID, item.Name, item.Category,
		item.UnitPrice, item.CurrentStock, item.ReorderPoint,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert inventory item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo de la clínica, o nil si no existe.
func (r *InventoryRepo) GetByID(clinicID, id string) (*entity.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items WHERE clinic_id = $1 AND id = $2`
	return r.scanOne(query, clinicID, id)
}

// GetForUpdate obtiene el artículo bloqueando la fila (SELECT FOR UPDATE).
func (r *InventoryRepo) GetForUpdate(clinicID, id string) (*entity.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items WHERE clinic_id = $1 AND id = $2 FOR UPDATE`
	return r.scanOne(query, clinicID, id)
}

func (r *InventoryRepo) scanOne(query string, args ...any) (*entity.InventoryItem, error) {
	var it entity.InventoryItem
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&it.ID, &it.ClinicID, &it.Name, &it.Category,
		&it.UnitPrice, &it.CurrentStock, &it.ReorderPoint,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory item: %w", err)
	}
	return &it, nil
}

// DebitStock descuenta quantity solo si hay stock suficiente: el WHERE
// condiciona current_stock >= quantity, de modo que con stock insuficiente el
// UPDATE no afecta filas y se retorna false. Toca updated_at al aplicar.
func (r *InventoryRepo) DebitStock(clinicID, id string, quantity decimal.Decimal, now time.Time) (bool, error) {
	query := `
		UPDATE inventory_items
		SET current_stock = current_stock - $3, updated_at = $4
		WHERE clinic_id = $1 AND id = $2 AND current_stock >= $3`
	tag, err := r.q.Exec(context.Background(), query, clinicID, id, quantity, now)
	if err != nil {
		return false, fmt.Errorf("debit stock: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DebitStockUnchecked descuenta sin condición; el saldo puede quedar negativo.
func (r *InventoryRepo) DebitStockUnchecked(clinicID, id string, quantity decimal.Decimal, now time.Time) error {
	query := `
		UPDATE inventory_items
		SET current_stock = current_stock - $3, updated_at = $4
		WHERE clinic_id = $1 AND id = $2`
	tag, err := r.q.Exec(context.Background(), query, clinicID, id, quantity, now)
	if err != nil {
		return fmt.Errorf("debit stock unchecked: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddStock suma quantity al stock (reabastecimiento).
func (r *InventoryRepo) AddStock(clinicID, id string, quantity decimal.Decimal, now time.Time) error {
	query := `
		UPDATE inventory_items
		SET current_stock = current_stock + $3, updated_at = $4
		WHERE clinic_id = $1 AND id = $2`
	tag, err := r.q.Exec(context.Background(), query, clinicID, id, quantity, now)
	if err != nil {
		return fmt.Errorf("add stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByClinic lista el inventario de la clínica con paginación.
func (r *InventoryRepo) ListByClinic(clinicID string, limit, offset int) ([]*entity.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items WHERE clinic_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, clinicID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryItem
	for rows.Next() {
		var it entity.InventoryItem
		if err := rows.Scan(
			&it.ID, &it.ClinicID, &it.Name, &it.Category,
			&it.UnitPrice, &it.CurrentStock, &it.ReorderPoint,
			&it.CreatedAt, &it.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}
