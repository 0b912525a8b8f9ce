package inventoryrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"restostock/internal/domain"
	apperror "restostock/internal/errors"
	"restostock/internal/pkg/cache"
	"restostock/internal/pkg/logger"
)

// InventoryRepository concentra as escritas de estoque e as leituras do
// espelho de inventário. Toda escrita roda em transação: o produto é
// travado (FOR UPDATE), o novo estoque é validado e produto + inventário
// são gravados juntos.
type InventoryRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewInventoryRepository cria o repositório de inventário.
func NewInventoryRepository(db *sql.DB, cacheClient cache.Client, dbTimeout time.Duration, log logger.Logger) *InventoryRepository {
	return &InventoryRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		logger:    log,
	}
}

const inventoryViewSQL = `
	SELECT i.id, i.current_quantity, i.last_updated_at,
	       p.id, p.name, p.category, p.min_quantity_on_stock
	FROM inventories i
	JOIN products p ON p.id = i.product_id`

func scanView(row interface{ Scan(...interface{}) error }) (domain.InventoryView, error) {
	var v domain.InventoryView
	err := row.Scan(
		&v.ID,
		&v.CurrentQuantity,
		&v.LastUpdatedAt,
		&v.Product.ID,
		&v.Product.Name,
		&v.Product.Category,
		&v.Product.MinQuantityOnStock,
	)
	return v, err
}

// FindByProductName busca o inventário pelo nome do produto (case-insensitive).
func (r *InventoryRepository) FindByProductName(ctx context.Context, productName string) (domain.InventoryView, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := inventoryViewSQL + ` WHERE LOWER(p.name) = LOWER($1)`
	view, err := scanView(r.DB.QueryRowContext(ctxTimeout, query, productName))
	if err == sql.ErrNoRows {
		return domain.InventoryView{}, apperror.NewNotFoundError("Inventory not found for product: " + productName)
	}
	if err != nil {
		return domain.InventoryView{}, apperror.NewDBError("failed to find inventory by product name", err)
	}
	return view, nil
}

// FindByCategory lista os inventários dos produtos da categoria informada.
func (r *InventoryRepository) FindByCategory(ctx context.Context, category domain.ProductCategory) ([]domain.InventoryView, error) {
	return r.query(ctx, inventoryViewSQL+` WHERE p.category = $1 ORDER BY p.name`, category)
}

// FindWithLowStock lista os inventários cujo produto está no limiar de
// notificação (estoque atual <= mínimo).
func (r *InventoryRepository) FindWithLowStock(ctx context.Context) ([]domain.InventoryView, error) {
	return r.query(ctx, inventoryViewSQL+` WHERE p.current_stock <= p.min_quantity_on_stock ORDER BY p.name`)
}

func (r *InventoryRepository) query(ctx context.Context, query string, args ...interface{}) ([]domain.InventoryView, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		return nil, apperror.NewDBError("failed to query inventories", err)
	}
	defer rows.Close()

	var views []domain.InventoryView
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, apperror.NewDBError("failed to scan inventory", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate inventories", err)
	}
	return views, nil
}

// ApplyStockDelta aplica um delta assinado ao estoque do produto, em transação:
// trava a linha do produto, valida a não-negatividade, grava produto e
// inventário e incrementa a versão. Retorna o produto atualizado.
func (r *InventoryRepository) ApplyStockDelta(ctx context.Context, productID string, delta int64) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.Product{}, apperror.NewDBError("failed to start tx", err)
	}
	defer tx.Rollback()

	product, err := applyDelta(ctxTimeout, tx, productID, delta)
	if err != nil {
		return domain.Product{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.Product{}, apperror.NewDBError("failed to commit tx", err)
	}

	r.invalidate(ctxTimeout, productID)
	r.logger.Info("Estoque ajustado.", map[string]interface{}{
		"product_id": productID,
		"delta":      delta,
		"new_stock":  product.CurrentStock,
	})
	return product, nil
}

// SetStock grava um valor absoluto de estoque com checagem de versão (OCC).
// Usado pelo patch de produto, onde o chamador já leu o produto e conhece a
// versão vigente.
func (r *InventoryRepository) SetStock(ctx context.Context, productID string, newStock int64, expectedVersion int) (domain.Product, error) {
	if newStock < 0 {
		return domain.Product{}, apperror.NewValidationError("The stock can't be negative!")
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.Product{}, apperror.NewDBError("failed to start tx", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	const updateSQL = `
		UPDATE products
		SET current_stock = $1, version = version + 1, updated_at = $2
		WHERE id = $3 AND version = $4
		RETURNING id, name, category, measurement_unit, price, current_stock, min_quantity_on_stock, version, created_at, updated_at`

	var product domain.Product
	err = tx.QueryRowContext(ctxTimeout, updateSQL, newStock, now, productID, expectedVersion).Scan(
		&product.ID,
		&product.Name,
		&product.Category,
		&product.MeasurementUnit,
		&product.Price,
		&product.CurrentStock,
		&product.MinQuantityOnStock,
		&product.Version,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		// Ou o produto não existe mais, ou a versão está desatualizada.
		return domain.Product{}, apperror.NewConflictError("O produto foi modificado por outra operação. Tente novamente.")
	}
	if err != nil {
		return domain.Product{}, apperror.NewDBError("failed to set stock", err)
	}

	if err := syncInventory(ctxTimeout, tx, productID, newStock, now); err != nil {
		return domain.Product{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.Product{}, apperror.NewDBError("failed to commit tx", err)
	}

	r.invalidate(ctxTimeout, productID)
	return product, nil
}

// invalidate descarta a entrada de cache do produto após uma escrita de estoque.
func (r *InventoryRepository) invalidate(ctx context.Context, productID string) {
	if err := r.Cache.Delete(ctx, "product:"+productID); err != nil {
		r.logger.Warn("Falha ao invalidar cache do produto.", map[string]interface{}{"product_id": productID, "error": err.Error()})
	}
}

// applyDelta é o miolo compartilhado da escrita de estoque por delta.
// Assume que roda dentro de uma transação aberta; também é usado pelo
// repositório de movimentações para manter a escrita de estoque e o
// lançamento no razão na MESMA transação.
func applyDelta(ctx context.Context, tx *sql.Tx, productID string, delta int64) (domain.Product, error) {
	const selectSQL = `
		SELECT id, name, category, measurement_unit, price, current_stock, min_quantity_on_stock, version, created_at, updated_at
		FROM products
		WHERE id = $1 FOR UPDATE`

	var product domain.Product
	err := tx.QueryRowContext(ctx, selectSQL, productID).Scan(
		&product.ID,
		&product.Name,
		&product.Category,
		&product.MeasurementUnit,
		&product.Price,
		&product.CurrentStock,
		&product.MinQuantityOnStock,
		&product.Version,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return domain.Product{}, apperror.NewNotFoundError("Product not found: " + productID)
	}
	if err != nil {
		return domain.Product{}, apperror.NewDBError("failed to lock product for stock update", err)
	}

	newStock := product.CurrentStock + delta
	if newStock < 0 {
		return domain.Product{}, apperror.NewValidationError("The stock can't be negative!")
	}

	now := time.Now().UTC()
	const updateSQL = `
		UPDATE products
		SET current_stock = $1, version = version + 1, updated_at = $2
		WHERE id = $3`

	if _, err := tx.ExecContext(ctx, updateSQL, newStock, now, productID); err != nil {
		return domain.Product{}, apperror.NewDBError("failed to update stock", err)
	}

	if err := syncInventory(ctx, tx, productID, newStock, now); err != nil {
		return domain.Product{}, err
	}

	product.CurrentStock = newStock
	product.Version++
	product.UpdatedAt = now
	return product, nil
}

// syncInventory mantém o espelho 1:1 consistente com o produto.
func syncInventory(ctx context.Context, tx *sql.Tx, productID string, quantity int64, at time.Time) error {
	const query = `
		UPDATE inventories
		SET current_quantity = $1, last_updated_at = $2
		WHERE product_id = $3`

	result, err := tx.ExecContext(ctx, query, quantity, at, productID)
	if err != nil {
		return apperror.NewDBError("failed to sync inventory", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("failed to check affected rows", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Inventory not found for product: %s", productID))
	}
	return nil
}

// ApplyStockDeltaTx expõe applyDelta para repositórios que precisam compor a
// escrita de estoque com outras escritas na mesma transação.
func ApplyStockDeltaTx(ctx context.Context, tx *sql.Tx, productID string, delta int64) (domain.Product, error) {
	return applyDelta(ctx, tx, productID, delta)
}
