package productrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"restostock/internal/domain"
	apperror "restostock/internal/errors"
	"restostock/internal/pkg/cache"
	"restostock/internal/pkg/logger"
)

// ProductRepository é a camada de acesso a dados do catálogo.
// Usa PostgreSQL como fonte de verdade e Redis como cache de leitura (cache-aside).
type ProductRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
}

// NewProductRepository cria o repositório, injetando DB, cache e logger.
func NewProductRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, log logger.Logger) *ProductRepository {
	return &ProductRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    log,
	}
}

const productCacheKey = "product:%s"

const productColumns = `id, name, category, measurement_unit, price, current_stock, min_quantity_on_stock, version, created_at, updated_at`

func scanProduct(row interface{ Scan(...interface{}) error }) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Category,
		&p.MeasurementUnit,
		&p.Price,
		&p.CurrentStock,
		&p.MinQuantityOnStock,
		&p.Version,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

// Save persiste um novo Produto e o seu registro de Inventory na mesma transação
// (a relação é estrita 1:1, os dois nascem juntos).
func (r *ProductRepository) Save(ctx context.Context, product domain.Product) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.Product{}, apperror.NewDBError("failed to start tx", err)
	}
	defer tx.Rollback()

	const productSQL = `INSERT INTO products (id, name, category, measurement_unit, price, current_stock, min_quantity_on_stock, version, created_at, updated_at)
	                    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`

	_, err = tx.ExecContext(ctxTimeout, productSQL,
		product.ID,
		product.Name,
		product.Category,
		product.MeasurementUnit,
		product.Price,
		product.CurrentStock,
		product.MinQuantityOnStock,
		product.Version,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return domain.Product{}, apperror.NewDBError("failed to insert product", err)
	}

	const inventorySQL = `INSERT INTO inventories (id, product_id, current_quantity, last_updated_at)
	                      VALUES ($1,$2,$3,$4)`

	_, err = tx.ExecContext(ctxTimeout, inventorySQL,
		uuid.NewString(),
		product.ID,
		product.CurrentStock,
		product.CreatedAt,
	)
	if err != nil {
		return domain.Product{}, apperror.NewDBError("failed to insert inventory", err)
	}

	if err = tx.Commit(); err != nil {
		return domain.Product{}, apperror.NewDBError("failed to commit tx", err)
	}

	r.logger.Info("Produto salvo no repositório.", map[string]interface{}{"product_id": product.ID, "name": product.Name})
	return product, nil
}

// FindByID busca um produto pelo ID, usando a estratégia Cache-Aside.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(productCacheKey, id)
	var product domain.Product

	// 1. Tentar o cache (Redis). Falha de cache nunca derruba a leitura.
	cachedData, err := r.Cache.Get(ctxTimeout, key)
	if err == nil {
		if json.Unmarshal([]byte(cachedData), &product) == nil {
			return product, nil
		}
	} else if err != cache.ErrCacheMiss {
		r.logger.Warn("Falha ao ler do cache Redis.", map[string]interface{}{"key": key, "error": err.Error()})
	}

	// 2. Fonte de verdade (PostgreSQL).
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	product, err = scanProduct(r.DB.QueryRowContext(ctxTimeout, query, id))
	if err == sql.ErrNoRows {
		return domain.Product{}, apperror.NewNotFoundError("Product not found: " + id)
	}
	if err != nil {
		return domain.Product{}, apperror.NewDBError("failed to find product by id", err)
	}

	// 3. Popular o cache para futuras leituras (best-effort).
	if productJSON, marshalErr := json.Marshal(product); marshalErr == nil {
		r.Cache.Set(ctxTimeout, key, productJSON, r.CacheTTL)
	}

	return product, nil
}

// FindByName busca um produto pelo nome (case-insensitive).
func (r *ProductRepository) FindByName(ctx context.Context, name string) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + productColumns + ` FROM products WHERE LOWER(name) = LOWER($1)`
	product, err := scanProduct(r.DB.QueryRowContext(ctxTimeout, query, name))
	if err == sql.ErrNoRows {
		return domain.Product{}, apperror.NewNotFoundError("Product not found: " + name)
	}
	if err != nil {
		return domain.Product{}, apperror.NewDBError("failed to find product by name", err)
	}
	return product, nil
}

// FindAll lista o catálogo completo.
func (r *ProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	return r.query(ctx, `SELECT `+productColumns+` FROM products ORDER BY name`)
}

// FindByFilters executa a busca multi-campo por composição de predicados:
// campo omitido casa com tudo, nome é substring case-insensitive, categoria
// e unidade são igualdade exata.
func (r *ProductRepository) FindByFilters(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	var (
		where []string
		args  []interface{}
	)

	if filter.Name != "" {
		args = append(args, "%"+strings.ToLower(filter.Name)+"%")
		where = append(where, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.MeasurementUnit != "" {
		args = append(args, filter.MeasurementUnit)
		where = append(where, fmt.Sprintf("measurement_unit = $%d", len(args)))
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY name"

	return r.query(ctx, query, args...)
}

func (r *ProductRepository) query(ctx context.Context, query string, args ...interface{}) ([]domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		return nil, apperror.NewDBError("failed to query products", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, apperror.NewDBError("failed to scan product", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate products", err)
	}
	return products, nil
}

// Update grava os campos de catálogo do produto (nome, categoria, unidade,
// preço, mínimo) com checagem de versão (OCC). O estoque NÃO passa por aqui:
// mudanças de estoque vão pelo inventoryrepo.
func (r *ProductRepository) Update(ctx context.Context, product domain.Product) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `
		UPDATE products
		SET name = $1, category = $2, measurement_unit = $3, price = $4,
		    min_quantity_on_stock = $5, version = version + 1, updated_at = $6
		WHERE id = $7 AND version = $8`

	now := time.Now().UTC()
	result, err := r.DB.ExecContext(ctxTimeout, query,
		product.Name,
		product.Category,
		product.MeasurementUnit,
		product.Price,
		product.MinQuantityOnStock,
		now,
		product.ID,
		product.Version,
	)
	if err != nil {
		return domain.Product{}, apperror.NewDBError("failed to update product", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.Product{}, apperror.NewDBError("failed to check affected rows", err)
	}
	if rowsAffected == 0 {
		// Versão desatualizada: o registro mudou entre a leitura e a escrita.
		return domain.Product{}, apperror.NewConflictError("O produto foi modificado por outra operação. Tente novamente.")
	}

	product.Version++
	product.UpdatedAt = now

	r.invalidate(ctxTimeout, product.ID)
	return product, nil
}

// Delete remove o produto (o inventário 1:1 cai junto por cascade).
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDBError("failed to delete product", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("failed to check affected rows", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFoundError("Product not found: " + id)
	}

	r.invalidate(ctxTimeout, id)
	return nil
}

// invalidate descarta a entrada de cache do produto após uma escrita.
func (r *ProductRepository) invalidate(ctx context.Context, id string) {
	if err := r.Cache.Delete(ctx, fmt.Sprintf(productCacheKey, id)); err != nil {
		r.logger.Warn("Falha ao invalidar cache do produto.", map[string]interface{}{"product_id": id, "error": err.Error()})
	}
}
