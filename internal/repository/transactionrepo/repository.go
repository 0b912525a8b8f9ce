package transactionrepo

import (
	"context"
	"database/sql"
	"time"

	"restostock/internal/domain"
	apperror "restostock/internal/errors"
	"restostock/internal/pkg/cache"
	"restostock/internal/pkg/logger"
	"restostock/internal/repository/inventoryrepo"
)

// TransactionRepository é a camada de acesso ao razão de movimentações.
// O razão é append-only: este repositório só insere e lê, nunca altera.
type TransactionRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewTransactionRepository cria o repositório do razão.
func NewTransactionRepository(db *sql.DB, cacheClient cache.Client, dbTimeout time.Duration, log logger.Logger) *TransactionRepository {
	return &TransactionRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		logger:    log,
	}
}

// Register grava a movimentação de estoque e o lançamento no razão na MESMA
// transação: ou os dois entram, ou nenhum (contrato tudo-ou-nada do registro
// de movimentação). Retorna o produto já atualizado.
func (r *TransactionRepository) Register(ctx context.Context, entry domain.InventoryTransaction, delta int64) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.Product{}, apperror.NewDBError("failed to start tx", err)
	}
	defer tx.Rollback()

	// 1. Escrita de estoque (trava o produto, valida não-negatividade).
	product, err := inventoryrepo.ApplyStockDeltaTx(ctxTimeout, tx, entry.ProductID, delta)
	if err != nil {
		return domain.Product{}, err
	}

	// 2. Lançamento imutável no razão.
	const insertSQL = `
		INSERT INTO inventory_transactions
			(id, type, quantity, measurement_unit, unit_price, motivation, details, transaction_at, product_id, product_name, user_id, user_name)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`

	_, err = tx.ExecContext(ctxTimeout, insertSQL,
		entry.ID,
		entry.Type,
		entry.Quantity,
		entry.MeasurementUnit,
		entry.UnitPrice,
		entry.Motivation,
		entry.Details,
		entry.TransactionAt,
		entry.ProductID,
		entry.ProductName,
		entry.ResponsibleID,
		entry.ResponsibleName,
	)
	if err != nil {
		return domain.Product{}, apperror.NewDBError("failed to insert inventory transaction", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Product{}, apperror.NewDBError("failed to commit tx", err)
	}

	// A escrita passou pelo produto: descarta a entrada de cache.
	if err := r.Cache.Delete(ctxTimeout, "product:"+entry.ProductID); err != nil {
		r.logger.Warn("Falha ao invalidar cache do produto.", map[string]interface{}{"product_id": entry.ProductID, "error": err.Error()})
	}

	r.logger.Info("Movimentação registrada no razão.", map[string]interface{}{
		"transaction_id": entry.ID,
		"product_id":     entry.ProductID,
		"type":           entry.Type,
		"quantity":       entry.Quantity,
	})
	return product, nil
}

const transactionColumns = `id, type, quantity, measurement_unit, unit_price, motivation, details, transaction_at, product_id, product_name, user_id, user_name`

func scanTransaction(row interface{ Scan(...interface{}) error }) (domain.InventoryTransaction, error) {
	var t domain.InventoryTransaction
	err := row.Scan(
		&t.ID,
		&t.Type,
		&t.Quantity,
		&t.MeasurementUnit,
		&t.UnitPrice,
		&t.Motivation,
		&t.Details,
		&t.TransactionAt,
		&t.ProductID,
		&t.ProductName,
		&t.ResponsibleID,
		&t.ResponsibleName,
	)
	return t, err
}

// FindByProductID lista as movimentações de um produto, mais recentes primeiro.
func (r *TransactionRepository) FindByProductID(ctx context.Context, productID string) ([]domain.InventoryTransaction, error) {
	return r.query(ctx,
		`SELECT `+transactionColumns+` FROM inventory_transactions WHERE product_id = $1 ORDER BY transaction_at DESC`,
		productID)
}

// FindByResponsibleID lista as movimentações feitas por um usuário.
func (r *TransactionRepository) FindByResponsibleID(ctx context.Context, responsibleID string) ([]domain.InventoryTransaction, error) {
	return r.query(ctx,
		`SELECT `+transactionColumns+` FROM inventory_transactions WHERE user_id = $1 ORDER BY transaction_at DESC`,
		responsibleID)
}

func (r *TransactionRepository) query(ctx context.Context, query string, args ...interface{}) ([]domain.InventoryTransaction, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		return nil, apperror.NewDBError("failed to query inventory transactions", err)
	}
	defer rows.Close()

	var transactions []domain.InventoryTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, apperror.NewDBError("failed to scan inventory transaction", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate inventory transactions", err)
	}
	return transactions, nil
}
