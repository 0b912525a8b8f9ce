package transactionservice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"restostock/internal/domain"
	apperror "restostock/internal/errors"
	"restostock/internal/pkg/logger"
)

// TransactionRepository define o contrato do razão de movimentações. Register
// aplica o delta de estoque e insere o lançamento na MESMA transação de banco.
type TransactionRepository interface {
	Register(ctx context.Context, entry domain.InventoryTransaction, delta int64) (domain.Product, error)
	FindByProductID(ctx context.Context, productID string) ([]domain.InventoryTransaction, error)
	FindByResponsibleID(ctx context.Context, userID string) ([]domain.InventoryTransaction, error)
}

// ProductFinder resolve o produto movimentado (nome e unidade denormalizados
// no lançamento).
type ProductFinder interface {
	FindByID(ctx context.Context, id string) (domain.Product, error)
}

// UserFinder resolve o responsável pela movimentação.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (domain.User, error)
}

// StockFlow é a fatia do fluxo de inventário reutilizada pelo razão: a
// conversão (tipo, quantidade) -> delta e a checagem de estoque baixo.
type StockFlow interface {
	TransactionDelta(transactionType domain.TransactionType, quantity int64) (int64, error)
	NotifyOwnersIfStockIsLow(ctx context.Context, product domain.Product) error
}

// Service implementa o razão de movimentações de estoque.
type Service struct {
	repo     TransactionRepository
	products ProductFinder
	users    UserFinder
	stock    StockFlow
	logger   logger.Logger
}

// NewService cria o Serviço de Movimentações.
func NewService(repo TransactionRepository, products ProductFinder, users UserFinder, stock StockFlow, log logger.Logger) *Service {
	return &Service{repo: repo, products: products, users: users, stock: stock, logger: log}
}

// RegisterTransaction valida a movimentação, aplica o delta de estoque e
// grava o lançamento imutável — tudo ou nada. Nenhum lançamento é gravado
// quando a validação ou a escrita de estoque falha.
func (s *Service) RegisterTransaction(ctx context.Context, req domain.CreateTransactionRequest) (domain.InventoryTransaction, error) {
	transactionType, ok := domain.ParseTransactionType(req.Type)
	if !ok {
		return domain.InventoryTransaction{}, apperror.NewValidationError(fmt.Sprintf("Invalid transaction type: %s", req.Type))
	}
	motivation, ok := domain.ParseTransactionMotivation(req.Motivation)
	if !ok {
		return domain.InventoryTransaction{}, apperror.NewValidationError(fmt.Sprintf("Invalid transaction motivation: %s", req.Motivation))
	}

	delta, err := s.stock.TransactionDelta(transactionType, req.Quantity)
	if err != nil {
		return domain.InventoryTransaction{}, err
	}

	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return domain.InventoryTransaction{}, err
	}
	responsible, err := s.users.FindByID(ctx, req.ResponsibleID)
	if err != nil {
		return domain.InventoryTransaction{}, err
	}

	unitPrice := req.UnitPrice
	if unitPrice == 0 {
		unitPrice = product.Price
	}

	entry := domain.InventoryTransaction{
		ID:              uuid.New().String(),
		Type:            transactionType,
		Quantity:        req.Quantity,
		MeasurementUnit: product.MeasurementUnit,
		UnitPrice:       unitPrice,
		Motivation:      motivation,
		Details:         req.Details,
		TransactionAt:   time.Now().UTC(),
		ProductID:       product.ID,
		ProductName:     product.Name,
		ResponsibleID:   responsible.ID,
		ResponsibleName: responsible.Name,
	}

	updated, err := s.repo.Register(ctx, entry, delta)
	if err != nil {
		return domain.InventoryTransaction{}, err
	}

	s.logger.Info("Movimentação registrada.", map[string]interface{}{
		"transaction_id": entry.ID,
		"type":           string(entry.Type),
		"product":        entry.ProductName,
		"quantity":       entry.Quantity,
	})

	if err := s.stock.NotifyOwnersIfStockIsLow(ctx, updated); err != nil {
		return entry, err
	}
	return entry, nil
}

// GetTransactionsByProductID lista o histórico de movimentações de um produto,
// da mais recente para a mais antiga.
func (s *Service) GetTransactionsByProductID(ctx context.Context, productID string) ([]domain.InventoryTransaction, error) {
	return s.repo.FindByProductID(ctx, productID)
}

// GetTransactionsByResponsibleID lista as movimentações registradas por um
// usuário.
func (s *Service) GetTransactionsByResponsibleID(ctx context.Context, userID string) ([]domain.InventoryTransaction, error) {
	return s.repo.FindByResponsibleID(ctx, userID)
}
