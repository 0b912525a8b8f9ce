package inventoryservice

import (
	"context"
	"fmt"

	"restostock/internal/domain"
	apperror "restostock/internal/errors"
	"restostock/internal/notifier"
	"restostock/internal/pkg/logger"
)

// InventoryRepository define o contrato que o Serviço de Inventário espera
// da camada de persistência.
type InventoryRepository interface {
	FindByProductName(ctx context.Context, productName string) (domain.InventoryView, error)
	FindByCategory(ctx context.Context, category domain.ProductCategory) ([]domain.InventoryView, error)
	FindWithLowStock(ctx context.Context) ([]domain.InventoryView, error)
	ApplyStockDelta(ctx context.Context, productID string, delta int64) (domain.Product, error)
	SetStock(ctx context.Context, productID string, newStock int64, expectedVersion int) (domain.Product, error)
}

// UserDirectory é a fatia do diretório de usuários que o fluxo de
// notificação consome: achar os donos.
type UserDirectory interface {
	FindByProfile(ctx context.Context, profile domain.UserProfile) ([]domain.User, error)
}

// Service implementa o fluxo de ajuste de estoque: aplica deltas de entrada/
// saída, garante a não-negatividade e dispara a notificação de estoque baixo.
type Service struct {
	repo     InventoryRepository
	users    UserDirectory
	notifier notifier.Notifier
	logger   logger.Logger
}

// NewService cria o Serviço de Inventário.
func NewService(repo InventoryRepository, users UserDirectory, n notifier.Notifier, log logger.Logger) *Service {
	return &Service{repo: repo, users: users, notifier: n, logger: log}
}

// --- Consultas de inventário ---

// GetInventoryByProductName busca o inventário pelo nome do produto.
func (s *Service) GetInventoryByProductName(ctx context.Context, productName string) (domain.InventoryView, error) {
	return s.repo.FindByProductName(ctx, productName)
}

// GetInventoriesByCategory lista os inventários da categoria informada.
func (s *Service) GetInventoriesByCategory(ctx context.Context, category domain.ProductCategory) ([]domain.InventoryView, error) {
	return s.repo.FindByCategory(ctx, category)
}

// GetInventoriesWithLowStock lista os inventários no limiar de notificação.
func (s *Service) GetInventoriesWithLowStock(ctx context.Context) ([]domain.InventoryView, error) {
	return s.repo.FindWithLowStock(ctx)
}

// --- Fluxo de ajuste de estoque ---

// IncreaseStock aplica uma entrada de estoque ao produto.
func (s *Service) IncreaseStock(ctx context.Context, product domain.Product, amount int64) (domain.Product, error) {
	if amount <= 0 {
		return domain.Product{}, apperror.NewValidationError("The quantity must be positive!")
	}
	return s.applyDelta(ctx, product, amount)
}

// DecreaseStock aplica uma saída de estoque ao produto. Se o resultado for
// negativo a operação falha sem nenhuma mutação.
func (s *Service) DecreaseStock(ctx context.Context, product domain.Product, amount int64) (domain.Product, error) {
	if amount <= 0 {
		return domain.Product{}, apperror.NewValidationError("The quantity must be positive!")
	}
	return s.applyDelta(ctx, product, -amount)
}

func (s *Service) applyDelta(ctx context.Context, product domain.Product, delta int64) (domain.Product, error) {
	updated, err := s.repo.ApplyStockDelta(ctx, product.ID, delta)
	if err != nil {
		return domain.Product{}, err
	}

	if err := s.NotifyOwnersIfStockIsLow(ctx, updated); err != nil {
		// O estoque já foi persistido; a falha do colaborador de
		// notificação propaga para o chamador (sem retry interno).
		return updated, err
	}
	return updated, nil
}

// UpdateStock grava um valor absoluto de estoque (usado pelo patch de
// produto), com checagem de versão, e dispara a checagem de estoque baixo.
func (s *Service) UpdateStock(ctx context.Context, product domain.Product, newStock int64) (domain.Product, error) {
	updated, err := s.repo.SetStock(ctx, product.ID, newStock, product.Version)
	if err != nil {
		return domain.Product{}, err
	}

	if err := s.NotifyOwnersIfStockIsLow(ctx, updated); err != nil {
		return updated, err
	}
	return updated, nil
}

// TransactionDelta é a fronteira única de validação de movimentações:
// converte (tipo, quantidade) no delta assinado a aplicar ao estoque.
// Quantidade não positiva e tipos sem direção (e.g. ADJUSTMENT) são rejeitados.
func (s *Service) TransactionDelta(transactionType domain.TransactionType, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, apperror.NewValidationError("The quantity must be positive!")
	}

	switch transactionType {
	case domain.TransactionInbound:
		return quantity, nil
	case domain.TransactionOutbound:
		return -quantity, nil
	default:
		return 0, apperror.NewValidationError(fmt.Sprintf("Invalid transaction type: %s", transactionType))
	}
}

// ProcessTransaction aplica uma movimentação avulsa (sem lançamento no razão):
// entrada aumenta o estoque, saída diminui.
func (s *Service) ProcessTransaction(ctx context.Context, product domain.Product, transactionType domain.TransactionType, quantity int64) (domain.Product, error) {
	delta, err := s.TransactionDelta(transactionType, quantity)
	if err != nil {
		return domain.Product{}, err
	}
	return s.applyDelta(ctx, product, delta)
}

// NotifyOwnersIfStockIsLow re-checa o limiar (contrato autoritativo do fluxo)
// e, se o estoque estiver baixo, envia um alerta por email e WhatsApp para
// CADA usuário com perfil OWNER.
func (s *Service) NotifyOwnersIfStockIsLow(ctx context.Context, product domain.Product) error {
	if !product.IsLowStock() {
		return nil
	}

	owners, err := s.users.FindByProfile(ctx, domain.ProfileOwner)
	if err != nil {
		return err
	}

	alert := notifier.LowStockAlert{
		ProductName:  product.Name,
		CurrentStock: product.CurrentStock,
		MinimumStock: product.MinQuantityOnStock,
	}

	s.logger.Info("Estoque baixo, notificando donos.", map[string]interface{}{
		"product":   product.Name,
		"stock":     product.CurrentStock,
		"min_stock": product.MinQuantityOnStock,
		"owners":    len(owners),
	})

	for _, owner := range owners {
		if err := s.notifier.NotifyLowStock(ctx, notifier.RecipientFromUser(owner), alert); err != nil {
			return apperror.NewInternalError("Falha ao notificar dono sobre estoque baixo.", err)
		}
	}
	return nil
}
