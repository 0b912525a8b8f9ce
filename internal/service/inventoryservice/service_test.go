package inventoryservice_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"restostock/internal/domain"
	apperror "restostock/internal/errors"
	"restostock/internal/notifier"
	"restostock/internal/pkg/logger"
	"restostock/internal/service/inventoryservice"
)

// MockInventoryRepository é uma implementação mock da interface InventoryRepository.
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) FindByProductName(ctx context.Context, productName string) (domain.InventoryView, error) {
	args := m.Called(ctx, productName)
	return args.Get(0).(domain.InventoryView), args.Error(1)
}

func (m *MockInventoryRepository) FindByCategory(ctx context.Context, category domain.ProductCategory) ([]domain.InventoryView, error) {
	args := m.Called(ctx, category)
	return args.Get(0).([]domain.InventoryView), args.Error(1)
}

func (m *MockInventoryRepository) FindWithLowStock(ctx context.Context) ([]domain.InventoryView, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.InventoryView), args.Error(1)
}

func (m *MockInventoryRepository) ApplyStockDelta(ctx context.Context, productID string, delta int64) (domain.Product, error) {
	args := m.Called(ctx, productID, delta)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockInventoryRepository) SetStock(ctx context.Context, productID string, newStock int64, expectedVersion int) (domain.Product, error) {
	args := m.Called(ctx, productID, newStock, expectedVersion)
	return args.Get(0).(domain.Product), args.Error(1)
}

// MockUserDirectory é uma implementação mock da interface UserDirectory.
type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) FindByProfile(ctx context.Context, profile domain.UserProfile) ([]domain.User, error) {
	args := m.Called(ctx, profile)
	return args.Get(0).([]domain.User), args.Error(1)
}

// MockNotifier é uma implementação mock da porta Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyLowStock(ctx context.Context, to notifier.Recipient, alert notifier.LowStockAlert) error {
	args := m.Called(ctx, to, alert)
	return args.Error(0)
}

func newTestService() (*inventoryservice.Service, *MockInventoryRepository, *MockUserDirectory, *MockNotifier) {
	mockRepo := new(MockInventoryRepository)
	mockUsers := new(MockUserDirectory)
	mockNotifier := new(MockNotifier)
	svc := inventoryservice.NewService(mockRepo, mockUsers, mockNotifier, logger.NewLogger("debug"))
	return svc, mockRepo, mockUsers, mockNotifier
}

func sampleProduct(stock, minStock int64) domain.Product {
	return domain.Product{
		ID:                 uuid.New().String(),
		Name:               "Tomato",
		Category:           domain.CategoryPerishables,
		MeasurementUnit:    domain.UnitKilogram,
		Price:              4.5,
		CurrentStock:       stock,
		MinQuantityOnStock: minStock,
		Version:            1,
	}
}

// TestDecreaseStock_Fail_BeyondCurrentStock testa que uma saída maior que o
// estoque atual falha sem nenhuma notificação.
func TestDecreaseStock_Fail_BeyondCurrentStock(t *testing.T) {
	svc, mockRepo, _, mockNotifier := newTestService()

	product := sampleProduct(10, 2)
	mockRepo.On("ApplyStockDelta", mock.Anything, product.ID, int64(-15)).
		Return(domain.Product{}, apperror.NewValidationError("The stock can't be negative!"))

	_, err := svc.DecreaseStock(context.Background(), product, 15)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "can't be negative")
	mockNotifier.AssertNotCalled(t, "NotifyLowStock", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

// TestIncreaseThenDecrease_RoundTrip testa que entrada seguida de saída da
// mesma quantidade devolve o estoque ao valor original.
func TestIncreaseThenDecrease_RoundTrip(t *testing.T) {
	svc, mockRepo, _, mockNotifier := newTestService()

	product := sampleProduct(50, 10)

	afterIncrease := product
	afterIncrease.CurrentStock = 57
	afterIncrease.Version = 2
	mockRepo.On("ApplyStockDelta", mock.Anything, product.ID, int64(7)).
		Return(afterIncrease, nil).Once()

	afterDecrease := afterIncrease
	afterDecrease.CurrentStock = 50
	afterDecrease.Version = 3
	mockRepo.On("ApplyStockDelta", mock.Anything, product.ID, int64(-7)).
		Return(afterDecrease, nil).Once()

	increased, err := svc.IncreaseStock(context.Background(), product, 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(57), increased.CurrentStock)

	final, err := svc.DecreaseStock(context.Background(), increased, 7)
	assert.NoError(t, err)
	assert.Equal(t, product.CurrentStock, final.CurrentStock)

	mockNotifier.AssertNotCalled(t, "NotifyLowStock", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

// TestIncreaseStock_Fail_NonPositiveAmount testa que quantidade não positiva
// é rejeitada antes de qualquer acesso ao repositório.
func TestIncreaseStock_Fail_NonPositiveAmount(t *testing.T) {
	svc, mockRepo, _, _ := newTestService()

	product := sampleProduct(10, 2)

	_, err := svc.IncreaseStock(context.Background(), product, 0)
	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "must be positive")

	_, err = svc.DecreaseStock(context.Background(), product, -3)
	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)

	mockRepo.AssertNotCalled(t, "ApplyStockDelta", mock.Anything, mock.Anything, mock.Anything)
}

// TestDecreaseStock_LowStockBoundary_NotifiesEachOwner testa que cruzar o
// limiar mínimo dispara exatamente um alerta por dono, com nome e valores.
func TestDecreaseStock_LowStockBoundary_NotifiesEachOwner(t *testing.T) {
	svc, mockRepo, mockUsers, mockNotifier := newTestService()

	product := sampleProduct(20, 15)
	after := product
	after.CurrentStock = 5
	after.Version = 2

	mockRepo.On("ApplyStockDelta", mock.Anything, product.ID, int64(-15)).
		Return(after, nil)

	owners := []domain.User{
		{ID: uuid.New().String(), Name: "Alice", Email: "alice@resto.com", Phone: "+5511999990001", Profile: domain.ProfileOwner},
		{ID: uuid.New().String(), Name: "Bruno", Email: "bruno@resto.com", Phone: "+5511999990002", Profile: domain.ProfileOwner},
	}
	mockUsers.On("FindByProfile", mock.Anything, domain.ProfileOwner).Return(owners, nil)

	expectedAlert := notifier.LowStockAlert{ProductName: "Tomato", CurrentStock: 5, MinimumStock: 15}
	mockNotifier.On("NotifyLowStock", mock.Anything, notifier.Recipient{Name: "Alice", Email: "alice@resto.com", Phone: "+5511999990001"}, expectedAlert).
		Return(nil).Once()
	mockNotifier.On("NotifyLowStock", mock.Anything, notifier.Recipient{Name: "Bruno", Email: "bruno@resto.com", Phone: "+5511999990002"}, expectedAlert).
		Return(nil).Once()

	updated, err := svc.DecreaseStock(context.Background(), product, 15)

	assert.NoError(t, err)
	assert.Equal(t, int64(5), updated.CurrentStock)
	mockNotifier.AssertNumberOfCalls(t, "NotifyLowStock", 2)
	mockRepo.AssertExpectations(t)
	mockUsers.AssertExpectations(t)
	mockNotifier.AssertExpectations(t)
}

// TestDecreaseStock_AboveThreshold_NoNotification testa que nenhum alerta é
// enviado quando o estoque permanece acima do mínimo.
func TestDecreaseStock_AboveThreshold_NoNotification(t *testing.T) {
	svc, mockRepo, mockUsers, mockNotifier := newTestService()

	product := sampleProduct(50, 15)
	after := product
	after.CurrentStock = 20
	after.Version = 2

	mockRepo.On("ApplyStockDelta", mock.Anything, product.ID, int64(-30)).
		Return(after, nil)

	updated, err := svc.DecreaseStock(context.Background(), product, 30)

	assert.NoError(t, err)
	assert.Equal(t, int64(20), updated.CurrentStock)
	mockUsers.AssertNotCalled(t, "FindByProfile", mock.Anything, mock.Anything)
	mockNotifier.AssertNotCalled(t, "NotifyLowStock", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

// TestTransactionDelta testa a conversão (tipo, quantidade) -> delta assinado.
func TestTransactionDelta(t *testing.T) {
	svc, _, _, _ := newTestService()

	delta, err := svc.TransactionDelta(domain.TransactionInbound, 8)
	assert.NoError(t, err)
	assert.Equal(t, int64(8), delta)

	delta, err = svc.TransactionDelta(domain.TransactionOutbound, 8)
	assert.NoError(t, err)
	assert.Equal(t, int64(-8), delta)

	_, err = svc.TransactionDelta(domain.TransactionInbound, 0)
	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "must be positive")

	_, err = svc.TransactionDelta(domain.TransactionAdjustment, 8)
	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "Invalid transaction type")
}

// TestProcessTransaction_Fail_NonPositiveQuantity testa que quantidade inválida
// não chega ao repositório.
func TestProcessTransaction_Fail_NonPositiveQuantity(t *testing.T) {
	svc, mockRepo, _, mockNotifier := newTestService()

	product := sampleProduct(10, 2)

	_, err := svc.ProcessTransaction(context.Background(), product, domain.TransactionOutbound, -1)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "ApplyStockDelta", mock.Anything, mock.Anything, mock.Anything)
	mockNotifier.AssertNotCalled(t, "NotifyLowStock", mock.Anything, mock.Anything, mock.Anything)
}

// TestUpdateStock_Fail_OCCConflict testa que um conflito de versão propaga
// como ConflictError.
func TestUpdateStock_Fail_OCCConflict(t *testing.T) {
	svc, mockRepo, _, _ := newTestService()

	product := sampleProduct(10, 2)
	mockRepo.On("SetStock", mock.Anything, product.ID, int64(30), product.Version).
		Return(domain.Product{}, apperror.NewConflictError("O estoque foi modificado por outra operação. Tente novamente."))

	_, err := svc.UpdateStock(context.Background(), product, 30)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
	mockRepo.AssertExpectations(t)
}

// TestNotifyOwnersIfStockIsLow_Fail_NotifierError testa que a falha do
// colaborador de notificação propaga ao chamador.
func TestNotifyOwnersIfStockIsLow_Fail_NotifierError(t *testing.T) {
	svc, _, mockUsers, mockNotifier := newTestService()

	product := sampleProduct(3, 15)
	owners := []domain.User{
		{ID: uuid.New().String(), Name: "Alice", Email: "alice@resto.com", Phone: "+5511999990001", Profile: domain.ProfileOwner},
	}
	mockUsers.On("FindByProfile", mock.Anything, domain.ProfileOwner).Return(owners, nil)
	mockNotifier.On("NotifyLowStock", mock.Anything, mock.Anything, mock.Anything).
		Return(apperror.NewInternalError("SMTP indisponível.", nil))

	err := svc.NotifyOwnersIfStockIsLow(context.Background(), product)

	assert.Error(t, err)
	assert.IsType(t, &apperror.InternalError{}, err)
	mockUsers.AssertExpectations(t)
	mockNotifier.AssertExpectations(t)
}
