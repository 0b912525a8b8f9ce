package transactionservice_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"restostock/internal/domain"
	apperror "restostock/internal/errors"
	"restostock/internal/pkg/logger"
	"restostock/internal/service/transactionservice"
)

// MockTransactionRepository é uma implementação mock da interface TransactionRepository.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Register(ctx context.Context, entry domain.InventoryTransaction, delta int64) (domain.Product, error) {
	args := m.Called(ctx, entry, delta)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockTransactionRepository) FindByProductID(ctx context.Context, productID string) ([]domain.InventoryTransaction, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]domain.InventoryTransaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByResponsibleID(ctx context.Context, userID string) ([]domain.InventoryTransaction, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.InventoryTransaction), args.Error(1)
}

// MockProductFinder é uma implementação mock da interface ProductFinder.
type MockProductFinder struct {
	mock.Mock
}

func (m *MockProductFinder) FindByID(ctx context.Context, id string) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

// MockUserFinder é uma implementação mock da interface UserFinder.
type MockUserFinder struct {
	mock.Mock
}

func (m *MockUserFinder) FindByID(ctx context.Context, id string) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

// MockStockFlow é uma implementação mock da interface StockFlow.
type MockStockFlow struct {
	mock.Mock
}

func (m *MockStockFlow) TransactionDelta(transactionType domain.TransactionType, quantity int64) (int64, error) {
	args := m.Called(transactionType, quantity)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStockFlow) NotifyOwnersIfStockIsLow(ctx context.Context, product domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func newTestService() (*transactionservice.Service, *MockTransactionRepository, *MockProductFinder, *MockUserFinder, *MockStockFlow) {
	mockRepo := new(MockTransactionRepository)
	mockProducts := new(MockProductFinder)
	mockUsers := new(MockUserFinder)
	mockStock := new(MockStockFlow)
	svc := transactionservice.NewService(mockRepo, mockProducts, mockUsers, mockStock, logger.NewLogger("debug"))
	return svc, mockRepo, mockProducts, mockUsers, mockStock
}

// TestRegisterTransaction_Success_Outbound testa o registro de uma saída:
// delta aplicado, lançamento denormalizado e checagem de estoque baixo.
func TestRegisterTransaction_Success_Outbound(t *testing.T) {
	svc, mockRepo, mockProducts, mockUsers, mockStock := newTestService()

	product := domain.Product{
		ID:              uuid.New().String(),
		Name:            "Olive Oil",
		MeasurementUnit: domain.UnitMilliliter,
		Price:           25.0,
		CurrentStock:    40,
		Version:         2,
	}
	responsible := domain.User{ID: uuid.New().String(), Name: "Carla", Profile: domain.ProfileEmployee}

	req := domain.CreateTransactionRequest{
		Type:          "OUTBOUND",
		Quantity:      10,
		Motivation:    "CONSUMPTION",
		Details:       "Jantar de sábado",
		ProductID:     product.ID,
		ResponsibleID: responsible.ID,
	}

	mockStock.On("TransactionDelta", domain.TransactionOutbound, int64(10)).Return(int64(-10), nil)
	mockProducts.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	mockUsers.On("FindByID", mock.Anything, responsible.ID).Return(responsible, nil)

	after := product
	after.CurrentStock = 30
	after.Version = 3
	mockRepo.On("Register", mock.Anything, mock.MatchedBy(func(e domain.InventoryTransaction) bool {
		return e.Type == domain.TransactionOutbound &&
			e.Quantity == 10 &&
			e.ProductName == "Olive Oil" &&
			e.ResponsibleName == "Carla" &&
			e.MeasurementUnit == domain.UnitMilliliter &&
			e.UnitPrice == 25.0
	}), int64(-10)).Return(after, nil)
	mockStock.On("NotifyOwnersIfStockIsLow", mock.Anything, after).Return(nil)

	entry, err := svc.RegisterTransaction(context.Background(), req)

	assert.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "Olive Oil", entry.ProductName)
	assert.Equal(t, "Carla", entry.ResponsibleName)
	assert.NotZero(t, entry.TransactionAt)
	mockRepo.AssertExpectations(t)
	mockStock.AssertExpectations(t)
}

// TestRegisterTransaction_Fail_NonPositiveQuantity testa que quantidade
// inválida não gera lançamento nem movimenta estoque.
func TestRegisterTransaction_Fail_NonPositiveQuantity(t *testing.T) {
	svc, mockRepo, mockProducts, _, mockStock := newTestService()

	req := domain.CreateTransactionRequest{
		Type:          "OUTBOUND",
		Quantity:      0,
		Motivation:    "WASTE",
		ProductID:     uuid.New().String(),
		ResponsibleID: uuid.New().String(),
	}

	mockStock.On("TransactionDelta", domain.TransactionOutbound, int64(0)).
		Return(int64(0), apperror.NewValidationError("The quantity must be positive!"))

	_, err := svc.RegisterTransaction(context.Background(), req)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "must be positive")
	mockRepo.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
	mockProducts.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

// TestRegisterTransaction_Fail_InvalidMotivation testa a rejeição de
// motivação desconhecida antes de qualquer efeito colateral.
func TestRegisterTransaction_Fail_InvalidMotivation(t *testing.T) {
	svc, mockRepo, _, _, _ := newTestService()

	req := domain.CreateTransactionRequest{
		Type:          "INBOUND",
		Quantity:      5,
		Motivation:    "BIRTHDAY",
		ProductID:     uuid.New().String(),
		ResponsibleID: uuid.New().String(),
	}

	_, err := svc.RegisterTransaction(context.Background(), req)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "Invalid transaction motivation")
	mockRepo.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
}

// TestRegisterTransaction_Fail_InsufficientStock testa que a falha atômica do
// repositório não devolve lançamento.
func TestRegisterTransaction_Fail_InsufficientStock(t *testing.T) {
	svc, mockRepo, mockProducts, mockUsers, mockStock := newTestService()

	product := domain.Product{ID: uuid.New().String(), Name: "Flour", MeasurementUnit: domain.UnitKilogram, CurrentStock: 3}
	responsible := domain.User{ID: uuid.New().String(), Name: "Carla"}

	mockStock.On("TransactionDelta", domain.TransactionOutbound, int64(10)).Return(int64(-10), nil)
	mockProducts.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	mockUsers.On("FindByID", mock.Anything, responsible.ID).Return(responsible, nil)
	mockRepo.On("Register", mock.Anything, mock.AnythingOfType("domain.InventoryTransaction"), int64(-10)).
		Return(domain.Product{}, apperror.NewValidationError("The stock can't be negative!"))

	req := domain.CreateTransactionRequest{
		Type:          "OUTBOUND",
		Quantity:      10,
		Motivation:    "CONSUMPTION",
		ProductID:     product.ID,
		ResponsibleID: responsible.ID,
	}

	_, err := svc.RegisterTransaction(context.Background(), req)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockStock.AssertNotCalled(t, "NotifyOwnersIfStockIsLow", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

// TestGetTransactionsByProductID testa a consulta do histórico de um produto.
func TestGetTransactionsByProductID(t *testing.T) {
	svc, mockRepo, _, _, _ := newTestService()

	productID := uuid.New().String()
	entries := []domain.InventoryTransaction{
		{ID: uuid.New().String(), ProductID: productID, Type: domain.TransactionOutbound},
		{ID: uuid.New().String(), ProductID: productID, Type: domain.TransactionInbound},
	}
	mockRepo.On("FindByProductID", mock.Anything, productID).Return(entries, nil)

	result, err := svc.GetTransactionsByProductID(context.Background(), productID)

	assert.NoError(t, err)
	assert.Len(t, result, 2)
	mockRepo.AssertExpectations(t)
}
