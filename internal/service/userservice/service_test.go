package userservice_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"restostock/internal/domain"
	apperror "restostock/internal/errors"
	"restostock/internal/pkg/logger"
	"restostock/internal/service/userservice"
)

// MockUserRepository é uma implementação mock da interface UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindAuthorityByName(ctx context.Context, name string) (domain.Authority, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(domain.Authority), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByFilters(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTokenGenerator é uma implementação mock da interface TokenGenerator.
type MockTokenGenerator struct {
	mock.Mock
}

func (m *MockTokenGenerator) GenerateToken(userID, email, profile string) (string, error) {
	args := m.Called(userID, email, profile)
	return args.String(0), args.Error(1)
}

func newTestService() (*userservice.Service, *MockUserRepository, *MockTokenGenerator) {
	mockRepo := new(MockUserRepository)
	mockTokens := new(MockTokenGenerator)
	svc := userservice.NewService(mockRepo, mockTokens, logger.NewLogger("debug"))
	return svc, mockRepo, mockTokens
}

// TestCreateUser_Success_AssignsAuthorityByProfile testa que o cadastro de um
// dono recebe ROLE_OWNER e a senha é armazenada com hash.
func TestCreateUser_Success_AssignsAuthorityByProfile(t *testing.T) {
	svc, mockRepo, _ := newTestService()

	ownerAuthority := domain.Authority{ID: uuid.New().String(), Name: domain.AuthorityOwner}
	mockRepo.On("FindByEmail", mock.Anything, "alice@resto.com").
		Return(domain.User{}, apperror.NewNotFoundError("User not found: alice@resto.com"))
	mockRepo.On("FindAuthorityByName", mock.Anything, domain.AuthorityOwner).Return(ownerAuthority, nil)

	var saved domain.User
	mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		saved = u
		return u.Profile == domain.ProfileOwner &&
			len(u.Authorities) == 1 &&
			u.Authorities[0].Name == domain.AuthorityOwner &&
			u.PasswordHash != "s3cret"
	})).Return(domain.User{ID: uuid.New().String(), Profile: domain.ProfileOwner}, nil)

	req := domain.CreateUserRequest{
		Name:     "Alice",
		Email:    "alice@resto.com",
		Phone:    "+5511999990001",
		CPF:      "390.533.447-05",
		Password: "s3cret",
		Profile:  "OWNER",
	}
	_, err := svc.CreateUser(context.Background(), req)

	assert.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte("s3cret")))
	// Os timestamps de criação são preenchidos pelo serviço antes do Save.
	assert.False(t, saved.CreatedAt.IsZero())
	assert.False(t, saved.UpdatedAt.IsZero())
	mockRepo.AssertExpectations(t)
}

// TestCreateUser_Fail_DuplicateEmail testa a unicidade de email no cadastro.
func TestCreateUser_Fail_DuplicateEmail(t *testing.T) {
	svc, mockRepo, _ := newTestService()

	mockRepo.On("FindByEmail", mock.Anything, "alice@resto.com").
		Return(domain.User{ID: uuid.New().String(), Email: "alice@resto.com"}, nil)

	req := domain.CreateUserRequest{
		Name:     "Alice",
		Email:    "alice@resto.com",
		Password: "s3cret",
		Profile:  "EMPLOYEE",
	}
	_, err := svc.CreateUser(context.Background(), req)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "already registered")
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestDeleteUser_Fail_SelfDelete testa que um usuário não exclui a própria conta.
func TestDeleteUser_Fail_SelfDelete(t *testing.T) {
	svc, mockRepo, _ := newTestService()

	id := uuid.New().String()
	err := svc.DeleteUser(context.Background(), id, id)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ForbiddenError{}, err)
	assert.Equal(t, "You cannot exclude your own account!", err.Error())
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

// TestDeleteUser_Success_OtherAccount testa a exclusão de outra conta.
func TestDeleteUser_Success_OtherAccount(t *testing.T) {
	svc, mockRepo, _ := newTestService()

	targetID := uuid.New().String()
	mockRepo.On("Delete", mock.Anything, targetID).Return(nil)

	err := svc.DeleteUser(context.Background(), uuid.New().String(), targetID)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// TestLogin_Success testa a emissão do token com credenciais válidas.
func TestLogin_Success(t *testing.T) {
	svc, mockRepo, mockTokens := newTestService()

	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.DefaultCost)
	account := domain.User{
		ID:           uuid.New().String(),
		Email:        "alice@resto.com",
		PasswordHash: string(hash),
		Profile:      domain.ProfileOwner,
	}
	mockRepo.On("FindByEmail", mock.Anything, "alice@resto.com").Return(account, nil)
	mockTokens.On("GenerateToken", account.ID, account.Email, "OWNER").Return("jwt-token", nil)

	token, logged, err := svc.Login(context.Background(), "alice@resto.com", "s3cret")

	assert.NoError(t, err)
	assert.Equal(t, "jwt-token", token)
	assert.Equal(t, account.ID, logged.ID)
	mockRepo.AssertExpectations(t)
	mockTokens.AssertExpectations(t)
}

// TestLogin_Fail_WrongPassword testa que senha errada e email desconhecido
// retornam o mesmo erro de autenticação.
func TestLogin_Fail_WrongPassword(t *testing.T) {
	svc, mockRepo, mockTokens := newTestService()

	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.DefaultCost)
	account := domain.User{ID: uuid.New().String(), Email: "alice@resto.com", PasswordHash: string(hash)}
	mockRepo.On("FindByEmail", mock.Anything, "alice@resto.com").Return(account, nil)
	mockRepo.On("FindByEmail", mock.Anything, "ghost@resto.com").
		Return(domain.User{}, apperror.NewNotFoundError("User not found: ghost@resto.com"))

	_, _, err := svc.Login(context.Background(), "alice@resto.com", "wrong")
	assert.Error(t, err)
	assert.IsType(t, &apperror.UnauthorizedError{}, err)

	_, _, err = svc.Login(context.Background(), "ghost@resto.com", "whatever")
	assert.Error(t, err)
	assert.IsType(t, &apperror.UnauthorizedError{}, err)

	mockTokens.AssertNotCalled(t, "GenerateToken", mock.Anything, mock.Anything, mock.Anything)
}

// TestUpdateUser_Fail_InvalidProfile testa a rejeição de perfil desconhecido.
func TestUpdateUser_Fail_InvalidProfile(t *testing.T) {
	svc, mockRepo, _ := newTestService()

	req := domain.UpdateUserRequest{Name: "Alice", Email: "alice@resto.com", Profile: "MANAGER"}
	_, err := svc.UpdateUser(context.Background(), uuid.New().String(), req)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "Invalid user profile")
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
