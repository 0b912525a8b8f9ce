package userservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"restostock/internal/domain"
	apperror "restostock/internal/errors"
	"restostock/internal/pkg/logger"
)

// UserRepository define o contrato que o Serviço de Usuário espera da camada
// de persistência.
type UserRepository interface {
	FindAuthorityByName(ctx context.Context, name string) (domain.Authority, error)
	Save(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	FindByFilters(ctx context.Context, filter domain.UserFilter) ([]domain.User, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
	Delete(ctx context.Context, id string) error
}

// TokenGenerator emite o token de sessão no login.
type TokenGenerator interface {
	GenerateToken(userID, email, profile string) (string, error)
}

// Service implementa o diretório de usuários: cadastro com papel derivado do
// perfil, consultas, sobrescrita total, exclusão (sem auto-exclusão) e login.
type Service struct {
	repo   UserRepository
	tokens TokenGenerator
	logger logger.Logger
}

// NewService cria o Serviço de Usuário.
func NewService(repo UserRepository, tokens TokenGenerator, log logger.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, logger: log}
}

// CreateUser cadastra um usuário: email único, senha com hash bcrypt e
// exatamente uma authority derivada do perfil (OWNER -> ROLE_OWNER,
// EMPLOYEE -> ROLE_STAFF).
func (s *Service) CreateUser(ctx context.Context, req domain.CreateUserRequest) (domain.User, error) {
	profile, ok := domain.ParseUserProfile(req.Profile)
	if !ok {
		return domain.User{}, apperror.NewValidationError(fmt.Sprintf("Invalid user profile: %s", req.Profile))
	}
	if req.Password == "" {
		return domain.User{}, apperror.NewValidationError("The password is required!")
	}

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return domain.User{}, apperror.NewValidationError(fmt.Sprintf("User already registered: %s", req.Email))
	} else {
		var notFound *apperror.NotFoundError
		if !errors.As(err, &notFound) {
			return domain.User{}, err
		}
	}

	authority, err := s.repo.FindAuthorityByName(ctx, profile.AuthorityName())
	if err != nil {
		return domain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		CPF:          req.CPF,
		PasswordHash: string(hash),
		Profile:      profile,
		Authorities:  []domain.Authority{authority},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Save(ctx, user)
	if err != nil {
		return domain.User{}, err
	}

	s.logger.Info("Usuário cadastrado.", map[string]interface{}{
		"user_id": created.ID,
		"profile": string(created.Profile),
	})
	return created, nil
}

// GetAllUsers lista todos os usuários cadastrados.
func (s *Service) GetAllUsers(ctx context.Context) ([]domain.User, error) {
	return s.repo.FindAll(ctx)
}

// GetUserByID busca um usuário pelo identificador.
func (s *Service) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// SearchUsers lista usuários combinando os filtros informados.
func (s *Service) SearchUsers(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	return s.repo.FindByFilters(ctx, filter)
}

// UpdateUser sobrescreve TODOS os campos da conta com os valores recebidos.
// Uma mudança de perfil também troca a authority correspondente.
func (s *Service) UpdateUser(ctx context.Context, id string, req domain.UpdateUserRequest) (domain.User, error) {
	profile, ok := domain.ParseUserProfile(req.Profile)
	if !ok {
		return domain.User{}, apperror.NewValidationError(fmt.Sprintf("Invalid user profile: %s", req.Profile))
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	if req.Email != current.Email {
		if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
			return domain.User{}, apperror.NewValidationError(fmt.Sprintf("User already registered: %s", req.Email))
		} else {
			var notFound *apperror.NotFoundError
			if !errors.As(err, &notFound) {
				return domain.User{}, err
			}
		}
	}

	authority, err := s.repo.FindAuthorityByName(ctx, profile.AuthorityName())
	if err != nil {
		return domain.User{}, err
	}

	passwordHash := current.PasswordHash
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return domain.User{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
		}
		passwordHash = string(hash)
	}

	updated := domain.User{
		ID:           id,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		CPF:          req.CPF,
		PasswordHash: passwordHash,
		Profile:      profile,
		Authorities:  []domain.Authority{authority},
	}
	return s.repo.Update(ctx, updated)
}

// DeleteUser remove uma conta. Um usuário nunca pode excluir a própria conta.
func (s *Service) DeleteUser(ctx context.Context, requesterID, id string) error {
	if requesterID == id {
		return apperror.NewForbiddenError("You cannot exclude your own account!")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Usuário excluído.", map[string]interface{}{"user_id": id})
	return nil
}

// Login valida as credenciais e emite um token JWT com o perfil embutido.
func (s *Service) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			return "", domain.User{}, apperror.NewUnauthorizedError("Credenciais inválidas.")
		}
		return "", domain.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.User{}, apperror.NewUnauthorizedError("Credenciais inválidas.")
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, string(user.Profile))
	if err != nil {
		return "", domain.User{}, apperror.NewInternalError("Falha ao gerar token de acesso.", err)
	}
	return token, user, nil
}
