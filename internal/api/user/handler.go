package user

import (
	"context"
	"net/http"

	"restostock/internal/api"
	"restostock/internal/domain"
	apperror "restostock/internal/errors"
	"restostock/internal/pkg/logger"
	"restostock/internal/pkg/middleware"
)

// UserService define o contrato que o Handler espera do diretório de usuários.
type UserService interface {
	CreateUser(ctx context.Context, req domain.CreateUserRequest) (domain.User, error)
	GetAllUsers(ctx context.Context) ([]domain.User, error)
	GetUserByID(ctx context.Context, id string) (domain.User, error)
	SearchUsers(ctx context.Context, filter domain.UserFilter) ([]domain.User, error)
	UpdateUser(ctx context.Context, id string, req domain.UpdateUserRequest) (domain.User, error)
	DeleteUser(ctx context.Context, requesterID, id string) error
	Login(ctx context.Context, email, password string) (string, domain.User, error)
}

// LoginRequest é o payload de autenticação.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse devolve o token emitido e a conta autenticada.
type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Handler agrupa os endpoints do diretório de usuários.
type Handler struct {
	Service UserService
	Logger  logger.Logger
}

// NewHandler cria o Handler de usuários.
func NewHandler(svc UserService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// LoginHandler atende POST /v1/login (rota pública).
// @Summary Autentica um usuário e emite o token JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Credenciais"
// @Success 200 {object} LoginResponse
// @Failure 401 {object} domain.ErrorResponse
// @Router /v1/login [post]
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.MethodNotAllowed(w)
		return
	}

	var req LoginRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, r, h.Logger, err)
		return
	}

	token, account, err := h.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		api.RespondError(w, r, h.Logger, err)
		return
	}
	api.RespondJSON(w, h.Logger, http.StatusOK, LoginResponse{Token: token, User: account})
}

// CollectionHandler atende /v1/users (listar e cadastrar).
func (h *Handler) CollectionHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		api.MethodNotAllowed(w)
	}
}

// ItemHandler atende /v1/users/{id} e /v1/users/search.
func (h *Handler) ItemHandler(w http.ResponseWriter, r *http.Request) {
	segments := api.PathSegments(r)
	if len(segments) != 3 || segments[2] == "" {
		api.RespondError(w, r, h.Logger, apperror.NewValidationError("Formato de URL inválido ou ID ausente."))
		return
	}

	if segments[2] == "search" {
		if r.Method != http.MethodGet {
			api.MethodNotAllowed(w)
			return
		}
		h.search(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getByID(w, r, segments[2])
	case http.MethodPut:
		h.update(w, r, segments[2])
	case http.MethodDelete:
		h.delete(w, r, segments[2])
	default:
		api.MethodNotAllowed(w)
	}
}

// create lida com POST /v1/users.
// @Summary Cadastra um usuário
// @Tags users
// @Accept json
// @Produce json
// @Param user body domain.CreateUserRequest true "Usuário"
// @Success 201 {object} domain.User
// @Failure 400 {object} domain.ErrorResponse
// @Router /v1/users [post]
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, r, h.Logger, err)
		return
	}

	created, err := h.Service.CreateUser(r.Context(), req)
	if err != nil {
		api.RespondError(w, r, h.Logger, err)
		return
	}
	api.RespondJSON(w, h.Logger, http.StatusCreated, created)
}

// list lida com GET /v1/users.
// @Summary Lista os usuários cadastrados
// @Tags users
// @Produce json
// @Success 200 {array} domain.User
// @Success 204 "Nenhum usuário"
// @Router /v1/users [get]
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.GetAllUsers(r.Context())
	if err != nil {
		api.RespondError(w, r, h.Logger, err)
		return
	}
	api.RespondList(w, h.Logger, len(users), users)
}

// search lida com GET /v1/users/search.
// @Summary Busca usuários por filtros combinados
// @Tags users
// @Produce json
// @Param name query string false "Trecho do nome"
// @Param email query string false "Trecho do email"
// @Param phone query string false "Trecho do telefone"
// @Param cpf query string false "Trecho do CPF"
// @Param profile query string false "Perfil (OWNER ou EMPLOYEE)"
// @Success 200 {array} domain.User
// @Success 204 "Nenhum resultado"
// @Router /v1/users/search [get]
func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := domain.UserFilter{
		Name:  query.Get("name"),
		Email: query.Get("email"),
		Phone: query.Get("phone"),
		CPF:   query.Get("cpf"),
	}

	if raw := query.Get("profile"); raw != "" {
		profile, ok := domain.ParseUserProfile(raw)
		if !ok {
			api.RespondError(w, r, h.Logger, apperror.NewValidationError("Invalid user profile: "+raw))
			return
		}
		filter.Profile = profile
	}

	users, err := h.Service.SearchUsers(r.Context(), filter)
	if err != nil {
		api.RespondError(w, r, h.Logger, err)
		return
	}
	api.RespondList(w, h.Logger, len(users), users)
}

// getByID lida com GET /v1/users/{id}.
// @Summary Busca um usuário pelo ID
// @Tags users
// @Produce json
// @Param id path string true "ID do usuário"
// @Success 200 {object} domain.User
// @Failure 404 {object} domain.ErrorResponse
// @Router /v1/users/{id} [get]
func (h *Handler) getByID(w http.ResponseWriter, r *http.Request, id string) {
	account, err := h.Service.GetUserByID(r.Context(), id)
	if err != nil {
		api.RespondError(w, r, h.Logger, err)
		return
	}
	api.RespondJSON(w, h.Logger, http.StatusOK, account)
}

// update lida com PUT /v1/users/{id} (sobrescrita total).
// @Summary Atualiza todos os campos de um usuário
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "ID do usuário"
// @Param user body domain.UpdateUserRequest true "Novos valores"
// @Success 200 {object} domain.User
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /v1/users/{id} [put]
func (h *Handler) update(w http.ResponseWriter, r *http.Request, id string) {
	var req domain.UpdateUserRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, r, h.Logger, err)
		return
	}

	updated, err := h.Service.UpdateUser(r.Context(), id, req)
	if err != nil {
		api.RespondError(w, r, h.Logger, err)
		return
	}
	api.RespondJSON(w, h.Logger, http.StatusOK, updated)
}

// delete lida com DELETE /v1/users/{id}. O requisitante vem das claims; a
// auto-exclusão é recusada pelo serviço.
// @Summary Exclui um usuário
// @Tags users
// @Param id path string true "ID do usuário"
// @Success 204 "Usuário excluído"
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /v1/users/{id} [delete]
func (h *Handler) delete(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		api.RespondError(w, r, h.Logger, apperror.NewUnauthorizedError("Credenciais ausentes no contexto."))
		return
	}

	if err := h.Service.DeleteUser(r.Context(), claims.UserID, id); err != nil {
		api.RespondError(w, r, h.Logger, err)
		return
	}
	api.RespondJSON(w, h.Logger, http.StatusNoContent, nil)
}
