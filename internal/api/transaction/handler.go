package transaction

import (
	"context"
	"net/http"

	"restostock/internal/api"
	"restostock/internal/domain"
	apperror "restostock/internal/errors"
	"restostock/internal/pkg/logger"
	"restostock/internal/pkg/middleware"
)

// TransactionService define o contrato que o Handler espera do razão de
// movimentações.
type TransactionService interface {
	RegisterTransaction(ctx context.Context, req domain.CreateTransactionRequest) (domain.InventoryTransaction, error)
	GetTransactionsByProductID(ctx context.Context, productID string) ([]domain.InventoryTransaction, error)
	GetTransactionsByResponsibleID(ctx context.Context, userID string) ([]domain.InventoryTransaction, error)
}

// Handler agrupa os endpoints do razão de movimentações.
type Handler struct {
	Service TransactionService
	Logger  logger.Logger
}

// NewHandler cria o Handler de movimentações.
func NewHandler(svc TransactionService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// CollectionHandler atende /v1/inventory-transactions (registrar).
func (h *Handler) CollectionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.MethodNotAllowed(w)
		return
	}
	h.register(w, r)
}

// SubtreeHandler atende /v1/inventory-transactions/product/{id} e
// /v1/inventory-transactions/responsible/{id}.
func (h *Handler) SubtreeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.MethodNotAllowed(w)
		return
	}

	segments := api.PathSegments(r)
	if len(segments) != 4 || segments[3] == "" {
		api.RespondError(w, r, h.Logger, apperror.NewValidationError("Formato de URL inválido ou ID ausente."))
		return
	}

	switch segments[2] {
	case "product":
		h.byProduct(w, r, segments[3])
	case "responsible":
		h.byResponsible(w, r, segments[3])
	default:
		api.RespondError(w, r, h.Logger, apperror.NewNotFoundError("Rota não encontrada."))
	}
}

// register lida com POST /v1/inventory-transactions. Quando o payload não
// informa o responsável, o usuário autenticado assume a autoria.
// @Summary Registra uma movimentação de estoque
// @Tags inventory-transactions
// @Accept json
// @Produce json
// @Param transaction body domain.CreateTransactionRequest true "Movimentação"
// @Success 201 {object} domain.InventoryTransaction
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /v1/inventory-transactions [post]
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTransactionRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, r, h.Logger, err)
		return
	}

	if req.ResponsibleID == "" {
		claims, ok := middleware.GetUserClaimsFromContext(r.Context())
		if !ok {
			api.RespondError(w, r, h.Logger, apperror.NewUnauthorizedError("Credenciais ausentes no contexto."))
			return
		}
		req.ResponsibleID = claims.UserID
	}

	entry, err := h.Service.RegisterTransaction(r.Context(), req)
	if err != nil {
		api.RespondError(w, r, h.Logger, err)
		return
	}
	api.RespondJSON(w, h.Logger, http.StatusCreated, entry)
}

// byProduct lida com GET /v1/inventory-transactions/product/{id}.
// @Summary Lista o histórico de movimentações de um produto
// @Tags inventory-transactions
// @Produce json
// @Param id path string true "ID do produto"
// @Success 200 {array} domain.InventoryTransaction
// @Success 204 "Nenhum resultado"
// @Router /v1/inventory-transactions/product/{id} [get]
func (h *Handler) byProduct(w http.ResponseWriter, r *http.Request, productID string) {
	entries, err := h.Service.GetTransactionsByProductID(r.Context(), productID)
	if err != nil {
		api.RespondError(w, r, h.Logger, err)
		return
	}
	api.RespondList(w, h.Logger, len(entries), entries)
}

// byResponsible lida com GET /v1/inventory-transactions/responsible/{id}.
// @Summary Lista as movimentações registradas por um usuário
// @Tags inventory-transactions
// @Produce json
// @Param id path string true "ID do usuário"
// @Success 200 {array} domain.InventoryTransaction
// @Success 204 "Nenhum resultado"
// @Router /v1/inventory-transactions/responsible/{id} [get]
func (h *Handler) byResponsible(w http.ResponseWriter, r *http.Request, userID string) {
	entries, err := h.Service.GetTransactionsByResponsibleID(r.Context(), userID)
	if err != nil {
		api.RespondError(w, r, h.Logger, err)
		return
	}
	api.RespondList(w, h.Logger, len(entries), entries)
}
