package inventory

import (
	"context"
	"net/http"

	"restostock/internal/api"
	"restostock/internal/domain"
	apperror "restostock/internal/errors"
	"restostock/internal/pkg/logger"
)

// InventoryService define o contrato que o Handler espera do fluxo de
// inventário.
type InventoryService interface {
	GetInventoryByProductName(ctx context.Context, productName string) (domain.InventoryView, error)
	GetInventoriesByCategory(ctx context.Context, category domain.ProductCategory) ([]domain.InventoryView, error)
	GetInventoriesWithLowStock(ctx context.Context) ([]domain.InventoryView, error)
	IncreaseStock(ctx context.Context, product domain.Product, amount int64) (domain.Product, error)
	DecreaseStock(ctx context.Context, product domain.Product, amount int64) (domain.Product, error)
}

// ProductFinder resolve o produto alvo dos ajustes de estoque pelo nome.
type ProductFinder interface {
	GetProductByName(ctx context.Context, name string) (domain.Product, error)
}

// Handler agrupa os endpoints de inventário e ajuste de estoque.
type Handler struct {
	Service  InventoryService
	Products ProductFinder
	Logger   logger.Logger
}

// NewHandler cria o Handler de inventário.
func NewHandler(svc InventoryService, products ProductFinder, log logger.Logger) *Handler {
	return &Handler{Service: svc, Products: products, Logger: log}
}

// SubtreeHandler atende todas as rotas sob /v1/inventories/:
// low-stock, category/{category}, {productName}, {productName}/inbound e
// {productName}/outbound.
func (h *Handler) SubtreeHandler(w http.ResponseWriter, r *http.Request) {
	segments := api.PathSegments(r)
	if len(segments) < 3 || segments[2] == "" {
		api.RespondError(w, r, h.Logger, apperror.NewValidationError("Formato de URL inválido ou nome do produto ausente."))
		return
	}

	switch {
	case segments[2] == "low-stock" && len(segments) == 3:
		if r.Method != http.MethodGet {
			api.MethodNotAllowed(w)
			return
		}
		h.lowStock(w, r)
	case segments[2] == "category" && len(segments) == 4:
		if r.Method != http.MethodGet {
			api.MethodNotAllowed(w)
			return
		}
		h.byCategory(w, r, segments[3])
	case len(segments) == 3:
		if r.Method != http.MethodGet {
			api.MethodNotAllowed(w)
			return
		}
		h.byProductName(w, r, segments[2])
	case len(segments) == 4 && (segments[3] == "inbound" || segments[3] == "outbound"):
		if r.Method != http.MethodPost {
			api.MethodNotAllowed(w)
			return
		}
		h.adjust(w, r, segments[2], segments[3])
	default:
		api.RespondError(w, r, h.Logger, apperror.NewNotFoundError("Rota não encontrada."))
	}
}

// byProductName lida com GET /v1/inventories/{productName}.
// @Summary Consulta o inventário de um produto
// @Tags inventories
// @Produce json
// @Param productName path string true "Nome do produto"
// @Success 200 {object} domain.InventoryView
// @Failure 404 {object} domain.ErrorResponse
// @Router /v1/inventories/{productName} [get]
func (h *Handler) byProductName(w http.ResponseWriter, r *http.Request, productName string) {
	view, err := h.Service.GetInventoryByProductName(r.Context(), productName)
	if err != nil {
		api.RespondError(w, r, h.Logger, err)
		return
	}
	api.RespondJSON(w, h.Logger, http.StatusOK, view)
}

// byCategory lida com GET /v1/inventories/category/{category}.
// @Summary Lista inventários por categoria de produto
// @Tags inventories
// @Produce json
// @Param category path string true "Categoria"
// @Success 200 {array} domain.InventoryView
// @Success 204 "Nenhum resultado"
// @Router /v1/inventories/category/{category} [get]
func (h *Handler) byCategory(w http.ResponseWriter, r *http.Request, raw string) {
	category, ok := domain.ParseProductCategory(raw)
	if !ok {
		api.RespondError(w, r, h.Logger, apperror.NewValidationError("Invalid product category: "+raw))
		return
	}

	views, err := h.Service.GetInventoriesByCategory(r.Context(), category)
	if err != nil {
		api.RespondError(w, r, h.Logger, err)
		return
	}
	api.RespondList(w, h.Logger, len(views), views)
}

// lowStock lida com GET /v1/inventories/low-stock.
// @Summary Lista inventários no limiar de estoque baixo
// @Tags inventories
// @Produce json
// @Success 200 {array} domain.InventoryView
// @Success 204 "Nenhum resultado"
// @Router /v1/inventories/low-stock [get]
func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	views, err := h.Service.GetInventoriesWithLowStock(r.Context())
	if err != nil {
		api.RespondError(w, r, h.Logger, err)
		return
	}
	api.RespondList(w, h.Logger, len(views), views)
}

// adjust lida com POST /v1/inventories/{productName}/inbound|outbound.
// @Summary Aplica uma entrada ou saída de estoque
// @Tags inventories
// @Accept json
// @Produce json
// @Param productName path string true "Nome do produto"
// @Param movement body domain.UpdateStockRequest true "Quantidade"
// @Success 200 {object} domain.Product
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /v1/inventories/{productName}/inbound [post]
func (h *Handler) adjust(w http.ResponseWriter, r *http.Request, productName, direction string) {
	var req domain.UpdateStockRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, r, h.Logger, err)
		return
	}

	product, err := h.Products.GetProductByName(r.Context(), productName)
	if err != nil {
		api.RespondError(w, r, h.Logger, err)
		return
	}

	var updated domain.Product
	if direction == "inbound" {
		updated, err = h.Service.IncreaseStock(r.Context(), product, req.Quantity)
	} else {
		updated, err = h.Service.DecreaseStock(r.Context(), product, req.Quantity)
	}
	if err != nil {
		api.RespondError(w, r, h.Logger, err)
		return
	}
	api.RespondJSON(w, h.Logger, http.StatusOK, updated)
}
