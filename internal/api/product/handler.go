package product

import (
	"context"
	"net/http"

	"restostock/internal/api"
	"restostock/internal/domain"
	apperror "restostock/internal/errors"
	"restostock/internal/pkg/logger"
	"restostock/internal/pkg/middleware"
)

// ProductService define o contrato que o Handler espera da camada de Serviço.
type ProductService interface {
	CreateProduct(ctx context.Context, req domain.CreateProductRequest) (domain.Product, error)
	GetAllProducts(ctx context.Context) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id string) (domain.Product, error)
	GetProductByName(ctx context.Context, name string) (domain.Product, error)
	SearchProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, id string, req domain.UpdateProductRequest) (domain.Product, error)
	DeleteProduct(ctx context.Context, requesterProfile domain.UserProfile, id string) error
}

// Handler agrupa os endpoints do catálogo de produtos.
type Handler struct {
	Service ProductService
	Logger  logger.Logger
}

// NewHandler cria o Handler de produtos.
func NewHandler(svc ProductService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// CollectionHandler atende /v1/products (listar e criar).
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

// ItemHandler atende /v1/products/{id}, /v1/products/name/{name} e
// /v1/products/search.
func (h *Handler) ItemHandler(w http.ResponseWriter, r *http.Request) {
	segments := api.PathSegments(r)
	if len(segments) < 3 || segments[2] == "" {
		api.RespondError(w, r, h.Logger, apperror.NewValidationError("Formato de URL inválido ou ID ausente."))
		return
	}

	switch {
	case segments[2] == "search" && len(segments) == 3:
		if r.Method != http.MethodGet {
			api.MethodNotAllowed(w)
			return
		}
		h.search(w, r)
	case segments[2] == "name" && len(segments) == 4:
		if r.Method != http.MethodGet {
			api.MethodNotAllowed(w)
			return
		}
		h.getByName(w, r, segments[3])
	case len(segments) == 3:
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
	default:
		api.RespondError(w, r, h.Logger, apperror.NewNotFoundError("Rota não encontrada."))
	}
}

// create lida com POST /v1/products.
// @Summary Cadastra um produto
// @Tags products
// @Accept json
// @Produce json
// @Param product body domain.CreateProductRequest true "Produto"
// @Success 201 {object} domain.Product
// @Failure 400 {object} domain.ErrorResponse
// @Router /v1/products [post]
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProductRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, r, h.Logger, err)
		return
	}

	created, err := h.Service.CreateProduct(r.Context(), req)
	if err != nil {
		api.RespondError(w, r, h.Logger, err)
		return
	}
	api.RespondJSON(w, h.Logger, http.StatusCreated, created)
}

// list lida com GET /v1/products.
// @Summary Lista o catálogo de produtos
// @Tags products
// @Produce json
// @Success 200 {array} domain.Product
// @Success 204 "Catálogo vazio"
// @Router /v1/products [get]
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	products, err := h.Service.GetAllProducts(r.Context())
	if err != nil {
		api.RespondError(w, r, h.Logger, err)
		return
	}
	api.RespondList(w, h.Logger, len(products), products)
}

// search lida com GET /v1/products/search.
// @Summary Busca produtos por filtros combinados
// @Tags products
// @Produce json
// @Param name query string false "Trecho do nome"
// @Param category query string false "Categoria"
// @Param measurement_unit query string false "Unidade de medida"
// @Success 200 {array} domain.Product
// @Success 204 "Nenhum resultado"
// @Router /v1/products/search [get]
func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := domain.ProductFilter{Name: query.Get("name")}

	if raw := query.Get("category"); raw != "" {
		category, ok := domain.ParseProductCategory(raw)
		if !ok {
			api.RespondError(w, r, h.Logger, apperror.NewValidationError("Invalid product category: "+raw))
			return
		}
		filter.Category = category
	}
	if raw := query.Get("measurement_unit"); raw != "" {
		unit, ok := domain.ParseMeasurementUnit(raw)
		if !ok {
			api.RespondError(w, r, h.Logger, apperror.NewValidationError("Invalid measurement unit: "+raw))
			return
		}
		filter.MeasurementUnit = unit
	}

	products, err := h.Service.SearchProducts(r.Context(), filter)
	if err != nil {
		api.RespondError(w, r, h.Logger, err)
		return
	}
	api.RespondList(w, h.Logger, len(products), products)
}

// getByID lida com GET /v1/products/{id}.
// @Summary Busca um produto pelo ID
// @Tags products
// @Produce json
// @Param id path string true "ID do produto"
// @Success 200 {object} domain.Product
// @Failure 404 {object} domain.ErrorResponse
// @Router /v1/products/{id} [get]
func (h *Handler) getByID(w http.ResponseWriter, r *http.Request, id string) {
	product, err := h.Service.GetProductByID(r.Context(), id)
	if err != nil {
		api.RespondError(w, r, h.Logger, err)
		return
	}
	api.RespondJSON(w, h.Logger, http.StatusOK, product)
}

// getByName lida com GET /v1/products/name/{name}.
// @Summary Busca um produto pelo nome
// @Tags products
// @Produce json
// @Param name path string true "Nome do produto"
// @Success 200 {object} domain.Product
// @Failure 404 {object} domain.ErrorResponse
// @Router /v1/products/name/{name} [get]
func (h *Handler) getByName(w http.ResponseWriter, r *http.Request, name string) {
	product, err := h.Service.GetProductByName(r.Context(), name)
	if err != nil {
		api.RespondError(w, r, h.Logger, err)
		return
	}
	api.RespondJSON(w, h.Logger, http.StatusOK, product)
}

// update lida com PUT /v1/products/{id} (atualização parcial).
// @Summary Atualiza campos de um produto
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "ID do produto"
// @Param product body domain.UpdateProductRequest true "Campos a alterar"
// @Success 200 {object} domain.Product
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Router /v1/products/{id} [put]
func (h *Handler) update(w http.ResponseWriter, r *http.Request, id string) {
	var req domain.UpdateProductRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, r, h.Logger, err)
		return
	}

	updated, err := h.Service.UpdateProduct(r.Context(), id, req)
	if err != nil {
		api.RespondError(w, r, h.Logger, err)
		return
	}
	api.RespondJSON(w, h.Logger, http.StatusOK, updated)
}

// delete lida com DELETE /v1/products/{id}. A recusa para funcionários é
// regra do serviço, não do middleware: a rota aceita ambos os perfis.
// @Summary Exclui um produto
// @Tags products
// @Param id path string true "ID do produto"
// @Success 204 "Produto excluído"
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /v1/products/{id} [delete]
func (h *Handler) delete(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		api.RespondError(w, r, h.Logger, apperror.NewUnauthorizedError("Credenciais ausentes no contexto."))
		return
	}

	if err := h.Service.DeleteProduct(r.Context(), claims.Profile, id); err != nil {
		api.RespondError(w, r, h.Logger, err)
		return
	}
	api.RespondJSON(w, h.Logger, http.StatusNoContent, nil)
}
