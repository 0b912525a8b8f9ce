package router

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"restostock/internal/api/inventory"
	"restostock/internal/api/product"
	"restostock/internal/api/transaction"
	"restostock/internal/api/user"
	"restostock/internal/domain"
	"restostock/internal/pkg/middleware"
)

// Middleware encadeia funções de HandlerFunc (autenticação, perfil).
type Middleware = func(next http.HandlerFunc) http.HandlerFunc

// NewRouter monta o roteador HTTP principal com os grupos de rota:
// públicas (ping, swagger, login), rotas de operação (dono + funcionário) e
// diretório de usuários (apenas dono).
func NewRouter(
	productHandler *product.Handler,
	inventoryHandler *inventory.Handler,
	transactionHandler *transaction.Handler,
	userHandler *user.Handler,
	auth Middleware,
) http.Handler {
	mux := http.NewServeMux()

	staff := middleware.RequireProfile(domain.ProfileOwner, domain.ProfileEmployee)
	ownerOnly := middleware.RequireProfile(domain.ProfileOwner)

	// Rotas públicas.
	mux.HandleFunc("/ping", PingHandler)
	mux.Handle("/swagger/", httpSwagger.WrapHandler)
	mux.HandleFunc("/v1/login", userHandler.LoginHandler)

	// Catálogo de produtos (dono + funcionário; a recusa de exclusão para
	// funcionários é regra do serviço).
	mux.HandleFunc("/v1/products", auth(staff(productHandler.CollectionHandler)))
	mux.HandleFunc("/v1/products/", auth(staff(productHandler.ItemHandler)))

	// Inventário e ajustes de estoque.
	mux.HandleFunc("/v1/inventories/", auth(staff(inventoryHandler.SubtreeHandler)))

	// Razão de movimentações.
	mux.HandleFunc("/v1/inventory-transactions", auth(staff(transactionHandler.CollectionHandler)))
	mux.HandleFunc("/v1/inventory-transactions/", auth(staff(transactionHandler.SubtreeHandler)))

	// Diretório de usuários (apenas dono).
	mux.HandleFunc("/v1/users", auth(ownerOnly(userHandler.CollectionHandler)))
	mux.HandleFunc("/v1/users/", auth(ownerOnly(userHandler.ItemHandler)))

	return mux
}

// PingHandler é o health check do serviço.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
