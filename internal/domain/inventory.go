package domain

import "time"

// InventoryView é a projeção de leitura devolvida pelos endpoints de
// inventário: o registro de inventory (1:1 com o produto, criado junto com
// ele) com os dados do produto dono.
type InventoryView struct {
	ID              string    `json:"id"`
	CurrentQuantity int64     `json:"current_quantity"`
	LastUpdatedAt   time.Time `json:"last_updated_at"`
	Product         struct {
		ID                 string          `json:"id"`
		Name               string          `json:"name"`
		Category           ProductCategory `json:"category"`
		MinQuantityOnStock int64           `json:"min_quantity_on_stock"`
	} `json:"product"`
}

// UpdateStockRequest é o payload dos endpoints de entrada/saída de estoque.
type UpdateStockRequest struct {
	Quantity int64 `json:"quantity"`
}
