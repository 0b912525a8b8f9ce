package domain

import (
	"strings"
	"time"
)

// Product representa um item do catálogo do restaurante (a Entidade principal).
// O estoque atual vive aqui e é espelhado pelo registro de Inventory (1:1).
type Product struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Category           ProductCategory `json:"category"`
	MeasurementUnit    MeasurementUnit `json:"measurement_unit"`
	Price              float64         `json:"price"`
	CurrentStock       int64           `json:"current_stock"`
	MinQuantityOnStock int64           `json:"min_quantity_on_stock"`

	// Version é o token de Controle de Concorrência Otimista (OCC).
	// Toda escrita de estoque checa e incrementa esta coluna.
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsLowStock indica se o produto está no limiar de notificação (estoque <= mínimo).
func (p Product) IsLowStock() bool {
	return p.CurrentStock <= p.MinQuantityOnStock
}

// ProductCategory é a categoria enumerada do produto.
type ProductCategory string

const (
	CategoryPerishables   ProductCategory = "PERISHABLES"
	CategoryNotPerishable ProductCategory = "NOT_PERISHABLE"
	CategoryCanned        ProductCategory = "CANNED"
	CategoryBeverages     ProductCategory = "BEVERAGES"
	CategoryCondiments    ProductCategory = "CONDIMENTS"
	CategoryBakery        ProductCategory = "BAKERY"
	CategoryDairy         ProductCategory = "DAIRY"
	CategoryMeat          ProductCategory = "MEAT"
	CategorySeafood       ProductCategory = "SEAFOOD"
	CategoryPreparedFood  ProductCategory = "PREPARED_FOOD"
)

var productCategories = map[ProductCategory]bool{
	CategoryPerishables:   true,
	CategoryNotPerishable: true,
	CategoryCanned:        true,
	CategoryBeverages:     true,
	CategoryCondiments:    true,
	CategoryBakery:        true,
	CategoryDairy:         true,
	CategoryMeat:          true,
	CategorySeafood:       true,
	CategoryPreparedFood:  true,
}

// ParseProductCategory converte a string recebida na API para o enum.
// A comparação é case-insensitive.
func ParseProductCategory(s string) (ProductCategory, bool) {
	c := ProductCategory(strings.ToUpper(strings.TrimSpace(s)))
	return c, productCategories[c]
}

// MeasurementUnit é a unidade de medida enumerada do produto.
type MeasurementUnit string

const (
	UnitKilogram   MeasurementUnit = "KILOGRAM"
	UnitUnit       MeasurementUnit = "UNIT"
	UnitLiter      MeasurementUnit = "LITER"
	UnitMilliliter MeasurementUnit = "MILLILITER"
	UnitBox        MeasurementUnit = "BOX"
	UnitDozen      MeasurementUnit = "DOZEN"
)

var measurementUnits = map[MeasurementUnit]bool{
	UnitKilogram:   true,
	UnitUnit:       true,
	UnitLiter:      true,
	UnitMilliliter: true,
	UnitBox:        true,
	UnitDozen:      true,
}

// ParseMeasurementUnit converte a string recebida na API para o enum.
func ParseMeasurementUnit(s string) (MeasurementUnit, bool) {
	u := MeasurementUnit(strings.ToUpper(strings.TrimSpace(s)))
	return u, measurementUnits[u]
}

// CreateProductRequest é o payload de criação de produto.
// O estoque inicial alimenta também o registro de Inventory (criado junto).
type CreateProductRequest struct {
	Name               string  `json:"name"`
	Category           string  `json:"category"`
	MeasurementUnit    string  `json:"measurement_unit"`
	Price              float64 `json:"price"`
	CurrentStock       int64   `json:"current_stock"`
	MinQuantityOnStock int64   `json:"min_quantity_on_stock"`
}

// UpdateProductRequest é o payload de atualização parcial (patch).
// Campos nil mantêm o valor existente; campos presentes substituem.
// Mudança de CurrentStock passa pelo fluxo de ajuste de estoque, nunca
// por atribuição direta.
type UpdateProductRequest struct {
	Name               *string  `json:"name"`
	Category           *string  `json:"category"`
	MeasurementUnit    *string  `json:"measurement_unit"`
	Price              *float64 `json:"price"`
	CurrentStock       *int64   `json:"current_stock"`
	MinQuantityOnStock *int64   `json:"min_quantity_on_stock"`
}

// ProductFilter define os parâmetros da busca multi-campo.
// Campo zero = "casa com tudo"; nome é substring case-insensitive,
// categoria e unidade são igualdade exata.
type ProductFilter struct {
	Name            string
	Category        ProductCategory
	MeasurementUnit MeasurementUnit
}
