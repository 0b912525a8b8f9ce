package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"restostock/internal/domain"
)

// TestIsLowStock_Boundary testa o limiar inclusivo de estoque baixo.
func TestIsLowStock_Boundary(t *testing.T) {
	p := domain.Product{CurrentStock: 15, MinQuantityOnStock: 15}
	assert.True(t, p.IsLowStock(), "estoque igual ao mínimo conta como baixo")

	p.CurrentStock = 16
	assert.False(t, p.IsLowStock())

	p.CurrentStock = 0
	assert.True(t, p.IsLowStock())
}

// TestParseEnums_CaseInsensitive testa a normalização dos enums da API.
func TestParseEnums_CaseInsensitive(t *testing.T) {
	category, ok := domain.ParseProductCategory("  beverages ")
	assert.True(t, ok)
	assert.Equal(t, domain.CategoryBeverages, category)

	_, ok = domain.ParseProductCategory("FROZEN")
	assert.False(t, ok)

	unit, ok := domain.ParseMeasurementUnit("liter")
	assert.True(t, ok)
	assert.Equal(t, domain.UnitLiter, unit)

	txType, ok := domain.ParseTransactionType("outbound")
	assert.True(t, ok)
	assert.Equal(t, domain.TransactionOutbound, txType)

	profile, ok := domain.ParseUserProfile("owner")
	assert.True(t, ok)
	assert.Equal(t, domain.ProfileOwner, profile)
}
