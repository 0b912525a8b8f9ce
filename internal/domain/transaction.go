package domain

import (
	"strings"
	"time"
)

// InventoryTransaction é um lançamento imutável do razão de movimentações.
// Nunca é alterado nem apagado depois de criado.
type InventoryTransaction struct {
	ID              string                `json:"id"`
	Type            TransactionType       `json:"type"`
	Quantity        int64                 `json:"quantity"`
	MeasurementUnit MeasurementUnit       `json:"measurement_unit"`
	UnitPrice       float64               `json:"unit_price"`
	Motivation      TransactionMotivation `json:"motivation"`
	Details         string                `json:"details"`
	TransactionAt   time.Time             `json:"transaction_at"`

	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`

	// Usuário responsável pela movimentação.
	ResponsibleID   string `json:"responsible_id"`
	ResponsibleName string `json:"responsible_name"`
}

// TransactionType representa a direção da movimentação de estoque.
type TransactionType string

const (
	TransactionInbound    TransactionType = "INBOUND"
	TransactionOutbound   TransactionType = "OUTBOUND"
	TransactionAdjustment TransactionType = "ADJUSTMENT"
)

var transactionTypes = map[TransactionType]bool{
	TransactionInbound:    true,
	TransactionOutbound:   true,
	TransactionAdjustment: true,
}

// ParseTransactionType converte a string recebida na API para o enum.
func ParseTransactionType(s string) (TransactionType, bool) {
	t := TransactionType(strings.ToUpper(strings.TrimSpace(s)))
	return t, transactionTypes[t]
}

// TransactionMotivation enumera o motivo da movimentação.
type TransactionMotivation string

const (
	MotivationReplenishment TransactionMotivation = "REPLENISHMENT"
	MotivationConsumption   TransactionMotivation = "CONSUMPTION"
	MotivationWaste         TransactionMotivation = "WASTE"
	MotivationSpillage      TransactionMotivation = "SPILLAGE"
	MotivationTheft         TransactionMotivation = "THEFT"
)

var transactionMotivations = map[TransactionMotivation]bool{
	MotivationReplenishment: true,
	MotivationConsumption:   true,
	MotivationWaste:         true,
	MotivationSpillage:      true,
	MotivationTheft:         true,
}

// ParseTransactionMotivation converte a string recebida na API para o enum.
func ParseTransactionMotivation(s string) (TransactionMotivation, bool) {
	m := TransactionMotivation(strings.ToUpper(strings.TrimSpace(s)))
	return m, transactionMotivations[m]
}

// CreateTransactionRequest é o payload de registro de uma movimentação.
type CreateTransactionRequest struct {
	Type          string  `json:"type"`
	Quantity      int64   `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
	Motivation    string  `json:"motivation"`
	Details       string  `json:"details"`
	ProductID     string  `json:"product_id"`
	ResponsibleID string  `json:"responsible_id"`
}
