package domain

// ErrorResponse é a estrutura padronizada para respostas de erro na API.
// @Description Estrutura padronizada para respostas de erro na API.
type ErrorResponse struct {
	Code      int    `json:"code" example:"400"`
	Category  string `json:"category" example:"VALIDATION_ERROR"`
	Message   string `json:"message" example:"The stock can't be negative!"`
	Timestamp string `json:"timestamp" example:"2026-01-15T10:32:07Z"`
}
