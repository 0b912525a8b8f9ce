// Package api reúne os auxiliares HTTP compartilhados pelos handlers:
// decodificação de payload, resposta JSON padronizada e tradução de erros
// de serviço para o envelope de erro da API.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"restostock/internal/domain"
	apperror "restostock/internal/errors"
	"restostock/internal/pkg/logger"
)

// DecodeJSON decodifica o corpo da requisição em dst. Payload malformado
// vira um erro de validação (400) em vez de vazar o erro do decoder.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.NewValidationError("Payload inválido. Verifique o formato JSON.")
	}
	return nil
}

// RespondJSON envia uma resposta de sucesso com o status informado.
// data nil produz um corpo vazio (e.g. 204 após DELETE).
func RespondJSON(w http.ResponseWriter, log logger.Logger, status int, data interface{}) {
	if data == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("Falha ao codificar JSON de resposta", err)
	}
}

// RespondError traduz o erro de serviço para o envelope padronizado da API.
// Erros 5xx são logados com a causa raiz; 4xx apenas em nível de debug.
func RespondError(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= http.StatusInternalServerError {
		log.Error(fmt.Sprintf("Erro de servidor em %s %s", r.Method, r.URL.Path), err)
	} else {
		log.Debug("Requisição rejeitada", map[string]interface{}{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   status,
			"category": category,
		})
	}

	RespondJSON(w, log, status, domain.ErrorResponse{
		Code:      status,
		Category:  category,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// RespondList envia uma coleção: 204 sem corpo quando vazia, 200 com o
// array caso contrário.
func RespondList(w http.ResponseWriter, log logger.Logger, n int, data interface{}) {
	if n == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	RespondJSON(w, log, http.StatusOK, data)
}

// MethodNotAllowed responde 405 para métodos fora do contrato da rota.
func MethodNotAllowed(w http.ResponseWriter) {
	http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
}

// PathSegments normaliza o caminho da URL e devolve seus segmentos
// ("/v1/products/abc/" -> ["v1", "products", "abc"]).
func PathSegments(r *http.Request) []string {
	return strings.Split(strings.Trim(r.URL.Path, "/"), "/")
}
