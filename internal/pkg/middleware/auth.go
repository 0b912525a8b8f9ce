package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"restostock/internal/domain"
	apperror "restostock/internal/errors"
	"restostock/internal/pkg/token"
)

// ContextKey é o tipo das chaves de contexto deste pacote.
// Usamos um tipo próprio para garantir que não haja conflito com chaves string.
type ContextKey int

const (
	UserClaimsKey ContextKey = iota
)

// UserClaims representa os dados do usuário autenticado extraídos do JWT,
// anexados ao contexto da requisição.
type UserClaims struct {
	UserID  string
	Email   string
	Profile domain.UserProfile
}

// TokenService define o contrato de validação necessário para o middleware.
type TokenService interface {
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// writeError envia o corpo de erro padronizado da API (mesmo shape dos handlers).
func writeError(w http.ResponseWriter, err apperror.AppError) {
	status, category, message := apperror.MapToHTTPStatus(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{
		Code:      status,
		Category:  category,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// NewAuthMiddleware cria o middleware que valida o JWT do header Authorization
// e anexa as claims (UserID, Email e Profile) ao contexto da requisição.
func NewAuthMiddleware(tokenSvc TokenService) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {

			// 1. Extrair o token do header: Authorization: Bearer <token>
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeError(w, apperror.NewUnauthorizedError("Token de autorização ausente ou malformado."))
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")

			// 2. Validar o token
			claims, err := tokenSvc.ValidateToken(tokenString)
			if err != nil {
				writeError(w, apperror.NewUnauthorizedError("Token inválido ou expirado."))
				return
			}

			// 3. Anexar as claims ao contexto
			userClaims := UserClaims{
				UserID:  claims.UserID,
				Email:   claims.Email,
				Profile: domain.UserProfile(claims.Profile),
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, userClaims)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// GetUserClaimsFromContext extrai as claims anexadas pelo middleware de autenticação.
func GetUserClaimsFromContext(ctx context.Context) (UserClaims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(UserClaims)
	return claims, ok
}

// RequireProfile restringe a rota aos perfis informados.
// Deve ser aplicado DEPOIS do NewAuthMiddleware (depende das claims no contexto).
func RequireProfile(profiles ...domain.UserProfile) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {

			claims, ok := GetUserClaimsFromContext(r.Context())
			if !ok {
				writeError(w, apperror.NewUnauthorizedError("Autorização necessária. Token não processado."))
				return
			}

			for _, p := range profiles {
				if claims.Profile == p {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeError(w, apperror.NewForbiddenError("Acesso negado. Você não tem a permissão necessária."))
		}
	}
}
