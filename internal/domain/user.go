package domain

import (
	"strings"
	"time"
)

// User representa a conta de um funcionário ou dono do restaurante.
type User struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone"`
	CPF          string      `json:"cpf"`
	PasswordHash string      `json:"-"` // Oculta o hash da senha no JSON de resposta
	Profile      UserProfile `json:"profile"`
	Authorities  []Authority `json:"authorities"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Authority é um papel nomeado compartilhado por vários usuários (N:N).
// As linhas ROLE_OWNER e ROLE_STAFF são semeadas por migration e precisam
// existir antes de qualquer cadastro.
type Authority struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

const (
	AuthorityOwner = "ROLE_OWNER"
	AuthorityStaff = "ROLE_STAFF"
)

// UserProfile é o perfil enumerado da conta.
type UserProfile string

const (
	ProfileOwner    UserProfile = "OWNER"
	ProfileEmployee UserProfile = "EMPLOYEE"
)

// ParseUserProfile converte a string recebida na API para o enum.
func ParseUserProfile(s string) (UserProfile, bool) {
	p := UserProfile(strings.ToUpper(strings.TrimSpace(s)))
	return p, p == ProfileOwner || p == ProfileEmployee
}

// AuthorityName devolve o papel correspondente ao perfil
// (cada usuário recebe exatamente uma authority no cadastro).
func (p UserProfile) AuthorityName() string {
	if p == ProfileOwner {
		return AuthorityOwner
	}
	return AuthorityStaff
}

// CreateUserRequest é o payload de cadastro de usuário.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	CPF      string `json:"cpf"`
	Password string `json:"password"`
	Profile  string `json:"profile"`
}

// UpdateUserRequest é o payload de atualização de usuário.
// Diferente do patch de produto, o contrato aqui é de SOBRESCRITA TOTAL:
// todos os campos substituem os existentes.
type UpdateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	CPF      string `json:"cpf"`
	Password string `json:"password"`
	Profile  string `json:"profile"`
}

// UserFilter define os parâmetros da busca multi-campo de usuários.
// Campo zero casa com tudo; strings são comparadas case-insensitively.
type UserFilter struct {
	Name    string
	Email   string
	Phone   string
	CPF     string
	Profile UserProfile
}
