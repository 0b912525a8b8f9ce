package userrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"restostock/internal/domain"
	apperror "restostock/internal/errors"
	"restostock/internal/pkg/logger"
)

// UserRepository é a camada de acesso a dados de usuários e authorities.
type UserRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewUserRepository cria o repositório de usuários, injetando o DB.
func NewUserRepository(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *UserRepository {
	return &UserRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    log,
	}
}

const userColumns = `id, name, email, phone, cpf, password_hash, profile, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Phone,
		&u.CPF,
		&u.PasswordHash,
		&u.Profile,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

// FindAuthorityByName busca a authority pelo nome (e.g. "ROLE_OWNER").
// A linha precisa ter sido semeada por migration.
func (r *UserRepository) FindAuthorityByName(ctx context.Context, name string) (domain.Authority, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var a domain.Authority
	err := r.DB.QueryRowContext(ctxTimeout, `SELECT id, name FROM authorities WHERE name = $1`, name).Scan(&a.ID, &a.Name)
	if err == sql.ErrNoRows {
		return domain.Authority{}, apperror.NewNotFoundError("Authority not found: " + name)
	}
	if err != nil {
		return domain.Authority{}, apperror.NewDBError("failed to find authority", err)
	}
	return a, nil
}

// Save insere o usuário e o vínculo com a authority na mesma transação.
func (r *UserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.User{}, apperror.NewDBError("failed to start tx", err)
	}
	defer tx.Rollback()

	const insertSQL = `INSERT INTO users (id, name, email, phone, cpf, password_hash, profile, created_at, updated_at)
	                   VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

	_, err = tx.ExecContext(ctxTimeout, insertSQL,
		user.ID,
		user.Name,
		user.Email,
		user.Phone,
		user.CPF,
		user.PasswordHash,
		user.Profile,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, apperror.NewDBError("failed to insert user", err)
	}

	const linkSQL = `INSERT INTO user_authorities (user_id, authority_id) VALUES ($1, $2)`
	for _, a := range user.Authorities {
		if _, err := tx.ExecContext(ctxTimeout, linkSQL, user.ID, a.ID); err != nil {
			return domain.User{}, apperror.NewDBError("failed to link authority", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.User{}, apperror.NewDBError("failed to commit tx", err)
	}

	r.logger.Info("Usuário salvo no repositório.", map[string]interface{}{"user_id": user.ID, "email": user.Email})
	return user, nil
}

// FindByID busca um usuário pelo ID, com as authorities carregadas.
func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	user, err := scanUser(r.DB.QueryRowContext(ctxTimeout, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return domain.User{}, apperror.NewNotFoundError("User not found: " + id)
	}
	if err != nil {
		return domain.User{}, apperror.NewDBError("failed to find user by id", err)
	}

	if user.Authorities, err = r.loadAuthorities(ctxTimeout, user.ID); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// FindByEmail busca um usuário pelo email, com as authorities carregadas.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	user, err := scanUser(r.DB.QueryRowContext(ctxTimeout, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email))
	if err == sql.ErrNoRows {
		return domain.User{}, apperror.NewNotFoundError("User not found: " + email)
	}
	if err != nil {
		return domain.User{}, apperror.NewDBError("failed to find user by email", err)
	}

	if user.Authorities, err = r.loadAuthorities(ctxTimeout, user.ID); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// FindByProfile lista os usuários com o perfil informado.
// Usado pelo fluxo de notificação para achar os donos.
func (r *UserRepository) FindByProfile(ctx context.Context, profile domain.UserProfile) ([]domain.User, error) {
	return r.queryUsers(ctx, `SELECT `+userColumns+` FROM users WHERE profile = $1 ORDER BY name`, profile)
}

// FindAll lista todos os usuários.
func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	return r.queryUsers(ctx, `SELECT `+userColumns+` FROM users ORDER BY name`)
}

// FindByFilters executa a busca multi-campo por composição de predicados.
// Campo omitido casa com tudo; strings são comparadas case-insensitively.
func (r *UserRepository) FindByFilters(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	var (
		where []string
		args  []interface{}
	)

	like := func(column, value string) {
		args = append(args, "%"+strings.ToLower(value)+"%")
		where = append(where, fmt.Sprintf("LOWER(%s) LIKE $%d", column, len(args)))
	}

	if filter.Name != "" {
		like("name", filter.Name)
	}
	if filter.Email != "" {
		like("email", filter.Email)
	}
	if filter.Phone != "" {
		like("phone", filter.Phone)
	}
	if filter.CPF != "" {
		like("cpf", filter.CPF)
	}
	if filter.Profile != "" {
		args = append(args, filter.Profile)
		where = append(where, fmt.Sprintf("profile = $%d", len(args)))
	}

	query := `SELECT ` + userColumns + ` FROM users`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY name"

	return r.queryUsers(ctx, query, args...)
}

// Update sobrescreve todos os campos do usuário e refaz o vínculo de authority.
func (r *UserRepository) Update(ctx context.Context, user domain.User) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.User{}, apperror.NewDBError("failed to start tx", err)
	}
	defer tx.Rollback()

	const updateSQL = `
		UPDATE users
		SET name = $1, email = $2, phone = $3, cpf = $4, password_hash = $5, profile = $6, updated_at = $7
		WHERE id = $8`

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctxTimeout, updateSQL,
		user.Name,
		user.Email,
		user.Phone,
		user.CPF,
		user.PasswordHash,
		user.Profile,
		now,
		user.ID,
	)
	if err != nil {
		return domain.User{}, apperror.NewDBError("failed to update user", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.User{}, apperror.NewDBError("failed to check affected rows", err)
	}
	if rowsAffected == 0 {
		return domain.User{}, apperror.NewNotFoundError("User not found: " + user.ID)
	}

	// Refaz o vínculo N:N (o perfil pode ter mudado).
	if _, err := tx.ExecContext(ctxTimeout, `DELETE FROM user_authorities WHERE user_id = $1`, user.ID); err != nil {
		return domain.User{}, apperror.NewDBError("failed to unlink authorities", err)
	}
	const linkSQL = `INSERT INTO user_authorities (user_id, authority_id) VALUES ($1, $2)`
	for _, a := range user.Authorities {
		if _, err := tx.ExecContext(ctxTimeout, linkSQL, user.ID, a.ID); err != nil {
			return domain.User{}, apperror.NewDBError("failed to link authority", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.User{}, apperror.NewDBError("failed to commit tx", err)
	}

	user.UpdatedAt = now
	return user, nil
}

// Delete remove o usuário (os vínculos de authority caem por cascade).
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDBError("failed to delete user", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("failed to check affected rows", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFoundError("User not found: " + id)
	}
	return nil
}

func (r *UserRepository) queryUsers(ctx context.Context, query string, args ...interface{}) ([]domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		return nil, apperror.NewDBError("failed to query users", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, apperror.NewDBError("failed to scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate users", err)
	}
	return users, nil
}

// loadAuthorities carrega os papéis vinculados ao usuário.
func (r *UserRepository) loadAuthorities(ctx context.Context, userID string) ([]domain.Authority, error) {
	const query = `
		SELECT a.id, a.name
		FROM authorities a
		JOIN user_authorities ua ON ua.authority_id = a.id
		WHERE ua.user_id = $1`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, apperror.NewDBError("failed to load authorities", err)
	}
	defer rows.Close()

	var authorities []domain.Authority
	for rows.Next() {
		var a domain.Authority
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, apperror.NewDBError("failed to scan authority", err)
		}
		authorities = append(authorities, a)
	}
	return authorities, rows.Err()
}
