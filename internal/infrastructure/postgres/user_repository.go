package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, login_name, display_name, email, password_hash, role, active, created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	db querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(db querier) *UserRepo {
	return &UserRepo{db: db}
}

// Create persiste un nuevo usuario. Un login o email duplicado se traduce al
// error de dominio correspondiente según el constraint violado.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, login_name, display_name, email, password_hash, role, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.LoginName, user.DisplayName, user.Email, user.PasswordHash,
		string(user.Role), user.Active, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			if constraintName(err) == "users_email_key" {
				return domain.ErrEmailTaken
			}
			return domain.ErrLoginTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID. (nil, nil) si no existe.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, id), "get user by id")
}

// GetByLoginName obtiene un usuario por login exacto (sensible a mayúsculas).
func (r *UserRepo) GetByLoginName(ctx context.Context, loginName string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE login_name = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, loginName), "get user by login")
}

// FindActiveByLoginName busca por login dentro de un rol, solo cuentas activas.
func (r *UserRepo) FindActiveByLoginName(ctx context.Context, loginName string, role entity.Role) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE login_name = $1 AND role = $2 AND active`
	return r.scanOne(r.db.QueryRow(ctx, query, loginName, string(role)), "find active by login")
}

// FindActiveByDisplayName busca por nombre mostrado exacto dentro de un rol,
// solo cuentas activas. Ante homónimos devuelve el más antiguo.
func (r *UserRepo) FindActiveByDisplayName(ctx context.Context, displayName string, role entity.Role) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		WHERE display_name = $1 AND role = $2 AND active
		ORDER BY created_at ASC LIMIT 1`
	return r.scanOne(r.db.QueryRow(ctx, query, displayName, string(role)), "find active by name")
}

// Update actualiza un usuario.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users SET display_name = $2, email = $3, password_hash = $4, role = $5, active = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.DisplayName, user.Email, user.PasswordHash, string(user.Role), user.Active, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// List lista usuarios con paginación; onlyActive aplica el predicado único de
// cuentas activas.
func (r *UserRepo) List(ctx context.Context, onlyActive bool, limit, offset int) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		WHERE ($1 = false OR active)
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, onlyActive, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		var u entity.User
		var role string
		if err := rows.Scan(&u.ID, &u.LoginName, &u.DisplayName, &u.Email, &u.PasswordHash,
			&role, &u.Active, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.Role = entity.Role(role)
		list = append(list, &u)
	}
	return list, rows.Err()
}

func (r *UserRepo) scanOne(row pgx.Row, op string) (*entity.User, error) {
	var u entity.User
	var role string
	err := row.Scan(&u.ID, &u.LoginName, &u.DisplayName, &u.Email, &u.PasswordHash,
		&role, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	u.Role = entity.Role(role)
	return &u, nil
}
