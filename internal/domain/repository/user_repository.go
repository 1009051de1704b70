package repository

import (
	"context"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los métodos Get* devuelven (nil, nil) cuando no existe la fila; el caso de
// uso decide si eso es domain.ErrNotFound.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByLoginName(ctx context.Context, loginName string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	List(ctx context.Context, onlyActive bool, limit, offset int) ([]*entity.User, error)
	// FindActiveByLoginName y FindActiveByDisplayName buscan solo cuentas
	// activas dentro de un rol (pool de técnicos para el resolver de asignación).
	FindActiveByLoginName(ctx context.Context, loginName string, role entity.Role) (*entity.User, error)
	FindActiveByDisplayName(ctx context.Context, displayName string, role entity.Role) (*entity.User, error)
}
