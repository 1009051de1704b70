package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

// ResolveAssignee traduce un identificador humano (login o nombre mostrado) a
// un técnico concreto dentro del pool del rol indicado, solo cuentas activas.
//
// Orden de resolución:
//  1. coincidencia exacta de LoginName — la clave autoritativa y menos ambigua;
//  2. coincidencia exacta de DisplayName;
//  3. si además venía un rawID explícito, se usa tal cual sin validar el rol
//     (vía de escape para IDs ya conocidos).
//
// Si nada resuelve, devuelve ErrInvalidInput nombrando al operario faltante:
// nunca se asigna nil en silencio cuando el llamador suministró un identificador.
func ResolveAssignee(ctx context.Context, users repository.UserRepository, identifier, rawID string, pool entity.Role) (*entity.User, string, error) {
	if identifier != "" {
		u, err := users.FindActiveByLoginName(ctx, identifier, pool)
		if err != nil {
			return nil, "", fmt.Errorf("resolver por login: %w", err)
		}
		if u == nil {
			u, err = users.FindActiveByDisplayName(ctx, identifier, pool)
			if err != nil {
				return nil, "", fmt.Errorf("resolver por nombre: %w", err)
			}
		}
		if u != nil {
			return u, u.ID, nil
		}
	}
	if rawID != "" {
		u, err := users.GetByID(ctx, rawID)
		if err != nil {
			return nil, "", fmt.Errorf("resolver por id: %w", err)
		}
		// El ID explícito se respeta aunque el usuario no esté en el pool;
		// el técnico puede no cargarse si la fila no existe todavía.
		return u, rawID, nil
	}
	if identifier != "" {
		return nil, "", fmt.Errorf("%w: no existe un operario activo %q", domain.ErrInvalidInput, identifier)
	}
	return nil, "", fmt.Errorf("%w: se requiere operator o user_id para asignar", domain.ErrInvalidInput)
}
