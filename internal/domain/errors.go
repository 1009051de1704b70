package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrUserNotFound    = errors.New("usuario no encontrado")
	ErrOrderNotFound   = errors.New("orden de trabajo no encontrada")
	ErrLoginTaken      = errors.New("el nombre de usuario ya está registrado")
	ErrEmailTaken      = errors.New("el email ya está registrado")
	ErrDuplicate       = errors.New("recurso duplicado")
	ErrUnauthorized    = errors.New("no autorizado")
	ErrForbidden       = errors.New("acceso denegado")
	ErrConflict        = errors.New("conflicto con el estado actual")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrInactiveAccount = errors.New("cuenta inactiva")
)
