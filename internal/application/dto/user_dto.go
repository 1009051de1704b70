package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
// Si LoginName viene vacío se deriva del DisplayName (ej. "Juan Pérez" → "JPEREZ").
type CreateUserRequest struct {
	LoginName   string  `json:"login_name" validate:"omitempty,min=2,max=50"`
	DisplayName string  `json:"display_name" validate:"required,min=1,max=200"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Password    string  `json:"password" validate:"required,min=8"`
	Role        string  `json:"role" validate:"required,oneof=PRODUCTION_OPERATOR MAINTENANCE_OPERATOR MAINTENANCE_SUPERVISOR SUPER_USER"`
}

// UpdateUserRequest parche parcial de un usuario; los punteros nil no tocan el campo.
type UpdateUserRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,min=1,max=200"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Password    *string `json:"password" validate:"omitempty,min=8"`
	Role        *string `json:"role" validate:"omitempty,oneof=PRODUCTION_OPERATOR MAINTENANCE_OPERATOR MAINTENANCE_SUPERVISOR SUPER_USER"`
	Active      *bool   `json:"active"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID          string    `json:"id"`
	LoginName   string    `json:"login_name"`
	DisplayName string    `json:"display_name"`
	Email       *string   `json:"email,omitempty"`
	Role        string    `json:"role"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	LoginName string `json:"login_name" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
