package entity

import "time"

// User representa un operario, técnico o supervisor de la planta.
// La baja es siempre lógica (Active=false); nunca se borra la fila.
type User struct {
	ID           string
	LoginName    string // único, sensible a mayúsculas (ej. "JPEREZ")
	DisplayName  string
	Email        *string // opcional; único cuando está presente
	PasswordHash string  // bcrypt, nunca en claro después de persistir
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanAuthenticate indica si la cuenta puede iniciar sesión.
// Las cuentas inactivas no autentican ni reciben trabajo nuevo.
func (u *User) CanAuthenticate() bool {
	return u != nil && u.Active
}
