package entity

import "time"

// Report es el informe técnico firmado de una orden cerrada. A lo sumo uno
// por orden (unicidad sobre OrderID) e inmutable una vez creado: un segundo
// intento de creación es un conflicto, nunca una sobreescritura.
type Report struct {
	ID           string
	OrderID      string
	GeneratedBy  string
	SignatureRef *string
	Observations *string
	CreatedAt    time.Time
}
