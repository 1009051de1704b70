package dto

import "time"

// CreateReportRequest entrada para generar el informe técnico de una orden cerrada.
type CreateReportRequest struct {
	SignatureRef *string `json:"signature_ref" validate:"omitempty,max=500"`
	Observations *string `json:"observations" validate:"omitempty,max=5000"`
}

// ReportResponse salida de un informe técnico.
type ReportResponse struct {
	ID           string    `json:"id"`
	OrderID      string    `json:"order_id"`
	GeneratedBy  string    `json:"generated_by"`
	SignatureRef *string   `json:"signature_ref,omitempty"`
	Observations *string   `json:"observations,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
