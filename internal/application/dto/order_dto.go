package dto

import (
	"encoding/json"
	"time"
)

// CreateOrderRequest entrada para crear una orden de trabajo (siempre nace en pending).
type CreateOrderRequest struct {
	Title         string  `json:"title" validate:"required,min=1,max=300"`
	Description   string  `json:"description" validate:"max=5000"`
	Area          string  `json:"area" validate:"max=200"`
	MachineRef    string  `json:"machine_ref" validate:"max=200"`
	RequesterName string  `json:"requester_name" validate:"max=200"`
	Priority      string  `json:"priority" validate:"omitempty,oneof=low medium high"`
	EquipmentID   *string `json:"equipment_id"`
}

// UpdateOrderRequest parche crudo de campos: nunca avanza el ciclo de vida
// implícitamente. State solo se toca si viene incluido y es un valor válido.
type UpdateOrderRequest struct {
	Title         *string `json:"title" validate:"omitempty,min=1,max=300"`
	Description   *string `json:"description" validate:"omitempty,max=5000"`
	Area          *string `json:"area" validate:"omitempty,max=200"`
	MachineRef    *string `json:"machine_ref" validate:"omitempty,max=200"`
	RequesterName *string `json:"requester_name" validate:"omitempty,max=200"`
	Priority      *string `json:"priority" validate:"omitempty,oneof=low medium high"`
	EquipmentID   *string `json:"equipment_id"`
	AssignedTo    *string `json:"assigned_to"`
	State         *string `json:"state" validate:"omitempty,oneof=pending in_progress completed closed cancelled"`
}

// AssignOrderRequest entrada para asignar: identificador humano (login o
// nombre mostrado) y/o un ID ya conocido como vía de escape.
type AssignOrderRequest struct {
	Operator string `json:"operator" validate:"omitempty,max=200"`
	UserID   string `json:"user_id" validate:"omitempty,uuid"`
}

// FinishOrderRequest entrada para finalizar una orden en ejecución.
// ReportPayload es un documento opaco; solo se valida que sea objeto o null.
type FinishOrderRequest struct {
	WorkPerformed string          `json:"work_performed" validate:"required,min=1,max=5000"`
	ReportPayload json.RawMessage `json:"report_payload"`
}

// EvidenceResponse referencia de adjunto devuelta tras subirlo.
type EvidenceResponse struct {
	Path         string `json:"path"`
	OriginalName string `json:"original_name"`
	MimeType     string `json:"mime_type"`
}

// EvidenceUploadResult resultado por archivo: los fallos se informan de forma
// independiente, los éxitos se conservan.
type EvidenceUploadResult struct {
	OriginalName string            `json:"original_name"`
	Error        string            `json:"error,omitempty"`
	Evidence     *EvidenceResponse `json:"evidence,omitempty"`
}

// OrderResponse salida de una orden de trabajo.
type OrderResponse struct {
	ID            string             `json:"id"`
	Title         string             `json:"title"`
	Description   string             `json:"description,omitempty"`
	Area          string             `json:"area,omitempty"`
	MachineRef    string             `json:"machine_ref,omitempty"`
	RequesterName string             `json:"requester_name,omitempty"`
	State         string             `json:"state"`
	Priority      string             `json:"priority"`
	EquipmentID   *string            `json:"equipment_id,omitempty"`
	CreatedBy     *string            `json:"created_by,omitempty"`
	AssignedTo    *string            `json:"assigned_to,omitempty"`
	WorkPerformed string             `json:"work_performed,omitempty"`
	ReportPayload json.RawMessage    `json:"report_payload,omitempty"`
	StartedAt     *time.Time         `json:"started_at,omitempty"`
	ClosedAt      *time.Time         `json:"closed_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	Evidence      []EvidenceResponse `json:"evidence,omitempty"`
}

// ListOrdersRequest filtros de listado.
type ListOrdersRequest struct {
	State      string `query:"state" validate:"omitempty,oneof=pending in_progress completed closed cancelled"`
	Priority   string `query:"priority" validate:"omitempty,oneof=low medium high"`
	AssignedTo string `query:"assigned_to" validate:"omitempty,uuid"`
	PageRequest
}
