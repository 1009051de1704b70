package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/Mantenimiento-api/internal/domain"
)

// Estados del ciclo de vida de una orden de trabajo.
// pending → in_progress → completed → closed; cancelled es terminal
// desde pending o in_progress. Los estados terminales no tienen salida.
type OrderState string

const (
	StatePending    OrderState = "pending"
	StateInProgress OrderState = "in_progress"
	StateCompleted  OrderState = "completed"
	StateClosed     OrderState = "closed"
	StateCancelled  OrderState = "cancelled"
)

// Valid indica si el valor pertenece al enum de estados.
func (s OrderState) Valid() bool {
	switch s {
	case StatePending, StateInProgress, StateCompleted, StateClosed, StateCancelled:
		return true
	}
	return false
}

// Terminal indica si el estado no admite más transiciones de ejecución.
func (s OrderState) Terminal() bool {
	return s == StateClosed || s == StateCancelled
}

// Prioridades de una orden.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid indica si el valor pertenece al enum de prioridades.
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// EvidenceFile referencia a un adjunto almacenado por el colaborador de
// archivos. La orden solo guarda la referencia, nunca inspecciona el contenido.
type EvidenceFile struct {
	Path         string `json:"path"`
	OriginalName string `json:"original_name"`
	MimeType     string `json:"mime_type"`
}

// WorkOrder es el agregado central: una solicitud de mantenimiento con su
// ciclo de vida, asignación y carga de reporte. Se muta exclusivamente a
// través de las transiciones definidas abajo más el parche de campos Update.
type WorkOrder struct {
	ID            string
	Title         string
	Description   string
	Area          string // campos estructurados; no se parsean de Description
	MachineRef    string
	RequesterName string
	State         OrderState
	Priority      Priority
	EquipmentID   *string
	CreatedBy     *string
	AssignedTo    *string
	WorkPerformed string
	// ReportPayload documento estructurado opaco (operaciones planificadas,
	// repuestos, firmas...). El motor lo guarda y devuelve textual, jamás
	// interpreta su forma interna.
	ReportPayload json.RawMessage
	StartedAt     *time.Time
	ClosedAt      *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Evidence      []EvidenceFile
}

// conflictErr construye un ErrConflict que siempre nombra el estado actual,
// para que el llamador pueda decidir si reintenta.
func conflictErr(op string, current OrderState) error {
	return fmt.Errorf("%w: no se puede %s una orden en estado %q", domain.ErrConflict, op, current)
}

// CanAssign valida la guarda de la transición assign: reasignar trabajo
// completado, cerrado o cancelado no tiene sentido y falla explícitamente.
func (o *WorkOrder) CanAssign() error {
	switch o.State {
	case StateCompleted, StateClosed, StateCancelled:
		return conflictErr("asignar", o.State)
	}
	return nil
}

// AssignTo establece el técnico asignado sin tocar el estado.
func (o *WorkOrder) AssignTo(userID string, now time.Time) error {
	if err := o.CanAssign(); err != nil {
		return err
	}
	o.AssignedTo = &userID
	o.UpdatedAt = now
	return nil
}

// Start pasa la orden de pending a in_progress. Si no tiene técnico asignado,
// el actor la reclama (auto-asignación de primer toque); si ya lo tiene, el
// actor es solo informativo y la asignación existente no se pisa.
// Llamar Start fuera de pending es ErrConflict, nunca un no-op silencioso:
// así un doble start concurrente se rechaza en vez de ignorarse.
func (o *WorkOrder) Start(actorID string, now time.Time) error {
	if o.State != StatePending {
		return conflictErr("iniciar", o.State)
	}
	o.State = StateInProgress
	o.StartedAt = &now
	if o.AssignedTo == nil && actorID != "" {
		o.AssignedTo = &actorID
	}
	o.UpdatedAt = now
	return nil
}

// Finish pasa la orden de in_progress a completed, registrando el trabajo
// realizado y la carga de reporte textual. Fuera de in_progress es ErrConflict.
func (o *WorkOrder) Finish(workPerformed string, payload json.RawMessage, now time.Time) error {
	if o.State != StateInProgress {
		return conflictErr("finalizar", o.State)
	}
	o.State = StateCompleted
	o.WorkPerformed = workPerformed
	o.ReportPayload = payload
	o.ClosedAt = &now
	o.UpdatedAt = now
	return nil
}

// Close pasa la orden de completed a closed, habilitando la creación del
// reporte técnico. Lo dispara el flujo de cierre, no la ejecución del trabajo.
func (o *WorkOrder) Close(now time.Time) error {
	if o.State != StateCompleted {
		return conflictErr("cerrar", o.State)
	}
	o.State = StateClosed
	o.UpdatedAt = now
	return nil
}

// Cancel marca la orden como cancelada. Solo tiene sentido antes de terminar
// el trabajo; una orden completada, cerrada o ya cancelada no se cancela.
func (o *WorkOrder) Cancel(now time.Time) error {
	if o.State != StatePending && o.State != StateInProgress {
		return conflictErr("cancelar", o.State)
	}
	o.State = StateCancelled
	o.UpdatedAt = now
	return nil
}

// AppendEvidence añade una referencia de adjunto. La lista es append-only.
func (o *WorkOrder) AppendEvidence(f EvidenceFile, now time.Time) {
	o.Evidence = append(o.Evidence, f)
	o.UpdatedAt = now
}
