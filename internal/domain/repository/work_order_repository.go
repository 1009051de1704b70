package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// OrderFilter filtros de listado de órdenes.
type OrderFilter struct {
	State      *entity.OrderState
	Priority   *entity.Priority
	AssignedTo *string
	Limit      int
	Offset     int
}

// WorkOrderRepository define el puerto de persistencia para WorkOrder.
type WorkOrderRepository interface {
	Create(ctx context.Context, o *entity.WorkOrder) error
	GetByID(ctx context.Context, id string) (*entity.WorkOrder, error)
	// Update persiste un parche de campos ya aplicado a la entidad.
	Update(ctx context.Context, o *entity.WorkOrder) error
	// UpdateTransition persiste una transición de estado solo si la fila sigue
	// en el estado from (guarda y mutación contra la misma instantánea, vía
	// UPDATE condicional). También sirve para mutaciones que preservan el
	// estado, como la asignación, pasando from = estado observado. Devuelve
	// false si otro escritor ganó la carrera; el llamador relee y responde
	// conflicto con el estado real.
	UpdateTransition(ctx context.Context, o *entity.WorkOrder, from entity.OrderState) (bool, error)
	List(ctx context.Context, f OrderFilter) ([]*entity.WorkOrder, error)
	Delete(ctx context.Context, id string) error
	AppendEvidence(ctx context.Context, orderID string, f entity.EvidenceFile, now time.Time) error
}
