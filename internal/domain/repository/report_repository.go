package repository

import (
	"context"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// ReportRepository define el puerto de persistencia para Report.
// Create devuelve domain.ErrDuplicate si ya existe un reporte para la orden
// (constraint único sobre order_id); no hay operación de actualización porque
// el reporte es inmutable.
type ReportRepository interface {
	Create(ctx context.Context, r *entity.Report) error
	GetByOrderID(ctx context.Context, orderID string) (*entity.Report, error)
	DeleteByOrderID(ctx context.Context, orderID string) error
}
