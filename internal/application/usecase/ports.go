package usecase

import (
	"context"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

// EvidenceStorage colaborador externo de archivos: el núcleo solo registra la
// referencia que devuelve, nunca inspecciona el contenido del archivo.
type EvidenceStorage interface {
	Store(ctx context.Context, orderID string, content []byte, originalName, mimeType string) (entity.EvidenceFile, error)
	RemoveAll(ctx context.Context, orderID string) error
}

// AssignmentNotifier avisa al técnico cuando se le asigna una orden.
// Es best-effort: un fallo se registra y jamás revierte la transición.
type AssignmentNotifier interface {
	NotifyAssignment(ctx context.Context, technician *entity.User, order *entity.WorkOrder) error
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL, con repos
// atados a la tx. Se usa en el borrado administrativo para que orden y reporte
// caigan juntos o no caiga ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(orders repository.WorkOrderRepository, reports repository.ReportRepository) error) error
}
