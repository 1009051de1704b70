package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/application/usecase"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

// OrderPDFGenerator proyección de reporte: consume una orden cerrada y su
// informe y produce el documento externo. Solo lee, nunca muta estado.
type OrderPDFGenerator interface {
	GenerateOrderPDF(ctx context.Context, order *entity.WorkOrder, rep *entity.Report, technician *entity.User) ([]byte, error)
}

// ReportUseCase crea y entrega el informe técnico de órdenes cerradas.
// Garantiza que a la proyección solo se le entregan órdenes en estado closed.
type ReportUseCase struct {
	reports   repository.ReportRepository
	orders    repository.WorkOrderRepository
	users     repository.UserRepository
	generator OrderPDFGenerator
}

// NewReportUseCase construye el caso de uso inyectando sus dependencias.
func NewReportUseCase(
	reports repository.ReportRepository,
	orders repository.WorkOrderRepository,
	users repository.UserRepository,
	generator OrderPDFGenerator,
) *ReportUseCase {
	return &ReportUseCase{reports: reports, orders: orders, users: users, generator: generator}
}

// Create genera el informe técnico de una orden cerrada. A lo sumo uno por
// orden: el duplicado es conflicto y el primero queda intacto. Una orden que
// no esté en closed se rechaza nombrando el estado requerido.
func (uc *ReportUseCase) Create(ctx context.Context, actor usecase.Actor, orderID string, in dto.CreateReportRequest) (*dto.ReportResponse, error) {
	order, err := uc.mustGetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.State != entity.StateClosed {
		return nil, fmt.Errorf("%w: el reporte requiere una orden en estado %q, la orden está en %q",
			domain.ErrInvalidInput, entity.StateClosed, order.State)
	}
	if existing, err := uc.reports.GetByOrderID(ctx, order.ID); err != nil {
		return nil, fmt.Errorf("verificar reporte existente: %w", err)
	} else if existing != nil {
		return nil, fmt.Errorf("%w: la orden ya tiene un reporte", domain.ErrDuplicate)
	}
	rep := &entity.Report{
		ID:           uuid.New().String(),
		OrderID:      order.ID,
		GeneratedBy:  actor.ID,
		SignatureRef: in.SignatureRef,
		Observations: in.Observations,
		CreatedAt:    time.Now(),
	}
	// El chequeo previo da el error amable en el caso común; la unicidad real
	// la impone el constraint sobre order_id, así una carrera entre dos
	// creaciones termina en conflicto determinista, nunca en fila doble.
	if err := uc.reports.Create(ctx, rep); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("%w: la orden ya tiene un reporte", domain.ErrDuplicate)
		}
		return nil, fmt.Errorf("crear reporte: %w", err)
	}
	return toReportResponse(rep), nil
}

// Get obtiene el informe de una orden.
func (uc *ReportUseCase) Get(ctx context.Context, orderID string) (*dto.ReportResponse, error) {
	rep, err := uc.reports.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("obtener reporte: %w", err)
	}
	if rep == nil {
		return nil, domain.ErrNotFound
	}
	return toReportResponse(rep), nil
}

// DownloadOrderPDF genera el PDF del informe técnico.
//
// Retorna:
//   - (pdfBytes, filename, nil)   si todo sale bien.
//   - domain.ErrOrderNotFound     si la orden no existe.
//   - domain.ErrNotFound          si la orden aún no tiene reporte.
//   - domain.ErrInvalidInput      si la orden no está en closed.
func (uc *ReportUseCase) DownloadOrderPDF(ctx context.Context, orderID string) (pdfBytes []byte, filename string, err error) {
	order, err := uc.mustGetOrder(ctx, orderID)
	if err != nil {
		return nil, "", err
	}
	if order.State != entity.StateClosed {
		return nil, "", fmt.Errorf("%w: el PDF requiere una orden en estado %q, la orden está en %q",
			domain.ErrInvalidInput, entity.StateClosed, order.State)
	}
	rep, err := uc.reports.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, "", fmt.Errorf("obtener reporte: %w", err)
	}
	if rep == nil {
		return nil, "", domain.ErrNotFound
	}
	var technician *entity.User
	if order.AssignedTo != nil {
		technician, err = uc.users.GetByID(ctx, *order.AssignedTo)
		if err != nil {
			return nil, "", fmt.Errorf("obtener técnico: %w", err)
		}
	}
	pdf, err := uc.generator.GenerateOrderPDF(ctx, order, rep, technician)
	if err != nil {
		return nil, "", fmt.Errorf("generar pdf: %w", err)
	}
	return pdf, fmt.Sprintf("orden-%s.pdf", order.ID), nil
}

func (uc *ReportUseCase) mustGetOrder(ctx context.Context, id string) (*entity.WorkOrder, error) {
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener orden: %w", err)
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func toReportResponse(r *entity.Report) *dto.ReportResponse {
	if r == nil {
		return nil
	}
	return &dto.ReportResponse{
		ID:           r.ID,
		OrderID:      r.OrderID,
		GeneratedBy:  r.GeneratedBy,
		SignatureRef: r.SignatureRef,
		Observations: r.Observations,
		CreatedAt:    r.CreatedAt,
	}
}
