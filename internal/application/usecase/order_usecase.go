package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

// Actor identidad autenticada que invoca una operación (del token JWT).
type Actor struct {
	ID   string
	Role entity.Role
}

// OrderUseCase es el motor del ciclo de vida de las órdenes de trabajo:
// valida guardas de transición contra una única lectura consistente del
// estado y persiste con UPDATE condicional para que el perdedor de una
// carrera observe un conflicto en lugar de pisar al ganador.
type OrderUseCase struct {
	orders   repository.WorkOrderRepository
	users    repository.UserRepository
	reports  repository.ReportRepository
	storage  EvidenceStorage
	notifier AssignmentNotifier // puede ser nil: notificaciones deshabilitadas
	tx       TxRunner
}

// NewOrderUseCase construye el motor con sus puertos.
func NewOrderUseCase(
	orders repository.WorkOrderRepository,
	users repository.UserRepository,
	reports repository.ReportRepository,
	storage EvidenceStorage,
	notifier AssignmentNotifier,
	tx TxRunner,
) *OrderUseCase {
	return &OrderUseCase{
		orders:   orders,
		users:    users,
		reports:  reports,
		storage:  storage,
		notifier: notifier,
		tx:       tx,
	}
}

// Create crea una orden en pending. Cualquier actor autenticado puede
// solicitarla; nace sin asignar y con CreatedBy = actor.
func (uc *OrderUseCase) Create(ctx context.Context, actor Actor, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	priority := entity.PriorityMedium
	if in.Priority != "" {
		priority = entity.Priority(in.Priority)
		if !priority.Valid() {
			return nil, fmt.Errorf("%w: prioridad %q fuera de rango", domain.ErrInvalidInput, in.Priority)
		}
	}
	now := time.Now()
	createdBy := actor.ID
	order := &entity.WorkOrder{
		ID:            uuid.New().String(),
		Title:         in.Title,
		Description:   in.Description,
		Area:          in.Area,
		MachineRef:    in.MachineRef,
		RequesterName: in.RequesterName,
		State:         entity.StatePending,
		Priority:      priority,
		EquipmentID:   in.EquipmentID,
		CreatedBy:     &createdBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("crear orden: %w", err)
	}
	return toOrderResponse(order), nil
}

// Get obtiene una orden por ID.
func (uc *OrderUseCase) Get(ctx context.Context, id string) (*dto.OrderResponse, error) {
	order, err := uc.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// List lista órdenes con filtros de estado, prioridad y asignación.
func (uc *OrderUseCase) List(ctx context.Context, in dto.ListOrdersRequest) ([]*dto.OrderResponse, error) {
	in.DefaultPage()
	f := repository.OrderFilter{Limit: in.Limit, Offset: in.Offset}
	if in.State != "" {
		s := entity.OrderState(in.State)
		f.State = &s
	}
	if in.Priority != "" {
		p := entity.Priority(in.Priority)
		f.Priority = &p
	}
	if in.AssignedTo != "" {
		f.AssignedTo = &in.AssignedTo
	}
	orders, err := uc.orders.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("listar órdenes: %w", err)
	}
	out := make([]*dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out, nil
}

// Assign asigna un técnico resuelto por el identificador humano (o el ID
// explícito). El estado no cambia, pero la escritura sigue condicionada al
// estado observado: si un finish o cancel concurrente gana la carrera, el
// asignador recibe conflicto en vez de revertir la transición ya confirmada.
func (uc *OrderUseCase) Assign(ctx context.Context, actor Actor, orderID string, in dto.AssignOrderRequest) (*dto.OrderResponse, error) {
	order, err := uc.mustGet(ctx, orderID)
	if err != nil {
		return nil, err
	}
	technician, targetID, err := ResolveAssignee(ctx, uc.users, in.Operator, in.UserID, entity.RoleMaintenanceOperator)
	if err != nil {
		return nil, err
	}
	from := order.State
	if err := order.AssignTo(targetID, time.Now()); err != nil {
		return nil, err
	}
	resp, err := uc.commitTransition(ctx, order, from, "asignar")
	if err != nil {
		return nil, err
	}
	uc.notifyAssignment(ctx, technician, order)
	return resp, nil
}

// Start arranca una orden pendiente. La persistencia es condicional al estado
// pending: ante dos start concurrentes, el segundo relee y recibe el conflicto
// con el estado real.
func (uc *OrderUseCase) Start(ctx context.Context, actor Actor, orderID string) (*dto.OrderResponse, error) {
	order, err := uc.mustGet(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Start(actor.ID, time.Now()); err != nil {
		return nil, err
	}
	return uc.commitTransition(ctx, order, entity.StatePending, "iniciar")
}

// Finish finaliza una orden en ejecución guardando el trabajo realizado y la
// carga de reporte textual (documento opaco: objeto JSON o null).
func (uc *OrderUseCase) Finish(ctx context.Context, actor Actor, orderID string, in dto.FinishOrderRequest) (*dto.OrderResponse, error) {
	payload, err := normalizePayload(in.ReportPayload)
	if err != nil {
		return nil, err
	}
	order, err := uc.mustGet(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Finish(in.WorkPerformed, payload, time.Now()); err != nil {
		return nil, err
	}
	return uc.commitTransition(ctx, order, entity.StateInProgress, "finalizar")
}

// Close cierra una orden completada, habilitando la creación del reporte.
func (uc *OrderUseCase) Close(ctx context.Context, actor Actor, orderID string) (*dto.OrderResponse, error) {
	order, err := uc.mustGet(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Close(time.Now()); err != nil {
		return nil, err
	}
	return uc.commitTransition(ctx, order, entity.StateCompleted, "cerrar")
}

// Cancel cancela una orden pendiente o en ejecución. Terminal.
func (uc *OrderUseCase) Cancel(ctx context.Context, actor Actor, orderID string) (*dto.OrderResponse, error) {
	order, err := uc.mustGet(ctx, orderID)
	if err != nil {
		return nil, err
	}
	from := order.State
	if err := order.Cancel(time.Now()); err != nil {
		return nil, err
	}
	return uc.commitTransition(ctx, order, from, "cancelar")
}

// Update aplica un parche crudo de campos. Nunca avanza el ciclo de vida de
// forma implícita: el estado solo cambia si viene incluido con un valor válido.
// Toda la validación ocurre antes de mutar; ante error la entidad queda intacta.
func (uc *OrderUseCase) Update(ctx context.Context, actor Actor, orderID string, in dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	if in.Priority != nil && !entity.Priority(*in.Priority).Valid() {
		return nil, fmt.Errorf("%w: prioridad %q fuera de rango", domain.ErrInvalidInput, *in.Priority)
	}
	if in.State != nil && !entity.OrderState(*in.State).Valid() {
		return nil, fmt.Errorf("%w: estado %q fuera de rango", domain.ErrInvalidInput, *in.State)
	}
	order, err := uc.mustGet(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		order.Title = *in.Title
	}
	if in.Description != nil {
		order.Description = *in.Description
	}
	if in.Area != nil {
		order.Area = *in.Area
	}
	if in.MachineRef != nil {
		order.MachineRef = *in.MachineRef
	}
	if in.RequesterName != nil {
		order.RequesterName = *in.RequesterName
	}
	if in.Priority != nil {
		order.Priority = entity.Priority(*in.Priority)
	}
	if in.EquipmentID != nil {
		order.EquipmentID = in.EquipmentID
	}
	if in.AssignedTo != nil {
		if *in.AssignedTo == "" {
			order.AssignedTo = nil
		} else {
			order.AssignedTo = in.AssignedTo
		}
	}
	if in.State != nil {
		order.State = entity.OrderState(*in.State)
	}
	order.UpdatedAt = time.Now()
	if err := uc.orders.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("actualizar orden: %w", err)
	}
	return toOrderResponse(order), nil
}

// Delete es el borrado administrativo: elimina orden y reporte en una misma
// transacción y después limpia el almacenamiento de evidencias.
func (uc *OrderUseCase) Delete(ctx context.Context, actor Actor, orderID string) error {
	if _, err := uc.mustGet(ctx, orderID); err != nil {
		return err
	}
	err := uc.tx.Run(ctx, func(orders repository.WorkOrderRepository, reports repository.ReportRepository) error {
		if err := reports.DeleteByOrderID(ctx, orderID); err != nil {
			return err
		}
		return orders.Delete(ctx, orderID)
	})
	if err != nil {
		return fmt.Errorf("eliminar orden: %w", err)
	}
	if err := uc.storage.RemoveAll(ctx, orderID); err != nil {
		// La fila ya no existe; los archivos huérfanos solo se registran.
		log.Warn().Err(err).Str("order_id", orderID).Msg("no se pudo limpiar evidencias")
	}
	return nil
}

// EvidenceUpload adjunto pendiente de almacenar.
type EvidenceUpload struct {
	Content      []byte
	OriginalName string
	MimeType     string
}

// AddEvidence almacena cada adjunto de forma independiente y añade la
// referencia a la orden. Los fallos por archivo se informan por separado;
// no hay garantía de orden entre subidas concurrentes.
func (uc *OrderUseCase) AddEvidence(ctx context.Context, actor Actor, orderID string, files []EvidenceUpload) ([]dto.EvidenceUploadResult, error) {
	order, err := uc.mustGet(ctx, orderID)
	if err != nil {
		return nil, err
	}
	results := make([]dto.EvidenceUploadResult, 0, len(files))
	for _, f := range files {
		res := dto.EvidenceUploadResult{OriginalName: f.OriginalName}
		ref, err := uc.storage.Store(ctx, order.ID, f.Content, f.OriginalName, f.MimeType)
		if err != nil {
			res.Error = "no se pudo almacenar el archivo"
			log.Error().Err(err).Str("order_id", order.ID).Str("file", f.OriginalName).Msg("almacenar evidencia")
			results = append(results, res)
			continue
		}
		if err := uc.orders.AppendEvidence(ctx, order.ID, ref, time.Now()); err != nil {
			res.Error = "no se pudo registrar la evidencia"
			log.Error().Err(err).Str("order_id", order.ID).Str("file", f.OriginalName).Msg("registrar evidencia")
			results = append(results, res)
			continue
		}
		res.Evidence = &dto.EvidenceResponse{Path: ref.Path, OriginalName: ref.OriginalName, MimeType: ref.MimeType}
		results = append(results, res)
	}
	return results, nil
}

// mustGet carga la orden o devuelve ErrOrderNotFound.
func (uc *OrderUseCase) mustGet(ctx context.Context, id string) (*entity.WorkOrder, error) {
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener orden: %w", err)
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

// commitTransition persiste una transición ya validada en memoria. Si la fila
// cambió de estado entre la lectura y el UPDATE condicional, relee y devuelve
// el conflicto nombrando el estado real.
func (uc *OrderUseCase) commitTransition(ctx context.Context, order *entity.WorkOrder, from entity.OrderState, op string) (*dto.OrderResponse, error) {
	ok, err := uc.orders.UpdateTransition(ctx, order, from)
	if err != nil {
		return nil, fmt.Errorf("%s orden: %w", op, err)
	}
	if !ok {
		current, err := uc.orders.GetByID(ctx, order.ID)
		if err != nil || current == nil {
			return nil, fmt.Errorf("%w: la orden cambió de estado durante la operación", domain.ErrConflict)
		}
		return nil, fmt.Errorf("%w: no se puede %s una orden en estado %q", domain.ErrConflict, op, current.State)
	}
	return toOrderResponse(order), nil
}

// notifyAssignment avisa al técnico por correo. Best-effort.
func (uc *OrderUseCase) notifyAssignment(ctx context.Context, technician *entity.User, order *entity.WorkOrder) {
	if uc.notifier == nil || technician == nil || technician.Email == nil {
		return
	}
	if err := uc.notifier.NotifyAssignment(ctx, technician, order); err != nil {
		log.Warn().Err(err).Str("order_id", order.ID).Str("technician", technician.LoginName).Msg("notificación de asignación fallida")
	}
}

// normalizePayload exige que la carga de reporte sea un objeto JSON o null.
// El contenido interno no se valida: es un documento opaco para el motor.
func normalizePayload(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] != '{' || !json.Valid(trimmed) {
		return nil, fmt.Errorf("%w: report_payload debe ser un objeto JSON", domain.ErrInvalidInput)
	}
	return trimmed, nil
}

func toOrderResponse(o *entity.WorkOrder) *dto.OrderResponse {
	if o == nil {
		return nil
	}
	resp := &dto.OrderResponse{
		ID:            o.ID,
		Title:         o.Title,
		Description:   o.Description,
		Area:          o.Area,
		MachineRef:    o.MachineRef,
		RequesterName: o.RequesterName,
		State:         string(o.State),
		Priority:      string(o.Priority),
		EquipmentID:   o.EquipmentID,
		CreatedBy:     o.CreatedBy,
		AssignedTo:    o.AssignedTo,
		WorkPerformed: o.WorkPerformed,
		ReportPayload: o.ReportPayload,
		StartedAt:     o.StartedAt,
		ClosedAt:      o.ClosedAt,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	for _, e := range o.Evidence {
		resp.Evidence = append(resp.Evidence, dto.EvidenceResponse{
			Path: e.Path, OriginalName: e.OriginalName, MimeType: e.MimeType,
		})
	}
	return resp
}
