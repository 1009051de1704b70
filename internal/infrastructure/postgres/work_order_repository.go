package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

var _ repository.WorkOrderRepository = (*WorkOrderRepo)(nil)

const orderColumns = `id, title, description, area, machine_ref, requester_name, state, priority,
	equipment_id, created_by, assigned_to, work_performed, report_payload, evidence,
	started_at, closed_at, created_at, updated_at`

// WorkOrderRepo implementación del puerto WorkOrderRepository sobre PostgreSQL.
// Las evidencias viven como arreglo JSONB dentro de la fila: la orden es la
// raíz del agregado y borra sus dependientes con ella.
type WorkOrderRepo struct {
	db querier
}

// NewWorkOrderRepository construye el adaptador de persistencia para órdenes.
func NewWorkOrderRepository(db querier) *WorkOrderRepo {
	return &WorkOrderRepo{db: db}
}

// Create persiste una orden nueva.
func (r *WorkOrderRepo) Create(ctx context.Context, o *entity.WorkOrder) error {
	query := `
		INSERT INTO work_orders (id, title, description, area, machine_ref, requester_name, state, priority,
			equipment_id, created_by, assigned_to, work_performed, report_payload, evidence,
			started_at, closed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	evidence, err := marshalEvidence(o.Evidence)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, query,
		o.ID, o.Title, o.Description, o.Area, o.MachineRef, o.RequesterName,
		string(o.State), string(o.Priority), o.EquipmentID, o.CreatedBy, o.AssignedTo,
		o.WorkPerformed, nullableJSON(o.ReportPayload), evidence,
		o.StartedAt, o.ClosedAt, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert work order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID. (nil, nil) si no existe.
func (r *WorkOrderRepo) GetByID(ctx context.Context, id string) (*entity.WorkOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM work_orders WHERE id = $1`
	return scanOrder(r.db.QueryRow(ctx, query, id), "get work order by id")
}

// Update persiste el parche crudo de campos (sin condición de estado).
func (r *WorkOrderRepo) Update(ctx context.Context, o *entity.WorkOrder) error {
	query := `
		UPDATE work_orders SET title = $2, description = $3, area = $4, machine_ref = $5,
			requester_name = $6, state = $7, priority = $8, equipment_id = $9,
			assigned_to = $10, work_performed = $11, report_payload = $12,
			started_at = $13, closed_at = $14, updated_at = $15
		WHERE id = $1`
	_, err := r.db.Exec(ctx, query,
		o.ID, o.Title, o.Description, o.Area, o.MachineRef, o.RequesterName,
		string(o.State), string(o.Priority), o.EquipmentID, o.AssignedTo,
		o.WorkPerformed, nullableJSON(o.ReportPayload), o.StartedAt, o.ClosedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update work order: %w", err)
	}
	return nil
}

// UpdateTransition persiste la transición solo si la fila sigue en el estado
// from: la cláusula WHERE sobre state hace de guarda y mutación contra la
// misma instantánea. Devuelve false cuando otro escritor ganó la carrera.
func (r *WorkOrderRepo) UpdateTransition(ctx context.Context, o *entity.WorkOrder, from entity.OrderState) (bool, error) {
	query := `
		UPDATE work_orders SET state = $3, assigned_to = $4, work_performed = $5,
			report_payload = $6, started_at = $7, closed_at = $8, updated_at = $9
		WHERE id = $1 AND state = $2`
	tag, err := r.db.Exec(ctx, query,
		o.ID, string(from), string(o.State), o.AssignedTo, o.WorkPerformed,
		nullableJSON(o.ReportPayload), o.StartedAt, o.ClosedAt, o.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("transition work order: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// List lista órdenes aplicando los filtros presentes.
func (r *WorkOrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.WorkOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM work_orders
		WHERE ($1::text IS NULL OR state = $1)
		  AND ($2::text IS NULL OR priority = $2)
		  AND ($3::text IS NULL OR assigned_to = $3)
		ORDER BY created_at DESC LIMIT $4 OFFSET $5`
	var state, priority *string
	if f.State != nil {
		s := string(*f.State)
		state = &s
	}
	if f.Priority != nil {
		p := string(*f.Priority)
		priority = &p
	}
	rows, err := r.db.Query(ctx, query, state, priority, f.AssignedTo, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list work orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.WorkOrder
	for rows.Next() {
		o, err := scanOrderRow(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// Delete elimina la fila de la orden. El reporte asociado cae en la misma
// transacción (TxRunner) y las evidencias viven dentro de la fila.
func (r *WorkOrderRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM work_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete work order: %w", err)
	}
	return nil
}

// AppendEvidence añade la referencia al final del arreglo JSONB. El append en
// SQL es conmutativo entre subidas concurrentes: ninguna pisa a la otra.
func (r *WorkOrderRepo) AppendEvidence(ctx context.Context, orderID string, f entity.EvidenceFile, now time.Time) error {
	ref, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal evidence: %w", err)
	}
	query := `
		UPDATE work_orders
		SET evidence = coalesce(evidence, '[]'::jsonb) || $2::jsonb, updated_at = $3
		WHERE id = $1`
	_, err = r.db.Exec(ctx, query, orderID, ref, now)
	if err != nil {
		return fmt.Errorf("append evidence: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row pgx.Row, op string) (*entity.WorkOrder, error) {
	o, err := scanInto(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}

func scanOrderRow(rows pgx.Rows) (*entity.WorkOrder, error) {
	o, err := scanInto(rows)
	if err != nil {
		return nil, fmt.Errorf("scan work order: %w", err)
	}
	return o, nil
}

func scanInto(s rowScanner) (*entity.WorkOrder, error) {
	var o entity.WorkOrder
	var state, priority string
	var payload, evidence []byte
	if err := s.Scan(&o.ID, &o.Title, &o.Description, &o.Area, &o.MachineRef, &o.RequesterName,
		&state, &priority, &o.EquipmentID, &o.CreatedBy, &o.AssignedTo, &o.WorkPerformed,
		&payload, &evidence, &o.StartedAt, &o.ClosedAt, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.State = entity.OrderState(state)
	o.Priority = entity.Priority(priority)
	if len(payload) > 0 {
		o.ReportPayload = json.RawMessage(payload)
	}
	if len(evidence) > 0 {
		if err := json.Unmarshal(evidence, &o.Evidence); err != nil {
			return nil, fmt.Errorf("unmarshal evidence: %w", err)
		}
	}
	return &o, nil
}

// nullableJSON convierte una carga vacía en NULL en vez de cadena vacía.
func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}

func marshalEvidence(files []entity.EvidenceFile) ([]byte, error) {
	if files == nil {
		files = []entity.EvidenceFile{}
	}
	b, err := json.Marshal(files)
	if err != nil {
		return nil, fmt.Errorf("marshal evidence: %w", err)
	}
	return b, nil
}
