package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo implementación del puerto ReportRepository sobre PostgreSQL.
type ReportRepo struct {
	db querier
}

// NewReportRepository construye el adaptador de persistencia para reportes.
func NewReportRepository(db querier) *ReportRepo {
	return &ReportRepo{db: db}
}

// Create inserta el reporte. El constraint único sobre order_id convierte la
// carrera de doble creación en domain.ErrDuplicate determinista.
func (r *ReportRepo) Create(ctx context.Context, rep *entity.Report) error {
	query := `
		INSERT INTO reports (id, order_id, generated_by, signature_ref, observations, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(ctx, query,
		rep.ID, rep.OrderID, rep.GeneratedBy, rep.SignatureRef, rep.Observations, rep.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// GetByOrderID obtiene el reporte de una orden. (nil, nil) si no existe.
func (r *ReportRepo) GetByOrderID(ctx context.Context, orderID string) (*entity.Report, error) {
	query := `
		SELECT id, order_id, generated_by, signature_ref, observations, created_at
		FROM reports WHERE order_id = $1`
	var rep entity.Report
	err := r.db.QueryRow(ctx, query, orderID).Scan(
		&rep.ID, &rep.OrderID, &rep.GeneratedBy, &rep.SignatureRef, &rep.Observations, &rep.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get report by order: %w", err)
	}
	return &rep, nil
}

// DeleteByOrderID elimina el reporte de una orden (cascada del borrado administrativo).
func (r *ReportRepo) DeleteByOrderID(ctx context.Context, orderID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM reports WHERE order_id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("delete report by order: %w", err)
	}
	return nil
}
