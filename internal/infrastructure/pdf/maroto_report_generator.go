// Package pdf implementa la proyección del informe técnico de una orden de
// trabajo cerrada.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Informe Técnico de Mantenimiento │ N° Orden + Fecha │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ORDEN: título, área, máquina, prioridad, solicitante        │
//	│  EJECUCIÓN: técnico asignado, inicio, cierre                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TRABAJO REALIZADO (texto libre)                             │
//	│  OBSERVACIONES del informe                                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FIRMA: referencia de firma + fecha de generación            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Mantenimiento-api/internal/application/report"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ report.OrderPDFGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa report.OrderPDFGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateOrderPDF genera el PDF del informe técnico y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateOrderPDF(
	_ context.Context,
	order *entity.WorkOrder,
	rep *entity.Report,
	technician *entity.User,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Informe Técnico de Mantenimiento", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(orderRows(order)...)
	m.AddRows(executionRow(order, technician))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(sectionRows("Trabajo realizado", order.WorkPerformed)...)
	if rep.Observations != nil && *rep.Observations != "" {
		m.AddRows(sectionRows("Observaciones", *rep.Observations)...)
	}
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(signatureRow(rep))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título del informe (izq) y N° de orden + fecha de cierre (der).
func headerRow(order *entity.WorkOrder) core.Row {
	fecha := ""
	if order.ClosedAt != nil {
		fecha = order.ClosedAt.Format("02/01/2006")
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New("Informe Técnico de Mantenimiento", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("Orden N° "+order.ID, props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New("Cierre: "+fecha, props.Text{
				Size: 9, Align: align.Right, Top: 8,
			}),
		),
	)
}

// orderRows: datos de la solicitud.
func orderRows(order *entity.WorkOrder) []core.Row {
	return []core.Row{
		row.New(8).Add(
			col.New(12).Add(text.New(order.Title, props.Text{Style: fontstyle.Bold, Size: 11, Top: 1})),
		),
		row.New(6).Add(
			labelValue(4, "Área", order.Area),
			labelValue(4, "Máquina", order.MachineRef),
			labelValue(4, "Prioridad", string(order.Priority)),
		),
		row.New(6).Add(
			labelValue(6, "Solicitante", order.RequesterName),
			labelValue(6, "Descripción", order.Description),
		),
	}
}

// executionRow: técnico y ventana de ejecución.
func executionRow(order *entity.WorkOrder, technician *entity.User) core.Row {
	tec := "—"
	if technician != nil {
		tec = technician.DisplayName + " (" + technician.LoginName + ")"
	}
	inicio, cierre := "—", "—"
	if order.StartedAt != nil {
		inicio = order.StartedAt.Format("02/01/2006 15:04")
	}
	if order.ClosedAt != nil {
		cierre = order.ClosedAt.Format("02/01/2006 15:04")
	}
	return row.New(6).Add(
		labelValue(4, "Técnico", tec),
		labelValue(4, "Inicio", inicio),
		labelValue(4, "Fin", cierre),
	)
}

// sectionRows: título de sección + bloque de texto libre.
func sectionRows(title, body string) []core.Row {
	return []core.Row{
		row.New(7).Add(
			col.New(12).Add(text.New(title, props.Text{Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 2})),
		),
		row.New(14).Add(
			col.New(12).Add(text.New(body, props.Text{Size: 9, Top: 1})),
		),
	}
}

// signatureRow: referencia de firma y fecha de generación del informe.
func signatureRow(rep *entity.Report) core.Row {
	firma := "sin firma registrada"
	if rep.SignatureRef != nil && *rep.SignatureRef != "" {
		firma = *rep.SignatureRef
	}
	return row.New(10).Add(
		labelValue(8, "Firma", firma),
		labelValue(4, "Generado", rep.CreatedAt.Format("02/01/2006 15:04")),
	)
}

func labelValue(size int, label, value string) core.Col {
	if value == "" {
		value = "—"
	}
	return col.New(size).Add(
		text.New(label+": "+value, props.Text{Size: 9, Top: 1}),
	)
}
