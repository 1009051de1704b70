package entity_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

func newOrder(state entity.OrderState) *entity.WorkOrder {
	return &entity.WorkOrder{
		ID:       "ord-1",
		Title:    "Cambio de rodamiento",
		Area:     "Prensas",
		State:    state,
		Priority: entity.PriorityMedium,
	}
}

var testNow = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

// ──────────────────────────────────────────────────────────────────────────────
// Start
// ──────────────────────────────────────────────────────────────────────────────

// Caso feliz: pending sin asignar → in_progress con auto-asignación al actor.
func TestStart_PendingSinAsignar_AutoAsigna(t *testing.T) {
	o := newOrder(entity.StatePending)

	require.NoError(t, o.Start("tech-1", testNow))

	assert.Equal(t, entity.StateInProgress, o.State)
	require.NotNil(t, o.AssignedTo, "el actor debe quedar como técnico asignado")
	assert.Equal(t, "tech-1", *o.AssignedTo)
	require.NotNil(t, o.StartedAt)
	assert.Equal(t, testNow, *o.StartedAt)
}

// Si la orden ya tiene técnico, el actor que inicia no pisa la asignación.
func TestStart_ConAsignacionPrevia_NoLaPisa(t *testing.T) {
	o := newOrder(entity.StatePending)
	assigned := "tech-1"
	o.AssignedTo = &assigned

	require.NoError(t, o.Start("supervisor-9", testNow))

	assert.Equal(t, "tech-1", *o.AssignedTo,
		"la asignación existente no debe cambiar al iniciar")
}

// Iniciar fuera de pending es conflicto, nunca un no-op silencioso.
func TestStart_FueraDePending_Conflicto(t *testing.T) {
	for _, state := range []entity.OrderState{
		entity.StateInProgress, entity.StateCompleted, entity.StateClosed, entity.StateCancelled,
	} {
		o := newOrder(state)
		err := o.Start("tech-1", testNow)
		require.Error(t, err, "estado %s", state)
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.Contains(t, err.Error(), string(state),
			"el error debe nombrar el estado actual")
		assert.Equal(t, state, o.State, "un start rechazado no debe mutar la orden")
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Finish
// ──────────────────────────────────────────────────────────────────────────────

func TestFinish_EnEjecucion_GuardaTrabajoYPayload(t *testing.T) {
	o := newOrder(entity.StateInProgress)
	payload := json.RawMessage(`{"repuestos":[{"codigo":"R-77","cantidad":2}]}`)

	require.NoError(t, o.Finish("se reemplazó el rodamiento", payload, testNow))

	assert.Equal(t, entity.StateCompleted, o.State)
	assert.Equal(t, "se reemplazó el rodamiento", o.WorkPerformed)
	assert.JSONEq(t, string(payload), string(o.ReportPayload),
		"el payload debe conservarse tal cual, sin interpretarse")
	require.NotNil(t, o.ClosedAt)
}

func TestFinish_FueraDeInProgress_Conflicto(t *testing.T) {
	for _, state := range []entity.OrderState{
		entity.StatePending, entity.StateCompleted, entity.StateClosed, entity.StateCancelled,
	} {
		o := newOrder(state)
		err := o.Finish("trabajo", nil, testNow)
		assert.ErrorIs(t, err, domain.ErrConflict, "estado %s", state)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Close / Cancel
// ──────────────────────────────────────────────────────────────────────────────

func TestClose_SoloDesdeCompleted(t *testing.T) {
	o := newOrder(entity.StateCompleted)
	require.NoError(t, o.Close(testNow))
	assert.Equal(t, entity.StateClosed, o.State)

	for _, state := range []entity.OrderState{
		entity.StatePending, entity.StateInProgress, entity.StateClosed, entity.StateCancelled,
	} {
		o := newOrder(state)
		assert.ErrorIs(t, o.Close(testNow), domain.ErrConflict, "estado %s", state)
	}
}

func TestCancel_DesdePendingEInProgress(t *testing.T) {
	for _, state := range []entity.OrderState{entity.StatePending, entity.StateInProgress} {
		o := newOrder(state)
		require.NoError(t, o.Cancel(testNow), "estado %s", state)
		assert.Equal(t, entity.StateCancelled, o.State)
	}
}

func TestCancel_EstadosTerminalesYCompleted_Conflicto(t *testing.T) {
	for _, state := range []entity.OrderState{
		entity.StateCompleted, entity.StateClosed, entity.StateCancelled,
	} {
		o := newOrder(state)
		err := o.Cancel(testNow)
		assert.ErrorIs(t, err, domain.ErrConflict, "estado %s", state)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Assign
// ──────────────────────────────────────────────────────────────────────────────

func TestAssignTo_PendingEInProgress_OK(t *testing.T) {
	for _, state := range []entity.OrderState{entity.StatePending, entity.StateInProgress} {
		o := newOrder(state)
		require.NoError(t, o.AssignTo("tech-2", testNow), "estado %s", state)
		assert.Equal(t, "tech-2", *o.AssignedTo)
		assert.Equal(t, state, o.State, "asignar no debe cambiar el estado")
	}
}

func TestAssignTo_TrabajoTerminado_Conflicto(t *testing.T) {
	for _, state := range []entity.OrderState{
		entity.StateCompleted, entity.StateClosed, entity.StateCancelled,
	} {
		o := newOrder(state)
		err := o.AssignTo("tech-2", testNow)
		require.Error(t, err, "estado %s", state)
		assert.True(t, errors.Is(err, domain.ErrConflict))
		assert.Nil(t, o.AssignedTo)
	}
}

// Reasignar una orden en ejecución reemplaza al técnico sin tocar StartedAt.
func TestAssignTo_Reasignacion_EnEjecucion(t *testing.T) {
	o := newOrder(entity.StateInProgress)
	prev := "tech-1"
	started := testNow.Add(-time.Hour)
	o.AssignedTo = &prev
	o.StartedAt = &started

	require.NoError(t, o.AssignTo("tech-2", testNow))

	assert.Equal(t, "tech-2", *o.AssignedTo)
	assert.Equal(t, started, *o.StartedAt)
}

// ──────────────────────────────────────────────────────────────────────────────
// Estados y evidencias
// ──────────────────────────────────────────────────────────────────────────────

func TestOrderState_Terminal(t *testing.T) {
	assert.True(t, entity.StateClosed.Terminal())
	assert.True(t, entity.StateCancelled.Terminal())
	assert.False(t, entity.StatePending.Terminal())
	assert.False(t, entity.StateInProgress.Terminal())
	assert.False(t, entity.StateCompleted.Terminal())
}

func TestOrderState_Valid(t *testing.T) {
	assert.True(t, entity.StateInProgress.Valid())
	assert.False(t, entity.OrderState("archived").Valid())
}

func TestAppendEvidence_EsAppendOnly(t *testing.T) {
	o := newOrder(entity.StateInProgress)
	o.AppendEvidence(entity.EvidenceFile{Path: "a.jpg", OriginalName: "foto.jpg"}, testNow)
	o.AppendEvidence(entity.EvidenceFile{Path: "b.pdf", OriginalName: "manual.pdf"}, testNow)

	require.Len(t, o.Evidence, 2)
	assert.Equal(t, "a.jpg", o.Evidence[0].Path)
	assert.Equal(t, "b.pdf", o.Evidence[1].Path)
}
