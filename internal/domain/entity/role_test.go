package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

func TestRole_Valid(t *testing.T) {
	for _, r := range entity.AllRoles {
		assert.True(t, r.Valid(), "rol %s", r)
	}
	assert.False(t, entity.Role("ADMIN").Valid())
	assert.False(t, entity.Role("").Valid())
}

// SUPER_USER pasa cualquier guarda de rol, incluida una que no lo nombra.
func TestIsMember_SuperUserEsComodin(t *testing.T) {
	assert.True(t, entity.RoleSuperUser.IsMember(entity.RoleMaintenanceSupervisor))
	assert.True(t, entity.RoleSuperUser.IsMember(entity.RoleProductionOperator))
	assert.True(t, entity.RoleSuperUser.IsMember())
}

func TestIsMember_PertenenciaExacta(t *testing.T) {
	assert.True(t, entity.RoleMaintenanceOperator.IsMember(
		entity.RoleMaintenanceOperator, entity.RoleMaintenanceSupervisor))
	assert.False(t, entity.RoleProductionOperator.IsMember(
		entity.RoleMaintenanceOperator, entity.RoleMaintenanceSupervisor))
}

// Lista vacía: cualquier rol válido autenticado pasa; un rol desconocido no.
func TestIsMember_ListaVacia(t *testing.T) {
	assert.True(t, entity.RoleProductionOperator.IsMember())
	assert.False(t, entity.Role("desconocido").IsMember())
}
