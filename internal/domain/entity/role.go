package entity

// Role rol fijo de un usuario dentro de la planta. Conjunto cerrado,
// definido al arrancar el proceso; nunca se amplía en runtime.
type Role string

const (
	RoleProductionOperator    Role = "PRODUCTION_OPERATOR"
	RoleMaintenanceOperator   Role = "MAINTENANCE_OPERATOR"
	RoleMaintenanceSupervisor Role = "MAINTENANCE_SUPERVISOR"
	RoleSuperUser             Role = "SUPER_USER"
)

// AllRoles orden total de los roles; se usa solo para seed y presentación,
// nunca para decisiones de autorización.
var AllRoles = []Role{
	RoleProductionOperator,
	RoleMaintenanceOperator,
	RoleMaintenanceSupervisor,
	RoleSuperUser,
}

// Valid indica si el valor pertenece al enum.
func (r Role) Valid() bool {
	switch r {
	case RoleProductionOperator, RoleMaintenanceOperator, RoleMaintenanceSupervisor, RoleSuperUser:
		return true
	}
	return false
}

// IsMember es el único punto de chequeo de pertenencia de rol: devuelve true
// si el rol es SUPER_USER (comodín global) o si está dentro de allowed.
// Un allowed vacío significa "cualquier actor autenticado".
func (r Role) IsMember(allowed ...Role) bool {
	if r == RoleSuperUser {
		return true
	}
	if len(allowed) == 0 {
		return r.Valid()
	}
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}
