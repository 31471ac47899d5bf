package access

import "errors"

const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleUser       = "user"
)

const (
	PermissionSupervise = "supervisor.recoleccion"
	PermissionManage    = "manage.recoleccion"
	PermissionEdit      = "edit.recoleccion"
)

var ErrForbidden = errors.New("forbidden")

// Actor is the authenticated identity every policy decision is made against.
type Actor struct {
	ID          int64
	Role        string
	Permissions []string
}

// Subject is the user whose data is being read or changed.
type Subject struct {
	ID   int64
	Role string
}

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleSupervisor, RoleUser:
		return true
	}
	return false
}

func ValidPermission(permission string) bool {
	switch permission {
	case PermissionSupervise, PermissionManage, PermissionEdit:
		return true
	}
	return false
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) Has(permission string) bool {
	for _, p := range a.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

func (a Actor) elevated() bool {
	return a.IsAdmin() || a.Role == RoleSupervisor || a.Has(PermissionSupervise) || a.Has(PermissionManage)
}

// CanManage gates the administrative screens: census, schedules, reference data, users.
func CanManage(actor Actor) error {
	if actor.elevated() {
		return nil
	}
	return ErrForbidden
}

func CanDelete(actor Actor) error {
	if actor.IsAdmin() || actor.Has(PermissionEdit) {
		return nil
	}
	return ErrForbidden
}

func CanViewEvidenceOf(actor Actor, target Subject) error {
	if actor.ID == target.ID {
		return nil
	}
	if !actor.elevated() {
		return ErrForbidden
	}
	if actor.IsAdmin() || target.Role == RoleUser {
		return nil
	}
	return ErrForbidden
}

// AssignableRole returns the role a new or edited user actually receives.
func AssignableRole(actor Actor, requested string) string {
	if actor.IsAdmin() {
		return requested
	}
	return RoleUser
}

func CanManageUser(actor Actor, target Subject) error {
	if err := CanManage(actor); err != nil {
		return err
	}
	if actor.IsAdmin() || target.Role == RoleUser {
		return nil
	}
	return ErrForbidden
}

// CanAssignScheduleTo reports whether actor may own-assign a schedule to target.
func CanAssignScheduleTo(actor Actor, target Subject) error {
	return CanManageUser(actor, target)
}

// IsFieldWorkerOnly drives the soft redirect to the evidence screen.
func IsFieldWorkerOnly(actor Actor) bool {
	return actor.Role == RoleUser && !actor.elevated() && !actor.Has(PermissionEdit)
}
