package access

import (
	"errors"
	"testing"
)

func TestCanViewEvidenceOf(t *testing.T) {
	admin := Actor{ID: 1, Role: RoleAdmin}
	supervisor := Actor{ID: 2, Role: RoleSupervisor}
	worker := Actor{ID: 3, Role: RoleUser}
	delegated := Actor{ID: 4, Role: RoleUser, Permissions: []string{PermissionSupervise}}

	cases := []struct {
		name   string
		actor  Actor
		target Subject
		want   error
	}{
		{"own data", worker, Subject{ID: 3, Role: RoleUser}, nil},
		{"worker on other worker", worker, Subject{ID: 9, Role: RoleUser}, ErrForbidden},
		{"supervisor on worker", supervisor, Subject{ID: 9, Role: RoleUser}, nil},
		{"supervisor on supervisor", supervisor, Subject{ID: 8, Role: RoleSupervisor}, ErrForbidden},
		{"supervisor on admin", supervisor, Subject{ID: 1, Role: RoleAdmin}, ErrForbidden},
		{"admin on supervisor", admin, Subject{ID: 2, Role: RoleSupervisor}, nil},
		{"delegated permission on worker", delegated, Subject{ID: 9, Role: RoleUser}, nil},
		{"delegated permission on admin", delegated, Subject{ID: 1, Role: RoleAdmin}, ErrForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CanViewEvidenceOf(tc.actor, tc.target)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCanDeleteRequiresAdminOrEditPermission(t *testing.T) {
	if err := CanDelete(Actor{Role: RoleSupervisor}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected supervisor without edit permission to be forbidden, got %v", err)
	}
	if err := CanDelete(Actor{Role: RoleSupervisor, Permissions: []string{PermissionEdit}}); err != nil {
		t.Fatalf("expected edit permission to allow delete, got %v", err)
	}
	if err := CanDelete(Actor{Role: RoleAdmin}); err != nil {
		t.Fatalf("expected admin to delete, got %v", err)
	}
}

func TestAssignableRole(t *testing.T) {
	if got := AssignableRole(Actor{Role: RoleSupervisor}, RoleAdmin); got != RoleUser {
		t.Fatalf("supervisor must always assign user role, got %q", got)
	}
	if got := AssignableRole(Actor{Role: RoleAdmin}, RoleSupervisor); got != RoleSupervisor {
		t.Fatalf("admin keeps requested role, got %q", got)
	}
}

func TestCanManageUser(t *testing.T) {
	supervisor := Actor{ID: 2, Role: RoleSupervisor}
	if err := CanManageUser(supervisor, Subject{ID: 5, Role: RoleUser}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CanManageUser(supervisor, Subject{ID: 6, Role: RoleSupervisor}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := CanManageUser(Actor{ID: 3, Role: RoleUser}, Subject{ID: 5, Role: RoleUser}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden for field worker, got %v", err)
	}
}

func TestIsFieldWorkerOnly(t *testing.T) {
	if !IsFieldWorkerOnly(Actor{Role: RoleUser}) {
		t.Fatalf("plain user must be a field worker")
	}
	if IsFieldWorkerOnly(Actor{Role: RoleUser, Permissions: []string{PermissionManage}}) {
		t.Fatalf("manage permission lifts the guard")
	}
	if IsFieldWorkerOnly(Actor{Role: RoleSupervisor}) {
		t.Fatalf("supervisor is not a field worker")
	}
}
