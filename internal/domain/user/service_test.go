package user

import (
	"context"
	"errors"
	"strings"
	"testing"

	"census-app-go/internal/domain/access"
	"census-app-go/internal/domain/validation"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	nextID    int64
	users     map[int64]*User
	schedules map[int64]int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*User), schedules: make(map[int64]int64)}
}

func (r *fakeUserRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeUserRepo) Get(ctx context.Context, id int64) (*User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeUserRepo) List(ctx context.Context, role string) ([]User, error) {
	var result []User
	for id := int64(1); id <= r.nextID; id++ {
		user, ok := r.users[id]
		if ok && (role == "" || user.Role == role) {
			result = append(result, *user)
		}
	}
	return result, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user *User) error {
	r.nextID++
	user.ID = r.nextID
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) UpsertByEmail(ctx context.Context, user *User) error {
	if existing, err := r.GetByEmail(ctx, user.Email); err == nil {
		user.ID = existing.ID
		return r.Update(ctx, user)
	}
	return r.Create(ctx, user)
}

func (r *fakeUserRepo) Update(ctx context.Context, user *User) error {
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id int64) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	for _, user := range r.users {
		if user.ID != exceptID && user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) CountOwnedSchedules(ctx context.Context, userID int64) (int64, error) {
	return r.schedules[userID], nil
}

func newTestService(repo Repository) *Service {
	service := NewService(repo)
	service.hashCost = bcrypt.MinCost
	return service
}

var admin = access.Actor{ID: 100, Role: access.RoleAdmin}

func TestSupervisorAlwaysCreatesFieldWorkers(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newFakeUserRepo())
	supervisor := access.Actor{ID: 50, Role: access.RoleSupervisor}

	user, err := service.Create(ctx, supervisor, Input{
		Name:        "Luis",
		Email:       "Luis@Example.com ",
		Password:    "secret1",
		Role:        access.RoleAdmin,
		Permissions: []string{access.PermissionEdit},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.Role != access.RoleUser || len(user.Permissions) != 0 {
		t.Fatalf("expected plain user, got role=%s permissions=%v", user.Role, user.Permissions)
	}
	if user.Email != "luis@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newFakeUserRepo())

	_, err := service.Create(ctx, admin, Input{Name: "", Email: "nope", Password: "123", Role: "owner"})
	var fields validation.Errors
	if !errors.As(err, &fields) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	for _, field := range []string{"name", "email", "password", "role"} {
		if !fields.Has(field) {
			t.Fatalf("expected %s error, got %v", field, fields)
		}
	}

	if _, err := service.Create(ctx, admin, Input{Name: "Ana", Email: "ana@example.com", Password: "secret1", Role: access.RoleUser}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = service.Create(ctx, admin, Input{Name: "Ana 2", Email: "ANA@example.com", Password: "secret1", Role: access.RoleUser})
	if !errors.As(err, &fields) || !fields.Has("email") {
		t.Fatalf("expected duplicate email error, got %v", err)
	}

	long := strings.Repeat("a", 80)
	_, err = service.Create(ctx, admin, Input{Name: "Beto", Email: "beto@example.com", Password: long, Role: access.RoleUser})
	fields = nil
	if !errors.As(err, &fields) || !fields.Has("password") {
		t.Fatalf("expected password length error, got %v", err)
	}
}

func TestUpdateRejectsOverlongPassword(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newFakeUserRepo())
	created, err := service.Create(ctx, admin, Input{Name: "Ana", Email: "ana@example.com", Password: "secret1", Role: access.RoleUser})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = service.Update(ctx, admin, created.ID, Input{Name: "Ana", Email: "ana@example.com", Password: strings.Repeat("b", 73), Role: access.RoleUser})
	var fields validation.Errors
	if !errors.As(err, &fields) || !fields.Has("password") {
		t.Fatalf("expected password length error, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newFakeUserRepo())
	created, err := service.Create(ctx, admin, Input{Name: "Ana", Email: "ana@example.com", Password: "secret1", Role: access.RoleSupervisor})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	user, err := service.Authenticate(ctx, " ANA@example.com", "secret1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.ID != created.ID {
		t.Fatalf("expected user %d, got %d", created.ID, user.ID)
	}

	if _, err := service.Authenticate(ctx, "ana@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := service.Authenticate(ctx, "ghost@example.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown email, got %v", err)
	}
}

func TestUpdateKeepsPasswordWhenEmpty(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	service := newTestService(repo)
	created, _ := service.Create(ctx, admin, Input{Name: "Ana", Email: "ana@example.com", Password: "secret1", Role: access.RoleUser})
	hash := repo.users[created.ID].PasswordHash

	if _, err := service.Update(ctx, admin, created.ID, Input{Name: "Ana María", Email: "ana@example.com", Role: access.RoleUser}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if repo.users[created.ID].PasswordHash != hash {
		t.Fatalf("password hash must not change")
	}
	if repo.users[created.ID].Name != "Ana María" {
		t.Fatalf("expected name updated, got %q", repo.users[created.ID].Name)
	}
}

func TestSupervisorCannotEditSupervisors(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newFakeUserRepo())
	other, _ := service.Create(ctx, admin, Input{Name: "Sup", Email: "sup@example.com", Password: "secret1", Role: access.RoleSupervisor})

	supervisor := access.Actor{ID: 50, Role: access.RoleSupervisor}
	_, err := service.Update(ctx, supervisor, other.ID, Input{Name: "Sup", Email: "sup@example.com", Role: access.RoleUser})
	if !errors.Is(err, access.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestDeleteRules(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	service := newTestService(repo)
	worker, _ := service.Create(ctx, admin, Input{Name: "Worker", Email: "w@example.com", Password: "secret1", Role: access.RoleUser})

	if err := service.Delete(ctx, admin, admin.ID); !errors.Is(err, ErrCannotDeleteSelf) {
		t.Fatalf("expected ErrCannotDeleteSelf, got %v", err)
	}

	repo.schedules[worker.ID] = 1
	if err := service.Delete(ctx, admin, worker.ID); !errors.Is(err, ErrUserHasSchedules) {
		t.Fatalf("expected ErrUserHasSchedules, got %v", err)
	}

	delete(repo.schedules, worker.ID)
	if err := service.Delete(ctx, access.Actor{ID: 50, Role: access.RoleSupervisor}, worker.ID); !errors.Is(err, access.ErrForbidden) {
		t.Fatalf("expected supervisor without edit permission to be forbidden, got %v", err)
	}
	if err := service.Delete(ctx, admin, worker.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestListScopedByRole(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newFakeUserRepo())
	_, _ = service.Create(ctx, admin, Input{Name: "Sup", Email: "sup@example.com", Password: "secret1", Role: access.RoleSupervisor})
	_, _ = service.Create(ctx, admin, Input{Name: "Worker", Email: "w@example.com", Password: "secret1", Role: access.RoleUser})

	all, err := service.List(ctx, admin)
	if err != nil || len(all) != 2 {
		t.Fatalf("expected 2 users for admin, got %d (%v)", len(all), err)
	}
	scoped, err := service.List(ctx, access.Actor{ID: 50, Role: access.RoleSupervisor})
	if err != nil || len(scoped) != 1 || scoped[0].Role != access.RoleUser {
		t.Fatalf("expected only field workers for supervisor, got %v (%v)", scoped, err)
	}
}
